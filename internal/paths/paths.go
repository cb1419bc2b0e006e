// Package paths computes where a source file's documentation page lives.
package paths

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Options control destination computation.
type Options struct {
	// OutDir is the directory all output lands under.
	OutDir string

	// PreservePaths keeps the input's relative directory structure instead
	// of flattening everything into OutDir.
	PreservePaths bool

	// Underlines disambiguates sibling files that differ only in extension:
	// the old extension is folded into the name with dots replaced by
	// underscores, so x.py and x.css become x_py.html and x_css.html.
	Underlines bool

	// Extension is the output extension without the dot. Empty means html;
	// single-column output modes use md or adoc.
	Extension string
}

// Destination maps an input file path to its output path. The computation
// is deterministic for identical arguments, and the result always lies
// under OutDir, even when the computed relative path looks absolute.
func Destination(file string, opts Options) string {
	ext := opts.Extension
	if ext == "" {
		ext = "html"
	}

	dir, name := filepath.Split(file)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	if opts.Underlines {
		name = name + filepath.Ext(file)
		name = strings.ReplaceAll(name, ".", "_")
	}
	if opts.PreservePaths {
		name = filepath.Join(dir, name)
	}

	dest := filepath.Join(opts.OutDir, name+"."+ext)
	if !strings.HasPrefix(dest, opts.OutDir) {
		dest = opts.OutDir + string(filepath.Separator) + dest
	}
	return dest
}

// EnsureDirectory strips control characters from the directory name and
// creates it if it does not exist, returning the sanitized path.
func EnsureDirectory(dir string) (string, error) {
	dir = removeControlChars(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func removeControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
