package language

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrUnrecognized is returned when no language can be resolved for an input.
// It is always surfaced to the caller, never recovered silently.
var ErrUnrecognized = errors.New("unrecognized language")

// Registry holds the compiled language table. Definitions are compiled once,
// when added, and the resulting Compiled values are read-only; build the
// registry at process start, before any parsing begins.
type Registry struct {
	byExt map[string]*Compiled
}

// NewRegistry returns a registry preloaded with the built-in table.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]*Compiled, len(builtins))}
	for ext, d := range builtins {
		r.byExt[ext] = Compile(d)
	}
	return r
}

// Add compiles a definition and registers it under ext, replacing any
// previous entry for that extension.
func (r *Registry) Add(ext string, d Definition) {
	r.byExt[ext] = Compile(d)
}

// Lookup resolves a language by file extension, dot included.
func (r *Registry) Lookup(ext string) (*Compiled, bool) {
	c, ok := r.byExt[ext]
	return c, ok
}

// ByName resolves a language by its canonical name.
func (r *Registry) ByName(name string) (*Compiled, bool) {
	for _, c := range r.byExt {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

var extPattern = regexp.MustCompile(`.*(\..+)`)

// Detect resolves the language for a source file. An explicit override wins;
// otherwise the file extension is looked up against the table; failing that,
// a best-effort guess is made from the content itself. When all three fail
// the error wraps ErrUnrecognized and carries the attempted value.
func (r *Registry) Detect(path, code, override string) (*Compiled, error) {
	if override != "" {
		if c, ok := r.ByName(override); ok {
			return c, nil
		}
		return nil, fmt.Errorf("%w: unknown forced language %q", ErrUnrecognized, override)
	}

	if path != "" {
		if m := extPattern.FindStringSubmatch(filepath.Base(path)); m != nil {
			if c, ok := r.Lookup(m[1]); ok {
				return c, nil
			}
		}
	}

	if name := guess(code); name != "" {
		if c, ok := r.ByName(name); ok {
			return c, nil
		}
	}

	return nil, fmt.Errorf("%w: cannot determine language for %q", ErrUnrecognized, path)
}

// interpreters maps shebang interpreter names to language names.
var interpreters = map[string]string{
	"python":  "python",
	"perl":    "perl",
	"bash":    "bash",
	"sh":      "bash",
	"zsh":     "bash",
	"ruby":    "ruby",
	"lua":     "lua",
	"julia":   "julia",
	"tclsh":   "tcl",
	"Rscript": "r",
	"node":    "javascript",
}

var (
	emacsModeline = regexp.MustCompile(`-\*-\s*(?:[Mm]ode:\s*)?([A-Za-z][A-Za-z+-]*)\s*.*-\*-`)
	vimModeline   = regexp.MustCompile(`vim:.*\b(?:ft|filetype)=([a-z]+)`)
)

// guess inspects the first lines of the content for a shebang or an editor
// modeline and returns a language name, or "" when nothing matched.
func guess(code string) string {
	lines := strings.SplitN(code, "\n", 3)

	if fields := strings.Fields(strings.TrimPrefix(lines[0], "#!")); strings.HasPrefix(lines[0], "#!") && len(fields) > 0 {
		interp := filepath.Base(fields[0])
		if interp == "env" && len(fields) > 1 {
			interp = filepath.Base(fields[len(fields)-1])
		}
		interp = strings.TrimRight(interp, "0123456789.")
		if name, ok := interpreters[interp]; ok {
			return name
		}
	}

	// Modelines conventionally appear within the first two lines.
	for _, line := range lines[:min(2, len(lines))] {
		if m := emacsModeline.FindStringSubmatch(line); m != nil {
			return strings.ToLower(m[1])
		}
		if m := vimModeline.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}

	return ""
}
