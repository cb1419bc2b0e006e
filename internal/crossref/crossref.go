// Package crossref rewrites cross-references in documentation text before
// it is rendered. Two surface syntaxes are supported: double-bracket links
// to other files in the corpus, `[[main.py]]` or `[[main.py#anchor]]`, and
// equals-sign section headings, `=== like this ===`, which become anchored
// headings other files can link to.
package crossref

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"sidedoc/internal/paths"
)

var (
	// An optional leading backtick is captured so references inside inline
	// code can be left alone.
	refPattern     = regexp.MustCompile("(`)?\\[\\[(.+?)\\]\\]")
	headingPattern = regexp.MustCompile(`(?m)^(=+)([^=\n]+)=*[ \t]*$`)
)

// Preprocess resolves both syntaxes in one documentation fragment. The
// transform is pure: no side effects, identical output for identical input.
// Link URLs use the basename of the destination computed for the target
// under the same output configuration as the rest of the run.
func Preprocess(comment string, opts paths.Options) string {
	comment = headingPattern.ReplaceAllStringFunc(comment, replaceHeading)
	comment = refPattern.ReplaceAllStringFunc(comment, func(match string) string {
		return replaceRef(match, opts)
	})
	return comment
}

func replaceRef(match string, opts paths.Options) string {
	m := refPattern.FindStringSubmatch(match)
	if m[1] == "`" {
		// Preceded by a backtick: literal text, not a reference.
		return match
	}

	target := m[2]
	if name, anchor, ok := strings.Cut(target, "#"); ok {
		base := filepath.Base(paths.Destination(name, opts))
		return fmt.Sprintf(" [%s](%s#%s)", name, base, anchor)
	}
	base := filepath.Base(paths.Destination(target, opts))
	return fmt.Sprintf(" [%s](%s)", target, base)
}

func replaceHeading(match string) string {
	m := headingPattern.FindStringSubmatch(match)
	level := strings.Repeat("#", len(m[1]))
	name := m[2]
	id := anchorID(name)
	return fmt.Sprintf(`%s <span id="%s" href="%s">%s</span>`, level, id, id, name)
}

// anchorID lower-cases the heading text, trims it, and joins its words
// with hyphens.
func anchorID(name string) string {
	return strings.Join(strings.Split(strings.TrimSpace(strings.ToLower(name)), " "), "-")
}
