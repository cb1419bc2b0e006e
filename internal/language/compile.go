package language

import "regexp"

// Compiled is a Definition plus the matchers derived from it. Values are
// immutable after Compile returns and safe to share across concurrent parses.
type Compiled struct {
	Definition

	// CommentMatcher matches a line that is entirely a single-line comment,
	// leading whitespace included.
	CommentMatcher *regexp.Regexp

	// DividerText is the synthetic comment inserted between sections so a
	// highlighter can process a whole file in one call.
	DividerText string

	// DividerPattern splits highlighter output back into per-section text.
	DividerPattern *regexp.Regexp
}

// Compile derives the matchers for a definition. It is a pure function:
// compiling the same definition twice yields identical derived fields.
// Comment symbols are quoted before compilation, so markers containing
// regexp metacharacters (`*/`, `%`, `#|`) behave literally.
func Compile(d Definition) *Compiled {
	sym := regexp.QuoteMeta(d.SingleComment)
	return &Compiled{
		Definition:     d,
		CommentMatcher: regexp.MustCompile(`^\s*` + sym + `\s?`),
		DividerText:    "\n" + d.SingleComment + "DIVIDER\n",
		DividerPattern: regexp.MustCompile(`\n*<span class="c[1]?">` + sym + `DIVIDER</span>\n*`),
	}
}
