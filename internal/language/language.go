// Package language holds the table of supported languages: for each file
// extension, the comment syntax the section parser needs, plus the matchers
// derived from it. To teach sidedoc another language, add it here or supply
// a definitions file (see LoadCustom).
package language

// Common comment markers shared between table entries.
const (
	hash        = "#"
	slashStar   = "/*"
	starSlash   = "*/"
	slashSlash  = "//"
	dashDash    = "--"
	tripleQuote = `"""`
)

// Definition describes the comment syntax of one language. SingleComment is
// always set; MultiStart and MultiEnd are either both set or both empty.
// GrammarAware marks languages whose comment/code boundary cannot be decided
// line by line, so parsing is handed to a registered grammar parser instead
// of the generic classifier.
type Definition struct {
	Name          string `yaml:"name"`
	SingleComment string `yaml:"single_comment"`
	MultiStart    string `yaml:"multi_start,omitempty"`
	MultiEnd      string `yaml:"multi_end,omitempty"`
	GrammarAware  bool   `yaml:"grammar_aware,omitempty"`
}

// HasMultiLine reports whether the language has block comment delimiters.
func (d Definition) HasMultiLine() bool {
	return d.MultiStart != "" && d.MultiEnd != ""
}

func def(name, single string) Definition {
	return Definition{Name: name, SingleComment: single}
}

func defMulti(name, single, start, end string) Definition {
	return Definition{Name: name, SingleComment: single, MultiStart: start, MultiEnd: end}
}

var cLang = defMulti("c", slashSlash, slashStar, starSlash)

// builtins maps file extensions to their language definitions.
var builtins = map[string]Definition{
	".coffee": defMulti("coffee-script", hash, "###", "###"),
	".pl":     def("perl", hash),
	".sql":    defMulti("sql", dashDash, slashStar, starSlash),
	".sh":     def("bash", hash),
	".c":      cLang,
	".h":      cLang,
	".cl":     cLang,

	// Strictly, css has no single-line comment form, but the marker is still
	// needed to synthesize divider tokens.
	".css": defMulti("css", slashSlash, slashStar, starSlash),
	".cpp": defMulti("cpp", slashSlash, slashStar, starSlash),
	".js":  defMulti("javascript", slashSlash, slashStar, starSlash),
	".rb":  defMulti("ruby", hash, "=begin", "=end"),

	// Triple-quoted blocks in Python can appear anywhere, not just as
	// docstrings, so classification needs the grammar.
	".py": {Name: "python", SingleComment: hash, MultiStart: tripleQuote, MultiEnd: tripleQuote, GrammarAware: true},

	// Cython stays on the generic line-oriented path.
	".pyx": defMulti("cython", hash, tripleQuote, tripleQuote),

	".scm": defMulti("scheme", ";;", "#|", "|#"),
	".lua": defMulti("lua", dashDash, "--[[", "--]]"),
	".erl": def("erlang", "%%"),
	".tcl": def("tcl", hash),
	".hs":  defMulti("haskell", dashDash, "{-", "-}"),
	".r":   def("r", hash),
	".R":   def("r", hash),
	".jl":  defMulti("julia", hash, "#=", "=#"),
	".m":   defMulti("matlab", "%", "%{", "%}"),
	".do":  defMulti("stata", slashSlash, slashStar, starSlash),
}
