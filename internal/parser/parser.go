// Package parser splits raw source text into an ordered sequence of
// documentation/code sections. Classification is line-oriented: a language's
// block comments are first normalized away, then lines are folded into
// sections. The parser never fails on malformed input; languages whose
// comment boundaries cannot be decided line by line are handed to a
// registered grammar parser instead.
package parser

import (
	"strings"

	"sidedoc/internal/language"
)

// state names the classifier's position in the line stream.
type state int

const (
	// stateCode: the previous line was plain code.
	stateCode state = iota
	// stateSingleComment: the previous line was a whole-line comment.
	stateSingleComment
	// stateInBlock: inside an open block comment. The only state whose
	// lines are consumed as block continuation text.
	stateInBlock
	// stateBlockJustClosed: the previous line closed a block comment.
	// Distinct from stateInBlock so a region's close delimiter is consumed
	// exactly once and can never close or re-open a region twice.
	stateBlockJustClosed
)

// Parser turns source text into sections. The zero value handles every
// generic language; grammar-aware languages additionally need a
// GrammarParser registered under their name before parsing begins.
type Parser struct {
	grammars map[string]GrammarParser
}

// New creates a parser with no grammar parsers registered.
func New() *Parser {
	return &Parser{grammars: make(map[string]GrammarParser)}
}

// RegisterGrammar installs a grammar-aware parser for a language name.
// Registration must happen before Parse is called from other goroutines.
func (p *Parser) RegisterGrammar(name string, gp GrammarParser) {
	p.grammars[name] = gp
}

// Parse splits src into sections under the given compiled language. The
// generic path never returns an error, whatever the input looks like; a
// grammar-aware language may return its delegate's error unmodified when
// the source is not syntactically valid. A grammar-aware language with no
// registered delegate falls back to the generic path.
func (p *Parser) Parse(src string, lang *language.Compiled) ([]*Section, error) {
	if lang.GrammarAware {
		if gp, ok := p.grammars[lang.Name]; ok {
			return parseDelegated(src, gp)
		}
	}
	return parseGeneric(src, lang), nil
}

// normLine is a line after normalization: either documentation text with
// all comment syntax stripped, or a verbatim code line.
type normLine struct {
	docs bool
	text string
}

func parseGeneric(src string, lang *language.Compiled) []*Section {
	lines := strings.Split(src, "\n")

	// An interpreter directive is neither documentation nor interesting code.
	if strings.HasPrefix(lines[0], "#!") {
		lines = lines[1:]
	}

	return assemble(normalize(lines, lang))
}

// normalize classifies each raw line as documentation or code, rewriting
// every block comment form into plain documentation lines so that assemble
// only ever sees two kinds of line. Each block region opens and closes
// exactly once; a close delimiter followed by more content on the same line
// does not close the region.
func normalize(lines []string, lang *language.Compiled) []normLine {
	out := make([]normLine, 0, len(lines))
	st := stateCode
	multi := lang.HasMultiLine()
	ms, me := lang.MultiStart, lang.MultiEnd

	// Indentation of the line that opened the current block comment.
	// Continuation lines sharing it have it stripped; under-indented lines
	// are kept as they are.
	var blockIndent string

	for _, line := range lines {
		stripped := strings.TrimSpace(line)

		switch st {
		case stateInBlock:
			text := line
			if blockIndent != "" && strings.HasPrefix(text, blockIndent) {
				text = text[len(blockIndent):]
			}
			if strings.HasSuffix(stripped, me) {
				text = strings.TrimRight(text, " \t")
				text = strings.TrimSuffix(text, me)
				text = strings.TrimRight(text, " \t")
				st = stateBlockJustClosed
			}
			out = append(out, normLine{docs: true, text: text})

		case stateCode, stateSingleComment, stateBlockJustClosed:
			// Outside a block, the previous line's kind does not change how
			// the next one is classified; these states share a transition.
			// They stay distinct from stateInBlock so the close delimiter of
			// a region is never consumed a second time.
			switch {
			case multi && strings.HasPrefix(stripped, ms) &&
				strings.HasSuffix(stripped, me) && len(stripped) >= len(ms)+len(me):
				// Block comment opened and closed on one line, spanning the
				// whole trimmed content.
				inner := strings.TrimSuffix(stripped, me)
				inner = strings.TrimPrefix(inner, ms)
				out = append(out, normLine{docs: true, text: strings.TrimSpace(inner)})
				st = stateSingleComment

			case multi && strings.HasPrefix(stripped, ms) &&
				!strings.Contains(stripped[len(ms):], me):
				inner := strings.TrimSpace(strings.TrimPrefix(stripped, ms))
				blockIndent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
				out = append(out, normLine{docs: true, text: inner})
				st = stateInBlock

			case lang.CommentMatcher.MatchString(line):
				out = append(out, normLine{docs: true, text: lang.CommentMatcher.ReplaceAllString(line, "")})
				st = stateSingleComment

			default:
				// Plain code. A comment marker after code on the same line is
				// a trailing comment and stays part of the code.
				out = append(out, normLine{docs: false, text: line})
				st = stateCode
			}
		}
	}

	return out
}

// assemble folds normalized lines into sections: a documentation line after
// accumulated code completes the current section and starts the next one.
// Sections carrying neither documentation nor code are dropped, so input
// made of blank lines alone produces no sections at all.
func assemble(lines []normLine) []*Section {
	var sections []*Section
	var docs, code strings.Builder
	hasCode := false

	flush := func() {
		d, c := docs.String(), code.String()
		if strings.TrimSpace(d) != "" || strings.TrimSpace(c) != "" {
			sections = append(sections, &Section{DocsText: d, CodeText: c})
		}
		docs.Reset()
		code.Reset()
	}

	for _, ln := range lines {
		if ln.docs {
			if hasCode {
				flush()
				hasCode = false
			}
			docs.WriteString(ln.text)
			docs.WriteByte('\n')
		} else {
			hasCode = true
			code.WriteString(ln.text)
			code.WriteByte('\n')
		}
	}
	flush()

	number(sections)
	return sections
}

func number(sections []*Section) {
	for i, s := range sections {
		s.Num = i
	}
}
