// Package grammar holds parsers for languages whose comment/code boundary
// cannot be decided line by line. A triple-quoted block in Python is only
// documentation in docstring position; anywhere else it is runtime data, so
// classification runs over a real syntax tree instead of line heuristics.
package grammar

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"sidedoc/internal/parser"
)

// Python classifies Python source using the tree-sitter grammar. Module,
// class and function docstrings and whole-line comments become
// documentation; everything else stays code. Syntactically invalid source
// is rejected with a *ParseError.
type Python struct{}

// NewPython creates the Python grammar parser.
func NewPython() *Python {
	return &Python{}
}

var pyCommentMarker = regexp.MustCompile(`^\s*#\s?`)

// ParseGrammarAware implements parser.GrammarParser.
func (py *Python) ParseGrammarAware(src string) (map[int]parser.Chunk, error) {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())

	tree, err := p.ParseCtx(context.Background(), nil, []byte(src))
	if err != nil {
		return nil, &ParseError{Language: "python", Line: 1}
	}
	root := tree.RootNode()
	if root.HasError() {
		row, _ := firstErrorRow(root)
		return nil, &ParseError{Language: "python", Line: int(row) + 1}
	}

	lines := strings.Split(src, "\n")
	scan := &pyScan{
		src:        []byte(src),
		lines:      lines,
		docstrings: make(map[int]*sitter.Node),
		comments:   make(map[int]bool),
	}
	scan.walk(root)
	chunks := make(map[int]parser.Chunk)
	ord := 0
	var cur parser.Chunk
	hasCode := false

	flush := func() {
		if len(cur.Docs) > 0 || len(cur.Code) > 0 {
			chunks[ord] = cur
			ord++
		}
		cur = parser.Chunk{}
	}

	for row := 0; row < len(lines); {
		if node, ok := scan.docstrings[row]; ok {
			// A docstring documents the definition whose code is already in
			// this chunk, so it joins it rather than starting a new one.
			cur.Docs = append(cur.Docs, docstringLines(node, scan.src)...)
			row = int(node.EndPoint().Row) + 1
			continue
		}

		line := lines[row]
		if scan.comments[row] {
			if hasCode {
				flush()
				hasCode = false
			}
			cur.Docs = append(cur.Docs, pyCommentMarker.ReplaceAllString(line, ""))
		} else {
			hasCode = true
			cur.Code = append(cur.Code, line)
		}
		row++
	}
	flush()

	return chunks, nil
}

type pyScan struct {
	src        []byte
	lines      []string
	docstrings map[int]*sitter.Node // keyed by starting row
	comments   map[int]bool         // rows that are whole-line comments
}

func (s *pyScan) walk(n *sitter.Node) {
	switch n.Type() {
	case "comment":
		row := int(n.StartPoint().Row)
		col := int(n.StartPoint().Column)
		if row < len(s.lines) && col <= len(s.lines[row]) && strings.TrimSpace(s.lines[row][:col]) == "" {
			s.comments[row] = true
		}
		return
	case "module":
		s.markDocstring(n)
	case "function_definition", "class_definition":
		if body := n.ChildByFieldName("body"); body != nil {
			s.markDocstring(body)
		}
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		s.walk(n.NamedChild(i))
	}
}

// markDocstring records the scope's first statement when it is a bare
// string expression.
func (s *pyScan) markDocstring(scope *sitter.Node) {
	for i := 0; i < int(scope.NamedChildCount()); i++ {
		c := scope.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		if c.Type() == "expression_statement" && c.NamedChildCount() == 1 &&
			c.NamedChild(0).Type() == "string" {
			s.docstrings[int(c.StartPoint().Row)] = c.NamedChild(0)
		}
		return
	}
}

// docstringLines strips the quote delimiters and the enclosing indentation
// from a docstring node, returning its prose one line at a time.
func docstringLines(node *sitter.Node, src []byte) []string {
	content := stripQuotes(node.Content(src))
	indent := strings.Repeat(" ", int(node.StartPoint().Column))

	raw := strings.Split(content, "\n")
	out := make([]string, 0, len(raw))
	for i, ln := range raw {
		if i > 0 && indent != "" && strings.HasPrefix(ln, indent) {
			ln = ln[len(indent):]
		}
		out = append(out, strings.TrimRight(ln, " \t"))
	}
	return out
}

// stripQuotes removes a matched pair of string delimiters, skipping any
// prefix letters (r, b, f and friends).
func stripQuotes(s string) string {
	start := 0
	for start < len(s) && s[start] != '"' && s[start] != '\'' {
		start++
	}
	if start >= len(s) {
		return s
	}
	rest := s[start:]
	for _, q := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(rest, q) {
			rest = strings.TrimPrefix(rest, q)
			rest = strings.TrimSuffix(rest, q)
			return rest
		}
	}
	return rest
}

func firstErrorRow(n *sitter.Node) (uint32, bool) {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n.StartPoint().Row, true
	}
	if !n.HasError() {
		return 0, false
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if row, ok := firstErrorRow(n.Child(i)); ok {
			return row, true
		}
	}
	return n.StartPoint().Row, true
}
