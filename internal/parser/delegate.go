package parser

import (
	"errors"
	"sort"
	"strings"
)

// Chunk is one unit of a grammar parser's output: documentation and code
// line fragments for one section, in source order. Empty strings stand for
// absent entries and are dropped when the chunk is joined.
type Chunk struct {
	Docs []string
	Code []string
}

// GrammarParser classifies source text for a language whose comment/code
// boundary needs grammar awareness. Output is keyed by section ordinal.
// Implementations may fail when the source is not syntactically valid; such
// errors are returned to the caller unmodified.
type GrammarParser interface {
	ParseGrammarAware(src string) (map[int]Chunk, error)
}

// skippable marks errors a lenient batch caller may log and move past:
// undecodable input and grammar parsers rejecting invalid source.
type skippable interface {
	Skippable() bool
}

// IsSkippable reports whether err belongs to the class of per-file failures
// a batch caller may tolerate when configured to continue on bad files.
func IsSkippable(err error) bool {
	var s skippable
	return errors.As(err, &s) && s.Skippable()
}

func parseDelegated(src string, gp GrammarParser) ([]*Section, error) {
	chunks, err := gp.ParseGrammarAware(src)
	if err != nil {
		return nil, err
	}

	keys := make([]int, 0, len(chunks))
	for k := range chunks {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var sections []*Section
	for _, k := range keys {
		ch := chunks[k]
		docs := strings.Join(compact(ch.Docs), "\n")
		code := strings.Join(compact(ch.Code), "\n")

		// Grammar parsers sometimes leave a spurious leading string
		// delimiter on the code; trim a single one.
		code = strings.TrimPrefix(code, `"""`)
		code = strings.TrimPrefix(code, "'''")

		if docs != "" || code != "" {
			sections = append(sections, &Section{DocsText: docs, CodeText: code})
		}
	}

	number(sections)
	return sections, nil
}

// compact drops absent (empty) entries.
func compact(ss []string) []string {
	out := ss[:0:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
