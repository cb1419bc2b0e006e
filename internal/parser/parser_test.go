package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidedoc/internal/language"
)

var (
	hashLang = language.Compile(language.Definition{Name: "perl", SingleComment: "#"})
	cLang    = language.Compile(language.Definition{Name: "c", SingleComment: "//", MultiStart: "/*", MultiEnd: "*/"})
	coffee   = language.Compile(language.Definition{Name: "coffee-script", SingleComment: "#", MultiStart: "###", MultiEnd: "###"})
	matlab   = language.Compile(language.Definition{Name: "matlab", SingleComment: "%", MultiStart: "%{", MultiEnd: "%}"})
	pseudoPy = language.Compile(language.Definition{Name: "python", SingleComment: "#", GrammarAware: true})
)

func TestParse_CommentThenCode(t *testing.T) {
	sections, err := New().Parse("# Comment\ncode()", hashLang)
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.Equal(t, "Comment\n", sections[0].DocsText)
	assert.Equal(t, "code()\n", sections[0].CodeText)
	assert.Equal(t, 0, sections[0].Num)
}

func TestParse_SingleLineBlockComment(t *testing.T) {
	sections, err := New().Parse("/* hello */\nx = 1\n", cLang)
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.Equal(t, "hello\n", sections[0].DocsText)
	assert.Equal(t, "x = 1\n\n", sections[0].CodeText)
}

func TestParse_MultiLineBlockComment(t *testing.T) {
	src := "/* one\n   two\n*/\nx = 1\n"
	sections, err := New().Parse(src, cLang)
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.Equal(t, "one\n   two\n\n", sections[0].DocsText)
	assert.Contains(t, sections[0].CodeText, "x = 1")
}

func TestParse_BlockCommentIndentationPrefix(t *testing.T) {
	// The opening line fixes the indentation prefix; continuation lines
	// sharing it are dedented, under-indented ones kept verbatim.
	src := "    /* first\n       second\n  third\n    */\ncode\n"
	sections, err := New().Parse(src, cLang)
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.Equal(t, "first\n   second\n  third\n\n", sections[0].DocsText)
}

func TestParse_TrailingCommentStaysCode(t *testing.T) {
	sections, err := New().Parse("x = 5; /* note */\n", cLang)
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.Empty(t, sections[0].DocsText)
	assert.Contains(t, sections[0].CodeText, "x = 5; /* note */")
}

func TestParse_CloseDelimiterWithTrailingCode(t *testing.T) {
	// The close delimiter does not span the whole line, so the line is
	// code, and the following lines must not be swallowed into a comment.
	sections, err := New().Parse("/* a */ b()\nc()\n", cLang)
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.Empty(t, sections[0].DocsText)
	assert.Contains(t, sections[0].CodeText, "/* a */ b()")
	assert.Contains(t, sections[0].CodeText, "c()")
}

func TestParse_CloseDelimiterConsumedOnce(t *testing.T) {
	// A stray close delimiter right after a block close is ordinary code;
	// it must not close anything again or re-open the block.
	sections, err := New().Parse("/*\nhello\n*/\n*/\nx()\n", cLang)
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.Equal(t, "\nhello\n\n", sections[0].DocsText)
	assert.Equal(t, "*/\nx()\n\n", sections[0].CodeText)
}

func TestParse_SymmetricBlockDelimiters(t *testing.T) {
	src := "###\nblock comment\n###\ncode\n"
	sections, err := New().Parse(src, coffee)
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.Equal(t, "\nblock comment\n\n", sections[0].DocsText)
	assert.Contains(t, sections[0].CodeText, "code")
}

func TestParse_MetacharacterMarkers(t *testing.T) {
	src := "%{\na note\n%}\ny = 2\n% trailing\n"
	sections, err := New().Parse(src, matlab)
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Contains(t, sections[0].DocsText, "a note")
	assert.Contains(t, sections[0].CodeText, "y = 2")
	assert.Equal(t, "trailing\n", sections[1].DocsText)
}

func TestParse_BlankLinesOnly(t *testing.T) {
	for _, src := range []string{"", "\n", "\n\n\n", "   \n\t\n"} {
		sections, err := New().Parse(src, hashLang)
		require.NoError(t, err)
		assert.Empty(t, sections, "input %q should yield no sections", src)
	}
}

func TestParse_ShebangStripped(t *testing.T) {
	sections, err := New().Parse("#!/usr/bin/env perl\nprint 1;\n", hashLang)
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.NotContains(t, sections[0].CodeText, "#!")
	assert.NotContains(t, sections[0].DocsText, "#!")

	sections, err = New().Parse("#!/bin/sh", hashLang)
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestParse_EverySectionCarriesText(t *testing.T) {
	srcs := []string{
		"# a\n\n# b\ncode\n",
		"/* x */\n\n\n/* y */\n",
		"code\n# doc\ncode\n# doc\n",
		"\n\n# lone comment\n\n",
	}
	for _, lang := range []*language.Compiled{hashLang, cLang} {
		for _, src := range srcs {
			sections, err := New().Parse(src, lang)
			require.NoError(t, err)
			for _, s := range sections {
				assert.True(t, s.DocsText != "" || s.CodeText != "",
					"section %d of %q has neither docs nor code", s.Num, src)
			}
		}
	}
}

func TestParse_CodeOrderPreserved(t *testing.T) {
	src := "a()\n# one\nb()\n# two\nc()\nd()\n# three\ne()\n"
	sections, err := New().Parse(src, hashLang)
	require.NoError(t, err)

	var joined strings.Builder
	for _, s := range sections {
		joined.WriteString(s.CodeText)
	}
	want := []string{"a()", "b()", "c()", "d()", "e()"}
	got := joined.String()
	last := -1
	for _, line := range want {
		idx := strings.Index(got, line)
		require.GreaterOrEqual(t, idx, 0, "code line %q missing", line)
		assert.Greater(t, idx, last, "code line %q out of order", line)
		last = idx
	}
	assert.Equal(t, 1, strings.Count(got, "a()"), "code lines must not be duplicated")
}

func TestParse_SectionNumbering(t *testing.T) {
	src := "# one\na()\n# two\nb()\n# three\nc()\n"
	sections, err := New().Parse(src, hashLang)
	require.NoError(t, err)
	require.Len(t, sections, 3)

	for i, s := range sections {
		assert.Equal(t, i, s.Num)
	}
}

// fakeGrammar returns canned chunks, or an error, standing in for a real
// grammar-aware parser.
type fakeGrammar struct {
	chunks map[int]Chunk
	err    error
}

func (f *fakeGrammar) ParseGrammarAware(string) (map[int]Chunk, error) {
	return f.chunks, f.err
}

func TestParse_DelegatesGrammarAwareLanguages(t *testing.T) {
	p := New()
	p.RegisterGrammar("python", &fakeGrammar{chunks: map[int]Chunk{
		1: {Code: []string{"y = 2"}},
		0: {Docs: []string{"module doc", "", "more"}, Code: []string{`"""`, "x = 1"}},
		2: {},
	}})

	sections, err := p.Parse("ignored", pseudoPy)
	require.NoError(t, err)
	require.Len(t, sections, 2, "empty chunks are dropped, ordinals sorted")

	assert.Equal(t, "module doc\nmore", sections[0].DocsText, "absent entries are dropped on join")
	// Only the delimiter token itself is trimmed; the newline that joined it
	// to the code stays.
	assert.Equal(t, "\nx = 1", sections[0].CodeText, "one leading triple-quote token is stripped")
	assert.Equal(t, "y = 2", sections[1].CodeText)
	assert.Equal(t, 1, sections[1].Num)
}

type stubErr struct{}

func (stubErr) Error() string   { return "bad syntax" }
func (stubErr) Skippable() bool { return true }

func TestParse_DelegateErrorPropagates(t *testing.T) {
	wantErr := stubErr{}
	p := New()
	p.RegisterGrammar("python", &fakeGrammar{err: wantErr})

	sections, err := p.Parse("whatever", pseudoPy)
	assert.Nil(t, sections)
	require.Error(t, err)
	assert.True(t, errors.Is(err, wantErr) || err.Error() == wantErr.Error(),
		"delegate error must propagate unmodified")
	assert.True(t, IsSkippable(err))
}

func TestParse_GrammarAwareWithoutDelegateFallsBack(t *testing.T) {
	sections, err := New().Parse("# doc\ncode\n", pseudoPy)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "doc\n", sections[0].DocsText)
}

func TestIsSkippable(t *testing.T) {
	assert.True(t, IsSkippable(stubErr{}))
	assert.False(t, IsSkippable(errors.New("plain")))
	assert.False(t, IsSkippable(nil))
}
