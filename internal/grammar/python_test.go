package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidedoc/internal/language"
	"sidedoc/internal/parser"
)

func pythonLangForTest() *language.Compiled {
	c, _ := language.NewRegistry().Lookup(".py")
	return c
}

const pySample = `"""Module doc."""

# A comment
def foo():
    """Foo doc."""
    return 1

x = '''not a docstring'''
`

func TestPython_ParseGrammarAware(t *testing.T) {
	chunks, err := NewPython().ParseGrammarAware(pySample)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Contains(t, chunks[0].Docs, "Module doc.")

	docs := strings.Join(chunks[1].Docs, "\n")
	assert.Contains(t, docs, "A comment")
	assert.Contains(t, docs, "Foo doc.")

	code := strings.Join(chunks[1].Code, "\n")
	assert.Contains(t, code, "def foo():")
	assert.Contains(t, code, "x = '''not a docstring'''",
		"a triple-quoted block outside docstring position is code")
	assert.NotContains(t, docs, "not a docstring")
}

func TestPython_DocstringStaysWithItsDefinition(t *testing.T) {
	chunks, err := NewPython().ParseGrammarAware("def f():\n    \"\"\"doc\"\"\"\n    return 2\n")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Contains(t, chunks[0].Docs, "doc")
	code := strings.Join(chunks[0].Code, "\n")
	assert.Contains(t, code, "def f():")
	assert.Contains(t, code, "return 2")
}

func TestPython_MultiLineDocstringDedent(t *testing.T) {
	src := "def f():\n    \"\"\"First.\n    Second.\n    \"\"\"\n    pass\n"
	chunks, err := NewPython().ParseGrammarAware(src)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Contains(t, chunks[0].Docs, "First.")
	assert.Contains(t, chunks[0].Docs, "Second.")
}

func TestPython_TrailingCommentIsNotDocs(t *testing.T) {
	chunks, err := NewPython().ParseGrammarAware("y = 1  # trailing\n")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Empty(t, chunks[0].Docs)
	assert.Contains(t, strings.Join(chunks[0].Code, "\n"), "y = 1  # trailing")
}

func TestPython_InvalidSyntax(t *testing.T) {
	_, err := NewPython().ParseGrammarAware("def broken(:\n")
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "python", perr.Language)
	assert.True(t, perr.Skippable())
	assert.True(t, parser.IsSkippable(err))
}

func TestPython_ThroughSectionParser(t *testing.T) {
	p := parser.New()
	p.RegisterGrammar("python", NewPython())

	lang := pythonLangForTest()
	sections, err := p.Parse(pySample, lang)
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Equal(t, "Module doc.", sections[0].DocsText)
	assert.Contains(t, sections[1].CodeText, "x = '''not a docstring'''")
	for i, s := range sections {
		assert.Equal(t, i, s.Num)
	}
}
