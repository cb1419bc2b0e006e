package paths

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestination(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		got := Destination("lib/example.py", Options{OutDir: "docs"})
		assert.Equal(t, filepath.Join("docs", "example.html"), got)
	})

	t.Run("PreservePaths", func(t *testing.T) {
		got := Destination("lib/sub/example.py", Options{OutDir: "docs", PreservePaths: true})
		assert.Equal(t, filepath.Join("docs", "lib", "sub", "example.html"), got)
	})

	t.Run("Underlines", func(t *testing.T) {
		// x.py and x.css must not collide on x.html.
		py := Destination("x.py", Options{OutDir: "docs", Underlines: true})
		css := Destination("x.css", Options{OutDir: "docs", Underlines: true})
		assert.Equal(t, filepath.Join("docs", "x_py.html"), py)
		assert.Equal(t, filepath.Join("docs", "x_css.html"), css)
	})

	t.Run("Extension", func(t *testing.T) {
		got := Destination("example.py", Options{OutDir: "out", Extension: "md"})
		assert.Equal(t, filepath.Join("out", "example.md"), got)

		got = Destination("example.py", Options{OutDir: "out", Extension: "adoc"})
		assert.Equal(t, filepath.Join("out", "example.adoc"), got)
	})

	t.Run("NoExtensionInput", func(t *testing.T) {
		got := Destination("Makefile", Options{OutDir: "docs"})
		assert.Equal(t, filepath.Join("docs", "Makefile.html"), got)
	})

	t.Run("Idempotent", func(t *testing.T) {
		opts := Options{OutDir: "docs", PreservePaths: true, Underlines: true}
		assert.Equal(t, Destination("a/b/c.py", opts), Destination("a/b/c.py", opts))
	})

	t.Run("AlwaysUnderOutDir", func(t *testing.T) {
		inputs := []string{
			"plain.py",
			"/absolute/path/file.c",
			"../escaping/file.rb",
			"a/../../b.lua",
		}
		for _, in := range inputs {
			for _, preserve := range []bool{false, true} {
				got := Destination(in, Options{OutDir: "docs", PreservePaths: preserve})
				assert.True(t, strings.HasPrefix(got, "docs"),
					"%q (preserve=%v) escaped the output directory: %q", in, preserve, got)
			}
		}
	})
}

func TestEnsureDirectory(t *testing.T) {
	base := t.TempDir()

	dir, err := EnsureDirectory(filepath.Join(base, "a", "b"))
	require.NoError(t, err)
	assert.DirExists(t, dir)

	// Control characters are stripped before the directory is created.
	dirty := filepath.Join(base, "c\x00le\x07an")
	dir, err = EnsureDirectory(dirty)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "clean"), dir)
	assert.DirExists(t, dir)
}
