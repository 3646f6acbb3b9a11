package html2text_test

import (
	"testing"

	"github.com/fwojciec/doccrawl"
	"github.com/fwojciec/doccrawl/html2text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("drops markup and keeps text", func(t *testing.T) {
		t.Parallel()

		text, err := html2text.NewConverter(true).Convert(`<div><h1>Guide</h1><p>Hello <b>world</b>.</p></div>`, "")

		require.NoError(t, err)
		assert.Contains(t, text, "Guide")
		assert.Contains(t, text, "Hello world.")
		assert.NotContains(t, text, "<p>")
	})

	t.Run("keeps link targets unless omitted", func(t *testing.T) {
		t.Parallel()

		html := `<p>See <a href="https://example.com/docs">the docs</a></p>`

		withLinks, err := html2text.NewConverter(false).Convert(html, "https://example.com/")
		require.NoError(t, err)
		assert.Contains(t, withLinks, "https://example.com/docs")

		withoutLinks, err := html2text.NewConverter(true).Convert(html, "https://example.com/")
		require.NoError(t, err)
		assert.NotContains(t, withoutLinks, "https://example.com/docs")
		assert.Contains(t, withoutLinks, "the docs")
	})

	t.Run("resolves relative link targets against the page URL", func(t *testing.T) {
		t.Parallel()

		text, err := html2text.NewConverter(false).Convert(`<p>Next: <a href="../api/">API</a></p>`, "https://example.com/docs/guide/")

		require.NoError(t, err)
		assert.Contains(t, text, "https://example.com/docs/api/")
	})

	t.Run("leaves relative links alone without a page URL", func(t *testing.T) {
		t.Parallel()

		text, err := html2text.NewConverter(false).Convert(`<p><a href="/install">Install</a></p>`, "")

		require.NoError(t, err)
		assert.Contains(t, text, "/install")
		assert.NotContains(t, text, "https://")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := html2text.NewConverter(false).Convert("", "https://example.com/")

		require.Error(t, err)
		assert.Equal(t, doccrawl.EINVALID, doccrawl.ErrorCode(err))
	})
}

func TestConverter_Extension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".txt", html2text.NewConverter(false).Extension())
}
