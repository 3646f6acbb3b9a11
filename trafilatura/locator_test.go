package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/doccrawl"
	"github.com/fwojciec/doccrawl/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocator_Locate(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewLocator().Locate("  ", "https://example.com/")

		require.Error(t, err)
		assert.Equal(t, doccrawl.EINVALID, doccrawl.ErrorCode(err))
	})

	t.Run("keeps the article and drops page chrome", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav class="main-nav"><a href="/">Home</a><a href="/docs">Docs</a></nav>
<article>
<h1>Documentation</h1>
<p>This is important documentation content that should be extracted.</p>
<p>It goes on for a second paragraph so the article has some weight.</p>
<pre><code>func main() { fmt.Println("Hello") }</code></pre>
</article>
<footer><p>Copyright 2024 Example Corp</p></footer>
</body>
</html>`

		article, err := trafilatura.NewLocator().Locate(html, "https://example.com/docs/")

		require.NoError(t, err)
		assert.Contains(t, article.ContentHTML, "important documentation content")
		assert.Contains(t, article.ContentHTML, "func main()")
		assert.NotContains(t, article.ContentHTML, "main-nav")
		assert.NotContains(t, article.ContentHTML, "Copyright 2024 Example Corp")
	})

	t.Run("reads the title from metadata", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Introduction | My Project</title>
<meta property="og:title" content="Introduction">
</head>
<body>
<main class="docMainContainer">
<article>
<h1>Introduction</h1>
<p>Welcome to the documentation. This guide will help you get started.</p>
<h2>Prerequisites</h2>
<p>Before you begin, make sure you have Node.js installed.</p>
</article>
</main>
</body>
</html>`

		article, err := trafilatura.NewLocator().Locate(html, "")

		require.NoError(t, err)
		assert.NotEmpty(t, article.Title)
		assert.Contains(t, article.ContentHTML, "Prerequisites")
	})
}
