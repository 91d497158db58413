package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/webagent"
	"github.com/fwojciec/webagent/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements webagent.Extractor at compile time.
var _ webagent.Extractor = (*trafilatura.Extractor)(nil)

const newsPage = `<!DOCTYPE html>
<html>
<head>
<title>Rain returns to the valley | Daily Courier</title>
<meta property="og:title" content="Rain returns to the valley">
</head>
<body>
<nav class="navbar"><a href="/">Front page</a><a href="/sport">Sport</a></nav>
<div class="ad-slot">Subscribe today for one dollar</div>
<article>
<h1>Rain returns to the valley</h1>
<p>After four months without measurable rainfall, storms crossed the valley on Tuesday and filled the reservoirs to a third of their capacity.</p>
<p>Farmers said the rain arrived too late for the wheat harvest but would help the orchards recover before winter.</p>
</article>
<section id="comments"><p>Great news for everyone in town, finally!</p></section>
<footer><p>Copyright Daily Courier Media Group</p></footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts article text", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(newsPage)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "filled the reservoirs")
		assert.Contains(t, result.Text, "help the orchards recover")
		assert.NotContains(t, result.ContentHTML, "Copyright Daily Courier")
	})

	t.Run("extracts title", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(newsPage)

		require.NoError(t, err)
		assert.Contains(t, result.Title, "Rain returns to the valley")
	})

	t.Run("flattens text whitespace", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(newsPage)

		require.NoError(t, err)
		assert.NotContains(t, result.Text, "\n")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract(" ")

		require.Error(t, err)
		assert.Equal(t, webagent.EINVALID, webagent.ErrorCode(err))
	})
}
