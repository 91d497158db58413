package readability_test

import (
	"net/url"
	"testing"

	"github.com/fwojciec/webagent"
	"github.com/fwojciec/webagent/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogPost = `<!DOCTYPE html>
<html>
<head><title>Sourdough at altitude</title></head>
<body>
<nav><a href="/recipes">Recipes nav link</a><a href="/about">About nav link</a></nav>
<aside class="sidebar"><p>Popular posts this week</p></aside>
<article>
<h1>Sourdough at altitude</h1>
<p>Baking above two thousand metres changes how quickly the dough rises, so shorten the bulk fermentation by about a quarter.</p>
<p>Water boils at a lower temperature up here, which means the crust sets later and the loaf needs a few extra minutes in the oven.</p>
<p>See the <a href="/starter">starter guide</a> for feeding schedules.</p>
</article>
<footer><p>Footer copyright notice</p></footer>
</body>
</html>`

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := readability.NewExtractor().Extract("")

	require.Error(t, err)
	assert.Equal(t, webagent.EINVALID, webagent.ErrorCode(err))
}

func TestExtractor_ExtractsArticle(t *testing.T) {
	t.Parallel()

	result, err := readability.NewExtractor().Extract(blogPost)

	require.NoError(t, err)
	assert.Equal(t, "Sourdough at altitude", result.Title)
	assert.Contains(t, result.ContentHTML, "shorten the bulk fermentation")
	assert.Contains(t, result.Text, "a few extra minutes in the oven")
	assert.NotContains(t, result.ContentHTML, "Recipes nav link")
	assert.NotContains(t, result.ContentHTML, "Footer copyright notice")
}

func TestExtractor_ResolvesRelativeLinks(t *testing.T) {
	t.Parallel()

	pageURL, err := url.Parse("https://bakery.example/posts/altitude")
	require.NoError(t, err)

	result, err := readability.NewExtractor(readability.WithPageURL(pageURL)).Extract(blogPost)

	require.NoError(t, err)
	assert.Contains(t, result.ContentHTML, "https://bakery.example/starter")
}
