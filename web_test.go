package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPageTextStripsScriptsAndMarkup(t *testing.T) {
	html := `<html><head>
<style>body { color: red; }</style>
<script>var hidden = "should not be counted";</script>
</head><body>
<h1>Title</h1>
<p>Visible paragraph text.</p>
<noscript>fallback junk</noscript>
</body></html>`

	text := string(extractPageText([]byte(html), "https://example.com"))

	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "Visible paragraph text.")
	assert.NotContains(t, text, "should not be counted")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "fallback junk")
	assert.NotContains(t, text, "<p>")
}

func TestExtractPageTextIsCountable(t *testing.T) {
	html := `<html><body><p>two words</p></body></html>`
	res := countSource(Source{Name: "https://example.com", Data: extractPageText([]byte(html), "https://example.com")}, nil)

	assert.NoError(t, res.Err)
	assert.Equal(t, int64(2), res.Counts.Words)
}
