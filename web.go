package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// isWebURL checks if the input string is an HTTP/HTTPS URL.
func isWebURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// fetchWebSource fetches an HTML page and turns it into countable text.
// Script, style, and noscript elements are stripped first so the counts
// reflect the page's prose, then the remaining HTML is converted to
// Markdown. Non-HTML responses are counted as-is.
func fetchWebSource(rawURL string) (Source, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Source{}, fmt.Errorf("invalid URL: %w", err)
	}
	parsedURL.Fragment = ""
	cleanURL := parsedURL.String()

	logVerbose("Fetching %s", cleanURL)
	res, err := http.Get(cleanURL)
	if err != nil {
		return Source{}, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return Source{}, fmt.Errorf("failed to fetch URL: status code %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Source{}, fmt.Errorf("failed to read response body: %w", err)
	}

	contentType := res.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		logVerbose("Counting non-HTML content type (%s) as-is for %s", contentType, cleanURL)
		return Source{Name: cleanURL, Data: body}, nil
	}

	return Source{Name: cleanURL, Data: extractPageText(body, cleanURL)}, nil
}

// extractPageText reduces an HTML document to its textual content. Any
// stage that fails falls back to the previous representation so a page is
// always countable.
func extractPageText(body []byte, pageURL string) []byte {
	html := string(body)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logVerbose("Could not parse HTML from %s, counting raw bytes: %v", pageURL, err)
		return body
	}
	doc.Find("script, style, noscript").Remove()
	if stripped, err := doc.Html(); err == nil {
		html = stripped
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		logVerbose("Could not convert HTML from %s to Markdown, counting stripped HTML: %v", pageURL, err)
		return []byte(html)
	}
	return []byte(markdown)
}
