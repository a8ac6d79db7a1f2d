package main

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// chromeSelector matches containers whose text is site chrome rather than
// article content.
const chromeSelector = "nav, header, footer, aside, form, noscript"

// Extractor turns raw HTML into a ContentDocument. The default extractor is
// a pure function of its input: the same HTML always yields the same
// document.
type Extractor struct {
	readabilityFallback bool
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithReadabilityFallback runs go-readability over the page when the
// structural paragraph walk finds nothing. Useful for pages that render
// article text outside paragraph elements.
func WithReadabilityFallback() ExtractorOption {
	return func(e *Extractor) { e.readabilityFallback = true }
}

// NewExtractor creates an extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses the HTML leniently and collects the article title and body.
// It fails only when the input cannot be parsed as markup at all; a page
// with no recognizable article body yields an empty body, and callers must
// check for that themselves.
func (e *Extractor) Extract(html string) (ContentDocument, error) {
	if strings.TrimSpace(html) == "" {
		return ContentDocument{}, &ExtractionError{Reason: "empty input"}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ContentDocument{}, &ExtractionError{Reason: err.Error()}
	}

	// Script and style text would otherwise leak into element text.
	doc.Find("script, style").Remove()

	title := extractTitle(doc)
	body := extractBody(doc)

	if body == "" && e.readabilityFallback {
		body = readabilityBody(html)
	}

	return ContentDocument{Title: title, Body: body}, nil
}

// extractTitle returns the first non-empty heading in document order,
// falling back to the <title> element. A missing title is not an error.
func extractTitle(doc *goquery.Document) string {
	var title string
	doc.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := collapseWhitespace(s.Text()); text != "" {
			title = text
			return false
		}
		return true
	})
	if title != "" {
		return title
	}
	return collapseWhitespace(doc.Find("title").First().Text())
}

// extractBody walks paragraph-level content in document order, skipping
// anything inside site-chrome containers. Fragments are joined with single
// newlines.
func extractBody(doc *goquery.Document) string {
	var fragments []string
	doc.Find("p, li").Each(func(_ int, s *goquery.Selection) {
		if s.Closest(chromeSelector).Length() > 0 {
			return
		}
		// A list item wrapping further paragraph-level nodes is a
		// container; its children are collected on their own.
		if goquery.NodeName(s) == "li" && s.Find("p, li").Length() > 0 {
			return
		}
		if text := collapseWhitespace(s.Text()); text != "" {
			fragments = append(fragments, text)
		}
	})
	return strings.TrimSpace(strings.Join(fragments, "\n"))
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// readabilityBody is the salvage pass: best-effort article text from
// go-readability, or an empty string if it finds nothing either.
func readabilityBody(html string) string {
	base, err := url.Parse(mediumOrigin)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(html), base)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}
