package main

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const (
	mediumOrigin = "https://medium.com"

	// Medium serves a stripped page to obvious bots, so fetches identify
	// as a regular desktop browser.
	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0"
)

// MediumClient fetches article pages with an authenticated session cookie.
// The cookie is immutable for the client's lifetime.
type MediumClient struct {
	transport Requester
	cookie    string
}

// NewMediumClient validates the session cookie and returns a client that
// attaches it to every fetch.
func NewMediumClient(cookie string) (*MediumClient, error) {
	if err := validateCookie(cookie); err != nil {
		return nil, err
	}
	return &MediumClient{
		transport: NewTransport(),
		cookie:    cookie,
	}, nil
}

func validateCookie(cookie string) error {
	if cookie == "" {
		return &ConfigError{Field: "cookie", Reason: "must not be empty"}
	}
	for _, r := range cookie {
		if r < 0x20 || r == 0x7f {
			return &ConfigError{Field: "cookie", Reason: "must not contain control characters"}
		}
	}
	return nil
}

// Fetch retrieves the raw article page. The URL is validated before any
// network call is attempted.
func (c *MediumClient) Fetch(ctx context.Context, articleURL string) (*Page, error) {
	if err := validateArticleURL(articleURL); err != nil {
		return nil, err
	}

	headers := map[string]string{
		"Cookie":     c.cookie,
		"Origin":     mediumOrigin,
		"User-Agent": browserUserAgent,
	}

	resp, err := c.transport.Request(ctx, http.MethodGet, articleURL, headers, nil)
	if err != nil {
		return nil, err
	}

	return &Page{
		URL:    articleURL,
		Body:   resp.Body,
		Status: strconv.Itoa(resp.StatusCode),
	}, nil
}

func validateArticleURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &InvalidURLError{URL: raw, Reason: err.Error()}
	}
	if !u.IsAbs() {
		return &InvalidURLError{URL: raw, Reason: "must be absolute"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &InvalidURLError{URL: raw, Reason: "scheme must be http or https"}
	}
	if u.Host == "" {
		return &InvalidURLError{URL: raw, Reason: "missing host"}
	}
	return nil
}

// GetContent extracts the readable article from a fetched page. It needs no
// session state, so pages obtained by any means can be parsed and extraction
// stays testable without network access.
func GetContent(page *Page, opts ...ExtractorOption) (ContentDocument, error) {
	return NewExtractor(opts...).Extract(page.Body)
}
