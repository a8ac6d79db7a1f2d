package main

import "fmt"

// ConfigError reports missing or invalid credentials, detected before any
// network call is attempted.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// InvalidURLError reports a malformed article URL, detected before any
// network call is attempted.
type InvalidURLError struct {
	URL    string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid url %q: %s", e.URL, e.Reason)
}

// TransportError represents a network or HTTP-level failure. StatusCode is
// zero when the request never produced a response.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ExtractionError reports input that could not be parsed as markup at all.
// A page that merely lacks article content is not an error; it yields an
// empty body instead.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting content: %s", e.Reason)
}

// ResponseParseError reports a provider envelope that could not be decoded.
type ResponseParseError struct {
	Err error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("parsing provider response: %v", e.Err)
}

func (e *ResponseParseError) Unwrap() error { return e.Err }

// SummaryFormatError reports generated text that does not match the requested
// summary shape, e.g. the model replied in prose instead of JSON. Unlike a
// TransportError this is not a network fault; retrying with stronger
// formatting instructions may help.
type SummaryFormatError struct {
	Reason string
}

func (e *SummaryFormatError) Error() string {
	return fmt.Sprintf("summary format: %s", e.Reason)
}
