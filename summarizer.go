package main

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

//go:embed config/summary-system-prompt.md
var summarySystemPrompt string

const (
	anthropicVersion = "2023-06-01"

	// Rough approximation: 4 chars ≈ 1 token.
	charsPerToken = 4
)

// SummaryAgent sends an extracted article to an Anthropic-compatible
// messages endpoint and parses the structured summary out of the reply.
// Credentials and request settings are immutable for the agent's lifetime.
type SummaryAgent struct {
	transport Requester
	apiKey    string
	apiURL    string
	settings  *Settings
}

// messageRequest is the provider request envelope.
type messageRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messageResponse is the provider response envelope. The generated text is
// nested inside content blocks.
type messageResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewSummaryAgent validates the credentials and returns an agent. No network
// access happens at construction time.
func NewSummaryAgent(cfg *Config) (*SummaryAgent, error) {
	if cfg.APIKey == "" {
		return nil, &ConfigError{Field: "CLAUDE_API", Reason: "API key must not be empty"}
	}
	if cfg.APIURL == "" {
		return nil, &ConfigError{Field: "CLAUDE_URL", Reason: "API URL must not be empty"}
	}
	return &SummaryAgent{
		transport: NewTransport(),
		apiKey:    cfg.APIKey,
		apiURL:    cfg.APIURL,
		settings:  cfg.Settings,
	}, nil
}

// Fetch sends the document to the model and parses the reply. One call is
// one attempt; retry policy belongs to the caller. A failed call leaves the
// agent reusable.
func (a *SummaryAgent) Fetch(ctx context.Context, doc ContentDocument) (*SummaryResult, error) {
	payload, err := a.buildBody(doc)
	if err != nil {
		return nil, fmt.Errorf("building request body: %w", err)
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
		"Content-Type":      "application/json",
	}

	resp, err := a.transport.Request(ctx, http.MethodPost, a.apiURL, headers, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	debugLog("summary response: %d bytes", len(resp.Body))

	var envelope messageResponse
	if err := json.Unmarshal([]byte(resp.Body), &envelope); err != nil {
		return nil, &ResponseParseError{Err: err}
	}
	if len(envelope.Content) == 0 {
		return nil, &ResponseParseError{Err: fmt.Errorf("no content blocks in response")}
	}

	return parseSummary(envelope.Content[0].Text)
}

// buildBody assembles the provider request around the document text.
func (a *SummaryAgent) buildBody(doc ContentDocument) ([]byte, error) {
	content := doc.Body
	if doc.Title != "" {
		content = fmt.Sprintf("Title: %s\n\n%s", doc.Title, doc.Body)
	}
	content = limitContentTokens(content, a.settings.ContentMaxTokens)

	req := messageRequest{
		Model:       a.settings.Model,
		System:      summarySystemPrompt,
		MaxTokens:   a.settings.MaxTokens,
		Temperature: a.settings.Temperature,
		Messages:    []message{{Role: "user", Content: content}},
	}
	return json.Marshal(req)
}

// limitContentTokens limits content to approximately N tokens so oversized
// articles stay within the request bound.
func limitContentTokens(content string, maxTokens int) string {
	maxChars := maxTokens * charsPerToken
	if maxChars <= 0 || len(content) <= maxChars {
		return content
	}
	return content[:maxChars] + "..."
}

// parseSummary decodes the model's generated text into a SummaryResult. The
// requested JSON shape is a convention, not a contract the provider
// enforces, so parsing is defensive: code fences and surrounding prose are
// tolerated as long as a JSON object is present.
func parseSummary(text string) (*SummaryResult, error) {
	raw := extractJSONObject(text)
	if raw == "" {
		return nil, &SummaryFormatError{Reason: "no JSON object in generated text"}
	}

	var result SummaryResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, &SummaryFormatError{Reason: fmt.Sprintf("decoding generated text: %v", err)}
	}
	if len(result.BulletPoints) == 0 {
		return nil, &SummaryFormatError{Reason: "bullet_points is empty"}
	}
	result.Tags = dedupeTags(result.Tags)
	return &result, nil
}

// extractJSONObject returns the outermost {...} span of text.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
