package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
)

func testSettings() *Settings {
	return &Settings{
		Model:            "claude-3-haiku-20240307",
		MaxTokens:        1024,
		Temperature:      0.0,
		ContentMaxTokens: 40000,
	}
}

func testAgent(stub *stubRequester) *SummaryAgent {
	return &SummaryAgent{
		transport: stub,
		apiKey:    "test-key",
		apiURL:    "https://api.example.com/v1/messages",
		settings:  testSettings(),
	}
}

// envelopeWith wraps generated text in a provider response envelope.
func envelopeWith(t *testing.T, text string) string {
	t.Helper()
	data, err := json.Marshal(messageResponse{
		ID:      "msg_test",
		Model:   "claude-3-haiku-20240307",
		Content: []contentBlock{{Type: "text", Text: text}},
	})
	if err != nil {
		t.Fatalf("marshaling envelope: %v", err)
	}
	return string(data)
}

func TestNewSummaryAgent(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		apiURL  string
		wantErr bool
	}{
		{
			name:    "valid config",
			apiKey:  "test-key",
			apiURL:  "https://api.example.com/v1/messages",
			wantErr: false,
		},
		{
			name:    "empty api key",
			apiKey:  "",
			apiURL:  "https://api.example.com/v1/messages",
			wantErr: true,
		},
		{
			name:    "empty api url",
			apiKey:  "test-key",
			apiURL:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{APIKey: tt.apiKey, APIURL: tt.apiURL, Settings: testSettings()}

			agent, err := NewSummaryAgent(cfg)

			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSummaryAgent() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				var configErr *ConfigError
				if !errors.As(err, &configErr) {
					t.Errorf("NewSummaryAgent() error = %T, want *ConfigError", err)
				}
				return
			}

			if agent == nil {
				t.Fatal("NewSummaryAgent() returned nil agent")
			}
			if agent.transport == nil {
				t.Error("NewSummaryAgent() did not initialize transport")
			}
		})
	}
}

func TestSummaryFetch(t *testing.T) {
	generated := `{"title":"Unit Tests as Executable Documents","bullet_points":["First point","Second point","Third point"],"tags":["testing","go","testing"]}`
	stub := &stubRequester{
		response: &Response{Body: envelopeWith(t, generated), StatusCode: http.StatusOK},
	}
	agent := testAgent(stub)

	doc := ContentDocument{Title: "Unit Tests", Body: "Some article text about tests."}
	result, err := agent.Fetch(context.Background(), doc)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if result.Title != "Unit Tests as Executable Documents" {
		t.Errorf("Fetch() Title = %q", result.Title)
	}
	wantPoints := []string{"First point", "Second point", "Third point"}
	if !reflect.DeepEqual(result.BulletPoints, wantPoints) {
		t.Errorf("Fetch() BulletPoints = %v, want %v (order preserved)", result.BulletPoints, wantPoints)
	}
	wantTags := []string{"testing", "go"}
	if !reflect.DeepEqual(result.Tags, wantTags) {
		t.Errorf("Fetch() Tags = %v, want %v (deduplicated)", result.Tags, wantTags)
	}
}

func TestSummaryFetchRequestShape(t *testing.T) {
	generated := `{"title":"T","bullet_points":["p1"],"tags":["t1"]}`
	stub := &stubRequester{
		response: &Response{Body: envelopeWith(t, generated), StatusCode: http.StatusOK},
	}
	agent := testAgent(stub)

	doc := ContentDocument{Title: "Article Title", Body: "Article body text."}
	if _, err := agent.Fetch(context.Background(), doc); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if stub.lastMethod != http.MethodPost {
		t.Errorf("Fetch() method = %q, want POST", stub.lastMethod)
	}
	if stub.lastURL != agent.apiURL {
		t.Errorf("Fetch() URL = %q, want %q", stub.lastURL, agent.apiURL)
	}
	if got := stub.lastHeaders["x-api-key"]; got != "test-key" {
		t.Errorf("x-api-key header = %q, want %q", got, "test-key")
	}
	if got := stub.lastHeaders["anthropic-version"]; got != "2023-06-01" {
		t.Errorf("anthropic-version header = %q, want %q", got, "2023-06-01")
	}
	if got := stub.lastHeaders["Content-Type"]; got != "application/json" {
		t.Errorf("Content-Type header = %q, want %q", got, "application/json")
	}

	var req messageRequest
	if err := json.Unmarshal([]byte(stub.lastBody), &req); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}
	if req.Model != "claude-3-haiku-20240307" {
		t.Errorf("request model = %q", req.Model)
	}
	if req.MaxTokens != 1024 {
		t.Errorf("request max_tokens = %d, want 1024", req.MaxTokens)
	}
	if req.System == "" {
		t.Error("request system prompt is empty")
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
		t.Fatalf("request messages = %+v, want one user message", req.Messages)
	}
	if !strings.Contains(req.Messages[0].Content, "Article body text.") {
		t.Error("request content does not embed the document body")
	}
	if !strings.Contains(req.Messages[0].Content, "Title: Article Title") {
		t.Error("request content does not embed the document title")
	}
}

func TestSummaryFetchFencedJSON(t *testing.T) {
	generated := "```json\n{\"title\":\"T\",\"bullet_points\":[\"only point\"],\"tags\":[]}\n```"
	stub := &stubRequester{
		response: &Response{Body: envelopeWith(t, generated), StatusCode: http.StatusOK},
	}
	agent := testAgent(stub)

	result, err := agent.Fetch(context.Background(), ContentDocument{Body: "text"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(result.BulletPoints) != 1 || result.BulletPoints[0] != "only point" {
		t.Errorf("Fetch() BulletPoints = %v", result.BulletPoints)
	}
}

func TestSummaryFetchFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "free prose",
			text: "The article argues that unit tests serve as executable documentation.",
		},
		{
			name: "prose with braces but broken json",
			text: "Summary {not valid json at all]",
		},
		{
			name: "empty bullet points",
			text: `{"title":"T","bullet_points":[],"tags":["x"]}`,
		},
		{
			name: "wrong field types",
			text: `{"title":"T","bullet_points":"one big string","tags":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubRequester{
				response: &Response{Body: envelopeWith(t, tt.text), StatusCode: http.StatusOK},
			}
			agent := testAgent(stub)

			_, err := agent.Fetch(context.Background(), ContentDocument{Body: "text"})

			var formatErr *SummaryFormatError
			if !errors.As(err, &formatErr) {
				t.Errorf("Fetch() error = %v (%T), want *SummaryFormatError", err, err)
			}
		})
	}
}

func TestSummaryFetchResponseParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>gateway error</html>"},
		{name: "no content blocks", body: `{"id":"msg_x","model":"m","content":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubRequester{
				response: &Response{Body: tt.body, StatusCode: http.StatusOK},
			}
			agent := testAgent(stub)

			_, err := agent.Fetch(context.Background(), ContentDocument{Body: "text"})

			var parseErr *ResponseParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("Fetch() error = %v (%T), want *ResponseParseError", err, err)
			}
		})
	}
}

func TestSummaryFetchPropagatesTransportError(t *testing.T) {
	stub := &stubRequester{
		err: &TransportError{URL: "https://api.example.com/v1/messages", StatusCode: http.StatusTooManyRequests},
	}
	agent := testAgent(stub)

	_, err := agent.Fetch(context.Background(), ContentDocument{Body: "text"})

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Fetch() error = %T, want *TransportError", err)
	}
	if transportErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("TransportError.StatusCode = %d, want 429", transportErr.StatusCode)
	}
}

func TestSummaryAgentReusableAfterFailure(t *testing.T) {
	generated := `{"title":"T","bullet_points":["p"],"tags":[]}`
	stub := &stubRequester{
		err: &TransportError{URL: "https://api.example.com/v1/messages", StatusCode: http.StatusBadGateway},
	}
	agent := testAgent(stub)

	if _, err := agent.Fetch(context.Background(), ContentDocument{Body: "text"}); err == nil {
		t.Fatal("Fetch() should fail with failing transport")
	}

	stub.err = nil
	stub.response = &Response{Body: envelopeWith(t, generated), StatusCode: http.StatusOK}

	result, err := agent.Fetch(context.Background(), ContentDocument{Body: "text"})
	if err != nil {
		t.Fatalf("Fetch() after failure error = %v", err)
	}
	if result == nil || len(result.BulletPoints) == 0 {
		t.Error("Fetch() after failure returned no result")
	}
}

func TestLimitContentTokens(t *testing.T) {
	long := strings.Repeat("a", 100)

	tests := []struct {
		name      string
		content   string
		maxTokens int
		want      string
	}{
		{name: "under limit", content: "short", maxTokens: 10, want: "short"},
		{name: "over limit", content: long, maxTokens: 10, want: long[:40] + "..."},
		{name: "zero limit passes through", content: long, maxTokens: 0, want: long},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := limitContentTokens(tt.content, tt.maxTokens); got != tt.want {
				t.Errorf("limitContentTokens() = %q, want %q", got, tt.want)
			}
		})
	}
}
