package main

// Page holds the raw result of fetching an article URL.
type Page struct {
	URL    string
	Body   string
	Status string
}

// ContentDocument is the extracted article: a title and markup-free body
// text. Body paragraphs are joined with single newlines.
type ContentDocument struct {
	Title string
	Body  string
}

// SummaryResult is the structured summary parsed from the model's generated
// text. BulletPoints preserves the order the model listed them in; Tags is
// deduplicated in order of first appearance.
type SummaryResult struct {
	Title        string   `json:"title"`
	BulletPoints []string `json:"bullet_points"`
	Tags         []string `json:"tags"`
}
