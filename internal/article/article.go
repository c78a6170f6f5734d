package article

// Article is a single news item ready for listing and detail views.
// Content starts out as the provider description and is replaced with
// extracted body text when the detail view is opened.
type Article struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Link         string `json:"link"`
	OriginalLink string `json:"originalLink,omitempty"`
	Publisher    string `json:"publisher"`
	PublishedAt  string `json:"publishedAt"`
	Content      string `json:"content"`
	// Summary is attached later by the summarizer and never touches Content.
	Summary string `json:"summary,omitempty"`
}

// WithContent returns a copy of a carrying the given body text.
func (a Article) WithContent(content string) Article {
	a.Content = content
	return a
}

// WithSummary returns a copy of a carrying the given summary.
func (a Article) WithSummary(summary string) Article {
	a.Summary = summary
	return a
}

// Titles returns the headlines of articles in order.
func Titles(articles []Article) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Title)
	}
	return out
}
