package search

import (
	"context"
)

// Item is a raw search hit as the news provider returns it. Title and
// Description may contain markup.
type Item struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Link         string `json:"link"`
	OriginalLink string `json:"originallink"`
	PubDate      string `json:"pubDate"`
	// Publisher is set by providers that know it; otherwise it is derived
	// from the link host.
	Publisher string `json:"publisher,omitempty"`
}

// Provider is a minimal interface for news search providers.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Item, error)
	Name() string
}
