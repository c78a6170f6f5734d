package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// DefaultRSSTemplate is the Google News Korea search feed.
const DefaultRSSTemplate = "https://news.google.com/rss/search?q={query}&hl=ko&gl=KR&ceid=KR:ko"

// RSS implements Provider over any feed URL template containing {query}.
type RSS struct {
	URLTemplate string
	Parser      *gofeed.Parser
}

func (r *RSS) Name() string { return "rss" }

func (r *RSS) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	tmpl := r.URLTemplate
	if tmpl == "" {
		tmpl = DefaultRSSTemplate
	}
	if !strings.Contains(tmpl, "{query}") {
		return nil, fmt.Errorf("rss template %q has no {query} placeholder", tmpl)
	}
	feedURL := strings.ReplaceAll(tmpl, "{query}", url.QueryEscape(query))
	parser := r.Parser
	if parser == nil {
		parser = gofeed.NewParser()
	}
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse rss %s: %w", feedURL, err)
	}
	out := make([]Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil || it.Link == "" || it.Title == "" {
			continue
		}
		item := Item{
			Title:        it.Title,
			Description:  it.Description,
			Link:         it.Link,
			OriginalLink: it.Link,
			PubDate:      it.Published,
		}
		if it.PublishedParsed != nil {
			item.PubDate = it.PublishedParsed.Format(time.RFC1123Z)
		}
		if it.Author != nil && it.Author.Name != "" {
			item.Publisher = it.Author.Name
		}
		out = append(out, item)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
