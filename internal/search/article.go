package search

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/baba2413/HaruNews/internal/article"
)

// ErrUnknownCategory is returned for categories without a search keyword.
var ErrUnknownCategory = errors.New("unknown category")

// Categories maps listing categories to the keyword sent to the provider.
var Categories = map[string]string{
	"all":           "시사",
	"politics":      "정치",
	"economy":       "경제",
	"society":       "사회",
	"sports":        "스포츠",
	"entertainment": "연예",
	"tech":          "IT 과학",
}

// Keyword resolves a category name.
func Keyword(category string) (string, error) {
	kw, ok := Categories[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return kw, nil
}

// DisplayLayout is the publishedAt format shown in listings.
const DisplayLayout = "2006.01.02 15:04"

var kst = time.FixedZone("KST", 9*60*60)

var pubDateLayouts = []string{time.RFC1123Z, time.RFC1123, time.RFC3339}

// FormatPubDate renders a provider date in Korea time, or returns the input
// trimmed when it cannot be parsed.
func FormatPubDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(kst).Format(DisplayLayout)
		}
	}
	return raw
}

// Inline tags such as <b> are removed without adding a separator.
var breaking = map[string]bool{"br": true, "p": true, "div": true, "li": true}

// StripMarkup drops tags, decodes entities and collapses whitespace.
func StripMarkup(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if breaking[string(name)] {
				b.WriteByte(' ')
			}
		}
	}
}

// PublisherFromLink returns the link host without a leading "www.".
func PublisherFromLink(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// ToArticle maps a raw item to a display Article. Content starts as the
// description.
func ToArticle(it Item) article.Article {
	title := StripMarkup(it.Title)
	desc := StripMarkup(it.Description)
	publisher := strings.TrimSpace(it.Publisher)
	if publisher == "" {
		publisher = PublisherFromLink(it.OriginalLink)
	}
	if publisher == "" {
		publisher = PublisherFromLink(it.Link)
	}
	return article.Article{
		Title:        title,
		Description:  desc,
		Link:         strings.TrimSpace(it.Link),
		OriginalLink: strings.TrimSpace(it.OriginalLink),
		Publisher:    publisher,
		PublishedAt:  FormatPubDate(it.PubDate),
		Content:      desc,
	}
}

// ToArticles maps items in order, dropping those without a title or link.
func ToArticles(items []Item) []article.Article {
	out := make([]article.Article, 0, len(items))
	for _, it := range items {
		a := ToArticle(it)
		if a.Title == "" || a.Link == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ByCategory resolves category, queries p, drops duplicate stories and maps
// the results.
func ByCategory(ctx context.Context, p Provider, category string, limit int) ([]article.Article, string, error) {
	kw, err := Keyword(category)
	if err != nil {
		return nil, "", err
	}
	items, err := p.Search(ctx, kw, limit)
	if err != nil {
		return nil, kw, fmt.Errorf("%s search %q: %w", p.Name(), kw, err)
	}
	return ToArticles(Dedupe(items)), kw, nil
}
