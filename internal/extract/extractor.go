package extract

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Page is a fetched document handed to each strategy.
type Page struct {
	URL *url.URL
	Doc *goquery.Document
	Raw []byte
}

// Strategy is one entry of the extraction chain. Adding a publisher
// template is a matter of appending a Rule, not changing control flow.
type Strategy interface {
	Name() string
	// Matches reports whether the strategy applies to the page host.
	Matches(host string) bool
	// Extract returns raw text; the Extractor normalizes it.
	Extract(p *Page) string
}

// Rule selects body text with a CSS selector. Hosts restricts the rule to
// the listed domains (subdomains included); empty means any host.
type Rule struct {
	RuleName string   `yaml:"name" json:"name" toml:"name"`
	Hosts    []string `yaml:"hosts" json:"hosts" toml:"hosts"`
	Selector string   `yaml:"selector" json:"selector" toml:"selector"`
}

func (r Rule) Name() string {
	if r.RuleName != "" {
		return r.RuleName
	}
	return r.Selector
}

func (r Rule) Matches(host string) bool {
	return len(r.Hosts) == 0 || HostAllowed(host, r.Hosts)
}

func (r Rule) Extract(p *Page) string {
	if p == nil || p.Doc == nil || strings.TrimSpace(r.Selector) == "" {
		return ""
	}
	sel := p.Doc.Find(r.Selector)
	if sel.Length() == 0 {
		return ""
	}
	// script/style bodies are never article text
	sel.Find("script, style, noscript").Remove()
	return sel.Text()
}

// DefaultRules are the known Naver templates: the main news article body,
// then the sports section body.
func DefaultRules() []Rule {
	return []Rule{
		{RuleName: "naver-news", Selector: "#newsct_article article#dic_area"},
		{RuleName: "naver-sports", Selector: "._article_content"},
	}
}

// DefaultChain wraps DefaultRules as strategies.
func DefaultChain() []Strategy {
	return RulesChain(DefaultRules())
}

// RulesChain converts rules to strategies, preserving order.
func RulesChain(rules []Rule) []Strategy {
	out := make([]Strategy, 0, len(rules))
	for _, r := range rules {
		out = append(out, r)
	}
	return out
}

// ReadabilityStrategy runs Mozilla's readability heuristics over the raw
// page. It is opt-in and belongs at the end of a chain.
type ReadabilityStrategy struct{}

func (ReadabilityStrategy) Name() string { return "readability" }

func (ReadabilityStrategy) Matches(string) bool { return true }

func (ReadabilityStrategy) Extract(p *Page) string {
	if p == nil || len(p.Raw) == 0 {
		return ""
	}
	art, err := readability.FromReader(bytes.NewReader(p.Raw), p.URL)
	if err != nil {
		return ""
	}
	return art.TextContent
}
