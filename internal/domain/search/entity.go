package search

import (
	"context"
	"net/url"
)

// RecentStorageKey is where submitted terms are kept
const RecentStorageKey = "kbeauty_recent_searches"

// MinQueryLength is the shortest query, in runes, that reaches the backend
const MinQueryLength = 2

// Suggestions is the backend answer for a partial query
type Suggestions struct {
	Suggestions []string `json:"suggestions"`
	Brands      []string `json:"brands"`
	Categories  []string `json:"categories"`
}

// Suggester fetches suggestions for a query
type Suggester interface {
	Suggestions(ctx context.Context, query string) (*Suggestions, error)
}

// Corrector proposes spellings for a query that matched nothing. A Suggester
// may implement it.
type Corrector interface {
	DidYouMean(ctx context.Context, query string) ([]string, error)
}

// Panel is what the search dropdown shows for a query. Short queries carry
// Recent and Popular; longer ones carry the three suggestion groups.
type Panel struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
	Brands      []string `json:"brands"`
	Categories  []string `json:"categories"`
	Recent      []string `json:"recent,omitempty"`
	Popular     []string `json:"popular,omitempty"`
	DidYouMean  []string `json:"did_you_mean,omitempty"`
}

func (p Panel) empty() bool {
	return len(p.Suggestions) == 0 && len(p.Brands) == 0 && len(p.Categories) == 0
}

// Navigation is the listing a submitted search leads to
type Navigation struct {
	Term string `json:"term"`
	Path string `json:"path"`
}

func navigationFor(term string) Navigation {
	return Navigation{
		Term: term,
		Path: "/products?" + url.Values{"search": {term}}.Encode(),
	}
}
