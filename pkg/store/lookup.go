package store

import (
	"slices"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedbouncer/pkg/domain"
)

// SourceLookup indexes feed ids by source name and by source url. It is derived from the
// store at startup and kept current by inserts, never persisted.
type SourceLookup struct {
	byTitle map[string]map[string]struct{}
	byURL   map[string]map[string]struct{}
}

// NewSourceLookup makes an empty lookup
func NewSourceLookup() *SourceLookup {
	return &SourceLookup{
		byTitle: map[string]map[string]struct{}{},
		byURL:   map[string]map[string]struct{}{},
	}
}

// Touch registers id under the key's name and, if set, its url
func (l *SourceLookup) Touch(id string, key domain.LookupKey) {
	addToIndex(l.byTitle, key.Name, id)
	if key.FeedURL != "" {
		addToIndex(l.byURL, key.FeedURL, id)
	}
}

// Check resolves a key to an existing id. A single url match wins, then a single title match.
// Multiple candidates in either index are ambiguous: a warning is logged and nothing is returned.
func (l *SourceLookup) Check(key domain.LookupKey) (string, bool) {
	var urlMatches map[string]struct{}
	if key.FeedURL != "" {
		urlMatches = l.byURL[key.FeedURL]
	}
	titleMatches := l.byTitle[key.Name]

	if len(urlMatches) == 1 {
		return single(urlMatches), true
	}
	if len(titleMatches) == 1 {
		return single(titleMatches), true
	}
	if len(urlMatches) > 1 || len(titleMatches) > 1 {
		lgr.Printf("[WARN] ambiguous identity for %q (%s), %d url and %d title matches, not merging",
			key.Name, key.FeedURL, len(urlMatches), len(titleMatches))
	}
	return "", false
}

// ByURL returns the sorted ids registered under the source url
func (l *SourceLookup) ByURL(url string) []string {
	ids := make([]string, 0, len(l.byURL[url]))
	for id := range l.byURL[url] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func addToIndex(idx map[string]map[string]struct{}, key, id string) {
	set, ok := idx[key]
	if !ok {
		set = map[string]struct{}{}
		idx[key] = set
	}
	set[id] = struct{}{}
}

func single(set map[string]struct{}) string {
	for id := range set {
		return id
	}
	return ""
}
