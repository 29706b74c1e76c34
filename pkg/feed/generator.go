package feed

import (
	"encoding/xml"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/umputun/feedbouncer/pkg/domain"
)

// Generator renders the aggregated item stream as RSS and the subscription list as OPML
type Generator struct {
	baseURL string
}

// NewGenerator creates a generator, baseURL is used for self links
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/")}
}

// GenerateRSS creates an RSS 2.0 document from item entries, in the given order.
// filter is the raw tag filter the entries were selected with, it ends up in the title and self link.
func (g *Generator) GenerateRSS(entries []domain.ItemEntry, filter string) (string, error) {
	title := "Feed Bouncer"
	selfLink := g.baseURL + "/rss"
	if filter != "" {
		title = fmt.Sprintf("Feed Bouncer - %s", filter)
		selfLink = fmt.Sprintf("%s/rss?filter=%s", g.baseURL, filter)
	}

	items := make([]*rssEntry, 0, len(entries))
	for _, e := range entries {
		items = append(items, g.entry(e))
	}

	doc := &rssDoc{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &rssChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   "items collected from all subscribed feeds",
			AtomLink:      &atomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: time.Now().Format(time.RFC1123Z),
			Items:         items,
		},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

func (g *Generator) entry(e domain.ItemEntry) *rssEntry {
	res := &rssEntry{
		Title:       e.Title,
		Link:        e.Link(),
		GUID:        rssGUID{Value: fmt.Sprintf("%s/%d", e.FeedID, e.ItemID), IsPermaLink: "false"},
		Description: e.Item.Summary(),
		Source:      e.FeedTitle,
	}
	if e.FeedTitle != "" {
		res.Title = e.FeedTitle + ": " + e.Title
	}
	if !e.Date.Equal(domain.OldDate) {
		res.PubDate = e.Date.Format(time.RFC1123Z)
	}
	switch {
	case e.Item.RSS != nil:
		res.Categories = e.Item.RSS.Categories
	case e.Item.Generic != nil:
		res.Categories = e.Item.Generic.Categories
	}
	return res
}

// GenerateOPML creates an OPML document with all subscriptions. Feeds with a parent are nested
// under it, feeds without a source url are kept as folders.
func (g *Generator) GenerateOPML(feeds []domain.FeedEntry) (string, error) {
	known := make(map[string]bool, len(feeds))
	for _, f := range feeds {
		known[f.ID] = true
	}

	children := map[string][]domain.FeedEntry{}
	var roots []domain.FeedEntry
	for _, f := range feeds {
		if f.Feed.Parent != "" && known[f.Feed.Parent] {
			children[f.Feed.Parent] = append(children[f.Feed.Parent], f)
			continue
		}
		roots = append(roots, f)
	}

	var build func(list []domain.FeedEntry) []opmlEntry
	build = func(list []domain.FeedEntry) []opmlEntry {
		slices.SortStableFunc(list, func(a, b domain.FeedEntry) int {
			return strings.Compare(strings.ToLower(a.Feed.Title()), strings.ToLower(b.Feed.Title()))
		})
		res := make([]opmlEntry, 0, len(list))
		for _, f := range list {
			o := opmlEntry{
				Text:     f.Feed.Title(),
				Title:    f.Feed.Title(),
				XMLURL:   f.Feed.FeedURL,
				HTMLURL:  siteLink(f.Feed),
				Category: strings.Join(f.Feed.Tags, ","),
				Children: build(children[f.ID]),
			}
			if f.Feed.FeedURL != "" {
				o.Type = "rss"
			}
			res = append(res, o)
		}
		return res
	}

	doc := opmlDoc{
		Version: "2.0",
		Head:    opmlHead{Title: "Feed Bouncer Subscriptions", DateCreated: time.Now().Format(time.RFC1123Z)},
		Body:    build(roots),
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}
	return xml.Header + string(output), nil
}

// siteLink picks the html link of the feed, from the imported outline or the latest header
func siteLink(f *domain.Feed) string {
	if f.OPML != nil && f.OPML.HTMLURL != "" {
		return f.OPML.HTMLURL
	}
	for i := len(f.Headers) - 1; i >= 0; i-- {
		if link := f.Headers[i].Header.Link(); link != "" {
			return link
		}
	}
	return ""
}
