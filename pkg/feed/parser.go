package feed

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"

	"github.com/umputun/feedbouncer/pkg/domain"
)

// ErrUnknownFormat is returned when the body is neither RSS 2.0 nor any other known feed format
var ErrUnknownFormat = errors.New("unknown feed format")

// Document is a parsed feed split into its header and items, items in document order
type Document struct {
	Header domain.FeedHeader
	Items  []domain.FeedItem
}

// Title returns the document title
func (d *Document) Title() string {
	return d.Header.Title()
}

// Parse converts a fetched body into a Document. RSS 2.0 is tried first, Atom and JSON feeds second.
// Relative item links are resolved against sourceURL.
func Parse(body []byte, sourceURL string) (*Document, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		base = nil
	}

	rssFeed, rssErr := (&rss.Parser{}).Parse(bytes.NewReader(body))
	if rssErr == nil {
		return fromRSS(rssFeed, base), nil
	}

	genericFeed, genericErr := gofeed.NewParser().Parse(bytes.NewReader(body))
	if genericErr == nil {
		return fromGeneric(genericFeed, base), nil
	}

	return nil, fmt.Errorf("%w: rss: %v, generic: %v", ErrUnknownFormat, rssErr, genericErr)
}

func fromRSS(f *rss.Feed, base *url.URL) *Document {
	hdr := &domain.RSSHeader{
		Title:          f.Title,
		Link:           f.Link,
		Description:    f.Description,
		Language:       f.Language,
		Copyright:      f.Copyright,
		ManagingEditor: f.ManagingEditor,
		WebMaster:      f.WebMaster,
		PubDate:        f.PubDate,
		LastBuildDate:  f.LastBuildDate,
		Categories:     rssCategories(f.Categories),
		Generator:      f.Generator,
		Docs:           f.Docs,
		TTL:            f.TTL,
		SkipHours:      nonEmpty(f.SkipHours),
		SkipDays:       nonEmpty(f.SkipDays),
	}
	if f.Image != nil {
		hdr.ImageURL = f.Image.URL
	}

	doc := &Document{Header: domain.FeedHeader{RSS: hdr}, Items: make([]domain.FeedItem, 0, len(f.Items))}
	for _, it := range f.Items {
		if it == nil {
			continue
		}
		item := &domain.RSSItem{
			Title:       it.Title,
			Link:        resolve(base, it.Link),
			Description: it.Description,
			Author:      it.Author,
			Categories:  rssCategories(it.Categories),
			Comments:    it.Comments,
			PubDate:     it.PubDate,
			Content:     it.Content,
		}
		if it.GUID != nil {
			item.GUID = it.GUID.Value
		}
		if it.Enclosure != nil {
			item.EnclosureURL = resolve(base, it.Enclosure.URL)
			item.EnclosureType = it.Enclosure.Type
		}
		doc.Items = append(doc.Items, domain.FeedItem{RSS: item})
	}
	return doc
}

func fromGeneric(f *gofeed.Feed, base *url.URL) *Document {
	hdr := &domain.GenericHeader{
		Title:       f.Title,
		Description: f.Description,
		Link:        f.Link,
		FeedLink:    f.FeedLink,
		Links:       nonEmpty(f.Links),
		Updated:     f.Updated,
		Published:   f.Published,
		Authors:     personNames(f.Authors),
		Language:    f.Language,
		Copyright:   f.Copyright,
		Generator:   f.Generator,
		Categories:  nonEmpty(f.Categories),
		FeedType:    f.FeedType,
		FeedVersion: f.FeedVersion,
	}
	if f.Image != nil {
		hdr.ImageURL = f.Image.URL
	}

	doc := &Document{Header: domain.FeedHeader{Generic: hdr}, Items: make([]domain.FeedItem, 0, len(f.Items))}
	for _, it := range f.Items {
		if it == nil {
			continue
		}
		item := &domain.GenericItem{
			ID:              it.GUID,
			Title:           it.Title,
			Description:     it.Description,
			Content:         it.Content,
			Links:           itemLinks(base, it.Link, it.Links),
			Updated:         it.Updated,
			UpdatedParsed:   it.UpdatedParsed,
			Published:       it.Published,
			PublishedParsed: it.PublishedParsed,
			Authors:         personNames(it.Authors),
			Categories:      nonEmpty(it.Categories),
		}
		doc.Items = append(doc.Items, domain.FeedItem{Generic: item})
	}
	return doc
}

// itemLinks puts the primary link first, followed by the other links without duplicates
func itemLinks(base *url.URL, primary string, links []string) []string {
	var res []string
	seen := map[string]bool{}
	for _, l := range append([]string{primary}, links...) {
		if l == "" {
			continue
		}
		l = resolve(base, l)
		if seen[l] {
			continue
		}
		seen[l] = true
		res = append(res, l)
	}
	return res
}

func resolve(base *url.URL, link string) string {
	if base == nil || link == "" {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil || ref.IsAbs() {
		return link
	}
	return base.ResolveReference(ref).String()
}

func rssCategories(cats []*rss.Category) []string {
	var res []string
	for _, c := range cats {
		if c != nil && c.Value != "" {
			res = append(res, c.Value)
		}
	}
	return res
}

func personNames(persons []*gofeed.Person) []string {
	var res []string
	for _, p := range persons {
		if p == nil {
			continue
		}
		switch {
		case p.Name != "":
			res = append(res, p.Name)
		case p.Email != "":
			res = append(res, p.Email)
		}
	}
	return res
}

func nonEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
