package domain

import (
	"reflect"
	"slices"
	"strings"
	"time"
)

// FeedHeader is the document-level part of a parsed feed. Exactly one variant is set.
type FeedHeader struct {
	RSS     *RSSHeader     `json:"rss,omitempty"`
	Generic *GenericHeader `json:"generic,omitempty"`
}

// FeedItem is a single entry of a parsed feed. Exactly one variant is set.
type FeedItem struct {
	RSS     *RSSItem     `json:"rss,omitempty"`
	Generic *GenericItem `json:"generic,omitempty"`
}

// RSSHeader holds RSS 2.0 channel fields
type RSSHeader struct {
	Title          string   `json:"title"`
	Link           string   `json:"link,omitempty"`
	Description    string   `json:"description,omitempty"`
	Language       string   `json:"language,omitempty"`
	Copyright      string   `json:"copyright,omitempty"`
	ManagingEditor string   `json:"managing_editor,omitempty"`
	WebMaster      string   `json:"webmaster,omitempty"`
	PubDate        string   `json:"pub_date,omitempty"`
	LastBuildDate  string   `json:"last_build_date,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	Generator      string   `json:"generator,omitempty"`
	Docs           string   `json:"docs,omitempty"`
	TTL            string   `json:"ttl,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	SkipHours      []string `json:"skip_hours,omitempty"`
	SkipDays       []string `json:"skip_days,omitempty"`
}

// RSSItem holds RSS 2.0 item fields, dates are kept as reported by the source
type RSSItem struct {
	Title         string   `json:"title,omitempty"`
	Link          string   `json:"link,omitempty"`
	Description   string   `json:"description,omitempty"`
	Author        string   `json:"author,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Comments      string   `json:"comments,omitempty"`
	GUID          string   `json:"guid,omitempty"`
	PubDate       string   `json:"pub_date,omitempty"`
	Content       string   `json:"content,omitempty"`
	EnclosureURL  string   `json:"enclosure_url,omitempty"`
	EnclosureType string   `json:"enclosure_type,omitempty"`
}

// GenericHeader holds document fields of Atom and JSON feeds
type GenericHeader struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Link        string   `json:"link,omitempty"`
	FeedLink    string   `json:"feed_link,omitempty"`
	Links       []string `json:"links,omitempty"`
	Updated     string   `json:"updated,omitempty"`
	Published   string   `json:"published,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	Language    string   `json:"language,omitempty"`
	Copyright   string   `json:"copyright,omitempty"`
	Generator   string   `json:"generator,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	FeedType    string   `json:"feed_type,omitempty"`
	FeedVersion string   `json:"feed_version,omitempty"`
}

// GenericItem holds entry fields of Atom and JSON feeds
type GenericItem struct {
	ID              string     `json:"id,omitempty"`
	Title           string     `json:"title,omitempty"`
	Description     string     `json:"description,omitempty"`
	Content         string     `json:"content,omitempty"`
	Links           []string   `json:"links,omitempty"`
	Updated         string     `json:"updated,omitempty"`
	UpdatedParsed   *time.Time `json:"updated_parsed,omitempty"`
	Published       string     `json:"published,omitempty"`
	PublishedParsed *time.Time `json:"published_parsed,omitempty"`
	Authors         []string   `json:"authors,omitempty"`
	Categories      []string   `json:"categories,omitempty"`
}

// ItemKey identifies an item across refreshes: title and date string as reported by the source
type ItemKey struct {
	Title string
	Date  string
}

// OldDate is the effective date of items without a usable publish date, sorts them as oldest
var OldDate = time.Date(1996, time.December, 19, 16, 39, 57, 0, time.FixedZone("", -8*60*60))

// Title returns the trimmed document title
func (h FeedHeader) Title() string {
	switch {
	case h.RSS != nil:
		return strings.TrimSpace(h.RSS.Title)
	case h.Generic != nil:
		return strings.TrimSpace(h.Generic.Title)
	}
	return ""
}

// Link returns the site link of the document
func (h FeedHeader) Link() string {
	switch {
	case h.RSS != nil:
		return h.RSS.Link
	case h.Generic != nil:
		return h.Generic.Link
	}
	return ""
}

// Equal compares headers by value, nil and empty lists are the same
func (h FeedHeader) Equal(o FeedHeader) bool {
	return reflect.DeepEqual(h.normalized(), o.normalized())
}

func (h FeedHeader) normalized() FeedHeader {
	switch {
	case h.RSS != nil:
		c := *h.RSS
		c.Categories, c.SkipHours, c.SkipDays = nilIfEmpty(c.Categories), nilIfEmpty(c.SkipHours), nilIfEmpty(c.SkipDays)
		return FeedHeader{RSS: &c}
	case h.Generic != nil:
		c := *h.Generic
		c.Links, c.Authors, c.Categories = nilIfEmpty(c.Links), nilIfEmpty(c.Authors), nilIfEmpty(c.Categories)
		return FeedHeader{Generic: &c}
	}
	return h
}

// DisplayTitle returns the trimmed item title, empty if the source has none
func (it FeedItem) DisplayTitle() string {
	switch {
	case it.RSS != nil:
		return strings.TrimSpace(it.RSS.Title)
	case it.Generic != nil:
		return strings.TrimSpace(it.Generic.Title)
	}
	return ""
}

// PublishDate returns the parsed publish date, false if absent or unparseable
func (it FeedItem) PublishDate() (time.Time, bool) {
	switch {
	case it.RSS != nil:
		if it.RSS.PubDate == "" {
			return time.Time{}, false
		}
		return ParseDate(it.RSS.PubDate)
	case it.Generic != nil:
		if it.Generic.PublishedParsed != nil {
			return *it.Generic.PublishedParsed, true
		}
		if it.Generic.UpdatedParsed != nil {
			return *it.Generic.UpdatedParsed, true
		}
	}
	return time.Time{}, false
}

// EffectiveDate returns the publish date or OldDate
func (it FeedItem) EffectiveDate() time.Time {
	if t, ok := it.PublishDate(); ok {
		return t
	}
	return OldDate
}

// ContentLink returns the canonical link to the item content
func (it FeedItem) ContentLink() string {
	switch {
	case it.RSS != nil:
		return it.RSS.Link
	case it.Generic != nil && len(it.Generic.Links) > 0:
		return it.Generic.Links[0]
	}
	return ""
}

// Summary returns the description, falling back to content
func (it FeedItem) Summary() string {
	switch {
	case it.RSS != nil:
		if it.RSS.Description != "" {
			return it.RSS.Description
		}
		return it.RSS.Content
	case it.Generic != nil:
		if it.Generic.Description != "" {
			return it.Generic.Description
		}
		return it.Generic.Content
	}
	return ""
}

// Key returns the identity key used to detect already stored items
func (it FeedItem) Key() ItemKey {
	switch {
	case it.RSS != nil:
		return ItemKey{Title: it.RSS.Title, Date: it.RSS.PubDate}
	case it.Generic != nil:
		return ItemKey{Title: it.Generic.Title, Date: it.Generic.Published}
	}
	return ItemKey{}
}

// DisplayTitleWithoutPrefixes strips the feed name and aliases from the item title,
// longest first, each followed by an optional "-" or ":" separator
func (it FeedItem) DisplayTitleWithoutPrefixes(f *Feed) string {
	prefixes := f.Titles()
	for i := range prefixes {
		prefixes[i] = strings.TrimSpace(prefixes[i])
	}
	slices.SortStableFunc(prefixes, func(a, b string) int { return len(b) - len(a) })

	title := it.DisplayTitle()
	for _, p := range prefixes {
		title = stripPrefix(title, p)
	}
	return title
}

func stripPrefix(t, prefix string) string {
	t = strings.TrimSpace(t)
	t = strings.TrimSpace(strings.TrimPrefix(t, prefix))
	t = strings.TrimSpace(strings.TrimPrefix(t, "-"))
	t = strings.TrimSpace(strings.TrimPrefix(t, ":"))
	return t
}

// SortItems sorts items by effective date, oldest first, keeping the relative order of ties
func SortItems(items []FeedItem) {
	sortByDate(items, func(it FeedItem) FeedItem { return it })
}

// SortItemMetas sorts stamped items by effective date, oldest first, keeping the relative order of ties
func SortItemMetas(items []ItemMeta) {
	sortByDate(items, func(m ItemMeta) FeedItem { return m.Item })
}

// sortByDate computes each date once and sorts stable on it
func sortByDate[T any](items []T, item func(T) FeedItem) {
	type keyed struct {
		date time.Time
		val  T
	}
	ks := make([]keyed, len(items))
	for i, v := range items {
		ks[i] = keyed{date: item(v).EffectiveDate(), val: v}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int { return a.date.Compare(b.date) })
	for i := range ks {
		items[i] = ks[i].val
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
