package domain

import (
	"slices"
	"strings"
)

// Feed is one subscribed source and all items ever seen from it.
// Items are kept sorted by effective publish date, oldest first.
// Headers and items carry ids assigned from the persisted counters, ids are never reused.
type Feed struct {
	Name    string       `json:"name"`
	FeedURL string       `json:"feed_url,omitempty"`
	OPML    *OPMLOutline `json:"opml,omitempty"`

	// legacy unkeyed lists, drained by Upgrade
	LegacyHeaders []FeedHeader `json:"feed_headers,omitempty"`
	LegacyItems   []FeedItem   `json:"feeds,omitempty"`

	Headers        []HeaderMeta `json:"feed_headers_v2,omitempty"`
	HeadersCounter uint64       `json:"feed_headers_counter"`
	Items          []ItemMeta   `json:"feeds_v2,omitempty"`
	ItemsCounter   uint64       `json:"feeds_counter"`

	Parent       string   `json:"parent,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	TitleAliases []string `json:"title_aliases,omitempty"`
	DisplayName  string   `json:"display_name,omitempty"`
}

// OPMLOutline keeps the attributes of the outline node a feed was imported from, children excluded
type OPMLOutline struct {
	Text        string `json:"text"`
	Title       string `json:"title,omitempty"`
	Type        string `json:"type,omitempty"`
	XMLURL      string `json:"xml_url,omitempty"`
	HTMLURL     string `json:"html_url,omitempty"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Version     string `json:"version,omitempty"`
}

// HeaderMeta is a feed header stamped with its sequence id
type HeaderMeta struct {
	ID     uint64     `json:"id"`
	Header FeedHeader `json:"header"`
}

// ItemMeta is a feed item stamped with its sequence id
type ItemMeta struct {
	ID   uint64   `json:"id"`
	Item FeedItem `json:"item"`
}

// LookupKey is the pair used to resolve a feed identity
type LookupKey struct {
	Name    string
	FeedURL string
}

// NewFeed makes an empty feed with the given source-reported name
func NewFeed(name string) *Feed {
	return &Feed{Name: name}
}

// Key returns the identity lookup key of the feed
func (f *Feed) Key() LookupKey {
	return LookupKey{Name: f.Name, FeedURL: f.FeedURL}
}

// Title returns the user display name if set, the source name otherwise
func (f *Feed) Title() string {
	if f.DisplayName != "" {
		return strings.TrimSpace(f.DisplayName)
	}
	return strings.TrimSpace(f.Name)
}

// OriginalTitle returns the trimmed source-reported name
func (f *Feed) OriginalTitle() string {
	return strings.TrimSpace(f.Name)
}

// SetDisplayName sets the user override of the feed name
func (f *Feed) SetDisplayName(name string) {
	f.DisplayName = name
}

// Titles returns the source name followed by all title aliases
func (f *Feed) Titles() []string {
	res := make([]string, 0, len(f.TitleAliases)+1)
	res = append(res, f.Name)
	return append(res, f.TitleAliases...)
}

// AddTags unions tags into the feed tag set, returns true if any tag was new
func (f *Feed) AddTags(tags ...string) bool {
	var added bool
	f.Tags, added = setInsert(f.Tags, tags...)
	return added
}

// HasTag checks if the feed carries the tag
func (f *Feed) HasTag(tag string) bool {
	_, found := slices.BinarySearch(f.Tags, tag)
	return found
}

// RemoveTag drops the tag, returns true if it was present
func (f *Feed) RemoveTag(tag string) bool {
	idx, found := slices.BinarySearch(f.Tags, tag)
	if !found {
		return false
	}
	f.Tags = slices.Delete(f.Tags, idx, idx+1)
	return true
}

// AddTitleAlias inserts a trimmed alias, returns true if it was new
func (f *Feed) AddTitleAlias(alias string) bool {
	var added bool
	f.TitleAliases, added = setInsert(f.TitleAliases, strings.TrimSpace(alias))
	return added
}

// RemoveTitleAlias removes the alias matching the trimmed value, returns true if removed
func (f *Feed) RemoveTitleAlias(alias string) bool {
	idx, found := slices.BinarySearch(f.TitleAliases, strings.TrimSpace(alias))
	if !found {
		return false
	}
	f.TitleAliases = slices.Delete(f.TitleAliases, idx, idx+1)
	return true
}

// HasHeader checks if a header equal by value is already stored
func (f *Feed) HasHeader(h FeedHeader) bool {
	for _, m := range f.Headers {
		if m.Header.Equal(h) {
			return true
		}
	}
	return false
}

// PushHeader appends the header with the next header id
func (f *Feed) PushHeader(h FeedHeader) {
	f.Headers = append(f.Headers, HeaderMeta{ID: f.HeadersCounter, Header: h})
	f.HeadersCounter++
}

// AddItems appends items with fresh ids and re-sorts the item list by effective date
func (f *Feed) AddItems(items ...FeedItem) {
	for _, it := range items {
		f.Items = append(f.Items, ItemMeta{ID: f.ItemsCounter, Item: it})
		f.ItemsCounter++
	}
	SortItemMetas(f.Items)
}

// Item returns the item with the given id
func (f *Feed) Item(id uint64) (ItemMeta, bool) {
	for _, m := range f.Items {
		if m.ID == id {
			return m, true
		}
	}
	return ItemMeta{}, false
}

// ItemKeys returns the identity keys of all stored items
func (f *Feed) ItemKeys() map[ItemKey]struct{} {
	res := make(map[ItemKey]struct{}, len(f.Items))
	for _, m := range f.Items {
		res[m.Item.Key()] = struct{}{}
	}
	return res
}

// Upgrade moves legacy unkeyed headers and items into the id-stamped lists, in original order.
// Returns true if anything was migrated; calling it again is a no-op.
func (f *Feed) Upgrade() bool {
	if len(f.LegacyHeaders) == 0 && len(f.LegacyItems) == 0 {
		return false
	}
	for _, h := range f.LegacyHeaders {
		f.PushHeader(h)
	}
	f.LegacyHeaders = nil

	for _, it := range f.LegacyItems {
		f.Items = append(f.Items, ItemMeta{ID: f.ItemsCounter, Item: it})
		f.ItemsCounter++
	}
	f.LegacyItems = nil
	SortItemMetas(f.Items)
	return true
}

// Normalize restores sorted unique tag and alias sets, hand-edited documents may break them
func (f *Feed) Normalize() {
	slices.Sort(f.Tags)
	f.Tags = slices.Compact(f.Tags)
	slices.Sort(f.TitleAliases)
	f.TitleAliases = slices.Compact(f.TitleAliases)
}

// Clone makes a copy safe to hand out of the store lock.
// Variant payloads are shared, they are never mutated after parsing.
func (f *Feed) Clone() *Feed {
	res := *f
	if f.OPML != nil {
		o := *f.OPML
		res.OPML = &o
	}
	res.LegacyHeaders = slices.Clone(f.LegacyHeaders)
	res.LegacyItems = slices.Clone(f.LegacyItems)
	res.Headers = slices.Clone(f.Headers)
	res.Items = slices.Clone(f.Items)
	res.Tags = slices.Clone(f.Tags)
	res.TitleAliases = slices.Clone(f.TitleAliases)
	return &res
}

// setInsert adds values to a sorted unique slice
func setInsert(set []string, values ...string) ([]string, bool) {
	added := false
	for _, v := range values {
		idx, found := slices.BinarySearch(set, v)
		if found {
			continue
		}
		set = slices.Insert(set, idx, v)
		added = true
	}
	return set, added
}
