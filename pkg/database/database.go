// Package database is the process-wide engine state: the feed store, identity lookup,
// read-state and refresh sequence number, all behind one read/write lock.
package database

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedbouncer/pkg/domain"
	"github.com/umputun/feedbouncer/pkg/store"
)

var (
	// ErrNotFound is returned for unknown feed or item ids
	ErrNotFound = errors.New("not found")
	// ErrRefreshConflict is returned when a refresh result was planned against an outdated sequence number
	ErrRefreshConflict = errors.New("refresh conflict")
)

// DB owns all engine state. Readers get copies, writers go through the methods below
// or Update, so nothing leaks out of the lock.
type DB struct {
	mu          sync.RWMutex
	saveMu      sync.Mutex
	root        string
	store       *store.Store
	lookup      *store.SourceLookup
	userData    *store.UserData
	lastRefresh time.Time
	seqNo       uint64
}

// Open loads the storage root or starts empty if it does not exist.
// Undecodable documents are fatal and returned as store.ErrCorrupt.
func Open(root string) (*DB, error) {
	st, err := store.Open(root)
	if err != nil {
		return nil, fmt.Errorf("open feed store: %w", err)
	}
	ud, err := store.OpenUserData(root)
	if err != nil {
		return nil, fmt.Errorf("open user data: %w", err)
	}
	lgr.Printf("[INFO] database opened at %s, %d feeds", root, st.Len())
	return &DB{root: root, store: st, lookup: st.Lookup(), userData: ud}, nil
}

// Root returns the storage root directory
func (db *DB) Root() string {
	return db.root
}

// Insert resolves the feed identity and stores it. A new source gets an id derived from its
// name and url. For a known source set fields are kept and mismatches only logged,
// empty fields are filled in and tags are unioned.
func (db *DB) Insert(f *domain.Feed) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.insert(f)
}

func (db *DB) insert(f *domain.Feed) string {
	key := f.Key()
	id, found := db.lookup.Check(key)
	if !found {
		id = FeedID(f.Name, f.FeedURL)
	}
	db.lookup.Touch(id, key)

	existing, inserted := db.store.GetOrInsert(id, f)
	if inserted {
		lgr.Printf("[DEBUG] inserted feed %s %q", id, f.Name)
		return id
	}

	existing.FeedURL = mergeOrWarn(id, "feed_url", existing.FeedURL, f.FeedURL)
	warnIfNotEqual(id, "name", existing.Name, f.Name)
	switch {
	case f.OPML == nil:
	case existing.OPML == nil:
		o := *f.OPML
		existing.OPML = &o
	case *existing.OPML != *f.OPML:
		lgr.Printf("[WARN] feed %s: mismatching opml outline %+v != %+v, keeping existing", id, *existing.OPML, *f.OPML)
	}
	existing.AddTags(f.Tags...)
	return id
}

// FeedID mints the identity of a never-seen source: hex sha256 of the name followed by the url
func FeedID(name, feedURL string) string {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte(feedURL))
	return hex.EncodeToString(h.Sum(nil))
}

func mergeOrWarn(id, field, current, value string) string {
	if value == "" {
		return current
	}
	if current == "" {
		return value
	}
	warnIfNotEqual(id, field, current, value)
	return current
}

func warnIfNotEqual(id, field, current, value string) {
	if current != value {
		lgr.Printf("[WARN] feed %s: mismatching %s %q != %q, keeping existing", id, field, current, value)
	}
}

// Get returns a copy of the feed
func (db *DB) Get(id string) (*domain.Feed, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	f, ok := db.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("feed %s: %w", id, ErrNotFound)
	}
	return f.Clone(), nil
}

// Update runs fn on the stored feed under the write lock. Item order and tag sets are
// restored after fn returns, whatever it did to them.
func (db *DB) Update(id string, fn func(f *domain.Feed) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	f, ok := db.store.Get(id)
	if !ok {
		return fmt.Errorf("feed %s: %w", id, ErrNotFound)
	}
	err := fn(f)
	domain.SortItemMetas(f.Items)
	f.Normalize()
	return err
}

// ListFeeds returns copies of the feeds matching the filter, ordered by title
func (db *DB) ListFeeds(filter domain.Filter) []domain.FeedEntry {
	db.mu.RLock()
	defer db.mu.RUnlock()

	res := []domain.FeedEntry{}
	for _, id := range db.store.IDs() {
		f, _ := db.store.Get(id)
		if !filter.Matches(f) {
			continue
		}
		res = append(res, domain.FeedEntry{ID: id, Feed: f.Clone(), Unread: db.unread(id, f)})
	}
	slices.SortStableFunc(res, func(a, b domain.FeedEntry) int {
		return strings.Compare(strings.ToLower(a.Feed.Title()), strings.ToLower(b.Feed.Title()))
	})
	return res
}

func (db *DB) unread(id string, f *domain.Feed) int {
	n := 0
	for _, m := range f.Items {
		if !db.userData.IsRead(id, m.ID) {
			n++
		}
	}
	return n
}

// ListItemsOrderedByTime returns the items of all feeds matching the filter,
// oldest first by effective date; items of equal date keep feed id order.
func (db *DB) ListItemsOrderedByTime(filter domain.Filter) []domain.ItemEntry {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var res []domain.ItemEntry
	for _, id := range db.store.IDs() {
		f, _ := db.store.Get(id)
		if !filter.Matches(f) {
			continue
		}
		title := f.Title()
		for _, m := range f.Items {
			res = append(res, domain.ItemEntry{
				FeedID:    id,
				FeedTitle: title,
				ItemID:    m.ID,
				Title:     m.Item.DisplayTitleWithoutPrefixes(f),
				Date:      m.Item.EffectiveDate(),
				Read:      db.userData.IsRead(id, m.ID),
				Item:      m.Item,
			})
		}
	}
	slices.SortStableFunc(res, func(a, b domain.ItemEntry) int { return a.Date.Compare(b.Date) })
	return res
}

// RecentItems returns up to limit items matching the filter, newest first. limit <= 0 means all.
func (db *DB) RecentItems(filter domain.Filter, limit int) []domain.ItemEntry {
	items := db.ListItemsOrderedByTime(filter)
	slices.Reverse(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// FeedItems returns the items of one feed, newest first
func (db *DB) FeedItems(id string) ([]domain.ItemEntry, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	f, ok := db.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("feed %s: %w", id, ErrNotFound)
	}
	res := make([]domain.ItemEntry, 0, len(f.Items))
	for i := len(f.Items) - 1; i >= 0; i-- {
		m := f.Items[i]
		res = append(res, domain.ItemEntry{
			FeedID:    id,
			FeedTitle: f.Title(),
			ItemID:    m.ID,
			Title:     m.Item.DisplayTitleWithoutPrefixes(f),
			Date:      m.Item.EffectiveDate(),
			Read:      db.userData.IsRead(id, m.ID),
			Item:      m.Item,
		})
	}
	return res, nil
}

// KnownTags returns the sorted union of all feed tags
func (db *DB) KnownTags() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var tags []string
	for _, id := range db.store.IDs() {
		f, _ := db.store.Get(id)
		tags = append(tags, f.Tags...)
	}
	slices.Sort(tags)
	return slices.Compact(tags)
}

// FeedsByURL returns the ids of feeds registered under the source url
func (db *DB) FeedsByURL(url string) []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.lookup.ByURL(url)
}

// Stats is a point-in-time summary of the database
type Stats struct {
	Feeds       int
	Items       int
	Unread      int
	SeqNo       uint64
	LastRefresh time.Time
}

// Stats returns counters and refresh state
func (db *DB) Stats() Stats {
	db.mu.RLock()
	defer db.mu.RUnlock()
	res := Stats{Feeds: db.store.Len(), SeqNo: db.seqNo, LastRefresh: db.lastRefresh}
	for _, id := range db.store.IDs() {
		f, _ := db.store.Get(id)
		res.Items += len(f.Items)
		res.Unread += db.unread(id, f)
	}
	return res
}

// LastRefresh returns the time of the last committed refresh, zero if none
func (db *DB) LastRefresh() time.Time {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.lastRefresh
}

// SeqNo returns the current refresh sequence number
func (db *DB) SeqNo() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.seqNo
}
