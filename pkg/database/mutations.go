package database

import (
	"fmt"

	"github.com/umputun/feedbouncer/pkg/domain"
)

// MarkRead marks one item of the feed as read, returns true if it was unread
func (db *DB) MarkRead(feedID string, itemID uint64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	f, ok := db.store.Get(feedID)
	if !ok {
		return false, fmt.Errorf("feed %s: %w", feedID, ErrNotFound)
	}
	if _, ok := f.Item(itemID); !ok {
		return false, fmt.Errorf("item %d of feed %s: %w", itemID, feedID, ErrNotFound)
	}
	return db.userData.MarkRead(feedID, itemID), nil
}

// MarkReadUpTo marks the item and every item of the same feed not newer than it as read.
// Returns the number of items that changed state.
func (db *DB) MarkReadUpTo(feedID string, itemID uint64) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	f, ok := db.store.Get(feedID)
	if !ok {
		return 0, fmt.Errorf("feed %s: %w", feedID, ErrNotFound)
	}
	target, ok := f.Item(itemID)
	if !ok {
		return 0, fmt.Errorf("item %d of feed %s: %w", itemID, feedID, ErrNotFound)
	}

	upTo := target.Item.EffectiveDate()
	marked := 0
	for _, m := range f.Items {
		if m.Item.EffectiveDate().After(upTo) {
			continue
		}
		if db.userData.MarkRead(feedID, m.ID) {
			marked++
		}
	}
	return marked, nil
}

// IsRead checks the read-state of an item
func (db *DB) IsRead(feedID string, itemID uint64) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.userData.IsRead(feedID, itemID)
}

// AddTags unions tags into the feed, returns true if any was new
func (db *DB) AddTags(feedID string, tags ...string) (bool, error) {
	var added bool
	err := db.Update(feedID, func(f *domain.Feed) error {
		added = f.AddTags(tags...)
		return nil
	})
	return added, err
}

// RemoveTag drops a tag from the feed, returns true if it was present
func (db *DB) RemoveTag(feedID, tag string) (bool, error) {
	var removed bool
	err := db.Update(feedID, func(f *domain.Feed) error {
		removed = f.RemoveTag(tag)
		return nil
	})
	return removed, err
}

// AddTitleAlias adds a trimmed alias used to clean item titles
func (db *DB) AddTitleAlias(feedID, alias string) (bool, error) {
	var added bool
	err := db.Update(feedID, func(f *domain.Feed) error {
		added = f.AddTitleAlias(alias)
		return nil
	})
	return added, err
}

// RemoveTitleAlias removes the alias matching the trimmed value
func (db *DB) RemoveTitleAlias(feedID, alias string) (bool, error) {
	var removed bool
	err := db.Update(feedID, func(f *domain.Feed) error {
		removed = f.RemoveTitleAlias(alias)
		return nil
	})
	return removed, err
}

// SetDisplayName sets the user override of the feed name
func (db *DB) SetDisplayName(feedID, name string) error {
	return db.Update(feedID, func(f *domain.Feed) error {
		f.SetDisplayName(name)
		return nil
	})
}
