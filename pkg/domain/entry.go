package domain

import "time"

// FeedEntry is a feed as listed by the database, with its id and read-state summary
type FeedEntry struct {
	ID     string
	Feed   *Feed
	Unread int
}

// ItemEntry is an item as listed across feeds. Title is already cleaned of the feed's prefixes.
type ItemEntry struct {
	FeedID    string
	FeedTitle string
	ItemID    uint64
	Title     string
	Date      time.Time
	Read      bool
	Item      FeedItem
}

// Link returns the canonical content link of the item
func (e ItemEntry) Link() string {
	return e.Item.ContentLink()
}
