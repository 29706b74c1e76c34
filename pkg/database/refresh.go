package database

import (
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedbouncer/pkg/domain"
)

// BuildRefreshPlan snapshots every feed with a source url together with the identity keys
// of its stored items and the current sequence number
func (db *DB) BuildRefreshPlan() domain.RefreshPlan {
	db.mu.RLock()
	defer db.mu.RUnlock()

	plan := domain.RefreshPlan{SeqNo: db.seqNo}
	for _, id := range db.store.IDs() {
		f, _ := db.store.Get(id)
		if f.FeedURL == "" {
			continue
		}
		plan.Targets = append(plan.Targets, domain.RefreshTarget{
			FeedID: id,
			URL:    f.FeedURL,
			Name:   f.Title(),
			Known:  f.ItemKeys(),
		})
	}
	lgr.Printf("[DEBUG] refresh plan with %d feeds, seq %d", len(plan.Targets), plan.SeqNo)
	return plan
}

// CommitRefresh merges a refresh result. If the sequence number moved since the plan was built
// the whole result is discarded and ErrRefreshConflict returned. Otherwise new headers and items
// are added, the last refresh time is set and the sequence number advances by one.
func (db *DB) CommitRefresh(res domain.RefreshResult) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if res.SeqNo != db.seqNo {
		lgr.Printf("[WARN] refresh planned at seq %d, current seq %d, discarding %d feed updates",
			res.SeqNo, db.seqNo, len(res.Updates))
		return fmt.Errorf("planned at seq %d, current %d: %w", res.SeqNo, db.seqNo, ErrRefreshConflict)
	}

	newItems := 0
	for id, upd := range res.Updates {
		f, ok := db.store.Get(id)
		if !ok {
			lgr.Printf("[WARN] feed %s vanished since the refresh plan, update skipped", id)
			continue
		}
		for _, h := range upd.Headers {
			if !f.HasHeader(h) {
				f.PushHeader(h)
			}
		}
		if len(upd.Items) > 0 {
			f.AddItems(upd.Items...)
			newItems += len(upd.Items)
		}
	}
	db.lastRefresh = time.Now()
	db.seqNo = res.SeqNo + 1
	lgr.Printf("[INFO] committed refresh of %d feeds, %d new items, seq %d", len(res.Updates), newItems, db.seqNo)
	return nil
}
