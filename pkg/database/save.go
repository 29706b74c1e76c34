package database

import (
	"errors"
	"fmt"

	"github.com/umputun/feedbouncer/pkg/store"
)

// Save writes all feeds and the read-state. Feed documents that would shrink are left as they are.
func (db *DB) Save() error {
	return db.save(false)
}

// SaveShrunk writes all feeds and the read-state, allowing documents to shrink.
// Used after operations that remove data, like tag or alias removal.
func (db *DB) SaveShrunk() error {
	return db.save(true)
}

// save serializes under the read lock and writes outside of it. saveMu keeps writes
// in snapshot order, so an older snapshot never lands after a newer one.
func (db *DB) save(allowShrink bool) error {
	db.saveMu.Lock()
	defer db.saveMu.Unlock()

	db.mu.RLock()
	docs, err := db.store.Documents()
	if err != nil {
		db.mu.RUnlock()
		return fmt.Errorf("serialize feeds: %w", err)
	}
	userData, err := db.userData.Marshal()
	db.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("serialize user data: %w", err)
	}

	var errs []error
	if err := store.SaveDocuments(db.root, docs, allowShrink); err != nil {
		errs = append(errs, fmt.Errorf("save feeds: %w", err))
	}
	if err := store.SaveUserData(db.root, userData); err != nil {
		errs = append(errs, fmt.Errorf("save user data: %w", err))
	}
	return errors.Join(errs...)
}
