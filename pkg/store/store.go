// Package store keeps feed aggregates as one JSON document per feed under the storage root,
// along with the read-state document. Types here are not safe for concurrent use,
// the database serializes access to them.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedbouncer/pkg/domain"
)

// ErrCorrupt is returned when a stored document can be read but not decoded
var ErrCorrupt = errors.New("corrupt storage document")

const feedsDir = "feeds"

// Store is the keyed collection of feed aggregates
type Store struct {
	feeds map[string]*domain.Feed
}

// Document is a serialized feed ready to be written
type Document struct {
	ID   string
	Data []byte
}

// New makes an empty store
func New() *Store {
	return &Store{feeds: map[string]*domain.Feed{}}
}

// Open loads every feeds/<id>.json under root. A missing directory is an empty store,
// an undecodable document is ErrCorrupt. Legacy documents are upgraded on load.
func Open(root string) (*Store, error) {
	s := New()
	dir := filepath.Join(root, feedsDir)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		lgr.Printf("[INFO] no feeds directory at %s, starting empty", dir)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read feeds dir %s: %w", dir, err)
	}

	upgraded := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".json")
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path) //nolint:gosec // path is under the storage root
		if err != nil {
			return nil, fmt.Errorf("read feed %s: %w", path, err)
		}
		var f domain.Feed
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
		}
		f.Normalize()
		if f.Upgrade() {
			upgraded++
		}
		s.feeds[id] = &f
	}
	if upgraded > 0 {
		lgr.Printf("[INFO] upgraded %d legacy feed documents", upgraded)
	}
	lgr.Printf("[DEBUG] loaded %d feeds from %s", len(s.feeds), dir)
	return s, nil
}

// Get returns the stored aggregate, the pointer is owned by the store
func (s *Store) Get(id string) (*domain.Feed, bool) {
	f, ok := s.feeds[id]
	return f, ok
}

// GetOrInsert returns the aggregate stored under id, or stores a clone of f if there is none.
// The second value is true when f was inserted.
func (s *Store) GetOrInsert(id string, f *domain.Feed) (*domain.Feed, bool) {
	if existing, ok := s.feeds[id]; ok {
		return existing, false
	}
	c := f.Clone()
	c.Normalize()
	s.feeds[id] = c
	return c, true
}

// IDs returns all feed ids in sorted order
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.feeds))
	for id := range s.feeds {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of stored feeds
func (s *Store) Len() int {
	return len(s.feeds)
}

// Lookup builds the identity indices from all stored feeds
func (s *Store) Lookup() *SourceLookup {
	l := NewSourceLookup()
	for id, f := range s.feeds {
		l.Touch(id, f.Key())
	}
	return l
}

// Documents serializes every feed, pretty-printed, in id order
func (s *Store) Documents() ([]Document, error) {
	docs := make([]Document, 0, len(s.feeds))
	for _, id := range s.IDs() {
		data, err := json.MarshalIndent(s.feeds[id], "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal feed %s: %w", id, err)
		}
		docs = append(docs, Document{ID: id, Data: data})
	}
	return docs, nil
}

// Save writes all feeds under root
func (s *Store) Save(root string, allowShrink bool) error {
	docs, err := s.Documents()
	if err != nil {
		return err
	}
	return SaveDocuments(root, docs, allowShrink)
}

// SaveDocuments writes each document to feeds/<id>.json through SafeSave. A failed document
// does not stop the others, all errors are returned joined.
func SaveDocuments(root string, docs []Document, allowShrink bool) error {
	var errs []error
	refused := 0
	for _, d := range docs {
		saved, err := SafeSave(FeedPath(root, d.ID), d.Data, allowShrink)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !saved {
			refused++
		}
	}
	if refused > 0 {
		lgr.Printf("[WARN] %d of %d feed documents kept their previous content", refused, len(docs))
	}
	return errors.Join(errs...)
}

// FeedPath returns the document path of a feed id
func FeedPath(root, id string) string {
	return filepath.Join(root, feedsDir, id+".json")
}
