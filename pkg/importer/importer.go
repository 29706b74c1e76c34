// Package importer processes the declarative import list stored next to the feeds.
// Each entry is imported once and then flagged as ignored, so repeated runs are no-ops.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedbouncer/pkg/domain"
	"github.com/umputun/feedbouncer/pkg/feed"
	"github.com/umputun/feedbouncer/pkg/opml"
	"github.com/umputun/feedbouncer/pkg/store"
)

//go:generate moq -out mocks/document_fetcher.go -pkg mocks -skip-ensure -fmt goimports . DocumentFetcher

// FileName is the import list name inside the storage root
const FileName = "import.json"

// source types of the import list
const (
	TypeRSS  = "rss"
	TypeOPML = "opml"
)

// Database is the part of the engine used for imports
type Database interface {
	Insert(f *domain.Feed) string
	FeedsByURL(url string) []string
	AddTags(feedID string, tags ...string) (bool, error)
	Save() error
}

// DocumentFetcher downloads and parses a feed, retries included
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, feedURL string) (*feed.Document, error)
}

// List is the import list document
type List struct {
	Sources []Source `json:"sources"`
}

// Source is one import entry. URL is used by rss entries, Path (relative to the storage root) by opml ones.
type Source struct {
	Type   string   `json:"type"`
	URL    string   `json:"url,omitempty"`
	Path   string   `json:"path,omitempty"`
	Ignore bool     `json:"ignore"`
	Tags   []string `json:"tags,omitempty"`
}

func (s Source) String() string {
	if s.Type == TypeOPML {
		return "opml " + s.Path
	}
	return s.Type + " " + s.URL
}

// Importer resolves import entries into feeds of the database
type Importer struct {
	db      Database
	fetcher DocumentFetcher
	root    string
	mu      sync.Mutex // serializes runs, the list file is rewritten at the end of each
}

// New makes an importer working on the import list in root
func New(db Database, fetcher DocumentFetcher, root string) *Importer {
	return &Importer{db: db, fetcher: fetcher, root: root}
}

// Run processes every entry of the import list not flagged as ignored. Entries imported
// successfully get the flag set and the list is written back; failed entries are logged and left for the next run.
// A missing list is not an error.
func (im *Importer) Run(ctx context.Context) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	path := filepath.Join(im.root, FileName)
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the storage root
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			lgr.Printf("[DEBUG] no import list at %s", path)
			return nil
		}
		return fmt.Errorf("read import list: %w", err)
	}

	var list List
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("decode import list %s: %w", path, err)
	}

	lgr.Printf("[INFO] import from %s, %d entries", path, len(list.Sources))
	imported := 0
	for i, src := range list.Sources {
		if ctx.Err() != nil {
			break
		}
		if src.Ignore {
			lgr.Printf("[DEBUG] skip %s", src)
			continue
		}
		if err := im.importSource(ctx, src); err != nil {
			lgr.Printf("[WARN] import of %s failed: %v", src, err)
			continue
		}
		lgr.Printf("[INFO] imported %s", src)
		list.Sources[i].Ignore = true
		imported++
	}
	if imported == 0 {
		return nil
	}

	if err := im.db.Save(); err != nil {
		return fmt.Errorf("save imported feeds: %w", err)
	}
	out, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal import list: %w", err)
	}
	if _, err := store.SafeSave(path, out, true); err != nil {
		return fmt.Errorf("save import list: %w", err)
	}
	return nil
}

func (im *Importer) importSource(ctx context.Context, src Source) error {
	switch src.Type {
	case TypeRSS:
		if src.URL == "" {
			return errors.New("rss entry without url")
		}
		_, err := im.ImportRSS(ctx, src.URL, src.Tags)
		return err
	case TypeOPML:
		if src.Path == "" {
			return errors.New("opml entry without path")
		}
		path := src.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(im.root, path)
		}
		_, err := im.ImportOPML(path, src.Tags)
		return err
	default:
		return fmt.Errorf("unknown source type %q", src.Type)
	}
}

// ImportRSS adds the feed at feedURL. If feeds with this url are known, only the tags are unioned into them.
// Otherwise the feed is fetched once for its title and inserted. Returns the ids of the affected feeds.
func (im *Importer) ImportRSS(ctx context.Context, feedURL string, tags []string) ([]string, error) {
	tags = validTags(tags)
	if ids := im.db.FeedsByURL(feedURL); len(ids) > 0 {
		for _, id := range ids {
			if _, err := im.db.AddTags(id, tags...); err != nil {
				return nil, fmt.Errorf("add tags to %s: %w", id, err)
			}
		}
		lgr.Printf("[DEBUG] %s already known as %v", feedURL, ids)
		return ids, nil
	}

	doc, err := im.fetcher.FetchDocument(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feedURL, err)
	}
	f := domain.NewFeed(doc.Title())
	f.FeedURL = feedURL
	f.AddTags(tags...)
	id := im.db.Insert(f)
	lgr.Printf("[INFO] added feed %q from %s as %s", f.Name, feedURL, id)
	return []string{id}, nil
}

// ImportOPML inserts one feed per outline node of the OPML file, folders included.
// Children point to the id of their parent node. Returns the number of inserted nodes.
func (im *Importer) ImportOPML(path string, tags []string) (int, error) {
	doc, err := opml.ParseFile(path)
	if err != nil {
		return 0, err
	}
	tags = validTags(tags)
	count := 0
	opml.Walk(doc.Outlines, func(o opml.Outline, parent string) string {
		f := domain.NewFeed(o.Name())
		f.FeedURL = o.XMLURL
		f.OPML = o.Attrs()
		f.Parent = parent
		f.AddTags(tags...)
		count++
		return im.db.Insert(f)
	})
	lgr.Printf("[INFO] imported %d outlines from %s", count, path)
	return count, nil
}

func validTags(tags []string) []string {
	res := make([]string, 0, len(tags))
	for _, t := range tags {
		tag, ok := domain.ValidTag(t)
		if !ok {
			lgr.Printf("[WARN] ignoring invalid tag %q", t)
			continue
		}
		res = append(res, tag)
	}
	return res
}
