package database

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedbouncer/pkg/domain"
	"github.com/umputun/feedbouncer/pkg/store"
)

func rssItem(title, date string) domain.FeedItem {
	return domain.FeedItem{RSS: &domain.RSSItem{Title: title, PubDate: date, Link: "https://example.com/" + title}}
}

func newFeed(name, url string, tags ...string) *domain.Feed {
	f := domain.NewFeed(name)
	f.FeedURL = url
	f.AddTags(tags...)
	return f
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	return db
}

func TestOpen(t *testing.T) {
	t.Run("missing root starts empty", func(t *testing.T) {
		db, err := Open(filepath.Join(t.TempDir(), "missing"))
		require.NoError(t, err)
		assert.Equal(t, 0, db.Stats().Feeds)
		assert.True(t, db.LastRefresh().IsZero())
		assert.Equal(t, uint64(0), db.SeqNo())
	})

	t.Run("corrupt feed document", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "feeds"), 0o750))
		require.NoError(t, os.WriteFile(filepath.Join(root, "feeds", "x.json"), []byte("{"), 0o600))
		_, err := Open(root)
		require.ErrorIs(t, err, store.ErrCorrupt)
	})

	t.Run("corrupt user data", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "user_data.json"), []byte("nope"), 0o600))
		_, err := Open(root)
		require.ErrorIs(t, err, store.ErrCorrupt)
	})
}

func TestFeedID(t *testing.T) {
	sum := sha256.Sum256([]byte("Example" + "https://x/feed"))
	assert.Equal(t, hex.EncodeToString(sum[:]), FeedID("Example", "https://x/feed"))

	sum = sha256.Sum256([]byte("Folder"))
	assert.Equal(t, hex.EncodeToString(sum[:]), FeedID("Folder", ""))
	assert.NotEqual(t, FeedID("Same", "https://a"), FeedID("Same", "https://b"))
}

func TestDB_InsertIdempotentAcrossRestarts(t *testing.T) {
	root := t.TempDir()
	db, err := Open(root)
	require.NoError(t, err)

	id1 := db.Insert(newFeed("Example", "https://x/feed"))
	assert.Equal(t, FeedID("Example", "https://x/feed"), id1)
	assert.Equal(t, id1, db.Insert(newFeed("Example", "https://x/feed")))
	require.NoError(t, db.Save())

	reopened, err := Open(root)
	require.NoError(t, err)
	assert.Equal(t, id1, reopened.Insert(newFeed("Example", "https://x/feed")))
	assert.Equal(t, 1, reopened.Stats().Feeds)
}

func TestDB_InsertMerge(t *testing.T) {
	db := openTestDB(t)

	t.Run("renamed source keeps id and name", func(t *testing.T) {
		id := db.Insert(newFeed("Blog", "https://blog.example.com/rss", "news"))
		again := db.Insert(newFeed("Blog Renamed", "https://blog.example.com/rss", "daily"))
		assert.Equal(t, id, again)

		f, err := db.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "Blog", f.Name)
		assert.Equal(t, []string{"daily", "news"}, f.Tags)
	})

	t.Run("empty url filled in by title match", func(t *testing.T) {
		id := db.Insert(newFeed("Podcast", ""))
		again := db.Insert(newFeed("Podcast", "https://podcast.example.com/rss"))
		assert.Equal(t, id, again)
		f, err := db.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "https://podcast.example.com/rss", f.FeedURL)
		assert.Equal(t, []string{id}, db.FeedsByURL("https://podcast.example.com/rss"))
	})

	t.Run("set url is not overwritten", func(t *testing.T) {
		id := db.Insert(newFeed("Unique Name", "https://one.example.com/rss"))
		again := db.Insert(newFeed("Unique Name", "https://two.example.com/rss"))
		assert.Equal(t, id, again)
		f, err := db.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "https://one.example.com/rss", f.FeedURL)
	})

	t.Run("opml filled once", func(t *testing.T) {
		withOPML := newFeed("Outlined", "https://outlined.example.com/rss")
		withOPML.OPML = &domain.OPMLOutline{Text: "Outlined"}
		id := db.Insert(newFeed("Outlined", "https://outlined.example.com/rss"))
		db.Insert(withOPML)
		other := newFeed("Outlined", "https://outlined.example.com/rss")
		other.OPML = &domain.OPMLOutline{Text: "Different"}
		db.Insert(other)

		f, err := db.Get(id)
		require.NoError(t, err)
		require.NotNil(t, f.OPML)
		assert.Equal(t, "Outlined", f.OPML.Text)
	})

	t.Run("ambiguous title mints new id", func(t *testing.T) {
		a := db.Insert(newFeed("Common", "https://a.example.com/rss"))
		b := db.Insert(newFeed("Common", "https://b.example.com/rss"))
		assert.Equal(t, a, b, "single title match resolves to the existing feed")

		db2 := openTestDB(t)
		a = db2.Insert(newFeed("Common", "https://a.example.com/rss"))
		db2.lookup.Touch("other", domain.LookupKey{Name: "Common"})
		c := db2.Insert(newFeed("Common", "https://c.example.com/rss"))
		assert.NotEqual(t, a, c)
		assert.Equal(t, FeedID("Common", "https://c.example.com/rss"), c)
	})
}

func TestDB_TagUnionOnReimport(t *testing.T) {
	db := openTestDB(t)
	id1 := db.Insert(newFeed("Source", "https://source.example.com/rss", "news"))
	id2 := db.Insert(newFeed("Source", "https://source.example.com/rss", "daily"))
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, db.Stats().Feeds)

	f, err := db.Get(id1)
	require.NoError(t, err)
	assert.Equal(t, []string{"daily", "news"}, f.Tags)
	assert.Equal(t, []string{"daily", "news"}, db.KnownTags())
}

func TestDB_GetReturnsCopy(t *testing.T) {
	db := openTestDB(t)
	id := db.Insert(newFeed("Blog", "https://blog.example.com/rss", "news"))

	f, err := db.Get(id)
	require.NoError(t, err)
	f.AddTags("mutated")
	f.AddItems(rssItem("x", ""))

	again, err := db.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"news"}, again.Tags)
	assert.Empty(t, again.Items)

	_, err = db.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDB_UpdateKeepsInvariants(t *testing.T) {
	db := openTestDB(t)
	id := db.Insert(newFeed("Blog", "https://blog.example.com/rss"))

	err := db.Update(id, func(f *domain.Feed) error {
		f.Items = append(f.Items,
			domain.ItemMeta{ID: 5, Item: rssItem("late", "Wed, 04 Jan 2006 15:04:05 -0700")},
			domain.ItemMeta{ID: 6, Item: rssItem("early", "Mon, 02 Jan 2006 15:04:05 -0700")},
		)
		f.Tags = []string{"b", "a", "b"}
		return nil
	})
	require.NoError(t, err)

	f, err := db.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "early", f.Items[0].Item.DisplayTitle())
	assert.Equal(t, []string{"a", "b"}, f.Tags)

	require.ErrorIs(t, db.Update("missing", func(*domain.Feed) error { return nil }), ErrNotFound)
}

func TestDB_Lists(t *testing.T) {
	db := openTestDB(t)
	tech := db.Insert(newFeed("Tech Blog", "https://tech.example.com/rss", "tech"))
	news := db.Insert(newFeed("a news site", "https://news.example.com/rss", "news"))
	db.Insert(newFeed("Folder", ""))

	require.NoError(t, db.Update(tech, func(f *domain.Feed) error {
		f.AddItems(
			rssItem("Tech Blog - second", "Tue, 03 Jan 2006 15:04:05 -0700"),
			rssItem("Tech Blog: first", "Mon, 02 Jan 2006 15:04:05 -0700"),
		)
		return nil
	}))
	require.NoError(t, db.Update(news, func(f *domain.Feed) error {
		f.AddItems(rssItem("middle", "Mon, 02 Jan 2006 18:00:00 -0700"), rssItem("undated", ""))
		return nil
	}))

	t.Run("feeds ordered by title with unread counts", func(t *testing.T) {
		feeds := db.ListFeeds(domain.ParseFilter(""))
		require.Len(t, feeds, 3)
		assert.Equal(t, "a news site", feeds[0].Feed.Title())
		assert.Equal(t, "Folder", feeds[1].Feed.Title())
		assert.Equal(t, "Tech Blog", feeds[2].Feed.Title())
		assert.Equal(t, 2, feeds[2].Unread)

		filtered := db.ListFeeds(domain.ParseFilter("tech"))
		require.Len(t, filtered, 1)
		assert.Equal(t, tech, filtered[0].ID)
	})

	t.Run("items oldest first with cleaned titles", func(t *testing.T) {
		items := db.ListItemsOrderedByTime(domain.ParseFilter(""))
		titles := make([]string, 0, len(items))
		for _, it := range items {
			titles = append(titles, it.Title)
		}
		assert.Equal(t, []string{"undated", "first", "middle", "second"}, titles)
		assert.Equal(t, "Tech Blog", items[1].FeedTitle)
	})

	t.Run("recent items newest first", func(t *testing.T) {
		items := db.RecentItems(domain.ParseFilter("!news"), 1)
		require.Len(t, items, 1)
		assert.Equal(t, "second", items[0].Title)
		assert.Len(t, db.RecentItems(domain.ParseFilter(""), 0), 4)
	})

	t.Run("feed items newest first", func(t *testing.T) {
		items, err := db.FeedItems(tech)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "second", items[0].Title)
		_, err = db.FeedItems("missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("stats", func(t *testing.T) {
		st := db.Stats()
		assert.Equal(t, 3, st.Feeds)
		assert.Equal(t, 4, st.Items)
		assert.Equal(t, 4, st.Unread)
	})
}

func TestDB_MarkRead(t *testing.T) {
	db := openTestDB(t)
	id := db.Insert(newFeed("Blog", "https://blog.example.com/rss"))
	require.NoError(t, db.Update(id, func(f *domain.Feed) error {
		f.AddItems(
			rssItem("one", "Mon, 02 Jan 2006 15:04:05 -0700"), // id 0
			rssItem("two", "Tue, 03 Jan 2006 15:04:05 -0700"), // id 1
			rssItem("three", "Wed, 04 Jan 2006 15:04:05 -0700"), // id 2
			rssItem("undated", ""), // id 3
		)
		return nil
	}))

	changed, err := db.MarkRead(id, 2)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = db.MarkRead(id, 2)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, db.IsRead(id, 2))
	assert.False(t, db.IsRead(id, 0))

	marked, err := db.MarkReadUpTo(id, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, marked, "one, two and the undated item")
	assert.True(t, db.IsRead(id, 0))
	assert.True(t, db.IsRead(id, 3))

	_, err = db.MarkRead(id, 42)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = db.MarkRead("missing", 0)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = db.MarkReadUpTo(id, 42)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, db.Stats().Unread)
}

func TestDB_FeedEdits(t *testing.T) {
	db := openTestDB(t)
	id := db.Insert(newFeed("Blog", "https://blog.example.com/rss", "news"))

	added, err := db.AddTags(id, "daily", "news")
	require.NoError(t, err)
	assert.True(t, added)
	removed, err := db.RemoveTag(id, "news")
	require.NoError(t, err)
	assert.True(t, removed)

	added, err = db.AddTitleAlias(id, " B ")
	require.NoError(t, err)
	assert.True(t, added)
	removed, err = db.RemoveTitleAlias(id, "missing")
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, db.SetDisplayName(id, "My Blog"))

	f, err := db.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"daily"}, f.Tags)
	assert.Equal(t, []string{"B"}, f.TitleAliases)
	assert.Equal(t, "My Blog", f.Title())
	assert.Equal(t, "Blog", f.OriginalTitle())

	_, err = db.AddTags("missing", "x")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, db.SetDisplayName("missing", "x"), ErrNotFound)
}

func TestDB_SaveAndShrink(t *testing.T) {
	root := t.TempDir()
	db, err := Open(root)
	require.NoError(t, err)
	id := db.Insert(newFeed("Blog", "https://blog.example.com/rss", "news", "daily", "weekly"))
	require.NoError(t, db.Update(id, func(f *domain.Feed) error {
		f.AddItems(rssItem("one", "Mon, 02 Jan 2006 15:04:05 -0700"))
		return nil
	}))
	_, err = db.MarkRead(id, 0)
	require.NoError(t, err)
	require.NoError(t, db.Save())

	_, err = db.RemoveTag(id, "weekly")
	require.NoError(t, err)
	require.NoError(t, db.Save())
	reopened, err := Open(root)
	require.NoError(t, err)
	f, err := reopened.Get(id)
	require.NoError(t, err)
	assert.Contains(t, f.Tags, "weekly", "plain save refuses to shrink the document")

	require.NoError(t, db.SaveShrunk())
	reopened, err = Open(root)
	require.NoError(t, err)
	f, err = reopened.Get(id)
	require.NoError(t, err)
	assert.NotContains(t, f.Tags, "weekly")
	assert.True(t, reopened.IsRead(id, 0))
	assert.Equal(t, uint64(1), f.ItemsCounter)
}

func TestDB_ConcurrentAccess(t *testing.T) {
	db := openTestDB(t)
	id := db.Insert(newFeed("Blog", "https://blog.example.com/rss"))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			plan := db.BuildRefreshPlan()
			_ = db.CommitRefresh(domain.RefreshResult{SeqNo: plan.SeqNo,
				Updates: map[string]domain.FeedUpdate{id: {Items: []domain.FeedItem{rssItem("x", "")}}}})
		}()
		go func() {
			defer wg.Done()
			_ = db.ListItemsOrderedByTime(domain.ParseFilter(""))
			_ = db.ListFeeds(domain.ParseFilter(""))
		}()
		go func() {
			defer wg.Done()
			_, _ = db.AddTags(id, "tag")
			_ = db.Save()
		}()
	}
	wg.Wait()

	st := db.Stats()
	assert.Equal(t, int(st.SeqNo), st.Items, "each committed cycle added exactly one item")
}
