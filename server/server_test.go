package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedbouncer/pkg/database"
	"github.com/umputun/feedbouncer/pkg/domain"
	"github.com/umputun/feedbouncer/server/mocks"
)

func testConfig() *mocks.ConfigProviderMock {
	return &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) { return "127.0.0.1:0", 5 * time.Second },
		GetBaseURLFunc:      func() string { return "http://feeds.example.com" },
	}
}

func testServer(t *testing.T, db *mocks.DatabaseMock, sched *mocks.SchedulerMock, imp *mocks.ImporterMock) *Server {
	t.Helper()
	if sched == nil {
		sched = &mocks.SchedulerMock{TriggerFunc: func() bool { return true }}
	}
	if imp == nil {
		imp = &mocks.ImporterMock{}
	}
	return New(testConfig(), db, sched, imp, "1.2.3", false)
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var res T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func sampleFeed() *domain.Feed {
	f := domain.NewFeed("Tech Blog")
	f.FeedURL = "https://tech/feed"
	f.AddTags("news")
	f.AddTitleAlias("TB")
	f.Items = []domain.ItemMeta{
		{ID: 0, Item: domain.FeedItem{RSS: &domain.RSSItem{Title: "old", PubDate: "Mon, 02 Jan 2006 15:04:05 +0000"}}},
		{ID: 1, Item: domain.FeedItem{RSS: &domain.RSSItem{Title: "new", PubDate: "Tue, 03 Jan 2006 15:04:05 +0000"}}},
	}
	return f
}

func sampleItems() []domain.ItemEntry {
	return []domain.ItemEntry{
		{FeedID: "tb", FeedTitle: "Tech Blog", ItemID: 1, Title: "New Release", Date: time.Date(2006, 1, 3, 15, 4, 5, 0, time.UTC),
			Item: domain.FeedItem{RSS: &domain.RSSItem{Title: "Tech Blog - New Release", Link: "https://tech/1",
				Description: "<p>Some   <b>bold</b> text</p>"}}},
		{FeedID: "tb", FeedTitle: "Tech Blog", ItemID: 0, Title: "undated", Date: domain.OldDate, Read: true,
			Item: domain.FeedItem{RSS: &domain.RSSItem{Title: "undated"}}},
	}
}

func TestServer_Status(t *testing.T) {
	refreshed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	db := &mocks.DatabaseMock{StatsFunc: func() database.Stats {
		return database.Stats{Feeds: 2, Items: 10, Unread: 4, SeqNo: 7, LastRefresh: refreshed}
	}}
	w := do(t, testServer(t, db, nil, nil), http.MethodGet, "/api/v1/status", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "feedbouncer", w.Header().Get("App-Name"))
	status := decode[map[string]any](t, w)
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "1.2.3", status["version"])
	assert.InDelta(t, 2, status["feeds"], 0)
	assert.InDelta(t, 4, status["unread"], 0)
	assert.InDelta(t, 7, status["seq_no"], 0)
	assert.Equal(t, "2024-05-01T10:00:00Z", status["last_refresh"])
}

func TestServer_Ping(t *testing.T) {
	w := do(t, testServer(t, &mocks.DatabaseMock{}, nil, nil), http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestServer_Feeds(t *testing.T) {
	db := &mocks.DatabaseMock{ListFeedsFunc: func(filter domain.Filter) []domain.FeedEntry {
		return []domain.FeedEntry{{ID: "tb", Feed: sampleFeed(), Unread: 1}}
	}}
	w := do(t, testServer(t, db, nil, nil), http.MethodGet, "/api/v1/feeds?filter=news,!daily", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, db.ListFeedsCalls(), 1)
	assert.Equal(t, "news,!daily", db.ListFeedsCalls()[0].Filter.Raw())

	feeds := decode[[]feedResponse](t, w)
	require.Len(t, feeds, 1)
	assert.Equal(t, "tb", feeds[0].ID)
	assert.Equal(t, "Tech Blog", feeds[0].Title)
	assert.Equal(t, []string{"news"}, feeds[0].Tags)
	assert.Equal(t, []string{"TB"}, feeds[0].Aliases)
	assert.Equal(t, 2, feeds[0].Items)
	assert.Equal(t, 1, feeds[0].Unread)
	assert.Equal(t, 2006, feeds[0].LastItem.Year())
}

func TestServer_Feed(t *testing.T) {
	db := &mocks.DatabaseMock{
		GetFunc: func(id string) (*domain.Feed, error) {
			if id != "tb" {
				return nil, fmt.Errorf("feed %s: %w", id, database.ErrNotFound)
			}
			return sampleFeed(), nil
		},
		FeedItemsFunc: func(id string) ([]domain.ItemEntry, error) { return sampleItems(), nil },
	}
	srv := testServer(t, db, nil, nil)

	t.Run("found", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/api/v1/feeds/tb", "")
		require.Equal(t, http.StatusOK, w.Code)
		res := decode[struct {
			Feed  feedResponse   `json:"feed"`
			Items []itemResponse `json:"items"`
		}](t, w)
		assert.Equal(t, "Tech Blog", res.Feed.Title)
		assert.Equal(t, 1, res.Feed.Unread)
		require.Len(t, res.Items, 2)
		assert.Equal(t, "New Release", res.Items[0].Title)
		assert.Equal(t, "https://tech/1", res.Items[0].Link)
		assert.Equal(t, "Some bold text", res.Items[0].Summary)
		assert.True(t, res.Items[1].Date.IsZero(), "sentinel date not exposed")
	})

	t.Run("not found", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/api/v1/feeds/nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, decode[map[string]string](t, w)["error"], "not found")
	})
}

func TestServer_Items(t *testing.T) {
	db := &mocks.DatabaseMock{RecentItemsFunc: func(domain.Filter, int) []domain.ItemEntry { return sampleItems() }}
	srv := testServer(t, db, nil, nil)

	w := do(t, srv, http.MethodGet, "/api/v1/items", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]itemResponse](t, w), 2)
	assert.Equal(t, defaultItemsLimit, db.RecentItemsCalls()[0].Limit)

	w = do(t, srv, http.MethodGet, "/api/v1/items?limit=5&filter=news", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, db.RecentItemsCalls()[1].Limit)
	assert.Equal(t, "news", db.RecentItemsCalls()[1].Filter.Raw())

	w = do(t, srv, http.MethodGet, "/api/v1/items?limit=lots", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, db.RecentItemsCalls(), 2)
}

func TestServer_MarkRead(t *testing.T) {
	newDB := func() *mocks.DatabaseMock {
		return &mocks.DatabaseMock{
			MarkReadFunc:     func(feedID string, itemID uint64) (bool, error) { return itemID == 1, nil },
			MarkReadUpToFunc: func(feedID string, itemID uint64) (int, error) { return 2, nil },
			SaveFunc:         func() error { return nil },
		}
	}

	t.Run("single item", func(t *testing.T) {
		db := newDB()
		w := do(t, testServer(t, db, nil, nil), http.MethodPost, "/api/v1/feeds/tb/items/1/read", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]int{"marked": 1}, decode[map[string]int](t, w))
		require.Len(t, db.MarkReadCalls(), 1)
		assert.Equal(t, "tb", db.MarkReadCalls()[0].FeedID)
		assert.Len(t, db.SaveCalls(), 1)
	})

	t.Run("already read", func(t *testing.T) {
		db := newDB()
		w := do(t, testServer(t, db, nil, nil), http.MethodPost, "/api/v1/feeds/tb/items/0/read", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]int{"marked": 0}, decode[map[string]int](t, w))
		assert.Empty(t, db.SaveCalls(), "nothing to save")
	})

	t.Run("up to", func(t *testing.T) {
		db := newDB()
		w := do(t, testServer(t, db, nil, nil), http.MethodPost, "/api/v1/feeds/tb/items/1/read?up_to=true", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]int{"marked": 2}, decode[map[string]int](t, w))
		assert.Empty(t, db.MarkReadCalls())
		assert.Len(t, db.MarkReadUpToCalls(), 1)
	})

	t.Run("bad item id", func(t *testing.T) {
		db := newDB()
		w := do(t, testServer(t, db, nil, nil), http.MethodPost, "/api/v1/feeds/tb/items/x/read", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown item", func(t *testing.T) {
		db := newDB()
		db.MarkReadFunc = func(string, uint64) (bool, error) { return false, database.ErrNotFound }
		w := do(t, testServer(t, db, nil, nil), http.MethodPost, "/api/v1/feeds/tb/items/9/read", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_Tags(t *testing.T) {
	db := &mocks.DatabaseMock{
		KnownTagsFunc:  func() []string { return []string{"daily", "news"} },
		AddTagsFunc:    func(feedID string, tags ...string) (bool, error) { return true, nil },
		RemoveTagFunc:  func(feedID, tag string) (bool, error) { return tag == "news", nil },
		SaveFunc:       func() error { return nil },
		SaveShrunkFunc: func() error { return nil },
	}
	srv := testServer(t, db, nil, nil)

	w := do(t, srv, http.MethodGet, "/api/v1/tags", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"daily", "news"}, decode[map[string][]string](t, w)["tags"])

	w = do(t, srv, http.MethodPost, "/api/v1/feeds/tb/tags", `{"tags":[" daily ","news"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, db.AddTagsCalls(), 1)
	assert.Equal(t, []string{"daily", "news"}, db.AddTagsCalls()[0].Tags)
	assert.Len(t, db.SaveCalls(), 1)

	w = do(t, srv, http.MethodPost, "/api/v1/feeds/tb/tags", `{"tags":["Daily-News"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, db.AddTagsCalls(), 1)

	w = do(t, srv, http.MethodPost, "/api/v1/feeds/tb/tags", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodDelete, "/api/v1/feeds/tb/tags/news", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]bool{"changed": true}, decode[map[string]bool](t, w))
	assert.Len(t, db.SaveShrunkCalls(), 1, "removal saved with shrink allowed")

	w = do(t, srv, http.MethodDelete, "/api/v1/feeds/tb/tags/other", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]bool{"changed": false}, decode[map[string]bool](t, w))
	assert.Len(t, db.SaveShrunkCalls(), 1)
}

func TestServer_Aliases(t *testing.T) {
	db := &mocks.DatabaseMock{
		AddTitleAliasFunc:    func(feedID, alias string) (bool, error) { return true, nil },
		RemoveTitleAliasFunc: func(feedID, alias string) (bool, error) { return true, nil },
		SaveFunc:             func() error { return nil },
		SaveShrunkFunc:       func() error { return errors.New("disk full") },
	}
	srv := testServer(t, db, nil, nil)

	w := do(t, srv, http.MethodPost, "/api/v1/feeds/tb/aliases", `{"alias":"TB"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "TB", db.AddTitleAliasCalls()[0].Alias)

	w = do(t, srv, http.MethodPost, "/api/v1/feeds/tb/aliases", `{"alias":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodDelete, "/api/v1/feeds/tb/aliases/TB", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code, "save failure reported")
	assert.Equal(t, "TB", db.RemoveTitleAliasCalls()[0].Alias)
}

func TestServer_DisplayName(t *testing.T) {
	f := sampleFeed()
	db := &mocks.DatabaseMock{
		SetDisplayNameFunc: func(feedID, name string) error {
			f.SetDisplayName(name)
			return nil
		},
		SaveShrunkFunc: func() error { return nil },
		GetFunc:        func(string) (*domain.Feed, error) { return f, nil },
	}
	w := do(t, testServer(t, db, nil, nil), http.MethodPut, "/api/v1/feeds/tb/name", `{"name":"  My Tech  "}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "My Tech", db.SetDisplayNameCalls()[0].Name)
	assert.Equal(t, "My Tech", decode[map[string]string](t, w)["title"])
	assert.Len(t, db.SaveShrunkCalls(), 1)
}

func TestServer_Refresh(t *testing.T) {
	sched := &mocks.SchedulerMock{TriggerFunc: func() bool { return false }}
	w := do(t, testServer(t, &mocks.DatabaseMock{}, sched, nil), http.MethodPost, "/api/v1/refresh", "")

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, map[string]bool{"queued": false}, decode[map[string]bool](t, w))
	assert.Len(t, sched.TriggerCalls(), 1)
}

func TestServer_Import(t *testing.T) {
	db := &mocks.DatabaseMock{SaveFunc: func() error { return nil }}
	imp := &mocks.ImporterMock{ImportRSSFunc: func(_ context.Context, feedURL string, tags []string) ([]string, error) {
		if feedURL == "https://down/feed" {
			return nil, errors.New("connection refused")
		}
		return []string{"abc"}, nil
	}}
	srv := testServer(t, db, nil, imp)

	w := do(t, srv, http.MethodPost, "/api/v1/import", `{"url":"https://x/feed","tags":["news"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"abc"}, decode[map[string][]string](t, w)["ids"])
	require.Len(t, imp.ImportRSSCalls(), 1)
	assert.Equal(t, []string{"news"}, imp.ImportRSSCalls()[0].Tags)
	assert.Len(t, db.SaveCalls(), 1)

	w = do(t, srv, http.MethodPost, "/api/v1/import", `{"tags":["news"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/api/v1/import", `{"url":"https://down/feed"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Len(t, db.SaveCalls(), 1)
}

func TestServer_RSS(t *testing.T) {
	db := &mocks.DatabaseMock{RecentItemsFunc: func(domain.Filter, int) []domain.ItemEntry { return sampleItems() }}
	w := do(t, testServer(t, db, nil, nil), http.MethodGet, "/rss?filter=news", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<title>Feed Bouncer - news</title>")
	assert.Contains(t, body, "<title>Tech Blog: New Release</title>")
	assert.Contains(t, body, "http://feeds.example.com/rss?filter=news")
	assert.Equal(t, "news", db.RecentItemsCalls()[0].Filter.Raw())
	assert.Equal(t, defaultRSSLimit, db.RecentItemsCalls()[0].Limit)
}

func TestServer_OPML(t *testing.T) {
	db := &mocks.DatabaseMock{ListFeedsFunc: func(domain.Filter) []domain.FeedEntry {
		return []domain.FeedEntry{{ID: "tb", Feed: sampleFeed()}}
	}}
	w := do(t, testServer(t, db, nil, nil), http.MethodGet, "/opml", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/x-opml")
	assert.Contains(t, w.Body.String(), `xmlUrl="https://tech/feed"`)
	assert.Contains(t, w.Body.String(), `category="news"`)
}

func TestSummarize(t *testing.T) {
	tbl := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"plain", "hello world", "hello world"},
		{"html stripped", "<div><p>Hello</p>\n\n<script>alert(1)</script><b>world</b></div>", "Hello world"},
		{"long", strings.Repeat("word ", 100), strings.TrimSpace(strings.Repeat("word ", 60)) + "..."},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summarize(tt.in))
		})
	}
}

func TestServer_RunShutdown(t *testing.T) {
	srv := testServer(t, &mocks.DatabaseMock{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
