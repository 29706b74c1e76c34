package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/feedbouncer/pkg/domain"
)

const (
	defaultItemsLimit = 100
	maxSummaryLength  = 300
)

var (
	summaryPolicy = bluemonday.StrictPolicy()
	spaceRe       = regexp.MustCompile(`\s+`)
)

type feedResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"original_title"`
	FeedURL       string    `json:"feed_url,omitempty"`
	Parent        string    `json:"parent,omitempty"`
	Tags          []string  `json:"tags"`
	Aliases       []string  `json:"aliases"`
	Items         int       `json:"items"`
	Unread        int       `json:"unread"`
	LastItem      time.Time `json:"last_item,omitzero"`
}

type itemResponse struct {
	FeedID    string    `json:"feed_id"`
	FeedTitle string    `json:"feed_title"`
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Link      string    `json:"link,omitempty"`
	Date      time.Time `json:"date,omitzero"`
	Read      bool      `json:"read"`
	Summary   string    `json:"summary,omitempty"`
}

func newFeedResponse(e domain.FeedEntry) feedResponse {
	res := feedResponse{
		ID:            e.ID,
		Title:         e.Feed.Title(),
		OriginalTitle: e.Feed.OriginalTitle(),
		FeedURL:       e.Feed.FeedURL,
		Parent:        e.Feed.Parent,
		Tags:          nonNil(e.Feed.Tags),
		Aliases:       nonNil(e.Feed.TitleAliases),
		Items:         len(e.Feed.Items),
		Unread:        e.Unread,
	}
	if n := len(e.Feed.Items); n > 0 {
		if d := e.Feed.Items[n-1].Item.EffectiveDate(); !d.Equal(domain.OldDate) {
			res.LastItem = d
		}
	}
	return res
}

func newItemResponses(entries []domain.ItemEntry) []itemResponse {
	res := make([]itemResponse, 0, len(entries))
	for _, e := range entries {
		it := itemResponse{
			FeedID:    e.FeedID,
			FeedTitle: e.FeedTitle,
			ID:        e.ItemID,
			Title:     e.Title,
			Link:      e.Link(),
			Read:      e.Read,
			Summary:   summarize(e.Item.Summary()),
		}
		if !e.Date.Equal(domain.OldDate) {
			it.Date = e.Date
		}
		res = append(res, it)
	}
	return res
}

// summarize strips html from item content and cuts it to a short plain-text teaser
func summarize(html string) string {
	if html == "" {
		return ""
	}
	text := strings.TrimSpace(spaceRe.ReplaceAllString(summaryPolicy.Sanitize(html), " "))
	if utf8.RuneCountInString(text) <= maxSummaryLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxSummaryLength])) + "..."
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	st := s.db.Stats()
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
		"feeds":   st.Feeds,
		"items":   st.Items,
		"unread":  st.Unread,
		"seq_no":  st.SeqNo,
	}
	if !st.LastRefresh.IsZero() {
		status["last_refresh"] = st.LastRefresh.UTC()
	}
	renderJSON(w, r, http.StatusOK, status)
}

// tagsHandler returns all tags in use
func (s *Server) tagsHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, map[string]any{"tags": nonNil(s.db.KnownTags())})
}

// refreshHandler asks the scheduler for a refresh cycle, the cycle runs in background
func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	queued := s.scheduler.Trigger()
	renderJSON(w, r, http.StatusAccepted, map[string]bool{"queued": queued})
}

// importHandler adds a single feed by url
func (s *Server) importHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL  string   `json:"url"`
		Tags []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		renderError(w, r, errors.New("feed url is required"), http.StatusBadRequest)
		return
	}

	ids, err := s.importer.ImportRSS(r.Context(), req.URL, req.Tags)
	if err != nil {
		lgr.Printf("[WARN] failed to import %s: %v", req.URL, err)
		renderError(w, r, err, http.StatusBadGateway)
		return
	}
	if !s.save(w, r, false) {
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"ids": ids})
}

// feedsHandler lists feeds matching the optional tag filter
func (s *Server) feedsHandler(w http.ResponseWriter, r *http.Request) {
	entries := s.db.ListFeeds(domain.ParseFilter(r.URL.Query().Get("filter")))
	res := make([]feedResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, newFeedResponse(e))
	}
	renderJSON(w, r, http.StatusOK, res)
}

// feedHandler returns one feed with its items, newest first
func (s *Server) feedHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f, err := s.db.Get(id)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	items, err := s.db.FeedItems(id)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	unread := 0
	for _, it := range items {
		if !it.Read {
			unread++
		}
	}
	renderJSON(w, r, http.StatusOK, map[string]any{
		"feed":  newFeedResponse(domain.FeedEntry{ID: id, Feed: f, Unread: unread}),
		"items": newItemResponses(items),
	})
}

// itemsHandler lists the newest items across feeds matching the optional tag filter
func (s *Server) itemsHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultItemsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			renderError(w, r, fmt.Errorf("invalid limit %q", v), http.StatusBadRequest)
			return
		}
		limit = n
	}
	items := s.db.RecentItems(domain.ParseFilter(r.URL.Query().Get("filter")), limit)
	renderJSON(w, r, http.StatusOK, newItemResponses(items))
}

// markReadHandler marks an item read, with up_to=true also every older item of the feed
func (s *Server) markReadHandler(w http.ResponseWriter, r *http.Request) {
	feedID := r.PathValue("id")
	itemID, err := strconv.ParseUint(r.PathValue("item"), 10, 64)
	if err != nil {
		renderError(w, r, errors.New("invalid item ID"), http.StatusBadRequest)
		return
	}

	marked := 0
	if upTo, _ := strconv.ParseBool(r.URL.Query().Get("up_to")); upTo {
		marked, err = s.db.MarkReadUpTo(feedID, itemID)
	} else {
		var changed bool
		changed, err = s.db.MarkRead(feedID, itemID)
		if changed {
			marked = 1
		}
	}
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if marked > 0 && !s.save(w, r, false) {
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]int{"marked": marked})
}

// addTagsHandler unions tags into the feed, invalid tags are rejected
func (s *Server) addTagsHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tags []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	tags := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		tag, ok := domain.ValidTag(t)
		if !ok {
			renderError(w, r, fmt.Errorf("invalid tag %q, only a-z and _ allowed", t), http.StatusBadRequest)
			return
		}
		tags = append(tags, tag)
	}

	added, err := s.db.AddTags(r.PathValue("id"), tags...)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if added && !s.save(w, r, false) {
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]bool{"changed": added})
}

// removeTagHandler drops a tag from the feed
func (s *Server) removeTagHandler(w http.ResponseWriter, r *http.Request) {
	removed, err := s.db.RemoveTag(r.PathValue("id"), r.PathValue("tag"))
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if removed && !s.save(w, r, true) {
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]bool{"changed": removed})
}

// addAliasHandler adds a title alias used for prefix stripping
func (s *Server) addAliasHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Alias string `json:"alias"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Alias) == "" {
		renderError(w, r, errors.New("alias is required"), http.StatusBadRequest)
		return
	}

	added, err := s.db.AddTitleAlias(r.PathValue("id"), req.Alias)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if added && !s.save(w, r, false) {
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]bool{"changed": added})
}

// removeAliasHandler removes a title alias
func (s *Server) removeAliasHandler(w http.ResponseWriter, r *http.Request) {
	removed, err := s.db.RemoveTitleAlias(r.PathValue("id"), r.PathValue("alias"))
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if removed && !s.save(w, r, true) {
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]bool{"changed": removed})
}

// displayNameHandler sets or, with an empty name, clears the display name
func (s *Server) displayNameHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	if err := s.db.SetDisplayName(id, strings.TrimSpace(req.Name)); err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	// a shorter name makes a smaller document
	if !s.save(w, r, true) {
		return
	}
	f, err := s.db.Get(id)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]string{"title": f.Title()})
}

// save persists the database after a mutation, shrunk for removals. Returns false after rendering an error.
func (s *Server) save(w http.ResponseWriter, r *http.Request, shrunk bool) bool {
	save := s.db.Save
	if shrunk {
		save = s.db.SaveShrunk
	}
	if err := save(); err != nil {
		lgr.Printf("[ERROR] failed to save database: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return false
	}
	return true
}
