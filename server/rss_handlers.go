package server

import (
	"net/http"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedbouncer/pkg/domain"
	"github.com/umputun/feedbouncer/pkg/feed"
)

const defaultRSSLimit = 100

// rssHandler serves the aggregated items of feeds matching ?filter= as one RSS feed, newest first
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	items := s.db.RecentItems(domain.ParseFilter(filter), defaultRSSLimit)

	rss, err := feed.NewGenerator(s.config.GetBaseURL()).GenerateRSS(items, filter)
	if err != nil {
		lgr.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		lgr.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}

// opmlHandler exports all subscriptions as OPML
func (s *Server) opmlHandler(w http.ResponseWriter, r *http.Request) {
	feeds := s.db.ListFeeds(domain.ParseFilter(r.URL.Query().Get("filter")))

	doc, err := feed.NewGenerator(s.config.GetBaseURL()).GenerateOPML(feeds)
	if err != nil {
		lgr.Printf("[ERROR] failed to generate OPML: %v", err)
		http.Error(w, "Failed to generate OPML", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/x-opml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="subscriptions.opml"`)
	if _, err := w.Write([]byte(doc)); err != nil {
		lgr.Printf("[ERROR] failed to write OPML response: %v", err)
	}
}
