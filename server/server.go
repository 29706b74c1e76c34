package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/feedbouncer/pkg/database"
	"github.com/umputun/feedbouncer/pkg/domain"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/database.go -pkg mocks -skip-ensure -fmt goimports . Database
//go:generate moq -out mocks/scheduler.go -pkg mocks -skip-ensure -fmt goimports . Scheduler
//go:generate moq -out mocks/importer.go -pkg mocks -skip-ensure -fmt goimports . Importer

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	db        Database
	scheduler Scheduler
	importer  Importer
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Database interface for server operations
type Database interface {
	Stats() database.Stats
	KnownTags() []string
	ListFeeds(filter domain.Filter) []domain.FeedEntry
	Get(id string) (*domain.Feed, error)
	FeedItems(id string) ([]domain.ItemEntry, error)
	RecentItems(filter domain.Filter, limit int) []domain.ItemEntry
	MarkRead(feedID string, itemID uint64) (bool, error)
	MarkReadUpTo(feedID string, itemID uint64) (int, error)
	AddTags(feedID string, tags ...string) (bool, error)
	RemoveTag(feedID, tag string) (bool, error)
	AddTitleAlias(feedID, alias string) (bool, error)
	RemoveTitleAlias(feedID, alias string) (bool, error)
	SetDisplayName(feedID, name string) error
	Save() error
	SaveShrunk() error
}

// Scheduler interface for on-demand refresh
type Scheduler interface {
	Trigger() bool
}

// Importer interface for adding single feeds
type Importer interface {
	ImportRSS(ctx context.Context, feedURL string, tags []string) ([]string, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetBaseURL() string
}

// New initializes a new server instance
func New(cfg ConfigProvider, db Database, scheduler Scheduler, importer Importer, version string, debug bool) *Server {
	s := &Server{
		config:    cfg,
		db:        db,
		scheduler: scheduler,
		importer:  importer,
		version:   version,
		debug:     debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("feedbouncer", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /tags", s.tagsHandler)
		r.HandleFunc("POST /refresh", s.refreshHandler)
		r.HandleFunc("POST /import", s.importHandler)

		r.HandleFunc("GET /feeds", s.feedsHandler)
		r.HandleFunc("GET /feeds/{id}", s.feedHandler)
		r.HandleFunc("POST /feeds/{id}/tags", s.addTagsHandler)
		r.HandleFunc("DELETE /feeds/{id}/tags/{tag}", s.removeTagHandler)
		r.HandleFunc("POST /feeds/{id}/aliases", s.addAliasHandler)
		r.HandleFunc("DELETE /feeds/{id}/aliases/{alias}", s.removeAliasHandler)
		r.HandleFunc("PUT /feeds/{id}/name", s.displayNameHandler)
		r.HandleFunc("POST /feeds/{id}/items/{item}/read", s.markReadHandler)

		r.HandleFunc("GET /items", s.itemsHandler)
	})

	s.router.HandleFunc("GET /rss", s.rssHandler)
	s.router.HandleFunc("GET /opml", s.opmlHandler)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON, unknown ids map to 404
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
		if errors.Is(err, database.ErrNotFound) {
			code = http.StatusNotFound
		}
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
