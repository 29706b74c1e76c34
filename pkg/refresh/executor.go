// Package refresh runs the network part of a refresh cycle: every planned feed is downloaded
// with bounded retries, parsed and reduced to the headers and items not stored yet.
// Nothing here touches the database, results are committed by the caller.
package refresh

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/feedbouncer/pkg/domain"
	"github.com/umputun/feedbouncer/pkg/feed"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher

// Fetcher downloads a feed document, one attempt per call
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]byte, error)
}

// RetryParams controls download retries of a single feed
type RetryParams struct {
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Jitter       float64
}

// Params configures the executor
type Params struct {
	MaxWorkers int
	Retry      RetryParams
}

// Executor fetches and parses planned feeds concurrently
type Executor struct {
	fetcher    Fetcher
	maxWorkers int
	retry      RetryParams
}

// NewExecutor makes an executor, zero params fall back to one worker and five attempts without delay
func NewExecutor(fetcher Fetcher, params Params) *Executor {
	res := &Executor{fetcher: fetcher, maxWorkers: params.MaxWorkers, retry: params.Retry}
	if res.maxWorkers <= 0 {
		res.maxWorkers = 1
	}
	if res.retry.Attempts <= 0 {
		res.retry.Attempts = 5
	}
	if res.retry.MaxDelay < res.retry.InitialDelay {
		res.retry.MaxDelay = res.retry.InitialDelay
	}
	return res
}

// Execute processes every target of the plan. A feed that fails to download after all
// attempts, or fails to parse, is logged and left out of the result; it never affects other feeds.
// The result carries the plan's sequence number for the commit check.
func (e *Executor) Execute(ctx context.Context, plan domain.RefreshPlan) domain.RefreshResult {
	started := time.Now()
	updates := make([]*domain.FeedUpdate, len(plan.Targets))

	var g errgroup.Group
	g.SetLimit(e.maxWorkers)
	for i, target := range plan.Targets {
		g.Go(func() error {
			upd, err := e.refreshFeed(ctx, target)
			if err != nil {
				lgr.Printf("[WARN] skipping feed %q (%s) this cycle: %v", target.Name, target.URL, err)
				return nil
			}
			updates[i] = upd
			return nil
		})
	}
	_ = g.Wait()

	res := domain.RefreshResult{SeqNo: plan.SeqNo, Updates: make(map[string]domain.FeedUpdate, len(plan.Targets))}
	for i, upd := range updates {
		if upd != nil {
			res.Updates[plan.Targets[i].FeedID] = *upd
		}
	}
	lgr.Printf("[INFO] refreshed %d of %d feeds in %v", len(res.Updates), len(plan.Targets), time.Since(started).Round(time.Millisecond))
	return res
}

func (e *Executor) refreshFeed(ctx context.Context, target domain.RefreshTarget) (*domain.FeedUpdate, error) {
	doc, err := e.FetchDocument(ctx, target.URL)
	if err != nil {
		return nil, err
	}

	items := slices.Clone(doc.Items)
	domain.SortItems(items)

	upd := &domain.FeedUpdate{Headers: []domain.FeedHeader{doc.Header}}
	seen := make(map[domain.ItemKey]struct{}, len(items))
	for _, it := range items {
		key := it.Key()
		if _, known := target.Known[key]; known {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		upd.Items = append(upd.Items, it)
	}

	if len(upd.Items) > 0 {
		lgr.Printf("[INFO] %d new items for %q", len(upd.Items), target.Name)
		for _, it := range upd.Items {
			lgr.Printf("[DEBUG]   %s", it.DisplayTitle())
		}
	}
	return upd, nil
}

// FetchDocument downloads feedURL with retries and parses it. Only the download is retried,
// a body that parses as no known format fails right away with feed.ErrUnknownFormat.
func (e *Executor) FetchDocument(ctx context.Context, feedURL string) (*feed.Document, error) {
	var body []byte
	attempt := 0
	err := e.retrier().Do(ctx, func() error {
		attempt++
		b, err := e.fetcher.Fetch(ctx, feedURL)
		if err != nil {
			lgr.Printf("[DEBUG] fetch attempt %d/%d of %s failed: %v", attempt, e.retry.Attempts, feedURL, err)
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("download after %d attempts: %w", attempt, err)
	}

	doc, err := feed.Parse(body, feedURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", feedURL, err)
	}
	return doc, nil
}

func (e *Executor) retrier() *repeater.Repeater {
	if e.retry.InitialDelay <= 0 {
		return repeater.NewFixed(e.retry.Attempts, 0)
	}
	return repeater.NewBackoff(e.retry.Attempts, e.retry.InitialDelay,
		repeater.WithMaxDelay(e.retry.MaxDelay), repeater.WithJitter(e.retry.Jitter))
}
