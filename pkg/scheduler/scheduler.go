package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedbouncer/pkg/domain"
)

//go:generate moq -out mocks/database.go -pkg mocks -skip-ensure -fmt goimports . Database
//go:generate moq -out mocks/executor.go -pkg mocks -skip-ensure -fmt goimports . Executor

// Database is the part of the engine a refresh cycle plans from and commits to
type Database interface {
	BuildRefreshPlan() domain.RefreshPlan
	CommitRefresh(res domain.RefreshResult) error
	Save() error
}

// Executor runs the network part of a refresh cycle
type Executor interface {
	Execute(ctx context.Context, plan domain.RefreshPlan) domain.RefreshResult
}

// Params holds scheduler dependencies and configuration
type Params struct {
	Database Database
	Executor Executor
	Interval time.Duration
}

// Scheduler runs refresh cycles on a timer and on demand. Both paths go through RunCycle,
// so they share the plan, execute, commit sequence and its conflict check.
type Scheduler struct {
	db       Database
	executor Executor
	interval time.Duration

	trigger chan struct{}
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewScheduler creates a scheduler, the interval defaults to one hour
func NewScheduler(params Params) *Scheduler {
	if params.Interval <= 0 {
		params.Interval = time.Hour
	}
	return &Scheduler{
		db:       params.Database,
		executor: params.Executor,
		interval: params.Interval,
		trigger:  make(chan struct{}, 1),
	}
}

// RunCycle plans a refresh, executes it and commits the result, then saves.
// A canceled context skips the commit. A sequence conflict discards the batch and is returned as error.
func (s *Scheduler) RunCycle(ctx context.Context) error {
	plan := s.db.BuildRefreshPlan()
	lgr.Printf("[INFO] refresh cycle started, %d feeds", len(plan.Targets))

	res := s.executor.Execute(ctx, plan)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("refresh interrupted, nothing committed: %w", err)
	}

	if err := s.db.CommitRefresh(res); err != nil {
		return fmt.Errorf("commit refresh: %w", err)
	}
	if err := s.db.Save(); err != nil {
		return fmt.Errorf("save after refresh: %w", err)
	}
	return nil
}

// Trigger asks the running scheduler for an extra cycle. Requests made while one is
// already pending are merged; returns false in that case.
func (s *Scheduler) Trigger() bool {
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Start runs a cycle right away and then on every tick or trigger, until Stop or ctx is done
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.worker(ctx)
	lgr.Printf("[INFO] scheduler started with refresh interval %v", s.interval)
}

// Stop cancels the running cycle, if any, and waits for the worker to exit
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runLogged(ctx)
		case <-s.trigger:
			s.runLogged(ctx)
		}
	}
}

func (s *Scheduler) runLogged(ctx context.Context) {
	if err := s.RunCycle(ctx); err != nil {
		lgr.Printf("[WARN] refresh cycle failed: %v", err)
	}
}
