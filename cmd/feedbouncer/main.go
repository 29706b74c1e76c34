package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/feedbouncer/pkg/config"
	"github.com/umputun/feedbouncer/pkg/database"
	"github.com/umputun/feedbouncer/pkg/domain"
	"github.com/umputun/feedbouncer/pkg/feed"
	"github.com/umputun/feedbouncer/pkg/importer"
	"github.com/umputun/feedbouncer/pkg/refresh"
	"github.com/umputun/feedbouncer/pkg/scheduler"
	"github.com/umputun/feedbouncer/server"
)

// Opts with all CLI options
type Opts struct {
	Config  string `short:"c" long:"config" env:"CONFIG" description:"configuration file, defaults are used without it"`
	Storage string `short:"s" long:"storage" env:"STORAGE" description:"storage root, overrides config"`
	Listen  string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`

	Once   bool   `long:"once" description:"run import and one refresh cycle, then exit"`
	Recent int    `long:"recent" default:"0" description:"print N newest items after --once run"`
	Filter string `long:"filter" description:"tag filter for --recent, like news,!daily"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	SetupLog(opts.Debug)

	lgr.Printf("[INFO] starting feedbouncer version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts, os.Stdout)
	cancel()

	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	lgr.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts, out io.Writer) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Storage != "" {
		cfg.Storage = opts.Storage
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	db, err := database.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	fetcher := feed.NewHTTPFetcher(cfg.Refresh.Timeout, cfg.Refresh.UserAgent)
	executor := refresh.NewExecutor(fetcher, refresh.Params{
		MaxWorkers: cfg.Refresh.MaxWorkers,
		Retry: refresh.RetryParams{
			Attempts:     cfg.Refresh.Retry.Attempts,
			InitialDelay: cfg.Refresh.Retry.InitialDelay,
			MaxDelay:     cfg.Refresh.Retry.MaxDelay,
			Jitter:       cfg.Refresh.Retry.Jitter,
		},
	})

	imp := importer.New(db, executor, cfg.Storage)
	if cfg.Import.Enabled {
		if err := imp.Run(ctx); err != nil {
			lgr.Printf("[WARN] import failed: %v", err)
		}
	}

	sched := scheduler.NewScheduler(scheduler.Params{Database: db, Executor: executor, Interval: cfg.Refresh.Interval})

	if opts.Once {
		if err := sched.RunCycle(ctx); err != nil {
			lgr.Printf("[WARN] refresh failed: %v", err)
		}
		if opts.Recent > 0 {
			printRecent(out, db, domain.ParseFilter(opts.Filter), opts.Recent)
		}
		return nil
	}

	sched.Start(ctx)

	if cfg.Server.Enabled {
		srv := server.New(cfg, db, sched, imp, revision, opts.Debug)
		if err := srv.Run(ctx); err != nil {
			sched.Stop()
			return fmt.Errorf("server failed: %w", err)
		}
	} else {
		<-ctx.Done()
	}

	sched.Stop()
	if err := db.Save(); err != nil {
		return fmt.Errorf("final save: %w", err)
	}
	return nil
}

// printRecent writes the newest items, titles cleaned of feed prefixes
func printRecent(out io.Writer, db *database.DB, filter domain.Filter, n int) {
	for _, it := range db.RecentItems(filter, n) {
		date := "          "
		if !it.Date.Equal(domain.OldDate) {
			date = it.Date.UTC().Format(time.DateOnly)
		}
		marker := " "
		if !it.Read {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s  %s: %s\n", marker, date, it.FeedTitle, it.Title) //nolint:errcheck // console output
		if link := it.Link(); link != "" {
			fmt.Fprintf(out, "    %s\n", link) //nolint:errcheck // console output
		}
	}
}

// SetupLog configures lgr and the std logger, debug adds caller info and debug level
func SetupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(os.Stderr), lgr.Err(os.Stderr)}
	if dbg {
		logOpts = append(logOpts, lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError)
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
