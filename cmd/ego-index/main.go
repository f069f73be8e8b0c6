// Command ego-index scores how egotistical a Twitter/X account's posting is.
//
// Usage:
//
//	ego-index someuser                # acquire + analyze
//	ego-index -acquire-only someuser  # acquire without scoring
//	ego-index -leaderboard highest    # stored results, most egotistical first
//	ego-index -block someuser -reason "requested removal"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/OwenCoonahan/ego-index"
	"github.com/OwenCoonahan/ego-index/httpcache"
	"github.com/OwenCoonahan/ego-index/insight"
	"github.com/OwenCoonahan/ego-index/profile"
	"github.com/OwenCoonahan/ego-index/store"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	mock := flag.Bool("mock", false, "use mock data, no network calls")
	maxTweets := flag.Int("max", egoindex.DefaultMaxTweets, "maximum tweets to acquire")
	acquireOnly := flag.Bool("acquire-only", false, "fetch profile and tweets without scoring")
	noCache := flag.Bool("no-cache", false, "disable HTTP caching for mirror scraping")
	cacheTTL := flag.Duration("cache-ttl", 24*time.Hour, "HTTP cache time-to-live")
	leaderboard := flag.String("leaderboard", "", "show stored results: 'highest' or 'lowest'")
	industry := flag.String("industry", "", "filter leaderboard by industry group")
	block := flag.Bool("block", false, "add the username to the blocklist")
	unblock := flag.Bool("unblock", false, "remove the username from the blocklist")
	reason := flag.String("reason", "", "blocklist reason, used with -block")
	withInsight := flag.Bool("insight", false, "print a shareable summary line after the report")
	flag.Parse()

	// Missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	conf := egoindex.ConfigFromEnv()
	if *mock {
		conf.UseMockData = true
	}

	ctx := context.Background()

	if *leaderboard != "" {
		runLeaderboard(ctx, conf, logger, *leaderboard, *industry)
		return
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ego-index [options] <username>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}
	username := flag.Arg(0)

	if *block || *unblock {
		runBlocklist(ctx, conf, logger, username, *block, *reason)
		return
	}

	opts := []egoindex.Option{
		egoindex.WithLogger(logger),
		egoindex.WithConfig(conf),
		egoindex.WithMaxTweets(*maxTweets),
	}
	if !*noCache {
		cache, err := httpcache.New(*cacheTTL)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without cache", "error", err)
		} else {
			opts = append(opts, egoindex.WithHTTPCache(cache))
			logger.Debug("HTTP cache initialized", "ttl", cacheTTL.String())
		}
	}

	if *acquireOnly {
		result, err := egoindex.Acquire(ctx, username, *maxTweets, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		original := profile.FilterOriginal(result.Tweets)
		logger.Info("acquired", "username", result.Profile.Username,
			"tweets", len(result.Tweets), "original", len(original))
		if err := outputJSON(result); err != nil {
			fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	report, err := egoindex.Analyze(ctx, username, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := outputJSON(report); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		os.Exit(1)
	}
	if *withInsight {
		fmt.Fprintln(os.Stderr, insight.Summarize(report.Profile, report.Analysis))
	}
}

func runLeaderboard(ctx context.Context, conf egoindex.Config, logger *slog.Logger, sort, industry string) {
	if conf.DatabasePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -leaderboard requires EGO_INDEX_DB to be set")
		os.Exit(1)
	}
	db, err := store.Open(conf.DatabasePath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }() //nolint:errcheck // error ignored intentionally

	entries, err := db.Leaderboard(ctx, sort, industry, 50)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
	}
	if err := outputJSON(entries); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		os.Exit(1)
	}
}

func runBlocklist(ctx context.Context, conf egoindex.Config, logger *slog.Logger, username string, block bool, reason string) {
	if conf.DatabasePath == "" {
		fmt.Fprintln(os.Stderr, "Error: blocklist commands require EGO_INDEX_DB to be set")
		os.Exit(1)
	}
	db, err := store.Open(conf.DatabasePath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }() //nolint:errcheck // error ignored intentionally

	username = profile.CleanUsername(username)
	if block {
		err = db.Block(ctx, username, reason)
	} else {
		err = db.Unblock(ctx, username)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
	}
	logger.Info("blocklist updated", "username", username, "blocked", block)
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
