// Package egoindex acquires a public Twitter/X profile with its recent
// tweets and scores how egotistical the account's posting is.
//
// Basic usage:
//
//	result, err := egoindex.Acquire(ctx, "someuser", egoindex.DefaultMaxTweets)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Profile.DisplayName, len(result.Tweets))
//
// With scoring and persistence:
//
//	report, err := egoindex.Analyze(ctx, "someuser",
//	    egoindex.WithConfig(egoindex.ConfigFromEnv()))
package egoindex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/OwenCoonahan/ego-index/analyzer"
	"github.com/OwenCoonahan/ego-index/httpcache"
	"github.com/OwenCoonahan/ego-index/nitter"
	"github.com/OwenCoonahan/ego-index/profile"
	"github.com/OwenCoonahan/ego-index/rapidapi"
	"github.com/OwenCoonahan/ego-index/store"
)

type (
	// Profile re-exports profile.Profile for convenience.
	Profile = profile.Profile
	// Tweet re-exports profile.Tweet for convenience.
	Tweet = profile.Tweet
	// Result re-exports profile.Result for convenience.
	Result = profile.Result
)

// Re-export common errors.
var (
	ErrProfileNotFound  = profile.ErrProfileNotFound
	ErrNoOriginalTweets = profile.ErrNoOriginalTweets
)

// ErrBlocked is returned by Analyze for usernames on the blocklist.
var ErrBlocked = errors.New("user is blocked from analysis")

// DefaultMaxTweets is the tweet cap used when callers pass zero.
const DefaultMaxTweets = 100

// analysisMaxAge is how long a stored analysis is served instead of
// running a new one.
const analysisMaxAge = 24 * time.Hour

// Config selects the acquisition strategy and collaborator credentials.
// The zero value scrapes public HTML mirrors with no scoring.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Config struct {
	UseMockData  bool
	RapidAPIKey  string
	RapidAPIHost string
	GeminiAPIKey string
	OpenAIAPIKey string
	DatabasePath string
}

// ConfigFromEnv builds a Config from the environment.
func ConfigFromEnv() Config {
	return Config{
		UseMockData:  os.Getenv("USE_MOCK_DATA") == "true",
		RapidAPIKey:  os.Getenv("RAPIDAPI_KEY"),
		RapidAPIHost: os.Getenv("RAPIDAPI_HOST"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		DatabasePath: os.Getenv("EGO_INDEX_DB"),
	}
}

// Option configures an Acquire or Analyze call.
type Option func(*config)

type config struct {
	cache     httpcache.Cacher
	logger    *slog.Logger
	mirrors   []string
	conf      Config
	maxTweets int
}

// WithConfig sets the acquisition strategy and credentials.
func WithConfig(conf Config) Option {
	return func(c *config) { c.conf = conf }
}

// WithHTTPCache sets the HTTP cache used by the mirror scraper.
func WithHTTPCache(cache httpcache.Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMirrors overrides the HTML mirror list.
func WithMirrors(mirrors []string) Option {
	return func(c *config) { c.mirrors = mirrors }
}

// WithMaxTweets caps how many tweets Analyze acquires. Zero or negative
// means DefaultMaxTweets.
func WithMaxTweets(n int) Option {
	return func(c *config) { c.maxTweets = n }
}

func newConfig(opts []Option) *config {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Acquire fetches a profile and up to maxTweets recent tweets for a
// username. The strategy is chosen from the configuration: mock data when
// UseMockData is set, the structured API when RapidAPI credentials are
// present, public HTML mirrors otherwise. A failed strategy does not fall
// through to another one.
func Acquire(ctx context.Context, username string, maxTweets int, opts ...Option) (*profile.Result, error) {
	cfg := newConfig(opts)

	username = profile.CleanUsername(username)
	if username == "" {
		return nil, errors.New("username is empty")
	}
	if maxTweets <= 0 {
		maxTweets = DefaultMaxTweets
	}

	switch {
	case cfg.conf.UseMockData:
		cfg.logger.InfoContext(ctx, "using mock data", "username", username)
		return mockResult(username, maxTweets), nil
	case cfg.conf.RapidAPIKey != "" && cfg.conf.RapidAPIHost != "":
		return acquireRapidAPI(ctx, username, maxTweets, cfg)
	default:
		return acquireNitter(ctx, username, maxTweets, cfg)
	}
}

func acquireNitter(ctx context.Context, username string, maxTweets int, cfg *config) (*profile.Result, error) {
	var opts []nitter.Option
	if cfg.cache != nil {
		opts = append(opts, nitter.WithHTTPCache(cfg.cache))
	}
	if cfg.logger != nil {
		opts = append(opts, nitter.WithLogger(cfg.logger))
	}
	if len(cfg.mirrors) > 0 {
		opts = append(opts, nitter.WithMirrors(cfg.mirrors))
	}

	client, err := nitter.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return client.Fetch(ctx, username, maxTweets)
}

func acquireRapidAPI(ctx context.Context, username string, maxTweets int, cfg *config) (*profile.Result, error) {
	var opts []rapidapi.Option
	if cfg.logger != nil {
		opts = append(opts, rapidapi.WithLogger(cfg.logger))
	}

	client, err := rapidapi.New(ctx, cfg.conf.RapidAPIKey, cfg.conf.RapidAPIHost, opts...)
	if err != nil {
		return nil, err
	}
	return client.Fetch(ctx, username, maxTweets)
}

// Report is the outcome of a full analysis run.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Report struct {
	Profile  profile.Profile   `json:"profile"`
	Analysis analyzer.Analysis `json:"analysis"`
	Cached   bool              `json:"cached"`
}

// Analyze acquires a profile, filters it down to original tweets, and
// scores it. With a database configured, blocked users are refused, a
// stored analysis younger than 24 hours is returned instead of a new run,
// and fresh results are persisted.
func Analyze(ctx context.Context, username string, opts ...Option) (*Report, error) {
	cfg := newConfig(opts)

	username = profile.CleanUsername(username)
	if username == "" {
		return nil, errors.New("username is empty")
	}

	var db *store.Store
	if cfg.conf.DatabasePath != "" {
		var err error
		db, err = store.Open(cfg.conf.DatabasePath, cfg.logger)
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		defer func() { _ = db.Close() }() //nolint:errcheck // error ignored intentionally

		blocked, reason, err := db.IsBlocked(ctx, username)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, fmt.Errorf("%w: %s", ErrBlocked, reason)
		}

		if entry, err := db.FreshAnalysis(ctx, username, analysisMaxAge); err == nil {
			cfg.logger.InfoContext(ctx, "serving stored analysis",
				"username", username, "analyzed_at", entry.AnalyzedAt)
			return &Report{Profile: entry.Profile, Analysis: entry.Analysis, Cached: true}, nil
		} else if !errors.Is(err, store.ErrNotFound) {
			cfg.logger.WarnContext(ctx, "stored analysis lookup failed", "username", username, "error", err)
		}
	}

	result, err := Acquire(ctx, username, cfg.maxTweets, opts...)
	if err != nil {
		return nil, err
	}

	original := profile.FilterOriginal(result.Tweets)
	if len(original) == 0 {
		return nil, fmt.Errorf("%s: %w", username, profile.ErrNoOriginalTweets)
	}

	scorer, err := analyzer.New(ctx, analyzer.Config{
		GeminiAPIKey: cfg.conf.GeminiAPIKey,
		OpenAIAPIKey: cfg.conf.OpenAIAPIKey,
		Logger:       cfg.logger,
		UseMock:      cfg.conf.UseMockData,
	})
	if err != nil {
		return nil, err
	}

	analysis, err := scorer.Analyze(ctx, result.Profile, original)
	if err != nil {
		return nil, err
	}

	if db != nil {
		// Persistence failures do not discard a completed analysis.
		if err := db.SaveProfile(ctx, result.Profile); err != nil {
			cfg.logger.WarnContext(ctx, "saving profile failed", "username", username, "error", err)
		}
		if err := db.SaveAnalysis(ctx, username, *analysis); err != nil {
			cfg.logger.WarnContext(ctx, "saving analysis failed", "username", username, "error", err)
		}
	}

	return &Report{Profile: result.Profile, Analysis: *analysis}, nil
}
