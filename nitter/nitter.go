// Package nitter fetches Twitter/X profile data and recent tweets by scraping
// public Nitter mirrors, failing over between them in a fixed priority order.
package nitter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/OwenCoonahan/ego-index/httpcache"
	"github.com/OwenCoonahan/ego-index/profile"
)

// DefaultMirrors is the ordered list of public Nitter mirrors, most reliable
// first. Mirrors go up and down constantly; operational updates belong here,
// not in the extraction logic. Status overview: https://status.d420.de/
// Last reviewed: 2025-11-14.
var DefaultMirrors = []string{
	"https://nitter.poast.org",
	"https://nitter.tiekoetter.com",
	"https://nitter.space",
	"https://lightbrd.com",
	"https://xcancel.com",
	"https://nuku.trabun.org",
	"https://nitter.net",
	"https://nitter.privacyredirect.com",
	"https://nitter.privacydev.net",
	"https://nitter.cz",
	"https://nitter.unixfox.eu",
	"https://nitter.kavin.rocks",
	"https://nitter.mint.lgbt",
	"https://nitter.pw",
	"https://nitter.fdn.fr",
	"https://nitter.esmailelbob.xyz",
}

const fetchTimeout = 15 * time.Second

// ExhaustedError reports that every configured mirror failed.
type ExhaustedError struct {
	LastErr  error
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d nitter mirrors failed, last error: %v", e.Attempts, e.LastErr)
}

func (e *ExhaustedError) Unwrap() error { return e.LastErr }

// Client scrapes Nitter mirrors.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	mirrors    []string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cache   httpcache.Cacher
	logger  *slog.Logger
	mirrors []string
}

// WithHTTPCache sets the HTTP cache.
func WithHTTPCache(cache httpcache.Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMirrors overrides the default mirror list. Order is priority order.
func WithMirrors(mirrors []string) Option {
	return func(c *config) { c.mirrors = mirrors }
}

// New creates a Nitter client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default(), mirrors: DefaultMirrors}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.mirrors) == 0 {
		return nil, fmt.Errorf("no mirrors configured")
	}

	return &Client{
		httpClient: &http.Client{Timeout: fetchTimeout},
		cache:      cfg.cache,
		logger:     cfg.logger,
		mirrors:    cfg.mirrors,
	}, nil
}

// Fetch retrieves a profile and up to maxTweets tweets, trying each mirror
// strictly in order and returning the first success. A mirror is never
// retried, and not-found from one mirror falls through to the next like any
// other failure; mirrors go stale.
func (c *Client) Fetch(ctx context.Context, username string, maxTweets int) (*profile.Result, error) {
	var lastErr error
	attempts := 0

	for _, mirror := range c.mirrors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attempts++
		c.logger.InfoContext(ctx, "trying nitter mirror", "mirror", mirror, "username", username, "attempt", attempts)

		result, err := c.fetchFromMirror(ctx, mirror, username, maxTweets)
		if err != nil {
			lastErr = err
			c.logger.WarnContext(ctx, "mirror failed", "mirror", mirror, "error", err)
			continue
		}

		c.logger.InfoContext(ctx, "scraped profile", "mirror", mirror, "username", username, "tweets", len(result.Tweets))
		return result, nil
	}

	return nil, &ExhaustedError{Attempts: attempts, LastErr: lastErr}
}

func (c *Client) fetchFromMirror(ctx context.Context, mirror, username string, maxTweets int) (*profile.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mirror+"/"+username, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", httpcache.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &profile.ParseError{Mirror: mirror, Reason: err.Error()}
	}

	return extract(doc, mirror, username, maxTweets)
}
