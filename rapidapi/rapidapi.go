// Package rapidapi fetches Twitter/X profile data through third-party RapidAPI
// providers. The known providers expose the same data under different endpoint
// paths and field names; this package centralizes that variant knowledge and
// normalizes every response into the shared profile types.
package rapidapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/OwenCoonahan/ego-index/profile"
)

const fetchTimeout = 15 * time.Second

// UpstreamError reports a provider failure: an error status, a timeout, or an
// unparseable payload. The upstream body is attached for diagnostics when
// available. Terminal for the structured-API path; there is no fallback to
// HTML mirrors within one acquisition.
type UpstreamError struct {
	Err        error
	Body       string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("rapidapi upstream returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("rapidapi upstream failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Client calls one configured RapidAPI provider.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	apiHost    string
	baseURL    string
	variant    variant
}

// Option configures a Client.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	baseURL string
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBaseURL overrides the provider base URL (normally https://{host}).
func WithBaseURL(baseURL string) Option {
	return func(c *config) { c.baseURL = baseURL }
}

// New creates a client for the provider identified by apiHost. The host also
// selects the endpoint variant, e.g. "twitter241.p.rapidapi.com".
func New(_ context.Context, apiKey, apiHost string, opts ...Option) (*Client, error) {
	if apiKey == "" || apiHost == "" {
		return nil, errors.New("rapidapi key and host are required")
	}

	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	baseURL := cfg.baseURL
	if baseURL == "" {
		baseURL = "https://" + apiHost
	}

	return &Client{
		httpClient: &http.Client{Timeout: fetchTimeout},
		logger:     cfg.logger,
		apiKey:     apiKey,
		apiHost:    apiHost,
		baseURL:    baseURL,
		variant:    variantForHost(apiHost),
	}, nil
}

// Fetch retrieves a profile and up to maxTweets tweets via two provider calls:
// one for profile metadata, one for the timeline.
func (c *Client) Fetch(ctx context.Context, username string, maxTweets int) (*profile.Result, error) {
	c.logger.InfoContext(ctx, "fetching via rapidapi",
		"host", c.apiHost, "variant", c.variant.name, "username", username)

	userData, err := c.getJSON(ctx, c.variant.userEndpoint, url.Values{
		c.variant.queryParam: {username},
	})
	if err != nil {
		return nil, err
	}

	tweetsData, err := c.getJSON(ctx, c.variant.tweetsEndpoint, url.Values{
		c.variant.queryParam: {username},
		"count":              {strconv.Itoa(maxTweets)},
		"limit":              {strconv.Itoa(maxTweets)},
	})
	if err != nil {
		return nil, err
	}

	p := normalizeProfile(userData, username)
	tweets := normalizeTweets(tweetsData, maxTweets)
	c.logger.InfoContext(ctx, "rapidapi fetch complete", "username", username, "tweets", len(tweets))

	return &profile.Result{Profile: p, Tweets: tweets}, nil
}

// getJSON issues one GET and decodes the payload. Transient upstream statuses
// get a single retry; 4xx responses are permanent.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values) (map[string]any, error) {
	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	body, err := retry.DoWithData(
		func() ([]byte, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
			if err != nil {
				return nil, err
			}
			req.Header.Set("X-RapidAPI-Key", c.apiKey)
			req.Header.Set("X-RapidAPI-Host", c.apiHost)
			req.Header.Set("Accept", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return nil, err
			}
			defer func() { _ = resp.Body.Close() }() //nolint:errcheck // error ignored intentionally

			payload, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
			if err != nil {
				return nil, err
			}
			if resp.StatusCode != http.StatusOK {
				return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(payload)}
			}
			return payload, nil
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(200*time.Millisecond),
		retry.MaxJitter(100*time.Millisecond),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying rapidapi request", "attempt", n+1, "url", reqURL, "error", err)
		}),
	)
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			return nil, upstream
		}
		return nil, &UpstreamError{Err: err}
	}

	// Some providers return a bare array for listing endpoints; wrap it so the
	// normalization step can resolve it through the usual container keys.
	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		var list []any
		if listErr := json.Unmarshal(body, &list); listErr == nil {
			return map[string]any{"results": list}, nil
		}
		return nil, &UpstreamError{Err: fmt.Errorf("malformed JSON: %w", err), Body: truncate(string(body), 512)}
	}

	return envelope, nil
}

func isRetryable(err error) bool {
	var upstream *UpstreamError
	if errors.As(err, &upstream) && upstream.StatusCode != 0 {
		switch upstream.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}
	// Network errors and timeouts are transient.
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
