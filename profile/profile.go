// Package profile defines the common types shared by all tweet acquisition providers.
package profile

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by provider packages and the orchestrator.
var (
	ErrProfileNotFound  = errors.New("profile not found or is private")
	ErrNoOriginalTweets = errors.New("no original tweets found to analyze")
)

// ParseError indicates a document was fetched but did not match the expected
// structure (mirror layout drift). Failover treats it like a network failure.
type ParseError struct {
	Mirror string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s failed: %s", e.Mirror, e.Reason)
}

// Profile represents one account's public metadata.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Profile struct {
	Username        string `json:"username"` // canonical lowercase handle, no @ prefix
	DisplayName     string `json:"display_name"`
	Bio             string `json:"bio"`
	ProfileImageURL string `json:"profile_image_url"` // always absolute
	FollowersCount  int    `json:"followers_count"`
	FollowingCount  int    `json:"following_count"`
	TweetCount      int    `json:"tweet_count"` // lifetime count as reported by the source
}

// Tweet is a single content item. Immutable once constructed.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Tweet struct {
	ID           string `json:"id"`
	SyntheticID  bool   `json:"synthetic_id,omitempty"` // ID was synthesized, not stable across runs
	Text         string `json:"text"`
	CreatedAt    string `json:"created_at"` // ISO-8601; approximated to "now" when the source omits it
	LikeCount    int    `json:"like_count"`
	RetweetCount int    `json:"retweet_count"`
	ReplyCount   int    `json:"reply_count"`
	QuoteCount   int    `json:"quote_count"`
	IsRetweet    bool   `json:"is_retweet"`
	IsReply      bool   `json:"is_reply"`
}

// Original reports whether the tweet is neither a retweet nor a reply.
func (t Tweet) Original() bool { return !t.IsRetweet && !t.IsReply }

// Result is a provider's normalized output: one profile plus a bounded
// list of tweets. Providers never return a partially populated profile.
type Result struct {
	Profile Profile `json:"profile"`
	Tweets  []Tweet `json:"tweets"`
}

// CleanUsername normalizes a handle: strips a leading @, trims whitespace,
// and lowercases. Every provider receives usernames in this form.
func CleanUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(username), "@")))
}

// FilterOriginal keeps only tweets that are neither retweets nor replies.
// Order-preserving and stable; surviving elements are not mutated.
// An empty result is not an error here: deciding that zero eligible tweets
// is terminal belongs to the caller.
func FilterOriginal(tweets []Tweet) []Tweet {
	original := make([]Tweet, 0, len(tweets))
	for _, t := range tweets {
		if t.Original() {
			original = append(original, t)
		}
	}
	return original
}
