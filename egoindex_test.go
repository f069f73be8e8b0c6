package egoindex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/OwenCoonahan/ego-index/profile"
	"github.com/OwenCoonahan/ego-index/store"
)

func TestAcquireEmptyUsername(t *testing.T) {
	if _, err := Acquire(context.Background(), "  @ ", 10); err == nil {
		t.Error("expected error for empty username")
	}
}

func TestAcquireMockMode(t *testing.T) {
	// A mirror that counts hits proves mock mode makes no network calls.
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	result, err := Acquire(context.Background(), "@ExampleUser ", 0,
		WithConfig(Config{UseMockData: true}),
		WithMirrors([]string{srv.URL}))
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if result.Profile.Username != "exampleuser" {
		t.Errorf("Username = %q, want normalized exampleuser", result.Profile.Username)
	}
	if result.Profile.FollowersCount != 12500 {
		t.Errorf("FollowersCount = %d, want 12500", result.Profile.FollowersCount)
	}
	if len(result.Tweets) != 6 {
		t.Errorf("got %d tweets, want 6", len(result.Tweets))
	}
	if hits.Load() != 0 {
		t.Errorf("mock mode made %d network calls", hits.Load())
	}
}

func TestAcquireMockModeRespectsCap(t *testing.T) {
	result, err := Acquire(context.Background(), "someone", 2, WithConfig(Config{UseMockData: true}))
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if len(result.Tweets) != 2 {
		t.Errorf("got %d tweets, want 2", len(result.Tweets))
	}
}

func TestAcquireMockContainsFilterable(t *testing.T) {
	result, err := Acquire(context.Background(), "someone", 0, WithConfig(Config{UseMockData: true}))
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	original := profile.FilterOriginal(result.Tweets)
	if len(original) == 0 || len(original) == len(result.Tweets) {
		t.Errorf("mock timeline should mix original and non-original tweets, got %d of %d original",
			len(original), len(result.Tweets))
	}
}

func TestAcquireUsesMirrorsOverride(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := Acquire(context.Background(), "someone", 10, WithMirrors([]string{srv.URL}))
	if err == nil {
		t.Fatal("expected error from failing mirror")
	}
	if hits.Load() != 1 {
		t.Errorf("mirror hit %d times, want 1", hits.Load())
	}
}

func TestAnalyzeMockPipeline(t *testing.T) {
	report, err := Analyze(context.Background(), "exampleuser", WithConfig(Config{UseMockData: true}))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Cached {
		t.Error("first analysis should not be cached")
	}
	if report.Analysis.Tier == "" {
		t.Error("analysis missing tier")
	}
	// Only original tweets reach the scorer; the mock timeline has 4.
	if report.Analysis.TweetsAnalyzed != 4 {
		t.Errorf("TweetsAnalyzed = %d, want 4", report.Analysis.TweetsAnalyzed)
	}
}

func TestAnalyzeHonorsMaxTweets(t *testing.T) {
	// The mock timeline's first three tweets are two originals and a retweet,
	// so capping acquisition at 3 must leave exactly 2 for the scorer.
	report, err := Analyze(context.Background(), "exampleuser",
		WithConfig(Config{UseMockData: true}),
		WithMaxTweets(3))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Analysis.TweetsAnalyzed != 2 {
		t.Errorf("TweetsAnalyzed = %d, want 2", report.Analysis.TweetsAnalyzed)
	}
}

func TestAnalyzeStoreRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfg := Config{UseMockData: true, DatabasePath: dbPath}

	first, err := Analyze(context.Background(), "exampleuser", WithConfig(cfg))
	if err != nil {
		t.Fatalf("first Analyze: %v", err)
	}
	if first.Cached {
		t.Error("first run should not be cached")
	}

	second, err := Analyze(context.Background(), "exampleuser", WithConfig(cfg))
	if err != nil {
		t.Fatalf("second Analyze: %v", err)
	}
	if !second.Cached {
		t.Error("second run should reuse the stored analysis")
	}
	if second.Analysis.OverallScore != first.Analysis.OverallScore {
		t.Errorf("stored score %d differs from original %d",
			second.Analysis.OverallScore, first.Analysis.OverallScore)
	}
}

func TestAnalyzeBlockedUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := store.Open(dbPath, nil)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	if err := db.Block(context.Background(), "pariah", "requested removal"); err != nil {
		t.Fatalf("Block: %v", err)
	}
	_ = db.Close()

	_, err = Analyze(context.Background(), "pariah", WithConfig(Config{UseMockData: true, DatabasePath: dbPath}))
	if !errors.Is(err, ErrBlocked) {
		t.Errorf("expected ErrBlocked, got %v", err)
	}
}
