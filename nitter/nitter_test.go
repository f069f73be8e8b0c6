package nitter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/OwenCoonahan/ego-index/profile"
)

func TestFetchFailover(t *testing.T) {
	// First mirror: connection refused (server already closed).
	dead := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	dead.Close()

	// Second mirror: 404.
	var notFoundCalls int
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		notFoundCalls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	// Third mirror: success.
	var goodCalls int
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		goodCalls++
		_, _ = w.Write([]byte(profileFixture)) //nolint:errcheck // test server
	}))
	defer good.Close()

	// Fourth mirror: must never be reached once the third succeeds.
	var extraCalls int
	extra := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		extraCalls++
		_, _ = w.Write([]byte(profileFixture)) //nolint:errcheck // test server
	}))
	defer extra.Close()

	client, err := New(context.Background(), WithMirrors([]string{dead.URL, notFound.URL, good.URL, extra.URL}))
	if err != nil {
		t.Fatal(err)
	}

	result, err := client.Fetch(context.Background(), "janedoe", 100)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if result.Profile.DisplayName != "Jane Doe" {
		t.Errorf("DisplayName = %q, want %q", result.Profile.DisplayName, "Jane Doe")
	}
	if notFoundCalls != 1 {
		t.Errorf("failing mirror called %d times, want 1 (no same-mirror retry)", notFoundCalls)
	}
	if goodCalls != 1 {
		t.Errorf("successful mirror called %d times, want 1", goodCalls)
	}
	if extraCalls != 0 {
		t.Errorf("mirror after first success called %d times, want 0", extraCalls)
	}
}

func TestFetchAllMirrorsFail(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	dead.Close()

	mirrors := []string{failing.URL, dead.URL, failing.URL + "/alt"}
	client, err := New(context.Background(), WithMirrors(mirrors))
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Fetch(context.Background(), "janedoe", 100)
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Fetch() error = %v, want *ExhaustedError", err)
	}
	if exhausted.Attempts != len(mirrors) {
		t.Errorf("Attempts = %d, want %d", exhausted.Attempts, len(mirrors))
	}
	if exhausted.LastErr == nil {
		t.Error("LastErr is nil, want the final underlying error")
	}
}

func TestFetchNotFoundFallsThrough(t *testing.T) {
	// A mirror claiming not-found is not authoritative; the next mirror still
	// gets a chance.
	stale := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(notFoundFixture)) //nolint:errcheck // test server
	}))
	defer stale.Close()

	var goodCalls int
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		goodCalls++
		_, _ = w.Write([]byte(profileFixture)) //nolint:errcheck // test server
	}))
	defer good.Close()

	client, err := New(context.Background(), WithMirrors([]string{stale.URL, good.URL}))
	if err != nil {
		t.Fatal(err)
	}

	result, err := client.Fetch(context.Background(), "janedoe", 100)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if goodCalls != 1 {
		t.Errorf("second mirror called %d times, want 1", goodCalls)
	}
	if result.Profile.Username != "janedoe" {
		t.Errorf("Username = %q, want %q", result.Profile.Username, "janedoe")
	}
}

func TestFetchAllNotFound(t *testing.T) {
	stale := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(notFoundFixture)) //nolint:errcheck // test server
	}))
	defer stale.Close()

	client, err := New(context.Background(), WithMirrors([]string{stale.URL}))
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Fetch(context.Background(), "ghost", 100)
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Fetch() error = %v, want *ExhaustedError", err)
	}
	if !errors.Is(exhausted.LastErr, profile.ErrProfileNotFound) {
		t.Errorf("LastErr = %v, want ErrProfileNotFound", exhausted.LastErr)
	}
}

func TestFetchSendsBrowserUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(profileFixture)) //nolint:errcheck // test server
	}))
	defer server.Close()

	client, err := New(context.Background(), WithMirrors([]string{server.URL}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Fetch(context.Background(), "janedoe", 10); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if gotUA == "" || gotUA == "Go-http-client/1.1" {
		t.Errorf("User-Agent = %q, want a desktop browser agent", gotUA)
	}
}

func TestNewNoMirrors(t *testing.T) {
	if _, err := New(context.Background(), WithMirrors([]string{})); err == nil {
		t.Error("New() with empty mirror list should fail")
	}
}
