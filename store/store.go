// Package store persists profiles, score records, and the blocklist in a
// local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/OwenCoonahan/ego-index/analyzer"
	"github.com/OwenCoonahan/ego-index/profile"
)

// ErrNotFound is returned when no matching row exists.
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Entry is one stored analysis with its profile, as returned by
// FreshAnalysis and Leaderboard.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Entry struct {
	Username   string            `json:"username"`
	Profile    profile.Profile   `json:"profile"`
	Analysis   analyzer.Analysis `json:"analysis"`
	AnalyzedAt time.Time         `json:"analyzed_at"`
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			username TEXT PRIMARY KEY,
			display_name TEXT,
			bio TEXT,
			profile_image_url TEXT,
			followers_count INTEGER DEFAULT 0,
			following_count INTEGER DEFAULT 0,
			tweet_count INTEGER DEFAULT 0,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			overall_score INTEGER NOT NULL,
			industry TEXT,
			analysis_json TEXT NOT NULL,
			analyzed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_username ON analyses(username, analyzed_at)`,
		`CREATE TABLE IF NOT EXISTS blocklist (
			username TEXT PRIMARY KEY,
			reason TEXT,
			blocked_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close() //nolint:errcheck // error ignored intentionally
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	logger.Debug("database ready", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveProfile upserts a profile row.
func (s *Store) SaveProfile(ctx context.Context, p profile.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (username, display_name, bio, profile_image_url, followers_count, following_count, tweet_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			display_name = excluded.display_name,
			bio = excluded.bio,
			profile_image_url = excluded.profile_image_url,
			followers_count = excluded.followers_count,
			following_count = excluded.following_count,
			tweet_count = excluded.tweet_count,
			updated_at = excluded.updated_at`,
		p.Username, p.DisplayName, p.Bio, p.ProfileImageURL, p.FollowersCount, p.FollowingCount, p.TweetCount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// SaveAnalysis appends a score record for a username. The record is stored
// as JSON so schema changes in the analyzer do not require migrations.
func (s *Store) SaveAnalysis(ctx context.Context, username string, a analyzer.Analysis) error {
	blob, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (username, overall_score, industry, analysis_json, analyzed_at)
		VALUES (?, ?, ?, ?, ?)`,
		username, a.OverallScore, a.Industry, string(blob), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}
	return nil
}

// FreshAnalysis returns the most recent stored analysis for username if it
// is younger than maxAge. ErrNotFound when there is none.
func (s *Store) FreshAnalysis(ctx context.Context, username string, maxAge time.Duration) (*Entry, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	var blob string
	var analyzedAt time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT analysis_json, analyzed_at FROM analyses
		WHERE username = ? AND analyzed_at > ?
		ORDER BY analyzed_at DESC LIMIT 1`,
		username, cutoff).Scan(&blob, &analyzedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying analysis: %w", err)
	}

	entry := Entry{Username: username, AnalyzedAt: analyzedAt}
	if err := json.Unmarshal([]byte(blob), &entry.Analysis); err != nil {
		return nil, fmt.Errorf("decoding stored analysis: %w", err)
	}

	p, err := s.loadProfile(ctx, username)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if p != nil {
		entry.Profile = *p
	}
	return &entry, nil
}

func (s *Store) loadProfile(ctx context.Context, username string) (*profile.Profile, error) {
	var p profile.Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT username, display_name, bio, profile_image_url, followers_count, following_count, tweet_count
		FROM profiles WHERE username = ?`, username).Scan(
		&p.Username, &p.DisplayName, &p.Bio, &p.ProfileImageURL, &p.FollowersCount, &p.FollowingCount, &p.TweetCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return &p, nil
}

// industryGroups maps a leaderboard filter to the industry labels it covers.
// Labels come from the analyzer and are free-form, so each group lists the
// spellings seen in practice.
var industryGroups = map[string][]string{
	"tech":    {"tech", "technology", "software", "saas", "ai", "startups"},
	"finance": {"finance", "fintech", "investing", "vc", "crypto", "trading"},
	"media":   {"media", "journalism", "content", "entertainment"},
	"fitness": {"fitness", "health", "wellness", "sports"},
}

// Leaderboard returns the latest analysis per username ordered by the given
// sort. sort is "highest" (most egotistical first) or "lowest"; industry
// optionally filters by industry group or exact label.
func (s *Store) Leaderboard(ctx context.Context, sort, industry string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	order := "DESC"
	if sort == "lowest" {
		order = "ASC"
	}

	query := `
		SELECT a.username, a.analysis_json, a.analyzed_at FROM analyses a
		INNER JOIN (
			SELECT username, MAX(analyzed_at) AS latest FROM analyses GROUP BY username
		) m ON a.username = m.username AND a.analyzed_at = m.latest`
	var args []any

	if industry != "" {
		labels := industryGroups[strings.ToLower(industry)]
		if labels == nil {
			labels = []string{strings.ToLower(industry)}
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(labels)), ",")
		query += " WHERE LOWER(a.industry) IN (" + placeholders + ")"
		for _, l := range labels {
			args = append(args, l)
		}
	}

	query += " ORDER BY a.overall_score " + order + " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // error ignored intentionally

	var entries []Entry
	for rows.Next() {
		var e Entry
		var blob string
		if err := rows.Scan(&e.Username, &blob, &e.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		if err := json.Unmarshal([]byte(blob), &e.Analysis); err != nil {
			s.logger.Warn("skipping undecodable analysis", "username", e.Username, "error", err)
			continue
		}
		if p, err := s.loadProfile(ctx, e.Username); err == nil {
			e.Profile = *p
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leaderboard: %w", err)
	}
	return entries, nil
}

// IsBlocked reports whether a username is on the blocklist, with the reason.
func (s *Store) IsBlocked(ctx context.Context, username string) (bool, string, error) {
	var reason sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT reason FROM blocklist WHERE username = ?`, username).Scan(&reason)
	if errors.Is(err, sql.ErrNoRows) {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("querying blocklist: %w", err)
	}
	return true, reason.String, nil
}

// Block adds a username to the blocklist.
func (s *Store) Block(ctx context.Context, username, reason string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blocklist (username, reason, blocked_at) VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET reason = excluded.reason, blocked_at = excluded.blocked_at`,
		username, reason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("blocking user: %w", err)
	}
	return nil
}

// Unblock removes a username from the blocklist.
func (s *Store) Unblock(ctx context.Context, username string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blocklist WHERE username = ?`, username); err != nil {
		return fmt.Errorf("unblocking user: %w", err)
	}
	return nil
}

// DeleteUserData removes all stored rows for a username.
func (s *Store) DeleteUserData(ctx context.Context, username string) error {
	for _, stmt := range []string{
		`DELETE FROM analyses WHERE username = ?`,
		`DELETE FROM profiles WHERE username = ?`,
	} {
		if _, err := s.db.ExecContext(ctx, stmt, username); err != nil {
			return fmt.Errorf("deleting user data: %w", err)
		}
	}
	return nil
}
