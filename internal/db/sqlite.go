package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/growth-compass/internal/types"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// SQLiteStore is a file-backed result store. Timestamps are stored as
// RFC 3339 text with nanoseconds so lexical order is time order.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes writes.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetProfileByEmail returns the profile for email, or nil, nil when absent.
func (s *SQLiteStore) GetProfileByEmail(ctx context.Context, email string) (*types.Profile, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}

	var p types.Profile
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT email, name, created_at FROM profiles WHERE email = ?`,
		email,
	).Scan(&p.Email, &p.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile creates the profile or updates its name. An empty name keeps
// the stored one.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, email, name string) (*types.Profile, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("profile email is required")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (email, name, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (email) DO UPDATE
		 SET name = CASE WHEN excluded.name = '' THEN profiles.name ELSE excluded.name END`,
		email, name, formatTime(s.now()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return s.GetProfileByEmail(ctx, email)
}

// ListAssessmentResults returns every result for email, oldest first.
func (s *SQLiteStore) ListAssessmentResults(ctx context.Context, email string) ([]types.AssessmentResult, error) {
	email = NormalizeEmail(email)
	results := []types.AssessmentResult{}
	if email == "" {
		return results, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, assessment_type, insights, responses, created_at
		 FROM assessment_results WHERE email = ?
		 ORDER BY created_at ASC, id ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r types.AssessmentResult
		var id, insights, responses, createdAt string
		if err := rows.Scan(&id, &r.Email, &r.AssessmentType, &insights, &responses, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan assessment result: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid assessment result id %q: %w", id, err)
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		r.Insights = decodeObject([]byte(insights))
		r.Responses = decodeObject([]byte(responses))
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list assessment results: %w", err)
	}
	return results, nil
}

// SaveAssessmentResult writes r with canonical field names and returns the
// stored record.
func (s *SQLiteStore) SaveAssessmentResult(ctx context.Context, r types.AssessmentResult) (*types.AssessmentResult, error) {
	enc, err := prepareResult(r, s.now())
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assessment_results (id, email, assessment_type, insights, responses, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		enc.result.ID.String(), enc.result.Email, enc.result.AssessmentType,
		string(enc.insights), string(enc.responses), formatTime(enc.result.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save assessment result: %w", err)
	}
	return &enc.result, nil
}

// sqliteTimeLayout is fixed-width so text comparison matches time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
