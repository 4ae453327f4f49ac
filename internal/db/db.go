// Package db provides the result stores: PostgreSQL for the service and an
// embedded SQLite file for local runs.
package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/growth-compass/internal/types"
)

//go:embed schema.sql
var postgresSchema string

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool, now: time.Now}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the tables if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// GetProfileByEmail returns the profile for email, or nil, nil when absent.
func (db *DB) GetProfileByEmail(ctx context.Context, email string) (*types.Profile, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}

	var p types.Profile
	err := db.pool.QueryRow(ctx,
		`SELECT email, name, created_at FROM profiles WHERE email = $1`,
		email,
	).Scan(&p.Email, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile creates the profile or updates its name. An empty name keeps
// the stored one.
func (db *DB) UpsertProfile(ctx context.Context, email, name string) (*types.Profile, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("profile email is required")
	}

	var p types.Profile
	err := db.pool.QueryRow(ctx,
		`INSERT INTO profiles (email, name, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE
		 SET name = CASE WHEN EXCLUDED.name = '' THEN profiles.name ELSE EXCLUDED.name END
		 RETURNING email, name, created_at`,
		email, name, db.now().UTC(),
	).Scan(&p.Email, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return &p, nil
}

// ListAssessmentResults returns every result for email, oldest first.
func (db *DB) ListAssessmentResults(ctx context.Context, email string) ([]types.AssessmentResult, error) {
	email = NormalizeEmail(email)
	results := []types.AssessmentResult{}
	if email == "" {
		return results, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, email, assessment_type, insights, responses, created_at
		 FROM assessment_results WHERE email = $1
		 ORDER BY created_at ASC, id ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r types.AssessmentResult
		var insights, responses []byte
		if err := rows.Scan(&r.ID, &r.Email, &r.AssessmentType, &insights, &responses, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assessment result: %w", err)
		}
		r.Insights = decodeObject(insights)
		r.Responses = decodeObject(responses)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list assessment results: %w", err)
	}
	return results, nil
}

// SaveAssessmentResult writes r with canonical field names and returns the
// stored record.
func (db *DB) SaveAssessmentResult(ctx context.Context, r types.AssessmentResult) (*types.AssessmentResult, error) {
	enc, err := prepareResult(r, db.now())
	if err != nil {
		return nil, err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO assessment_results (id, email, assessment_type, insights, responses, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		enc.result.ID, enc.result.Email, enc.result.AssessmentType, enc.insights, enc.responses, enc.result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save assessment result: %w", err)
	}
	return &enc.result, nil
}
