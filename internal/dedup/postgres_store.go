package dedup

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore keeps the history in a two-column table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the connection and creates the table if needed.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS sent_matches (
		match_key VARCHAR(64) PRIMARY KEY,
		last_sent_at DOUBLE PRECISION NOT NULL
	);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *PostgresStore) Name() string { return "postgres:sent_matches" }

func (s *PostgresStore) Load(ctx context.Context) (History, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT match_key, last_sent_at FROM sent_matches`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	h := History{}
	for rows.Next() {
		var (
			key string
			ts  float64
		)
		if err := rows.Scan(&key, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		h[key] = ts
	}
	return h, rows.Err()
}

// Save rewrites the table inside one transaction.
func (s *PostgresStore) Save(ctx context.Context, h History) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sent_matches`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sent_matches (match_key, last_sent_at) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()
	for key, ts := range h {
		if _, err := stmt.ExecContext(ctx, key, ts); err != nil {
			return fmt.Errorf("failed to insert history row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sent_matches`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
