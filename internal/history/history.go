// Package history persists completed interpretation exchanges so the user
// can review past conversations.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/petrokh/tolmach/internal"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exchanges (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		service TEXT NOT NULL,
		latency_ms INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_exchanges_created ON exchanges(created_at);
	CREATE INDEX IF NOT EXISTS idx_exchanges_pair ON exchanges(source_lang, target_lang);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save persists one completed exchange.
func (s *Store) Save(ctx context.Context, ex internal.Exchange) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchanges (id, source_text, source_lang, target_lang, translated_text, service, latency_ms, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.ID, ex.SourceText, ex.SourceLang, ex.TargetLang, ex.TranslatedText, ex.Service, ex.Latency.Milliseconds(), ex.Timestamp)
	return err
}

// List returns the most recent exchanges, newest first. limit ≤ 0 returns
// everything.
func (s *Store) List(ctx context.Context, limit int) ([]internal.Exchange, error) {
	query := `SELECT id, source_text, source_lang, target_lang, translated_text, service, latency_ms, created_at FROM exchanges ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []internal.Exchange
	for rows.Next() {
		var ex internal.Exchange
		var latencyMs int64
		if err := rows.Scan(&ex.ID, &ex.SourceText, &ex.SourceLang, &ex.TargetLang, &ex.TranslatedText, &ex.Service, &latencyMs, &ex.Timestamp); err != nil {
			return nil, err
		}
		ex.Latency = time.Duration(latencyMs) * time.Millisecond
		results = append(results, ex)
	}

	return results, rows.Err()
}

// Clear removes all exchanges and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM exchanges`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats summarises stored history.
type Stats struct {
	TotalExchanges int
	ServicesUsed   int
	OldestExchange time.Time
	NewestExchange time.Time
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT service) FROM exchanges`).Scan(
		&stats.TotalExchanges,
		&stats.ServicesUsed,
	)
	if err != nil {
		return nil, err
	}
	if stats.TotalExchanges == 0 {
		return stats, nil
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT created_at FROM exchanges ORDER BY created_at ASC LIMIT 1`).Scan(&stats.OldestExchange)
	if err != nil {
		return nil, err
	}
	err = s.db.QueryRowContext(ctx,
		`SELECT created_at FROM exchanges ORDER BY created_at DESC LIMIT 1`).Scan(&stats.NewestExchange)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
