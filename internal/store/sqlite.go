// Package store provides the SQLite candle cache backing the caching
// price-series provider.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"techscan/internal/models"
)

// CandleStore persists fetched price series keyed by symbol and timeframe.
type CandleStore struct {
	db *sql.DB
}

// NewCandleStore opens (or creates) the cache database at dbPath.
func NewCandleStore(dbPath string) (*CandleStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &CandleStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *CandleStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS candles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		UNIQUE(symbol, timeframe, timestamp)
	);

	CREATE INDEX IF NOT EXISTS idx_candles_lookup
		ON candles(symbol, timeframe, timestamp);

	CREATE TABLE IF NOT EXISTS fetches (
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		fetched_at DATETIME NOT NULL,
		bar_count INTEGER NOT NULL,
		PRIMARY KEY (symbol, timeframe)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveSeries replaces the cached series for the symbol/timeframe pair and
// records the fetch time.
func (s *CandleStore) SaveSeries(ctx context.Context, symbol string, tf models.Timeframe, candles []models.Candle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM candles WHERE symbol = ? AND timeframe = ?`,
		symbol, tf); err != nil {
		return fmt.Errorf("failed to clear series: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candles (symbol, timeframe, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.ExecContext(ctx, symbol, tf,
			c.Timestamp.UTC(), c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			return fmt.Errorf("failed to insert candle: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO fetches (symbol, timeframe, fetched_at, bar_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol, timeframe) DO UPDATE SET
			fetched_at = excluded.fetched_at,
			bar_count = excluded.bar_count`,
		symbol, tf, time.Now().UTC(), len(candles)); err != nil {
		return fmt.Errorf("failed to record fetch: %w", err)
	}

	return tx.Commit()
}

// LoadSeries returns the cached series in ascending timestamp order, or nil
// if nothing is cached for the pair.
func (s *CandleStore) LoadSeries(ctx context.Context, symbol string, tf models.Timeframe) ([]models.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume
		FROM candles
		WHERE symbol = ? AND timeframe = ?
		ORDER BY timestamp ASC`,
		symbol, tf)
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer rows.Close()

	var candles []models.Candle
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		candles = append(candles, c)
	}
	return candles, rows.Err()
}

// FetchedAt returns when the series was last fetched, or the zero time if it
// never was.
func (s *CandleStore) FetchedAt(ctx context.Context, symbol string, tf models.Timeframe) (time.Time, error) {
	var fetchedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM fetches WHERE symbol = ? AND timeframe = ?`,
		symbol, tf).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query fetch time: %w", err)
	}
	return fetchedAt, nil
}

// Close closes the underlying database.
func (s *CandleStore) Close() error {
	return s.db.Close()
}
