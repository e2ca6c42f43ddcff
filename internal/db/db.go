package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import for side-effects only

	"autobro/dromru/internal/models"
)

// Connect opens a connection to the SQLite database and ensures the schema exists.
// The parent directory is created if needed.
func Connect(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}

	// Use robust connection settings to prevent "database locked" errors
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", dbPath)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

func createSchema(db *sql.DB) error {
	listingsTable := `
	CREATE TABLE IF NOT EXISTS listings (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  url TEXT UNIQUE NOT NULL,
	  make TEXT,
	  model TEXT,
	  year TEXT,
	  price INTEGER,
	  title TEXT,
	  image_url TEXT,
	  source TEXT,
	  first_seen_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	  last_seen_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	  is_active INTEGER DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_listings_is_active ON listings(is_active);
	`
	if _, err := db.Exec(listingsTable); err != nil {
		return err
	}

	historyTable := `
	CREATE TABLE IF NOT EXISTS query_history (
	  query_key TEXT PRIMARY KEY,
	  make TEXT,
	  model TEXT,
	  year TEXT,
	  min_price TEXT,
	  max_price TEXT,
	  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(historyTable); err != nil {
		return err
	}

	return nil
}

// SaveListings performs a batch UPSERT keyed on url.
// Saved listings are marked active and their last_seen_at is refreshed.
func SaveListings(db *sql.DB, items []models.Listing) (int64, error) {
	upsertSQL := `
	INSERT INTO listings (
	  url, make, model, year, price, title, image_url, source,
	  last_seen_at, is_active
	) VALUES (
	  ?, ?, ?, ?, ?, ?, ?, ?,
	  CURRENT_TIMESTAMP, 1
	) ON CONFLICT(url) DO UPDATE SET
	  make = excluded.make,
	  model = excluded.model,
	  year = excluded.year,
	  price = excluded.price,
	  title = excluded.title,
	  image_url = excluded.image_url,
	  source = excluded.source,
	  last_seen_at = CURRENT_TIMESTAMP,
	  is_active = 1;
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	var totalAffected int64
	for _, item := range items {
		res, err := stmt.ExecContext(ctx,
			item.URL,
			item.Make,
			item.Model,
			item.Year,
			item.Price,
			item.Title,
			sql.NullString{String: item.ImageURL, Valid: item.ImageURL != ""},
			item.Source,
		)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to upsert %s: %w", item.URL, err)
		}
		rows, _ := res.RowsAffected()
		totalAffected += rows
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}

	return totalAffected, nil
}

// GetActiveListings returns all active listings, newest first.
func GetActiveListings(db *sql.DB) ([]models.Listing, error) {
	rows, err := db.Query(`
		SELECT make, model, year, price, title, url, COALESCE(image_url, ''), source
		FROM listings
		WHERE is_active = 1
		ORDER BY last_seen_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Listing{}
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(&l.Make, &l.Model, &l.Year, &l.Price, &l.Title, &l.URL, &l.ImageURL, &l.Source); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

// --- Query history ---

// RecordQuery stores q in the history table. Repeated queries keep their
// original timestamp.
func RecordQuery(db *sql.DB, q models.ListingQuery) error {
	_, err := db.Exec(`
		INSERT OR IGNORE INTO query_history (query_key, make, model, year, min_price, max_price)
		VALUES (?, ?, ?, ?, ?, ?)`,
		q.Key(), q.Make, q.Model, q.Year, q.MinPrice, q.MaxPrice,
	)
	if err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}
	return nil
}

// ListQueryHistory returns all recorded queries, newest first.
func ListQueryHistory(db *sql.DB) ([]models.QueryRecord, error) {
	rows, err := db.Query(`
		SELECT query_key, make, model, year, min_price, max_price, created_at
		FROM query_history
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.QueryRecord
	for rows.Next() {
		var e models.QueryRecord
		q := &e.Query
		if err := rows.Scan(&e.Key, &q.Make, &q.Model, &q.Year, &q.MinPrice, &q.MaxPrice, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearQueryHistory removes a specific query from history.
func ClearQueryHistory(db *sql.DB, key string) (int64, error) {
	res, err := db.Exec("DELETE FROM query_history WHERE query_key = ?", key)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClearAllQueryHistory wipes the entire history.
func ClearAllQueryHistory(db *sql.DB) (int64, error) {
	res, err := db.Exec("DELETE FROM query_history")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
