package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dbklik/recapdash/internal/domain"
)

// Store persists ingested snapshots and match runs in SQLite.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS listings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	raw_name TEXT NOT NULL,
	normalized_name TEXT NOT NULL,
	brand TEXT NOT NULL,
	price INTEGER NOT NULL,
	units_sold INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	store TEXT NOT NULL,
	snapshot_date TIMESTAMP NOT NULL,
	sku TEXT,
	category TEXT
);
CREATE TABLE IF NOT EXISTS catalog_entries (
	sku TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	normalized_name TEXT NOT NULL,
	brand TEXT NOT NULL,
	category TEXT,
	latest_cost INTEGER,
	average_cost INTEGER
);
CREATE TABLE IF NOT EXISTS match_runs (
	id TEXT PRIMARY KEY,
	mode TEXT NOT NULL,
	query_sku TEXT,
	cutoff REAL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS match_rows (
	run_id TEXT NOT NULL REFERENCES match_runs(id),
	position INTEGER NOT NULL,
	listed_name TEXT NOT NULL,
	store TEXT NOT NULL,
	price INTEGER NOT NULL,
	status TEXT NOT NULL,
	score_percent INTEGER NOT NULL,
	price_delta INTEGER NOT NULL,
	band TEXT NOT NULL,
	is_self INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, position)
);
CREATE INDEX IF NOT EXISTS idx_listings_store ON listings(store);
CREATE INDEX IF NOT EXISTS idx_listings_brand ON listings(brand);
`

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot replaces the stored listings and catalog wholesale with
// the given snapshot. Snapshots supersede each other; there is no
// incremental update.
func (s *Store) SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM listings`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_entries`); err != nil {
		return err
	}

	insertListing, err := tx.PrepareContext(ctx, `
		INSERT INTO listings (raw_name, normalized_name, brand, price, units_sold, status, store, snapshot_date, sku, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertListing.Close()

	for _, l := range snap.Listings {
		if _, err := insertListing.ExecContext(ctx,
			l.RawName, l.NormalizedName, l.Brand, l.Price, l.UnitsSold,
			string(l.Status), l.Store, l.SnapshotDate, l.SKU, l.Category,
		); err != nil {
			return fmt.Errorf("insert listing %q: %w", l.RawName, err)
		}
	}

	insertEntry, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO catalog_entries (sku, name, normalized_name, brand, category, latest_cost, average_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertEntry.Close()

	for _, e := range snap.Catalog {
		if _, err := insertEntry.ExecContext(ctx,
			e.SKU, e.Name, e.NormalizedName, e.Brand, e.Category, e.LatestCost, e.AverageCost,
		); err != nil {
			return fmt.Errorf("insert catalog entry %q: %w", e.SKU, err)
		}
	}

	return tx.Commit()
}

// LoadSnapshot reads back the stored listings and catalog, or
// ErrSnapshotMissing when no snapshot has been archived yet.
func (s *Store) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{LoadedAt: time.Now()}

	rows, err := s.db.QueryContext(ctx, `
		SELECT raw_name, normalized_name, brand, price, units_sold, status, store, snapshot_date, COALESCE(sku, ''), COALESCE(category, '')
		FROM listings ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.ProductListing
		var status string
		if err := rows.Scan(&l.RawName, &l.NormalizedName, &l.Brand, &l.Price, &l.UnitsSold,
			&status, &l.Store, &l.SnapshotDate, &l.SKU, &l.Category); err != nil {
			return nil, err
		}
		l.Status = domain.StockStatus(status)
		snap.Listings = append(snap.Listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(snap.Listings) == 0 {
		return nil, domain.ErrSnapshotMissing
	}

	entries, err := s.db.QueryContext(ctx, `
		SELECT sku, name, normalized_name, brand, COALESCE(category, ''), COALESCE(latest_cost, 0), COALESCE(average_cost, 0)
		FROM catalog_entries ORDER BY sku`)
	if err != nil {
		return nil, err
	}
	defer entries.Close()

	for entries.Next() {
		var e domain.MasterCatalogEntry
		if err := entries.Scan(&e.SKU, &e.Name, &e.NormalizedName, &e.Brand,
			&e.Category, &e.LatestCost, &e.AverageCost); err != nil {
			return nil, err
		}
		snap.Catalog = append(snap.Catalog, e)
	}
	return snap, entries.Err()
}

// SaveRun persists one match run and its result rows.
func (s *Store) SaveRun(ctx context.Context, run *domain.MatchRun) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO match_runs (id, mode, query_sku, cutoff, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Mode, run.QuerySKU, run.Cutoff, time.Now(),
	); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for i, row := range run.Rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO match_rows (run_id, position, listed_name, store, price, status, score_percent, price_delta, band, is_self)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, row.ListedName, row.Store, row.Price, string(row.Status),
			row.ScorePercent, row.PriceDelta, string(row.Band), row.IsSelf,
		); err != nil {
			return fmt.Errorf("insert match row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetRun loads a match run with its rows, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*domain.MatchRun, error) {
	run := &domain.MatchRun{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT mode, COALESCE(query_sku, ''), COALESCE(cutoff, 0) FROM match_runs WHERE id = ?`, id,
	).Scan(&run.Mode, &run.QuerySKU, &run.Cutoff)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT listed_name, store, price, status, score_percent, price_delta, band, is_self
		FROM match_rows WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row domain.ComparisonRow
		var status, band string
		if err := rows.Scan(&row.ListedName, &row.Store, &row.Price, &status,
			&row.ScorePercent, &row.PriceDelta, &band, &row.IsSelf); err != nil {
			return nil, err
		}
		row.Status = domain.StockStatus(status)
		row.Band = domain.PriceBand(band)
		run.Rows = append(run.Rows, row)
	}
	return run, rows.Err()
}

// CountListings reports how many listings the store currently holds.
func (s *Store) CountListings(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&n)
	return n, err
}
