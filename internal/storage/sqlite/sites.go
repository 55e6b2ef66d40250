package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yegors/co-mag/internal/storage"
	"github.com/yegors/co-mag/pkg/logger"
	_ "modernc.org/sqlite"
)

// SiteStorage is a SQLite-based storage for survey sites
type SiteStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewSiteStorage creates a new SQLite-based site storage
func NewSiteStorage(dbPath string, log *logger.Logger) (*SiteStorage, error) {
	storageLogger := log.Named("sqlite")

	storageLogger.Info("Initializing SQLite storage",
		logger.String("path", dbPath))

	// Open the database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool limits
	db.SetMaxOpenConns(1) // SQLite only supports one writer at a time
	db.SetMaxIdleConns(1)

	// Set pragmas for better performance and concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Create tables if they don't exist
	if err := initDatabase(db, storageLogger); err != nil {
		db.Close()
		return nil, err
	}

	return &SiteStorage{
		db:     db,
		logger: storageLogger,
	}, nil
}

// Close closes the database connection
func (s *SiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// initDatabase initializes the database schema
func initDatabase(db *sql.DB, log *logger.Logger) error {
	log.Info("Initializing database schema")

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sites (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			elevation_ft REAL NOT NULL DEFAULT 0,
			notes TEXT,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create sites table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_sites_latlon ON sites(latitude, longitude)`)
	if err != nil {
		return fmt.Errorf("failed to create sites index: %w", err)
	}

	return nil
}

// Create inserts a new site. The name must be unused.
func (s *SiteStorage) Create(ctx context.Context, site *storage.Site) error {
	if err := site.Validate(); err != nil {
		return err
	}
	if site.CreatedAt.IsZero() {
		site.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sites WHERE name = ?`, site.Name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check site %s: %w", site.Name, err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", storage.ErrDuplicate, site.Name)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO sites (name, latitude, longitude, elevation_ft, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		site.Name,
		site.Latitude,
		site.Longitude,
		site.ElevationFt,
		site.Notes,
		site.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert site: %w", err)
	}

	// Get ID
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	site.ID = id

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit site: %w", err)
	}

	s.logger.Debug("Stored site",
		logger.String("name", site.Name),
		logger.Int64("id", id))
	return nil
}

// Get returns the site with the given name
func (s *SiteStorage) Get(ctx context.Context, name string) (*storage.Site, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, latitude, longitude, elevation_ft, notes, created_at
		FROM sites WHERE name = ?`, name)

	site, err := scanSite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return site, nil
}

// List returns sites in insertion order with pagination
func (s *SiteStorage) List(ctx context.Context, limit, offset int) ([]*storage.Site, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, latitude, longitude, elevation_ft, notes, created_at
		FROM sites
		ORDER BY id ASC
		LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	sites := make([]*storage.Site, 0)
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sites: %w", err)
	}
	return sites, nil
}

// Delete removes the site with the given name
func (s *SiteStorage) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sites WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	return nil
}

// Count returns the number of stored sites
func (s *SiteStorage) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sites`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sites: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSite(row scanner) (*storage.Site, error) {
	var site storage.Site
	var notes sql.NullString
	var createdAt string

	if err := row.Scan(
		&site.ID,
		&site.Name,
		&site.Latitude,
		&site.Longitude,
		&site.ElevationFt,
		&notes,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan site: %w", err)
	}

	// Parse created_at
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	site.CreatedAt = t

	// Handle nullable fields
	if notes.Valid {
		site.Notes = notes.String
	}
	return &site, nil
}
