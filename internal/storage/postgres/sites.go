// Package postgres stores sites in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/yegors/co-mag/internal/storage"
	"github.com/yegors/co-mag/pkg/logger"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

// SiteStorage is a PostgreSQL-based storage for survey sites
type SiteStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewSiteStorage opens dsn and ensures the schema exists
func NewSiteStorage(ctx context.Context, dsn string, log *logger.Logger) (*SiteStorage, error) {
	storageLogger := log.Named("postgres")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	s := &SiteStorage{db: db, logger: storageLogger}
	if err := s.initDatabase(ctx); err != nil {
		db.Close()
		return nil, err
	}

	storageLogger.Info("PostgreSQL storage ready")
	return s, nil
}

// Close closes the database connection
func (s *SiteStorage) Close() error {
	return s.db.Close()
}

func (s *SiteStorage) initDatabase(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sites (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			elevation_ft DOUBLE PRECISION NOT NULL DEFAULT 0,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create sites table: %w", err)
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

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO sites (name, latitude, longitude, elevation_ft, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		site.Name, site.Latitude, site.Longitude, site.ElevationFt, site.Notes, site.CreatedAt,
	).Scan(&site.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", storage.ErrDuplicate, site.Name)
		}
		return fmt.Errorf("failed to insert site: %w", err)
	}
	return nil
}

// Get returns the site with the given name
func (s *SiteStorage) Get(ctx context.Context, name string) (*storage.Site, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, latitude, longitude, elevation_ft, notes, created_at
		FROM sites WHERE name = $1`, name)

	site, err := scanSite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	return site, err
}

// List returns sites in insertion order with pagination
func (s *SiteStorage) List(ctx context.Context, limit, offset int) ([]*storage.Site, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, latitude, longitude, elevation_ft, notes, created_at
		FROM sites ORDER BY id ASC LIMIT $1 OFFSET $2`, limit, offset)
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
	result, err := s.db.ExecContext(ctx, `DELETE FROM sites WHERE name = $1`, name)
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
	if err := row.Scan(&site.ID, &site.Name, &site.Latitude, &site.Longitude, &site.ElevationFt, &notes, &site.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan site: %w", err)
	}
	site.Notes = notes.String
	site.CreatedAt = site.CreatedAt.UTC()
	return &site, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
