// Package storage persists named survey sites.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a site does not exist
	ErrNotFound = errors.New("site not found")
	// ErrDuplicate is returned when creating a site whose name is taken
	ErrDuplicate = errors.New("site already exists")
	// ErrInvalidSite is returned when a site fails validation
	ErrInvalidSite = errors.New("invalid site")
)

// MaxNameLength bounds site names
const MaxNameLength = 64

// Site is a named position whose field is looked up on demand
type Site struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	ElevationFt float64   `json:"elevation_ft"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the site is storable. Coordinates must already be in range;
// sites are not silently clamped or wrapped.
func (s *Site) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return fmt.Errorf("%w: site name is required", ErrInvalidSite)
	}
	if len(s.Name) > MaxNameLength {
		return fmt.Errorf("%w: site name longer than %d characters", ErrInvalidSite, MaxNameLength)
	}
	if strings.ContainsAny(s.Name, "/?#") {
		return fmt.Errorf("%w: site name contains reserved characters", ErrInvalidSite)
	}
	for _, v := range []float64{s.Latitude, s.Longitude, s.ElevationFt} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: site coordinates must be finite", ErrInvalidSite)
		}
	}
	if s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("%w: latitude out of range: %v", ErrInvalidSite, s.Latitude)
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return fmt.Errorf("%w: longitude out of range: %v", ErrInvalidSite, s.Longitude)
	}
	return nil
}

// Store persists sites
type Store interface {
	Create(ctx context.Context, site *Site) error
	Get(ctx context.Context, name string) (*Site, error)
	List(ctx context.Context, limit, offset int) ([]*Site, error)
	Delete(ctx context.Context, name string) error
	Count(ctx context.Context) (int, error)
	Close() error
}
