// Package cache stores full-model reference results keyed by a quantised position and date.
package cache

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/yegors/co-mag/internal/physics"
)

// Cache stores reference results
type Cache interface {
	Get(ctx context.Context, key string) (physics.MagneticField, bool, error)
	Set(ctx context.Context, key string, field physics.MagneticField) error
	Stats() Stats
	Close() error
}

// Stats reports cache effectiveness
type Stats struct {
	Backend string `json:"backend"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Size    int    `json:"size"`
}

// Key builds a cache key with lat/lon rounded to resolution degrees,
// altitude rounded to the foot and the date truncated to the day
func Key(lat, lon, altFt float64, date time.Time, resolution float64) string {
	if resolution <= 0 {
		resolution = 0.01
	}
	qLat := quantise(lat, resolution)
	qLon := quantise(lon, resolution)
	return fmt.Sprintf("%.4f:%.4f:%d:%s", qLat, qLon, int64(math.Round(altFt)), date.UTC().Format("2006-01-02"))
}

// quantise rounds v to a multiple of step. Negative zero becomes zero so
// both sides of the origin share a key.
func quantise(v, step float64) float64 {
	q := math.Round(v/step) * step
	if q == 0 {
		return 0
	}
	return q
}

// counters tracks hits and misses for a backend
type counters struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (c *counters) record(hit bool) {
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
}
