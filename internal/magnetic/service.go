// Package magnetic combines the sampled tables with the reference model, the
// reference cache and the sites store behind one service used by the API,
// the WebSocket hub and the CLI.
package magnetic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yegors/co-mag/internal/cache"
	"github.com/yegors/co-mag/internal/magtable"
	"github.com/yegors/co-mag/internal/metrics"
	"github.com/yegors/co-mag/internal/physics"
	"github.com/yegors/co-mag/internal/storage"
	"github.com/yegors/co-mag/internal/validation"
	"github.com/yegors/co-mag/internal/websocket"
	"github.com/yegors/co-mag/pkg/logger"
)

// ErrInvalidCoordinate is returned for NaN or infinite coordinates
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Broadcaster publishes events to connected clients
type Broadcaster interface {
	Broadcast(message *websocket.Message)
}

// Options configures a Service
type Options struct {
	CacheResolutionDeg float64
}

// Service answers field queries
type Service struct {
	reference   validation.Reference
	cache       cache.Cache
	store       storage.Store
	broadcaster Broadcaster
	opts        Options
	logger      *logger.Logger
}

// NewService creates a new service. store and broadcaster may be nil.
func NewService(ref validation.Reference, c cache.Cache, store storage.Store, opts Options, log *logger.Logger) *Service {
	if ref == nil {
		ref = validation.WMM
	}
	return &Service{
		reference: ref,
		cache:     c,
		store:     store,
		opts:      opts,
		logger:    log.Named("magnetic"),
	}
}

// SetBroadcaster sets where site events are published
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CheckCoordinates rejects NaN and infinite inputs. Out-of-range finite values
// are accepted and normalized by the tables.
func CheckCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, lat)
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, lon)
	}
	return nil
}

// Value is a single quantity at a position
type Value struct {
	Quantity  string  `json:"quantity"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
}

// Lookup returns quantity q at a position, converted to units
// ("" keeps radians / milli-gauss)
func (s *Service) Lookup(q magtable.Quantity, lat, lon float64, units string) (*Value, error) {
	if err := CheckCoordinates(lat, lon); err != nil {
		return nil, err
	}
	metrics.LookupsTotal.WithLabelValues(q.String()).Inc()

	v, unit, err := ConvertUnits(q, magtable.Lookup(q, lat, lon), units)
	if err != nil {
		return nil, err
	}
	return &Value{
		Quantity:  q.String(),
		Latitude:  magtable.NormalizeLatitude(lat),
		Longitude: magtable.NormalizeLongitude(lon),
		Value:     v,
		Unit:      unit,
	}, nil
}

// ConvertUnits converts a native lookup result (radians or milli-gauss)
func ConvertUnits(q magtable.Quantity, v float64, units string) (float64, string, error) {
	units = strings.ToLower(strings.TrimSpace(units))
	if q == magtable.Strength {
		switch units {
		case "", "mg", "mgauss", "milligauss":
			return v, "mG", nil
		case "g", "gauss":
			return v * magtable.GaussPerMilliGauss, "G", nil
		case "t", "tesla":
			return v * magtable.GaussPerMilliGauss * magtable.TeslaPerGauss, "T", nil
		case "nt", "nanotesla":
			return v * magtable.GaussPerMilliGauss * magtable.NanoTeslaPerGauss, "nT", nil
		}
		return 0, "", fmt.Errorf("unsupported units %q for strength", units)
	}
	switch units {
	case "", "rad", "radians":
		return v, "rad", nil
	case "deg", "degrees":
		return v * 180 / math.Pi, "deg", nil
	}
	return 0, "", fmt.Errorf("unsupported units %q for %s", units, q)
}

// Field returns every quantity at a position
func (s *Service) Field(lat, lon float64) (*magtable.Field, error) {
	if err := CheckCoordinates(lat, lon); err != nil {
		return nil, err
	}
	for _, q := range magtable.Quantities {
		metrics.LookupsTotal.WithLabelValues(q.String()).Inc()
	}
	f := magtable.FieldAt(lat, lon)
	return &f, nil
}

// Point is a batch query position
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// BatchField returns the field at every point, failing on the first invalid one
func (s *Service) BatchField(points []Point) ([]magtable.Field, error) {
	out := make([]magtable.Field, 0, len(points))
	for i, p := range points {
		f, err := s.Field(p.Latitude, p.Longitude)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		out = append(out, *f)
	}
	return out, nil
}

// Grid is a raw table with its axes
type Grid struct {
	Quantity   string                                  `json:"quantity"`
	Model      string                                  `json:"model"`
	Version    string                                  `json:"version"`
	Epoch      float64                                 `json:"epoch"`
	Unit       string                                  `json:"unit"`
	Scale      float64                                 `json:"scale"`
	Latitudes  []float64                               `json:"latitudes"`
	Longitudes []float64                               `json:"longitudes"`
	Values     [magtable.LatDim][magtable.LonDim]int16 `json:"values"`
}

// Grid returns the stored table for q
func (s *Service) Grid(q magtable.Quantity) *Grid {
	g := &Grid{
		Quantity: q.String(),
		Model:    magtable.ModelName,
		Version:  magtable.ModelVersion,
		Epoch:    magtable.ModelEpoch,
		Unit:     q.Unit(),
		Scale:    q.Scale(),
		Values:   magtable.Table(q),
	}
	for i := 0; i < magtable.LatDim; i++ {
		lat, _ := magtable.NodeCoordinates(i, 0)
		g.Latitudes = append(g.Latitudes, lat)
	}
	for j := 0; j < magtable.LonDim; j++ {
		_, lon := magtable.NodeCoordinates(0, j)
		g.Longitudes = append(g.Longitudes, lon)
	}
	return g
}

// Comparison is the table against the full model at one point
type Comparison struct {
	Table      magtable.Field        `json:"table"`
	Reference  physics.MagneticField `json:"reference"`
	Difference validation.Difference `json:"difference"`
	Cached     bool                  `json:"cached"`
}

// Compare evaluates the reference model at a position and compares it with
// the tables. altFt < 0 is allowed; a zero date uses the table epoch. A cached
// result may come from a point within the cache resolution, in which case the
// table is sampled at that point.
func (s *Service) Compare(ctx context.Context, lat, lon, altFt float64, date time.Time) (*Comparison, error) {
	if err := CheckCoordinates(lat, lon); err != nil {
		return nil, err
	}
	lat = magtable.NormalizeLatitude(lat)
	lon = magtable.NormalizeLongitude(lon)
	if date.IsZero() {
		date = validation.EpochTime()
	}

	ref, cached, err := s.ReferenceField(ctx, lat, lon, altFt, date)
	if err != nil {
		return nil, err
	}
	return &Comparison{
		Table:      magtable.FieldAt(ref.Latitude, ref.Longitude),
		Reference:  ref,
		Difference: validation.Compare(ref),
		Cached:     cached,
	}, nil
}

// ReferenceField evaluates the reference model, consulting the cache first
func (s *Service) ReferenceField(ctx context.Context, lat, lon, altFt float64, date time.Time) (physics.MagneticField, bool, error) {
	var key string
	if s.cache != nil {
		key = cache.Key(lat, lon, altFt, date, s.opts.CacheResolutionDeg)
		field, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Reference cache read failed", logger.String("key", key), logger.Error(err))
		}
		if ok {
			metrics.CacheHitsTotal.Inc()
			return field, true, nil
		}
		metrics.CacheMissesTotal.Inc()
	}

	start := time.Now()
	field, err := s.reference.Field(lat, lon, altFt, date)
	metrics.ReferenceDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		return physics.MagneticField{}, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, field); err != nil {
			s.logger.Warn("Reference cache write failed", logger.String("key", key), logger.Error(err))
		}
	}
	return field, false, nil
}

// Validate sweeps the tables against the reference model through the cache
func (s *Service) Validate(ctx context.Context, opts validation.Options) (*validation.Report, error) {
	ref := validation.ReferenceFunc(func(lat, lon, altFt float64, date time.Time) (physics.MagneticField, error) {
		field, _, err := s.ReferenceField(ctx, lat, lon, altFt, date)
		return field, err
	})

	start := time.Now()
	report, err := validation.Sweep(ctx, ref, opts)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Validation sweep complete",
		logger.Int("points", report.Points),
		logger.Float64("step_deg", report.StepDeg),
		logger.Duration("elapsed", time.Since(start)))
	return report, nil
}

// CacheStats returns reference cache statistics, nil without a cache
func (s *Service) CacheStats() *cache.Stats {
	if s.cache == nil {
		return nil
	}
	st := s.cache.Stats()
	return &st
}

// Heading is a true/magnetic heading pair at a position
type Heading struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	DeclinationDeg float64 `json:"declination_deg"`
	TrueDeg        float64 `json:"true_deg"`
	MagneticDeg    float64 `json:"magnetic_deg"`
}

// TrueToMagnetic converts a true heading using the tabulated declination
func (s *Service) TrueToMagnetic(lat, lon, trueDeg float64) (*Heading, error) {
	if err := CheckCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if math.IsNaN(trueDeg) || math.IsInf(trueDeg, 0) {
		return nil, fmt.Errorf("invalid heading: %v", trueDeg)
	}
	dec := magtable.DeclinationDegrees(lat, lon)
	return &Heading{
		Latitude:       magtable.NormalizeLatitude(lat),
		Longitude:      magtable.NormalizeLongitude(lon),
		DeclinationDeg: dec,
		TrueDeg:        physics.NormalizeHeading(trueDeg),
		MagneticDeg:    physics.TrueToMagnetic(trueDeg, dec),
	}, nil
}

// MagneticToTrue converts a magnetic heading using the tabulated declination
func (s *Service) MagneticToTrue(lat, lon, magneticDeg float64) (*Heading, error) {
	if err := CheckCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if math.IsNaN(magneticDeg) || math.IsInf(magneticDeg, 0) {
		return nil, fmt.Errorf("invalid heading: %v", magneticDeg)
	}
	dec := magtable.DeclinationDegrees(lat, lon)
	return &Heading{
		Latitude:       magtable.NormalizeLatitude(lat),
		Longitude:      magtable.NormalizeLongitude(lon),
		DeclinationDeg: dec,
		TrueDeg:        physics.MagneticToTrue(magneticDeg, dec),
		MagneticDeg:    physics.NormalizeHeading(magneticDeg),
	}, nil
}
