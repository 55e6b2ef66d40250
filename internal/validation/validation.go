// Package validation compares the sampled tables against a full reference model.
package validation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/yegors/co-mag/internal/magtable"
	"github.com/yegors/co-mag/internal/physics"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reference evaluates the magnetic field at a position and date
type Reference interface {
	Field(lat, lon, altFt float64, date time.Time) (physics.MagneticField, error)
}

// ReferenceFunc adapts a function to Reference
type ReferenceFunc func(lat, lon, altFt float64, date time.Time) (physics.MagneticField, error)

// Field calls f
func (f ReferenceFunc) Field(lat, lon, altFt float64, date time.Time) (physics.MagneticField, error) {
	return f(lat, lon, altFt, date)
}

// WMM is the spherical harmonic WMM reference
var WMM Reference = ReferenceFunc(physics.CalculateMagneticField)

// Options controls a sweep
type Options struct {
	StepDeg    float64   // spacing of sample points
	MaxAbsLat  float64   // points poleward of this are skipped
	AltitudeFt float64   // altitude passed to the reference
	Date       time.Time // reference epoch, defaults to the table epoch
}

// DefaultOptions returns a 5 degree sweep up to 80 degrees latitude at the table epoch
func DefaultOptions() Options {
	return Options{
		StepDeg:   5,
		MaxAbsLat: 80,
		Date:      EpochTime(),
	}
}

// EpochTime returns the table epoch as a UTC time
func EpochTime() time.Time {
	year := math.Floor(magtable.ModelEpoch)
	start := time.Date(int(year), 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	frac := magtable.ModelEpoch - year
	return start.Add(time.Duration(frac * float64(end.Sub(start))))
}

// Stats summarizes table-minus-reference errors for one quantity.
// Declination errors include cells near the magnetic poles where the tables
// blend across the +/-180 degree jump; MaxAbs there approaches 180 and
// dominates RMS, so it measures the blend, not the stored samples.
type Stats struct {
	Quantity string  `json:"quantity"`
	Unit     string  `json:"unit"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	RMS      float64 `json:"rms"`
	MaxAbs   float64 `json:"max_abs"`
	WorstLat float64 `json:"worst_lat"`
	WorstLon float64 `json:"worst_lon"`
}

// Report is the result of a sweep. See Stats for how the pole-region
// declination blend skews the declination summary.
type Report struct {
	Date       time.Time `json:"date"`
	StepDeg    float64   `json:"step_deg"`
	MaxAbsLat  float64   `json:"max_abs_lat"`
	AltitudeFt float64   `json:"altitude_ft"`
	Points     int       `json:"points"`
	Stats      []Stats   `json:"stats"`
}

// Difference is the table-minus-reference error at one point
type Difference struct {
	DeclinationDeg float64 `json:"declination_deg"`
	InclinationDeg float64 `json:"inclination_deg"`
	StrengthMGauss float64 `json:"strength_mgauss"`
}

// Compare returns the error of the interpolated table against a reference field
func Compare(ref physics.MagneticField) Difference {
	f := magtable.FieldAt(ref.Latitude, ref.Longitude)
	return Difference{
		DeclinationDeg: angleDiff(f.DeclinationDeg, ref.DeclinationDeg),
		InclinationDeg: f.InclinationDeg - ref.InclinationDeg,
		StrengthMGauss: f.StrengthMilliGauss - ref.TotalMilliGauss(),
	}
}

// Sweep samples the grid described by opts and compares each point against ref
func Sweep(ctx context.Context, ref Reference, opts Options) (*Report, error) {
	if opts.StepDeg <= 0 {
		return nil, fmt.Errorf("step must be positive: %v", opts.StepDeg)
	}
	if opts.MaxAbsLat <= 0 || opts.MaxAbsLat > magtable.MaxLat {
		opts.MaxAbsLat = magtable.MaxLat
	}
	if opts.Date.IsZero() {
		opts.Date = EpochTime()
	}

	var lats, lons []float64
	var dec, inc, str []float64

	for lat := -opts.MaxAbsLat; lat <= opts.MaxAbsLat; lat += opts.StepDeg {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for lon := magtable.MinLon; lon < magtable.MaxLon; lon += opts.StepDeg {
			field, err := ref.Field(lat, lon, opts.AltitudeFt, opts.Date)
			if err != nil {
				return nil, fmt.Errorf("reference at %.2f,%.2f: %w", lat, lon, err)
			}
			d := Compare(field)
			lats = append(lats, lat)
			lons = append(lons, lon)
			dec = append(dec, d.DeclinationDeg)
			inc = append(inc, d.InclinationDeg)
			str = append(str, d.StrengthMGauss)
		}
	}

	if len(dec) == 0 {
		return nil, fmt.Errorf("sweep produced no points")
	}

	return &Report{
		Date:       opts.Date,
		StepDeg:    opts.StepDeg,
		MaxAbsLat:  opts.MaxAbsLat,
		AltitudeFt: opts.AltitudeFt,
		Points:     len(dec),
		Stats: []Stats{
			summarize(magtable.Declination.String(), "deg", dec, lats, lons),
			summarize(magtable.Inclination.String(), "deg", inc, lats, lons),
			summarize(magtable.Strength.String(), "mG", str, lats, lons),
		},
	}, nil
}

func summarize(name, unit string, errs, lats, lons []float64) Stats {
	mean, std := stat.MeanStdDev(errs, nil)
	if len(errs) < 2 {
		std = 0
	}

	abs := make([]float64, len(errs))
	for i, e := range errs {
		abs[i] = math.Abs(e)
	}
	worst := floats.MaxIdx(abs)

	return Stats{
		Quantity: name,
		Unit:     unit,
		Count:    len(errs),
		Mean:     mean,
		StdDev:   std,
		RMS:      math.Sqrt(floats.Dot(errs, errs) / float64(len(errs))),
		MaxAbs:   abs[worst],
		WorstLat: lats[worst],
		WorstLon: lons[worst],
	}
}

// angleDiff returns a-b wrapped into [-180, 180)
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}
