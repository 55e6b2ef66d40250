package physics

import (
	"fmt"
	"math"
	"time"

	"github.com/westphae/geomag/pkg/egm96"
	"github.com/westphae/geomag/pkg/wmm"
)

// Constants
const (
	FeetToMeters      = 0.3048
	NanoTeslaPerGauss = 1e5
)

// MagneticField is the full-model WMM field at a position and date
type MagneticField struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	AltitudeFt     float64   `json:"altitude_ft"`
	Date           time.Time `json:"date"`
	DeclinationDeg float64   `json:"declination_deg"` // +East, -West
	InclinationDeg float64   `json:"inclination_deg"` // +Down
	HorizontalNT   float64   `json:"horizontal_nt"`
	TotalNT        float64   `json:"total_nt"`
}

// TotalMilliGauss returns the total intensity in milli-gauss
func (m MagneticField) TotalMilliGauss() float64 {
	return m.TotalNT / NanoTeslaPerGauss * 1000
}

// CalculateMagneticField evaluates the WMM spherical harmonic model for a given position and time
func CalculateMagneticField(lat, lon, altFt float64, date time.Time) (MagneticField, error) {
	// Convert altitude to meters for WMM
	altM := altFt * FeetToMeters

	// Create location from Geodetic coordinates
	loc := egm96.NewLocationGeodetic(lat, lon, altM)

	mag, err := wmm.CalculateWMMMagneticField(loc, date)
	if err != nil {
		return MagneticField{}, fmt.Errorf("wmm evaluation at %.4f,%.4f: %w", lat, lon, err)
	}

	return MagneticField{
		Latitude:       lat,
		Longitude:      lon,
		AltitudeFt:     altFt,
		Date:           date,
		DeclinationDeg: mag.D(),
		InclinationDeg: mag.I(),
		HorizontalNT:   mag.H(),
		TotalNT:        mag.F(),
	}, nil
}

// CalculateMagneticVariation calculates the magnetic declination for a given position and time
// Returns declination in degrees (+East, -West)
func CalculateMagneticVariation(lat, lon, altFt float64, date time.Time) float64 {
	field, err := CalculateMagneticField(lat, lon, altFt, date)
	if err != nil {
		// Return 0 for safety if calculation fails
		return 0.0
	}
	return field.DeclinationDeg
}

// ------------------------------------------------------------------------------------------------
// HEADINGS
// ------------------------------------------------------------------------------------------------

// NormalizeHeading maps any angle in degrees to [0, 360)
func NormalizeHeading(deg float64) float64 {
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h -= 360
	}
	return h
}

// TrueToMagnetic converts a true heading to magnetic given the variation (+East)
func TrueToMagnetic(trueDeg, variationDeg float64) float64 {
	return NormalizeHeading(trueDeg - variationDeg)
}

// MagneticToTrue converts a magnetic heading to true given the variation (+East)
func MagneticToTrue(magneticDeg, variationDeg float64) float64 {
	return NormalizeHeading(magneticDeg + variationDeg)
}

// Vector2D represents a 2D vector (magnitude, direction)
type Vector2D struct {
	X float64 `json:"x"` // East component
	Y float64 `json:"y"` // North component
}

// HeadingToVector converts a heading (degrees) and magnitude to X/Y components
func HeadingToVector(headingDeg float64, magnitude float64) Vector2D {
	rad := (90 - headingDeg) * math.Pi / 180 // Convert compass heading to math angle
	return Vector2D{
		X: magnitude * math.Cos(rad),
		Y: magnitude * math.Sin(rad),
	}
}

// VectorToHeading converts X/Y components back to a compass heading and magnitude
func VectorToHeading(v Vector2D) (headingDeg, magnitude float64) {
	magnitude = math.Sqrt(v.X*v.X + v.Y*v.Y)

	// math.Atan2 returns angle from X axis (East) in radians
	rad := math.Atan2(v.Y, v.X)

	// Compass = 90 - MathDegree
	return NormalizeHeading(90 - (rad * 180 / math.Pi)), magnitude
}
