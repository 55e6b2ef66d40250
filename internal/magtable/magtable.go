// Package magtable samples the WMM-2020 declination, inclination and field
// strength tables stored on a 10 degree latitude/longitude grid.
//
// Lookups blend the four surrounding grid nodes bilinearly. Latitude is
// clamped to [-90, 90] and longitude is wrapped into [-180, 180]. The
// longitude axis carries 37 samples so the +180 column duplicates -180 and
// the interpolation never needs modular index arithmetic.
//
// All functions are pure and safe for concurrent use.
package magtable

import (
	"fmt"
	"math"
)

// Grid geometry
const (
	SamplingRes = 10.0 // degrees between grid nodes

	MinLat = -90.0
	MaxLat = 90.0
	MinLon = -180.0
	MaxLon = 180.0

	LatDim = 19
	LonDim = 37
)

// Scale factors from stored counts to physical units
const (
	AngleScale    = 1e-4 // radians per count
	StrengthScale = 0.1  // milli-gauss per count
)

// Unit conversions
const (
	GaussPerMilliGauss = 1e-3
	TeslaPerGauss      = 1e-4
	NanoTeslaPerGauss  = 1e5
)

// Quantity selects one of the sampled tables
type Quantity int

const (
	Declination Quantity = iota
	Inclination
	Strength
)

// Quantities lists every sampled quantity in table order
var Quantities = []Quantity{Declination, Inclination, Strength}

func (q Quantity) String() string {
	switch q {
	case Declination:
		return "declination"
	case Inclination:
		return "inclination"
	case Strength:
		return "strength"
	}
	return fmt.Sprintf("quantity(%d)", int(q))
}

// Unit returns the physical unit Lookup reports for q
func (q Quantity) Unit() string {
	if q == Strength {
		return "mG"
	}
	return "rad"
}

// Scale returns the factor converting a stored count of q to physical units
func (q Quantity) Scale() float64 {
	if q == Strength {
		return StrengthScale
	}
	return AngleScale
}

// ParseQuantity maps a quantity name to its Quantity
func ParseQuantity(name string) (Quantity, error) {
	switch name {
	case "declination", "dec", "variation":
		return Declination, nil
	case "inclination", "inc", "dip":
		return Inclination, nil
	case "strength", "intensity", "total":
		return Strength, nil
	}
	return 0, fmt.Errorf("unknown quantity: %q", name)
}

func table(q Quantity) *[LatDim][LonDim]int16 {
	switch q {
	case Inclination:
		return &inclinationTable
	case Strength:
		return &strengthTable
	default:
		return &declinationTable
	}
}

// Lookup returns the bilinearly interpolated value of q at the given
// position: radians for angles, milli-gauss for strength.
//
// Declination is blended as a plain number. Near the magnetic poles a cell
// can hold nodes on both sides of the +/-pi jump, and the result there is
// their arithmetic blend, which may be far from either node.
func Lookup(q Quantity, latDeg, lonDeg float64) float64 {
	return interpolate(table(q), latDeg, lonDeg) * q.Scale()
}

// Node returns the stored count of q at grid indices (latIdx, lonIdx).
// Indices are clamped into the grid.
func Node(q Quantity, latIdx, lonIdx int) int16 {
	return table(q)[clampInt(latIdx, 0, LatDim-1)][clampInt(lonIdx, 0, LonDim-1)]
}

// NodeCoordinates returns the latitude and longitude of grid indices (latIdx, lonIdx)
func NodeCoordinates(latIdx, lonIdx int) (lat, lon float64) {
	return MinLat + float64(latIdx)*SamplingRes, MinLon + float64(lonIdx)*SamplingRes
}

// Nearest returns the physical value of q stored at the grid node closest to
// the given position, without interpolation.
func Nearest(q Quantity, latDeg, lonDeg float64) float64 {
	latF, lonF := fractionalIndex(latDeg, lonDeg)
	latIdx := clampInt(int(math.Floor(latF+0.5)), 0, LatDim-1)
	lonIdx := clampInt(int(math.Floor(lonF+0.5)), 0, LonDim-1)
	return float64(table(q)[latIdx][lonIdx]) * q.Scale()
}

// Table returns a copy of the stored counts of q
func Table(q Quantity) [LatDim][LonDim]int16 {
	return *table(q)
}

// NormalizeLatitude clamps lat into [-90, 90]
func NormalizeLatitude(lat float64) float64 {
	return math.Max(MinLat, math.Min(MaxLat, lat))
}

// NormalizeLongitude wraps lon into [-180, 180]. Values already in range,
// including both endpoints, are returned unchanged.
func NormalizeLongitude(lon float64) float64 {
	if lon >= MinLon && lon <= MaxLon {
		return lon
	}
	lon = math.Mod(lon-MinLon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon + MinLon
}

func fractionalIndex(latDeg, lonDeg float64) (latF, lonF float64) {
	latF = (NormalizeLatitude(latDeg) - MinLat) / SamplingRes
	lonF = (NormalizeLongitude(lonDeg) - MinLon) / SamplingRes
	return latF, lonF
}

func interpolate(t *[LatDim][LonDim]int16, latDeg, lonDeg float64) float64 {
	latF, lonF := fractionalIndex(latDeg, lonDeg)

	// lat0+1 and lon0+1 must stay in the grid
	lat0 := clampInt(int(math.Floor(latF)), 0, LatDim-2)
	lon0 := clampInt(int(math.Floor(lonF)), 0, LonDim-2)

	dLat := latF - float64(lat0)
	dLon := lonF - float64(lon0)

	v00 := float64(t[lat0][lon0])
	v01 := float64(t[lat0][lon0+1])
	v10 := float64(t[lat0+1][lon0])
	v11 := float64(t[lat0+1][lon0+1])

	// Same blend as v00(1-dLat)(1-dLon) + v01(1-dLat)dLon + v10 dLat(1-dLon) + v11 dLat dLon,
	// written as nested lerps so equal nodes reproduce their value exactly.
	south := lerp(v00, v01, dLon)
	north := lerp(v10, v11, dLon)
	return lerp(south, north, dLat)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
