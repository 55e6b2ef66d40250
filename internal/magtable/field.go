package magtable

import "math"

// DeclinationRadians returns the interpolated declination, positive east
func DeclinationRadians(lat, lon float64) float64 {
	return Lookup(Declination, lat, lon)
}

// DeclinationDegrees returns the interpolated declination in degrees, positive east
func DeclinationDegrees(lat, lon float64) float64 {
	return degrees(DeclinationRadians(lat, lon))
}

// InclinationRadians returns the interpolated inclination, positive down
func InclinationRadians(lat, lon float64) float64 {
	return Lookup(Inclination, lat, lon)
}

// InclinationDegrees returns the interpolated inclination in degrees, positive down
func InclinationDegrees(lat, lon float64) float64 {
	return degrees(InclinationRadians(lat, lon))
}

// StrengthMilliGauss returns the interpolated total field strength
func StrengthMilliGauss(lat, lon float64) float64 {
	return Lookup(Strength, lat, lon)
}

// StrengthGauss returns the interpolated total field strength in gauss
func StrengthGauss(lat, lon float64) float64 {
	return StrengthMilliGauss(lat, lon) * GaussPerMilliGauss
}

// StrengthTesla returns the interpolated total field strength in tesla
func StrengthTesla(lat, lon float64) float64 {
	return StrengthGauss(lat, lon) * TeslaPerGauss
}

// Vector is a magnetic field vector in the local North-East-Down frame, in gauss
type Vector struct {
	North float64 `json:"north"`
	East  float64 `json:"east"`
	Down  float64 `json:"down"`
}

// Horizontal returns the magnitude of the horizontal component
func (v Vector) Horizontal() float64 {
	return math.Hypot(v.North, v.East)
}

// Norm returns the total magnitude
func (v Vector) Norm() float64 {
	return math.Sqrt(v.North*v.North + v.East*v.East + v.Down*v.Down)
}

// Field is the complete interpolated field at a position
type Field struct {
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	DeclinationRad     float64 `json:"declination_rad"`
	DeclinationDeg     float64 `json:"declination_deg"`
	InclinationRad     float64 `json:"inclination_rad"`
	InclinationDeg     float64 `json:"inclination_deg"`
	StrengthMilliGauss float64 `json:"strength_mgauss"`
	StrengthGauss      float64 `json:"strength_gauss"`
	Vector             Vector  `json:"vector_gauss"`
}

// FieldAt interpolates all three tables at the given position. The reported
// coordinates are the normalized ones the tables were sampled at.
func FieldAt(lat, lon float64) Field {
	lat = NormalizeLatitude(lat)
	lon = NormalizeLongitude(lon)

	dec := DeclinationRadians(lat, lon)
	inc := InclinationRadians(lat, lon)
	mg := StrengthMilliGauss(lat, lon)
	g := mg * GaussPerMilliGauss

	return Field{
		Latitude:           lat,
		Longitude:          lon,
		DeclinationRad:     dec,
		DeclinationDeg:     degrees(dec),
		InclinationRad:     inc,
		InclinationDeg:     degrees(inc),
		StrengthMilliGauss: mg,
		StrengthGauss:      g,
		Vector:             VectorFrom(dec, inc, g),
	}
}

// VectorFrom builds the NED field vector from declination and inclination
// (radians) and total strength.
func VectorFrom(declination, inclination, strength float64) Vector {
	h := strength * math.Cos(inclination)
	return Vector{
		North: h * math.Cos(declination),
		East:  h * math.Sin(declination),
		Down:  strength * math.Sin(inclination),
	}
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
