package physics

import (
	"math"
	"testing"
	"time"
)

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{-10, 350},
		{725, 5},
		{-720, 0},
	}
	for _, tc := range tests {
		if got := NormalizeHeading(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("NormalizeHeading(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestHeadingConversions(t *testing.T) {
	tests := []struct {
		name         string
		trueHdg      float64
		variation    float64
		wantMagnetic float64
	}{
		{"east variation", 90, 10, 80},
		{"west variation", 90, -10, 100},
		{"wraps below north", 5, 12, 353},
		{"wraps above north", 355, -12, 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mag := TrueToMagnetic(tc.trueHdg, tc.variation)
			if math.Abs(mag-tc.wantMagnetic) > 1e-9 {
				t.Errorf("TrueToMagnetic(%v, %v) = %v, want %v", tc.trueHdg, tc.variation, mag, tc.wantMagnetic)
			}
			back := MagneticToTrue(mag, tc.variation)
			if math.Abs(back-tc.trueHdg) > 1e-9 {
				t.Errorf("MagneticToTrue(%v, %v) = %v, want %v", mag, tc.variation, back, tc.trueHdg)
			}
		})
	}
}

func TestHeadingVectorRoundTrip(t *testing.T) {
	for hdg := 0.0; hdg < 360; hdg += 15 {
		v := HeadingToVector(hdg, 120)
		gotHdg, gotMag := VectorToHeading(v)
		if math.Abs(gotMag-120) > 1e-9 {
			t.Errorf("magnitude for heading %v = %v, want 120", hdg, gotMag)
		}
		diff := math.Abs(gotHdg - hdg)
		if diff > 180 {
			diff = 360 - diff
		}
		if diff > 1e-9 {
			t.Errorf("VectorToHeading(HeadingToVector(%v)) = %v", hdg, gotHdg)
		}
	}
}

func TestCalculateMagneticFieldToronto(t *testing.T) {
	date := time.Date(2021, 4, 22, 0, 0, 0, 0, time.UTC)
	field, err := CalculateMagneticField(43.6777, -79.6248, 569, date)
	if err != nil {
		t.Fatalf("CalculateMagneticField: %v", err)
	}
	// Toronto Pearson sits around 10 degrees west with a steep dip.
	if field.DeclinationDeg > -8 || field.DeclinationDeg < -12 {
		t.Errorf("declination = %v, want about -10", field.DeclinationDeg)
	}
	if field.InclinationDeg < 65 || field.InclinationDeg > 75 {
		t.Errorf("inclination = %v, want about 70", field.InclinationDeg)
	}
	if field.TotalMilliGauss() < 500 || field.TotalMilliGauss() > 600 {
		t.Errorf("total = %v mG, want about 540", field.TotalMilliGauss())
	}
	if got := CalculateMagneticVariation(43.6777, -79.6248, 569, date); got != field.DeclinationDeg {
		t.Errorf("CalculateMagneticVariation = %v, want %v", got, field.DeclinationDeg)
	}
}
