package main

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/yegors/co-mag/internal/magnetic"
	"github.com/yegors/co-mag/internal/magtable"
	"github.com/yegors/co-mag/internal/physics"
	"github.com/yegors/co-mag/internal/validation"
)

var tableReference = validation.ReferenceFunc(func(lat, lon, altFt float64, date time.Time) (physics.MagneticField, error) {
	f := magtable.FieldAt(lat, lon)
	return physics.MagneticField{
		Latitude:       lat,
		Longitude:      lon,
		Date:           date,
		DeclinationDeg: f.DeclinationDeg,
		InclinationDeg: f.InclinationDeg + 1,
		TotalNT:        f.StrengthMilliGauss * 100,
	}, nil
})

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(tableReference)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLookupJSON(t *testing.T) {
	out, err := run(t, "lookup", "--lat", "45", "--lon", "5", "--json")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	var f magtable.Field
	if err := json.Unmarshal([]byte(out), &f); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if f != magtable.FieldAt(45, 5) {
		t.Errorf("field = %+v", f)
	}
}

func TestLookupQuantity(t *testing.T) {
	out, err := run(t, "lookup", "--lat", "45", "--lon", "5", "-q", "strength", "--units", "nT", "--json")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	var v magnetic.Value
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := magtable.Lookup(magtable.Strength, 45, 5) * 100
	if v.Unit != "nT" || math.Abs(v.Value-want) > 1e-6 {
		t.Errorf("value = %+v, want %v nT", v, want)
	}
}

func TestLookupText(t *testing.T) {
	out, err := run(t, "lookup", "--lat", "45", "--lon", "5")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	for _, want := range []string{"declination", "inclination", "strength", "deg", "mG"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLookupRequiresPosition(t *testing.T) {
	if _, err := run(t, "lookup", "--lat", "45"); err == nil {
		t.Error("lookup without --lon succeeded")
	}
	if _, err := run(t, "lookup", "--lat", "NaN", "--lon", "0"); err == nil {
		t.Error("lookup with NaN latitude succeeded")
	}
}

func TestGrid(t *testing.T) {
	out, err := run(t, "grid", "declination")
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// comment, header, one row per latitude
	if len(lines) != 2+magtable.LatDim {
		t.Errorf("grid printed %d lines, want %d", len(lines), 2+magtable.LatDim)
	}
	if _, err := run(t, "grid", "gravity"); err == nil {
		t.Error("unknown quantity accepted")
	}
	if _, err := run(t, "grid"); err == nil {
		t.Error("grid without a quantity succeeded")
	}
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", "--step", "30", "--max-lat", "60", "--json")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	var report validation.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Points != 60 {
		t.Errorf("points = %d, want 60", report.Points)
	}
	if math.Abs(report.Stats[1].Mean+1) > 1e-9 {
		t.Errorf("inclination mean = %v, want -1", report.Stats[1].Mean)
	}

	if _, err := run(t, "validate", "--date", "June"); err == nil {
		t.Error("bad date accepted")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, magtable.ModelName) {
		t.Errorf("version = %q", out)
	}
}
