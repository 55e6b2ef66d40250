package geoip

import (
	"errors"
	"net"
	"net/http/httptest"
	"testing"

	"github.com/oschwald/geoip2-golang"
)

type fakeReader struct {
	city *geoip2.City
	err  error
}

func (f *fakeReader) City(net.IP) (*geoip2.City, error) { return f.city, f.err }
func (f *fakeReader) Close() error                      { return nil }

func TestLookup(t *testing.T) {
	rec := &geoip2.City{}
	rec.Location.Latitude = 43.65
	rec.Location.Longitude = -79.38
	rec.Location.AccuracyRadius = 20
	rec.City.Names = map[string]string{"en": "Toronto"}
	rec.Country.IsoCode = "CA"

	r := &Resolver{reader: &fakeReader{city: rec}}
	loc, err := r.Lookup(" 203.0.113.7 ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if loc.IP != "203.0.113.7" || loc.City != "Toronto" || loc.Country != "CA" {
		t.Errorf("Lookup = %+v", loc)
	}
	if loc.Latitude != 43.65 || loc.Longitude != -79.38 {
		t.Errorf("position = %v,%v", loc.Latitude, loc.Longitude)
	}
}

func TestLookupErrors(t *testing.T) {
	r := &Resolver{reader: &fakeReader{city: &geoip2.City{}}}
	if _, err := r.Lookup("not-an-ip"); !errors.Is(err, ErrInvalidIP) {
		t.Errorf("Lookup(bad) = %v, want ErrInvalidIP", err)
	}
	if _, err := r.Lookup("10.0.0.1"); !errors.Is(err, ErrNoLocation) {
		t.Errorf("Lookup(private) = %v, want ErrNoLocation", err)
	}

	boom := errors.New("corrupt")
	r = &Resolver{reader: &fakeReader{err: boom}}
	if _, err := r.Lookup("203.0.113.7"); !errors.Is(err, boom) {
		t.Errorf("Lookup = %v, want wrapped reader error", err)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "198.51.100.2:5555"
	if got := ClientIP(req); got != "198.51.100.2" {
		t.Errorf("ClientIP = %q", got)
	}
	req.Header.Set("X-Real-IP", "198.51.100.3")
	if got := ClientIP(req); got != "198.51.100.3" {
		t.Errorf("ClientIP with X-Real-IP = %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Errorf("ClientIP with X-Forwarded-For = %q", got)
	}
}
