// Package geoip resolves client addresses to an approximate position.
package geoip

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

var (
	// ErrInvalidIP is returned for unparsable addresses
	ErrInvalidIP = errors.New("invalid ip address")
	// ErrNoLocation is returned when the database has no coordinates for an address
	ErrNoLocation = errors.New("no location for address")
)

// Location is the position the database associates with an address
type Location struct {
	IP             string  `json:"ip"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyRadius uint16  `json:"accuracy_radius_km"`
	City           string  `json:"city,omitempty"`
	Country        string  `json:"country,omitempty"`
}

// cityReader is the subset of *geoip2.Reader used here
type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Close() error
}

// Resolver looks up addresses in a GeoIP2/GeoLite2 City database
type Resolver struct {
	reader cityReader
}

// Open opens the .mmdb file at path
func Open(path string) (*Resolver, error) {
	r, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geoip database %s: %w", path, err)
	}
	return &Resolver{reader: r}, nil
}

// Lookup returns the location of ip
func (r *Resolver) Lookup(ip string) (*Location, error) {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}

	rec, err := r.reader.City(parsed)
	if err != nil {
		return nil, fmt.Errorf("geoip lookup %s: %w", ip, err)
	}
	if rec.Location.Latitude == 0 && rec.Location.Longitude == 0 && rec.Location.AccuracyRadius == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoLocation, ip)
	}

	return &Location{
		IP:             parsed.String(),
		Latitude:       rec.Location.Latitude,
		Longitude:      rec.Location.Longitude,
		AccuracyRadius: rec.Location.AccuracyRadius,
		City:           rec.City.Names["en"],
		Country:        rec.Country.IsoCode,
	}, nil
}

// Close releases the database
func (r *Resolver) Close() error {
	return r.reader.Close()
}

// ClientIP returns the caller's address, preferring X-Forwarded-For and X-Real-IP
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xr := strings.TrimSpace(r.Header.Get("X-Real-IP")); xr != "" {
		return xr
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
