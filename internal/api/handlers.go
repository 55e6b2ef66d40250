package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yegors/co-mag/internal/config"
	"github.com/yegors/co-mag/internal/geoip"
	"github.com/yegors/co-mag/internal/magnetic"
	"github.com/yegors/co-mag/internal/magtable"
	"github.com/yegors/co-mag/internal/storage"
	"github.com/yegors/co-mag/internal/validation"
	"github.com/yegors/co-mag/pkg/logger"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// GeoLocator resolves an IP address to a position
type GeoLocator interface {
	Lookup(ip string) (*geoip.Location, error)
}

// ClientCounter reports connected WebSocket clients
type ClientCounter interface {
	ClientCount() int
}

// Handler contains the API handlers
type Handler struct {
	service *magnetic.Service
	geo     GeoLocator
	clients ClientCounter
	config  *config.Config
	version string
	started time.Time
	logger  *logger.Logger
}

// NewHandler creates a new API handler. geo and clients may be nil.
func NewHandler(service *magnetic.Service, geo GeoLocator, clients ClientCounter, cfg *config.Config, version string, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		geo:     geo,
		clients: clients,
		config:  cfg,
		version: version,
		started: time.Now(),
		logger:  log.Named("api-handler"),
	}
}

// GetHealth returns the health status of the API
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":         "ok",
		"version":        h.version,
		"model":          magtable.ModelName,
		"model_version":  magtable.ModelVersion,
		"model_epoch":    magtable.ModelEpoch,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"geoip_enabled":  h.geo != nil,
	}
	if h.clients != nil {
		response["websocket_clients"] = h.clients.ClientCount()
	}
	if stats := h.service.CacheStats(); stats != nil {
		response["reference_cache"] = stats
	}

	WriteJSON(w, http.StatusOK, response)
}

// GetConfig returns the public configuration
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	publicConfig := map[string]interface{}{
		"server": map[string]interface{}{
			"max_batch_points": h.config.Server.MaxBatchPoints,
		},
		"storage": map[string]interface{}{
			"type":             h.config.Storage.Type,
			"max_sites_in_api": h.config.Storage.MaxSitesInAPI,
		},
		"cache": map[string]interface{}{
			"backend":        h.config.Cache.Backend,
			"ttl_seconds":    h.config.Cache.TTLSeconds,
			"resolution_deg": h.config.Cache.ResolutionDeg,
		},
		"reference": map[string]interface{}{
			"default_altitude_ft":    h.config.Reference.DefaultAltitudeFt,
			"validation_step_deg":    h.config.Reference.ValidationStepDeg,
			"validation_max_abs_lat": h.config.Reference.ValidationMaxAbsLat,
			"min_validation_step":    h.config.Reference.MinValidationStep,
		},
	}

	WriteJSON(w, http.StatusOK, publicConfig)
}

// GetField returns every quantity at lat/lon
func (h *Handler) GetField(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := parseCoordinates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	field, err := h.service.Field(lat, lon)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, field)
}

// GetQuantity returns one quantity at lat/lon in the requested units
func (h *Handler) GetQuantity(w http.ResponseWriter, r *http.Request) {
	q, err := magtable.ParseQuantity(chi.URLParam(r, "quantity"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	lat, lon, err := parseCoordinates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	value, err := h.service.Lookup(q, lat, lon, r.URL.Query().Get("units"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, value)
}

// batchRequest is the body of POST /field/batch
type batchRequest struct {
	Points []magnetic.Point `json:"points"`
}

// PostBatch returns the field at every posted point
func (h *Handler) PostBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Points) == 0 {
		writeError(w, http.StatusBadRequest, "points must not be empty")
		return
	}
	if len(req.Points) > h.config.Server.MaxBatchPoints {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("at most %d points per request", h.config.Server.MaxBatchPoints))
		return
	}

	fields, err := h.service.BatchField(req.Points)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(fields),
		"fields": fields,
	})
}

// GetGrid returns the raw table for a quantity
func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	q, err := magtable.ParseQuantity(chi.URLParam(r, "quantity"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, h.service.Grid(q))
}

// GetReference compares the tables with the full model at a point
func (h *Handler) GetReference(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := parseCoordinates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	altFt := h.config.Reference.DefaultAltitudeFt
	if s := r.URL.Query().Get("alt_ft"); s != "" {
		altFt, err = parseFinite("alt_ft", s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	comparison, err := h.service.Compare(r.Context(), lat, lon, altFt, date)
	if err != nil {
		if errors.Is(err, magnetic.ErrInvalidCoordinate) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Reference comparison failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "reference model evaluation failed")
		return
	}
	WriteJSON(w, http.StatusOK, comparison)
}

// GetValidation sweeps the tables against the full model
func (h *Handler) GetValidation(w http.ResponseWriter, r *http.Request) {
	opts := validation.Options{
		StepDeg:    h.config.Reference.ValidationStepDeg,
		MaxAbsLat:  h.config.Reference.ValidationMaxAbsLat,
		AltitudeFt: h.config.Reference.DefaultAltitudeFt,
	}
	query := r.URL.Query()

	if s := query.Get("step"); s != "" {
		step, err := parseFinite("step", s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if step < h.config.Reference.MinValidationStep {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("step must be at least %v", h.config.Reference.MinValidationStep))
			return
		}
		opts.StepDeg = step
	}
	if s := query.Get("max_abs_lat"); s != "" {
		maxLat, err := parseFinite("max_abs_lat", s)
		if err != nil || maxLat <= 0 || maxLat > 90 {
			writeError(w, http.StatusBadRequest, "max_abs_lat must be in (0, 90]")
			return
		}
		opts.MaxAbsLat = maxLat
	}

	date, err := parseDate(query.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts.Date = date

	report, err := h.service.Validate(r.Context(), opts)
	if err != nil {
		if r.Context().Err() != nil {
			h.logger.Debug("Validation cancelled by client")
			return
		}
		h.logger.Error("Validation sweep failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "validation failed")
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// GetHeading converts between true and magnetic headings at lat/lon
func (h *Handler) GetHeading(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := parseCoordinates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query()
	trueStr, magStr := query.Get("true"), query.Get("magnetic")
	if (trueStr == "") == (magStr == "") {
		writeError(w, http.StatusBadRequest, "exactly one of true or magnetic is required")
		return
	}

	var heading *magnetic.Heading
	if trueStr != "" {
		hdg, perr := parseFinite("true", trueStr)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		heading, err = h.service.TrueToMagnetic(lat, lon, hdg)
	} else {
		hdg, perr := parseFinite("magnetic", magStr)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		heading, err = h.service.MagneticToTrue(lat, lon, hdg)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, heading)
}

// GetGeoIPField returns the field at the location of an IP address, the
// caller's own address when no ip is given
func (h *Handler) GetGeoIPField(w http.ResponseWriter, r *http.Request) {
	if h.geo == nil {
		writeError(w, http.StatusServiceUnavailable, "geoip database not configured")
		return
	}

	ip := chi.URLParam(r, "ip")
	if ip == "" {
		ip = geoip.ClientIP(r)
	}

	loc, err := h.geo.Lookup(ip)
	if err != nil {
		switch {
		case errors.Is(err, geoip.ErrInvalidIP):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, geoip.ErrNoLocation):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			h.logger.Error("GeoIP lookup failed", logger.String("ip", ip), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "geoip lookup failed")
		}
		return
	}

	field, err := h.service.Field(loc.Latitude, loc.Longitude)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"location": loc,
		"field":    field,
	})
}

// ListSites returns a page of stored sites
func (h *Handler) ListSites(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePaginationParams(r, h.config.Storage.MaxSitesInAPI)

	list, err := h.service.Sites(r.Context(), limit, offset)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// CreateSite stores a new site
func (h *Handler) CreateSite(w http.ResponseWriter, r *http.Request) {
	var site storage.Site
	if err := decodeJSON(w, r, &site); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	site.ID = 0
	site.CreatedAt = time.Time{}

	created, err := h.service.CreateSite(r.Context(), &site)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// GetSite returns a stored site with its field
func (h *Handler) GetSite(w http.ResponseWriter, r *http.Request) {
	site, err := h.service.Site(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, site)
}

// DeleteSite removes a stored site
func (h *Handler) DeleteSite(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSite(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeStoreError maps storage errors to HTTP statuses
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrDuplicate):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, magnetic.ErrNoStore):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, storage.ErrInvalidSite):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Site storage error", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "storage error")
	}
}

// parseCoordinates reads the required lat and lon query parameters
func parseCoordinates(r *http.Request) (float64, float64, error) {
	query := r.URL.Query()
	latStr, lonStr := query.Get("lat"), query.Get("lon")
	if latStr == "" || lonStr == "" {
		return 0, 0, fmt.Errorf("lat and lon are required")
	}
	lat, err := parseFinite("lat", latStr)
	if err != nil {
		return 0, 0, err
	}
	lon, err := parseFinite("lon", lonStr)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

// parseFinite parses a float rejecting NaN and infinities
func parseFinite(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s: must be finite", name)
	}
	return v, nil
}

// parseDate accepts YYYY-MM-DD or RFC3339. Empty means the table epoch.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format (use YYYY-MM-DD or RFC3339)")
	}
	return t.UTC(), nil
}

func parsePaginationParams(r *http.Request, defaultLimit int) (int, int) {
	limit := defaultLimit // Default limit
	offset := 0           // Default offset

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	return limit, offset
}

// decodeJSON decodes a bounded JSON body, rejecting unknown fields and trailing data
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid request body: trailing data")
	}
	return nil
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
