package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/yegors/co-mag/internal/cache"
	"github.com/yegors/co-mag/internal/config"
	"github.com/yegors/co-mag/internal/geoip"
	"github.com/yegors/co-mag/internal/magnetic"
	"github.com/yegors/co-mag/internal/magtable"
	"github.com/yegors/co-mag/internal/physics"
	"github.com/yegors/co-mag/internal/storage/sqlite"
	"github.com/yegors/co-mag/internal/validation"
	"github.com/yegors/co-mag/pkg/logger"
)

// tableReference agrees with the tables except for a fixed declination offset
var tableReference = validation.ReferenceFunc(func(lat, lon, altFt float64, date time.Time) (physics.MagneticField, error) {
	f := magtable.FieldAt(lat, lon)
	return physics.MagneticField{
		Latitude:       lat,
		Longitude:      lon,
		AltitudeFt:     altFt,
		Date:           date,
		DeclinationDeg: f.DeclinationDeg + 0.5,
		InclinationDeg: f.InclinationDeg,
		TotalNT:        f.StrengthMilliGauss * 100,
	}, nil
})

type fakeLocator struct {
	loc *geoip.Location
	err error
}

func (f *fakeLocator) Lookup(ip string) (*geoip.Location, error) {
	if f.err != nil {
		return nil, f.err
	}
	loc := *f.loc
	loc.IP = ip
	return &loc, nil
}

func newTestServer(t *testing.T, geo GeoLocator, mutate func(*config.Config)) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Metrics.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}

	store, err := sqlite.NewSiteStorage(filepath.Join(t.TempDir(), "sites.db"), logger.NewNop())
	if err != nil {
		t.Fatalf("NewSiteStorage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc := magnetic.NewService(tableReference, cache.NewMemory(256, time.Hour, logger.NewNop()), store,
		magnetic.Options{CacheResolutionDeg: cfg.Cache.ResolutionDeg}, logger.NewNop())
	router := NewRouter(svc, geo, nil, cfg, "test", logger.NewNop())

	srv := httptest.NewServer(router.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body string, out interface{}) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	var body map[string]interface{}
	if code := getJSON(t, srv.URL+"/api/v1/health", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "ok" || body["model"] != magtable.ModelName || body["geoip_enabled"] != false {
		t.Errorf("health = %v", body)
	}
}

func TestGetField(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	var got magtable.Field
	if code := getJSON(t, srv.URL+"/api/v1/field?lat=45&lon=5", &got); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if diff := cmp.Diff(magtable.FieldAt(45, 5), got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("field mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidCoordinates(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	for _, q := range []string{
		"",
		"lat=45",
		"lat=north&lon=5",
		"lat=NaN&lon=5",
		"lat=45&lon=Inf",
		"lat=45&lon=-Inf",
	} {
		var body map[string]string
		code := getJSON(t, srv.URL+"/api/v1/field?"+q, &body)
		if code != http.StatusBadRequest {
			t.Errorf("?%s: status = %d, want 400", q, code)
		}
		if body["error"] == "" {
			t.Errorf("?%s: missing error message", q)
		}
	}
}

func TestGetQuantity(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	var v magnetic.Value
	if code := getJSON(t, srv.URL+"/api/v1/declination?lat=45&lon=5&units=deg", &v); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if v.Unit != "deg" || math.Abs(v.Value-magtable.DeclinationDegrees(45, 5)) > 1e-9 {
		t.Errorf("value = %+v", v)
	}

	if code := getJSON(t, srv.URL+"/api/v1/gravity?lat=45&lon=5", nil); code != http.StatusNotFound {
		t.Errorf("unknown quantity status = %d, want 404", code)
	}
	if code := getJSON(t, srv.URL+"/api/v1/strength?lat=45&lon=5&units=furlongs", nil); code != http.StatusBadRequest {
		t.Errorf("bad units status = %d, want 400", code)
	}
}

func TestBatch(t *testing.T) {
	srv := newTestServer(t, nil, func(c *config.Config) { c.Server.MaxBatchPoints = 3 })

	var got struct {
		Count  int              `json:"count"`
		Fields []magtable.Field `json:"fields"`
	}
	body := `{"points":[{"lat":0,"lon":0},{"lat":45,"lon":5}]}`
	if code := postJSON(t, srv.URL+"/api/v1/field/batch", body, &got); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if got.Count != 2 || len(got.Fields) != 2 {
		t.Fatalf("batch = %+v", got)
	}

	var points []string
	for i := 0; i < 4; i++ {
		points = append(points, fmt.Sprintf(`{"lat":%d,"lon":0}`, i))
	}
	tooMany := `{"points":[` + strings.Join(points, ",") + `]}`
	if code := postJSON(t, srv.URL+"/api/v1/field/batch", tooMany, nil); code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized batch status = %d, want 413", code)
	}
	if code := postJSON(t, srv.URL+"/api/v1/field/batch", `{"points":[]}`, nil); code != http.StatusBadRequest {
		t.Errorf("empty batch status = %d, want 400", code)
	}
	if code := postJSON(t, srv.URL+"/api/v1/field/batch", `{"pts":[]}`, nil); code != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want 400", code)
	}
}

func TestGrid(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	var g magnetic.Grid
	if code := getJSON(t, srv.URL+"/api/v1/grid/inclination", &g); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if g.Values != magtable.Table(magtable.Inclination) {
		t.Error("grid values differ from table")
	}
	if code := getJSON(t, srv.URL+"/api/v1/grid/gravity", nil); code != http.StatusNotFound {
		t.Errorf("unknown grid status = %d, want 404", code)
	}
}

func TestReference(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	var c magnetic.Comparison
	url := srv.URL + "/api/v1/reference?lat=43.68&lon=-79.63&alt_ft=569&date=2021-06-01"
	if code := getJSON(t, url, &c); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if math.Abs(c.Difference.DeclinationDeg+0.5) > 1e-9 {
		t.Errorf("declination difference = %v, want -0.5", c.Difference.DeclinationDeg)
	}
	if c.Cached {
		t.Error("first request reported cached")
	}

	if code := getJSON(t, url, &c); code != http.StatusOK || !c.Cached {
		t.Errorf("repeat request status = %d cached = %v", code, c.Cached)
	}

	if code := getJSON(t, srv.URL+"/api/v1/reference?lat=0&lon=0&date=yesterday", nil); code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", code)
	}
	if code := getJSON(t, srv.URL+"/api/v1/reference?lat=0&lon=0&alt_ft=NaN", nil); code != http.StatusBadRequest {
		t.Errorf("NaN altitude status = %d, want 400", code)
	}
}

func TestValidation(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	var report validation.Report
	if code := getJSON(t, srv.URL+"/api/v1/validation?step=30&max_abs_lat=60", &report); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if report.Points != 60 {
		t.Errorf("points = %d, want 60", report.Points)
	}
	if code := getJSON(t, srv.URL+"/api/v1/validation?step=0.5", nil); code != http.StatusBadRequest {
		t.Errorf("fine step status = %d, want 400", code)
	}
}

func TestHeading(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	var h magnetic.Heading
	if code := getJSON(t, srv.URL+"/api/v1/heading?lat=45&lon=5&true=90", &h); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	want := physics.TrueToMagnetic(90, magtable.DeclinationDegrees(45, 5))
	if math.Abs(h.MagneticDeg-want) > 1e-9 {
		t.Errorf("magnetic = %v, want %v", h.MagneticDeg, want)
	}

	for _, q := range []string{"lat=45&lon=5", "lat=45&lon=5&true=90&magnetic=90", "lat=45&lon=5&true=east"} {
		if code := getJSON(t, srv.URL+"/api/v1/heading?"+q, nil); code != http.StatusBadRequest {
			t.Errorf("?%s: status = %d, want 400", q, code)
		}
	}
}

func TestGeoIP(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	if code := getJSON(t, srv.URL+"/api/v1/geoip/8.8.8.8", nil); code != http.StatusServiceUnavailable {
		t.Errorf("no database status = %d, want 503", code)
	}

	geo := &fakeLocator{loc: &geoip.Location{Latitude: 45, Longitude: 5, City: "Grenoble"}}
	srv = newTestServer(t, geo, nil)

	var body struct {
		Location geoip.Location `json:"location"`
		Field    magtable.Field `json:"field"`
	}
	if code := getJSON(t, srv.URL+"/api/v1/geoip/81.2.69.160", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Location.IP != "81.2.69.160" || body.Location.City != "Grenoble" {
		t.Errorf("location = %+v", body.Location)
	}
	if math.Abs(body.Field.DeclinationRad-magtable.FieldAt(45, 5).DeclinationRad) > 1e-12 {
		t.Errorf("field = %+v", body.Field)
	}

	// Without an ip the caller's address is used
	if code := getJSON(t, srv.URL+"/api/v1/geoip", &body); code != http.StatusOK {
		t.Fatalf("self lookup status = %d", code)
	}
	if body.Location.IP != "127.0.0.1" {
		t.Errorf("self lookup ip = %q", body.Location.IP)
	}

	srv = newTestServer(t, &fakeLocator{err: geoip.ErrNoLocation}, nil)
	if code := getJSON(t, srv.URL+"/api/v1/geoip/10.0.0.1", nil); code != http.StatusNotFound {
		t.Errorf("no location status = %d, want 404", code)
	}
}

func TestSitesCRUD(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	base := srv.URL + "/api/v1/sites"

	var created magnetic.SiteField
	code := postJSON(t, base, `{"name":"cyyz","latitude":43.68,"longitude":-79.63,"elevation_ft":569}`, &created)
	if code != http.StatusCreated {
		t.Fatalf("create status = %d", code)
	}
	if created.ID == 0 || created.Name != "cyyz" {
		t.Errorf("created = %+v", created.Site)
	}
	if created.Field != magtable.FieldAt(43.68, -79.63) {
		t.Error("created site field differs from table")
	}

	if code := postJSON(t, base, `{"name":"cyyz","latitude":0,"longitude":0}`, nil); code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", code)
	}
	if code := postJSON(t, base, `{"name":"pole","latitude":91,"longitude":0}`, nil); code != http.StatusBadRequest {
		t.Errorf("invalid site status = %d, want 400", code)
	}

	var list magnetic.SiteList
	if code := getJSON(t, base, &list); code != http.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	if list.Total != 1 || len(list.Sites) != 1 || list.Limit != 100 {
		t.Errorf("list = %+v", list)
	}

	var got magnetic.SiteField
	if code := getJSON(t, base+"/cyyz", &got); code != http.StatusOK || got.Name != "cyyz" {
		t.Errorf("get status = %d site = %+v", code, got.Site)
	}

	req, _ := http.NewRequest(http.MethodDelete, base+"/cyyz", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}

	if code := getJSON(t, base+"/cyyz", nil); code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", code)
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, nil, func(c *config.Config) {
		c.Server.CORSAllowedOrigins = []string{"https://map.example.org"}
	})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/field", nil)
	req.Header.Set("Origin", "https://map.example.org")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://map.example.org" {
		t.Errorf("allow origin = %q", got)
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/v1/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin echoed: %q", got)
	}
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>map</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, nil, func(c *config.Config) { c.Server.StaticDir = dir })

	read := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer resp.Body.Close()
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		return resp.StatusCode, buf.String()
	}

	if code, body := read("/"); code != http.StatusOK || body != "<html>map</html>" {
		t.Errorf("/ = %d %q", code, body)
	}
	if code, body := read("/app.js"); code != http.StatusOK || body != "console.log(1)" {
		t.Errorf("/app.js = %d %q", code, body)
	}
	if code, body := read("/sites/cyyz"); code != http.StatusOK || body != "<html>map</html>" {
		t.Errorf("client route = %d %q", code, body)
	}
	if code, _ := read("/missing.css"); code != http.StatusNotFound {
		t.Errorf("missing asset = %d, want 404", code)
	}
}
