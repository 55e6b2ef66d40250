package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yegors/co-mag/internal/config"
	"github.com/yegors/co-mag/internal/magnetic"
	"github.com/yegors/co-mag/internal/metrics"
	"github.com/yegors/co-mag/internal/websocket"
	"github.com/yegors/co-mag/pkg/logger"
)

// Router builds the HTTP routes
type Router struct {
	handler  *Handler
	config   *config.Config
	wsServer *websocket.Server
	logger   *logger.Logger
}

// NewRouter creates a new router. geo and wsServer may be nil.
func NewRouter(service *magnetic.Service, geo GeoLocator, wsServer *websocket.Server, cfg *config.Config, version string, log *logger.Logger) *Router {
	var clients ClientCounter
	if wsServer != nil {
		clients = wsServer
	}
	return &Router{
		handler:  NewHandler(service, geo, clients, cfg, version, log),
		config:   cfg,
		wsServer: wsServer,
		logger:   log.Named("router"),
	}
}

// Routes returns the root handler
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(rt.requestLogger)
	r.Use(rt.cors)

	h := rt.handler
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.instrument)

		r.Get("/health", h.GetHealth)
		r.Get("/config", h.GetConfig)

		r.Get("/field", h.GetField)
		r.Post("/field/batch", h.PostBatch)
		r.Get("/grid/{quantity}", h.GetGrid)
		r.Get("/reference", h.GetReference)
		r.Get("/validation", h.GetValidation)
		r.Get("/heading", h.GetHeading)

		r.Get("/geoip", h.GetGeoIPField)
		r.Get("/geoip/{ip}", h.GetGeoIPField)

		r.Route("/sites", func(r chi.Router) {
			r.Get("/", h.ListSites)
			r.Post("/", h.CreateSite)
			r.Get("/{name}", h.GetSite)
			r.Delete("/{name}", h.DeleteSite)
		})

		// Registered last so the fixed routes above win
		r.Get("/{quantity}", h.GetQuantity)
	})

	if rt.wsServer != nil {
		r.Get("/ws", rt.wsServer.HandleConnection)
	}

	if rt.config.Metrics.Enabled {
		r.Handle(rt.config.Metrics.Path, metrics.Handler())
	}

	if dir := rt.config.Server.StaticDir; dir != "" {
		static, err := NewStaticFileHandler(dir, rt.logger)
		if err != nil {
			rt.logger.Error("Static directory unusable, frontend disabled",
				logger.String("dir", dir), logger.Error(err))
		} else {
			r.Handle("/*", static)
		}
	}

	return r
}

// cors applies the configured allowed origins
func (rt *Router) cors(next http.Handler) http.Handler {
	allowed := rt.config.Server.CORSAllowedOrigins
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && originAllowed(allowed, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func originAllowed(allowed []string, origin string) bool {
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

// instrument records request counts and latency per route pattern
func (rt *Router) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		metrics.RequestDurationMs.WithLabelValues(route).Observe(float64(time.Since(start).Microseconds()) / 1000)
	})
}

// requestLogger logs each request at debug level
func (rt *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		rt.logger.Debug("HTTP request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", ww.Status()),
			logger.Duration("duration", time.Since(start)),
			logger.String("request_id", middleware.GetReqID(r.Context())))
	})
}
