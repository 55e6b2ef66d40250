package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/yegors/co-mag/internal/api"
	"github.com/yegors/co-mag/internal/cache"
	"github.com/yegors/co-mag/internal/config"
	"github.com/yegors/co-mag/internal/geoip"
	"github.com/yegors/co-mag/internal/magnetic"
	"github.com/yegors/co-mag/internal/storage"
	"github.com/yegors/co-mag/internal/storage/postgres"
	"github.com/yegors/co-mag/internal/storage/sqlite"
	"github.com/yegors/co-mag/internal/validation"
	"github.com/yegors/co-mag/internal/websocket"
	"github.com/yegors/co-mag/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	flag.Parse()

	// Load configuration with fallback logic
	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting Co-MAG server",
		logger.String("version", Version),
		logger.String("config_path", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Site storage
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to open site storage", logger.Error(err))
		os.Exit(1)
	}
	defer store.Close()

	// Reference result cache
	refCache, err := openCache(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to open reference cache", logger.Error(err))
		os.Exit(1)
	}
	defer refCache.Close()

	// Optional GeoIP database
	var geo api.GeoLocator
	if path := cfg.GeoIP.DatabasePath; path != "" {
		resolver, err := geoip.Open(path)
		if err != nil {
			log.Warn("GeoIP database unavailable, geoip endpoints disabled",
				logger.String("path", path), logger.Error(err))
		} else {
			defer resolver.Close()
			geo = resolver
			log.Info("GeoIP database loaded", logger.String("path", path))
		}
	}

	// Create WebSocket server
	wsServer := websocket.NewServer(log)
	var wsWG sync.WaitGroup
	wsWG.Add(1)
	go func() {
		defer wsWG.Done()
		wsServer.Run(ctx)
	}()

	service := magnetic.NewService(validation.WMM, refCache, store,
		magnetic.Options{CacheResolutionDeg: cfg.Cache.ResolutionDeg}, log)
	service.SetBroadcaster(wsServer)
	wsServer.SetMessageHandler(magnetic.NewWebSocketHandler(service, log))

	// Create API router
	router := api.NewRouter(service, geo, wsServer, cfg, Version, log)
	handler := router.Routes()

	// --- Setup for multiple HTTP servers ---
	var servers []*http.Server
	allPorts := []int{cfg.Server.Port}
	if len(cfg.Server.AdditionalPorts) > 0 {
		allPorts = append(allPorts, cfg.Server.AdditionalPorts...)
	}

	log.Info("Configured listener ports", logger.Any("ports", allPorts))

	// Start a server for each configured port
	for _, port := range allPorts {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, port)
		server := &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSecs) * time.Second,
		}
		servers = append(servers, server)

		go func(s *http.Server) {
			log.Info("Starting HTTP server", logger.String("addr", s.Addr))
			if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("HTTP server error on startup", logger.String("addr", s.Addr), logger.Error(err))
			}
		}(server)
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down server...")

	// Stop the WebSocket hub; it closes every client
	cancel()
	wsWG.Wait()
	log.Info("WebSocket server stopped.")

	// Shutdown all HTTP servers
	log.Info("Shutting down HTTP servers...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(srv *http.Server) {
			defer wg.Done()
			log.Info("Attempting to shutdown HTTP server", logger.String("addr", srv.Addr))
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("HTTP server shutdown error", logger.String("addr", srv.Addr), logger.Error(err))
			} else {
				log.Info("HTTP server shutdown complete", logger.String("addr", srv.Addr))
			}
		}(s)
	}
	wg.Wait()

	log.Info("All HTTP servers shutdown.")

	log.Info("Server fully stopped")
}

// openStore opens the configured site store
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		return postgres.NewSiteStorage(ctx, cfg.Storage.PostgresDSN, log)
	default:
		// Create database directory if it doesn't exist
		dbDir := filepath.Dir(cfg.Storage.SQLitePath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		return sqlite.NewSiteStorage(cfg.Storage.SQLitePath, log)
	}
}

// openCache opens the configured reference cache
func openCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (cache.Cache, error) {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedis(ctx, cache.RedisOptions{
			Addr:         cfg.Cache.RedisAddr,
			Password:     cfg.Cache.RedisPassword,
			DB:           cfg.Cache.RedisDB,
			KeyPrefix:    cfg.Cache.RedisKeyPrefix,
			TTL:          ttl,
			ConnectRetry: time.Duration(cfg.Cache.ConnectRetrySecs) * time.Second,
		}, log)
	default:
		return cache.NewMemory(cfg.Cache.Capacity, ttl, log), nil
	}
}
