package magnetic

import (
	"context"
	"errors"

	"github.com/yegors/co-mag/internal/magtable"
	"github.com/yegors/co-mag/internal/metrics"
	"github.com/yegors/co-mag/internal/storage"
	"github.com/yegors/co-mag/internal/websocket"
	"github.com/yegors/co-mag/pkg/logger"
)

// ErrNoStore is returned by site operations when no store is configured
var ErrNoStore = errors.New("site storage not configured")

// SiteField is a stored site with the field at its position
type SiteField struct {
	*storage.Site
	Field magtable.Field `json:"field"`
}

func withField(site *storage.Site) *SiteField {
	return &SiteField{Site: site, Field: magtable.FieldAt(site.Latitude, site.Longitude)}
}

// CreateSite stores a site and announces it to WebSocket clients
func (s *Service) CreateSite(ctx context.Context, site *storage.Site) (*SiteField, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	if err := s.store.Create(ctx, site); err != nil {
		return nil, err
	}
	s.logger.Info("Site created",
		logger.String("name", site.Name),
		logger.Float64("lat", site.Latitude),
		logger.Float64("lon", site.Longitude))

	out := withField(site)
	s.refreshSiteCount(ctx)
	s.publish(websocket.MessageTypeSiteAdded, map[string]any{"site": out})
	return out, nil
}

// Site returns a stored site with its field
func (s *Service) Site(ctx context.Context, name string) (*SiteField, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	site, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return withField(site), nil
}

// SiteList is a page of sites
type SiteList struct {
	Sites  []*SiteField `json:"sites"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// Sites returns a page of stored sites with their fields
func (s *Service) Sites(ctx context.Context, limit, offset int) (*SiteList, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	sites, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	out := &SiteList{Sites: make([]*SiteField, 0, len(sites)), Total: total, Limit: limit, Offset: offset}
	for _, site := range sites {
		out.Sites = append(out.Sites, withField(site))
	}
	return out, nil
}

// DeleteSite removes a site and announces the removal
func (s *Service) DeleteSite(ctx context.Context, name string) error {
	if s.store == nil {
		return ErrNoStore
	}
	if err := s.store.Delete(ctx, name); err != nil {
		return err
	}
	s.logger.Info("Site deleted", logger.String("name", name))
	s.refreshSiteCount(ctx)
	s.publish(websocket.MessageTypeSiteRemoved, map[string]any{"name": name})
	return nil
}

func (s *Service) refreshSiteCount(ctx context.Context) {
	if n, err := s.store.Count(ctx); err == nil {
		metrics.SitesTotal.Set(float64(n))
	}
}

func (s *Service) publish(messageType string, data map[string]any) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Broadcast(&websocket.Message{Type: messageType, Data: data})
}
