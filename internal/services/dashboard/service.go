// Package dashboard assembles role/stage dashboards: section layout lookup,
// catalog data fetch, dispatch rendering, and a short-lived render cache.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/hideyanjp01-maker/workbench/internal/repositories/catalog"
	"github.com/hideyanjp01-maker/workbench/pkg/dispatch"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"github.com/hideyanjp01-maker/workbench/pkg/sections"
	"github.com/hideyanjp01-maker/workbench/pkg/tracing"
)

// Dashboard is one rendered role/stage view.
type Dashboard struct {
	Role        models.Role     `json:"role"`
	Stage       models.Stage    `json:"stage"`
	Units       []dispatch.Unit `json:"units"`
	GeneratedTS time.Time       `json:"generated_at"`
}

// Cache stores rendered dashboards for a short TTL.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type Service struct {
	logger  ectologger.Logger
	library *sections.Library
	catalog catalog.CatalogRepository
	engine  *dispatch.Engine
	cache   Cache
	ttl     time.Duration
}

func NewService(library *sections.Library, cat catalog.CatalogRepository, engine *dispatch.Engine, cache Cache, ttl time.Duration, logger ectologger.Logger) *Service {
	return &Service{
		logger:  logger,
		library: library,
		catalog: cat,
		engine:  engine,
		cache:   cache,
		ttl:     ttl,
	}
}

// Render builds the dashboard for a role and stage. Unknown role/stage
// combinations are a 404; rendering itself never fails.
func (s *Service) Render(ctx context.Context, role models.Role, stage models.Stage) (Dashboard, error) {
	ctx, span := tracing.StartSpan(ctx, "dashboard.Render")
	defer span.End()

	key := cacheKey(role, stage)
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	cfgs, ok := s.library.Sections(role, stage)
	if !ok {
		return Dashboard{}, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no dashboard configured for role %s in stage %s", role, stage))
	}

	products, err := s.catalog.ListProductsByStage(ctx, stage)
	if err != nil {
		return Dashboard{}, err
	}
	metrics, err := s.catalog.ListMetricsByStage(ctx, stage)
	if err != nil {
		return Dashboard{}, err
	}

	units := s.engine.Render(ctx, cfgs, dispatch.Data{
		Products: products,
		Metrics:  metrics,
	}, dispatch.Options{
		// the execution stages are product-driven end to end
		RequireProducts: stage == models.StageColdStart || stage == models.StageScaleUp,
	})

	dash := Dashboard{
		Role:        role,
		Stage:       stage,
		Units:       units,
		GeneratedTS: time.Now().UTC(),
	}

	s.toCache(ctx, key, dash)
	return dash, nil
}

func cacheKey(role models.Role, stage models.Stage) string {
	return fmt.Sprintf("workbench:dashboard:%s:%s", role, stage)
}

// fromCache is best effort: a cache failure renders fresh.
func (s *Service) fromCache(ctx context.Context, key string) (Dashboard, bool) {
	if s.cache == nil {
		return Dashboard{}, false
	}

	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("key", key).Warn("Dashboard cache read failed")
		return Dashboard{}, false
	}
	if !ok {
		return Dashboard{}, false
	}

	var dash Dashboard
	if err := json.Unmarshal([]byte(raw), &dash); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("key", key).Warn("Dashboard cache entry is corrupt")
		return Dashboard{}, false
	}
	return dash, true
}

func (s *Service) toCache(ctx context.Context, key string, dash Dashboard) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(dash)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to serialize dashboard for cache")
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("key", key).Warn("Dashboard cache write failed")
	}
}
