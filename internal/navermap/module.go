// Package navermap wires the place resolution pipeline and its lookup route.
package navermap

import (
	"net/http"

	apphttp "navermap_bot/internal/http"
	"navermap_bot/internal/navermap/client"
	"navermap_bot/internal/navermap/handler"
	"navermap_bot/internal/navermap/links"
	"navermap_bot/internal/navermap/service"
	"navermap_bot/platform/config"
	"navermap_bot/platform/logger"
	"navermap_bot/platform/metrics"
)

// ModuleConfig combines the config interfaces the module reads.
type ModuleConfig interface {
	config.SearchConfig
	config.MapConfig
	config.UnofficialSearchConfig
	config.ResolverConfig
}

// Module owns the upstream clients, the resolver and the link builder.
type Module struct {
	service *service.Service
	links   *links.Builder
	handler *handler.Handler
}

// NewModule builds every client from cfg. A nil httpClient gives each client
// its own default client.
func NewModule(cfg ModuleConfig, httpClient *http.Client, log *logger.Logger, m *metrics.Metrics) *Module {
	builder := links.NewBuilder(cfg)
	search := client.NewSearchClient(cfg, httpClient, log, m)
	geocoder := client.NewGeocodeClient(cfg, httpClient, log, m)

	var unofficial service.UnofficialSearcher
	if cfg.UseUnofficialPlaceSearch() {
		unofficial = client.NewUnofficialClient(cfg, builder, httpClient, log, m)
		log.Info("unofficial place search enabled")
	}

	svc := service.New(cfg, search, geocoder, unofficial, log, m)
	return &Module{
		service: svc,
		links:   builder,
		handler: handler.New(svc, builder),
	}
}

func (m *Module) Name() string {
	return "navermap"
}

// Service returns the resolver.
func (m *Module) Service() *service.Service {
	return m.service
}

// Links returns the link builder.
func (m *Module) Links() *links.Builder {
	return m.links
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/maps")
	group.GET("/place", m.handler.LookupPlace)
}

var _ apphttp.Module = (*Module)(nil)
