package handler

import (
	"context"
	"net/http"

	"navermap_bot/internal/navermap/service"
	"navermap_bot/internal/navermap/transport"
	"navermap_bot/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Resolver resolves a query to one place.
type Resolver interface {
	Resolve(ctx context.Context, query string) (service.Resolution, error)
}

// MapURLBuilder builds the static map link for a coordinate pair.
type MapURLBuilder interface {
	StaticMapFor(c transport.Coordinates) (string, error)
}

// Handler exposes the place lookup endpoint.
type Handler struct {
	resolver Resolver
	maps     MapURLBuilder
}

func New(resolver Resolver, maps MapURLBuilder) *Handler {
	return &Handler{resolver: resolver, maps: maps}
}

// LookupPlace handles GET /api/v1/maps/place?q=...
func (h *Handler) LookupPlace(c *gin.Context) {
	var req transport.LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'q' is required", nil)
		return
	}

	res, err := h.resolver.Resolve(c.Request.Context(), req.Query)
	if err != nil {
		_ = c.Error(err)
		httpkit.HandleError(c, err)
		return
	}

	mapURL, err := h.maps.StaticMapFor(res.Record.Coordinates)
	if err != nil {
		_ = c.Error(err)
		httpkit.HandleError(c, err)
		return
	}

	path := make([]string, len(res.Path))
	for i, st := range res.Path {
		path[i] = string(st)
	}

	httpkit.OK(c, transport.LookupResponse{
		Place:    res.Record,
		MapURL:   mapURL,
		Strategy: string(res.Strategy),
		Path:     path,
	})
}
