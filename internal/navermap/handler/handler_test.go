package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"navermap_bot/internal/navermap/service"
	"navermap_bot/internal/navermap/transport"
	"navermap_bot/platform/apperr"
	"navermap_bot/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type fakeResolver struct {
	res   service.Resolution
	err   error
	query string
}

func (f *fakeResolver) Resolve(_ context.Context, query string) (service.Resolution, error) {
	f.query = query
	return f.res, f.err
}

type fakeMaps struct{}

func (fakeMaps) StaticMapFor(c transport.Coordinates) (string, error) {
	if c.IsZero() {
		return "", apperr.InvalidInput("x (lng) or y (lat) is empty")
	}
	return "http://static.example.com/map?center=" + c.X + "," + c.Y, nil
}

func newTestRouter(r *fakeResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/place", New(r, fakeMaps{}).LookupPlace)
	return engine
}

func get(engine *gin.Engine, query string) *httptest.ResponseRecorder {
	target := "/place"
	if query != "" {
		target += "?q=" + url.QueryEscape(query)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestLookupPlace(t *testing.T) {
	resolver := &fakeResolver{res: service.Resolution{
		Query:    "강남역",
		Strategy: service.StrategyOfficial,
		Record: transport.PlaceRecord{
			Title:       "강남역",
			Coordinates: transport.Coordinates{X: "127.0", Y: "37.5", System: transport.EPSG4326},
		},
		Path: []service.State{service.StateStart, service.StateStrategySelect, service.StateOfficialSearch, service.StateResolved},
	}}

	rec := get(newTestRouter(resolver), "강남역")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if resolver.query != "강남역" {
		t.Fatalf("resolver query = %q", resolver.query)
	}

	var resp transport.LookupResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.MapURL != "http://static.example.com/map?center=127.0,37.5" {
		t.Fatalf("map url = %q", resp.MapURL)
	}
	if resp.Strategy != "official" || len(resp.Path) != 4 || resp.Path[3] != "resolved" {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Place.Coordinates.System != transport.EPSG4326 {
		t.Fatalf("system lost: %+v", resp.Place.Coordinates)
	}
}

func TestLookupPlaceMissingQuery(t *testing.T) {
	rec := get(newTestRouter(&fakeResolver{}), "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLookupPlaceNotFound(t *testing.T) {
	resolver := &fakeResolver{err: apperr.Wrap(apperr.KindNotFound, "no place found", apperr.EmptyResult("empty response"))}

	rec := get(newTestRouter(resolver), "없는장소")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body httpkit.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Kind != "not_found" {
		t.Fatalf("kind = %q", body.Kind)
	}
}
