package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"navermap_bot/internal/navermap/links"
	"navermap_bot/platform/apperr"
	"navermap_bot/platform/logger"
	"navermap_bot/platform/metrics"
)

// testConfig points every endpoint at one httptest server.
type testConfig struct {
	baseURL string
}

func (c testConfig) GetSearchIdentifier() string         { return "http://bot.example.com/search" }
func (c testConfig) GetSearchKey() string                { return "search-key" }
func (c testConfig) GetSearchEndpoint() string           { return c.baseURL + "/search" }
func (c testConfig) GetMapIdentifier() string            { return "http://bot.example.com/map" }
func (c testConfig) GetMapKey() string                   { return "map-key" }
func (c testConfig) GetMapHost() string                  { return "bot.example.com" }
func (c testConfig) GetGeocodeEndpoint() string          { return c.baseURL + "/geocode" }
func (c testConfig) GetStaticMapEndpoint() string        { return c.baseURL + "/static" }
func (c testConfig) GetUnofficialSearchEndpoint() string { return c.baseURL + "/local" }
func (c testConfig) GetPlaceInfoEndpoint() string        { return "http://map.example.com/siteview.nhn" }
func (c testConfig) GetAppLinkEndpoint() string          { return "http://map.example.com/" }

// upstream is a canned response plus a record of what the client sent.
type upstream struct {
	status      int
	contentType string
	body        []byte
	hits        atomic.Int32
	lastQuery   atomic.Value
	lastReferer atomic.Value
}

func newUpstream(t *testing.T, status int, contentType string, body []byte) (*upstream, testConfig) {
	t.Helper()
	u := &upstream{status: status, contentType: contentType, body: body}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		u.lastQuery.Store(r.URL.Query())
		u.lastReferer.Store(r.Header.Get("Referer"))
		if u.contentType != "" {
			w.Header().Set("Content-Type", u.contentType)
		}
		w.WriteHeader(u.status)
		_, _ = w.Write(u.body)
	}))
	t.Cleanup(srv.Close)
	return u, testConfig{baseURL: srv.URL}
}

func (u *upstream) query() url.Values {
	v, _ := u.lastQuery.Load().(url.Values)
	return v
}

func (u *upstream) referer() string {
	v, _ := u.lastReferer.Load().(string)
	return v
}

func testBuilder(cfg testConfig) *links.Builder {
	return links.NewBuilder(cfg)
}

func testDeps() (*logger.Logger, *metrics.Metrics) {
	return logger.Discard(), metrics.New()
}

func asAppErr(err error, target **apperr.Error) bool {
	return errors.As(err, target)
}
