package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "navermap_bot/internal/http"
	"navermap_bot/platform/logger"
	"navermap_bot/platform/metrics"

	"github.com/gin-gonic/gin"
)

type testHTTPConfig struct{}

func (testHTTPConfig) GetHTTPAddr() string      { return ":0" }
func (testHTTPConfig) GetWebhookSecret() string { return "s3cret" }

type pingModule struct{}

func (pingModule) Name() string { return "ping" }

func (pingModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Webhooks.POST("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := New(&apphttp.App{
		Config:  testHTTPConfig{},
		Logger:  logger.Discard(),
		Metrics: metrics.New(),
		Modules: []apphttp.Module{pingModule{}},
	})

	cases := []struct {
		method string
		path   string
		secret string
		want   int
	}{
		{method: http.MethodGet, path: "/api/health", want: http.StatusOK},
		{method: http.MethodGet, path: "/metrics", want: http.StatusOK},
		{method: http.MethodPost, path: "/api/v1/bot/ping", want: http.StatusUnauthorized},
		{method: http.MethodPost, path: "/api/v1/bot/ping", secret: "s3cret", want: http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if tc.secret != "" {
			req.Header.Set("X-Bot-Secret", tc.secret)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s %s: status = %d, want %d", tc.method, tc.path, rec.Code, tc.want)
		}
	}
}
