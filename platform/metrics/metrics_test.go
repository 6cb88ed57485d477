package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveResolution("official", "resolved")
	m.ObserveUpstream("geocode", "ok", time.Millisecond)
	m.IncrementCommands("discord")
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.ObserveResolution("official", "resolved")
	m.ObserveUpstream("geocode", "ok", 10*time.Millisecond)
	m.IncrementCommands("webhook")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`navermap_resolutions_total{state="resolved",strategy="official"} 1`,
		`navermap_upstream_requests_total{result="ok",service="geocode"} 1`,
		`navermap_commands_total{surface="webhook"} 1`,
		`navermap_upstream_request_duration_seconds_count{service="geocode"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
}
