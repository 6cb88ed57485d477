package client

import (
	"context"
	"net/http"
	"testing"

	"navermap_bot/internal/navermap/transport"
	"navermap_bot/platform/apperr"
)

const geocodeFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<geocode>
  <userquery>서울특별시 강남구 역삼동 858</userquery>
  <total>1</total>
  <item>
    <address>서울특별시 강남구 역삼동 858</address>
    <addrdetail>
      <country>대한민국</country>
      <sido>서울특별시</sido>
    </addrdetail>
    <point>
      <x>381000</x>
      <y>540000</y>
    </point>
  </item>
</geocode>`

func TestGeocodeReturnsFirstPointTaggedTM128(t *testing.T) {
	up, cfg := newUpstream(t, http.StatusOK, "text/xml;charset=utf-8", []byte(geocodeFeedXML))
	log, m := testDeps()

	item, err := NewGeocodeClient(cfg, nil, log, m).Geocode(context.Background(), "서울특별시 강남구 역삼동 858")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	want := transport.Coordinates{X: "381000", Y: "540000", System: transport.TM128}
	if item.Point != want {
		t.Fatalf("point = %+v, want %+v", item.Point, want)
	}
	if item.Address != "서울특별시 강남구 역삼동 858" {
		t.Fatalf("address = %q", item.Address)
	}

	q := up.query()
	if q.Get("coord") != "tm128" || q.Get("encoding") != "utf-8" || q.Get("key") != "map-key" {
		t.Fatalf("unexpected query params: %v", q)
	}
	if up.referer() != "http://bot.example.com/map" {
		t.Fatalf("referer = %q", up.referer())
	}
}

func TestGeocodeWithLatLng(t *testing.T) {
	up, cfg := newUpstream(t, http.StatusOK, "text/xml", []byte(geocodeFeedXML))
	log, m := testDeps()

	c := NewGeocodeClient(cfg, nil, log, m).WithCoord("LATLNG")
	item, err := c.Geocode(context.Background(), "역삼동")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if item.Point.System != transport.EPSG4326 {
		t.Fatalf("system = %q, want EPSG:4326", item.Point.System)
	}
	if up.query().Get("coord") != "latlng" {
		t.Fatalf("coord param = %q", up.query().Get("coord"))
	}

	if c.WithCoord("bogus").System() != transport.TM128 {
		t.Fatalf("unknown coord should fall back to TM128")
	}
}

func TestGeocodeFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   apperr.Kind
	}{
		{name: "bad status", status: http.StatusServiceUnavailable, body: "", want: apperr.KindUpstream},
		{name: "error node", status: http.StatusOK, body: `<error><error_code>020</error_code><message>Unregistered key</message></error>`, want: apperr.KindUpstreamRejected},
		{name: "no items", status: http.StatusOK, body: `<geocode><userquery>x</userquery><total>0</total></geocode>`, want: apperr.KindEmptyResult},
		{name: "no point", status: http.StatusOK, body: `<geocode><item><address>서울</address></item></geocode>`, want: apperr.KindEmptyResult},
		{name: "rss root", status: http.StatusOK, body: `<rss><channel></channel></rss>`, want: apperr.KindEmptyResult},
		{name: "garbage", status: http.StatusOK, body: `<geocode><item>`, want: apperr.KindMalformedResponse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, cfg := newUpstream(t, tc.status, "text/xml", []byte(tc.body))
			log, m := testDeps()

			_, err := NewGeocodeClient(cfg, nil, log, m).Geocode(context.Background(), "서울")
			if got := apperr.GetKind(err); got != tc.want {
				t.Fatalf("kind = %s, want %s (err: %v)", got, tc.want, err)
			}
		})
	}
}
