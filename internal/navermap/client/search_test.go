package client

import (
	"context"
	"net/http"
	"testing"

	"navermap_bot/platform/apperr"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/text/encoding/korean"
)

const searchFeedTwoItems = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Naver Open API - local</title>
    <total>2</total>
    <item>
      <title>&lt;b&gt;강남&lt;/b&gt;역 2호선</title>
      <link>http://www.seoulmetro.co.kr</link>
      <category>지하철,전철&gt;2호선</category>
      <description>&lt;b&gt;강남&lt;/b&gt; 대표 역</description>
      <telephone>02-6110-2221</telephone>
      <address>서울특별시 강남구 역삼동 858</address>
      <roadAddress>서울특별시 강남구 강남대로 396</roadAddress>
      <mapx>127.0276</mapx>
      <mapy>37.4979</mapy>
    </item>
    <item>
      <title>강남역 신분당선</title>
      <address>서울특별시 강남구 역삼동</address>
    </item>
  </channel>
</rss>`

func TestSearchReturnsFirstSanitizedItem(t *testing.T) {
	up, cfg := newUpstream(t, http.StatusOK, "text/xml; charset=utf-8", []byte(searchFeedTwoItems))
	log, m := testDeps()
	c := NewSearchClient(cfg, nil, log, m)

	item, err := c.Search(context.Background(), "강남역")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if item.Title != "강남역 2호선" {
		t.Fatalf("title = %q", item.Title)
	}
	if item.Description != "강남 대표 역" {
		t.Fatalf("description = %q", item.Description)
	}
	if item.Link != "http://www.seoulmetro.co.kr" || item.MapX != "127.0276" || item.MapY != "37.4979" {
		t.Fatalf("raw fields not passed through: %+v", item)
	}
	if !item.HasDirectCoordinates() {
		t.Fatalf("expected direct coordinates")
	}

	q := up.query()
	if q.Get("query") != "강남역" || q.Get("target") != "local" || q.Get("key") != "search-key" {
		t.Fatalf("unexpected query params: %v", q)
	}
	if q.Get("start") != "1" || q.Get("display") != "10" {
		t.Fatalf("paging params = %q/%q", q.Get("start"), q.Get("display"))
	}
	if up.referer() != "http://bot.example.com/search" {
		t.Fatalf("referer = %q", up.referer())
	}
	if got := testutil.ToFloat64(m.UpstreamRequests.WithLabelValues(serviceSearch, "ok")); got != 1 {
		t.Fatalf("ok requests = %v, want 1", got)
	}
}

func TestSearchDecodesLegacyCharset(t *testing.T) {
	feed := `<?xml version="1.0" encoding="EUC-KR"?><rss><channel><item><title>시청역</title><address>서울 중구</address></item></channel></rss>`
	encoded, err := korean.EUCKR.NewEncoder().String(feed)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, cfg := newUpstream(t, http.StatusOK, "text/xml", []byte(encoded))
	log, m := testDeps()

	item, err := NewSearchClient(cfg, nil, log, m).Search(context.Background(), "시청")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if item.Title != "시청역" || item.Address != "서울 중구" {
		t.Fatalf("decoded item = %+v", item)
	}
}

func TestSearchFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   apperr.Kind
	}{
		{
			name:   "bad status",
			status: http.StatusInternalServerError,
			body:   "oops",
			want:   apperr.KindUpstream,
		},
		{
			name:   "error node",
			status: http.StatusOK,
			body:   `<?xml version="1.0" encoding="UTF-8"?><error><error_code>010</error_code><message>Daily quota exceeded</message></error>`,
			want:   apperr.KindUpstreamRejected,
		},
		{
			name:   "no items",
			status: http.StatusOK,
			body:   `<rss><channel><total>0</total></channel></rss>`,
			want:   apperr.KindEmptyResult,
		},
		{
			name:   "no channel",
			status: http.StatusOK,
			body:   `<rss version="2.0"></rss>`,
			want:   apperr.KindEmptyResult,
		},
		{
			name:   "unexpected root",
			status: http.StatusOK,
			body:   `<!DOCTYPE html><html><body>maintenance</body></html>`,
			want:   apperr.KindEmptyResult,
		},
		{
			name:   "empty body",
			status: http.StatusOK,
			body:   "",
			want:   apperr.KindMalformedResponse,
		},
		{
			name:   "truncated",
			status: http.StatusOK,
			body:   `<rss><channel><item><title>강남`,
			want:   apperr.KindMalformedResponse,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, cfg := newUpstream(t, tc.status, "text/xml", []byte(tc.body))
			log, m := testDeps()

			_, err := NewSearchClient(cfg, nil, log, m).Search(context.Background(), "강남역")
			if got := apperr.GetKind(err); got != tc.want {
				t.Fatalf("kind = %s, want %s (err: %v)", got, tc.want, err)
			}
		})
	}
}

func TestSearchRejectedCarriesCode(t *testing.T) {
	body := `<error><error_code>024</error_code><message>Authentication failed</message></error>`
	_, cfg := newUpstream(t, http.StatusOK, "text/xml", []byte(body))
	log, m := testDeps()

	_, err := NewSearchClient(cfg, nil, log, m).Search(context.Background(), "강남역")
	var appErr *apperr.Error
	if !asAppErr(err, &appErr) {
		t.Fatalf("expected *apperr.Error, got %v", err)
	}
	fe, ok := appErr.Details.(feedError)
	if !ok || fe.Code != "024" {
		t.Fatalf("details = %#v, want error code 024", appErr.Details)
	}
}

func TestEmptyQueryNeverCallsUpstream(t *testing.T) {
	up, cfg := newUpstream(t, http.StatusOK, "text/xml", []byte(searchFeedTwoItems))
	log, m := testDeps()
	ctx := context.Background()

	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := NewSearchClient(cfg, nil, log, m).Search(ctx, q); !apperr.Is(err, apperr.KindInvalidInput) {
			t.Fatalf("search %q: err = %v, want invalid input", q, err)
		}
		if _, err := NewGeocodeClient(cfg, nil, log, m).Geocode(ctx, q); !apperr.Is(err, apperr.KindInvalidInput) {
			t.Fatalf("geocode %q: err = %v, want invalid input", q, err)
		}
		if _, err := NewUnofficialClient(cfg, testBuilder(cfg), nil, log, m).Search(ctx, q); !apperr.Is(err, apperr.KindInvalidInput) {
			t.Fatalf("unofficial %q: err = %v, want invalid input", q, err)
		}
	}
	if hits := up.hits.Load(); hits != 0 {
		t.Fatalf("upstream called %d times for empty queries", hits)
	}
}
