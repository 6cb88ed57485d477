// Package client provides the HTTP clients for the Naver place search,
// geocode and unofficial search APIs.
package client

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"navermap_bot/platform/apperr"
	"navermap_bot/platform/logger"
	"navermap_bot/platform/metrics"

	"golang.org/x/net/html/charset"
)

const (
	userAgent         = "NaverMapBot/1.0"
	maxBodyBytes      = 1 << 20
	defaultTimeout    = 10 * time.Second
	serviceSearch     = "place_search"
	serviceGeocode    = "geocode"
	serviceUnofficial = "unofficial_search"
)

// requester performs the GET calls shared by every client.
type requester struct {
	http    *http.Client
	log     *logger.Logger
	metrics *metrics.Metrics
}

func newRequester(httpClient *http.Client, log *logger.Logger, m *metrics.Metrics) requester {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return requester{http: httpClient, log: log, metrics: m}
}

// get issues GET endpoint?params and returns the body of a 200 response.
func (r requester) get(ctx context.Context, service, endpoint string, params url.Values, referer string) ([]byte, error) {
	op := service + ".get"
	reqURL := endpoint
	if encoded := params.Encode(); encoded != "" {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		reqURL = endpoint + sep + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "create request", err).WithOp(op)
	}
	req.Header.Set("User-Agent", userAgent)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	start := time.Now()
	resp, err := r.http.Do(req)
	if err != nil {
		r.observe(service, "transport_error", start)
		r.log.Error("naver request failed", "service", service, "error", err)
		return nil, apperr.Wrap(apperr.KindUpstream, "request failed", err).WithOp(op)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		r.observe(service, "bad_status", start)
		r.log.Error("naver upstream error", "service", service, "status", resp.StatusCode)
		return nil, apperr.Upstream(fmt.Sprintf("bad response from server: %d", resp.StatusCode)).
			WithOp(op).
			WithDetails(map[string]int{"status": resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		r.observe(service, "read_error", start)
		return nil, apperr.Wrap(apperr.KindUpstream, "read body", err).WithOp(op)
	}

	r.observe(service, "ok", start)
	return body, nil
}

func (r requester) observe(service, result string, start time.Time) {
	r.metrics.ObserveUpstream(service, result, time.Since(start))
}

// feedError is the root node Naver returns instead of a feed when it rejects a call.
type feedError struct {
	Code    string `xml:"error_code"`
	Message string `xml:"message"`
}

// decodeFeed decodes an XML body whose root element is expected to be root.
// A root <error> node means the server rejected the request; any other root
// means there is nothing usable in the response.
func decodeFeed(body []byte, root string, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return apperr.Malformed("empty xml document", err)
		}
		if err != nil {
			return apperr.Malformed("decode xml", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "error":
			var fe feedError
			_ = dec.DecodeElement(&fe, &start)
			msg := strings.TrimSpace("request rejected from server: " + fe.Code + " " + fe.Message)
			return apperr.Rejected(msg).WithDetails(fe)
		case root:
			if err := dec.DecodeElement(v, &start); err != nil {
				return apperr.Malformed("decode xml", err)
			}
			return nil
		default:
			return apperr.EmptyResult(fmt.Sprintf("unexpected root element <%s>", start.Name.Local))
		}
	}
}

func requireQuery(op, query string) error {
	if strings.TrimSpace(query) == "" {
		return apperr.InvalidInput("query is empty").WithOp(op)
	}
	return nil
}
