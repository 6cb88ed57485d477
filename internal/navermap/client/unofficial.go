package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"navermap_bot/internal/navermap/links"
	"navermap_bot/internal/navermap/normalize"
	"navermap_bot/internal/navermap/transport"
	"navermap_bot/platform/apperr"
	"navermap_bot/platform/config"
	"navermap_bot/platform/logger"
	"navermap_bot/platform/metrics"
)

const unofficialOKCode = "0"

// UnofficialClient queries the undocumented map.naver.com search endpoint.
type UnofficialClient struct {
	req      requester
	endpoint string
	links    *links.Builder
}

// NewUnofficialClient creates an unofficial search client.
func NewUnofficialClient(cfg config.UnofficialSearchConfig, b *links.Builder, httpClient *http.Client, log *logger.Logger, m *metrics.Metrics) *UnofficialClient {
	return &UnofficialClient{
		req:      newRequester(httpClient, log, m),
		endpoint: cfg.GetUnofficialSearchEndpoint(),
		links:    b,
	}
}

// looseString accepts a JSON string or number; the endpoint is not consistent about either.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = looseString(n.String())
	return nil
}

type unofficialResponse struct {
	Result *struct {
		Code looseString `json:"code"`
		Site *struct {
			List []unofficialPlace `json:"list"`
		} `json:"site"`
	} `json:"result"`
}

type unofficialPlace struct {
	ID          looseString `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Address     string      `json:"address"`
	Tel         string      `json:"tel"`
	X           looseString `json:"x"`
	Y           looseString `json:"y"`
}

func (p unofficialPlace) toTransport() transport.UnofficialPlace {
	return transport.UnofficialPlace{
		ID:          string(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		Tel:         p.Tel,
		X:           string(p.X),
		Y:           string(p.Y),
	}
}

// Search returns the first listed place for query as a display-ready record.
// Coordinates come straight from the listing, tagged EPSG:4326.
func (c *UnofficialClient) Search(ctx context.Context, query string) (transport.PlaceRecord, error) {
	const op = "client.UnofficialClient.Search"
	if err := requireQuery(op, query); err != nil {
		return transport.PlaceRecord{}, err
	}

	params := url.Values{}
	params.Set("query", query)

	body, err := c.req.get(ctx, serviceUnofficial, c.endpoint, params, "")
	if err != nil {
		return transport.PlaceRecord{}, err
	}

	var payload unofficialResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return transport.PlaceRecord{}, apperr.Malformed("decode json", err).WithOp(op)
	}

	if payload.Result == nil || strings.TrimSpace(string(payload.Result.Code)) != unofficialOKCode {
		code := ""
		if payload.Result != nil {
			code = string(payload.Result.Code)
		}
		return transport.PlaceRecord{}, apperr.Upstream("bad response from server").
			WithOp(op).
			WithDetails(map[string]string{"code": code})
	}

	site := payload.Result.Site
	if site == nil || len(site.List) == 0 {
		return transport.PlaceRecord{}, apperr.EmptyResult("empty response").WithOp(op)
	}

	record := normalize.Unofficial(site.List[0].toTransport(), c.links)
	if record.Coordinates.IsZero() {
		return transport.PlaceRecord{}, apperr.EmptyResult("place has no coordinates").WithOp(op)
	}
	return record, nil
}
