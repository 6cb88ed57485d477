package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"navermap_bot/internal/navermap/transport"
	"navermap_bot/platform/apperr"
	"navermap_bot/platform/config"
	"navermap_bot/platform/logger"
	"navermap_bot/platform/metrics"
)

// Values accepted by the geocode API's coord parameter.
const (
	CoordTM128  = "tm128"
	CoordLatLng = "latlng"
)

// GeocodeClient queries the official geocoding API.
type GeocodeClient struct {
	req      requester
	endpoint string
	referer  string
	key      string
	coord    string
}

// NewGeocodeClient creates a geocode client requesting TM128 points.
func NewGeocodeClient(cfg config.MapConfig, httpClient *http.Client, log *logger.Logger, m *metrics.Metrics) *GeocodeClient {
	return &GeocodeClient{
		req:      newRequester(httpClient, log, m),
		endpoint: cfg.GetGeocodeEndpoint(),
		referer:  cfg.GetMapIdentifier(),
		key:      cfg.GetMapKey(),
		coord:    CoordTM128,
	}
}

// WithCoord switches the requested coordinate system. Unknown values keep TM128.
func (c *GeocodeClient) WithCoord(coord string) *GeocodeClient {
	switch strings.ToLower(coord) {
	case CoordLatLng:
		c.coord = CoordLatLng
	default:
		c.coord = CoordTM128
	}
	return c
}

// System returns the coordinate system points are tagged with.
func (c *GeocodeClient) System() transport.CoordinateSystem {
	if c.coord == CoordLatLng {
		return transport.EPSG4326
	}
	return transport.TM128
}

type geocodeFeed struct {
	Items []struct {
		Address string `xml:"address"`
		Point   struct {
			X string `xml:"x"`
			Y string `xml:"y"`
		} `xml:"point"`
	} `xml:"item"`
}

// Geocode returns the first matched point for query.
func (c *GeocodeClient) Geocode(ctx context.Context, query string) (transport.GeocodeItem, error) {
	const op = "client.GeocodeClient.Geocode"
	if err := requireQuery(op, query); err != nil {
		return transport.GeocodeItem{}, err
	}

	params := url.Values{}
	params.Set("key", c.key)
	params.Set("encoding", "utf-8")
	params.Set("coord", c.coord)
	params.Set("query", query)

	body, err := c.req.get(ctx, serviceGeocode, c.endpoint, params, c.referer)
	if err != nil {
		return transport.GeocodeItem{}, err
	}

	var feed geocodeFeed
	if err := decodeFeed(body, "geocode", &feed); err != nil {
		return transport.GeocodeItem{}, err
	}
	if len(feed.Items) == 0 {
		return transport.GeocodeItem{}, apperr.EmptyResult("empty response").WithOp(op)
	}

	first := feed.Items[0]
	item := transport.GeocodeItem{
		Address: strings.TrimSpace(first.Address),
		Point: transport.Coordinates{
			X:      strings.TrimSpace(first.Point.X),
			Y:      strings.TrimSpace(first.Point.Y),
			System: c.System(),
		},
	}
	if item.Point.IsZero() {
		return transport.GeocodeItem{}, apperr.EmptyResult("geocode item has no point").WithOp(op)
	}
	return item, nil
}
