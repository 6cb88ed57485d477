// Package links builds the URLs placed in replies: the static map image,
// the place info page and the mobile app deep link. Nothing here touches the network.
package links

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"navermap_bot/internal/navermap/transport"
	"navermap_bot/platform/apperr"
	"navermap_bot/platform/config"
)

const (
	staticMapVersion = "1.1"
	staticMapLevel   = 11
	staticMapSize    = 640
	appLinkVersion   = 10
)

// Builder holds the fixed parameters for every generated link.
type Builder struct {
	staticMapEndpoint string
	mapKey            string
	mapHost           string
	placeInfoEndpoint string
	appLinkEndpoint   string
}

// LinksConfig combines the config needed to build links.
type LinksConfig interface {
	config.MapConfig
	config.UnofficialSearchConfig
}

// NewBuilder creates a Builder from configuration.
func NewBuilder(cfg LinksConfig) *Builder {
	return &Builder{
		staticMapEndpoint: cfg.GetStaticMapEndpoint(),
		mapKey:            cfg.GetMapKey(),
		mapHost:           cfg.GetMapHost(),
		placeInfoEndpoint: cfg.GetPlaceInfoEndpoint(),
		appLinkEndpoint:   cfg.GetAppLinkEndpoint(),
	}
}

// StaticMap returns the static map image URL centered on and marking (x, y).
// An empty crs falls back to TM128.
func (b *Builder) StaticMap(x, y string, crs transport.CoordinateSystem) (string, error) {
	if x == "" || y == "" {
		return "", apperr.InvalidInput("x (lng) or y (lat) is empty").WithOp("links.StaticMap")
	}
	if crs == "" {
		crs = transport.TM128
	}

	point := x + "," + y
	params := url.Values{}
	params.Set("version", staticMapVersion)
	params.Set("key", b.mapKey)
	params.Set("uri", b.mapHost)
	params.Set("level", strconv.Itoa(staticMapLevel))
	params.Set("crs", string(crs))
	params.Set("exception", "inimage")
	params.Set("w", strconv.Itoa(staticMapSize))
	params.Set("h", strconv.Itoa(staticMapSize))
	params.Set("baselayer", "default")
	params.Set("maptype", "default")
	params.Set("format", "png")
	params.Set("center", point)
	params.Set("markers", point)

	return join(b.staticMapEndpoint, params), nil
}

// StaticMapFor is StaticMap for a coordinate pair.
func (b *Builder) StaticMapFor(c transport.Coordinates) (string, error) {
	return b.StaticMap(c.X, c.Y, c.System)
}

// PlaceInfo returns the info page URL for a place code.
func (b *Builder) PlaceInfo(code string) string {
	if code == "" {
		return ""
	}
	params := url.Values{}
	params.Set("code", code)
	return join(b.placeInfoEndpoint, params)
}

// AppLink returns the mobile app deep link pinning a place.
func (b *Builder) AppLink(code string, c transport.Coordinates, title string) string {
	if code == "" || c.IsZero() {
		return ""
	}
	params := url.Values{}
	params.Set("version", strconv.Itoa(appLinkVersion))
	params.Set("app", "Y")
	params.Set("appMenu", "location")
	params.Set("pinType", "site")
	params.Set("pinId", code)
	params.Set("lat", c.Y)
	params.Set("lng", c.X)
	params.Set("title", title)
	return join(b.appLinkEndpoint, params)
}

// PlaceCode turns an unofficial listing id ("s12345") into the code used by links.
func PlaceCode(id string) string {
	_, size := utf8.DecodeRuneInString(id)
	return id[size:]
}

func join(endpoint string, params url.Values) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + params.Encode()
}
