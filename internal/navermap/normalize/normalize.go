// Package normalize turns each upstream result variant into a PlaceRecord.
package normalize

import (
	"strings"

	"navermap_bot/internal/navermap/links"
	"navermap_bot/internal/navermap/transport"
	"navermap_bot/platform/sanitize"
)

// Official builds a record from an official search item that carries its own
// coordinates. mapx/mapy are tagged EPSG:4326.
func Official(item transport.OfficialItem) transport.PlaceRecord {
	return transport.PlaceRecord{
		Title:       sanitize.Text(item.Title),
		Description: sanitize.Text(item.Description),
		Address:     sanitize.Text(item.Address),
		Telephone:   strings.TrimSpace(item.Telephone),
		Coordinates: transport.Coordinates{
			X:      strings.TrimSpace(item.MapX),
			Y:      strings.TrimSpace(item.MapY),
			System: transport.EPSG4326,
		},
		CanonicalLink: strings.TrimSpace(item.Link),
	}
}

// Geocode builds a record from a geocode point. The feed has no display
// fields, so only the title chosen by the caller is set.
func Geocode(item transport.GeocodeItem, title string) transport.PlaceRecord {
	return transport.PlaceRecord{
		Title:       title,
		Coordinates: item.Point,
	}
}

// Unofficial builds a record from an unofficial listing entry, including the
// info page and app links derived from its id.
func Unofficial(place transport.UnofficialPlace, b *links.Builder) transport.PlaceRecord {
	title := sanitize.Text(place.Name)
	coords := transport.Coordinates{
		X:      strings.TrimSpace(place.X),
		Y:      strings.TrimSpace(place.Y),
		System: transport.EPSG4326,
	}
	code := links.PlaceCode(place.ID)

	return transport.PlaceRecord{
		Title:         title,
		Description:   sanitize.Text(place.Description),
		Address:       sanitize.Text(place.Address),
		Telephone:     place.Tel,
		Coordinates:   coords,
		CanonicalLink: b.PlaceInfo(code),
		AppDeepLink:   b.AppLink(code, coords, title),
	}
}
