// Package transport holds the place record shared by every resolution path
// and the raw upstream variants it is normalized from.
package transport

import "strings"

// CoordinateSystem identifies how a coordinate pair is interpreted.
type CoordinateSystem string

const (
	// EPSG4326 is longitude/latitude.
	EPSG4326 CoordinateSystem = "EPSG:4326"
	// TM128 is the Naver TM128 projection, spelled the way the static map API expects it.
	TM128 CoordinateSystem = "NHN:128"
)

// Coordinates is a coordinate pair with its system. X is longitude (or TM128 easting).
type Coordinates struct {
	X      string           `json:"x"`
	Y      string           `json:"y"`
	System CoordinateSystem `json:"system"`
}

// IsZero reports whether either half of the pair is missing.
func (c Coordinates) IsZero() bool {
	return c.X == "" || c.Y == ""
}

// PlaceRecord is the unified result of a resolution, ready for display.
type PlaceRecord struct {
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Address       string      `json:"address,omitempty"`
	Telephone     string      `json:"telephone,omitempty"`
	Coordinates   Coordinates `json:"coordinates"`
	CanonicalLink string      `json:"canonicalLink,omitempty"`
	AppDeepLink   string      `json:"appDeepLink,omitempty"`
}

// OfficialItem is the first item of an official place search feed.
// Title and Description are sanitized by the client; everything else is raw.
type OfficialItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Category    string `xml:"category"`
	Description string `xml:"description"`
	Telephone   string `xml:"telephone"`
	Address     string `xml:"address"`
	RoadAddress string `xml:"roadAddress"`
	MapX        string `xml:"mapx"`
	MapY        string `xml:"mapy"`
}

// HasDirectCoordinates reports whether the item can be displayed without
// geocoding. Whitespace-only fields count as missing.
func (i OfficialItem) HasDirectCoordinates() bool {
	return strings.TrimSpace(i.Link) != "" &&
		strings.TrimSpace(i.MapX) != "" &&
		strings.TrimSpace(i.MapY) != ""
}

// GeocodeItem is the first matched item of a geocode feed.
type GeocodeItem struct {
	Address string      `json:"address,omitempty"`
	Point   Coordinates `json:"point"`
}

// UnofficialPlace is one entry of the unofficial search listing.
type UnofficialPlace struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Tel         string `json:"tel"`
	X           string `json:"x"`
	Y           string `json:"y"`
}

// LookupRequest represents the query parameters of the lookup endpoint.
type LookupRequest struct {
	Query string `form:"q" binding:"required,max=200"`
}

// LookupResponse is the lookup endpoint payload.
type LookupResponse struct {
	Place    PlaceRecord `json:"place"`
	MapURL   string      `json:"mapUrl"`
	Strategy string      `json:"strategy"`
	Path     []string    `json:"path"`
}
