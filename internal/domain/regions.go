package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Region is an administrative subdivision used as the aggregation key.
type Region struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

// regions lists the nine South African provinces in display order.
var regions = []Region{
	{Name: "Western Cape", Coordinates: Coordinates{Lat: -33.2277, Lng: 21.8569}},
	{Name: "Eastern Cape", Coordinates: Coordinates{Lat: -32.2968, Lng: 26.4194}},
	{Name: "Northern Cape", Coordinates: Coordinates{Lat: -29.0467, Lng: 21.8569}},
	{Name: "Free State", Coordinates: Coordinates{Lat: -28.4541, Lng: 26.7968}},
	{Name: "KwaZulu-Natal", Coordinates: Coordinates{Lat: -28.5305, Lng: 30.8958}},
	{Name: "North West", Coordinates: Coordinates{Lat: -26.6638, Lng: 25.2837}},
	{Name: "Gauteng", Coordinates: Coordinates{Lat: -26.2708, Lng: 28.1123}},
	{Name: "Mpumalanga", Coordinates: Coordinates{Lat: -25.5653, Lng: 30.5279}},
	{Name: "Limpopo", Coordinates: Coordinates{Lat: -23.4013, Lng: 29.4179}},
}

var regionCoordinates = func() map[string]Coordinates {
	m := make(map[string]Coordinates, len(regions))
	for _, r := range regions {
		m[r.Name] = r.Coordinates
	}
	return m
}()

// Regions returns a copy of the static region table.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// SearchRegions returns the regions whose names contain query, ignoring case,
// in table order. An empty query matches nothing.
func SearchRegions(query string) []Region {
	out := make([]Region, 0)
	if query == "" {
		return out
	}
	q := strings.ToLower(query)
	for _, r := range regions {
		if strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, r)
		}
	}
	return out
}

// FindRegion returns the first region SearchRegions suggests for query.
// A blank query finds nothing.
func FindRegion(query string) (Region, bool) {
	if strings.TrimSpace(query) == "" {
		return Region{}, false
	}
	matches := SearchRegions(query)
	if len(matches) == 0 {
		return Region{}, false
	}
	return matches[0], true
}

// LookupCoordinates returns the table coordinates for a region name.
// Unrecognized names yield (0,0) and false.
func LookupCoordinates(name string) (Coordinates, bool) {
	c, ok := regionCoordinates[name]
	return c, ok
}

// MapSearchURL builds a map search link centred on c.
func MapSearchURL(c Coordinates) string {
	q := url.Values{
		"api":   {"1"},
		"query": {fmt.Sprintf("%g,%g", c.Lat, c.Lng)},
	}
	return "https://www.google.com/maps/search/?" + q.Encode()
}
