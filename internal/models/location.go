package models

import "github.com/paulmach/orb"

// Location represents a geographical location with latitude and longitude coordinates.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LocationFromPoint converts a GeoJSON ordered point ([lon, lat]) into a Location.
func LocationFromPoint(p orb.Point) Location {
	return Location{Lat: p.Lat(), Lon: p.Lon()}
}
