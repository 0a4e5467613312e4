package models

import (
	"strings"

	"github.com/paulmach/orb"
)

// UnknownMode is used for routes that carry no mode property.
const UnknownMode = "Unknown"

// RouteFeature is a single route read from the geometry dataset.
type RouteFeature struct {
	Index int
	Mode  string
	Path  orb.LineString
}

// Usable reports whether the route has at least one coordinate.
func (r RouteFeature) Usable() bool {
	return len(r.Path) > 0
}

// ModeSlug lower-cases a mode name and strips all whitespace from it.
func ModeSlug(mode string) string {
	return strings.ToLower(strings.Join(strings.Fields(mode), ""))
}

// SameMode compares two mode names ignoring case and surrounding space.
func SameMode(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
