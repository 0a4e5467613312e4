package models

import (
	"errors"

	"github.com/paulmach/orb"
)

// ErrEmptyPath is returned when a vehicle has no coordinates to move along.
var ErrEmptyPath = errors.New("vehicle path is empty")

// Vehicle is a simulated transit vehicle walking a fixed path. Path is
// shared with the route it was built from and is never modified.
type Vehicle struct {
	ID            string         `json:"id"`
	Mode          string         `json:"mode"`
	Path          orb.LineString `json:"path"`
	PositionIndex int            `json:"positionIndex"`
}

// Cursor returns PositionIndex wrapped into [0, len(Path)).
func (v *Vehicle) Cursor() int {
	n := len(v.Path)
	if n == 0 {
		return 0
	}
	i := v.PositionIndex % n
	if i < 0 {
		i += n
	}
	return i
}

// Current returns the point under the cursor.
func (v *Vehicle) Current() (orb.Point, error) {
	if len(v.Path) == 0 {
		return orb.Point{}, ErrEmptyPath
	}
	return v.Path[v.Cursor()], nil
}

// Advance moves the vehicle one point along its path, looping back to the start.
func (v *Vehicle) Advance() {
	if len(v.Path) == 0 {
		return
	}
	v.PositionIndex = (v.Cursor() + 1) % len(v.Path)
}
