package models

import (
	"time"

	"github.com/paulmach/orb"
)

// PositionReport is one simulated position handed to the reporters.
type PositionReport struct {
	VehicleID string    `json:"vehicle_id"`
	Mode      string    `json:"mode"`
	Location  Location  `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPositionReport builds a report for a vehicle at the given point.
func NewPositionReport(v *Vehicle, p orb.Point, at time.Time) PositionReport {
	return PositionReport{
		VehicleID: v.ID,
		Mode:      v.Mode,
		Location:  LocationFromPoint(p),
		Timestamp: at,
	}
}
