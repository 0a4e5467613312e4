// Package reporter delivers simulated positions to the tracking backend and
// to optional mirror sinks.
package reporter

import (
	"context"

	"github.com/ukydev/transit-simulator/internal/models"
)

// Reporter sends a position to the tracking backend.
type Reporter interface {
	Report(ctx context.Context, pos models.PositionReport) error
}

// Publisher mirrors positions to a secondary sink such as a message broker.
type Publisher interface {
	Publish(ctx context.Context, pos models.PositionReport) error
	Close() error
}
