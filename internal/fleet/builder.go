// Package fleet builds simulated vehicles from route data and stores them.
package fleet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/transit-simulator/internal/models"
)

// Strategy selects which routes receive vehicles.
type Strategy string

const (
	// StrategyFirst uses the first usable route matching each mode.
	StrategyFirst Strategy = "first"
	// StrategyAll uses every usable route matching each mode.
	StrategyAll Strategy = "all"
	// StrategyEvery ignores modes and uses every usable route.
	StrategyEvery Strategy = "every"
)

// ErrUnknownStrategy is returned by Build for an unrecognised strategy.
var ErrUnknownStrategy = errors.New("unknown fleet strategy")

// Builder creates vehicles for routes.
type Builder struct {
	PerRoute int
	Rand     Rand
	Logger   logrus.FieldLogger

	// Progress, when set, is called once per route (StrategyEvery) or once
	// per mode (other strategies).
	Progress func()
}

// NewBuilder returns a Builder placing perRoute vehicles on each selected route.
func NewBuilder(perRoute int, rng Rand, logger logrus.FieldLogger) *Builder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Builder{PerRoute: perRoute, Rand: rng, Logger: logger}
}

// Steps returns how many times Progress will be called by Build.
func Steps(routes []models.RouteFeature, modes []string, strategy Strategy) int {
	if strategy == StrategyEvery {
		return len(routes)
	}
	return len(UniqueModes(modes))
}

// Build creates vehicles following strategy.
func (b *Builder) Build(routes []models.RouteFeature, modes []string, strategy Strategy) ([]*models.Vehicle, error) {
	switch strategy {
	case StrategyEvery:
		return b.EveryRoute(routes), nil
	case StrategyFirst:
		return b.ForModes(routes, modes, true), nil
	case StrategyAll:
		return b.ForModes(routes, modes, false), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
}

// EveryRoute creates PerRoute vehicles on every route with coordinates,
// in dataset order. Each vehicle takes the mode of its route.
func (b *Builder) EveryRoute(routes []models.RouteFeature) []*models.Vehicle {
	vehicles := make([]*models.Vehicle, 0, len(routes)*b.PerRoute)
	for _, r := range routes {
		b.step()
		if !r.Usable() {
			b.skip(r)
			continue
		}
		vehicles = append(vehicles, b.forRoute(r, r.Mode)...)
	}
	return vehicles
}

// ForModes creates vehicles for each supported mode. With firstOnly only the
// first usable matching route is used. A mode without a usable route is
// logged and skipped.
func (b *Builder) ForModes(routes []models.RouteFeature, modes []string, firstOnly bool) []*models.Vehicle {
	var vehicles []*models.Vehicle
	for _, mode := range UniqueModes(modes) {
		b.step()
		matched := 0
		for _, r := range routes {
			if !models.SameMode(r.Mode, mode) {
				continue
			}
			if !r.Usable() {
				b.skip(r)
				continue
			}
			vehicles = append(vehicles, b.forRoute(r, mode)...)
			matched++
			if firstOnly {
				break
			}
		}
		if matched == 0 {
			b.Logger.WithField("mode", mode).Warn("No route found for mode")
		}
	}
	return vehicles
}

func (b *Builder) forRoute(r models.RouteFeature, mode string) []*models.Vehicle {
	out := make([]*models.Vehicle, 0, b.PerRoute)
	for seq := 1; seq <= b.PerRoute; seq++ {
		out = append(out, &models.Vehicle{
			ID:            VehicleID(mode, r.Index, seq),
			Mode:          mode,
			Path:          r.Path,
			PositionIndex: b.Rand.Intn(len(r.Path)),
		})
	}
	return out
}

func (b *Builder) skip(r models.RouteFeature) {
	b.Logger.WithFields(logrus.Fields{
		"mode":        r.Mode,
		"route_index": r.Index,
	}).Warn("Skipping route with no coordinates")
}

func (b *Builder) step() {
	if b.Progress != nil {
		b.Progress()
	}
}

// VehicleID names a vehicle after its mode, route index and 1-based sequence
// number on that route, e.g. "paratransitbus_4_2".
func VehicleID(mode string, routeIndex, seq int) string {
	return fmt.Sprintf("%s_%d_%d", models.ModeSlug(mode), routeIndex, seq)
}

// UniqueModes trims mode names and drops blanks and case-insensitive
// duplicates, keeping the first spelling seen.
func UniqueModes(modes []string) []string {
	seen := make(map[string]struct{}, len(modes))
	out := make([]string, 0, len(modes))
	for _, m := range modes {
		m = strings.TrimSpace(m)
		key := strings.ToLower(m)
		if m == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}
