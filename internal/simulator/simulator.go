// Package simulator moves vehicles along their paths on a fixed interval and
// reports every position.
//
// All vehicle cursors are owned by the goroutine calling Tick (or Run). Each
// tick captures every vehicle's coordinate, advances the vehicle, then hands
// an immutable PositionReport to its own goroutine for delivery. A vehicle
// therefore advances exactly once per tick whatever happens to its report,
// and overlapping ticks never touch the same cursor concurrently.
package simulator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/transit-simulator/internal/models"
	"github.com/ukydev/transit-simulator/internal/reporter"
	"golang.org/x/sync/errgroup"
)

// DefaultInterval is the time between ticks.
const DefaultInterval = 10 * time.Second

// DefaultShutdownTimeout bounds how long shutdown waits for in-flight reports.
const DefaultShutdownTimeout = 30 * time.Second

const deregisterTimeout = 10 * time.Second

// Deregisterer removes vehicles from the backend at shutdown.
type Deregisterer interface {
	Deregister(ctx context.Context, vehicleID string) error
}

// Options tune a Simulator. Zero values pick defaults.
type Options struct {
	Interval time.Duration

	// DrainTicks makes Tick wait for all of its reports before returning,
	// so a tick never overlaps the previous one.
	DrainTicks bool

	// MaxInFlight caps concurrent reports within one tick. 0 means no cap.
	MaxInFlight int

	// ShutdownTimeout caps the wait for in-flight reports when Run stops.
	ShutdownTimeout time.Duration

	Mirrors      []reporter.Publisher
	Deregisterer Deregisterer
	Logger       logrus.FieldLogger
	Now          func() time.Time
}

// Simulator drives a fleet of vehicles.
type Simulator struct {
	vehicles []*models.Vehicle
	reporter reporter.Reporter
	opts     Options
	inflight sync.WaitGroup
}

// New creates a simulator owning vehicles. Vehicles without coordinates are
// dropped with a warning.
func New(vehicles []*models.Vehicle, rep reporter.Reporter, opts Options) *Simulator {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	usable := make([]*models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if len(v.Path) == 0 {
			opts.Logger.WithField("vehicle_id", v.ID).Warn("Skipping vehicle with no coordinates")
			continue
		}
		usable = append(usable, v)
	}

	return &Simulator{vehicles: usable, reporter: rep, opts: opts}
}

// Vehicles returns the simulated vehicles.
func (s *Simulator) Vehicles() []*models.Vehicle {
	return s.vehicles
}

// Run ticks every interval until ctx is cancelled, then waits for in-flight
// reports and deregisters the fleet.
func (s *Simulator) Run(ctx context.Context) error {
	s.opts.Logger.WithFields(logrus.Fields{
		"vehicles":    len(s.vehicles),
		"interval":    s.opts.Interval,
		"drain_ticks": s.opts.DrainTicks,
	}).Info("Simulator started")

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick advances every vehicle one step and reports the position it was at.
// Reports are not cancelled with ctx; the reporter's own timeout bounds them.
func (s *Simulator) Tick(ctx context.Context) {
	reportCtx := context.WithoutCancel(ctx)
	at := s.opts.Now()

	var g errgroup.Group
	if s.opts.MaxInFlight > 0 {
		g.SetLimit(s.opts.MaxInFlight)
	}
	for _, v := range s.vehicles {
		pos, err := step(v, at)
		if err != nil {
			s.opts.Logger.WithField("vehicle_id", v.ID).WithError(err).Error("Cannot move vehicle")
			continue
		}
		g.Go(func() error {
			s.report(reportCtx, pos)
			return nil
		})
	}

	if s.opts.DrainTicks {
		_ = g.Wait()
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		_ = g.Wait()
	}()
}

// Wait blocks until every report started by earlier ticks has finished.
func (s *Simulator) Wait() {
	s.inflight.Wait()
}

// waitTimeout is Wait bounded by d. It reports whether all reports finished.
func (s *Simulator) waitTimeout(d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

func step(v *models.Vehicle, at time.Time) (models.PositionReport, error) {
	p, err := v.Current()
	if err != nil {
		return models.PositionReport{}, err
	}
	v.Advance()
	return models.NewPositionReport(v, p, at), nil
}

func (s *Simulator) report(ctx context.Context, pos models.PositionReport) {
	logger := s.opts.Logger.WithFields(logrus.Fields{
		"vehicle_id": pos.VehicleID,
		"mode":       pos.Mode,
	})

	if err := s.reporter.Report(ctx, pos); err != nil {
		logger.WithError(err).Error("Position report failed")
	} else {
		logger.WithFields(logrus.Fields{
			"lat": fmt.Sprintf("%.5f", pos.Location.Lat),
			"lon": fmt.Sprintf("%.5f", pos.Location.Lon),
		}).Info("Reported position")
	}

	for _, m := range s.opts.Mirrors {
		if err := m.Publish(ctx, pos); err != nil {
			logger.WithError(err).Warn("Mirror publish failed")
		}
	}
}

func (s *Simulator) shutdown() {
	s.opts.Logger.Info("Stopping simulator, waiting for in-flight reports")
	if !s.waitTimeout(s.opts.ShutdownTimeout) {
		s.opts.Logger.WithField("timeout", s.opts.ShutdownTimeout).Warn("Gave up waiting for in-flight reports")
	}

	if s.opts.Deregisterer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), deregisterTimeout)
		defer cancel()
		for _, v := range s.vehicles {
			if err := s.opts.Deregisterer.Deregister(ctx, v.ID); err != nil {
				s.opts.Logger.WithField("vehicle_id", v.ID).WithError(err).Warn("Failed to deregister vehicle")
			}
		}
	}

	s.opts.Logger.Info("Simulator stopped")
}
