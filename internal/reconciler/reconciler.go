package reconciler

import (
	"context"
	"sync"
	"time"

	"ticketbooker/internal/models"
	"ticketbooker/internal/shared/clock"
	"ticketbooker/internal/shared/config"
	"ticketbooker/pkg/logger"
	"ticketbooker/pkg/metrics"
)

// BookingExpirer moves overdue PENDING bookings to EXPIRED
type BookingExpirer interface {
	ExpireBookings(ctx context.Context) ([]models.Booking, error)
}

// SeatExpirer releases lapsed seat locks no live booking still claims
type SeatExpirer interface {
	ExpireLockedSeats(ctx context.Context) (int, error)
}

// Flusher retries persistence of anything a failed flush left behind
type Flusher interface {
	Flush(ctx context.Context) error
}

// Report describes one reconciliation pass
type Report struct {
	StartedAt       time.Time     `json:"started_at"`
	Duration        time.Duration `json:"duration"`
	ExpiredBookings int           `json:"expired_bookings"`
	ReleasedSeats   int           `json:"released_seats"`
	Failures        int           `json:"failures"`
	Errors          []string      `json:"errors,omitempty"`
}

// Status is a snapshot of the reconciler's schedule and history
type Status struct {
	Enabled              bool      `json:"enabled"`
	Running              bool      `json:"running"`
	Interval             string    `json:"interval"`
	TotalRuns            int       `json:"total_runs"`
	TotalExpiredBookings int       `json:"total_expired_bookings"`
	TotalReleasedSeats   int       `json:"total_released_seats"`
	TotalFailures        int       `json:"total_failures"`
	LastRun              *Report   `json:"last_run,omitempty"`
	NextRunAfter         time.Time `json:"next_run_after,omitempty"`
}

// Reconciler periodically expires abandoned reservations. Bookings go
// first so their seats are released under the booking's own accounting
// before the orphan sweep looks at what remains.
type Reconciler struct {
	bookings BookingExpirer
	seats    SeatExpirer
	flusher  Flusher
	clock    clock.Clock
	config   config.ReconcilerConfig
	log      *logger.Logger

	runMu sync.Mutex // one pass at a time

	mu      sync.Mutex
	status  Status
	done    chan struct{}
	stopped chan struct{}
}

func New(bookings BookingExpirer, seats SeatExpirer, flusher Flusher, clk clock.Clock, cfg config.ReconcilerConfig) *Reconciler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	return &Reconciler{
		bookings: bookings,
		seats:    seats,
		flusher:  flusher,
		clock:    clk,
		config:   cfg,
		log:      logger.GetDefault().WithComponent("reconciler"),
		status: Status{
			Enabled:  cfg.Enabled,
			Interval: cfg.Interval.String(),
		},
	}
}

// Start launches the periodic loop. It is a no-op when disabled or
// already running.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.config.Enabled || r.status.Running {
		return
	}

	ticker := r.clock.NewTicker(r.config.Interval)
	r.done = make(chan struct{})
	r.stopped = make(chan struct{})
	r.status.Running = true
	r.status.NextRunAfter = r.clock.Now().Add(r.config.Interval)

	go r.loop(ctx, ticker, r.done, r.stopped)

	r.log.InfoWithContext(ctx, "Expiry reconciler started", map[string]interface{}{
		"interval": r.config.Interval.String(),
	})
}

// Stop halts the loop and waits for an in-flight pass to finish
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if !r.status.Running {
		r.mu.Unlock()
		return
	}
	close(r.done)
	stopped := r.stopped
	r.mu.Unlock()

	<-stopped
	r.log.Info("Expiry reconciler stopped")
}

func (r *Reconciler) loop(ctx context.Context, ticker clock.Ticker, done <-chan struct{}, stopped chan<- struct{}) {
	defer func() {
		ticker.Stop()
		r.mu.Lock()
		r.status.Running = false
		r.status.NextRunAfter = time.Time{}
		r.mu.Unlock()
		close(stopped)
	}()

	for {
		select {
		case <-ticker.C():
			r.RunOnce(ctx)
			r.mu.Lock()
			r.status.NextRunAfter = r.clock.Now().Add(r.config.Interval)
			r.mu.Unlock()
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs a single pass. A failing step is logged and counted and
// the remaining steps still run.
func (r *Reconciler) RunOnce(ctx context.Context) Report {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	start := r.clock.Now()
	wallStart := time.Now()
	report := Report{StartedAt: start}

	fail := func(step string, err error) {
		report.Failures++
		report.Errors = append(report.Errors, step+": "+err.Error())
		r.log.ErrorWithContext(ctx, "Reconciler step failed", err, map[string]interface{}{
			"step": step,
		})
	}

	if expired, err := r.bookings.ExpireBookings(ctx); err != nil {
		fail("expire_bookings", err)
	} else {
		report.ExpiredBookings = len(expired)
	}

	if released, err := r.seats.ExpireLockedSeats(ctx); err != nil {
		fail("expire_seats", err)
	} else {
		report.ReleasedSeats = released
	}

	if r.flusher != nil {
		if err := r.flusher.Flush(ctx); err != nil {
			fail("flush", err)
		}
	}

	report.Duration = time.Since(wallStart)
	metrics.ReconcilerPass(report.Duration, report.Failures)

	r.mu.Lock()
	r.status.TotalRuns++
	r.status.TotalExpiredBookings += report.ExpiredBookings
	r.status.TotalReleasedSeats += report.ReleasedSeats
	r.status.TotalFailures += report.Failures
	last := report
	r.status.LastRun = &last
	r.mu.Unlock()

	if report.ExpiredBookings > 0 || report.ReleasedSeats > 0 || report.Failures > 0 {
		r.log.InfoWithContext(ctx, "Reconciler pass complete", map[string]interface{}{
			"expired_bookings": report.ExpiredBookings,
			"released_seats":   report.ReleasedSeats,
			"failures":         report.Failures,
			"duration_ms":      report.Duration.Milliseconds(),
		})
	}
	return report
}

// Status returns a copy of the current status
func (r *Reconciler) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.status
	if s.LastRun != nil {
		last := *s.LastRun
		s.LastRun = &last
	}
	return s
}
