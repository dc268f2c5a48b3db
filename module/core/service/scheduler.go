package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nandanugg/geofence-alerter/metrics"
	"github.com/nandanugg/geofence-alerter/module/core/domain"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/publisher"
)

const (
	DefaultCyclePeriod    = 5 * time.Second
	DefaultPublishTimeout = 5 * time.Second
)

type cycleRunner interface {
	RunCycle(ctx context.Context) ([]domain.TransitionEvent, error)
}

type SchedulerConfig struct {
	PublishTimeout time.Duration
}

// Scheduler drives the detector on a fixed period. At most one cycle is in
// flight; a tick that finds one running is dropped, never queued. Alerts are
// appended to an unbounded queue and published from a single dispatcher
// goroutine, so a slow sink cannot hold up a cycle and every transition
// reaches the sink in the order the cycles produced them.
type Scheduler struct {
	detector       cycleRunner
	sink           publisher.AlertPublisher
	publishTimeout time.Duration
	logger         *slog.Logger

	running  atomic.Bool
	inflight sync.WaitGroup

	qmu        sync.Mutex
	queue      []domain.TransitionEvent
	closing    bool
	signal     chan struct{}
	dispatched chan struct{}

	mu       sync.Mutex
	started  bool
	stopped  bool
	stop     chan struct{}
	loopDone chan struct{}
}

func NewScheduler(detector cycleRunner, sink publisher.AlertPublisher, cfg SchedulerConfig, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = DefaultPublishTimeout
	}
	s := &Scheduler{
		detector:       detector,
		sink:           sink,
		publishTimeout: cfg.PublishTimeout,
		logger:         logger,
		signal:         make(chan struct{}, 1),
		dispatched:     make(chan struct{}),
		stop:           make(chan struct{}),
		loopDone:       make(chan struct{}),
	}
	go s.dispatch()
	return s
}

// Start ticks every period until Stop is called or ctx is done.
// A non-positive period falls back to DefaultCyclePeriod.
func (s *Scheduler) Start(ctx context.Context, period time.Duration) {
	if period <= 0 {
		period = DefaultCyclePeriod
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true

	go func() {
		defer close(s.loopDone)
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		s.logger.Info("scheduler_started", "period", period.String())
		for {
			select {
			case <-ticker.C:
				s.Tick(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Tick starts one cycle unless one is already running. It reports whether a
// cycle was started; the cycle itself runs asynchronously.
func (s *Scheduler) Tick(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	if !s.running.CompareAndSwap(false, true) {
		metrics.TicksSkippedTotal.Inc()
		s.logger.Debug("tick_skipped", "reason", "cycle in flight")
		return false
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer s.running.Store(false)
		// a cycle that started finishes its membership writes even when the
		// caller is shutting down
		s.runCycle(context.WithoutCancel(ctx))
	}()
	return true
}

func (s *Scheduler) runCycle(ctx context.Context) {
	events, err := s.detector.RunCycle(ctx)
	if err != nil {
		s.logger.Error("cycle_failed", "error", err)
		return
	}
	s.enqueue(events)
}

func (s *Scheduler) enqueue(events []domain.TransitionEvent) {
	if len(events) == 0 {
		return
	}
	s.qmu.Lock()
	s.queue = append(s.queue, events...)
	metrics.AlertsPending.Set(float64(len(s.queue)))
	s.qmu.Unlock()
	s.wake()
}

func (s *Scheduler) wake() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// dispatch publishes queued alerts in order until Stop has been called and
// the queue is empty.
func (s *Scheduler) dispatch() {
	defer close(s.dispatched)
	for {
		s.qmu.Lock()
		if len(s.queue) == 0 {
			closing := s.closing
			s.qmu.Unlock()
			if closing {
				return
			}
			<-s.signal
			continue
		}
		batch := s.queue
		s.queue = nil
		metrics.AlertsPending.Set(0)
		s.qmu.Unlock()

		for i := range batch {
			s.publish(batch[i])
		}
	}
}

func (s *Scheduler) publish(ev domain.TransitionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
	defer cancel()
	if err := s.sink.PublishAlert(ctx, &ev); err != nil {
		metrics.AlertsFailedTotal.Inc()
		s.logger.Error("alert_publish_failed",
			"event_id", ev.EventID,
			"vehicle_id", ev.VehicleID,
			"zone_id", ev.ZoneID,
			"direction", ev.Direction,
			"error", err,
		)
		return
	}
	metrics.AlertsPublishedTotal.Inc()
}

// Stop halts ticking, waits for an in-flight cycle to finish, then drains the
// alerts it queued. Calling Stop more than once is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	started := s.started
	close(s.stop)
	s.mu.Unlock()

	if started {
		<-s.loopDone
	}
	s.inflight.Wait()

	s.qmu.Lock()
	s.closing = true
	s.qmu.Unlock()
	s.wake()
	<-s.dispatched
	s.logger.Info("scheduler_stopped")
}
