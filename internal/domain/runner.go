package domain

import (
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/atomloop/sweep/internal/adapter"
	"github.com/atomloop/sweep/internal/model"
)

// Runner drives a fragment through every coordinate tuple of a scan spec,
// pushing each committed point's coordinates to the matching axis sinks.
// Result data reaches external consumers incrementally through the sinks;
// there is no return value beyond the terminal error.
//
// A run cooperates with the external scheduler: when a pause is requested
// the runner stops between points, blocks in Scheduler.Pause and re-enters
// host setup afterwards, continuing from the same position in the point
// stream (no point is skipped or duplicated within one Run call). A
// scheduler termination request propagates as
// model.ErrTerminationRequested.
type Runner interface {
	Run(fragment adapter.Fragment, spec *ScanSpec, axisSinks []adapter.ResultSink) error
}

// RunnerOptions tunes failure recovery and, for the device strategy,
// chunking and pause polling.
type RunnerOptions struct {
	// MaxRTIOUnderflowRetries is the number of RTIO underflows to tolerate
	// per scan point (by simply trying again) before giving up. Three is a
	// pretty arbitrary default: we do not want to block forever on a faulty
	// experiment, but do want to tolerate a ~1% underflow chance where
	// tight timing is critical.
	MaxRTIOUnderflowRetries int

	// MaxTransitoryErrorRetries is the number of transitory errors to
	// tolerate per scan point before giving up.
	MaxTransitoryErrorRetries int

	// SkipOnPersistentTransitoryError skips a point (after logging an
	// error) instead of failing the scan when the transitory retry budget
	// is exhausted. Consequences for overall system robustness should be
	// considered before using this in automated code.
	SkipOnPersistentTransitoryError bool

	// ChunkSize is the number of points prefetched to the device loop per
	// blocking refill call. Balances RPC latency against device memory.
	ChunkSize int

	// PauseCheckInterval is the minimum time between scheduler pause polls
	// from the device loop, measured on the device clock.
	PauseCheckInterval time.Duration

	Logger *slog.Logger
}

func (o RunnerOptions) withDefaults() RunnerOptions {
	if o.MaxRTIOUnderflowRetries == 0 {
		o.MaxRTIOUnderflowRetries = 3
	}
	if o.MaxTransitoryErrorRetries == 0 {
		o.MaxTransitoryErrorRetries = 10
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = 10
	}
	if o.PauseCheckInterval == 0 {
		o.PauseCheckInterval = 200 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// SelectRunner picks the strategy matching where the fragment's per-point
// body executes: the chunked device loop for device-resident fragments, the
// plain host loop otherwise.
func SelectRunner(fragment adapter.Fragment, scheduler adapter.Scheduler,
	core adapter.CoreDevice, opts RunnerOptions) Runner {
	if fragment.RunsOnDevice() {
		return NewDeviceRunner(scheduler, core, opts)
	}
	return NewHostRunner(scheduler, opts)
}

// Per-point execution outcome.
type pointStatus int

const (
	// pointCommitted: point executed successfully, results complete.
	pointCommitted pointStatus = iota
	// pointPaused: a pause became due before the point executed; it remains
	// pending.
	pointPaused
	// pointRestart: a transitory error requires the device environment to
	// be restarted (host cleanup + setup) before the point, which remains
	// pending, is retried.
	pointRestart
	// pointSkipped: the transitory retry budget ran out and the runner is
	// configured to skip rather than abort.
	pointSkipped
)

type runnerBase struct {
	scheduler adapter.Scheduler
	opts      RunnerOptions
	log       *slog.Logger
}

func newRunnerBase(scheduler adapter.Scheduler, opts RunnerOptions) runnerBase {
	opts = opts.withDefaults()
	return runnerBase{scheduler: scheduler, opts: opts, log: opts.Logger}
}

// executePoint runs device setup plus the fragment body for the pending
// point, applying the bounded-retry policy. Every retry discards whatever
// the failed attempt pushed, so retries stay invisible downstream. The
// retry counters are local to this call: a device environment restart
// starts over with fresh budgets.
//
// shouldPause, when non-nil, is polled before every attempt (the device
// loop's rate-limited scheduler check); the host strategy checks for pauses
// between points instead and passes nil.
func (b *runnerBase) executePoint(fragment adapter.Fragment, batcher *ResultBatcher,
	shouldPause func() bool) (pointStatus, error) {
	numUnderflows := 0
	numTransitoryErrors := 0
	for {
		if shouldPause != nil && shouldPause() {
			return pointPaused, nil
		}

		err := fragment.DeviceSetup()
		if err == nil {
			err = fragment.RunOnce()
		}
		if err == nil {
			return pointCommitted, nil
		}

		transitory, isTransitory := model.AsTransitory(err)
		switch {
		case model.IsRTIOUnderflow(err):
			if numUnderflows >= b.opts.MaxRTIOUnderflowRetries {
				return 0, err
			}
			numUnderflows++
			b.log.Warn("ignoring RTIO underflow",
				"attempt", numUnderflows, "max", b.opts.MaxRTIOUnderflowRetries)
			batcher.DiscardCurrent()

		case isTransitory && transitory.RestartKernel:
			b.log.Warn("caught transitory error, restarting device environment", "err", err)
			batcher.DiscardCurrent()
			return pointRestart, nil

		case isTransitory:
			if numTransitoryErrors >= b.opts.MaxTransitoryErrorRetries {
				if b.opts.SkipOnPersistentTransitoryError {
					return pointSkipped, nil
				}
				return 0, err
			}
			numTransitoryErrors++
			b.log.Warn("caught transitory error, retrying",
				"attempt", numTransitoryErrors, "max", b.opts.MaxTransitoryErrorRetries, "err", err)
			batcher.DiscardCurrent()

		default:
			return 0, err
		}
	}
}

func (b *runnerBase) cleanupDevice(fragment adapter.Fragment) {
	if err := fragment.DeviceCleanup(); err != nil {
		b.log.Warn("device cleanup failed", "err", err)
	}
}

func (b *runnerBase) cleanupHost(fragment adapter.Fragment) {
	if err := fragment.HostCleanup(); err != nil {
		b.log.Warn("host cleanup failed", "err", err)
	}
}

// pointCursor wraps the pulled point stream with a one-point stash, so a
// point interrupted by a pause or an environment restart is re-attempted
// instead of lost.
type pointCursor struct {
	next    func() (model.Point, bool)
	pending model.Point
	valid   bool
}

func (c *pointCursor) current() (model.Point, bool) {
	if !c.valid {
		p, ok := c.next()
		if !ok {
			return nil, false
		}
		c.pending, c.valid = p, true
	}
	return c.pending, true
}

func (c *pointCursor) commit() { c.valid = false }

// HostRunner executes scans whose fragment body runs purely on the
// controlling process: one point at a time, pause check after every point.
type HostRunner struct {
	runnerBase
}

// NewHostRunner creates a host-strategy runner.
func NewHostRunner(scheduler adapter.Scheduler, opts RunnerOptions) *HostRunner {
	return &HostRunner{runnerBase: newRunnerBase(scheduler, opts)}
}

func (r *HostRunner) Run(fragment adapter.Fragment, spec *ScanSpec,
	axisSinks []adapter.ResultSink) error {
	if len(axisSinks) != len(spec.Axes) {
		return fmt.Errorf("%w: %d axes, %d sinks", ErrAxisGeneratorCount, len(spec.Axes), len(axisSinks))
	}
	r.log.Info("starting host scan", "axes", len(spec.Axes), "seed", spec.Options.Seed)

	next, stop := iter.Pull(spec.Points())
	defer stop()
	cursor := &pointCursor{next: next}

	for {
		// Pull in external parameter default changes after every pause (and
		// immediately as well, to keep the semantics uniform).
		fragment.RecomputeParamDefaults()
		complete, err := r.pass(fragment, spec, axisSinks, cursor)
		if err != nil {
			return err
		}
		if complete {
			return nil
		}
		if err := r.scheduler.Pause(); err != nil {
			return err
		}
	}
}

func (r *HostRunner) pass(fragment adapter.Fragment, spec *ScanSpec,
	axisSinks []adapter.ResultSink, cursor *pointCursor) (bool, error) {
	if err := fragment.HostSetup(); err != nil {
		return false, fmt.Errorf("host setup: %w", err)
	}
	defer r.cleanupHost(fragment)
	return r.acquire(fragment, spec, axisSinks, cursor)
}

// acquire executes points until the stream is exhausted (true) or the scan
// is interrupted by a pause or environment restart (false, come back after
// Pause).
func (r *HostRunner) acquire(fragment adapter.Fragment, spec *ScanSpec,
	axisSinks []adapter.ResultSink, cursor *pointCursor) (bool, error) {
	batcher := NewResultBatcher(fragment, r.log)
	batcher.Install()
	defer batcher.Remove()
	defer r.cleanupDevice(fragment)

	for {
		point, ok := cursor.current()
		if !ok {
			return true, nil
		}
		for i, axis := range spec.Axes {
			if err := axis.Store.SetValue(point[i]); err != nil {
				return false, err
			}
		}

		status, err := r.executePoint(fragment, batcher, nil)
		if err != nil {
			return false, err
		}
		switch status {
		case pointCommitted:
			if err := batcher.EnsureCompleteAndPush(); err != nil {
				return false, err
			}
			// Only record the axis coordinates now that the fragment is
			// known to have produced a complete point.
			for i, sink := range axisSinks {
				sink.Push(point[i])
			}
			cursor.commit()
		case pointSkipped:
			batcher.DiscardCurrent()
			r.log.Error("skipping point after persistent transitory errors", "point", fmt.Sprint(point))
			cursor.commit()
		case pointRestart:
			return false, nil
		}

		if r.scheduler.CheckPause() {
			return false, nil
		}
	}
}
