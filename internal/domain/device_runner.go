package domain

import (
	"fmt"
	"iter"

	"github.com/atomloop/sweep/internal/adapter"
	"github.com/atomloop/sweep/internal/model"
)

// Result of one device-side chunk iteration.
type chunkStatus int

const (
	// chunkProceed: chunk consumed, fetch the next one.
	chunkProceed chunkStatus = iota
	// chunkInterrupted: the loop exited for a pause or an environment
	// restart; re-enter acquire to continue.
	chunkInterrupted
	// chunkScanComplete: the point stream is exhausted. Distinct from
	// chunkInterrupted so callers never confuse running out of points with
	// pausing mid-chunk.
	chunkScanComplete
)

// DeviceRunner executes scans whose fragment body runs on the real-time
// coprocessor. To amortise host communication latency the device loop pulls
// points in chunks via a blocking refill call, executes them one at a time
// and reports each completion through a fire-and-forget notification back
// to the host.
//
// Host and device are two execution contexts of which only one is ever
// active; control transfers synchronously (host to device to start or
// resume the loop, device to host for refills and completion
// notifications). The in-process rendition keeps that strict alternation by
// plain nested calls: runChunk/runPoint are the device side, the
// *Chunk/*Point methods below are the host-side procedures they invoke.
type DeviceRunner struct {
	runnerBase
	core adapter.CoreDevice

	fragment  adapter.Fragment
	axes      []model.ScanAxis
	axisSinks []adapter.ResultSink

	// Host-side generator cursor plus the stash of points already handed to
	// the device loop but not yet committed, so interruptions resume
	// without losing or duplicating points.
	next         func() (model.Point, bool)
	currentChunk []model.Point

	// Per-axis setter routines, bound once ahead of the loop: the device
	// execution environment has no generic dispatch, so each axis gets its
	// own.
	setters []func(value any) error

	batcher *ResultBatcher

	pauseCheckIntervalMu int64
	lastPauseCheckMu     int64
}

// NewDeviceRunner creates a device-strategy runner on the given core
// device.
func NewDeviceRunner(scheduler adapter.Scheduler, core adapter.CoreDevice,
	opts RunnerOptions) *DeviceRunner {
	return &DeviceRunner{runnerBase: newRunnerBase(scheduler, opts), core: core}
}

func (r *DeviceRunner) Run(fragment adapter.Fragment, spec *ScanSpec,
	axisSinks []adapter.ResultSink) error {
	if len(axisSinks) != len(spec.Axes) {
		return fmt.Errorf("%w: %d axes, %d sinks", ErrAxisGeneratorCount, len(spec.Axes), len(axisSinks))
	}
	r.log.Info("starting device scan",
		"axes", len(spec.Axes), "seed", spec.Options.Seed, "chunk_size", r.opts.ChunkSize)

	r.fragment = fragment
	r.axes = spec.Axes
	r.axisSinks = axisSinks
	r.setters = make([]func(value any) error, len(spec.Axes))
	for i := range spec.Axes {
		store := spec.Axes[i].Store
		r.setters[i] = func(value any) error { return store.SetValue(value) }
	}
	r.pauseCheckIntervalMu = r.core.SecondsToMu(r.opts.PauseCheckInterval.Seconds())

	next, stop := iter.Pull(spec.Points())
	defer stop()
	r.next = next
	r.currentChunk = nil
	defer r.core.Close()

	// Pre-apply the first point so host-side code paths observe its values
	// before the device executes it.
	if err := r.updateHostParamStores(); err != nil {
		return err
	}

	for {
		fragment.RecomputeParamDefaults()
		complete, err := r.pass()
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

func (r *DeviceRunner) pass() (bool, error) {
	if err := r.fragment.HostSetup(); err != nil {
		return false, fmt.Errorf("host setup: %w", err)
	}
	defer r.cleanupHost(r.fragment)
	return r.acquire()
}

// acquire enters the device loop and runs it until the scan completes
// (true) or control returns to the host for a pause or environment restart
// (false).
func (r *DeviceRunner) acquire() (bool, error) {
	r.installResultBatcher()
	defer r.removeResultBatcher()
	defer r.cleanupDevice(r.fragment)

	r.lastPauseCheckMu = r.core.RtioCounterMu()
	for {
		status, err := r.runChunk()
		if err != nil {
			return false, err
		}
		switch status {
		case chunkInterrupted:
			return false, nil
		case chunkScanComplete:
			return true, nil
		}
	}
}

// runChunk fetches one chunk of parameter values from the host and executes
// its points. Device side.
func (r *DeviceRunner) runChunk() (chunkStatus, error) {
	values, err := r.paramValuesChunk()
	if err != nil {
		return 0, err
	}
	if len(values) == 0 || len(values[0]) == 0 {
		// No more points.
		return chunkScanComplete, nil
	}

	for i := range values[0] {
		for axis, set := range r.setters {
			if err := set(values[axis][i]); err != nil {
				return 0, err
			}
		}
		pause, err := r.runPoint()
		if err != nil {
			return 0, err
		}
		if pause {
			return chunkInterrupted, nil
		}
	}
	return chunkProceed, nil
}

// runPoint executes the fragment for a single point with the currently set
// parameters, returning whether the device loop should exit back to the
// host before continuing. Device side.
func (r *DeviceRunner) runPoint() (bool, error) {
	status, err := r.executePoint(r.fragment, r.batcher, r.shouldPause)
	if err != nil {
		return false, err
	}
	switch status {
	case pointPaused:
		return true, nil
	case pointRestart:
		// The pending point stays in the chunk and is retried after the
		// host re-runs setup.
		return true, nil
	case pointSkipped:
		r.skipPoint()
		return false, nil
	default:
		return false, r.pointCompleted()
	}
}

// shouldPause polls the scheduler at a bounded minimum interval on the
// device clock, so the scan does not pay a host round trip per point.
func (r *DeviceRunner) shouldPause() bool {
	now := r.core.RtioCounterMu()
	if now-r.lastPauseCheckMu > r.pauseCheckIntervalMu {
		r.lastPauseCheckMu = now
		return r.scheduler.CheckPause()
	}
	return false
}

// paramValuesChunk tops the current chunk up from the point stream and
// returns it as one value slice per axis, coerced to each axis's native
// type. Blocking host procedure.
func (r *DeviceRunner) paramValuesChunk() ([][]any, error) {
	r.refillChunk()

	values := make([][]any, len(r.axes))
	for i := range values {
		values[i] = make([]any, 0, len(r.currentChunk))
	}
	for _, p := range r.currentChunk {
		for i := range r.axes {
			v, err := r.axes[i].Store.Coerce(p[i])
			if err != nil {
				return nil, err
			}
			values[i] = append(values[i], v)
		}
	}
	return values, nil
}

func (r *DeviceRunner) refillChunk() {
	for len(r.currentChunk) < r.opts.ChunkSize {
		p, ok := r.next()
		if !ok {
			return
		}
		r.currentChunk = append(r.currentChunk, p)
	}
}

// pointCompleted pops the committed point, pushes its coordinates to the
// axis sinks and pre-applies the next pending point to the host-side
// stores. Fire-and-forget host procedure; the in-process transport executes
// it inline, so errors surface immediately rather than at the next blocking
// call.
func (r *DeviceRunner) pointCompleted() error {
	if err := r.batcher.EnsureCompleteAndPush(); err != nil {
		return err
	}

	point := r.currentChunk[0]
	r.currentChunk = r.currentChunk[1:]
	for i, sink := range r.axisSinks {
		sink.Push(point[i])
	}

	return r.updateHostParamStores()
}

// skipPoint drops the current point after its retry budget ran out.
// Fire-and-forget host procedure.
func (r *DeviceRunner) skipPoint() {
	r.batcher.DiscardCurrent()
	point := r.currentChunk[0]
	r.currentChunk = r.currentChunk[1:]
	r.log.Error("skipping point after persistent transitory errors", "point", fmt.Sprint(point))
	if err := r.updateHostParamStores(); err != nil {
		r.log.Warn("updating host parameter stores failed", "err", err)
	}
}

// updateHostParamStores sets the host-side parameter stores to the next
// pending point's values, so host code paths that need up-to-date values
// (e.g. a non-device setup step reached over RPC) observe them before the
// device executes the point.
func (r *DeviceRunner) updateHostParamStores() error {
	if r.isOutOfPoints() {
		return nil
	}
	next := r.currentChunk[0]
	for i := range r.axes {
		if err := r.axes[i].Store.SetValue(next[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *DeviceRunner) isOutOfPoints() bool {
	if len(r.currentChunk) > 0 {
		return false
	}
	// The chunk is empty, but we might just be at a chunk boundary.
	r.refillChunk()
	return len(r.currentChunk) == 0
}

func (r *DeviceRunner) installResultBatcher() {
	r.batcher = NewResultBatcher(r.fragment, r.log)
	r.batcher.Install()
}

func (r *DeviceRunner) removeResultBatcher() {
	r.batcher.Remove()
	r.batcher = nil
}
