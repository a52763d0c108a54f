package adapter

import "time"

// CoreDevice exposes the timing facilities of the real-time coprocessor that
// the device scan strategy needs: a monotonic device clock in machine units
// and the conversion from wall-clock seconds. The device runner uses it to
// bound how often it pays the round trip of a pause check.
type CoreDevice interface {
	SecondsToMu(seconds float64) int64
	RtioCounterMu() int64
	Close()
}

// SimulatedCore is a CoreDevice backed by a fake clock that advances by a
// fixed number of machine units every time it is read. Deterministic, so
// tests can pin down exactly when pause checks become due.
type SimulatedCore struct {
	// MuPerSecond is the clock resolution; the usual 1 ns machine unit.
	MuPerSecond float64

	// TickMu is how far the counter advances per read.
	TickMu int64

	nowMu  int64
	closed bool
}

// NewSimulatedCore creates a simulated core with nanosecond machine units
// advancing 1 ms per counter read.
func NewSimulatedCore() *SimulatedCore {
	return &SimulatedCore{MuPerSecond: 1e9, TickMu: int64(time.Millisecond.Nanoseconds())}
}

func (c *SimulatedCore) SecondsToMu(seconds float64) int64 {
	return int64(seconds * c.MuPerSecond)
}

func (c *SimulatedCore) RtioCounterMu() int64 {
	c.nowMu += c.TickMu
	return c.nowMu
}

// Advance moves the clock forward without a read, e.g. to simulate a long
// point execution.
func (c *SimulatedCore) Advance(mu int64) { c.nowMu += mu }

func (c *SimulatedCore) Close() { c.closed = true }

// Closed reports whether Close has been called.
func (c *SimulatedCore) Closed() bool { return c.closed }
