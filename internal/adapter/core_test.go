package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulatedCore(t *testing.T) {
	c := NewSimulatedCore()

	assert.Equal(t, int64(200_000_000), c.SecondsToMu(0.2))

	first := c.RtioCounterMu()
	second := c.RtioCounterMu()
	assert.Equal(t, c.TickMu, second-first)

	c.Advance(5_000_000)
	assert.Equal(t, second+5_000_000+c.TickMu, c.RtioCounterMu())

	assert.False(t, c.Closed())
	c.Close()
	assert.True(t, c.Closed())
}
