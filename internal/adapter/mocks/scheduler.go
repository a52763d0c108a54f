// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockScheduler is a mock implementation of adapter.Scheduler.
type MockScheduler struct {
	mock.Mock
}

// NewMockScheduler creates a new MockScheduler whose expectations are
// asserted during test cleanup.
func NewMockScheduler(t *testing.T) *MockScheduler {
	m := &MockScheduler{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockScheduler) CheckPause() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockScheduler) Pause() error {
	args := m.Called()
	return args.Error(0)
}
