package mocks

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockResultSink is a mock implementation of adapter.ResultSink.
type MockResultSink struct {
	mock.Mock
}

// NewMockResultSink creates a new MockResultSink whose expectations are
// asserted during test cleanup.
func NewMockResultSink(t *testing.T) *MockResultSink {
	m := &MockResultSink{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockResultSink) Push(value any) {
	m.Called(value)
}
