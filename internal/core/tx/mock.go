package tx

import (
	"context"
	"sync"
)

// MockManager runs fn directly. Use in unit tests of domain services.
type MockManager struct {
	mu    sync.Mutex
	calls int
}

// RunInTransaction implements Manager.
func (m *MockManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return fn(ctx)
}

// ReadOnly implements ReadOnlyManager.
func (m *MockManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransaction(ctx, fn)
}

// Calls returns how many transactions were started.
func (m *MockManager) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ ReadOnlyManager = (*MockManager)(nil)
