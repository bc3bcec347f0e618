package ports_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/aretw0/sortviz/pkg/ports"
)

// MockStore is an in-memory implementation of RunStore for testing purposes.
type MockStore struct {
	mu   sync.Mutex
	data map[string]*domain.Run
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Run),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, run *domain.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = run.Clone()
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return run.Clone(), nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestRunStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, NewMockStore())
}
