package middleware_test

import (
	"context"
	"errors"

	"github.com/aretw0/sortviz/pkg/domain"
)

var errBackend = errors.New("backend down")

// MockStore is a simple map-based store for testing middleware.
// It stores pointers as given so tests can corrupt entries behind the middleware.
type MockStore struct {
	data    map[string]*domain.Run
	failing bool
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Run),
	}
}

func (s *MockStore) Save(ctx context.Context, sessionID string, run *domain.Run) error {
	if s.failing {
		return errBackend
	}
	s.data[sessionID] = run
	return nil
}

func (s *MockStore) Load(ctx context.Context, sessionID string) (*domain.Run, error) {
	if s.failing {
		return nil, errBackend
	}
	run, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return run, nil
}

func (s *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(s.data, sessionID)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}
