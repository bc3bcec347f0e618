package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sortviz/internal/runtime"
	"github.com/aretw0/sortviz/pkg/adapters/memory"
	"github.com/aretw0/sortviz/pkg/adapters/redis"
	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/aretw0/sortviz/pkg/ports"
	"github.com/aretw0/sortviz/pkg/session"
)

// SlowStore simulates latency and counts overlapping writes to the same session.
type SlowStore struct {
	data     map[string]*domain.Run
	mu       sync.Mutex
	inFlight atomic.Int32
	overlap  atomic.Bool
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, run *domain.Run) error {
	if s.inFlight.Add(1) > 1 {
		s.overlap.Store(true)
	}
	defer s.inFlight.Add(-1)
	time.Sleep(5 * time.Millisecond) // Simulate IO

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string]*domain.Run)
	}
	s.data[sessionID] = run
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.data[sessionID]; ok {
		return run, nil
	}
	return nil, domain.ErrRunNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_SerialisesWritesPerSession(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(val int) {
			defer wg.Done()
			run, err := runtime.NewBubbleEngine().Produce([]int{val, 1})
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, manager.Replace(ctx, "race-test", run))
		}(i)
	}
	wg.Wait()

	assert.False(t, store.overlap.Load(), "writes to one session must not overlap")
}

func TestManager_ReplaceLoadDelete(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.Load(ctx, "s")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	run, err := runtime.NewSelectionEngine().Produce([]int{2, 1})
	require.NoError(t, err)
	require.NoError(t, manager.Replace(ctx, "s", run))

	loaded, err := manager.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, domain.AlgorithmSelection, loaded.Algorithm)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s"}, ids)

	require.NoError(t, manager.Delete(ctx, "s"))
	require.NoError(t, manager.Delete(ctx, "s"))
	_, err = manager.Load(ctx, "s")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	assert.ErrorIs(t, manager.Replace(ctx, "s", nil), domain.ErrInvalidInput)
}

type failingLocker struct{}

func (failingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	return nil, errors.New("no quorum")
}

func TestManager_DistributedLock(t *testing.T) {
	t.Run("Redis Locker Released After Write", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()
		client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
		defer client.Close()

		manager := session.NewManager(memory.NewStore(),
			session.WithLocker(redis.NewLocker(client, "sortviz:")),
			session.WithLockTTL(time.Second),
		)
		run, err := runtime.NewBubbleEngine().Produce([]int{1})
		require.NoError(t, err)
		require.NoError(t, manager.Replace(context.Background(), "s1", run))
		assert.False(t, mr.Exists("sortviz:lock:s1"))
	})

	t.Run("Lock Failure Aborts Write", func(t *testing.T) {
		store := memory.NewStore()
		manager := session.NewManager(store, session.WithLocker(failingLocker{}))
		run, err := runtime.NewBubbleEngine().Produce([]int{1})
		require.NoError(t, err)

		assert.Error(t, manager.Replace(context.Background(), "s1", run))
		_, err = store.Load(context.Background(), "s1")
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})
}
