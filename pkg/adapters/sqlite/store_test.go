package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/sortviz/internal/runtime"
	"github.com/aretw0/sortviz/pkg/adapters/sqlite"
	"github.com/aretw0/sortviz/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestSQLiteStore_Contract(t *testing.T) {
	s, _ := openStore(t)
	ports.RunStoreContract(t, s)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	s, path := openStore(t)
	ctx := context.Background()

	run, err := runtime.NewCountingEngine().Produce([]int{4, 2, 2})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "persisted", run))
	require.NoError(t, s.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, run.Summary(), loaded.Summary())
	assert.Equal(t, run.Timeline.All(), loaded.Timeline.All())
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	run, err := runtime.NewBubbleEngine().Produce([]int{1})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "older", run))
	require.NoError(t, s.Save(ctx, "newer", run))

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"newer", "older"}, ids)
}
