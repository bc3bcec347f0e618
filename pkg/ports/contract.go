package ports

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		run := contractRun(domain.AlgorithmBubble, []int{2, 1})

		err := store.Save(ctx, sessionID, run)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, run.Algorithm, loaded.Algorithm)
		assert.Equal(t, run.Summary(), loaded.Summary())
		assert.Equal(t, run.Timeline.All(), loaded.Timeline.All())
	})

	t.Run("Counting Frame Survives", func(t *testing.T) {
		id := sessionID + "-counting"
		run := contractRun(domain.AlgorithmCounting, []int{-1, 3})
		require.NoError(t, store.Save(ctx, id, run))
		defer func() { _ = store.Delete(ctx, id) }()

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		last, ok := loaded.Timeline.Last()
		require.True(t, ok)
		require.NotNil(t, last.Counting)
		assert.Equal(t, -1, last.Counting.CounterBase)
		assert.False(t, last.Counting.ShowCountArray)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		id := sessionID + "-replace"
		require.NoError(t, store.Save(ctx, id, contractRun(domain.AlgorithmBubble, []int{3, 2, 1})))
		require.NoError(t, store.Save(ctx, id, contractRun(domain.AlgorithmSelection, []int{9})))
		defer func() { _ = store.Delete(ctx, id) }()

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.AlgorithmSelection, loaded.Algorithm)
		assert.Equal(t, []int{9}, loaded.OriginalArray)
	})

	t.Run("Isolation From Caller", func(t *testing.T) {
		id := sessionID + "-isolation"
		run := contractRun(domain.AlgorithmInsertion, []int{2, 1})
		require.NoError(t, store.Save(ctx, id, run))
		defer func() { _ = store.Delete(ctx, id) }()

		run.OriginalArray[0] = 100
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1}, loaded.OriginalArray)

		loaded.SortedArray[0] = 100
		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, again.SortedArray)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, contractRun(domain.AlgorithmBubble, []int{1}))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, contractRun(domain.AlgorithmBubble, []int{1}))
		_ = store.Save(ctx, id2, contractRun(domain.AlgorithmBubble, []int{1}))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// contractRun builds a two step run by hand: a start frame and the terminal frame.
func contractRun(algorithm domain.Algorithm, input []int) *domain.Run {
	sorted := slices.Clone(input)
	slices.Sort(sorted)
	n := len(input)

	first := domain.Step{
		Algorithm:     algorithm,
		Array:         slices.Clone(input),
		InitialArray:  slices.Clone(input),
		SortedIndices: []int{},
		Animation:     domain.AnimationNone,
	}
	last := domain.Step{
		Algorithm:     algorithm,
		Array:         sorted,
		InitialArray:  slices.Clone(input),
		Primary:       n - 1,
		Secondary:     n - 1,
		SortedIndices: []int{0},
		Completed:     true,
		Animation:     domain.AnimationDone,
	}
	if algorithm == domain.AlgorithmCounting {
		base := min(0, slices.Min(input))
		first.Counting = &domain.CountingFrame{
			Counter:         make([]int, max(9, slices.Max(input))-base+1),
			CounterBase:     base,
			ArrayVisibility: make([]int, n),
			ShowCountArray:  true,
		}
		last.Counting = &domain.CountingFrame{
			Counter:         make([]int, len(first.Counting.Counter)),
			CounterBase:     base,
			ArrayVisibility: slices.Repeat([]int{1}, n),
		}
		last.Animation = domain.AnimationNone
	}

	tl := domain.NewTimeline(2)
	_ = tl.Append(first)
	_ = tl.Append(last)
	return &domain.Run{
		Algorithm:     algorithm,
		OriginalArray: slices.Clone(input),
		SortedArray:   slices.Clone(sorted),
		Message:       string(algorithm) + " sort completed successfully",
		Timeline:      tl,
	}
}
