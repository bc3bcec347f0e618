package tui

import (
	"strings"
	"testing"

	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStep_Bubble(t *testing.T) {
	step := domain.Step{
		Algorithm:     domain.AlgorithmBubble,
		Array:         []int{4, 2, 1},
		InitialArray:  []int{4, 2, 1},
		Primary:       0,
		Secondary:     1,
		SortedIndices: []int{2},
		Animation:     domain.AnimationCompare,
	}

	out := RenderStep(step, 0, 5, termenv.Ascii, 32)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "bubble  step 1/5  compare", lines[0])
	assert.Equal(t, "  0     4  "+strings.Repeat("█", 8)+"  ◀ comparingIndex", lines[1])
	assert.Equal(t, "  1     2  "+strings.Repeat("█", 4)+"  ◀ swapIndex", lines[2])
	assert.Equal(t, "  2     1  "+strings.Repeat("█", 2), lines[3])
}

func TestRenderStep_Counting(t *testing.T) {
	step := domain.Step{
		Algorithm:     domain.AlgorithmCounting,
		Array:         []int{2, 1, 1},
		InitialArray:  []int{2, 1, 1},
		Primary:       1,
		Secondary:     1,
		SortedIndices: []int{},
		Animation:     domain.AnimationSet,
		Counting: &domain.CountingFrame{
			Counter:         []int{0, 1, 1},
			CounterBase:     0,
			ArrayVisibility: []int{1, 1, 1},
			ShowCountArray:  true,
		},
	}

	out := RenderStep(step, 2, 7, termenv.Ascii, 0)
	assert.Contains(t, out, "counting  step 3/7  set")
	assert.Contains(t, out, "◀ currentIndex\n")
	assert.NotContains(t, out, "currentIndex, ")
	assert.Contains(t, out, "value    0   1   2\ncount    0   1   1\n")
}

func TestRenderStep_HiddenAndNegative(t *testing.T) {
	step := domain.Step{
		Algorithm:    domain.AlgorithmCounting,
		Array:        []int{-2, 3},
		InitialArray: []int{-2, 3},
		Primary:      0,
		Secondary:    0,
		Animation:    domain.AnimationGet,
		Completed:    true,
		Counting: &domain.CountingFrame{
			Counter:         []int{1, 0, 0, 0, 0, 1},
			CounterBase:     -2,
			ArrayVisibility: []int{1, 0},
		},
	}

	out := RenderStep(step, 0, 1, termenv.Ascii, 0)
	assert.Contains(t, out, "(completed)")
	assert.Contains(t, out, "░")
	assert.Contains(t, out, "·")
	assert.NotContains(t, out, "value")
}
