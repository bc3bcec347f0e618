package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep_MarshalJSON_MarkerNames(t *testing.T) {
	tests := []struct {
		algorithm domain.Algorithm
		want      []string
		absent    []string
	}{
		{domain.AlgorithmBubble, []string{`"comparingIndex":1`, `"swapIndex":2`}, []string{"currentIndex", "minIndex"}},
		{domain.AlgorithmInsertion, []string{`"currentIndex":1`, `"comparingIndex":2`}, []string{"swapIndex", "minIndex"}},
		{domain.AlgorithmSelection, []string{`"currentIndex":1`, `"minIndex":2`}, []string{"swapIndex", "comparingIndex"}},
		{domain.AlgorithmCounting, []string{`"currentIndex":1`}, []string{"swapIndex", "comparingIndex", "minIndex"}},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm.String(), func(t *testing.T) {
			s := domain.Step{
				Algorithm: tt.algorithm,
				Array:     []int{3, 1, 2},
				Primary:   1,
				Secondary: 2,
				Animation: domain.AnimationCompare,
			}
			data, err := json.Marshal(s)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, string(data), w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, string(data), a)
			}
			assert.Contains(t, string(data), `"sortedIndices":[]`)
		})
	}
}

func TestStep_JSON_CountingFrame(t *testing.T) {
	s := domain.Step{
		Algorithm:     domain.AlgorithmCounting,
		Array:         []int{1, 2},
		InitialArray:  []int{2, 1},
		Primary:       1,
		Secondary:     1,
		SortedIndices: []int{0},
		Completed:     true,
		Animation:     domain.AnimationNone,
		Counting: &domain.CountingFrame{
			Counter:         []int{0, 0, 0},
			CounterBase:     -1,
			ArrayVisibility: []int{1, 1},
			ShowCountArray:  false,
		},
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"showCountArray":false`)
	assert.Contains(t, string(data), `"counterBase":-1`)

	var back domain.Step
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}

func TestStep_Clone_NoAliasing(t *testing.T) {
	s := domain.Step{
		Array:         []int{1, 2},
		InitialArray:  []int{2, 1},
		SortedIndices: []int{0},
		Counting:      &domain.CountingFrame{Counter: []int{1}, ArrayVisibility: []int{0, 1}},
	}
	c := s.Clone()
	c.Array[0] = 99
	c.InitialArray[0] = 99
	c.SortedIndices[0] = 99
	c.Counting.Counter[0] = 99
	c.Counting.ArrayVisibility[0] = 99

	assert.Equal(t, []int{1, 2}, s.Array)
	assert.Equal(t, []int{2, 1}, s.InitialArray)
	assert.Equal(t, []int{0}, s.SortedIndices)
	assert.Equal(t, []int{1}, s.Counting.Counter)
	assert.Equal(t, []int{0, 1}, s.Counting.ArrayVisibility)
}

func TestParseAlgorithm(t *testing.T) {
	for _, name := range []string{"bubble", "Insertion", " selection ", "counting", "count"} {
		_, err := domain.ParseAlgorithm(name)
		assert.NoError(t, err, name)
	}

	_, err := domain.ParseAlgorithm("quick")
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
}
