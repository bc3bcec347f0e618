package mcp

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/aretw0/sortviz"
	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	eng, err := sortviz.New()
	require.NoError(t, err)
	return NewServer(eng)
}

func TestInitSort(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	tests := []struct {
		name  string
		array any
	}{
		{"json numbers", []any{float64(5), float64(1), float64(4), float64(2), float64(8)}},
		{"numeric strings", []any{"5", "1", "4", "2", "8"}},
		{"json string", "[5, 1, 4, 2, 8]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := s.handleInitSort(ctx, mcp.CallToolRequest{}, map[string]any{
				"algorithm":  "bubble",
				"array":      tt.array,
				"session_id": "m1",
			})
			require.NoError(t, err)
			assert.Equal(t, []int{5, 1, 4, 2, 8}, summary.OriginalArray)
			assert.Equal(t, []int{1, 2, 4, 5, 8}, summary.SortedArray)
		})
	}
}

func TestInitSort_Errors(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	_, err := s.handleInitSort(ctx, mcp.CallToolRequest{}, map[string]any{"algorithm": "heap", "array": []any{1.0}})
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)

	_, err = s.handleInitSort(ctx, mcp.CallToolRequest{}, map[string]any{"algorithm": "bubble", "array": []any{}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.handleInitSort(ctx, mcp.CallToolRequest{}, map[string]any{"algorithm": "bubble", "array": "[1,"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.handleInitSort(ctx, mcp.CallToolRequest{}, map[string]any{"algorithm": "bubble", "array": []any{"x"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetStepsAndStep(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	summary, err := s.handleInitSort(ctx, mcp.CallToolRequest{}, map[string]any{
		"algorithm": "insertion",
		"array":     []any{2.0, 1.0},
	})
	require.NoError(t, err)

	all, err := s.handleGetSteps(ctx, mcp.CallToolRequest{}, map[string]any{})
	require.NoError(t, err)
	require.Len(t, all.Steps, summary.TotalSteps)

	other, err := s.handleGetSteps(ctx, mcp.CallToolRequest{}, map[string]any{"algorithm": "bubble"})
	require.NoError(t, err)
	assert.Empty(t, other.Steps)

	resp, err := s.handleGetStep(ctx, mcp.CallToolRequest{}, map[string]any{"index": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.StepNumber)
	assert.Equal(t, all.Steps[3], resp.State)
	assert.Equal(t, domain.AnimationInserted, resp.State.Animation)

	_, err = s.handleGetStep(ctx, mcp.CallToolRequest{}, map[string]any{"index": 99.0})
	assert.ErrorIs(t, err, domain.ErrInvalidStepIndex)

	_, err = s.handleGetStep(ctx, mcp.CallToolRequest{}, map[string]any{})
	assert.ErrorIs(t, err, domain.ErrInvalidStepIndex)

	for _, index := range []any{1.5, -0.5, "1.5", math.Inf(1), math.NaN()} {
		_, err = s.handleGetStep(ctx, mcp.CallToolRequest{}, map[string]any{"index": index})
		assert.ErrorIs(t, err, domain.ErrInvalidStepIndex, "%v", index)
	}
}

func TestInitSort_RejectsFractions(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	for _, array := range []any{[]any{2.0, 1.5}, "[2, 1.5]", []any{1e300}} {
		_, err := s.handleInitSort(ctx, mcp.CallToolRequest{}, map[string]any{"algorithm": "bubble", "array": array})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%v", array)
	}

	steps, err := s.handleGetSteps(ctx, mcp.CallToolRequest{}, map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, steps.Steps)
}

func TestGetSteps_Sessions(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	_, err := s.handleInitSort(ctx, mcp.CallToolRequest{}, map[string]any{
		"algorithm":  "selection",
		"array":      []any{3.0, 1.0, 2.0},
		"session_id": "a",
	})
	require.NoError(t, err)

	b, err := s.handleGetSteps(ctx, mcp.CallToolRequest{}, map[string]any{"session_id": "b"})
	require.NoError(t, err)
	assert.Empty(t, b.Steps)

	a, err := s.handleGetSteps(ctx, mcp.CallToolRequest{}, map[string]any{"session_id": "a"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.Steps)
}

func TestRegisteredToolsAndResources(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	tools := s.MCPServer().ListTools()
	for _, name := range []string{"init_sort", "get_steps", "get_step"} {
		assert.Contains(t, tools, name)
	}

	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "resources/read",
		"params":  map[string]any{"uri": algorithmsURI},
	})
	require.NoError(t, err)

	msg := s.MCPServer().HandleMessage(ctx, raw)
	out, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(out), `[\"bubble\",\"insertion\",\"selection\",\"counting\"]`)
}
