package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/sortviz"
	"github.com/aretw0/sortviz/internal/logging"
	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/aretw0/sortviz/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

const algorithmsURI = "sortviz://algorithms"

// InitArgs are the arguments of the init_sort tool.
type InitArgs struct {
	Algorithm string `mapstructure:"algorithm"`
	Array     []int  `mapstructure:"array"`
	SessionID string `mapstructure:"session_id"`
}

// StepsArgs are the arguments of the get_steps tool.
type StepsArgs struct {
	Algorithm string `mapstructure:"algorithm"`
	SessionID string `mapstructure:"session_id"`
}

// StepArgs are the arguments of the get_step tool.
type StepArgs struct {
	Index     int    `mapstructure:"index"`
	SessionID string `mapstructure:"session_id"`
}

// StepsResponse wraps the steps list so the tool output is an object.
type StepsResponse struct {
	Steps []domain.Step `json:"steps" jsonschema_description:"Every step of the session's run, in order"`
}

// Server wraps a Recorder and exposes it as an MCP Server.
type Server struct {
	recorder  ports.Recorder
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the MCP server.
type Option func(*Server)

// WithLogger sets the logger used by the SSE transport.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(rec ports.Recorder, opts ...Option) *Server {
	s := &Server{
		recorder:  rec,
		mcpServer: server.NewMCPServer("sortviz-mcp", strings.TrimSpace(sortviz.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx ends.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("MCP Server shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: init_sort
	initTool := mcp.NewTool("init_sort",
		mcp.WithDescription("Record a sorting algorithm on an integer array and make it the session's current run."),
		mcp.WithString("algorithm", mcp.Required(),
			mcp.Description("Algorithm to record"),
			mcp.Enum("bubble", "insertion", "selection", "counting"),
		),
		mcp.WithArray("array", mcp.Required(),
			mcp.Description("Integers to sort"),
			mcp.Items(map[string]any{"type": "integer"}),
		),
		mcp.WithString("session_id", mcp.Description("Session to record into (optional)")),
		mcp.WithOutputSchema[domain.InitSummary](),
	)
	s.mcpServer.AddTool(initTool, mcp.NewStructuredToolHandler(s.handleInitSort))

	// TOOL: get_steps
	stepsTool := mcp.NewTool("get_steps",
		mcp.WithDescription("List every step of the session's current run."),
		mcp.WithString("algorithm", mcp.Description("Only return steps recorded by this algorithm (optional)")),
		mcp.WithString("session_id", mcp.Description("Session to read (optional)")),
		mcp.WithOutputSchema[StepsResponse](),
	)
	s.mcpServer.AddTool(stepsTool, mcp.NewStructuredToolHandler(s.handleGetSteps))

	// TOOL: get_step
	stepTool := mcp.NewTool("get_step",
		mcp.WithDescription("Get one step of the session's current run by index."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based step index")),
		mcp.WithString("session_id", mcp.Description("Session to read (optional)")),
		mcp.WithOutputSchema[domain.StepResponse](),
	)
	s.mcpServer.AddTool(stepTool, mcp.NewStructuredToolHandler(s.handleGetStep))
}

// decodeArgs maps loosely typed tool arguments onto dest. JSON numbers arrive as
// float64 and some clients send them as strings, so weak typing is on.
func decodeArgs(args map[string]any, dest any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       wholeNumberHook,
		WeaklyTypedInput: true,
		Result:           dest,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// wholeNumberHook stops mapstructure from truncating 1.5 to 1 when the target is an int.
func wholeNumberHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int {
		return data, nil
	}
	var f float64
	switch v := data.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return data, nil
	}
	if math.Trunc(f) != f || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%v is not an integer", data)
	}
	return data, nil
}

func (s *Server) handleInitSort(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.InitSummary, error) {
	if raw, ok := args["array"].(string); ok {
		// Some clients send the array as a JSON string.
		var parsed []any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return domain.InitSummary{}, fmt.Errorf("%w: array: %v", domain.ErrInvalidInput, err)
		}
		args = maps.Clone(args)
		args["array"] = parsed
	}
	var in InitArgs
	if err := decodeArgs(args, &in); err != nil {
		return domain.InitSummary{}, err
	}

	summary, err := s.recorder.Init(ctx, in.SessionID, in.Algorithm, in.Array)
	if err != nil {
		return domain.InitSummary{}, fmt.Errorf("init failed: %w", err)
	}
	return *summary, nil
}

func (s *Server) handleGetSteps(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StepsResponse, error) {
	var in StepsArgs
	if err := decodeArgs(args, &in); err != nil {
		return StepsResponse{}, err
	}

	steps, err := s.recorder.Steps(ctx, in.SessionID)
	if err != nil {
		return StepsResponse{}, fmt.Errorf("get steps failed: %w", err)
	}
	if in.Algorithm != "" && len(steps) > 0 {
		alg, err := domain.ParseAlgorithm(in.Algorithm)
		if err != nil {
			return StepsResponse{}, err
		}
		if steps[0].Algorithm != alg {
			steps = []domain.Step{}
		}
	}
	return StepsResponse{Steps: steps}, nil
}

func (s *Server) handleGetStep(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.StepResponse, error) {
	if _, ok := args["index"]; !ok {
		return domain.StepResponse{}, fmt.Errorf("%w: index is required", domain.ErrInvalidStepIndex)
	}
	var in StepArgs
	if err := decodeArgs(args, &in); err != nil {
		return domain.StepResponse{}, errors.Join(domain.ErrInvalidStepIndex, err)
	}

	resp, err := s.recorder.Step(ctx, in.SessionID, in.Index)
	if err != nil {
		return domain.StepResponse{}, fmt.Errorf("get step failed: %w", err)
	}
	return *resp, nil
}

func (s *Server) registerResources() {
	// EXPOSE: sortviz://algorithms
	s.mcpServer.AddResource(mcp.NewResource(algorithmsURI, "Supported Algorithms",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.recorder.Algorithms())
		if err != nil {
			return nil, fmt.Errorf("failed to encode algorithms: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      algorithmsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
