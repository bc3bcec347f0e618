package sortviz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/sortviz/internal/logging"
	"github.com/aretw0/sortviz/internal/runtime"
	"github.com/aretw0/sortviz/pkg/adapters/memory"
	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/aretw0/sortviz/pkg/ports"
	"github.com/aretw0/sortviz/pkg/session"
)

// DefaultSessionID is used when a caller does not name a session.
const DefaultSessionID = "default"

// DefaultMaxArrayLength bounds the input of a run. Bubble and insertion sort record a
// quadratic number of steps, each holding copies of the array.
const DefaultMaxArrayLength = 128

// Engine is the high-level entry point for the sortviz library.
// It resolves algorithms to engines, records runs and keeps the current run of each session.
type Engine struct {
	registry     *runtime.Registry
	sessions     *session.Manager
	store        ports.RunStore
	locker       ports.DistributedLocker
	lockTTL      time.Duration
	countingOpts []runtime.CountingOption
	maxArrayLen  int
	hooks        domain.LifecycleHooks
	logger       *slog.Logger

	mu        sync.RWMutex
	listeners map[int]func(RunReplaced)
	nextID    int
}

var _ ports.Recorder = (*Engine)(nil)

// RunReplaced is delivered to subscribers whenever a session's run changes.
type RunReplaced struct {
	SessionID  string           `json:"session_id"`
	Algorithm  domain.Algorithm `json:"algorithm"`
	TotalSteps int              `json:"total_steps"`
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets where session runs are kept. Defaults to an in-memory store.
func WithStore(store ports.RunStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed locking of sessions across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithMaxArrayLength sets how many values a run accepts. Defaults to DefaultMaxArrayLength.
func WithMaxArrayLength(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxArrayLen = n
		}
	}
}

// WithLockTTL sets how long a distributed session lock survives a crashed holder.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.lockTTL = ttl
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithCountingOptions configures the counting sort engine (counter range, slot limit).
func WithCountingOptions(opts ...runtime.CountingOption) Option {
	return func(e *Engine) {
		e.countingOpts = append(e.countingOpts, opts...)
	}
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		listeners:   make(map[int]func(RunReplaced)),
		maxArrayLen: DefaultMaxArrayLength,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	eng.registry = runtime.NewDefaultRegistry(eng.countingOpts...)

	sessionOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	if eng.lockTTL > 0 {
		sessionOpts = append(sessionOpts, session.WithLockTTL(eng.lockTTL))
	}
	eng.sessions = session.NewManager(eng.store, sessionOpts...)

	return eng, nil
}

// Algorithms lists the supported algorithms.
func (e *Engine) Algorithms() []domain.Algorithm {
	return e.registry.Algorithms()
}

// Produce records a run without storing it. The returned run belongs to the caller.
func (e *Engine) Produce(ctx context.Context, algorithm string, array []int) (*domain.Run, error) {
	return e.produce(ctx, "", algorithm, array)
}

func (e *Engine) produce(ctx context.Context, sessionID, algorithm string, array []int) (*domain.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(array) > e.maxArrayLen {
		return nil, fmt.Errorf("%w: %d values, at most %d are accepted", domain.ErrInvalidInput, len(array), e.maxArrayLen)
	}
	producer, err := e.registry.Get(algorithm)
	if err != nil {
		return nil, err
	}

	event := &domain.RunEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunStart, SessionID: sessionID},
		Algorithm: producer.Algorithm(),
		InputSize: len(array),
	}
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, event)
	}

	start := time.Now()
	run, err := producer.Produce(array)
	if err != nil {
		err = fmt.Errorf("%s sort: %w", producer.Algorithm(), err)
		e.complete(ctx, event, nil, time.Since(start), err)
		return nil, err
	}
	e.complete(ctx, event, run, time.Since(start), nil)
	return run, nil
}

func (e *Engine) complete(ctx context.Context, start *domain.RunEvent, run *domain.Run, d time.Duration, err error) {
	if e.hooks.OnRunComplete == nil {
		return
	}
	done := *start
	done.Timestamp = time.Now()
	done.Type = domain.EventRunComplete
	done.Duration = d
	done.Err = err
	if run != nil {
		done.TotalSteps = run.Timeline.Len()
	}
	e.hooks.OnRunComplete(ctx, &done)
}

// Init records a run and makes it the session's current run.
// On any error the previous run of the session is left untouched.
func (e *Engine) Init(ctx context.Context, sessionID, algorithm string, array []int) (*domain.InitSummary, error) {
	sessionID = sessionOrDefault(sessionID)

	run, err := e.produce(ctx, sessionID, algorithm, array)
	if err != nil {
		return nil, err
	}
	if err := e.sessions.Replace(ctx, sessionID, run); err != nil {
		return nil, err
	}

	summary := run.Summary()
	e.logger.Debug("run initialized",
		"session_id", sessionID,
		"algorithm", run.Algorithm,
		"steps", summary.TotalSteps,
	)
	e.notify(RunReplaced{SessionID: sessionID, Algorithm: run.Algorithm, TotalSteps: summary.TotalSteps})
	return &summary, nil
}

// Run returns the session's current run.
func (e *Engine) Run(ctx context.Context, sessionID string) (*domain.Run, error) {
	return e.sessions.Load(ctx, sessionOrDefault(sessionID))
}

// Steps returns every step of the session's run in generation order.
// A session without a run yields an empty slice.
func (e *Engine) Steps(ctx context.Context, sessionID string) ([]domain.Step, error) {
	sessionID = sessionOrDefault(sessionID)
	run, err := e.sessions.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrRunNotFound) {
		e.stepRead(ctx, sessionID, "", -1, nil)
		return []domain.Step{}, nil
	}
	if err != nil {
		return nil, err
	}
	e.stepRead(ctx, sessionID, run.Algorithm, -1, nil)
	return run.Timeline.All(), nil
}

// Step returns the step at index of the session's run.
// Fails with domain.ErrInvalidStepIndex when index is out of range or the session has no run.
func (e *Engine) Step(ctx context.Context, sessionID string, index int) (*domain.StepResponse, error) {
	sessionID = sessionOrDefault(sessionID)
	run, err := e.sessions.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrRunNotFound) {
		err = fmt.Errorf("%w: %d (no run for session %s)", domain.ErrInvalidStepIndex, index, sessionID)
		e.stepRead(ctx, sessionID, "", index, err)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	resp, err := run.Step(index)
	e.stepRead(ctx, sessionID, run.Algorithm, index, err)
	return resp, err
}

func (e *Engine) stepRead(ctx context.Context, sessionID string, algorithm domain.Algorithm, index int, err error) {
	if e.hooks.OnStepRead == nil {
		return
	}
	e.hooks.OnStepRead(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStepRead, SessionID: sessionID},
		Algorithm: algorithm,
		Index:     index,
		Err:       err,
	})
}

// Reset discards the session's run.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	sessionID = sessionOrDefault(sessionID)
	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	if e.hooks.OnRunReset != nil {
		e.hooks.OnRunReset(ctx, &domain.RunEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunReset, SessionID: sessionID},
		})
	}
	return nil
}

// Sessions lists the sessions that currently hold a run.
func (e *Engine) Sessions(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Subscribe registers fn to be called after every successful Init.
// fn runs on the caller's goroutine and must not block. The returned function unsubscribes.
func (e *Engine) Subscribe(fn func(RunReplaced)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

func (e *Engine) notify(ev RunReplaced) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, fn := range e.listeners {
		fn(ev)
	}
}

func sessionOrDefault(id string) string {
	if id == "" {
		return DefaultSessionID
	}
	return id
}
