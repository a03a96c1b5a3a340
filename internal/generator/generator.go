package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/phrazzld/taskmanager/internal/domain"
	"github.com/phrazzld/taskmanager/internal/redact"
)

// DefaultInterval is the time between two generated tasks.
const DefaultInterval = 15 * time.Second

// MaxDueDays bounds how far ahead a generated task is due.
const MaxDueDays = 7

var (
	// ErrAlreadyStarted is returned by Start on a running generator.
	ErrAlreadyStarted = errors.New("generator already started")

	// ErrInvalidInterval is returned by New for a non-positive interval.
	ErrInvalidInterval = errors.New("generator interval must be positive")
)

var sampleTitles = []string{
	"Review pull request",
	"Update documentation",
	"Triage bug reports",
	"Plan sprint backlog",
	"Rotate credentials",
	"Check service dashboards",
}

var sampleDescriptions = []string{
	"Generated sample task.",
	"Created automatically to keep the board populated.",
	"Synthetic task for demo and load purposes.",
}

// TaskCreator is the subset of the task service the generator needs.
type TaskCreator interface {
	CreateTask(ctx context.Context, payload domain.TaskPayload) (*domain.Task, error)
}

// Config holds configuration for the generator
type Config struct {
	// Interval is the delay between two creations.
	Interval time.Duration
}

// DefaultConfig returns a Config with the standard 15 second interval.
func DefaultConfig() Config {
	return Config{Interval: DefaultInterval}
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces time.Now when computing due dates.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithSeed makes the generated payloads deterministic.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// Generator creates a synthetic task on every tick.
type Generator struct {
	creator TaskCreator
	config  Config
	logger  *slog.Logger
	now     func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
	seq   uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Generator. It returns an error if creator is nil or the
// interval is not positive.
func New(creator TaskCreator, cfg Config, logger *slog.Logger, opts ...Option) (*Generator, error) {
	if creator == nil {
		return nil, errors.New("task creator cannot be nil")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, cfg.Interval)
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &Generator{
		creator: creator,
		config:  cfg,
		logger:  logger.With(slog.String("component", "task_generator")),
		now:     time.Now,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Run creates a task on every interval until ctx is cancelled. It always
// returns nil; creation failures are logged and do not stop the loop.
func (g *Generator) Run(ctx context.Context) error {
	ticker := time.NewTicker(g.config.Interval)
	defer ticker.Stop()

	g.logger.Info("task generator started", slog.Duration("interval", g.config.Interval))

	for {
		select {
		case <-ctx.Done():
			g.logger.Info("task generator stopped")
			return nil
		case <-ticker.C:
			g.generate(ctx)
		}
	}
}

// Start launches Run in a background goroutine. The loop ends when ctx is
// cancelled or Stop is called.
func (g *Generator) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	g.cancel = cancel
	g.done = done

	go func() {
		defer close(done)
		_ = g.Run(runCtx)
	}()
	return nil
}

// Stop cancels a started generator and waits for its loop to return. It is
// safe to call more than once and on a generator that was never started.
func (g *Generator) Stop() {
	g.mu.Lock()
	cancel, done := g.cancel, g.done
	g.cancel, g.done = nil, nil
	g.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// NextPayload builds the payload for the next synthetic task: a sample title
// with a sequence suffix, status OPEN, a random priority, and a due date one
// to MaxDueDays days ahead.
func (g *Generator) NextPayload() domain.TaskPayload {
	g.rngMu.Lock()
	g.seq++
	seq := g.seq
	title := sampleTitles[g.rng.IntN(len(sampleTitles))]
	description := sampleDescriptions[g.rng.IntN(len(sampleDescriptions))]
	priority := domain.Priorities[g.rng.IntN(len(domain.Priorities))]
	days := 1 + g.rng.IntN(MaxDueDays)
	g.rngMu.Unlock()

	due := g.now().AddDate(0, 0, days)
	return domain.TaskPayload{
		Title:       fmt.Sprintf("%s #%d", title, seq),
		Description: description,
		Priority:    priority,
		Status:      domain.StatusOpen,
		DueDate:     &due,
	}
}

func (g *Generator) generate(ctx context.Context) {
	payload := g.NextPayload()

	task, err := g.creator.CreateTask(ctx, payload)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		g.logger.Error("failed to create generated task",
			slog.String("error", redact.Error(err)),
			slog.String("title", payload.Title))
		return
	}

	g.logger.Debug("generated task created",
		slog.String("task_id", task.ID.String()),
		slog.String("priority", string(task.Priority)))
}
