package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/dataset"
	"github.com/phishguard/phishguard/internal/model"
	"github.com/phishguard/phishguard/internal/nn"
)

// State is the shared run state threaded through every pipeline step.
// Each step reads what earlier steps produced and fills in its own part.
type State struct {
	// Config holds the validated run configuration.
	Config *config.Config

	// Rows is the labeled dataset loaded from CSV.
	Rows []dataset.Row

	// X and Y are the full feature matrix and label vector.
	X [][]float64
	Y []float64

	// Split is the train/test partition used for evaluation accounting.
	Split dataset.Split

	// Network is the model, populated by the training step.
	Network *nn.Network

	// Report accumulates everything the report writers and the run
	// database need. It is always non-nil after NewState.
	Report *model.TrainingReport
}

// NewState creates run state for the given configuration.
func NewState(cfg *config.Config) *State {
	return &State{
		Config: cfg,
		Report: &model.TrainingReport{
			DatasetPath: cfg.DatasetPath,
			StartedAt:   time.Now(),
		},
	}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// state from previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., checkpointing)
type Step interface {
	// Do executes the pipeline step. It receives the context for
	// cancellation and the shared state to read and modify.
	Do(ctx context.Context, state *State) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Every step in a training run feeds the next one, so the pipeline stops
// on the first failure. The error is also recorded in the report so that
// report writers and the run database see the failed run.
//
// Design decision: We check context.Done() before each step rather than
// during, because long-running steps (training in particular) watch the
// context themselves. This allows graceful cleanup between steps while
// still respecting cancellation.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			state.Report.Duration = time.Since(state.Report.StartedAt)
			state.Report.Error = ctx.Err().Error()
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"dataset", state.Config.DatasetPath,
		)

		if err := step.Do(ctx, state); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)
			state.Report.Duration = time.Since(state.Report.StartedAt)
			state.Report.Error = err.Error()
			return err
		}

		p.logger.Debug("step completed", "step", step.Name())
	}

	state.Report.Duration = time.Since(state.Report.StartedAt)
	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
