package dataset

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/phishguard/phishguard/internal/feature"
)

// Builder assembles the feature matrix from labeled rows.
//
// Extraction of each row is independent, so the builder fans the work out
// across a bounded set of goroutines. Every goroutine writes only to its own
// row index, so the output order always matches the input order and the
// result is deterministic regardless of scheduling.
type Builder struct {
	// logger receives a debug line for every URL that degrades to the
	// zero vector.
	logger *slog.Logger

	// concurrency bounds the number of extraction goroutines.
	concurrency int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets a custom logger for the builder.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithConcurrency bounds the number of concurrent extraction goroutines.
// Values below one are ignored.
func WithConcurrency(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBuilder creates a Builder. By default it logs to slog.Default and uses
// one goroutine per CPU.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Build extracts features for every row, preserving input order.
// It returns the feature matrix, the label vector, and the number of rows
// that degraded to the zero vector. Unparseable URLs contribute the zero
// vector (and a debug log line) rather than an error.
func (b *Builder) Build(ctx context.Context, rows []Row) ([][]float64, []float64, int, error) {
	matrix := make([][]float64, len(rows))
	labels := make([]float64, len(rows))
	degraded := make([]bool, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i := range rows {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := feature.Extract(rows[i].URL)
			if res.Degraded {
				b.logger.Debug("failed to parse URL, using zero vector", "url", rows[i].URL)
				degraded[i] = true
			}
			matrix[i] = res.Vector.Slice()
			labels[i] = rows[i].Label
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, 0, err
	}

	var degradedCount int
	for _, d := range degraded {
		if d {
			degradedCount++
		}
	}
	return matrix, labels, degradedCount, nil
}
