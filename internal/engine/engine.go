// Package engine runs every registered tool against every test in a corpus,
// strictly one external process at a time.
//
// Execution is deliberately sequential: the tools under measurement report
// their own timings, and concurrent CPU or IO contention between them would
// corrupt those measurements. Process failures and unparseable output are
// recorded on the per-invocation outcome and never abort the run.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/evmbench/evmbench/internal/corpus"
	"github.com/evmbench/evmbench/internal/tools"
)

// Runner executes (tool, test) pairs and collects their outcomes.
type Runner struct {
	logger *slog.Logger

	// timeout bounds each tool invocation. Zero means wait indefinitely,
	// which is the stock behavior: a hung tool blocks the run.
	timeout time.Duration
}

// NewRunner creates a Runner. timeout of 0 disables the bounded wait.
func NewRunner(logger *slog.Logger, timeout time.Duration) *Runner {
	return &Runner{
		logger:  logger.With(slog.String("component", "engine")),
		timeout: timeout,
	}
}

// RunAll invokes every tool against every test in corpus order and returns
// the outcomes keyed by tool name, one outcome per test in corpus order.
func (r *Runner) RunAll(ctx context.Context, toolList []*tools.Tool, set *corpus.Set) map[string][]*tools.Outcome {
	results := make(map[string][]*tools.Outcome, len(toolList))
	for _, tool := range toolList {
		r.logger.Info("benchmarking tool",
			slog.String("tool", tool.Name),
			slog.String("path", tool.Path),
			slog.Int("tests", set.Len()),
		)

		outcomes := make([]*tools.Outcome, 0, set.Len())
		for _, name := range set.Names() {
			if ctx.Err() != nil {
				break
			}
			outcomes = append(outcomes, r.runOne(ctx, tool, name, set.Get(name)))
		}
		results[tool.Name] = outcomes
	}
	return results
}

// runOne executes a single (tool, test) pair. The process is spawned with
// empty stdin and fully drained before returning; output parsing errors are
// confined to the outcome.
func (r *Runner) runOne(ctx context.Context, tool *tools.Tool, name string, test *corpus.Test) *tools.Outcome {
	outcome := &tools.Outcome{Args: tool.Command(test)}
	r.execute(ctx, outcome)

	if outcome.TimedOut {
		r.logger.Warn("tool timed out",
			slog.String("tool", tool.Name),
			slog.String("test", name),
			slog.Duration("timeout", r.timeout),
		)
		return outcome
	}

	if err := tool.Adapter().ParseOutput(outcome); err != nil {
		outcome.ParseErr = err
		r.logger.Debug("output parse failed",
			slog.String("tool", tool.Name),
			slog.String("test", name),
			slog.String("error", err.Error()),
		)
	}
	return outcome
}
