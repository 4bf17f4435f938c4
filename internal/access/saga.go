package access

import (
	"context"
	"fmt"
	"log/slog"

	"glimpse/internal/observability"
)

// sagaStep is one remote action with an optional compensating action. The
// compensation runs only if the step itself completed and a later step
// failed; it must undo exactly what run created.
type sagaStep struct {
	name       string
	run        func(context.Context) error
	compensate func(context.Context) error
}

// saga executes steps in order. On a step failure the compensations of all
// completed steps run in reverse order, each at most once, and the step's
// error is returned. A compensation failure is logged and counted but does
// not mask the original error.
type saga struct {
	operation string
	steps     []sagaStep
}

func (s *saga) execute(ctx context.Context) error {
	var done []sagaStep
	for _, step := range s.steps {
		observability.LogSagaStep(ctx, s.operation, step.name)
		err := step.run(ctx)
		if err == nil {
			done = append(done, step)
			continue
		}

		for i := len(done) - 1; i >= 0; i-- {
			completed := done[i]
			if completed.compensate == nil {
				continue
			}
			observability.LogSagaCompensation(ctx, s.operation, completed.name, err)
			observability.SagaCompensations.WithLabelValues(s.operation, completed.name).Inc()
			if cerr := completed.compensate(ctx); cerr != nil {
				observability.GlobalLogger.ErrorContext(ctx, "saga compensation failed",
					slog.String("saga", s.operation),
					slog.String("step", completed.name),
					slog.String("error", cerr.Error()),
				)
			}
		}
		return fmt.Errorf("%s: %w", step.name, err)
	}
	return nil
}
