package agent

import "context"

// StepExecutor runs a single step. *Actions satisfies it.
type StepExecutor interface {
	Execute(ctx context.Context, userID string, step Step) StepResult
}

type Sequencer struct {
	executor StepExecutor
	logger   Logger
}

func NewSequencer(executor StepExecutor, logger Logger) *Sequencer {
	return &Sequencer{executor: executor, logger: orNop(logger)}
}

// Run executes the steps one after another in plan order. A failed step is
// recorded and the next one still runs; the log always has one entry per step.
func (s *Sequencer) Run(ctx context.Context, userID string, steps []Step) []ExecutionRecord {
	records := make([]ExecutionRecord, 0, len(steps))
	for idx, step := range steps {
		result := s.executor.Execute(ctx, userID, step)
		if !result.OK {
			s.logger.Warn("SEQUENCER", "Step failed", map[string]interface{}{
				"index":  idx,
				"action": string(step.Action),
			})
		}
		records = append(records, ExecutionRecord{Step: step, Result: result})
	}
	return records
}
