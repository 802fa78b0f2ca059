package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer_IsolatesFailures(t *testing.T) {
	const n = 5
	for k := 0; k < n; k++ {
		t.Run(fmt.Sprintf("step %d fails", k), func(t *testing.T) {
			steps := make([]Step, n)
			for i := range steps {
				steps[i] = Step{Action: ActionSearchExperts, Args: map[string]any{"query": fmt.Sprint(i)}}
			}
			exec := &recordingExecutor{fail: map[int]bool{k: true}}

			records := NewSequencer(exec, nil).Run(context.Background(), "u1", steps)

			require.Len(t, records, n)
			for i, rec := range records {
				assert.Equal(t, steps[i], rec.Step)
				assert.Equal(t, i != k, rec.Result.OK, "step %d", i)
			}
			assert.Equal(t, steps, exec.steps)
		})
	}
}

func TestSequencer_EmptyPlan(t *testing.T) {
	records := NewSequencer(&recordingExecutor{}, nil).Run(context.Background(), "u1", nil)
	assert.Empty(t, records)
}
