package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []ExecutionRecord {
	return []ExecutionRecord{
		{
			Step:   Step{Action: ActionSearchExperts, Args: map[string]any{"query": "ai"}},
			Result: StepResult{Action: ActionSearchExperts, OK: true, Details: []map[string]any{{"title": "Ahli <AI>", "link": "https://a?x=1&y=2"}}},
		},
		{
			Step:   Step{Action: "book_flight", Args: map[string]any{}},
			Result: StepResult{Action: "book_flight", OK: false, Details: map[string]any{"error": "unknown action"}},
		},
	}
}

func TestStructured_Format(t *testing.T) {
	got := Structured("Saya akan mencari ahli.", sampleRecords())

	want := "Ringkasan: Saya akan mencari ahli.\n\n" +
		"Action: search_experts\n\n" +
		`Result: {"action":"search_experts","ok":true,"details":[{"link":"https://a?x=1&y=2","title":"Ahli <AI>"}]}` + "\n\n" +
		"Action: book_flight\n\n" +
		`Result: {"action":"book_flight","ok":false,"details":{"error":"unknown action"}}`
	assert.Equal(t, want, got)
}

func TestStructured_SummaryOnly(t *testing.T) {
	assert.Equal(t, "Ringkasan: s", Structured("s", nil))
}

func TestCompose_FallsBackToStructuredVerbatim(t *testing.T) {
	for _, script := range [][]scripted{{fail()}, {reply("   ")}} {
		gw := newGateway(script...)

		got, polished := NewComposer(gw, nil).Compose(context.Background(), "ringkas", sampleRecords())

		assert.False(t, polished)
		assert.Equal(t, Structured("ringkas", sampleRecords()), got)
	}
}

func TestCompose_UsesPolishedText(t *testing.T) {
	gw := newGateway(reply("  Halo! Semua sudah beres.  "))

	got, polished := NewComposer(gw, nil).Compose(context.Background(), "ringkas", sampleRecords())

	assert.True(t, polished)
	assert.Equal(t, "Halo! Semua sudah beres.", got)
	require.Equal(t, 1, gw.callCount())
	assert.Equal(t, Structured("ringkas", sampleRecords()), gw.calls[0][1].Content)
}
