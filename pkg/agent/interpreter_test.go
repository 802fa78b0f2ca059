package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haruhi-agent-be/pkg/llm"
)

func TestInterpret_Greeting(t *testing.T) {
	gw := newGateway(reply(`{"greeting":"Halo! Ada yang bisa saya bantu?"}`))

	got := NewInterpreter(gw, nil).Interpret(context.Background(), "halo")

	assert.Equal(t, ReplyGreeting, got.Kind)
	assert.Equal(t, "Halo! Ada yang bisa saya bantu?", got.Greeting)
	assert.Equal(t, 1, gw.callCount())
}

func TestInterpret_PlanDefaults(t *testing.T) {
	gw := newGateway(reply(`{"plan":[{"action":"search_experts","args":{"query":"ai"}},{"action":"post_summary"}]}`))

	got := NewInterpreter(gw, nil).Interpret(context.Background(), "cari expert")

	require.Equal(t, ReplyPlan, got.Kind)
	assert.Equal(t, DefaultSummary, got.Plan.Summary)
	require.Len(t, got.Plan.Steps, 2)
	assert.Equal(t, ActionSearchExperts, got.Plan.Steps[0].Action)
	assert.Equal(t, "ai", got.Plan.Steps[0].Args["query"])
	assert.NotNil(t, got.Plan.Steps[1].Args)
}

func TestInterpret_EmptyPlanIsValid(t *testing.T) {
	gw := newGateway(reply(`{"plan":[],"summary":"Tidak ada yang perlu dilakukan."}`))

	got := NewInterpreter(gw, nil).Interpret(context.Background(), "x")

	assert.Equal(t, ReplyPlan, got.Kind)
	assert.Empty(t, got.Plan.Steps)
	assert.Equal(t, "Tidak ada yang perlu dilakukan.", got.Plan.Summary)
}

func TestInterpret_RetriesOnceWithCorrectiveInstruction(t *testing.T) {
	gw := newGateway(
		reply("Sure! here is the plan: {plan: ...}"),
		reply(`{"plan":[{"action":"post_summary","args":{"summary":"s"}}],"summary":"ok"}`),
	)

	got := NewInterpreter(gw, nil).Interpret(context.Background(), "post it")

	require.Equal(t, ReplyPlan, got.Kind)
	assert.True(t, got.Retried)
	require.Equal(t, 2, gw.callCount())

	retry := gw.calls[1]
	require.Len(t, retry, 4)
	assert.Equal(t, llm.RoleSystem, retry[0].Role)
	assert.Equal(t, "post it", retry[1].Content)
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "Sure! here is the plan: {plan: ...}"}, retry[2])
	assert.Equal(t, llm.RoleSystem, retry[3].Role)
	assert.Contains(t, retry[3].Content, "ONLY with valid JSON")
}

func TestInterpret_DegradesToEcho(t *testing.T) {
	tests := []struct {
		name       string
		script     []scripted
		wantCalls  int
		wantNotice bool
	}{
		{"gateway unavailable", []scripted{fail()}, 1, true},
		{"malformed twice", []scripted{reply("nope"), reply("still nope")}, 2, false},
		{"malformed then gateway fails", []scripted{reply("nope"), fail()}, 2, true},
		{"neither plan nor greeting", []scripted{reply(`{"answer":"42"}`)}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newGateway(tt.script...)

			got := NewInterpreter(gw, nil).Interpret(context.Background(), "  pesan saya  ")

			assert.Equal(t, ReplyDegraded, got.Kind)
			assert.Equal(t, Echo("pesan saya"), got.Echo)
			assert.Equal(t, tt.wantCalls, gw.callCount())
			if tt.wantNotice {
				assert.Equal(t, "LLM tidak tersedia: connection refused", got.Notice)
			} else {
				assert.Empty(t, got.Notice)
			}
		})
	}
}

func TestInterpret_SchemaViolationsTriggerRetry(t *testing.T) {
	bad := []string{
		`[1,2,3]`,
		`"plan"`,
		`null`,
		`{"plan":"search"}`,
		`{"plan":[{"args":{}}]}`,
		`{"plan":[{"action":7}]}`,
		`{"plan":[{"action":"search_experts","args":"q"}]}`,
		`{"greeting":42}`,
		`{"greeting":""}`,
	}

	for _, raw := range bad {
		t.Run(raw, func(t *testing.T) {
			gw := newGateway(reply(raw), reply(`{"greeting":"Halo"}`))

			got := NewInterpreter(gw, nil).Interpret(context.Background(), "x")

			assert.Equal(t, 2, gw.callCount())
			assert.Equal(t, ReplyGreeting, got.Kind)
			assert.True(t, got.Retried)
		})
	}
}

func TestInterpret_UnknownActionIsNotAParseFailure(t *testing.T) {
	gw := newGateway(reply(`{"plan":[{"action":"book_flight","args":{}}],"summary":"s"}`))

	got := NewInterpreter(gw, nil).Interpret(context.Background(), "x")

	assert.Equal(t, ReplyPlan, got.Kind)
	assert.False(t, got.Retried)
	assert.Equal(t, ActionKind("book_flight"), got.Plan.Steps[0].Action)
}

func TestInterpret_TruncatesLongPlans(t *testing.T) {
	steps := make([]string, 0, MaxPlanSteps+5)
	for i := 0; i < MaxPlanSteps+5; i++ {
		steps = append(steps, `{"action":"search_experts","args":{}}`)
	}
	gw := newGateway(reply(`{"plan":[` + strings.Join(steps, ",") + `],"summary":"s"}`))

	got := NewInterpreter(gw, nil).Interpret(context.Background(), "x")

	assert.Len(t, got.Plan.Steps, MaxPlanSteps)
}

func TestEcho_IsIdempotent(t *testing.T) {
	assert.Equal(t, Echo("halo dunia"), Echo("halo dunia"))
	assert.Equal(t, "Haruhi di sini, saya menerima pesan Anda: halo dunia", Echo(" halo dunia\n"))
}
