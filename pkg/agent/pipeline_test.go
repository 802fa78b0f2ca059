package agent

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haruhi-agent-be/pkg/circlo"
	"haruhi-agent-be/pkg/websearch"
)

type pipelineFixture struct {
	gateway *scriptedGateway
	search  *fakeSearch
	cal     *fakeCalendar
	poster  *fakePoster
	audit   *memoryAudit
	p       *Pipeline
}

func newFixture(script ...scripted) *pipelineFixture {
	f := &pipelineFixture{
		gateway: newGateway(script...),
		search:  &fakeSearch{result: websearch.Result{StatusCode: http.StatusOK, Hits: websearch.MockHits(3)}},
		cal:     &fakeCalendar{},
		poster:  &fakePoster{resp: circlo.Response{StatusCode: http.StatusCreated}},
		audit:   &memoryAudit{},
	}
	actions := NewActions(f.search, f.cal, dialer(f.poster), nil)
	f.p = New(f.gateway, actions, f.audit, nil)
	return f
}

func (f *pipelineFixture) sideEffects() int {
	return len(f.search.queries) + len(f.cal.requests) + len(f.poster.posts)
}

func TestHandle_GreetingRunsNoActions(t *testing.T) {
	f := newFixture(reply(`{"greeting":"Halo, saya Haruhi!"}`))

	got := f.p.Handle(context.Background(), "u1", "halo")

	assert.Equal(t, ReplyGreeting, got.Kind)
	assert.Equal(t, "Halo, saya Haruhi!", got.Response)
	assert.Empty(t, got.Details)
	assert.NotEmpty(t, got.RunID)
	assert.Zero(t, f.sideEffects())
	assert.Empty(t, f.audit.events)
}

func TestHandle_MalformedOutputEchoes(t *testing.T) {
	for i := 0; i < 2; i++ {
		f := newFixture(reply("not json"), reply("still not json"))

		got := f.p.Handle(context.Background(), "u1", "tolong bantu")

		assert.Equal(t, ReplyDegraded, got.Kind)
		assert.Equal(t, Echo("tolong bantu"), got.Response)
		assert.Empty(t, got.Notice)
		assert.Zero(t, f.sideEffects())
	}
}

func TestHandle_UnavailableGatewayEchoesWithNotice(t *testing.T) {
	f := newFixture()

	got := f.p.Handle(context.Background(), "u1", "tolong bantu")

	assert.Equal(t, Echo("tolong bantu"), got.Response)
	assert.Equal(t, "LLM tidak tersedia: connection refused", got.Notice)
	assert.Zero(t, f.sideEffects())
}

func TestHandle_ExecutesPlanAndPolishes(t *testing.T) {
	f := newFixture(
		reply(`{"plan":[
			{"action":"search_experts","args":{"query":"AI Singapore"}},
			{"action":"schedule_meetings","args":{"attendees":["a@x.com","b@x.com"]}},
			{"action":"unknown_thing","args":{}},
			{"action":"post_summary","args":{"summary":"done"}}
		],"summary":"Saya akan mencari ahli dan menjadwalkan rapat."}`),
		reply("Halo! Semua sudah dijadwalkan."),
	)

	got := f.p.Handle(context.Background(), "u1", "cari 3 ahli AI dan jadwalkan rapat")

	assert.Equal(t, ReplyPlan, got.Kind)
	assert.Equal(t, "Halo! Semua sudah dijadwalkan.", got.Response)
	require.Len(t, got.Details, 4)
	assert.True(t, got.Details[0].Result.OK)
	assert.True(t, got.Details[1].Result.OK)
	assert.False(t, got.Details[2].Result.OK)
	assert.True(t, got.Details[3].Result.OK)
	assert.Equal(t, 1, f.poster.closed)

	require.Len(t, f.audit.events, 1)
	assert.Equal(t, got.RunID, f.audit.events[0].RunID)
	assert.True(t, f.audit.events[0].Polished)
}

func TestHandle_PolishFailureReturnsStructuredText(t *testing.T) {
	f := newFixture(reply(`{"plan":[{"action":"search_experts","args":{}}],"summary":"cari"}`))

	got := f.p.Handle(context.Background(), "u1", "cari ahli")

	require.Len(t, got.Details, 1)
	assert.Equal(t, Structured("cari", got.Details), got.Response)
	assert.False(t, f.audit.events[0].Polished)
}
