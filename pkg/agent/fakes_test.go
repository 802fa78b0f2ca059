package agent

import (
	"context"
	"sync"

	"haruhi-agent-be/pkg/calendar"
	"haruhi-agent-be/pkg/circlo"
	"haruhi-agent-be/pkg/llm"
	"haruhi-agent-be/pkg/websearch"
)

type scripted struct {
	text string
	ok   bool
}

// scriptedGateway answers calls in order; calls past the script fail.
type scriptedGateway struct {
	mu      sync.Mutex
	script  []scripted
	calls   [][]llm.Message
	lastErr string
}

func newGateway(script ...scripted) *scriptedGateway {
	return &scriptedGateway{script: script, lastErr: "connection refused"}
}

func reply(text string) scripted { return scripted{text: text, ok: true} }

func fail() scripted { return scripted{} }

func (g *scriptedGateway) Chat(_ context.Context, messages []llm.Message, _ int, _ float64) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := len(g.calls)
	g.calls = append(g.calls, append([]llm.Message{}, messages...))
	if idx >= len(g.script) {
		return "", false
	}
	return g.script[idx].text, g.script[idx].ok
}

func (g *scriptedGateway) LastError() string { return g.lastErr }

func (g *scriptedGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type fakeSearch struct {
	result  websearch.Result
	queries []string
}

func (f *fakeSearch) Query(_ context.Context, q string, _ int) websearch.Result {
	f.queries = append(f.queries, q)
	return f.result
}

type fakeCalendar struct {
	mu       sync.Mutex
	failFor  map[string]int
	requests []calendar.EventRequest
}

func (f *fakeCalendar) CreateEvent(_ context.Context, _ string, req calendar.EventRequest) calendar.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	for _, a := range req.Attendees {
		if status, ok := f.failFor[a]; ok {
			return calendar.Result{StatusCode: status, Error: "not authorized"}
		}
	}
	return calendar.Result{StatusCode: 201, Event: map[string]any{"id": "evt-" + req.Attendees[0]}}
}

type fakePoster struct {
	resp   circlo.Response
	posts  []circlo.Post
	closed int
}

func (f *fakePoster) CreatePost(_ context.Context, post circlo.Post) circlo.Response {
	f.posts = append(f.posts, post)
	return f.resp
}

func (f *fakePoster) Close() error {
	f.closed++
	return nil
}

func dialer(p *fakePoster) PostDialer {
	return func() (PostCollaborator, error) { return p, nil }
}

type recordingExecutor struct {
	mu    sync.Mutex
	steps []Step
	fail  map[int]bool
}

func (r *recordingExecutor) Execute(_ context.Context, _ string, step Step) StepResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := len(r.steps)
	r.steps = append(r.steps, step)
	if r.fail[idx] {
		return Failure(map[string]any{"error": "boom"}).result(step.Action)
	}
	return Success(map[string]any{"index": idx}).result(step.Action)
}

type memoryAudit struct {
	events []PlanExecuted
}

func (m *memoryAudit) PlanExecuted(_ context.Context, e PlanExecuted) error {
	m.events = append(m.events, e)
	return nil
}
