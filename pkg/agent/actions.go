package agent

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"haruhi-agent-be/pkg/calendar"
	"haruhi-agent-be/pkg/circlo"
	"haruhi-agent-be/pkg/metrics"
	"haruhi-agent-be/pkg/websearch"
)

const (
	DefaultActionTimeout = 20 * time.Second
	defaultExpertQuery   = "AI expert Singapore"
	expertResultCount    = 3
	summaryPostTitle     = "Haruhi - Summary"
)

type SearchCollaborator interface {
	Query(ctx context.Context, q string, num int) websearch.Result
}

type CalendarCollaborator interface {
	CreateEvent(ctx context.Context, userID string, req calendar.EventRequest) calendar.Result
}

// PostCollaborator is a connection to the social-post API. It is dialed per
// step and must be closed by whoever dialed it.
type PostCollaborator interface {
	CreatePost(ctx context.Context, post circlo.Post) circlo.Response
	Close() error
}

type PostDialer func() (PostCollaborator, error)

// ExecutorFunc runs one action. Implementations report every expected failure
// through Failure and never panic on bad input.
type ExecutorFunc func(ctx context.Context, userID string, args map[string]any) Outcome

type Actions struct {
	search   SearchCollaborator
	calendar CalendarCollaborator
	dial     PostDialer
	slots    SlotPolicy
	timeout  time.Duration
	now      func() time.Time
	logger   Logger
	registry map[ActionKind]ExecutorFunc
}

type ActionsOption func(*Actions)

func WithActionTimeout(d time.Duration) ActionsOption {
	return func(a *Actions) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithSlotPolicy(p SlotPolicy) ActionsOption {
	return func(a *Actions) { a.slots = p }
}

func WithClock(now func() time.Time) ActionsOption {
	return func(a *Actions) { a.now = now }
}

// WithExecutor overrides or adds the executor for kind.
func WithExecutor(kind ActionKind, fn ExecutorFunc) ActionsOption {
	return func(a *Actions) { a.registry[kind] = fn }
}

func NewActions(search SearchCollaborator, cal CalendarCollaborator, dial PostDialer, logger Logger, opts ...ActionsOption) *Actions {
	a := &Actions{
		search:   search,
		calendar: cal,
		dial:     dial,
		slots:    DefaultSlotPolicy(time.UTC),
		timeout:  DefaultActionTimeout,
		now:      time.Now,
		logger:   orNop(logger),
	}
	a.registry = map[ActionKind]ExecutorFunc{
		ActionSearchExperts:    a.searchExperts,
		ActionScheduleMeetings: a.scheduleMeetings,
		ActionPostSummary:      a.postSummary,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Execute dispatches one step under its own timeout. It always returns a StepResult.
func (a *Actions) Execute(ctx context.Context, userID string, step Step) (res StepResult) {
	fn, ok := a.registry[step.Action]
	if !ok {
		res = Failure(map[string]any{"error": "unknown action"}).result(step.Action)
		metrics.PlanSteps.WithLabelValues("unknown", metrics.BoolLabel(false)).Inc()
		return res
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("ACTIONS", "Executor panicked", map[string]interface{}{
				"action": string(step.Action),
				"panic":  fmt.Sprint(r),
			})
			res = Failure(map[string]any{"exception": fmt.Sprint(r)}).result(step.Action)
		}
		metrics.PlanSteps.WithLabelValues(string(step.Action), metrics.BoolLabel(res.OK)).Inc()
	}()

	args := step.Args
	if args == nil {
		args = map[string]any{}
	}
	return fn(callCtx, userID, args).result(step.Action)
}

func (a *Actions) searchExperts(ctx context.Context, _ string, args map[string]any) Outcome {
	if a.search == nil {
		return Failure(map[string]any{"error": "search collaborator not configured"})
	}

	query := firstString(args, "query", "q")
	if query == "" {
		query = defaultExpertQuery
	}

	res := a.search.Query(ctx, query, expertResultCount)
	if res.StatusCode != http.StatusOK {
		return Failure(map[string]any{"status": res.StatusCode, "body": res.Body})
	}

	hits := res.Hits
	if hits == nil {
		hits = []websearch.Hit{}
	}
	return Success(hits)
}

func (a *Actions) scheduleMeetings(ctx context.Context, userID string, args map[string]any) Outcome {
	if a.calendar == nil {
		return Failure(map[string]any{"error": "calendar collaborator not configured"})
	}

	attendees := stringList(args["attendees"])
	startISO := firstString(args, "start_iso")
	endISO := firstString(args, "end_iso")
	if startISO == "" || endISO == "" {
		startISO, endISO = a.slots.NextISO(a.now())
	}

	outcomes := make([]map[string]any, 0, len(attendees))
	for _, attendee := range attendees {
		outcomes = append(outcomes, a.inviteOne(ctx, userID, attendee, startISO, endISO))
	}

	// the step succeeds once every attendee has been attempted; callers read
	// the per-attendee status for partial failures
	return Success(outcomes)
}

func (a *Actions) inviteOne(ctx context.Context, userID, attendee, startISO, endISO string) (out map[string]any) {
	out = map[string]any{
		"attendee":  attendee,
		"start_iso": startISO,
		"end_iso":   endISO,
	}
	defer func() {
		if r := recover(); r != nil {
			out["status"] = "error"
			out["error"] = fmt.Sprint(r)
		}
	}()

	res := a.calendar.CreateEvent(ctx, userID, calendar.EventRequest{
		Summary:   "Intro meeting with " + attendee,
		StartISO:  startISO,
		EndISO:    endISO,
		Attendees: []string{attendee},
	})

	switch {
	case res.OK():
		out["status"] = "created"
		out["event"] = res.Event
	case ctx.Err() != nil:
		out["status"] = "error"
		out["error"] = ctx.Err().Error()
	default:
		out["status"] = "failed"
		out["status_code"] = res.StatusCode
		out["error"] = res.Error
	}
	return out
}

func (a *Actions) postSummary(ctx context.Context, _ string, args map[string]any) Outcome {
	if a.dial == nil {
		return Failure(map[string]any{"error": "post collaborator not configured"})
	}

	summary := firstString(args, "summary", "body")
	if summary == "" {
		summary = "No summary provided"
	}

	conn, err := a.dial()
	if err != nil {
		return Failure(map[string]any{"error": err.Error()})
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			a.logger.Warn("ACTIONS", "Closing post collaborator failed", map[string]interface{}{"error": cerr.Error()})
		}
	}()

	resp := conn.CreatePost(ctx, circlo.Post{Title: summaryPostTitle, Body: summary})
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		return Success(resp)
	}
	return Failure(resp)
}

func firstString(args map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := args[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// stringList accepts a JSON array of strings or a single comma separated string.
func stringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case []string:
		for _, s := range t {
			if strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(t, ",") {
			if strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	}
	return out
}
