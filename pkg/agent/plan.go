package agent

import "time"

type ActionKind string

const (
	ActionSearchExperts    ActionKind = "search_experts"
	ActionScheduleMeetings ActionKind = "schedule_meetings"
	ActionPostSummary      ActionKind = "post_summary"
)

const (
	// MaxPlanSteps bounds the side effects a single message can trigger.
	MaxPlanSteps   = 10
	DefaultSummary = "Saya akan membantu menyelesaikan permintaan Anda."
)

type Step struct {
	Action ActionKind     `json:"action"`
	Args   map[string]any `json:"args"`
}

type Plan struct {
	Steps   []Step `json:"plan"`
	Summary string `json:"summary"`
}

type StepResult struct {
	Action  ActionKind `json:"action"`
	OK      bool       `json:"ok"`
	Details any        `json:"details"`
}

// Outcome is what an executor hands back: either Success or Failure, never a panic.
type Outcome struct {
	ok      bool
	details any
}

func Success(details any) Outcome { return Outcome{ok: true, details: details} }

func Failure(details any) Outcome { return Outcome{ok: false, details: details} }

func (o Outcome) OK() bool { return o.ok }

func (o Outcome) Details() any { return o.details }

func (o Outcome) result(action ActionKind) StepResult {
	return StepResult{Action: action, OK: o.ok, Details: o.details}
}

type ExecutionRecord struct {
	Step   Step       `json:"step"`
	Result StepResult `json:"result"`
}

type ReplyKind string

const (
	ReplyDegraded ReplyKind = "degraded"
	ReplyGreeting ReplyKind = "greeting"
	ReplyPlan     ReplyKind = "plan"
)

// Reply is the outcome of one webhook invocation.
type Reply struct {
	RunID    string            `json:"run_id"`
	Kind     ReplyKind         `json:"kind"`
	Response string            `json:"response"`
	Details  []ExecutionRecord `json:"details,omitempty"`
	Notice   string            `json:"notice,omitempty"`
}

// PlanExecuted is emitted to the audit sink once a plan has run.
type PlanExecuted struct {
	RunID      string            `json:"run_id"`
	UserID     string            `json:"user_id"`
	Summary    string            `json:"summary"`
	Records    []ExecutionRecord `json:"records"`
	Polished   bool              `json:"polished"`
	OccurredAt time.Time         `json:"occurred_at"`
}
