package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"haruhi-agent-be/pkg/llm"
	"haruhi-agent-be/pkg/metrics"
)

const planInstruction = `You are Haruhi, a concise, helpful Indonesian assistant that turns one user instruction into a small executable plan.
Return ONLY a JSON object matching this schema:

{
  "plan": [
    {"action": "search_experts", "args": {"query": "<query string>"}},
    {"action": "schedule_meetings", "args": {"attendees": ["email1","email2"], "start_iso":"...", "end_iso":"..."}},
    {"action": "post_summary", "args": {"summary":"..."}}
  ],
  "summary": "short Indonesian sentence summarizing what you will do"
}

If the user input is a simple greeting, return:
{"greeting": "Halo... (Indonesian greeting text)"}

Respond only with valid JSON. Do not include any additional text.`

const correctiveInstruction = "Previous response was not valid JSON. Please respond ONLY with valid JSON that matches the schema exactly."

const (
	echoFormat   = "Haruhi di sini, saya menerima pesan Anda: %s"
	noticeFormat = "LLM tidak tersedia: %s"
)

var errMalformedPlan = errors.New("malformed plan")

// ChatGateway is the model access the pipeline needs. *llm.Gateway satisfies it.
type ChatGateway interface {
	Chat(ctx context.Context, messages []llm.Message, maxTokens int, temperature float64) (string, bool)
	LastError() string
}

type Interpretation struct {
	Kind     ReplyKind
	Greeting string
	Plan     Plan
	Echo     string
	Notice   string
	Retried  bool
}

type Interpreter struct {
	gateway     ChatGateway
	logger      Logger
	maxTokens   int
	temperature float64
}

func NewInterpreter(gateway ChatGateway, logger Logger) *Interpreter {
	return &Interpreter{
		gateway:     gateway,
		logger:      orNop(logger),
		maxTokens:   400,
		temperature: 0.2,
	}
}

// Echo is the degraded acknowledgment. It depends on the message only.
func Echo(message string) string {
	return fmt.Sprintf(echoFormat, strings.TrimSpace(message))
}

// Interpret asks the model for a plan, retrying exactly once when the first
// answer does not parse. Whatever happens it returns an Interpretation.
func (i *Interpreter) Interpret(ctx context.Context, message string) Interpretation {
	text := strings.TrimSpace(message)
	conversation := []llm.Message{
		{Role: llm.RoleSystem, Content: planInstruction},
		{Role: llm.RoleUser, Content: text},
	}

	raw, ok := i.gateway.Chat(ctx, conversation, i.maxTokens, i.temperature)
	if !ok {
		return i.degrade(text, true, false, "gateway returned nothing")
	}

	parsed, err := parseReply(raw)
	retried := false
	if err != nil {
		i.logger.Warn("INTERPRETER", "Plan reply not valid, retrying once", map[string]interface{}{"error": err.Error()})
		retried = true

		retry := append(append([]llm.Message{}, conversation...),
			llm.Message{Role: llm.RoleAssistant, Content: raw},
			llm.Message{Role: llm.RoleSystem, Content: correctiveInstruction},
		)
		raw, ok = i.gateway.Chat(ctx, retry, i.maxTokens, i.temperature)
		if !ok {
			return i.degrade(text, true, retried, "gateway returned nothing on retry")
		}
		parsed, err = parseReply(raw)
		if err != nil {
			return i.degrade(text, false, retried, err.Error())
		}
	}

	switch {
	case parsed.greeting != nil:
		metrics.Interpretations.WithLabelValues(string(ReplyGreeting)).Inc()
		return Interpretation{Kind: ReplyGreeting, Greeting: *parsed.greeting, Retried: retried}
	case parsed.plan != nil:
		plan := *parsed.plan
		if len(plan.Steps) > MaxPlanSteps {
			i.logger.Warn("INTERPRETER", "Plan truncated", map[string]interface{}{
				"steps": len(plan.Steps),
				"max":   MaxPlanSteps,
			})
			plan.Steps = plan.Steps[:MaxPlanSteps]
		}
		metrics.Interpretations.WithLabelValues(string(ReplyPlan)).Inc()
		return Interpretation{Kind: ReplyPlan, Plan: plan, Retried: retried}
	default:
		return i.degrade(text, false, retried, "reply is neither a plan nor a greeting")
	}
}

func (i *Interpreter) degrade(text string, gatewayFailed, retried bool, reason string) Interpretation {
	metrics.Interpretations.WithLabelValues(string(ReplyDegraded)).Inc()

	out := Interpretation{Kind: ReplyDegraded, Echo: Echo(text), Retried: retried}
	if gatewayFailed {
		if lastErr := i.gateway.LastError(); lastErr != "" {
			out.Notice = fmt.Sprintf(noticeFormat, lastErr)
		}
	}
	i.logger.Warn("INTERPRETER", "Degraded to acknowledgment", map[string]interface{}{
		"reason":  reason,
		"retried": retried,
		"notice":  out.Notice,
	})
	return out
}

type parsedReply struct {
	greeting *string
	plan     *Plan
}

// parseReply is strict: anything that is not a JSON object, or whose plan or
// greeting has the wrong shape, is an error and earns the single retry.
func parseReply(raw string) (parsedReply, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &top); err != nil {
		return parsedReply{}, fmt.Errorf("%w: %v", errMalformedPlan, err)
	}
	if top == nil {
		return parsedReply{}, fmt.Errorf("%w: top level is null", errMalformedPlan)
	}

	if g, ok := top["greeting"]; ok {
		var greeting string
		if err := json.Unmarshal(g, &greeting); err != nil || strings.TrimSpace(greeting) == "" {
			return parsedReply{}, fmt.Errorf("%w: greeting must be a non-empty string", errMalformedPlan)
		}
		return parsedReply{greeting: &greeting}, nil
	}

	rawPlan, hasPlan := top["plan"]
	if !hasPlan {
		return parsedReply{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawPlan, &items); err != nil {
		return parsedReply{}, fmt.Errorf("%w: plan must be an array", errMalformedPlan)
	}

	steps := make([]Step, 0, len(items))
	for idx, item := range items {
		step, err := parseStep(item)
		if err != nil {
			return parsedReply{}, fmt.Errorf("%w: step %d: %v", errMalformedPlan, idx, err)
		}
		steps = append(steps, step)
	}

	summary := DefaultSummary
	if rawSummary, ok := top["summary"]; ok {
		var s string
		if json.Unmarshal(rawSummary, &s) == nil && strings.TrimSpace(s) != "" {
			summary = s
		}
	}

	return parsedReply{plan: &Plan{Steps: steps, Summary: summary}}, nil
}

func parseStep(raw json.RawMessage) (Step, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return Step{}, errors.New("not an object")
	}

	var action string
	if err := json.Unmarshal(obj["action"], &action); err != nil || action == "" {
		return Step{}, errors.New("action must be a non-empty string")
	}

	args := map[string]any{}
	if rawArgs, ok := obj["args"]; ok && string(rawArgs) != "null" {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return Step{}, errors.New("args must be an object")
		}
		if args == nil {
			args = map[string]any{}
		}
	}

	return Step{Action: ActionKind(action), Args: args}, nil
}
