package agent

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var pipelineTracer trace.Tracer = otel.Tracer("haruhi-agent-be/pkg/agent")

// AuditSink receives one event per executed plan. Publishing is best effort.
type AuditSink interface {
	PlanExecuted(ctx context.Context, event PlanExecuted) error
}

// Pipeline turns one message into one Reply: interpret, execute, compose.
type Pipeline struct {
	interpreter *Interpreter
	sequencer   *Sequencer
	composer    *Composer
	audit       AuditSink
	logger      Logger
}

func NewPipeline(interpreter *Interpreter, sequencer *Sequencer, composer *Composer, audit AuditSink, logger Logger) *Pipeline {
	return &Pipeline{
		interpreter: interpreter,
		sequencer:   sequencer,
		composer:    composer,
		audit:       audit,
		logger:      orNop(logger),
	}
}

// New wires a pipeline from its collaborators with default settings.
func New(gateway ChatGateway, actions *Actions, audit AuditSink, logger Logger) *Pipeline {
	return NewPipeline(
		NewInterpreter(gateway, logger),
		NewSequencer(actions, logger),
		NewComposer(gateway, logger),
		audit,
		logger,
	)
}

// Handle never fails: the worst case is the echo acknowledgment.
func (p *Pipeline) Handle(ctx context.Context, userID, message string) Reply {
	runID := uuid.NewString()
	ctx, span := pipelineTracer.Start(ctx, "agent.handle", trace.WithAttributes(
		attribute.String("haruhi.run_id", runID),
		attribute.String("haruhi.user_id", userID),
	))
	defer span.End()

	ictx, ispan := pipelineTracer.Start(ctx, "agent.interpret")
	interp := p.interpreter.Interpret(ictx, message)
	ispan.SetAttributes(
		attribute.String("haruhi.kind", string(interp.Kind)),
		attribute.Bool("haruhi.retried", interp.Retried),
	)
	ispan.End()
	span.SetAttributes(attribute.String("haruhi.kind", string(interp.Kind)))

	switch interp.Kind {
	case ReplyGreeting:
		return Reply{RunID: runID, Kind: ReplyGreeting, Response: interp.Greeting}
	case ReplyDegraded:
		return Reply{RunID: runID, Kind: ReplyDegraded, Response: interp.Echo, Notice: interp.Notice}
	}

	ectx, espan := pipelineTracer.Start(ctx, "agent.execute", trace.WithAttributes(
		attribute.Int("haruhi.steps", len(interp.Plan.Steps)),
	))
	records := p.sequencer.Run(ectx, userID, interp.Plan.Steps)
	espan.SetAttributes(attribute.Int("haruhi.failed_steps", countFailed(records)))
	espan.End()

	cctx, cspan := pipelineTracer.Start(ctx, "agent.compose")
	reply, polished := p.composer.Compose(cctx, interp.Plan.Summary, records)
	cspan.SetAttributes(attribute.Bool("haruhi.polished", polished))
	cspan.End()

	p.emit(ctx, PlanExecuted{
		RunID:      runID,
		UserID:     userID,
		Summary:    interp.Plan.Summary,
		Records:    records,
		Polished:   polished,
		OccurredAt: time.Now().UTC(),
	})

	p.logger.Info("PIPELINE", "Plan executed", map[string]interface{}{
		"run_id":   runID,
		"user_id":  userID,
		"steps":    len(records),
		"failed":   countFailed(records),
		"polished": polished,
		"actions":  actionNames(records),
	})

	return Reply{RunID: runID, Kind: ReplyPlan, Response: reply, Details: records}
}

func (p *Pipeline) emit(ctx context.Context, event PlanExecuted) {
	if p.audit == nil {
		return
	}
	if err := p.audit.PlanExecuted(ctx, event); err != nil {
		p.logger.Warn("PIPELINE", "Audit publish failed", map[string]interface{}{
			"run_id": event.RunID,
			"error":  err.Error(),
		})
	}
}

func countFailed(records []ExecutionRecord) int {
	n := 0
	for _, r := range records {
		if !r.Result.OK {
			n++
		}
	}
	return n
}

func actionNames(records []ExecutionRecord) string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, string(r.Step.Action))
	}
	return strings.Join(names, ",")
}
