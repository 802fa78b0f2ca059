package service

import (
	"context"

	"haruhi-agent-be/internal/pkg/logger"
	"haruhi-agent-be/pkg/agent"
	"haruhi-agent-be/pkg/events"
)

// auditService records every executed plan in the audit log file and, when a
// bus is connected, publishes it as PLAN_EXECUTED.
type auditService struct {
	auditLog logger.ILogger
	bus      EventPublisher
}

func NewAuditService(auditLog logger.ILogger, bus EventPublisher) agent.AuditSink {
	return &auditService{auditLog: auditLog, bus: bus}
}

func (s *auditService) PlanExecuted(ctx context.Context, e agent.PlanExecuted) error {
	actions := make([]string, 0, len(e.Records))
	failed := 0
	for _, r := range e.Records {
		actions = append(actions, string(r.Step.Action))
		if !r.Result.OK {
			failed++
		}
	}
	s.auditLog.Info("AUDIT", "Plan executed", map[string]interface{}{
		"run_id":   e.RunID,
		"user_id":  e.UserID,
		"summary":  e.Summary,
		"actions":  actions,
		"failed":   failed,
		"polished": e.Polished,
	})

	if s.bus == nil {
		return nil
	}
	evt, err := events.FromStruct(events.TypePlanExecuted, e, e.OccurredAt)
	if err != nil {
		return err
	}
	return s.bus.Publish(ctx, evt)
}
