package service

import (
	"context"
	"fmt"
	"time"

	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/pkg/logger"
	"haruhi-agent-be/pkg/circlo"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const marketingAvatarURL = "https://ui-avatars.com/api/?name=Agent&background=0D8ABC&color=fff"

type IMarketingService interface {
	Generate(ctx context.Context, req dto.MarketingRequest) dto.MarketingResponse
}

// AgentRegistrar creates agent profiles; Close releases the connection.
type AgentRegistrar interface {
	CreateAgent(ctx context.Context, profile any) circlo.Response
	Close() error
}

type marketingService struct {
	dial   func() (AgentRegistrar, error)
	now    func() time.Time
	logger logger.ILogger
}

func NewMarketingService(dial func() (AgentRegistrar, error), logger logger.ILogger) IMarketingService {
	return &marketingService{dial: dial, now: time.Now, logger: logger}
}

func marketingWorkflow(goal string) []dto.MarketingStep {
	return []dto.MarketingStep{
		{Role: "planner", Task: fmt.Sprintf("Define audience, channels, KPIs for goal: %s", goal)},
		{Role: "copywriter", Task: "Draft 3 ad copies and email subject lines"},
		{Role: "designer", Task: "Create 2 hero images / social assets"},
		{Role: "scheduler", Task: "Create posting schedule and calendar invites"},
	}
}

// Generate returns the fixed four role workflow. With RegisterAgents set it
// also creates one Circlo agent per role; each registration result, failed or
// not, is returned in order.
func (s *marketingService) Generate(ctx context.Context, req dto.MarketingRequest) dto.MarketingResponse {
	steps := marketingWorkflow(req.Goal)
	res := dto.MarketingResponse{Workflow: steps, Agents: []any{}}
	if !req.RegisterAgents {
		return res
	}

	client, err := s.dial()
	if err != nil {
		s.logger.Error("MARKETING", "Failed to create Circlo client", map[string]interface{}{"error": err.Error()})
		res.Agents = append(res.Agents, circlo.Response{StatusCode: 500, Error: err.Error()})
		return res
	}
	defer client.Close()

	owner := req.UserID
	if owner == "" {
		owner = "campaign"
	}
	title := cases.Title(language.English)
	stamp := s.now().Unix()

	for _, step := range steps {
		profile := circlo.AgentProfile{
			Name:      fmt.Sprintf("%s for %s", title.String(step.Role), owner),
			Username:  fmt.Sprintf("%s-%d", step.Role, stamp),
			Niche:     "Marketing",
			AvatarURL: marketingAvatarURL,
		}
		resp := client.CreateAgent(ctx, profile)
		if !resp.OK() {
			s.logger.Warn("MARKETING", "Agent registration failed", map[string]interface{}{
				"role":   step.Role,
				"status": resp.StatusCode,
			})
		}
		res.Agents = append(res.Agents, resp)
	}
	return res
}
