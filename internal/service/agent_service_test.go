package service

import (
	"bytes"
	"context"
	"testing"

	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/pkg/logger"
	"haruhi-agent-be/pkg/agent"
	"haruhi-agent-be/pkg/llm"
	"haruhi-agent-be/pkg/travel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAgentService() IAgentService {
	gw := llm.NewGateway(nil)
	actions := agent.NewActions(nil, nil, nil, nil)
	pipeline := agent.New(gw, actions, nil, nil)
	return NewAgentService(pipeline, travel.NewCoordinator(travel.PlatformA(0), travel.PlatformB(0)), "demo-user", logger.NewNopLogger())
}

func TestAgentService_UnavailableModelEchoes(t *testing.T) {
	svc := newAgentService()

	res := svc.Handle(context.Background(), dto.HookRequest{Message: "  halo  "})
	assert.Equal(t, agent.Echo("halo"), res.Response)
	assert.NotEmpty(t, res.Notice)
	assert.Nil(t, res.Offers)
}

func TestAgentService_FormFiltersAttachOffers(t *testing.T) {
	svc := newAgentService()

	res := svc.Handle(context.Background(), dto.HookRequest{Message: "hotel di ubud", Area: "Ubud", Guests: 2})
	require.NotNil(t, res.Offers)
	assert.Equal(t, "Ubud", res.Offers.Destination)
	assert.NotEmpty(t, res.Offers.Offers)
}

func TestAgentService_RenderHTMLSanitisesReply(t *testing.T) {
	svc := newAgentService()

	var buf bytes.Buffer
	err := svc.RenderHTML(&buf, dto.HookResponse{
		Response: "<b>Siap!</b><script>alert(1)</script>\nBaris dua",
		Details: []agent.ExecutionRecord{{
			Step:   agent.Step{Action: agent.ActionPostSummary},
			Result: agent.StepResult{Action: agent.ActionPostSummary, OK: false, Details: map[string]any{"status": 500}},
		}},
	})
	require.NoError(t, err)

	page := buf.String()
	assert.Contains(t, page, "<b>Siap!</b>")
	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "<br>Baris dua")
	assert.Contains(t, page, `class="step failed" data-action="post_summary"`)
}

func TestAgentService_Reject(t *testing.T) {
	res := newAgentService().Reject("", "message failed on 'required'")
	assert.Equal(t, agent.Echo(""), res.Response)
	assert.Equal(t, "message failed on 'required'", res.Notice)
}
