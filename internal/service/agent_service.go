package service

import (
	"context"
	"encoding/json"
	"html/template"
	"io"
	"strings"

	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/pkg/logger"
	"haruhi-agent-be/pkg/agent"
	"haruhi-agent-be/pkg/travel"

	"github.com/microcosm-cc/bluemonday"
)

const hookTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Haruhi</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; line-height: 1.5; padding: 24px; max-width: 760px; }
.reply { background: #f8f0ff; padding: 14px; border-radius: 8px; }
.notice { color: #a15c00; }
.step { border: 1px solid #eee; padding: 10px; border-radius: 6px; margin-bottom: 8px; }
.step.failed { border-color: #f2b8b5; }
pre { white-space: pre-wrap; word-break: break-word; font-size: 12px; }
.card { border: 1px solid #eee; padding: 12px; border-radius: 6px; margin-bottom: 12px; }
</style>
</head>
<body>
<h2>Haruhi</h2>
<div class="reply">{{.Reply}}</div>
{{- if .Notice}}
<p class="notice">{{.Notice}}</p>
{{- end}}
{{- if .Steps}}
<h3>Langkah yang dijalankan</h3>
{{- range .Steps}}
<div class="step{{if not .OK}} failed{{end}}" data-action="{{.Action}}">
<strong>{{.Action}}</strong>: {{if .OK}}berhasil{{else}}gagal{{end}}
<pre>{{.Details}}</pre>
</div>
{{- end}}
{{- end}}
{{- with .Offers}}
<h3>Pilihan Hotel di {{.Destination}}</h3>
{{- range .Questions}}
<p class="question">{{.}}</p>
{{- end}}
{{- range .Offers}}
<div class="card hotel-card offer" data-platform="{{.Platform}}">
<h4>{{.Name}}</h4>
<p><strong>Lokasi:</strong> {{.Area}}, mulai dari {{.DisplayPrice}}</p>
<p><a href="{{.Link}}" target="_blank" rel="noopener">Lihat Ketersediaan</a></p>
</div>
{{- end}}
{{- end}}
</body>
</html>
`

var hookPage = template.Must(template.New("hook").Parse(hookTemplate))

type IAgentService interface {
	Handle(ctx context.Context, req dto.HookRequest) dto.HookResponse
	// Reject answers a request that could not be read; the webhook still replies 200.
	Reject(message, reason string) dto.HookResponse
	RenderHTML(w io.Writer, res dto.HookResponse) error
}

type agentService struct {
	pipeline      *agent.Pipeline
	coordinator   *travel.Coordinator
	defaultUserID string
	policy        *bluemonday.Policy
	logger        logger.ILogger
}

func NewAgentService(pipeline *agent.Pipeline, coordinator *travel.Coordinator, defaultUserID string, logger logger.ILogger) IAgentService {
	if defaultUserID == "" {
		defaultUserID = "demo-user"
	}
	return &agentService{
		pipeline:      pipeline,
		coordinator:   coordinator,
		defaultUserID: defaultUserID,
		policy:        bluemonday.UGCPolicy(),
		logger:        logger,
	}
}

func (s *agentService) Handle(ctx context.Context, req dto.HookRequest) dto.HookResponse {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = s.defaultUserID
	}

	reply := s.pipeline.Handle(ctx, userID, req.Message)
	res := dto.HookResponse{
		RunID:    reply.RunID,
		Response: reply.Response,
		Details:  reply.Details,
		Notice:   reply.Notice,
	}

	if req.WantsOffers() && s.coordinator != nil {
		page := s.coordinator.Plan(ctx, travel.CoordinatorRequest{
			Message: req.Message,
			Area:    req.Area,
			Budget:  req.Budget,
			Guests:  req.Guests,
		})
		res.Offers = &page
	}
	return res
}

func (s *agentService) Reject(message, reason string) dto.HookResponse {
	s.logger.Warn("HOOK", "Unreadable webhook request", map[string]interface{}{"reason": reason})
	return dto.HookResponse{
		Response: agent.Echo(message),
		Notice:   reason,
	}
}

type hookStep struct {
	Action  string
	OK      bool
	Details string
}

type hookView struct {
	Reply  template.HTML
	Notice string
	Steps  []hookStep
	Offers *travel.CoordinatorPage
}

// RenderHTML sanitises the reply text (it may come from the model) and keeps
// its line breaks.
func (s *agentService) RenderHTML(w io.Writer, res dto.HookResponse) error {
	view := hookView{
		Reply:  template.HTML(strings.ReplaceAll(s.policy.Sanitize(res.Response), "\n", "<br>")),
		Notice: res.Notice,
		Offers: res.Offers,
	}
	for _, rec := range res.Details {
		details, err := json.MarshalIndent(rec.Result.Details, "", "  ")
		if err != nil {
			details = []byte(err.Error())
		}
		view.Steps = append(view.Steps, hookStep{
			Action:  string(rec.Step.Action),
			OK:      rec.Result.OK,
			Details: string(details),
		})
	}
	return hookPage.Execute(w, view)
}
