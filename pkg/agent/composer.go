package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"haruhi-agent-be/pkg/llm"
)

const polishInstruction = "You are Haruhi, an Indonesian assistant. Rephrase the following execution summary into a friendly, professional Indonesian confirmation message. Include clear CTAs for the user to verify calendar invites and next steps. Keep it concise (3-6 sentences)."

type Composer struct {
	gateway     ChatGateway
	logger      Logger
	maxTokens   int
	temperature float64
}

func NewComposer(gateway ChatGateway, logger Logger) *Composer {
	return &Composer{
		gateway:     gateway,
		logger:      orNop(logger),
		maxTokens:   300,
		temperature: 0.7,
	}
}

// Structured renders the summary and every step as
//
//	Ringkasan: <summary>
//
//	Action: <action>
//
//	Result: <json>
//
// The output depends only on its inputs.
func Structured(summary string, records []ExecutionRecord) string {
	parts := make([]string, 0, 1+2*len(records))
	parts = append(parts, "Ringkasan: "+summary)
	for _, rec := range records {
		parts = append(parts, "Action: "+string(rec.Step.Action))
		parts = append(parts, "Result: "+encodeResult(rec.Result))
	}
	return strings.Join(parts, "\n\n")
}

// encodeResult keeps non-ASCII and HTML characters as they are.
func encodeResult(res StepResult) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return fmt.Sprintf(`{"action":%q,"ok":%t,"details":null}`, res.Action, res.OK)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// Compose returns the polished reply, or the structured text verbatim when
// the polish call yields nothing. polished reports which one was used.
func (c *Composer) Compose(ctx context.Context, summary string, records []ExecutionRecord) (reply string, polished bool) {
	structured := Structured(summary, records)

	out, ok := c.gateway.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: polishInstruction},
		{Role: llm.RoleUser, Content: structured},
	}, c.maxTokens, c.temperature)
	if !ok || strings.TrimSpace(out) == "" {
		c.logger.Info("COMPOSER", "Polish unavailable, using structured reply", map[string]interface{}{
			"reason": c.gateway.LastError(),
		})
		return structured, false
	}
	return strings.TrimSpace(out), true
}
