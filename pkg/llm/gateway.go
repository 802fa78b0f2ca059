package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"haruhi-agent-be/pkg/metrics"
)

var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-[A-Za-z0-9_\-]{6,}`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._\-]+`),
}

// Gateway is the only entry point the pipeline uses to reach a model.
// Chat never returns an error: a failed or unavailable backend yields ("", false)
// and the reason is kept for LastError.
type Gateway struct {
	provider  LLMProvider
	secrets   []string
	lastError atomic.Pointer[string]
}

// NewGateway accepts a nil provider; the gateway then reports itself unavailable.
// secrets are scrubbed from every recorded diagnostic.
func NewGateway(provider LLMProvider, secrets ...string) *Gateway {
	g := &Gateway{provider: provider}
	for _, s := range secrets {
		if strings.TrimSpace(s) != "" {
			g.secrets = append(g.secrets, s)
		}
	}
	return g
}

func (g *Gateway) Available() bool {
	return g != nil && g.provider != nil
}

// MarkUnavailable records why no provider could be built (missing key, bad provider name).
func (g *Gateway) MarkUnavailable(reason string) {
	g.setLastError(reason)
}

func (g *Gateway) LastError() string {
	if g == nil {
		return "llm gateway not configured"
	}
	if p := g.lastError.Load(); p != nil {
		return *p
	}
	return ""
}

func (g *Gateway) Chat(ctx context.Context, messages []Message, maxTokens int, temperature float64) (text string, ok bool) {
	if !g.Available() {
		if g != nil && g.LastError() == "" {
			g.setLastError("llm provider not configured")
		}
		metrics.LLMCalls.WithLabelValues("unavailable").Inc()
		return "", false
	}
	if len(messages) == 0 {
		g.setLastError("empty message list")
		metrics.LLMCalls.WithLabelValues("invalid").Inc()
		return "", false
	}

	defer func() {
		if r := recover(); r != nil {
			g.setLastError(fmt.Sprintf("provider panic: %v", r))
			metrics.LLMCalls.WithLabelValues("error").Inc()
			text, ok = "", false
		}
	}()

	out, err := g.provider.Chat(ctx, messages, WithMaxTokens(maxTokens), WithTemperature(temperature))
	if err != nil {
		g.setLastError(err.Error())
		metrics.LLMCalls.WithLabelValues("error").Inc()
		return "", false
	}
	if strings.TrimSpace(out) == "" {
		g.setLastError("empty completion")
		metrics.LLMCalls.WithLabelValues("empty").Inc()
		return "", false
	}

	metrics.LLMCalls.WithLabelValues("ok").Inc()
	return out, true
}

func (g *Gateway) setLastError(reason string) {
	clean := g.redact(reason)
	g.lastError.Store(&clean)
}

func (g *Gateway) redact(s string) string {
	for _, secret := range g.secrets {
		s = strings.ReplaceAll(s, secret, "***")
	}
	for _, re := range secretPatterns {
		s = re.ReplaceAllString(s, "***")
	}
	return s
}
