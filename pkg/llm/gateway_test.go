package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	out   string
	err   error
	panic bool
	opts  *Options
}

func (s *stubProvider) Chat(_ context.Context, _ []Message, opts ...Option) (string, error) {
	s.opts = ApplyOptions(opts...)
	if s.panic {
		panic("nil pointer in sdk")
	}
	return s.out, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return s.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}}, opts...)
}

var hello = []Message{{Role: RoleUser, Content: "halo"}}

func TestGateway_Unavailable(t *testing.T) {
	g := NewGateway(nil)

	out, ok := g.Chat(context.Background(), hello, 100, 0.5)

	assert.False(t, g.Available())
	assert.False(t, ok)
	assert.Empty(t, out)
	assert.Equal(t, "llm provider not configured", g.LastError())
}

func TestGateway_MarkUnavailableKeepsReason(t *testing.T) {
	g := NewGateway(nil)
	g.MarkUnavailable("openai api key is not configured")

	_, ok := g.Chat(context.Background(), hello, 100, 0.5)

	assert.False(t, ok)
	assert.Equal(t, "openai api key is not configured", g.LastError())
}

func TestGateway_PassesOptionsAndReturnsText(t *testing.T) {
	p := &stubProvider{out: "hai"}
	g := NewGateway(p)

	out, ok := g.Chat(context.Background(), hello, 300, 0.2)

	assert.True(t, ok)
	assert.Equal(t, "hai", out)
	assert.Equal(t, 300, p.opts.MaxTokens)
	assert.Equal(t, 0.2, p.opts.Temperature)
}

func TestGateway_FailuresNeverEscape(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		messages []Message
		wantErr  string
	}{
		{"provider error", &stubProvider{err: errors.New("401 unauthorized")}, hello, "401 unauthorized"},
		{"empty completion", &stubProvider{out: "  "}, hello, "empty completion"},
		{"panic", &stubProvider{panic: true}, hello, "provider panic: nil pointer in sdk"},
		{"no messages", &stubProvider{out: "x"}, nil, "empty message list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGateway(tt.provider)

			out, ok := g.Chat(context.Background(), tt.messages, 10, 0.7)

			assert.False(t, ok)
			assert.Empty(t, out)
			assert.Equal(t, tt.wantErr, g.LastError())
		})
	}
}

func TestGateway_RedactsSecrets(t *testing.T) {
	p := &stubProvider{err: errors.New("auth failed for key my-custom-secret (sk-abcdef1234567890) header Bearer eyJhbGciOi.x.y")}
	g := NewGateway(p, "my-custom-secret", "")

	_, ok := g.Chat(context.Background(), hello, 10, 0.7)

	assert.False(t, ok)
	assert.Equal(t, "auth failed for key *** (***) header ***", g.LastError())
}
