package openai

import (
	"context"
	"errors"
	"fmt"

	"haruhi-agent-be/pkg/llm"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// OpenAIProvider talks to the chat completion API through langchaingo.
type OpenAIProvider struct {
	model     llms.Model
	ModelName string
}

var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, modelName, baseURL string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is not configured")
	}

	opts := []lcopenai.Option{
		lcopenai.WithToken(apiKey),
		lcopenai.WithModel(modelName),
	}
	if baseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(baseURL))
	}

	model, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}

	return NewWithModel(model, modelName), nil
}

// NewWithModel wraps any langchaingo model; used by tests with a fake model.
func NewWithModel(model llms.Model, modelName string) *OpenAIProvider {
	return &OpenAIProvider{model: model, ModelName: modelName}
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(opts...)

	messages := make([]llms.MessageContent, 0, len(history))
	for _, msg := range history {
		messages = append(messages, llms.TextParts(toChatMessageType(msg.Role), msg.Content))
	}

	callOpts := []llms.CallOption{llms.WithTemperature(options.Temperature)}
	if options.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(options.MaxTokens))
	}
	if options.Model != "" {
		callOpts = append(callOpts, llms.WithModel(options.Model))
	}

	resp, err := p.model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", fmt.Errorf("openai chat failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("openai chat returned no choices")
	}

	return resp.Choices[0].Content, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func toChatMessageType(role string) llms.ChatMessageType {
	switch role {
	case llm.RoleSystem:
		return llms.ChatMessageTypeSystem
	case llm.RoleAssistant, "model":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
