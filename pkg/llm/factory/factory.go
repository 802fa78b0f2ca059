package factory

import (
	"errors"
	"fmt"

	"haruhi-agent-be/pkg/llm"
	"haruhi-agent-be/pkg/llm/ollama"
	"haruhi-agent-be/pkg/llm/openai"
)

var ErrUnsupportedProvider = errors.New("unsupported LLM provider")

const huggingFaceRouterURL = "https://router.huggingface.co/v1"

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai", "openrouter":
		return openai.NewOpenAIProvider(apiKey, modelName, baseURL)
	case "huggingface":
		// the router speaks the OpenAI chat completion protocol
		if baseURL == "" {
			baseURL = huggingFaceRouterURL
		}
		return openai.NewOpenAIProvider(apiKey, modelName, baseURL)
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName, 0), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, providerType)
	}
}
