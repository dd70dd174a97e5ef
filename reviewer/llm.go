package reviewer

import (
	"context"
	"errors"
	"fmt"
)

// Provider names accepted by NewLLMFromConfig.
const (
	ProviderOllamaCLI = "ollama-cli"
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderMock      = "mock"
)

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	// Command is the executable used by the ollama-cli provider.
	Command string
}

// NewLLMFromConfig picks the completion collaborator for cfg.Provider.
func NewLLMFromConfig(cfg *LLMSettings) (LLMClient, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	switch cfg.Provider {
	case ProviderOllamaCLI, "":
		return NewOllamaCLIFromConfig(cfg)
	case ProviderOllama:
		return NewOllamaLLMFromConfig(cfg)
	case ProviderOpenAI:
		return NewOpenAILLMFromConfig(cfg)
	case ProviderMock:
		return MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}
