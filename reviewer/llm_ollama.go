package reviewer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultOllamaHost = "http://localhost:11434"

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Model      string `json:"model"`
	Response   string `json:"response"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason"`
	Error      string `json:"error"`
}

// OllamaLLM calls a local Ollama server's /api/generate endpoint without streaming.
type OllamaLLM struct {
	Model  string
	Host   string
	Client *http.Client
}

func NewOllamaLLMFromConfig(cfg *LLMSettings) (*OllamaLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	host := strings.TrimRight(cfg.BaseURL, "/")
	if host == "" {
		host = defaultOllamaHost
	}
	// 超时由调用方的 context 控制。
	return &OllamaLLM{Model: cfg.Model, Host: host, Client: &http.Client{}}, nil
}

func (o *OllamaLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:  o.Model,
		Prompt: prompt.User,
		System: prompt.System,
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.Host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", &ModelError{Provider: ProviderOllama, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ModelError{Provider: ProviderOllama, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ModelError{
			Provider:   ProviderOllama,
			Diagnostic: fmt.Sprintf("status %s: %s", resp.Status, strings.TrimSpace(string(raw))),
		}
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &ModelError{
			Provider:   ProviderOllama,
			Diagnostic: fmt.Sprintf("unexpected response: %s", strings.TrimSpace(string(raw))),
			Err:        err,
		}
	}
	if parsed.Error != "" {
		return "", &ModelError{Provider: ProviderOllama, Diagnostic: parsed.Error}
	}
	return strings.TrimSpace(parsed.Response), nil
}
