package reviewer

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

const defaultOllamaCommand = "ollama"

// OllamaCLI runs `ollama run <model>` with the prompt on stdin.
type OllamaCLI struct {
	Model   string
	Command string
}

func NewOllamaCLIFromConfig(cfg *LLMSettings) (*OllamaCLI, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	command := cfg.Command
	if command == "" {
		command = defaultOllamaCommand
	}
	return &OllamaCLI{Model: cfg.Model, Command: command}, nil
}

func (o *OllamaCLI) Complete(ctx context.Context, prompt Prompt) (string, error) {
	cmd := exec.CommandContext(ctx, o.Command, "run", o.Model)
	cmd.Stdin = strings.NewReader(prompt.Text())
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", &ModelError{
			Provider:   ProviderOllamaCLI,
			Diagnostic: strings.TrimSpace(stderr.String()),
			Err:        err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}
