package reviewer

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Agent 负责调用模型完成分析与改写两个阶段。
type Agent struct {
	llm     LLMClient
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithTimeout bounds each completion call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(a *Agent) { a.timeout = d }
}

// WithLogger sets the agent's logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

func NewAgent(llm LLMClient, opts ...Option) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	a := &Agent{llm: llm, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Analyze asks the model to critique the article and normalizes the answer.
// Model failures are *ModelError; unusable output is *OutputError.
func (a *Agent) Analyze(ctx context.Context, title, body string) (Analysis, error) {
	raw, err := a.complete(ctx, "analyze", BuildAnalysisPrompt(title, body))
	if err != nil {
		return Analysis{}, err
	}
	analysis, err := ParseAnalysis(raw)
	if err != nil {
		a.logger.Warn("analysis output unusable", zap.Error(err), zap.Int("raw_len", len(raw)))
		return Analysis{}, err
	}
	a.logger.Debug("analysis normalized", zap.String("shape", string(analysis.Shape)))
	return analysis, nil
}

// Revise asks the model to rewrite body using the analysis suggestions. The
// completion is returned as the revised article without further parsing.
func (a *Agent) Revise(ctx context.Context, body string, analysis Analysis) (string, error) {
	raw, err := a.complete(ctx, "revise", BuildRevisionPrompt(body, analysis))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func (a *Agent) complete(ctx context.Context, stage string, prompt Prompt) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	a.logger.Debug("completion request", zap.String("stage", stage), zap.Int("prompt_len", len(prompt.Text())))
	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		var me *ModelError
		if !errors.As(err, &me) {
			err = &ModelError{Provider: "llm", Err: err}
		}
		a.logger.Error("completion failed", zap.String("stage", stage), zap.Error(err))
		return "", err
	}
	a.logger.Info("completion received",
		zap.String("stage", stage),
		zap.Int("response_len", len(raw)),
		zap.Duration("elapsed", time.Since(start)))
	return raw, nil
}
