package reviewer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM replays canned completions and records the prompts it saw.
type scriptedLLM struct {
	replies []string
	errs    []error
	prompts []Prompt
}

func (s *scriptedLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", errors.New("no scripted reply")
}

type blockingLLM struct{}

func (blockingLLM) Complete(ctx context.Context, _ Prompt) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestNewAgent_RequiresClient(t *testing.T) {
	_, err := NewAgent(nil)
	assert.Error(t, err)
}

func TestAgent_AnalyzeThenRevise(t *testing.T) {
	llm := &scriptedLLM{replies: []string{
		`{"readability":"clear","structure":"clear","completeness":"clear","style_guidelines":[]}`,
		"  Revised article.\n",
	}}
	agent, err := NewAgent(llm)
	require.NoError(t, err)

	analysis, err := agent.Analyze(context.Background(), "Sample Title", "Para one.\nPara two.")
	require.NoError(t, err)
	assert.Equal(t, "clear", analysis.Readability.Assessment)

	revised, err := agent.Revise(context.Background(), "Para one.\nPara two.", analysis)
	require.NoError(t, err)
	assert.Equal(t, "Revised article.", revised)

	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[0].User, "Article Title: Sample Title")
	assert.Contains(t, llm.prompts[1].User, "- Improve readability clarity")
	assert.Contains(t, llm.prompts[1].User, "- Use simpler structure for readability")
}

func TestAgent_AnalyzeModelError(t *testing.T) {
	agent, err := NewAgent(&scriptedLLM{errs: []error{errors.New("exit status 1")}})
	require.NoError(t, err)

	_, err = agent.Analyze(context.Background(), "t", "b")

	assert.ErrorIs(t, err, ErrModelInvocation)
	var me *ModelError
	require.ErrorAs(t, err, &me)
	assert.Contains(t, me.Error(), "exit status 1")
}

func TestAgent_AnalyzeUnstructuredOutput(t *testing.T) {
	agent, err := NewAgent(&scriptedLLM{replies: []string{"The article looks fine to me."}})
	require.NoError(t, err)

	_, err = agent.Analyze(context.Background(), "t", "b")

	var outErr *OutputError
	require.ErrorAs(t, err, &outErr)
	assert.Equal(t, "The article looks fine to me.", outErr.Raw)
	assert.False(t, errors.Is(err, ErrModelInvocation))
}

func TestAgent_TimeoutBoundsCompletion(t *testing.T) {
	agent, err := NewAgent(blockingLLM{}, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = agent.Revise(context.Background(), "b", Analysis{})

	assert.ErrorIs(t, err, ErrModelInvocation)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMockLLM_RoundTrip(t *testing.T) {
	agent, err := NewAgent(MockLLM{})
	require.NoError(t, err)

	analysis, err := agent.Analyze(context.Background(), "Title", "Line one.\nLine two.")
	require.NoError(t, err)
	assert.Equal(t, ShapeFlat, analysis.Shape)
	assert.Len(t, analysis.StyleGuidelines.Suggestions, 2)

	revised, err := agent.Revise(context.Background(), "Line one.\nLine two.", analysis)
	require.NoError(t, err)
	assert.Equal(t, "Line one.\nLine two.", revised)
}

func TestNewLLMFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *LLMSettings
		want    any
		wantErr bool
	}{
		{name: "default is ollama cli", cfg: &LLMSettings{Model: "qwen2.5:0.5b"}, want: &OllamaCLI{}},
		{name: "ollama http", cfg: &LLMSettings{Provider: ProviderOllama, Model: "m"}, want: &OllamaLLM{}},
		{name: "openai compatible", cfg: &LLMSettings{Provider: ProviderOpenAI, Model: "m", BaseURL: "http://localhost:11434/v1/"}, want: &OpenAILLM{}},
		{name: "openai without key", cfg: &LLMSettings{Provider: ProviderOpenAI, Model: "m"}, wantErr: true},
		{name: "mock", cfg: &LLMSettings{Provider: ProviderMock}, want: MockLLM{}},
		{name: "unknown", cfg: &LLMSettings{Provider: "bard", Model: "m"}, wantErr: true},
		{name: "missing model", cfg: &LLMSettings{Provider: ProviderOllama}, wantErr: true},
		{name: "nil", cfg: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewLLMFromConfig(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}
