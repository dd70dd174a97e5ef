package reviewer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaLLM_Complete(t *testing.T) {
	var got ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"qwen2.5:0.5b","response":"  {\"readability\":\"ok\"}\n","done":true}`))
	}))
	defer srv.Close()

	llm, err := NewOllamaLLMFromConfig(&LLMSettings{Provider: ProviderOllama, Model: "qwen2.5:0.5b", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	out, err := llm.Complete(context.Background(), Prompt{System: "sys", User: "user"})
	require.NoError(t, err)

	assert.Equal(t, `{"readability":"ok"}`, out)
	assert.Equal(t, "qwen2.5:0.5b", got.Model)
	assert.Equal(t, "user", got.Prompt)
	assert.Equal(t, "sys", got.System)
	assert.False(t, got.Stream)
}

func TestOllamaLLM_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		diagnostic string
	}{
		{name: "non-200", status: http.StatusNotFound, body: `{"error":"model 'x' not found"}`, diagnostic: "model 'x' not found"},
		{name: "error field", status: http.StatusOK, body: `{"error":"out of memory"}`, diagnostic: "out of memory"},
		{name: "not json", status: http.StatusOK, body: `<html>proxy</html>`, diagnostic: "unexpected response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			llm, err := NewOllamaLLMFromConfig(&LLMSettings{Model: "x", BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = llm.Complete(context.Background(), Prompt{User: "u"})

			assert.ErrorIs(t, err, ErrModelInvocation)
			var me *ModelError
			require.ErrorAs(t, err, &me)
			assert.Contains(t, me.Diagnostic, tt.diagnostic)
		})
	}
}
