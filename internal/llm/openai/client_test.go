package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/doc2json/internal/llm"
	"github.com/joseph-ayodele/doc2json/internal/llm/openai"
)

func TestChat_CompletionsRequest(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"{\"a\":1}"}}]}`))
	}))
	defer srv.Close()

	c := openai.NewClient(openai.Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1/"}, nil)
	resp, err := c.Chat(context.Background(), llm.ChatRequest{Model: "gpt-4o-mini", Messages: llm.BuildMessages("t")})
	require.NoError(t, err)
	require.NotNil(t, resp.Message)
	assert.Equal(t, `{"a":1}`, resp.Message.Content)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.NotContains(t, got, "temperature")
	assert.Len(t, got["messages"], 2)
}

func TestChat_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	resp, err := openai.NewClient(openai.Config{APIKey: "k", BaseURL: srv.URL}, nil).
		Chat(context.Background(), llm.ChatRequest{Model: "m"})
	require.NoError(t, err)
	assert.Nil(t, resp.Message)
}

func TestChat_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer srv.Close()

	_, err := openai.NewClient(openai.Config{APIKey: "bad", BaseURL: srv.URL}, nil).
		Chat(context.Background(), llm.ChatRequest{Model: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Incorrect API key")
}

func TestNewClient_APIKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "from-env")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer from-env", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"x"}}]}`))
	}))
	defer srv.Close()

	_, err := openai.NewClient(openai.Config{BaseURL: srv.URL}, nil).
		Chat(context.Background(), llm.ChatRequest{Model: "m"})
	require.NoError(t, err)
}
