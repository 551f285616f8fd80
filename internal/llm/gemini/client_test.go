package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/doc2json/internal/llm"
	"github.com/joseph-ayodele/doc2json/internal/llm/gemini"
)

func TestBuildRequest_SystemBecomesInstruction(t *testing.T) {
	temp := float32(0.1)
	contents, config := gemini.BuildRequest(llm.ChatRequest{
		Model:       "gemini-2.5-flash",
		Messages:    llm.BuildMessages("body"),
		Temperature: &temp,
	})

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Equal(t, llm.SystemPrompt, config.SystemInstruction.Parts[0].Text)
	assert.Equal(t, &temp, config.Temperature)

	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, llm.BuildUserPrompt("body"), contents[0].Parts[0].Text)
}

func TestBuildRequest_AssistantMapsToModel(t *testing.T) {
	contents, config := gemini.BuildRequest(llm.ChatRequest{Messages: []llm.Message{
		{Role: llm.RoleUser, Content: "q"},
		{Role: llm.RoleAssistant, Content: "a"},
	}})
	assert.Nil(t, config.SystemInstruction)
	assert.Nil(t, config.Temperature)
	require.Len(t, contents, 2)
	assert.Equal(t, "model", contents[1].Role)
}

func TestChat_GenerateContent(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"ok\":true}"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	c, err := gemini.NewClient(context.Background(), gemini.Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	resp, err := c.Chat(context.Background(), llm.ChatRequest{Model: "gemini-2.5-flash", Messages: llm.BuildMessages("x")})
	require.NoError(t, err)
	require.NotNil(t, resp.Message)
	assert.Equal(t, `{"ok":true}`, resp.Message.Content)
	assert.Contains(t, body, "systemInstruction")
}

func TestChat_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c, err := gemini.NewClient(context.Background(), gemini.Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	resp, err := c.Chat(context.Background(), llm.ChatRequest{Model: "gemini-2.5-flash", Messages: llm.BuildMessages("x")})
	require.NoError(t, err)
	assert.Nil(t, resp.Message)
}
