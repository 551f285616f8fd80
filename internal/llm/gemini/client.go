// Package gemini adapts the Google Gemini API to llm.ChatClient.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/joseph-ayodele/doc2json/internal/llm"
)

type Config struct {
	APIKey  string
	BaseURL string        // optional endpoint override
	Timeout time.Duration // 0 -> none
}

type Client struct {
	client *genai.Client
	logger *slog.Logger
}

var _ llm.ChatClient = (*Client)(nil)

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{client: client, logger: logger}, nil
}

// Chat maps system messages onto the system instruction and the rest onto
// user/model turns.
func (c *Client) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	start := time.Now()
	contents, config := BuildRequest(req)

	result, err := c.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		c.logger.Error("llm.chat.http_error",
			"provider", "gemini",
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if result == nil {
		return &llm.ChatResponse{}, nil
	}
	text := result.Text()
	if text == "" {
		return &llm.ChatResponse{}, nil
	}
	return &llm.ChatResponse{Message: &llm.Message{Role: llm.RoleAssistant, Content: text}}, nil
}

// BuildRequest converts a chat request into Gemini contents and config.
func BuildRequest(req llm.ChatRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{Temperature: req.Temperature}

	var contents []*genai.Content
	var system []*genai.Part
	for _, m := range req.Messages {
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, &genai.Part{Text: m.Content})
		case llm.RoleAssistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: m.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: m.Content}}})
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{Parts: system}
	}
	return contents, config
}
