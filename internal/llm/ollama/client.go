// Package ollama talks to a local Ollama server through its /api/chat endpoint.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joseph-ayodele/doc2json/internal/llm"
)

const DefaultHost = "http://localhost:11434"

type Config struct {
	Host    string        // default http://localhost:11434
	Timeout time.Duration // http client timeout; 0 -> none
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

var _ llm.ChatClient = (*Client)(nil)

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type options struct {
	Temperature *float32 `json:"temperature,omitempty"`
}

type chatBody struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
}

type chatReply struct {
	Message *struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error"`
}

// Chat sends a single non-streaming chat request.
func (c *Client) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	start := time.Now()
	endpoint := strings.TrimRight(c.cfg.Host, "/") + "/api/chat"

	body := chatBody{Model: req.Model, Messages: req.Messages, Stream: false}
	if req.Temperature != nil {
		body.Options = &options{Temperature: req.Temperature}
	}

	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, nil, c.logger)
	if err != nil {
		var reply chatReply
		if json.Unmarshal(raw, &reply) == nil && reply.Error != "" {
			err = fmt.Errorf("%s (status %d)", reply.Error, status)
		}
		c.logger.Error("llm.chat.http_error",
			"provider", "ollama",
			"status", status,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("ollama chat: %w", err)
	}

	var reply chatReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		c.logger.Error("llm.chat.decode_error",
			"provider", "ollama", "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("decode ollama response: %w", err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("ollama chat: %s", reply.Error)
	}
	if reply.Message == nil {
		return &llm.ChatResponse{}, nil
	}
	return &llm.ChatResponse{Message: &llm.Message{Role: llm.Role(reply.Message.Role), Content: reply.Message.Content}}, nil
}
