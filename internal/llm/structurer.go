package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/doc2json/internal/common"
)

type StructurerConfig struct {
	Model       string
	Temperature *float32
	Timeout     time.Duration // 0 -> no deadline
}

// Structurer turns extracted text into a JSON string via a chat model.
type Structurer struct {
	client ChatClient
	cfg    StructurerConfig
	logger *slog.Logger
}

func NewStructurer(client ChatClient, cfg StructurerConfig, logger *slog.Logger) *Structurer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Structurer{client: client, cfg: cfg, logger: logger}
}

// Structure returns the model's message content and true, or "" and false when
// the call failed or the response carried no content. Errors are logged, never returned.
//
// Whitespace-only content counts as no content.
func (s *Structurer) Structure(ctx context.Context, text string) (string, bool) {
	rid := uuid.New().String()
	start := time.Now()
	log := s.logger.With("req_id", rid, "model", s.cfg.Model, "source_path", common.SourcePathFromContext(ctx))

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	log.Info("llm.structure.start", "text_len", len(text))

	resp, err := s.client.Chat(ctx, ChatRequest{
		Model:       s.cfg.Model,
		Messages:    BuildMessages(text),
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		log.Error("llm.structure.error",
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", false
	}
	if resp == nil || resp.Message == nil || strings.TrimSpace(resp.Message.Content) == "" {
		log.Error("llm.structure.empty_response",
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", false
	}

	log.Info("llm.structure.ok",
		"content_len", len(resp.Message.Content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return resp.Message.Content, true
}
