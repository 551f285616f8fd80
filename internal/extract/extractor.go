package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/doc2json/constants"
	"github.com/joseph-ayodele/doc2json/internal/common"
)

type Config struct {
	Antiword    string // binary name or absolute path; if empty -> "antiword"
	MaxFileSize int64  // bytes; <= 0 -> no limit
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

var _ TextExtractor = (*Extractor)(nil)

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Antiword == "" {
		cfg.Antiword = "antiword"
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// WithRunner swaps the external command runner; used by tests.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// Extract renders the document at path as plain text according to its kind.
func (e *Extractor) Extract(ctx context.Context, path string, kind constants.Kind) (string, error) {
	start := time.Now()
	if !kind.Supported() {
		e.logger.Error("unsupported extraction kind", "path", path, "kind", kind)
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedKind, kind)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if e.cfg.MaxFileSize > 0 && info.Size() > e.cfg.MaxFileSize {
		return "", fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), e.cfg.MaxFileSize)
	}

	e.logger.Debug("extract.start", "path", path, "kind", kind, "bytes", info.Size())

	var text string
	switch kind {
	case constants.KindPDF:
		text, err = e.extractPDF(ctx, path)
	case constants.KindDOCX:
		var c Content
		c, err = e.extractDocx(path)
		text = Render(c)
	case constants.KindDOC:
		var c Content
		c, err = e.extractDoc(ctx, path)
		text = Render(c)
	}
	if err != nil {
		e.logger.Error("extract.failed", "path", path, "kind", kind, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("extract %s (%s): %w", path, kind, err)
	}

	e.logger.Info("extract.ok",
		"path", path,
		"kind", kind,
		"chars", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
