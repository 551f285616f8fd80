// Command extracttext prints the text doc2json would send to the model for one file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/doc2json/constants"
	"github.com/joseph-ayodele/doc2json/internal/common"
	"github.com/joseph-ayodele/doc2json/internal/extract"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "extracttext <file.pdf|file.doc|file.docx>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	x := extract.NewExtractor(extract.Config{
		Antiword:    cfg.Extract.Antiword,
		MaxFileSize: cfg.Extract.MaxFileSize,
	}, logger)

	start := time.Now()
	text, err := x.Extract(ctx, path, constants.KindFromPath(path))
	if err != nil {
		logger.Error("text extraction failed", "path", path, "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	logger.Info("text extraction OK",
		"path", path,
		"bytes", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	fmt.Print(text)
}
