// Command doc2json converts the PDF, DOC and DOCX files in ./input into
// structured JSON in ./output using a chat language model.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/doc2json/internal/artifact"
	"github.com/joseph-ayodele/doc2json/internal/common"
	"github.com/joseph-ayodele/doc2json/internal/export"
	"github.com/joseph-ayodele/doc2json/internal/extract"
	"github.com/joseph-ayodele/doc2json/internal/llm"
	"github.com/joseph-ayodele/doc2json/internal/llm/gemini"
	"github.com/joseph-ayodele/doc2json/internal/llm/ollama"
	"github.com/joseph-ayodele/doc2json/internal/llm/openai"
	"github.com/joseph-ayodele/doc2json/internal/pipeline"
	"github.com/joseph-ayodele/doc2json/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Stdout)
	stop()
	os.Exit(code)
}

// run wires the pipeline from configuration and processes the input directory once.
// Only configuration errors produce a non-zero exit code.
func run(ctx context.Context, stdout io.Writer) int {
	cfg, err := common.LoadConfig()
	if err != nil {
		printError("Error: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return 1
	}

	client, err := newChatClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create chat client", "provider", cfg.LLM.Provider, "error", err)
		return 1
	}
	logger.Info("chat client initialized", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model, "base_url", cfg.LLM.BaseURL)

	extractor := extract.NewExtractor(extract.Config{
		Antiword:    cfg.Extract.Antiword,
		MaxFileSize: cfg.Extract.MaxFileSize,
	}, logger)
	structurer := llm.NewStructurer(client, llm.StructurerConfig{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	processor := pipeline.NewProcessor(pipeline.Config{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
	}, extractor, structurer, logger)

	if cfg.Output.SchemaPath != "" {
		schema, err := artifact.LoadSchema(cfg.Output.SchemaPath)
		if err != nil {
			logger.Error("failed to load output schema", "path", cfg.Output.SchemaPath, "error", err)
			return 1
		}
		processor.WithSchema(schema)
	}

	if cfg.Jobs.DBPath != "" {
		db, err := repository.Open(ctx, cfg.Jobs.DBPath, logger)
		if err != nil {
			logger.Error("failed to open job ledger", "path", cfg.Jobs.DBPath, "error", err)
			return 1
		}
		defer repository.Close(db, logger)
		processor.WithJobs(repository.NewJobRepository(db, logger))
	}

	sum, err := processor.Run(ctx)
	switch {
	case errors.Is(err, common.ErrInputDirNotFound):
		logger.Error("input directory not found", "input_dir", cfg.InputDir)
		return 0
	case errors.Is(err, context.Canceled):
		logger.Warn("run interrupted", "succeeded", sum.Succeeded, "failed", sum.Failed)
	case err != nil:
		logger.Error("run failed", "error", err)
		return 0
	}

	if cfg.Report.Path != "" {
		if err := export.NewReporter(logger).WriteSummary(cfg.Report.Path, sum, time.Now()); err != nil {
			logger.Error("failed to write run report", "path", cfg.Report.Path, "error", err)
		} else {
			logger.Info("run report written", "path", cfg.Report.Path)
		}
	}

	logger.Info("summary",
		"scanned", sum.Scanned,
		"matched", sum.Matched,
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
		"raw_fallback", sum.RawFallbacks,
		"schema_mismatch", sum.SchemaMismatches,
		"elapsed_ms", sum.Elapsed.Milliseconds(),
	)
	for _, r := range sum.Results {
		if !r.OK() {
			logger.Warn("file not converted", "path", r.Path, "stage", r.Stage, "error", r.ErrText())
		}
	}
	return 0
}

func newChatClient(ctx context.Context, cfg *common.Config, logger *slog.Logger) (llm.ChatClient, error) {
	switch cfg.LLM.Provider {
	case common.ProviderOllama:
		return ollama.NewClient(ollama.Config{Host: cfg.LLM.BaseURL}, logger), nil
	case common.ProviderOpenAI:
		return openai.NewClient(openai.Config{APIKey: cfg.LLM.APIKey, BaseURL: cfg.LLM.BaseURL}, logger), nil
	case common.ProviderGemini:
		return gemini.NewClient(ctx, gemini.Config{APIKey: cfg.LLM.APIKey, BaseURL: cfg.LLM.BaseURL}, logger)
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", common.ErrInvalidConfig, cfg.LLM.Provider)
	}
}
