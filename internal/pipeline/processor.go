// Package pipeline runs extract, structure and persist for each input document.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/doc2json/constants"
	"github.com/joseph-ayodele/doc2json/internal/artifact"
	"github.com/joseph-ayodele/doc2json/internal/common"
	"github.com/joseph-ayodele/doc2json/internal/extract"
	"github.com/joseph-ayodele/doc2json/internal/ingest"
	"github.com/joseph-ayodele/doc2json/internal/repository"
)

// Structurer turns extracted text into model output.
type Structurer interface {
	Structure(ctx context.Context, text string) (string, bool)
}

// SchemaChecker validates persisted JSON.
type SchemaChecker interface {
	Check(data []byte) error
}

type Config struct {
	InputDir  string
	OutputDir string
}

// Processor coordinates text extraction then structuring, and relocates the source.
type Processor struct {
	cfg        Config
	extractor  extract.TextExtractor
	structurer Structurer
	jobs       repository.JobRepository
	schema     SchemaChecker
	remove     func(name string) error
	logger     *slog.Logger
}

func NewProcessor(cfg Config, extractor extract.TextExtractor, structurer Structurer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		cfg:        cfg,
		extractor:  extractor,
		structurer: structurer,
		jobs:       repository.NopJobs{},
		remove:     os.Remove,
		logger:     logger,
	}
}

// WithJobs records every processed file in the given ledger.
func (p *Processor) WithJobs(jobs repository.JobRepository) *Processor {
	if jobs != nil {
		p.jobs = jobs
	}
	return p
}

// WithSchema checks every JSON artifact against the schema. Mismatches are reported, not fatal.
func (p *Processor) WithSchema(s SchemaChecker) *Processor {
	p.schema = s
	return p
}

// Run scans the input directory and processes each supported file in name order.
// A missing input directory returns common.ErrInputDirNotFound.
func (p *Processor) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	runID := uuid.New().String()
	ctx = common.WithRequestID(ctx, runID)

	files, stats, err := ingest.ScanDirectory(p.cfg.InputDir)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Scanned: stats.Scanned, Matched: stats.Matched}

	p.logger.Info("pipeline.run.start",
		"run_id", runID,
		"input_dir", p.cfg.InputDir,
		"output_dir", p.cfg.OutputDir,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
	)

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline.run.cancelled", "run_id", runID, "processed", i, "remaining", len(files)-i)
			sum.Elapsed = time.Since(start)
			return sum, err
		}
		p.logger.Info("pipeline.file.progress", "run_id", runID, "file", i+1, "files", len(files), "path", f.Path)
		sum.add(p.ProcessFile(ctx, f.Path))
	}

	sum.Elapsed = time.Since(start)
	p.logger.Info("pipeline.run.done",
		"run_id", runID,
		"matched", sum.Matched,
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
		"raw_fallback", sum.RawFallbacks,
		"schema_mismatch", sum.SchemaMismatches,
		"elapsed_ms", sum.Elapsed.Milliseconds(),
	)
	return sum, nil
}

// ProcessFile runs stat, detect, extract, structure, persist, copy and remove for one path.
// Any failure stops the file at that stage; steps already done are not rolled back.
func (p *Processor) ProcessFile(ctx context.Context, path string) FileResult {
	start := time.Now()
	ctx = common.WithSourcePath(ctx, path)
	res := FileResult{Path: path, Kind: constants.KindFromPath(path), Status: constants.JobStatusRunning}
	log := p.logger.With("path", path, "run_id", common.RequestIDFromContext(ctx))

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is a directory", path)
		}
		return p.fail(ctx, log, res, constants.StageStat, fmt.Errorf("%w: %w", common.ErrFileNotFound, err), start)
	}
	if !res.Kind.Supported() {
		return p.fail(ctx, log, res, constants.StageDetect, fmt.Errorf("%w: %q", common.ErrUnsupportedKind, info.Name()), start)
	}

	log.Info("pipeline.file.start", "kind", res.Kind, "bytes", info.Size())
	res.JobID = p.startJob(ctx, log, path, res.Kind)

	text, err := p.extractor.Extract(ctx, path, res.Kind)
	if err != nil {
		return p.fail(ctx, log, res, constants.StageExtract, err, start)
	}
	p.advance(ctx, log, res.JobID, constants.JobStatusExtracted)

	content, ok := p.structurer.Structure(ctx, text)
	if !ok {
		return p.fail(ctx, log, res, constants.StageStructure, common.ErrNoStructuredResult, start)
	}
	p.advance(ctx, log, res.JobID, constants.JobStatusStructured)

	jsonPath, raw, err := artifact.WriteResult(p.cfg.OutputDir, path, content)
	if err != nil {
		return p.fail(ctx, log, res, constants.StagePersist, err, start)
	}
	res.JSONPath, res.RawFallback = jsonPath, raw
	if raw {
		log.Warn("pipeline.file.raw_fallback", "json_path", jsonPath, "content_len", len(content))
	} else if p.schema != nil {
		if err := p.schema.Check(bytes.TrimSpace([]byte(content))); err != nil {
			res.SchemaErr = err.Error()
			log.Warn("pipeline.file.schema_mismatch", "json_path", jsonPath, "error", err)
		}
	}

	copyPath, err := artifact.CopyFile(path, p.cfg.OutputDir)
	if err != nil {
		return p.fail(ctx, log, res, constants.StageCopy, err, start)
	}
	res.CopyPath = copyPath

	if err := p.remove(path); err != nil {
		return p.fail(ctx, log, res, constants.StageRemove, err, start)
	}

	res.Status, res.Stage, res.Elapsed = constants.JobStatusDone, constants.StageDone, time.Since(start)
	if res.JobID != uuid.Nil {
		if err := p.jobs.FinishSuccess(ctx, res.JobID, jsonPath, raw); err != nil {
			log.Warn("pipeline.job.update_failed", "job_id", res.JobID, "error", err)
		}
	}
	log.Info("pipeline.file.ok",
		"json_path", jsonPath,
		"copy_path", copyPath,
		"raw_fallback", raw,
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res
}

func (p *Processor) fail(ctx context.Context, log *slog.Logger, res FileResult, stage constants.Stage, err error, start time.Time) FileResult {
	res.Status, res.Stage, res.Err, res.Elapsed = constants.JobStatusFailed, stage, err, time.Since(start)
	if res.JobID != uuid.Nil {
		if jerr := p.jobs.FinishFailure(ctx, res.JobID, stage, err.Error()); jerr != nil {
			log.Warn("pipeline.job.update_failed", "job_id", res.JobID, "error", jerr)
		}
	}
	level := slog.LevelError
	if stage == constants.StageDetect {
		level = slog.LevelInfo
	}
	log.Log(ctx, level, "pipeline.file.failed",
		"stage", stage,
		"error", err,
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res
}

// startJob opens a ledger row; ledger errors are logged and never stop the file.
func (p *Processor) startJob(ctx context.Context, log *slog.Logger, path string, kind constants.Kind) uuid.UUID {
	if _, nop := p.jobs.(repository.NopJobs); nop {
		return uuid.Nil
	}
	hash, err := ingest.HashFile(path)
	if err != nil {
		log.Warn("pipeline.file.hash_failed", "error", err)
	}
	id, err := p.jobs.Start(ctx, path, kind, hash)
	if err != nil {
		log.Warn("pipeline.job.start_failed", "error", err)
		return uuid.Nil
	}
	return id
}

func (p *Processor) advance(ctx context.Context, log *slog.Logger, jobID uuid.UUID, status constants.JobStatus) {
	if jobID == uuid.Nil {
		return
	}
	if err := p.jobs.Advance(ctx, jobID, status); err != nil {
		log.Warn("pipeline.job.update_failed", "job_id", jobID, "status", status, "error", err)
	}
}
