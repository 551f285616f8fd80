package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/doc2json/constants"
)

// Job is one row of the ledger.
type Job struct {
	ID           uuid.UUID
	SourcePath   string
	Kind         constants.Kind
	ContentHash  string
	Status       constants.JobStatus
	Stage        constants.Stage
	ErrorMessage string
	JSONPath     string
	RawFallback  bool
	StartedAt    time.Time
	FinishedAt   *time.Time
}

type JobRepository interface {
	Start(ctx context.Context, sourcePath string, kind constants.Kind, contentHash string) (uuid.UUID, error)
	Advance(ctx context.Context, jobID uuid.UUID, status constants.JobStatus) error
	FinishSuccess(ctx context.Context, jobID uuid.UUID, jsonPath string, rawFallback bool) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, stage constants.Stage, message string) error
}

// JobStore is the SQLite-backed JobRepository.
type JobStore struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

func NewJobRepository(db *sql.DB, log *slog.Logger) *JobStore {
	if log == nil {
		log = slog.Default()
	}
	return &JobStore{db: db, log: log, now: time.Now}
}

func (r *JobStore) stamp() string {
	return r.now().UTC().Format(timeLayout)
}

func (r *JobStore) Start(ctx context.Context, sourcePath string, kind constants.Kind, contentHash string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (id, source_path, kind, content_hash, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), sourcePath, string(kind), contentHash, string(constants.JobStatusRunning), r.stamp())
	if err != nil {
		r.log.Error("job start failed", "source_path", sourcePath, "error", err)
		return uuid.Nil, fmt.Errorf("insert job: %w", err)
	}
	r.log.Debug("job started", "job_id", id, "source_path", sourcePath, "kind", kind)
	return id, nil
}

func (r *JobStore) Advance(ctx context.Context, jobID uuid.UUID, status constants.JobStatus) error {
	return r.update(ctx, jobID,
		`UPDATE jobs SET status = ? WHERE id = ?`,
		string(status), jobID.String())
}

func (r *JobStore) FinishSuccess(ctx context.Context, jobID uuid.UUID, jsonPath string, rawFallback bool) error {
	err := r.update(ctx, jobID,
		`UPDATE jobs SET status = ?, stage = ?, json_path = ?, raw_fallback = ?, finished_at = ? WHERE id = ?`,
		string(constants.JobStatusDone), string(constants.StageDone), jsonPath, rawFallback, r.stamp(), jobID.String())
	if err == nil {
		r.log.Debug("job finished (DONE)", "job_id", jobID, "json_path", jsonPath)
	}
	return err
}

func (r *JobStore) FinishFailure(ctx context.Context, jobID uuid.UUID, stage constants.Stage, message string) error {
	err := r.update(ctx, jobID,
		`UPDATE jobs SET status = ?, stage = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		string(constants.JobStatusFailed), string(stage), message, r.stamp(), jobID.String())
	if err == nil {
		r.log.Debug("job finished (FAILED)", "job_id", jobID, "stage", stage, "error", message)
	}
	return err
}

func (r *JobStore) update(ctx context.Context, jobID uuid.UUID, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.Error("job update failed", "job_id", jobID, "error", err)
		return fmt.Errorf("update job %s: %w", jobID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update job %s: %w", jobID, sql.ErrNoRows)
	}
	return nil
}

// Get loads a single job.
func (r *JobStore) Get(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	row := r.db.QueryRowContext(ctx, selectJobs+` WHERE id = ?`, jobID.String())
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", jobID, sql.ErrNoRows)
	}
	return j, err
}

// List returns all jobs in insertion order.
func (r *JobStore) List(ctx context.Context) ([]*Job, error) {
	rows, err := r.db.QueryContext(ctx, selectJobs+` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []*Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// fixed width so stored stamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectJobs = `SELECT id, source_path, kind, content_hash, status, stage, error_message, json_path, raw_fallback, started_at, finished_at FROM jobs`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*Job, error) {
	var (
		j                 Job
		id, kind, status  string
		stage             string
		started, finished string
		rawFallback       int64
	)
	if err := s.Scan(&id, &j.SourcePath, &kind, &j.ContentHash, &status, &stage, &j.ErrorMessage,
		&j.JSONPath, &rawFallback, &started, &finished); err != nil {
		return nil, err
	}

	var err error
	if j.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("job id %q: %w", id, err)
	}
	j.Kind = constants.Kind(kind)
	j.Status = constants.JobStatus(status)
	j.Stage = constants.Stage(stage)
	j.RawFallback = rawFallback != 0
	if j.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return nil, fmt.Errorf("job started_at %q: %w", started, err)
	}
	if finished != "" {
		t, err := time.Parse(timeLayout, finished)
		if err != nil {
			return nil, fmt.Errorf("job finished_at %q: %w", finished, err)
		}
		j.FinishedAt = &t
	}
	return &j, nil
}

// NopJobs is the recorder used when no ledger is configured.
type NopJobs struct{}

func (NopJobs) Start(context.Context, string, constants.Kind, string) (uuid.UUID, error) {
	return uuid.Nil, nil
}
func (NopJobs) Advance(context.Context, uuid.UUID, constants.JobStatus) error { return nil }
func (NopJobs) FinishSuccess(context.Context, uuid.UUID, string, bool) error  { return nil }
func (NopJobs) FinishFailure(context.Context, uuid.UUID, constants.Stage, string) error {
	return nil
}

var (
	_ JobRepository = (*JobStore)(nil)
	_ JobRepository = NopJobs{}
)
