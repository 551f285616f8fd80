package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/doc2json/constants"
)

// FileResult is the outcome of processing one source file. On failure Stage
// names the step that stopped it and Err the reason.
type FileResult struct {
	Path   string
	Kind   constants.Kind
	JobID  uuid.UUID
	Status constants.JobStatus
	Stage  constants.Stage
	Err    error

	JSONPath    string
	CopyPath    string
	RawFallback bool
	SchemaErr   string

	Elapsed time.Duration
}

func (r FileResult) OK() bool { return r.Status == constants.JobStatusDone }

// ErrText returns the failure reason, or "" on success.
func (r FileResult) ErrText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Summary aggregates one run over the input directory.
type Summary struct {
	Scanned          uint32
	Matched          uint32
	Succeeded        uint32
	Failed           uint32
	RawFallbacks     uint32
	SchemaMismatches uint32
	Results          []FileResult
	Elapsed          time.Duration
}

func (s *Summary) add(r FileResult) {
	s.Results = append(s.Results, r)
	if r.OK() {
		s.Succeeded++
	} else {
		s.Failed++
	}
	if r.RawFallback {
		s.RawFallbacks++
	}
	if r.SchemaErr != "" {
		s.SchemaMismatches++
	}
}
