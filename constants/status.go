package constants

// JobStatus is the canonical status for rows in the jobs ledger.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusRunning    JobStatus = "RUNNING"    // picked up by the orchestrator
	JobStatusExtracted  JobStatus = "EXTRACTED"  // stage 1 completed (text extracted)
	JobStatusStructured JobStatus = "STRUCTURED" // stage 2 completed (model answered)
	JobStatusDone       JobStatus = "DONE"       // artifact written, source removed
	JobStatusFailed     JobStatus = "FAILED"     // terminal failure
)

// Stage names the step of the per-file state machine a result stopped at.
type Stage string

const (
	StageStat      Stage = "stat"
	StageDetect    Stage = "detect"
	StageExtract   Stage = "extract"
	StageStructure Stage = "structure"
	StagePersist   Stage = "persist"
	StageCopy      Stage = "copy"
	StageRemove    Stage = "remove"
	StageDone      Stage = "done"
)
