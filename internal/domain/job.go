package domain

// Stage is one of the three sequential processing steps applied to an item.
type Stage string

const (
	StageDownload   Stage = "download"
	StageConvert    Stage = "convert"
	StageTranscribe Stage = "transcribe"
)

// JobStatus enumerates the lifecycle of one link-processing job.
type JobStatus string

const (
	JobResolving JobStatus = "resolving"
	JobListing   JobStatus = "listing"
	JobRunning   JobStatus = "running"
	JobDone      JobStatus = "done"
)

// PipelineJob tracks the end-to-end processing of one link. Counters are
// mutated only by the orchestrator, only from the job-driving goroutine, and
// Processed+Failed never exceeds len(Items); equality holds once Status is done.
type PipelineJob struct {
	Items     []VideoDescriptor
	Processed int
	Failed    int
	Status    JobStatus
}

// StageProgress is an ephemeral per-item-per-stage progress reading.
// ItemIndex is 1-based; Percent is whole-pipeline progress in [0,100].
type StageProgress struct {
	ItemIndex  int
	TotalItems int
	Stage      Stage
	Percent    float64
}

// JobSummary is the terminal report emitted once per job.
type JobSummary struct {
	Processed int
	Failed    int
	Total     int
}
