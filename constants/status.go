package constants

// JobStatus is the canonical status for rows in extraction_job.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued  JobStatus = "QUEUED"  // queued for processing
	JobStatusRunning JobStatus = "RUNNING" // in progress
	JobStatusTextOK  JobStatus = "TEXT_OK" // stage 1 completed (text acquired)
	JobStatusParsed  JobStatus = "PARSED"  // stage 2 completed (events extracted)
	JobStatusFailed  JobStatus = "FAILED"  // terminal failure
)
