package domain

// JobStatus is the remote-assigned state of an import job. The remote
// service owns the value set; only the terminal values are matched, every
// other status means the job is still running.
type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// Terminal reports whether the job has reached a final state.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// ImportJob is an asynchronous remote operation that ingests a CSV file and
// materialises it as a segment. It is never mutated locally, only
// re-fetched until a terminal status is observed.
type ImportJob struct {
	ID            string
	ApplicationID string
	Status        JobStatus

	// SegmentID is the segment the job wrote into, when the remote
	// service exposes it on the job definition.
	SegmentID string

	// CreatesSegment is true when the job defines a brand-new segment
	// rather than updating an existing one.
	CreatesSegment bool
}
