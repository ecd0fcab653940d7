package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pinpoint-provisioner/internal/domain"
	"pinpoint-provisioner/internal/ports"
)

const (
	DefaultPollInterval  = 5 * time.Second
	DefaultImportTimeout = 100 * time.Second

	// DefaultSegmentName is used when an import creates a new segment
	// and the caller does not name it.
	DefaultSegmentName = "Base Segment"
)

// ImportOptions tunes one SubmitAndWait call. The zero value imports into
// a new segment named DefaultSegmentName with the service defaults.
type ImportOptions struct {
	// SegmentName names the new segment in create mode. Ignored when
	// UpdateSegmentID is set.
	SegmentName string

	// UpdateSegmentID switches the import to update mode: the CSV is
	// ingested into this existing segment instead of creating one.
	UpdateSegmentID string

	// PollInterval and Timeout override the service defaults.
	PollInterval time.Duration
	Timeout      time.Duration
}

// SubmitAndWait submits an import job for the CSV at csvURL and blocks
// until the job reaches a terminal status, sleeping PollInterval between
// status checks. On success it returns the id of the segment the import
// wrote into. A FAILED status or reaching Timeout both abort the wait; the
// job itself is never resubmitted here — each call creates a brand-new job.
//
// The wait is cancellable through ctx.
func (p *Provisioner) SubmitAndWait(ctx context.Context, appID, csvURL string, opts ImportOptions) (string, error) {
	if p.opts.RoleArn == "" {
		return "", &domain.ConfigurationError{Reason: "import role arn is not set"}
	}
	if !strings.HasPrefix(csvURL, "s3://") || !strings.HasSuffix(csvURL, ".csv") {
		return "", &domain.ConfigurationError{
			Reason: fmt.Sprintf("csv url %q must look like s3://bucket/path/file.csv", csvURL),
		}
	}

	req := ports.ImportRequest{
		S3URL:   csvURL,
		RoleArn: p.opts.RoleArn,
	}
	if opts.UpdateSegmentID != "" {
		req.SegmentID = opts.UpdateSegmentID
	} else if opts.SegmentName != "" {
		req.SegmentName = opts.SegmentName
	} else {
		req.SegmentName = DefaultSegmentName
	}

	job, err := p.api.CreateImportJob(ctx, appID, req)
	if err != nil {
		return "", fmt.Errorf("create import job: %w", err)
	}
	p.log.Info("import job submitted", "app_id", appID, "job_id", job.ID, "csv_url", csvURL)

	interval := opts.PollInterval
	if interval <= 0 {
		interval = p.opts.PollInterval
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = p.opts.ImportTimeout
	}

	job, err = p.waitForImport(ctx, appID, job.ID, interval, timeout)
	if err != nil {
		return "", err
	}

	if opts.UpdateSegmentID != "" {
		return opts.UpdateSegmentID, nil
	}
	return p.resolveImportedSegment(ctx, appID, job)
}

// waitForImport polls the job until COMPLETED or FAILED, or until the
// accumulated wait reaches timeout. Only the status checks are retried;
// errors fetching the job abort the wait.
func (p *Provisioner) waitForImport(ctx context.Context, appID, jobID string, interval, timeout time.Duration) (domain.ImportJob, error) {
	var elapsed time.Duration
	for {
		job, err := p.api.GetImportJob(ctx, appID, jobID)
		if err != nil {
			return domain.ImportJob{}, fmt.Errorf("get import job %s: %w", jobID, err)
		}
		p.log.Info("import job status", "job_id", jobID, "status", job.Status)

		switch job.Status {
		case domain.JobStatusCompleted:
			return job, nil
		case domain.JobStatusFailed:
			return domain.ImportJob{}, &domain.ImportFailedError{JobID: jobID, Status: job.Status}
		}

		elapsed += interval
		if elapsed >= timeout {
			return domain.ImportJob{}, &domain.ImportTimeoutError{JobID: jobID, Timeout: timeout}
		}
		if err := p.sleep(ctx, interval); err != nil {
			return domain.ImportJob{}, err
		}
	}
}

// resolveImportedSegment determines the id of the segment a completed
// create-mode import produced. The job definition is preferred when the
// remote service exposes the segment id there; otherwise the most recent
// entry of the application's segment list is taken. The fallback assumes a
// single freshly created segment and is unreliable under concurrent
// imports into the same application.
func (p *Provisioner) resolveImportedSegment(ctx context.Context, appID string, job domain.ImportJob) (string, error) {
	if job.SegmentID != "" {
		return job.SegmentID, nil
	}

	segments, err := p.api.GetSegments(ctx, appID)
	if err != nil {
		return "", fmt.Errorf("get segments: %w", err)
	}
	if len(segments) == 0 {
		return "", &domain.PreconditionError{
			Reason: fmt.Sprintf("import job %s completed but application %s has no segments", job.ID, appID),
		}
	}
	return segments[0].ID, nil
}
