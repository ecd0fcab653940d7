package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"pinpoint-provisioner/internal/audience"
	"pinpoint-provisioner/internal/channel"
	"pinpoint-provisioner/internal/domain"

	"github.com/google/uuid"
)

// csvObjectName is the CSV artifact written under the application folder.
const csvObjectName = "pinpoint_details.csv"

// RunRequest is the input for creating a provisioning run. Audience rows
// come either as ordered value rows or as field-keyed records; a
// pre-uploaded CSVURL skips the rendering and upload entirely.
type RunRequest struct {
	// ApplicationID targets an existing application. Empty means create
	// a new one named ApplicationName.
	ApplicationID   string
	ApplicationName string

	Channels []domain.ChannelType

	Fields       []string
	EmailValues  [][]string
	SMSValues    [][]string
	EmailRecords []map[string]string
	SMSRecords   []map[string]string

	// CSVURL points at an already-uploaded audience CSV (s3://.../*.csv).
	CSVURL string
}

// CreateRun validates the request, creates and configures the application
// when needed, renders and uploads the audience CSV, and persists a
// pending run for the publisher to pick up.
func (p *Provisioner) CreateRun(ctx context.Context, req RunRequest) (domain.ProvisioningRun, error) {
	if len(req.Channels) == 0 {
		return domain.ProvisioningRun{}, &domain.ConfigurationError{
			Reason: `channel set is empty; expected ["EMAIL"], ["SMS"] or both`,
		}
	}
	for _, ch := range req.Channels {
		if !ch.Valid() {
			return domain.ProvisioningRun{}, &domain.ConfigurationError{
				Reason: fmt.Sprintf("unknown channel type %q", ch),
			}
		}
	}
	if p.opts.RoleArn == "" {
		return domain.ProvisioningRun{}, &domain.ConfigurationError{Reason: "import role arn is not set"}
	}

	appID := req.ApplicationID
	appName := req.ApplicationName
	if appID == "" {
		if appName == "" {
			appName = time.Now().Format("2006-01-02 15:04:05")
		}
		id, err := p.api.CreateApp(ctx, appName)
		if err != nil {
			return domain.ProvisioningRun{}, fmt.Errorf("create application: %w", err)
		}
		appID = id
		p.log.Info("application created", "app_id", appID, "name", appName)

		if err := p.enableChannels(ctx, appID, req.Channels); err != nil {
			return domain.ProvisioningRun{}, err
		}
	}

	csvURL := req.CSVURL
	if csvURL == "" {
		url, err := p.uploadAudience(ctx, appID, req)
		if err != nil {
			return domain.ProvisioningRun{}, err
		}
		csvURL = url
	} else if !strings.HasPrefix(csvURL, "s3://") || !strings.HasSuffix(csvURL, ".csv") {
		return domain.ProvisioningRun{}, &domain.ConfigurationError{
			Reason: fmt.Sprintf("csv url %q must look like s3://bucket/path/file.csv", csvURL),
		}
	}

	run := domain.NewProvisioningRun(appID, appName, req.Channels, csvURL)
	if err := p.repo.SaveRun(ctx, run); err != nil {
		return domain.ProvisioningRun{}, fmt.Errorf("save run: %w", err)
	}

	p.log.Info("provisioning run created", "run_id", run.ID, "app_id", appID, "channels", req.Channels)
	return run, nil
}

// enableChannels turns on each requested channel on a freshly created
// application.
func (p *Provisioner) enableChannels(ctx context.Context, appID string, channels []domain.ChannelType) error {
	for _, ch := range channels {
		var c channel.Channel
		switch ch {
		case domain.ChannelEmail:
			if p.opts.SESIdentityArn == "" {
				return &domain.ConfigurationError{
					Reason: "ses identity arn is required to enable the email channel",
				}
			}
			c = channel.NewEmail(p.api, appID, p.opts.SESIdentityArn, p.opts.FromAddress, p.opts.RoleArn)
		case domain.ChannelSMS:
			c = channel.NewSMS(p.api, appID, p.opts.SMSSenderID, p.opts.SMSShortCode)
		}
		if err := c.Update(ctx, true); err != nil {
			return fmt.Errorf("enable %s channel: %w", ch, err)
		}
		p.log.Info("channel enabled", "app_id", appID, "channel", ch)
	}
	return nil
}

// uploadAudience renders the request's audience rows to CSV and writes the
// artifact to {app_id}/pinpoint_details.csv in the bucket.
func (p *Provisioner) uploadAudience(ctx context.Context, appID string, req RunRequest) (string, error) {
	ds := audience.New(req.Fields)

	if len(req.EmailRecords) > 0 {
		if err := ds.SetEmailRecords(req.EmailRecords, nil); err != nil {
			return "", err
		}
	} else if len(req.EmailValues) > 0 {
		ds.SetEmailValues(req.EmailValues, nil)
	}

	if len(req.SMSRecords) > 0 {
		if err := ds.SetSMSRecords(req.SMSRecords, nil); err != nil {
			return "", err
		}
	} else if len(req.SMSValues) > 0 {
		ds.SetSMSValues(req.SMSValues, nil)
	}

	var buf bytes.Buffer
	if err := ds.WriteCSV(&buf, req.Channels); err != nil {
		return "", err
	}

	key := appID + "/" + csvObjectName
	if err := p.store.PutObject(ctx, key, buf.Bytes()); err != nil {
		return "", fmt.Errorf("upload audience csv: %w", err)
	}

	url := fmt.Sprintf("s3://%s/%s", p.store.Bucket(), key)
	p.log.Info("audience csv uploaded", "url", url, "bytes", buf.Len())
	return url, nil
}

// GetRun fetches one run by id.
func (p *Provisioner) GetRun(ctx context.Context, id uuid.UUID) (*domain.ProvisioningRun, error) {
	return p.repo.GetRun(ctx, id)
}

// PublishPendingRuns claims pending runs and publishes them to the run
// queue. Called by the run-publisher binary on a poll interval. The claim
// marks the runs queued atomically, so concurrent publishers never pick
// up the same run.
func (p *Provisioner) PublishPendingRuns(ctx context.Context, batchSize int) (int, error) {
	runs, err := p.repo.ClaimPendingRuns(ctx, batchSize)
	if err != nil {
		return 0, fmt.Errorf("claim pending runs: %w", err)
	}

	published := 0
	for _, run := range runs {
		if err := p.publisher.Publish(ctx, run); err != nil {
			// Roll back to pending so the next poll retries it.
			_ = p.repo.UpdateRunStatus(ctx, run.ID, domain.RunStatusPending, "")
			p.log.Error("publish run failed", "run_id", run.ID, "err", err)
			continue
		}

		published++
		p.log.Info("run queued", "run_id", run.ID, "app_id", run.ApplicationID)
	}

	return published, nil
}

// ExecuteRun performs a queued provisioning run end to end: hydrate any
// prior segment record, import the CSV, derive the per-channel dynamic
// segments, persist the resulting ids, and record the outcome on the run.
// Resources created before a failure are kept; no rollback is attempted.
func (p *Provisioner) ExecuteRun(ctx context.Context, run domain.ProvisioningRun) error {
	if err := p.repo.UpdateRunStatus(ctx, run.ID, domain.RunStatusRunning, ""); err != nil {
		return fmt.Errorf("mark run running: %w", err)
	}

	res, err := p.hydrateResources(ctx, run.ApplicationID)
	if err != nil {
		return p.failRun(ctx, run, err)
	}

	if err := p.CreateAllSegments(ctx, run.ApplicationID, run.CSVURL, run.Channels, &res); err != nil {
		return p.failRun(ctx, run, err)
	}

	if err := p.repo.SetRunResources(ctx, run.ID, res); err != nil {
		return p.failRun(ctx, run, err)
	}
	if err := p.repo.UpdateRunStatus(ctx, run.ID, domain.RunStatusCompleted, ""); err != nil {
		return fmt.Errorf("mark run completed: %w", err)
	}

	p.log.Info("provisioning run completed",
		"run_id", run.ID,
		"app_id", run.ApplicationID,
		"base_segment_id", res.BaseSegmentID,
	)
	return nil
}

// failRun records the failure on the run and returns the original error.
func (p *Provisioner) failRun(ctx context.Context, run domain.ProvisioningRun, cause error) error {
	if err := p.repo.UpdateRunStatus(ctx, run.ID, domain.RunStatusFailed, cause.Error()); err != nil {
		p.log.Error("mark run failed", "run_id", run.ID, "err", err)
	}
	return cause
}
