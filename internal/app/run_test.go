package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pinpoint-provisioner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emailAudience() RunRequest {
	return RunRequest{
		ApplicationID: "app-1",
		Channels:      []domain.ChannelType{domain.ChannelEmail},
		Fields:        []string{"ChannelType", "Address"},
		EmailValues:   [][]string{{"EMAIL", "a@example.com"}},
	}
}

func TestCreateRunUploadsCSVAndSavesPending(t *testing.T) {
	api := &fakeAPI{}
	store := newFakeStore()
	repo := newFakeRepo()
	p, _ := newTestProvisioner(api, store, repo, nil, Options{})

	run, err := p.CreateRun(context.Background(), emailAudience())
	require.NoError(t, err)

	assert.Equal(t, domain.RunStatusPending, run.Status)
	assert.Equal(t, "s3://test-bucket/app-1/pinpoint_details.csv", run.CSVURL)

	data, err := store.GetObject(context.Background(), "app-1/pinpoint_details.csv")
	require.NoError(t, err)
	assert.Equal(t, "ChannelType,Address\r\nEMAIL,a@example.com\r\n", string(data))

	saved, err := repo.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusPending, saved.Status)
}

func TestCreateRunCreatesApplicationAndEnablesChannels(t *testing.T) {
	api := &fakeAPI{}
	p, _ := newTestProvisioner(api, nil, nil, nil, Options{
		SESIdentityArn: "arn:aws:ses:us-east-1:123456789012:identity/sender@example.com",
	})

	req := emailAudience()
	req.ApplicationID = ""
	req.ApplicationName = "Spring Launch"
	req.Channels = []domain.ChannelType{domain.ChannelEmail, domain.ChannelSMS}
	req.SMSValues = [][]string{{"SMS", "+15550100"}}

	run, err := p.CreateRun(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "app-1", run.ApplicationID)
	assert.Equal(t, []string{"Spring Launch"}, api.createdApps)

	require.Len(t, api.emailUpdates, 1)
	assert.True(t, api.emailUpdates[0].Enabled)
	assert.Equal(t, "sender@example.com", api.emailUpdates[0].FromAddress)

	require.Len(t, api.smsUpdates, 1)
	assert.True(t, api.smsUpdates[0].Enabled)
}

func TestCreateRunEmailChannelNeedsIdentity(t *testing.T) {
	p, _ := newTestProvisioner(&fakeAPI{}, nil, nil, nil, Options{})

	req := emailAudience()
	req.ApplicationID = ""

	_, err := p.CreateRun(context.Background(), req)

	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.True(t, strings.Contains(cfgErr.Reason, "ses identity"))
}

func TestCreateRunRejectsBadChannels(t *testing.T) {
	p, _ := newTestProvisioner(&fakeAPI{}, nil, nil, nil, Options{})

	for _, channels := range [][]domain.ChannelType{
		nil,
		{domain.ChannelType("PUSH")},
	} {
		req := emailAudience()
		req.Channels = channels
		_, err := p.CreateRun(context.Background(), req)

		var cfgErr *domain.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	}
}

func TestCreateRunAcceptsPreUploadedCSV(t *testing.T) {
	api := &fakeAPI{}
	store := newFakeStore()
	p, _ := newTestProvisioner(api, store, nil, nil, Options{})

	req := RunRequest{
		ApplicationID: "app-1",
		Channels:      []domain.ChannelType{domain.ChannelSMS},
		CSVURL:        "s3://elsewhere/audience.csv",
	}
	run, err := p.CreateRun(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "s3://elsewhere/audience.csv", run.CSVURL)

	// Nothing was rendered or uploaded.
	ok, _ := store.Exists(context.Background(), "app-1/pinpoint_details.csv")
	assert.False(t, ok)
}

func TestPublishPendingRunsQueues(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	p, _ := newTestProvisioner(&fakeAPI{}, nil, repo, pub, Options{})

	run := domain.NewProvisioningRun("app-1", "", []domain.ChannelType{domain.ChannelSMS}, "s3://b/a.csv")
	require.NoError(t, repo.SaveRun(context.Background(), run))

	n, err := p.PublishPendingRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, pub.published, 1)
	assert.Equal(t, run.ID, pub.published[0].ID)

	saved, err := repo.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusQueued, saved.Status)
}

func TestPublishPendingRunsClaimsAtomically(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	p, _ := newTestProvisioner(&fakeAPI{}, nil, repo, pub, Options{})

	run := domain.NewProvisioningRun("app-1", "", []domain.ChannelType{domain.ChannelSMS}, "s3://b/a.csv")
	require.NoError(t, repo.SaveRun(context.Background(), run))

	n, err := p.PublishPendingRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The claim already queued the run; a second poll finds nothing.
	n, err = p.PublishPendingRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, pub.published, 1)
}

func TestPublishPendingRunsRollsBackOnPublishFailure(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{err: errors.New("broker down")}
	p, _ := newTestProvisioner(&fakeAPI{}, nil, repo, pub, Options{})

	run := domain.NewProvisioningRun("app-1", "", []domain.ChannelType{domain.ChannelSMS}, "s3://b/a.csv")
	require.NoError(t, repo.SaveRun(context.Background(), run))

	n, err := p.PublishPendingRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// The run went queued then back to pending for the next poll.
	saved, err := repo.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusPending, saved.Status)
	assert.Equal(t, []domain.RunStatus{domain.RunStatusQueued, domain.RunStatusPending}, repo.statusLog)
}

func TestExecuteRunCompletes(t *testing.T) {
	api := &fakeAPI{}
	api.getImportJobFn = func(ctx context.Context, appID, jobID string) (domain.ImportJob, error) {
		return domain.ImportJob{ID: jobID, Status: domain.JobStatusCompleted, SegmentID: "seg-base"}, nil
	}
	repo := newFakeRepo()
	p, _ := newTestProvisioner(api, nil, repo, nil, Options{})

	run := domain.NewProvisioningRun("app-1", "", []domain.ChannelType{domain.ChannelEmail}, "s3://b/a.csv")
	require.NoError(t, repo.SaveRun(context.Background(), run))

	require.NoError(t, p.ExecuteRun(context.Background(), run))

	saved, err := repo.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, saved.Status)
	assert.Equal(t, "seg-base", saved.Resources.BaseSegmentID)
	assert.Equal(t, "seg-EMAIL", saved.Resources.EmailDynamicSegmentID)
	assert.Equal(t, []domain.RunStatus{domain.RunStatusRunning, domain.RunStatusCompleted}, repo.statusLog)
}

func TestExecuteRunRecordsFailure(t *testing.T) {
	api := &fakeAPI{}
	api.getImportJobFn = func(ctx context.Context, appID, jobID string) (domain.ImportJob, error) {
		return domain.ImportJob{ID: jobID, Status: domain.JobStatusFailed}, nil
	}
	repo := newFakeRepo()
	p, _ := newTestProvisioner(api, nil, repo, nil, Options{})

	run := domain.NewProvisioningRun("app-1", "", []domain.ChannelType{domain.ChannelEmail}, "s3://b/a.csv")
	require.NoError(t, repo.SaveRun(context.Background(), run))

	err := p.ExecuteRun(context.Background(), run)
	var failed *domain.ImportFailedError
	require.ErrorAs(t, err, &failed)

	saved, getErr := repo.GetRun(context.Background(), run.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.RunStatusFailed, saved.Status)
	assert.Contains(t, saved.LastError, "failed")
}
