package app

import (
	"context"
	"encoding/json"
	"testing"

	"pinpoint-provisioner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSegmentRecordsID(t *testing.T) {
	api := &fakeAPI{}
	p, _ := newTestProvisioner(api, nil, nil, nil, Options{})

	res := domain.SegmentResources{BaseSegmentID: "seg-base"}
	id, err := p.DeriveSegment(context.Background(), "app-1", domain.ChannelEmail, &res)
	require.NoError(t, err)

	assert.Equal(t, "seg-EMAIL", id)
	assert.Equal(t, "seg-EMAIL", res.EmailDynamicSegmentID)

	require.Len(t, api.segmentRequests, 1)
	req := api.segmentRequests[0]
	assert.Equal(t, "EMAIL Dynamic Segment", req.Name)
	assert.Equal(t, "seg-base", req.SourceSegmentID)
	assert.Equal(t, domain.ChannelEmail, req.Channel)
}

func TestDeriveSegmentRequiresBaseSegment(t *testing.T) {
	p, _ := newTestProvisioner(&fakeAPI{}, nil, nil, nil, Options{})

	res := domain.SegmentResources{}
	_, err := p.DeriveSegment(context.Background(), "app-1", domain.ChannelSMS, &res)

	var preErr *domain.PreconditionError
	assert.ErrorAs(t, err, &preErr)
}

func TestDeriveSegmentRejectsUnknownChannel(t *testing.T) {
	p, _ := newTestProvisioner(&fakeAPI{}, nil, nil, nil, Options{})

	res := domain.SegmentResources{BaseSegmentID: "seg-base"}
	_, err := p.DeriveSegment(context.Background(), "app-1", domain.ChannelType("PUSH"), &res)

	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestCreateAllSegmentsFullFlow(t *testing.T) {
	api := &fakeAPI{}
	api.getImportJobFn = func(ctx context.Context, appID, jobID string) (domain.ImportJob, error) {
		return domain.ImportJob{ID: jobID, Status: domain.JobStatusCompleted, SegmentID: "seg-base"}, nil
	}
	store := newFakeStore()
	p, _ := newTestProvisioner(api, store, nil, nil, Options{})

	res := domain.SegmentResources{}
	err := p.CreateAllSegments(context.Background(), "app-1", "s3://bucket/app-1/a.csv",
		[]domain.ChannelType{domain.ChannelEmail, domain.ChannelSMS}, &res)
	require.NoError(t, err)

	assert.Equal(t, "seg-base", res.BaseSegmentID)
	assert.Equal(t, "seg-EMAIL", res.EmailDynamicSegmentID)
	assert.Equal(t, "seg-SMS", res.SMSDynamicSegmentID)

	// Create mode: the import request names a new segment.
	require.Len(t, api.importRequests, 1)
	assert.Empty(t, api.importRequests[0].SegmentID)

	// The record is persisted under the application folder.
	data, err := store.GetObject(context.Background(), "app-1/"+StateFileName)
	require.NoError(t, err)
	var persisted domain.SegmentResources
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, res, persisted)
}

func TestCreateAllSegmentsReusesExistingResources(t *testing.T) {
	api := &fakeAPI{}
	api.getImportJobFn = func(ctx context.Context, appID, jobID string) (domain.ImportJob, error) {
		return domain.ImportJob{ID: jobID, Status: domain.JobStatusCompleted}, nil
	}
	p, _ := newTestProvisioner(api, nil, nil, nil, Options{})

	res := domain.SegmentResources{
		BaseSegmentID:         "seg-base",
		EmailDynamicSegmentID: "seg-email-old",
	}
	err := p.CreateAllSegments(context.Background(), "app-1", "s3://bucket/a.csv",
		[]domain.ChannelType{domain.ChannelEmail, domain.ChannelSMS}, &res)
	require.NoError(t, err)

	// Existing base id switches the import to update mode.
	require.Len(t, api.importRequests, 1)
	assert.Equal(t, "seg-base", api.importRequests[0].SegmentID)

	// Only the missing SMS segment is derived.
	require.Len(t, api.segmentRequests, 1)
	assert.Equal(t, domain.ChannelSMS, api.segmentRequests[0].Channel)
	assert.Equal(t, "seg-email-old", res.EmailDynamicSegmentID)
}

func TestCreateAllSegmentsRequiresChannels(t *testing.T) {
	p, _ := newTestProvisioner(&fakeAPI{}, nil, nil, nil, Options{})

	res := domain.SegmentResources{}
	err := p.CreateAllSegments(context.Background(), "app-1", "s3://bucket/a.csv", nil, &res)

	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
