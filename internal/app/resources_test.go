package app

import (
	"context"
	"testing"

	"pinpoint-provisioner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourcesRoundTrip(t *testing.T) {
	store := newFakeStore()
	p, _ := newTestProvisioner(&fakeAPI{}, store, nil, nil, Options{})

	want := domain.SegmentResources{
		BaseSegmentID:         "seg-base",
		EmailDynamicSegmentID: "seg-email",
		SMSDynamicSegmentID:   "seg-sms",
	}
	require.NoError(t, p.SaveResources(context.Background(), "app-1", want))

	got, err := p.LoadResources(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadResourcesNotFound(t *testing.T) {
	p, _ := newTestProvisioner(&fakeAPI{}, nil, nil, nil, Options{})

	_, err := p.LoadResources(context.Background(), "app-missing")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestHydrateResourcesTreatsAbsentAsEmpty(t *testing.T) {
	p, _ := newTestProvisioner(&fakeAPI{}, nil, nil, nil, Options{})

	res, err := p.hydrateResources(context.Background(), "app-missing")
	require.NoError(t, err)
	assert.Equal(t, domain.SegmentResources{}, res)
}

func TestSaveResourcesLastWriteWins(t *testing.T) {
	store := newFakeStore()
	p, _ := newTestProvisioner(&fakeAPI{}, store, nil, nil, Options{})

	first := domain.SegmentResources{BaseSegmentID: "seg-old"}
	second := domain.SegmentResources{BaseSegmentID: "seg-new"}
	require.NoError(t, p.SaveResources(context.Background(), "app-1", first))
	require.NoError(t, p.SaveResources(context.Background(), "app-1", second))

	got, err := p.LoadResources(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, second, got)
}
