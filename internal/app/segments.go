package app

import (
	"context"
	"fmt"

	"pinpoint-provisioner/internal/domain"
	"pinpoint-provisioner/internal/ports"
)

// DeriveSegment creates a dynamic segment that filters the base segment
// down to one channel type, records its id in res, and returns it. The
// base segment must exist first — derivation is only meaningful after an
// import.
func (p *Provisioner) DeriveSegment(ctx context.Context, appID string, ch domain.ChannelType, res *domain.SegmentResources) (string, error) {
	if !ch.Valid() {
		return "", &domain.ConfigurationError{
			Reason: fmt.Sprintf("channel must be EMAIL or SMS, got %q", ch),
		}
	}
	if res.BaseSegmentID == "" {
		return "", &domain.PreconditionError{
			Reason: "cannot derive a dynamic segment before a base segment exists",
		}
	}

	seg, err := p.api.CreateSegment(ctx, appID, ports.SegmentRequest{
		Name:            fmt.Sprintf("%s Dynamic Segment", ch),
		SourceSegmentID: res.BaseSegmentID,
		Channel:         ch,
	})
	if err != nil {
		return "", fmt.Errorf("create %s dynamic segment: %w", ch, err)
	}

	res.SetDynamicID(ch, seg.ID)
	p.log.Info("dynamic segment created", "app_id", appID, "channel", ch, "segment_id", seg.ID)
	return seg.ID, nil
}

// CreateAllSegments runs the full segment provisioning flow: import the
// CSV as the base segment, then derive one dynamic segment per active
// channel, then persist the resulting ids to the resource record. Existing
// ids in res are reused — a present base segment id turns the import into
// an update, and channels that already have a dynamic id are skipped.
func (p *Provisioner) CreateAllSegments(ctx context.Context, appID, csvURL string, channels []domain.ChannelType, res *domain.SegmentResources) error {
	if len(channels) == 0 {
		return &domain.ConfigurationError{Reason: "at least one channel type is required"}
	}

	baseID, err := p.SubmitAndWait(ctx, appID, csvURL, ImportOptions{
		UpdateSegmentID: res.BaseSegmentID,
	})
	if err != nil {
		return err
	}
	res.BaseSegmentID = baseID

	for _, ch := range channels {
		if res.DynamicID(ch) != "" {
			continue
		}
		if _, err := p.DeriveSegment(ctx, appID, ch, res); err != nil {
			return err
		}
	}

	if err := p.SaveResources(ctx, appID, *res); err != nil {
		return err
	}
	return nil
}
