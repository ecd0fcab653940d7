package app

import (
	"context"
	"fmt"
	"time"

	"pinpoint-provisioner/internal/domain"
)

// ResolveSegmentID picks the target segment for a campaign: an explicit
// override always wins; with both channels active the base segment is
// used; with a single active channel its dynamic segment is used.
func ResolveSegmentID(override string, channels []domain.ChannelType, res domain.SegmentResources) (string, error) {
	if override != "" {
		return override, nil
	}

	email := domain.HasChannel(channels, domain.ChannelEmail)
	sms := domain.HasChannel(channels, domain.ChannelSMS)

	var id string
	switch {
	case email && sms:
		id = res.BaseSegmentID
	case sms:
		id = res.SMSDynamicSegmentID
	case email:
		id = res.EmailDynamicSegmentID
	default:
		return "", &domain.ConfigurationError{
			Reason: "channel set must contain EMAIL, SMS or both",
		}
	}

	if id == "" {
		return "", &domain.PreconditionError{
			Reason: "no segment id provisioned for the active channel set; run the segment import first",
		}
	}
	return id, nil
}

// LaunchCampaign composes a campaign request and submits it. When the spec
// carries no explicit segment id the application's persisted resources are
// hydrated and resolved against the active channel set. Without a template
// configuration, every active channel must carry an inline message.
func (p *Provisioner) LaunchCampaign(ctx context.Context, appID string, channels []domain.ChannelType, spec domain.CampaignSpec) (string, error) {
	res := domain.SegmentResources{}
	if spec.SegmentID == "" {
		var err error
		res, err = p.hydrateResources(ctx, appID)
		if err != nil {
			return "", err
		}
	}

	segmentID, err := ResolveSegmentID(spec.SegmentID, channels, res)
	if err != nil {
		return "", err
	}
	spec.SegmentID = segmentID

	if spec.Templates.Empty() {
		if domain.HasChannel(channels, domain.ChannelEmail) && spec.Messages.Email == nil {
			return "", &domain.ConfigurationError{
				Reason: "email channel is active but no email message or template is configured",
			}
		}
		if domain.HasChannel(channels, domain.ChannelSMS) && spec.Messages.SMS == nil {
			return "", &domain.ConfigurationError{
				Reason: "sms channel is active but no sms message or template is configured",
			}
		}
	}

	now := time.Now()
	if spec.Name == "" {
		spec.Name = "Campaign @ " + now.Format("2006-01-02 15:04:05")
	}
	if spec.Description == "" {
		spec.Description = fmt.Sprintf("Campaign created at %s", now.Format(time.RFC3339))
	}
	if spec.Schedule.StartTime == "" {
		spec.Schedule.StartTime = "IMMEDIATE"
	}

	campaignID, err := p.api.CreateCampaign(ctx, appID, spec)
	if err != nil {
		return "", fmt.Errorf("create campaign: %w", err)
	}

	p.log.Info("campaign created",
		"app_id", appID,
		"campaign_id", campaignID,
		"segment_id", segmentID,
		"name", spec.Name,
	)
	return campaignID, nil
}
