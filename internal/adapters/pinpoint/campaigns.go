package pinpoint

import (
	"context"
	"fmt"
	"strconv"

	"pinpoint-provisioner/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint/types"
)

// CreateCampaign submits a write-campaign request and returns the new
// campaign's id.
func (c *Client) CreateCampaign(ctx context.Context, appID string, spec domain.CampaignSpec) (string, error) {
	req := &types.WriteCampaignRequest{
		Description: aws.String(spec.Description),
		IsPaused:    aws.Bool(spec.IsPaused),
		Name:        aws.String(spec.Name),
		SegmentId:   aws.String(spec.SegmentID),
		Schedule: &types.Schedule{
			StartTime: aws.String(spec.Schedule.StartTime),
		},
		MessageConfiguration: messageConfiguration(spec.Messages),
		TemplateConfiguration: templateConfiguration(spec.Templates),
	}

	out, err := c.pp.CreateCampaign(ctx, &pinpoint.CreateCampaignInput{
		ApplicationId:        aws.String(appID),
		WriteCampaignRequest: req,
	})
	if err != nil {
		return "", fmt.Errorf("create campaign: %w", err)
	}
	return aws.ToString(out.CampaignResponse.Id), nil
}

// GetCampaignName resolves a campaign id to its display name.
func (c *Client) GetCampaignName(ctx context.Context, appID, campaignID string) (string, error) {
	out, err := c.pp.GetCampaign(ctx, &pinpoint.GetCampaignInput{
		ApplicationId: aws.String(appID),
		CampaignId:    aws.String(campaignID),
	})
	if err != nil {
		return "", fmt.Errorf("get campaign %s: %w", campaignID, err)
	}
	return aws.ToString(out.CampaignResponse.Name), nil
}

func messageConfiguration(msgs domain.MessageConfig) *types.MessageConfiguration {
	if msgs.Email == nil && msgs.SMS == nil {
		return nil
	}

	cfg := &types.MessageConfiguration{}
	if e := msgs.Email; e != nil {
		cfg.EmailMessage = &types.CampaignEmailMessage{
			Body:        aws.String(e.Body),
			FromAddress: aws.String(e.FromAddress),
			HtmlBody:    aws.String(e.HTMLBody),
			Title:       aws.String(e.Title),
		}
	}
	if s := msgs.SMS; s != nil {
		cfg.SMSMessage = &types.CampaignSmsMessage{
			Body:        aws.String(s.Body),
			MessageType: types.MessageType(s.MessageType),
			SenderId:    aws.String(s.SenderID),
		}
	}
	return cfg
}

func templateConfiguration(tpls domain.TemplateConfig) *types.TemplateConfiguration {
	if tpls.Empty() {
		return nil
	}

	cfg := &types.TemplateConfiguration{}
	if t := tpls.Email; t != nil {
		cfg.EmailTemplate = templateRef(t)
	}
	if t := tpls.SMS; t != nil {
		cfg.SMSTemplate = templateRef(t)
	}
	return cfg
}

func templateRef(t *domain.TemplateRef) *types.Template {
	ref := &types.Template{Name: aws.String(t.Name)}
	if t.Version != "" {
		// Versions are numeric strings; validate before passing through.
		if _, err := strconv.Atoi(t.Version); err == nil {
			ref.Version = aws.String(t.Version)
		}
	}
	return ref
}
