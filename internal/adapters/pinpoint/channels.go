package pinpoint

import (
	"context"
	"fmt"
	"time"

	"pinpoint-provisioner/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint/types"
)

// UpdateEmailChannel enables or updates the EMAIL channel.
func (c *Client) UpdateEmailChannel(ctx context.Context, appID string, cfg domain.EmailChannelConfig) error {
	_, err := c.pp.UpdateEmailChannel(ctx, &pinpoint.UpdateEmailChannelInput{
		ApplicationId: aws.String(appID),
		EmailChannelRequest: &types.EmailChannelRequest{
			Enabled:     aws.Bool(cfg.Enabled),
			FromAddress: aws.String(cfg.FromAddress),
			Identity:    aws.String(cfg.Identity),
			RoleArn:     aws.String(cfg.RoleArn),
		},
	})
	if err != nil {
		return fmt.Errorf("update email channel: %w", err)
	}
	return nil
}

// UpdateSMSChannel enables or updates the SMS channel.
func (c *Client) UpdateSMSChannel(ctx context.Context, appID string, cfg domain.SMSChannelConfig) error {
	req := &types.SMSChannelRequest{Enabled: aws.Bool(cfg.Enabled)}
	if cfg.SenderID != "" {
		req.SenderId = aws.String(cfg.SenderID)
	}
	if cfg.ShortCode != "" {
		req.ShortCode = aws.String(cfg.ShortCode)
	}

	_, err := c.pp.UpdateSmsChannel(ctx, &pinpoint.UpdateSmsChannelInput{
		ApplicationId:     aws.String(appID),
		SMSChannelRequest: req,
	})
	if err != nil {
		return fmt.Errorf("update sms channel: %w", err)
	}
	return nil
}

// DeleteEmailChannel removes the EMAIL channel from the application.
func (c *Client) DeleteEmailChannel(ctx context.Context, appID string) error {
	_, err := c.pp.DeleteEmailChannel(ctx, &pinpoint.DeleteEmailChannelInput{
		ApplicationId: aws.String(appID),
	})
	if err != nil {
		return fmt.Errorf("delete email channel: %w", err)
	}
	return nil
}

// DeleteSMSChannel removes the SMS channel from the application.
func (c *Client) DeleteSMSChannel(ctx context.Context, appID string) error {
	_, err := c.pp.DeleteSmsChannel(ctx, &pinpoint.DeleteSmsChannelInput{
		ApplicationId: aws.String(appID),
	})
	if err != nil {
		return fmt.Errorf("delete sms channel: %w", err)
	}
	return nil
}

// GetEmailChannel fetches the EMAIL channel's remote state.
func (c *Client) GetEmailChannel(ctx context.Context, appID string) (domain.ChannelDetails, error) {
	out, err := c.pp.GetEmailChannel(ctx, &pinpoint.GetEmailChannelInput{
		ApplicationId: aws.String(appID),
	})
	if err != nil {
		return domain.ChannelDetails{}, fmt.Errorf("get email channel: %w", err)
	}
	return domain.ChannelDetails{
		Type:    domain.ChannelEmail,
		Enabled: aws.ToBool(out.EmailChannelResponse.Enabled),
		Version: aws.ToInt32(out.EmailChannelResponse.Version),
	}, nil
}

// GetSMSChannel fetches the SMS channel's remote state.
func (c *Client) GetSMSChannel(ctx context.Context, appID string) (domain.ChannelDetails, error) {
	out, err := c.pp.GetSmsChannel(ctx, &pinpoint.GetSmsChannelInput{
		ApplicationId: aws.String(appID),
	})
	if err != nil {
		return domain.ChannelDetails{}, fmt.Errorf("get sms channel: %w", err)
	}
	return domain.ChannelDetails{
		Type:    domain.ChannelSMS,
		Enabled: aws.ToBool(out.SMSChannelResponse.Enabled),
		Version: aws.ToInt32(out.SMSChannelResponse.Version),
	}, nil
}

// CreateEmailTemplate registers an email template.
func (c *Client) CreateEmailTemplate(ctx context.Context, name string, def domain.TemplateDefinition) error {
	_, err := c.pp.CreateEmailTemplate(ctx, &pinpoint.CreateEmailTemplateInput{
		TemplateName: aws.String(name),
		EmailTemplateRequest: &types.EmailTemplateRequest{
			Subject:             aws.String(def.Subject),
			HtmlPart:            aws.String(def.HTMLPart),
			TextPart:            aws.String(def.TextPart),
			TemplateDescription: aws.String(def.Description),
		},
	})
	if err != nil {
		return fmt.Errorf("create email template %q: %w", name, err)
	}
	return nil
}

// CreateSMSTemplate registers an SMS template.
func (c *Client) CreateSMSTemplate(ctx context.Context, name string, def domain.TemplateDefinition) error {
	_, err := c.pp.CreateSmsTemplate(ctx, &pinpoint.CreateSmsTemplateInput{
		TemplateName: aws.String(name),
		SMSTemplateRequest: &types.SMSTemplateRequest{
			Body:                aws.String(def.Body),
			TemplateDescription: aws.String(def.Description),
		},
	})
	if err != nil {
		return fmt.Errorf("create sms template %q: %w", name, err)
	}
	return nil
}

// ListTemplateVersions lists every version of a named template.
func (c *Client) ListTemplateVersions(ctx context.Context, name string, typ domain.ChannelType) ([]domain.TemplateVersion, error) {
	out, err := c.pp.ListTemplateVersions(ctx, &pinpoint.ListTemplateVersionsInput{
		TemplateName: aws.String(name),
		TemplateType: aws.String(string(typ)),
	})
	if err != nil {
		return nil, fmt.Errorf("list template versions %q: %w", name, err)
	}

	versions := make([]domain.TemplateVersion, 0, len(out.TemplateVersionsResponse.Item))
	for _, item := range out.TemplateVersionsResponse.Item {
		v := domain.TemplateVersion{
			Name:    aws.ToString(item.TemplateName),
			Type:    domain.ChannelType(aws.ToString(item.TemplateType)),
			Version: aws.ToString(item.Version),
		}
		if ts, err := time.Parse(time.RFC3339, aws.ToString(item.LastModifiedDate)); err == nil {
			v.LastModified = ts
		}
		versions = append(versions, v)
	}
	return versions, nil
}
