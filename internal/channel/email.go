package channel

import (
	"context"
	"strings"

	"pinpoint-provisioner/internal/domain"
	"pinpoint-provisioner/internal/ports"
)

// Email manages the EMAIL channel of one application.
type Email struct {
	api         ports.ChannelAPI
	appID       string
	identityArn string
	fromAddress string
	roleArn     string
	custom      *domain.EmailMessage
}

// NewEmail wires an Email channel. fromAddress may be empty, in which case
// the address part of the SES identity ARN is used.
func NewEmail(api ports.ChannelAPI, appID, identityArn, fromAddress, roleArn string) *Email {
	if fromAddress == "" {
		parts := strings.Split(identityArn, "/")
		fromAddress = parts[len(parts)-1]
	}
	return &Email{
		api:         api,
		appID:       appID,
		identityArn: identityArn,
		fromAddress: fromAddress,
		roleArn:     roleArn,
	}
}

func (e *Email) Type() domain.ChannelType { return domain.ChannelEmail }

// Update enables or disables the email channel. Requires a SES identity.
func (e *Email) Update(ctx context.Context, enable bool) error {
	if e.identityArn == "" {
		return &domain.ConfigurationError{Reason: "ses identity arn is required for the email channel"}
	}
	return e.api.UpdateEmailChannel(ctx, e.appID, domain.EmailChannelConfig{
		Enabled:     enable,
		FromAddress: e.fromAddress,
		Identity:    e.identityArn,
		RoleArn:     e.roleArn,
	})
}

func (e *Email) Delete(ctx context.Context) error {
	return e.api.DeleteEmailChannel(ctx, e.appID)
}

func (e *Email) Details(ctx context.Context) (domain.ChannelDetails, error) {
	return e.api.GetEmailChannel(ctx, e.appID)
}

func (e *Email) CreateTemplate(ctx context.Context, name string, def domain.TemplateDefinition) error {
	if name == "" {
		return &domain.ConfigurationError{Reason: "template name is required"}
	}
	return e.api.CreateEmailTemplate(ctx, name, def)
}

func (e *Email) ListTemplateVersions(ctx context.Context, name string) ([]domain.TemplateVersion, error) {
	if name == "" {
		return nil, &domain.ConfigurationError{Reason: "template name is required"}
	}
	return e.api.ListTemplateVersions(ctx, name, domain.ChannelEmail)
}

// SetCustomMessage stores the inline message used when a campaign is
// launched without an email template. An empty from address falls back to
// the channel's configured sender.
func (e *Email) SetCustomMessage(body, fromAddress, htmlBody, title string) {
	if fromAddress == "" {
		fromAddress = e.fromAddress
	}
	e.custom = &domain.EmailMessage{
		Body:        body,
		FromAddress: fromAddress,
		HTMLBody:    htmlBody,
		Title:       title,
	}
}

// ApplyMessage copies the custom email message into cfg.
func (e *Email) ApplyMessage(cfg *domain.MessageConfig) error {
	if e.custom == nil {
		return &domain.ConfigurationError{
			Reason: "no custom email message set; set one or use an email template",
		}
	}
	cfg.Email = e.custom
	return nil
}
