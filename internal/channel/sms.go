package channel

import (
	"context"

	"pinpoint-provisioner/internal/domain"
	"pinpoint-provisioner/internal/ports"
)

// SMS manages the SMS channel of one application.
type SMS struct {
	api       ports.ChannelAPI
	appID     string
	senderID  string
	shortCode string
	custom    *domain.SMSMessage
}

// NewSMS wires an SMS channel. senderID and shortCode are optional; both
// need prior approval from the remote service before they take effect.
func NewSMS(api ports.ChannelAPI, appID, senderID, shortCode string) *SMS {
	return &SMS{
		api:       api,
		appID:     appID,
		senderID:  senderID,
		shortCode: shortCode,
	}
}

func (s *SMS) Type() domain.ChannelType { return domain.ChannelSMS }

func (s *SMS) Update(ctx context.Context, enable bool) error {
	return s.api.UpdateSMSChannel(ctx, s.appID, domain.SMSChannelConfig{
		Enabled:   enable,
		SenderID:  s.senderID,
		ShortCode: s.shortCode,
	})
}

func (s *SMS) Delete(ctx context.Context) error {
	return s.api.DeleteSMSChannel(ctx, s.appID)
}

func (s *SMS) Details(ctx context.Context) (domain.ChannelDetails, error) {
	return s.api.GetSMSChannel(ctx, s.appID)
}

func (s *SMS) CreateTemplate(ctx context.Context, name string, def domain.TemplateDefinition) error {
	if name == "" {
		return &domain.ConfigurationError{Reason: "template name is required"}
	}
	return s.api.CreateSMSTemplate(ctx, name, def)
}

func (s *SMS) ListTemplateVersions(ctx context.Context, name string) ([]domain.TemplateVersion, error) {
	if name == "" {
		return nil, &domain.ConfigurationError{Reason: "template name is required"}
	}
	return s.api.ListTemplateVersions(ctx, name, domain.ChannelSMS)
}

// SetCustomMessage stores the inline message used when a campaign is
// launched without an SMS template. messageType defaults to TRANSACTIONAL.
func (s *SMS) SetCustomMessage(body, messageType, senderID string) {
	if messageType == "" {
		messageType = "TRANSACTIONAL"
	}
	s.custom = &domain.SMSMessage{
		Body:        body,
		MessageType: messageType,
		SenderID:    senderID,
	}
}

// ApplyMessage copies the custom SMS message into cfg.
func (s *SMS) ApplyMessage(cfg *domain.MessageConfig) error {
	if s.custom == nil {
		return &domain.ConfigurationError{
			Reason: "no custom sms message set; set one or use an sms template",
		}
	}
	cfg.SMS = s.custom
	return nil
}
