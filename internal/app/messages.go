package app

import (
	"context"
	"fmt"

	"pinpoint-provisioner/internal/domain"
)

// SendTransactionalEmail sends one direct email through the application,
// outside any campaign. Useful for verifying a freshly enabled channel.
func (p *Provisioner) SendTransactionalEmail(ctx context.Context, appID string, msg domain.TransactionalEmail) (string, error) {
	if msg.To == "" {
		return "", &domain.ConfigurationError{Reason: "recipient address is required"}
	}
	if msg.Sender == "" {
		msg.Sender = p.opts.FromAddress
	}
	if msg.Sender == "" {
		return "", &domain.ConfigurationError{Reason: "sender address is required"}
	}
	if msg.Charset == "" {
		msg.Charset = "UTF-8"
	}

	id, err := p.api.SendEmail(ctx, appID, msg)
	if err != nil {
		return "", fmt.Errorf("send transactional email: %w", err)
	}
	p.log.Info("transactional email sent", "app_id", appID, "message_id", id, "to", msg.To)
	return id, nil
}

// SendTransactionalSMS sends one direct SMS through the application.
func (p *Provisioner) SendTransactionalSMS(ctx context.Context, appID string, msg domain.TransactionalSMS) (string, error) {
	if msg.To == "" {
		return "", &domain.ConfigurationError{Reason: "destination number is required"}
	}
	if msg.MessageType == "" {
		msg.MessageType = "TRANSACTIONAL"
	}

	id, err := p.api.SendSMS(ctx, appID, msg)
	if err != nil {
		return "", fmt.Errorf("send transactional sms: %w", err)
	}
	p.log.Info("transactional sms sent", "app_id", appID, "message_id", id, "to", msg.To)
	return id, nil
}

// DeleteApplications deletes the given applications.
func (p *Provisioner) DeleteApplications(ctx context.Context, appIDs ...string) error {
	if len(appIDs) == 0 {
		return &domain.ConfigurationError{Reason: "no application ids given"}
	}
	for _, id := range appIDs {
		if err := p.api.DeleteApp(ctx, id); err != nil {
			return fmt.Errorf("delete application %s: %w", id, err)
		}
		p.log.Info("application deleted", "app_id", id)
	}
	return nil
}

// DeleteAllApplications deletes every application on the account.
func (p *Provisioner) DeleteAllApplications(ctx context.Context) error {
	ids, err := p.api.ListAppIDs(ctx)
	if err != nil {
		return fmt.Errorf("list applications: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	return p.DeleteApplications(ctx, ids...)
}
