// Package channel wraps per-channel management of an application: enabling
// and disabling delivery channels, templates, and the inline message each
// channel contributes to a campaign.
package channel

import (
	"context"

	"pinpoint-provisioner/internal/domain"
)

// Channel is one delivery mechanism of an application. Implementations
// exist for EMAIL and SMS.
type Channel interface {
	// Type identifies the channel.
	Type() domain.ChannelType

	// Update enables or disables the channel on the remote application.
	Update(ctx context.Context, enable bool) error

	// Delete removes the channel from the application.
	Delete(ctx context.Context) error

	// Details fetches the channel's remote state.
	Details(ctx context.Context) (domain.ChannelDetails, error)

	// CreateTemplate registers a message template for this channel type.
	CreateTemplate(ctx context.Context, name string, def domain.TemplateDefinition) error

	// ListTemplateVersions lists every version of a named template of
	// this channel's type.
	ListTemplateVersions(ctx context.Context, name string) ([]domain.TemplateVersion, error)

	// ApplyMessage contributes the channel's custom message to a
	// campaign message configuration. Fails with a configuration error
	// when no custom message has been set.
	ApplyMessage(cfg *domain.MessageConfig) error
}
