package ports

import (
	"context"

	"pinpoint-provisioner/internal/domain"
)

// ImportRequest describes a CSV import to submit. SegmentName and
// SegmentID are mutually exclusive: a name creates a new segment, an id
// updates an existing one.
type ImportRequest struct {
	S3URL       string
	RoleArn     string
	SegmentName string
	SegmentID   string
}

// SegmentRequest describes a dynamic segment derived from a source
// segment, filtered to one channel type.
type SegmentRequest struct {
	Name            string
	SourceSegmentID string
	Channel         domain.ChannelType
}

// SegmentAPI covers the segment and import-job operations consumed from
// the remote messaging service.
type SegmentAPI interface {
	// CreateImportJob submits an import request and returns the job the
	// remote service assigned.
	CreateImportJob(ctx context.Context, appID string, req ImportRequest) (domain.ImportJob, error)

	// GetImportJob re-fetches a job's current state.
	GetImportJob(ctx context.Context, appID, jobID string) (domain.ImportJob, error)

	// GetSegments lists the application's segments, most recent first.
	GetSegments(ctx context.Context, appID string) ([]domain.Segment, error)

	// CreateSegment creates a channel-filtered dynamic segment and
	// returns it with its remote-assigned id.
	CreateSegment(ctx context.Context, appID string, req SegmentRequest) (domain.Segment, error)
}

// CampaignAPI covers campaign creation and lookup.
type CampaignAPI interface {
	// CreateCampaign submits a write-campaign request and returns the
	// new campaign's id.
	CreateCampaign(ctx context.Context, appID string, spec domain.CampaignSpec) (string, error)

	// GetCampaignName resolves a campaign id to its display name.
	GetCampaignName(ctx context.Context, appID, campaignID string) (string, error)
}

// ApplicationAPI covers application lifecycle operations.
type ApplicationAPI interface {
	// CreateApp creates a new application and returns its id.
	CreateApp(ctx context.Context, name string) (string, error)

	// DeleteApp deletes one application.
	DeleteApp(ctx context.Context, appID string) error

	// ListAppIDs returns the ids of every application on the account.
	ListAppIDs(ctx context.Context) ([]string, error)

	// GetChannels returns the channel types present on an application.
	GetChannels(ctx context.Context, appID string) ([]domain.ChannelType, error)
}

// ChannelAPI covers per-channel management and templates.
type ChannelAPI interface {
	UpdateEmailChannel(ctx context.Context, appID string, cfg domain.EmailChannelConfig) error
	UpdateSMSChannel(ctx context.Context, appID string, cfg domain.SMSChannelConfig) error
	DeleteEmailChannel(ctx context.Context, appID string) error
	DeleteSMSChannel(ctx context.Context, appID string) error
	GetEmailChannel(ctx context.Context, appID string) (domain.ChannelDetails, error)
	GetSMSChannel(ctx context.Context, appID string) (domain.ChannelDetails, error)

	CreateEmailTemplate(ctx context.Context, name string, def domain.TemplateDefinition) error
	CreateSMSTemplate(ctx context.Context, name string, def domain.TemplateDefinition) error
	ListTemplateVersions(ctx context.Context, name string, typ domain.ChannelType) ([]domain.TemplateVersion, error)
}

// MessageAPI covers direct transactional sends.
type MessageAPI interface {
	// SendEmail sends one transactional email and returns the remote
	// message id.
	SendEmail(ctx context.Context, appID string, msg domain.TransactionalEmail) (string, error)

	// SendSMS sends one transactional SMS and returns the remote
	// message id.
	SendSMS(ctx context.Context, appID string, msg domain.TransactionalSMS) (string, error)
}

// AnalyticsAPI covers KPI aggregation.
type AnalyticsAPI interface {
	// GetKPIRows fetches the date-range KPI rows for one KPI name.
	GetKPIRows(ctx context.Context, appID, kpiName string) ([]domain.KPIRow, error)
}

// MessagingAPI is the full surface the provisioner consumes from the
// remote messaging service.
type MessagingAPI interface {
	SegmentAPI
	CampaignAPI
	ApplicationAPI
	ChannelAPI
	MessageAPI
	AnalyticsAPI
}
