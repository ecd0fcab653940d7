package domain

// EmailMessage is an inline email message for a campaign.
type EmailMessage struct {
	Body        string
	FromAddress string
	HTMLBody    string
	Title       string
}

// SMSMessage is an inline SMS message for a campaign.
type SMSMessage struct {
	Body        string
	MessageType string // TRANSACTIONAL | PROMOTIONAL
	SenderID    string
}

// MessageConfig carries the inline per-channel messages of a campaign.
// Only the channels active on the application are populated.
type MessageConfig struct {
	Email *EmailMessage
	SMS   *SMSMessage
}

// TemplateRef names a registered message template, optionally pinned to a
// version. An empty version means the latest.
type TemplateRef struct {
	Name    string
	Version string
}

// TemplateConfig selects templates instead of inline messages.
type TemplateConfig struct {
	Email *TemplateRef
	SMS   *TemplateRef
}

// Empty reports whether no template is referenced.
func (t TemplateConfig) Empty() bool {
	return t.Email == nil && t.SMS == nil
}

// Schedule describes when a campaign runs. StartTime accepts the remote
// service's values, e.g. "IMMEDIATE" or an ISO 8601 timestamp.
type Schedule struct {
	StartTime string
}

// CampaignSpec is everything needed to compose a write-campaign request.
// SegmentID, when set, overrides the segment resolution against the
// application's provisioned resources.
type CampaignSpec struct {
	Name        string
	Description string
	IsPaused    bool
	SegmentID   string
	Schedule    Schedule
	Messages    MessageConfig
	Templates   TemplateConfig
}

// TransactionalEmail is a single direct email send, outside any campaign.
type TransactionalEmail struct {
	Sender   string
	To       string
	Subject  string
	TextBody string
	HTMLBody string
	Charset  string
}

// TransactionalSMS is a single direct SMS send, outside any campaign.
type TransactionalSMS struct {
	OriginationNumber string
	To                string
	Body              string
	MessageType       string
	Keyword           string
	SenderID          string
}

// KPIRow is one row of a date-range KPI result.
type KPIRow struct {
	GroupedBy string
	Value     float64
}
