package domain

import "time"

// EmailChannelConfig enables or updates the email channel of an
// application. Identity is the SES-verified identity ARN; FromAddress must
// be covered by it.
type EmailChannelConfig struct {
	Enabled     bool
	FromAddress string
	Identity    string
	RoleArn     string
}

// SMSChannelConfig enables or updates the SMS channel. SenderID and
// ShortCode are optional and subject to regional support.
type SMSChannelConfig struct {
	Enabled   bool
	SenderID  string
	ShortCode string
}

// ChannelDetails is the remote state of a channel.
type ChannelDetails struct {
	Type    ChannelType
	Enabled bool
	Version int32
}

// TemplateDefinition is the body of a message template. Email templates
// read Subject, HTMLPart and TextPart; SMS templates read Body.
type TemplateDefinition struct {
	Subject     string
	HTMLPart    string
	TextPart    string
	Body        string
	Description string
}

// TemplateVersion is one registered version of a template.
type TemplateVersion struct {
	Name         string
	Type         ChannelType
	Version      string
	LastModified time.Time
}
