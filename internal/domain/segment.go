package domain

// ChannelType is a delivery mechanism enabled on a Pinpoint application.
type ChannelType string

const (
	ChannelEmail ChannelType = "EMAIL"
	ChannelSMS   ChannelType = "SMS"
)

// Valid reports whether the channel type is one this service knows how to
// provision.
func (c ChannelType) Valid() bool {
	return c == ChannelEmail || c == ChannelSMS
}

// HasChannel reports whether ch is present in the set.
func HasChannel(set []ChannelType, ch ChannelType) bool {
	for _, c := range set {
		if c == ch {
			return true
		}
	}
	return false
}

// Segment is a named audience within an application, either imported from a
// CSV file ("base") or derived by filtering another segment ("dynamic").
type Segment struct {
	ID   string
	Name string
}

// SegmentResources holds the segment ids created for one application. It is
// the record persisted to the object store as application_details.json and
// reused across provisioning runs.
type SegmentResources struct {
	BaseSegmentID         string `json:"base_segment_id,omitempty"`
	EmailDynamicSegmentID string `json:"email_dynamic_segment_id,omitempty"`
	SMSDynamicSegmentID   string `json:"sms_dynamic_segment_id,omitempty"`
}

// DynamicID returns the dynamic segment id recorded for the channel.
func (r SegmentResources) DynamicID(ch ChannelType) string {
	switch ch {
	case ChannelEmail:
		return r.EmailDynamicSegmentID
	case ChannelSMS:
		return r.SMSDynamicSegmentID
	}
	return ""
}

// SetDynamicID records the dynamic segment id for the channel.
func (r *SegmentResources) SetDynamicID(ch ChannelType, id string) {
	switch ch {
	case ChannelEmail:
		r.EmailDynamicSegmentID = id
	case ChannelSMS:
		r.SMSDynamicSegmentID = id
	}
}
