package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of a provisioning run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"   // Saved, not yet queued
	RunStatusQueued    RunStatus = "queued"    // Published to the run queue
	RunStatusRunning   RunStatus = "running"   // Worker is executing the flow
	RunStatusCompleted RunStatus = "completed" // Segments created and persisted
	RunStatusFailed    RunStatus = "failed"    // Import or derivation failed
)

// ProvisioningRun is one end-to-end provisioning of an application's
// audience: import the CSV as the base segment, derive a dynamic segment
// per channel, persist the resulting ids.
type ProvisioningRun struct {
	ID              uuid.UUID
	ApplicationID   string
	ApplicationName string
	Channels        []ChannelType
	CSVURL          string
	Status          RunStatus
	Resources       SegmentResources
	LastError       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewProvisioningRun creates a pending run for an application.
func NewProvisioningRun(appID, appName string, channels []ChannelType, csvURL string) ProvisioningRun {
	now := time.Now().UTC()
	return ProvisioningRun{
		ID:              uuid.New(),
		ApplicationID:   appID,
		ApplicationName: appName,
		Channels:        channels,
		CSVURL:          csvURL,
		Status:          RunStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
