package ports

import (
	"context"

	"pinpoint-provisioner/internal/domain"

	"github.com/google/uuid"
)

// RunRepository defines persistence operations for provisioning runs.
type RunRepository interface {
	// SaveRun persists a new ProvisioningRun.
	SaveRun(ctx context.Context, run domain.ProvisioningRun) error

	// GetRun retrieves a run by id.
	GetRun(ctx context.Context, id uuid.UUID) (*domain.ProvisioningRun, error)

	// ClaimPendingRuns atomically claims up to limit runs with
	// RunStatusPending, oldest first, transitioning them to
	// RunStatusQueued. Rows claimed by one caller are invisible to
	// concurrent callers.
	ClaimPendingRuns(ctx context.Context, limit int) ([]domain.ProvisioningRun, error)

	// UpdateRunStatus transitions a run to the given status. lastError is
	// recorded verbatim and may be empty.
	UpdateRunStatus(ctx context.Context, id uuid.UUID, status domain.RunStatus, lastError string) error

	// SetRunResources stores the segment ids a completed run created.
	SetRunResources(ctx context.Context, id uuid.UUID, res domain.SegmentResources) error
}
