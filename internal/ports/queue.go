package ports

import (
	"context"

	"pinpoint-provisioner/internal/domain"
)

// RunPublisher publishes provisioning runs to the run queue.
type RunPublisher interface {
	// Publish sends a single domain.ProvisioningRun to the queue.
	Publish(ctx context.Context, run domain.ProvisioningRun) error
}

// RunConsumer consumes provisioning runs from the run queue.
type RunConsumer interface {
	// Consume starts delivery of runs; each is passed to the handler.
	// Blocks until ctx is cancelled or a fatal error occurs.
	Consume(ctx context.Context, handler func(ctx context.Context, run domain.ProvisioningRun) error) error
}
