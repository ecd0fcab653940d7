package app

import (
	"context"
	"log/slog"
	"time"

	"pinpoint-provisioner/internal/ports"
)

// Options carries the account-level settings every provisioning flow
// shares. RoleArn is required; the rest depend on which channels are used.
type Options struct {
	// RoleArn is the IAM role the remote service assumes to read the
	// CSV during imports.
	RoleArn string

	// SESIdentityArn is the verified sender identity, required when the
	// EMAIL channel is provisioned.
	SESIdentityArn string

	// FromAddress defaults to the address part of SESIdentityArn.
	FromAddress string

	SMSSenderID  string
	SMSShortCode string

	// PollInterval and ImportTimeout default to 5s and 100s.
	PollInterval  time.Duration
	ImportTimeout time.Duration
}

// Provisioner is the central application service. It orchestrates audience
// imports, segment derivation, campaign assembly, and the persisted
// resource record. One Provisioner drives one job at a time; concurrent
// provisioning of independent applications needs independent instances.
type Provisioner struct {
	api       ports.MessagingAPI
	store     ports.ObjectStore
	repo      ports.RunRepository
	publisher ports.RunPublisher
	opts      Options
	log       *slog.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewProvisioner wires the service with its dependencies.
func NewProvisioner(
	api ports.MessagingAPI,
	store ports.ObjectStore,
	repo ports.RunRepository,
	publisher ports.RunPublisher,
	opts Options,
	log *slog.Logger,
) *Provisioner {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.ImportTimeout <= 0 {
		opts.ImportTimeout = DefaultImportTimeout
	}
	return &Provisioner{
		api:       api,
		store:     store,
		repo:      repo,
		publisher: publisher,
		opts:      opts,
		log:       log,
		sleep:     sleepContext,
	}
}

// sleepContext blocks for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
