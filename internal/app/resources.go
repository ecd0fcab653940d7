package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pinpoint-provisioner/internal/domain"
)

// StateFileName is the object holding an application's segment ids,
// stored under {folder}/StateFileName.
const StateFileName = "application_details.json"

// LoadResources reads the persisted segment record for an application
// folder. Returns domain.ErrStateNotFound when no record exists; callers
// treat that as "no prior state".
func (p *Provisioner) LoadResources(ctx context.Context, folder string) (domain.SegmentResources, error) {
	data, err := p.store.GetObject(ctx, folder+"/"+StateFileName)
	if err != nil {
		return domain.SegmentResources{}, err
	}

	var res domain.SegmentResources
	if err := json.Unmarshal(data, &res); err != nil {
		return domain.SegmentResources{}, fmt.Errorf("decode %s: %w", StateFileName, err)
	}
	return res, nil
}

// SaveResources overwrites the persisted segment record wholesale. The
// record is small and written once per provisioning run; concurrent runs
// against the same folder are the caller's responsibility.
func (p *Provisioner) SaveResources(ctx context.Context, folder string, res domain.SegmentResources) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode %s: %w", StateFileName, err)
	}
	if err := p.store.PutObject(ctx, folder+"/"+StateFileName, data); err != nil {
		return fmt.Errorf("persist %s: %w", StateFileName, err)
	}
	return nil
}

// hydrateResources loads the record, mapping an absent object to an empty
// record.
func (p *Provisioner) hydrateResources(ctx context.Context, folder string) (domain.SegmentResources, error) {
	res, err := p.LoadResources(ctx, folder)
	if err != nil {
		if errors.Is(err, domain.ErrStateNotFound) {
			return domain.SegmentResources{}, nil
		}
		return domain.SegmentResources{}, err
	}
	return res, nil
}
