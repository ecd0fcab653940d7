package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pinpoint-provisioner/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repository implements ports.RunRepository using PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New opens a PostgreSQL connection and returns a Repository.
func New(dsn string) (*Repository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveRun inserts a new provisioning run row.
func (r *Repository) SaveRun(ctx context.Context, run domain.ProvisioningRun) error {
	const q = `
		INSERT INTO provisioning_runs
			(id, application_id, application_name, channels, csv_url, status,
			 base_segment_id, email_segment_id, sms_segment_id, last_error,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	channels := make([]string, len(run.Channels))
	for i, ch := range run.Channels {
		channels[i] = string(ch)
	}

	_, err := r.db.ExecContext(ctx, q,
		run.ID, run.ApplicationID, run.ApplicationName, pq.Array(channels),
		run.CSVURL, run.Status,
		run.Resources.BaseSegmentID, run.Resources.EmailDynamicSegmentID,
		run.Resources.SMSDynamicSegmentID, run.LastError,
		run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by id.
func (r *Repository) GetRun(ctx context.Context, id uuid.UUID) (*domain.ProvisioningRun, error) {
	const q = `
		SELECT id, application_id, application_name, channels, csv_url, status,
		       base_segment_id, email_segment_id, sms_segment_id, last_error,
		       created_at, updated_at
		FROM provisioning_runs
		WHERE id = $1
	`
	run, err := scanRun(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("query run %s: %w", id, err)
	}
	return run, nil
}

// ClaimPendingRuns selects up to limit pending runs and marks them queued
// inside one transaction, so the row locks from SKIP LOCKED hold until the
// status change commits and concurrent publishers never claim the same run.
func (r *Repository) ClaimPendingRuns(ctx context.Context, limit int) ([]domain.ProvisioningRun, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin claim tx: %w", err)
	}
	defer tx.Rollback()

	const selectQ = `
		SELECT id, application_id, application_name, channels, csv_url, status,
		       base_segment_id, email_segment_id, sms_segment_id, last_error,
		       created_at, updated_at
		FROM provisioning_runs
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`
	rows, err := tx.QueryContext(ctx, selectQ, domain.RunStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending runs: %w", err)
	}

	var runs []domain.ProvisioningRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(runs) == 0 {
		return nil, tx.Commit()
	}

	ids := make([]uuid.UUID, len(runs))
	for i, run := range runs {
		ids[i] = run.ID
	}

	const updateQ = `
		UPDATE provisioning_runs
		SET status = $1, updated_at = $2
		WHERE id = ANY($3)
	`
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, updateQ, domain.RunStatusQueued, now, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("mark runs queued: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim tx: %w", err)
	}

	for i := range runs {
		runs[i].Status = domain.RunStatusQueued
		runs[i].UpdatedAt = now
	}
	return runs, nil
}

// UpdateRunStatus transitions a run to the given status.
func (r *Repository) UpdateRunStatus(ctx context.Context, id uuid.UUID, status domain.RunStatus, lastError string) error {
	const q = `
		UPDATE provisioning_runs
		SET status = $1, last_error = $2, updated_at = $3
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, q, status, lastError, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

// SetRunResources stores the segment ids a completed run created.
func (r *Repository) SetRunResources(ctx context.Context, id uuid.UUID, resources domain.SegmentResources) error {
	const q = `
		UPDATE provisioning_runs
		SET base_segment_id = $1, email_segment_id = $2, sms_segment_id = $3,
		    updated_at = $4
		WHERE id = $5
	`
	res, err := r.db.ExecContext(ctx, q,
		resources.BaseSegmentID, resources.EmailDynamicSegmentID,
		resources.SMSDynamicSegmentID, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set run resources: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*domain.ProvisioningRun, error) {
	var (
		run      domain.ProvisioningRun
		status   string
		channels pq.StringArray
	)
	if err := s.Scan(
		&run.ID, &run.ApplicationID, &run.ApplicationName, &channels,
		&run.CSVURL, &status,
		&run.Resources.BaseSegmentID, &run.Resources.EmailDynamicSegmentID,
		&run.Resources.SMSDynamicSegmentID, &run.LastError,
		&run.CreatedAt, &run.UpdatedAt,
	); err != nil {
		return nil, err
	}

	run.Status = domain.RunStatus(status)
	run.Channels = make([]domain.ChannelType, len(channels))
	for i, ch := range channels {
		run.Channels[i] = domain.ChannelType(ch)
	}
	return &run, nil
}
