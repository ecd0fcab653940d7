// Package audience normalises caller-supplied audience rows into the CSV
// shape the remote import API accepts.
package audience

import (
	"encoding/csv"
	"fmt"
	"io"

	"pinpoint-provisioner/internal/domain"
)

// Dataset accumulates per-channel audience rows against one shared field
// list. The field list is fixed the first time data is supplied and reused
// for every later row set unless explicitly overridden.
type Dataset struct {
	fields []string
	email  [][]string
	sms    [][]string
}

// New returns an empty Dataset. fields may be nil and set later.
func New(fields []string) *Dataset {
	return &Dataset{fields: fields}
}

// SetFields replaces the declared field list, e.g.
// ["ChannelType", "Address", "Attributes.Name"].
func (d *Dataset) SetFields(fields []string) {
	d.fields = fields
}

// Fields returns the declared field list.
func (d *Dataset) Fields() []string {
	return d.fields
}

// SetEmailValues stores already-ordered email rows. A non-nil fields list
// replaces the stored one. Row lengths are trusted as supplied.
func (d *Dataset) SetEmailValues(rows [][]string, fields []string) {
	if fields != nil {
		d.fields = fields
	}
	d.email = rows
}

// SetSMSValues stores already-ordered SMS rows, mirroring SetEmailValues.
func (d *Dataset) SetSMSValues(rows [][]string, fields []string) {
	if fields != nil {
		d.fields = fields
	}
	d.sms = rows
}

// SetEmailRecords normalises record-shaped email rows against the declared
// field list and stores them.
func (d *Dataset) SetEmailRecords(rows []map[string]string, fields []string) error {
	normalised, err := d.normalise(rows, fields)
	if err != nil {
		return err
	}
	d.email = normalised
	return nil
}

// SetSMSRecords normalises record-shaped SMS rows against the declared
// field list and stores them.
func (d *Dataset) SetSMSRecords(rows []map[string]string, fields []string) error {
	normalised, err := d.normalise(rows, fields)
	if err != nil {
		return err
	}
	d.sms = normalised
	return nil
}

// normalise extracts values from each record in declared-field order. The
// field list must be known, either stored from an earlier call or passed
// now; once seen it is cached for subsequent row sets.
func (d *Dataset) normalise(rows []map[string]string, fields []string) ([][]string, error) {
	if fields == nil {
		fields = d.fields
	}
	if len(fields) == 0 {
		return nil, &domain.ConfigurationError{
			Reason: "declared field list is required for record-shaped rows",
		}
	}
	if d.fields == nil {
		d.fields = fields
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		values := make([]string, 0, len(fields))
		for _, f := range fields {
			v, ok := row[f]
			if !ok {
				return nil, &domain.MissingFieldError{Field: f}
			}
			values = append(values, v)
		}
		out = append(out, values)
	}
	return out, nil
}

// WriteCSV renders the dataset for the active channels: the field list as
// the header row exactly once, then email rows, then SMS rows. A channel
// in the set with no data is a configuration error.
func (d *Dataset) WriteCSV(w io.Writer, channels []domain.ChannelType) error {
	if len(d.fields) == 0 {
		return &domain.ConfigurationError{Reason: "declared field list is empty"}
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(d.fields); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if domain.HasChannel(channels, domain.ChannelEmail) {
		if len(d.email) == 0 {
			return &domain.ConfigurationError{Reason: "email channel is active but no email rows are set"}
		}
		if err := cw.WriteAll(d.email); err != nil {
			return fmt.Errorf("write email rows: %w", err)
		}
	}

	if domain.HasChannel(channels, domain.ChannelSMS) {
		if len(d.sms) == 0 {
			return &domain.ConfigurationError{Reason: "sms channel is active but no sms rows are set"}
		}
		if err := cw.WriteAll(d.sms); err != nil {
			return fmt.Errorf("write sms rows: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
