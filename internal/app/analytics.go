package app

import (
	"context"
	"fmt"
	"math"

	"pinpoint-provisioner/internal/domain"
)

// kpiNames are the KPIs aggregated for a whole-application report.
var kpiNames = []string{
	"successful-deliveries-grouped-by-campaign",
	"successful-delivery-rate",
	"email-open-rate",
	"unique-deliveries",
	"unique-deliveries-grouped-by-date",
	"successful-delivery-rate-grouped-by-date",
	"email-open-rate-grouped-by-campaign",
}

// CampaignKPI is one campaign's value in a grouped-by-campaign KPI.
type CampaignKPI struct {
	CampaignName string  `json:"campaign_name"`
	Value        float64 `json:"value"`
}

// ApplicationAnalytics aggregates every known KPI for the application.
func (p *Provisioner) ApplicationAnalytics(ctx context.Context, appID string) (map[string]any, error) {
	report := make(map[string]any, len(kpiNames))
	for _, name := range kpiNames {
		value, err := p.KPIValue(ctx, appID, name)
		if err != nil {
			return nil, err
		}
		report[name] = value
	}
	return report, nil
}

// KPIValue fetches and shapes one KPI. Grouped-by-date KPIs come back as a
// date-to-value map, grouped-by-campaign open rates as a list of campaign
// name/value pairs, everything else as a scalar. Rates are scaled to
// percentages.
func (p *Provisioner) KPIValue(ctx context.Context, appID, kpiName string) (any, error) {
	rows, err := p.api.GetKPIRows(ctx, appID, kpiName)
	if err != nil {
		return nil, fmt.Errorf("get kpi %s: %w", kpiName, err)
	}
	if len(rows) == 0 {
		return float64(0), nil
	}

	switch kpiName {
	case "successful-deliveries-grouped-by-campaign":
		var total float64
		for _, row := range rows {
			total += round2(row.Value)
		}
		return total, nil

	case "unique-deliveries-grouped-by-date", "successful-delivery-rate-grouped-by-date":
		byDate := make(map[string]float64, len(rows))
		for _, row := range rows {
			value := round2(row.Value)
			if kpiName == "successful-delivery-rate-grouped-by-date" {
				value = round2(row.Value * 100)
			}
			byDate[row.GroupedBy] = value
		}
		return byDate, nil

	case "email-open-rate-grouped-by-campaign":
		out := make([]CampaignKPI, 0, len(rows))
		for _, row := range rows {
			name, err := p.api.GetCampaignName(ctx, appID, row.GroupedBy)
			if err != nil {
				return nil, fmt.Errorf("get campaign name %s: %w", row.GroupedBy, err)
			}
			out = append(out, CampaignKPI{CampaignName: name, Value: round2(row.Value * 100)})
		}
		return out, nil

	case "unique-deliveries":
		return round2(rows[0].Value), nil

	default:
		// Remaining KPIs are rates in [0,1].
		return round2(rows[0].Value * 100), nil
	}
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// KPIRows returns the raw rows for callers that shape the data themselves.
func (p *Provisioner) KPIRows(ctx context.Context, appID, kpiName string) ([]domain.KPIRow, error) {
	return p.api.GetKPIRows(ctx, appID, kpiName)
}
