package services

import (
	"renewal-review-api/models"
)

// Aggregate is the rollup of every assessment for one product. It is always
// recomputed from the full row set; counters are never incremented in place,
// so a partially failed write or an admin purge can never leave the counts
// drifted from the assessments they describe.
type Aggregate struct {
	Total            int
	Renew            int
	RenewWithChanges int
	Replace          int
	Retire           int
}

// ComputeAggregate folds the assessment set into per-recommendation counts.
// It is a pure function of its input and idempotent by construction.
func ComputeAggregate(assessments []models.Assessment) Aggregate {
	var agg Aggregate
	for _, a := range assessments {
		switch a.Recommendation {
		case models.RecommendRenew:
			agg.Renew++
		case models.RecommendRenewWithChanges:
			agg.RenewWithChanges++
		case models.RecommendReplace:
			agg.Replace++
		case models.RecommendRetire:
			agg.Retire++
		default:
			// Unknown values cannot enter through intake; skip rather than
			// corrupt the count invariant.
			continue
		}
		agg.Total++
	}
	return agg
}

// Apply writes the aggregate onto a decision row.
func (g Aggregate) Apply(d *models.Decision) {
	d.TotalSubmissions = g.Total
	d.RenewCount = g.Renew
	d.RenewWithChangesCount = g.RenewWithChanges
	d.ReplaceCount = g.Replace
	d.RetireCount = g.Retire
}
