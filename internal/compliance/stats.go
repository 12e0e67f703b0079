package compliance

import "envirocheck/pkg/schema"

// Stats counts results by status. N/A results only add to Total.
func Stats(results []schema.AssessmentResult) schema.ComplianceStats {
	stats := schema.ComplianceStats{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case schema.StatusPass:
			stats.Pass++
		case schema.StatusWarning:
			stats.Warning++
		case schema.StatusFail:
			stats.Fail++
		}
	}
	return stats
}
