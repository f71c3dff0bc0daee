package risk

import (
	"cmp"
	"slices"

	"github.com/transparentprocure/oversight-service/view"
)

// DefaultHighRiskLimit is how many contractors the dashboard lists as high risk.
const DefaultHighRiskLimit = 3

const (
	lowRiskScore    = 80
	mediumRiskScore = 50
	warningScore    = 40
)

// TopRisk returns the n lowest-scoring contractors, ascending. Equal scores keep their input order.
func TopRisk(contractors []view.Contractor, n int) []view.Contractor {
	if n <= 0 {
		return []view.Contractor{}
	}
	sorted := slices.Clone(contractors)
	slices.SortStableFunc(sorted, func(a, b view.Contractor) int {
		return cmp.Compare(a.TrustScore, b.TrustScore)
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n:n]
}

// RiskLevelFor tiers a trust score: 80 and above is Low, 50 and above Medium, the rest High.
func RiskLevelFor(score float64) view.RiskLevel {
	switch {
	case score >= lowRiskScore:
		return view.RiskLevelLow
	case score >= mediumRiskScore:
		return view.RiskLevelMedium
	default:
		return view.RiskLevelHigh
	}
}

// BelowWarningScore marks scores the registry highlights as a blacklist warning.
func BelowWarningScore(score float64) bool {
	return score < warningScore
}

// ContractorRow attaches the risk tier and warning marker to a contractor.
func ContractorRow(contractor view.Contractor) view.ContractorRow {
	return view.ContractorRow{
		Contractor:        contractor,
		RiskLevel:         RiskLevelFor(contractor.TrustScore),
		BelowWarningScore: BelowWarningScore(contractor.TrustScore),
	}
}

func ContractorRows(contractors []view.Contractor) []view.ContractorRow {
	rows := make([]view.ContractorRow, 0, len(contractors))
	for _, c := range contractors {
		rows = append(rows, ContractorRow(c))
	}
	return rows
}
