package risk

import (
	"math"
	"slices"
	"strings"

	"github.com/transparentprocure/oversight-service/view"
)

// CitizenFlag is the risk flag raised when a citizen reports a delay on a tender.
const CitizenFlag = "Citizen Flag"

// NeutralScore is the trust score of a contractor with no tender history.
const NeutralScore = 50

const (
	stalledPenalty      = 25
	priceAnomalyPenalty = 20
	citizenDelayPenalty = 15
	riskFlagSeparator   = " + "
	maxContractorScore  = 100
	minContractorScore  = 0
)

// DelayedReferences collects the tender ids that citizens reported as delayed.
func DelayedReferences(posts []view.Post) map[string]struct{} {
	refs := make(map[string]struct{})
	for _, post := range posts {
		if post.Status == view.PostDelayReported && post.ReferenceId != "" {
			refs[post.ReferenceId] = struct{}{}
		}
	}
	return refs
}

// CitizenFlags returns a copy of tenders where every tender referenced by a delay report carries
// CitizenFlag and is marked critical. Tenders already carrying the flag are left as they are.
func CitizenFlags(tenders []view.Tender, posts []view.Post) []view.Tender {
	refs := DelayedReferences(posts)
	result := make([]view.Tender, 0, len(tenders))
	for _, tender := range tenders {
		if _, delayed := refs[tender.Id]; delayed && tender.Id != "" && !slices.Contains(tender.RiskFlags, CitizenFlag) {
			tender.RiskFlags = append(slices.Clone(tender.RiskFlags), CitizenFlag)
			tender.RiskFlag = strings.Join(tender.RiskFlags, riskFlagSeparator)
			tender.IsCritical = true
		}
		result = append(result, tender)
	}
	return result
}

// ContractorScore derives a 0..100 trust score from the contractor's tenders: every stalled
// tender, price anomaly and citizen-reported delay costs points. No tenders gives NeutralScore.
func ContractorScore(tenders []view.Tender, posts []view.Post, contractorId string) float64 {
	refs := DelayedReferences(posts)
	score := float64(maxContractorScore)
	found := false
	for _, tender := range tenders {
		if contractorId == "" || tender.ContractorId != contractorId {
			continue
		}
		found = true
		if strings.EqualFold(strings.TrimSpace(string(tender.Status)), string(view.TenderStatusStalled)) {
			score -= stalledPenalty
		}
		if Ratio(tender) > DefaultThreshold {
			score -= priceAnomalyPenalty
		}
		if _, delayed := refs[tender.Id]; delayed {
			score -= citizenDelayPenalty
		}
	}
	if !found {
		return NeutralScore
	}
	return math.Max(minContractorScore, math.Min(maxContractorScore, score))
}

// DeriveMissingScores returns a copy of contractors where records sent without a trust score get
// ContractorScore instead of 0.
func DeriveMissingScores(contractors []view.Contractor, tenders []view.Tender, posts []view.Post) []view.Contractor {
	result := slices.Clone(contractors)
	for i := range result {
		if result[i].ScoreMissing {
			result[i].TrustScore = ContractorScore(tenders, posts, result[i].Id)
			result[i].ScoreMissing = false
		}
	}
	return result
}

// HasMissingScores reports whether any contractor needs DeriveMissingScores.
func HasMissingScores(contractors []view.Contractor) bool {
	return slices.ContainsFunc(contractors, func(c view.Contractor) bool { return c.ScoreMissing })
}
