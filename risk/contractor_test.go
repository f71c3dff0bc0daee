package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/transparentprocure/oversight-service/view"
)

func contractorIds(contractors []view.Contractor) []string {
	ids := make([]string, 0, len(contractors))
	for _, c := range contractors {
		ids = append(ids, c.Id)
	}
	return ids
}

func TestTopRisk_LowestThreeAscending(t *testing.T) {
	contractors := []view.Contractor{
		{Id: "a", TrustScore: 90},
		{Id: "b", TrustScore: 20},
		{Id: "c", TrustScore: 55},
		{Id: "d"},
		{Id: "e", TrustScore: 20},
		{Id: "f", TrustScore: 70},
	}

	top := TopRisk(contractors, 3)

	assert.Equal(t, []string{"d", "b", "e"}, contractorIds(top))
	assert.Equal(t, "a", contractors[0].Id, "input must not be reordered")
}

func TestTopRisk_Bounds(t *testing.T) {
	contractors := []view.Contractor{{Id: "x", TrustScore: 10}, {Id: "y", TrustScore: 5}}

	assert.Empty(t, TopRisk(contractors, 0))
	assert.NotNil(t, TopRisk(contractors, -1))
	assert.Equal(t, []string{"y", "x"}, contractorIds(TopRisk(contractors, 10)))
	assert.Empty(t, TopRisk(nil, 3))
}

func TestRiskLevelFor(t *testing.T) {
	assert.Equal(t, view.RiskLevelLow, RiskLevelFor(80))
	assert.Equal(t, view.RiskLevelMedium, RiskLevelFor(79.9))
	assert.Equal(t, view.RiskLevelMedium, RiskLevelFor(50))
	assert.Equal(t, view.RiskLevelHigh, RiskLevelFor(49))
}

func TestContractorRow(t *testing.T) {
	row := ContractorRow(view.Contractor{Id: "c", TrustScore: 35})
	assert.Equal(t, view.RiskLevelHigh, row.RiskLevel)
	assert.True(t, row.BelowWarningScore)

	row = ContractorRow(view.Contractor{Id: "c", TrustScore: 40})
	assert.False(t, row.BelowWarningScore)
}
