package risk

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transparentprocure/oversight-service/view"
)

func newTestEvaluator(t *testing.T) Evaluator {
	e, err := NewEvaluator(DefaultThreshold, DefaultAnomalyPattern)
	require.NoError(t, err)
	return e
}

func TestVariancePercent_ZeroValueIsZero(t *testing.T) {
	for _, bench := range []float64{0, 1, 2_000_000, -5} {
		v := VariancePercent(view.Tender{Value: 0, BenchmarkValue: bench})
		assert.Equal(t, 0.0, v)
	}
	assert.Equal(t, "0%", FormatVariance(VariancePercent(view.Tender{Value: 0, BenchmarkValue: 2_000_000})))
}

func TestRatio_ZeroBenchmarkTreatedAsOne(t *testing.T) {
	tender := view.Tender{Value: 250, BenchmarkValue: 0}
	assert.Equal(t, 250.0, Ratio(tender))
	assert.Equal(t, 24900.0, VariancePercent(tender))
	assert.True(t, newTestEvaluator(t).Classify(tender))
}

func TestBoundaryRatioIsNotAnomalous(t *testing.T) {
	e := newTestEvaluator(t)
	tender := view.Tender{Value: 3_000_000, BenchmarkValue: 2_000_000}

	assert.Equal(t, 1.5, Ratio(tender))
	assert.Equal(t, "+50%", FormatVariance(VariancePercent(tender)))
	assert.False(t, e.Classify(tender))

	tender.Value = 3_000_001
	assert.True(t, e.Classify(tender))
}

func TestClassify_FlagsAndCritical(t *testing.T) {
	e := newTestEvaluator(t)
	base := view.Tender{Value: 100, BenchmarkValue: 100}

	assert.False(t, e.Classify(base))

	critical := base
	critical.IsCritical = true
	assert.True(t, e.Classify(critical))

	flagged := base
	flagged.RiskFlag = "Price Anomaly + Citizen Flag"
	assert.True(t, e.Classify(flagged))

	citizenOnly := base
	citizenOnly.RiskFlag = "Citizen Flag"
	assert.False(t, e.Classify(citizenOnly))

	split := base
	split.RiskFlags = []string{"Citizen Flag", "Cost anomaly"}
	assert.True(t, e.Classify(split))
}

func TestNewEvaluator(t *testing.T) {
	e, err := NewEvaluator(0, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultThreshold, e.Threshold())

	_, err = NewEvaluator(2, "([")
	assert.Error(t, err)

	strict, err := NewEvaluator(2, DefaultAnomalyPattern)
	require.NoError(t, err)
	assert.False(t, strict.Classify(view.Tender{Value: 180, BenchmarkValue: 100}))
}

func TestFormatVariance(t *testing.T) {
	assert.Equal(t, "+50%", FormatVariance(50))
	assert.Equal(t, "-25%", FormatVariance(-25.4))
	assert.Equal(t, "0%", FormatVariance(0))
	assert.Equal(t, "+13%", FormatVariance(12.6))
}

func TestAggregate_Empty(t *testing.T) {
	summary := newTestEvaluator(t).Aggregate(nil)
	assert.Equal(t, 0, summary.Count)
	assert.Equal(t, 0.0, summary.AverageVariance)
	assert.Equal(t, 0.0, summary.TotalFlaggedValue)
	assert.Equal(t, "0.0%", summary.AverageVarianceDisplay)
}

func TestAggregate_FlaggedSubsetOnly(t *testing.T) {
	tenders := []view.Tender{
		{Id: "a", Value: 200, BenchmarkValue: 100},                 // +100%
		{Id: "b", Value: 400, BenchmarkValue: 100},                 // +300%
		{Id: "c", Value: 110, BenchmarkValue: 100},                 // not flagged
		{Id: "d", Value: 0, BenchmarkValue: 100, IsCritical: true}, // 0%
	}
	summary := newTestEvaluator(t).Aggregate(tenders)

	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 600.0, summary.TotalFlaggedValue)
	assert.InDelta(t, 400.0/3, summary.AverageVariance, 1e-9)
	assert.Equal(t, "+133.3%", summary.AverageVarianceDisplay)
}

func TestRank_DescendingAndStable(t *testing.T) {
	tenders := []view.Tender{
		{Id: "low", Value: 160, BenchmarkValue: 100},
		{Id: "tie1", Value: 300, BenchmarkValue: 100},
		{Id: "ok", Value: 100, BenchmarkValue: 100},
		{Id: "high", Value: 900, BenchmarkValue: 100},
		{Id: "tie2", Value: 600, BenchmarkValue: 200},
		{Id: "critical", Value: 50, BenchmarkValue: 100, IsCritical: true},
	}
	ranked := newTestEvaluator(t).Rank(tenders)

	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.Id)
	}
	assert.Equal(t, []string{"high", "tie1", "tie2", "low", "critical"}, ids)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, Ratio(ranked[i-1]), Ratio(ranked[i]))
	}
}

func TestRow(t *testing.T) {
	row := newTestEvaluator(t).Row(view.Tender{
		Id: "t1", Title: "Dam", Value: 12_340_000, BenchmarkValue: 8_000_000, County: "Nakuru", Category: "Water",
	})

	assert.Equal(t, view.TenderStatusAwarded, row.Status)
	assert.Equal(t, 10, row.Progress)
	assert.Equal(t, "12.3M", row.ValueDisplay)
	assert.Equal(t, "KES", row.Currency)
	assert.Equal(t, "+54%", row.VarianceDisplay)
	assert.True(t, row.HighVariance)
	assert.True(t, row.Anomalous)
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 100, Progress("Completed"))
	assert.Equal(t, 30, Progress("stalled"))
	assert.Equal(t, 60, Progress("In Progress"))
	assert.Equal(t, 60, Progress("in_progress"))
	assert.Equal(t, 10, Progress(""))
	assert.Equal(t, 10, Progress(view.TenderStatusAwarded))
	assert.Equal(t, 50, Progress("Tendering"))
}

func TestCountyBreakdown(t *testing.T) {
	tenders := []view.Tender{
		{County: "Kisumu", Value: 100, BenchmarkValue: 100},
		{County: "Nairobi", Value: 500, BenchmarkValue: 100},
		{County: "Kisumu", Value: 50, BenchmarkValue: 100},
		{County: "", Value: 10, BenchmarkValue: 10},
	}
	breakdown := newTestEvaluator(t).CountyBreakdown(tenders)

	require.Len(t, breakdown, 3)
	assert.Equal(t, view.CountyBreakdown{Name: "Nairobi", TenderCount: 1, TotalValue: 500, Flagged: 1}, breakdown[0])
	assert.Equal(t, view.CountyBreakdown{Name: "Kisumu", TenderCount: 2, TotalValue: 150, Flagged: 0}, breakdown[1])
	assert.Equal(t, view.UnknownCounty, breakdown[2].Name)
}

func TestRatio_TinyBenchmarkIsCapped(t *testing.T) {
	huge := view.Tender{Id: "t1", Value: 1e308, BenchmarkValue: 1e-10}

	assert.Equal(t, MaxRatio, Ratio(huge))
	assert.False(t, math.IsInf(VariancePercent(huge), 0))
	assert.True(t, newTestEvaluator(t).Classify(huge))
}

func TestRatio_NonFiniteValueCountsAsZero(t *testing.T) {
	for _, value := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		tender := view.Tender{Value: value, BenchmarkValue: 100}
		assert.Equal(t, 0.0, Ratio(tender))
		assert.Equal(t, 0.0, VariancePercent(tender))
	}
}

func TestExtremeTendersStillEncode(t *testing.T) {
	e := newTestEvaluator(t)
	tenders := []view.Tender{
		{Id: "t1", County: "Mombasa", Value: 1e308, BenchmarkValue: 1e-10},
		{Id: "t2", County: "Mombasa", Value: math.MaxFloat64, BenchmarkValue: 1},
		{Id: "t3", County: "Mombasa", Value: math.Inf(1), BenchmarkValue: 100},
	}

	_, err := json.Marshal(struct {
		Summary  view.AnomalySummary
		Rows     []view.TenderRow
		Counties []view.CountyBreakdown
	}{e.Aggregate(tenders), e.Rows(tenders), e.CountyBreakdown(tenders)})

	require.NoError(t, err)
	assert.Equal(t, math.MaxFloat64, e.Aggregate(tenders).TotalFlaggedValue)
}
