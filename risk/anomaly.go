// Package risk holds the tender anomaly evaluation and the contractor risk ranking.
// Everything here is a pure function over canonical view records.
package risk

import (
	"cmp"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/transparentprocure/oversight-service/view"
)

// DefaultThreshold is the value/benchmark ratio above which a tender is anomalous.
const DefaultThreshold = 1.5

// DefaultAnomalyPattern matches server-asserted risk flags that mark a price anomaly.
const DefaultAnomalyPattern = `(?i)anomal`

// MaxRatio caps Ratio so a vanishing benchmark still yields a finite, JSON-encodable row.
const MaxRatio = 1e6

const (
	highVariancePercent = 50
	currency            = "KES"
)

// Evaluator classifies tenders against a fixed threshold and anomaly flag pattern.
type Evaluator interface {
	Threshold() float64
	Classify(tender view.Tender) bool
	Aggregate(tenders []view.Tender) view.AnomalySummary
	Rank(tenders []view.Tender) []view.Tender
	Row(tender view.Tender) view.TenderRow
	Rows(tenders []view.Tender) []view.TenderRow
	CountyBreakdown(tenders []view.Tender) []view.CountyBreakdown
}

// NewEvaluator compiles anomalyPattern once. A non-positive threshold falls back to DefaultThreshold.
func NewEvaluator(threshold float64, anomalyPattern string) (Evaluator, error) {
	if threshold <= 0 || math.IsNaN(threshold) {
		threshold = DefaultThreshold
	}
	if anomalyPattern == "" {
		anomalyPattern = DefaultAnomalyPattern
	}
	pattern, err := regexp.Compile(anomalyPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid anomaly flag pattern %q: %w", anomalyPattern, err)
	}
	return &evaluatorImpl{threshold: threshold, anomalyPattern: pattern}, nil
}

type evaluatorImpl struct {
	threshold      float64
	anomalyPattern *regexp.Regexp
}

func (e evaluatorImpl) Threshold() float64 {
	return e.threshold
}

// Classify is strict: a ratio equal to the threshold is not anomalous on its own.
func (e evaluatorImpl) Classify(tender view.Tender) bool {
	if tender.IsCritical {
		return true
	}
	if tender.RiskFlag != "" && e.anomalyPattern.MatchString(tender.RiskFlag) {
		return true
	}
	for _, flag := range tender.RiskFlags {
		if e.anomalyPattern.MatchString(flag) {
			return true
		}
	}
	return Ratio(tender) > e.threshold
}

func (e evaluatorImpl) Aggregate(tenders []view.Tender) view.AnomalySummary {
	summary := view.AnomalySummary{}
	varianceSum := 0.0
	for _, tender := range tenders {
		if !e.Classify(tender) {
			continue
		}
		summary.Count++
		summary.TotalFlaggedValue = saturatingAdd(summary.TotalFlaggedValue, finiteValue(tender))
		varianceSum = saturatingAdd(varianceSum, VariancePercent(tender))
	}
	if summary.Count > 0 {
		summary.AverageVariance = varianceSum / float64(summary.Count)
	}
	summary.AverageVarianceDisplay = formatSigned(summary.AverageVariance, 1)
	return summary
}

func (e evaluatorImpl) Rank(tenders []view.Tender) []view.Tender {
	anomalous := make([]view.Tender, 0)
	for _, tender := range tenders {
		if e.Classify(tender) {
			anomalous = append(anomalous, tender)
		}
	}
	slices.SortStableFunc(anomalous, func(a, b view.Tender) int {
		return cmp.Compare(Ratio(b), Ratio(a))
	})
	return anomalous
}

func (e evaluatorImpl) Row(tender view.Tender) view.TenderRow {
	status := tender.Status
	if status == "" {
		status = view.TenderStatusAwarded
	}
	variance := VariancePercent(tender)
	value := finiteValue(tender)
	return view.TenderRow{
		Id:              tender.Id,
		Title:           tender.Title,
		County:          tender.County,
		Category:        tender.Category,
		Status:          status,
		RiskFlag:        tender.RiskFlag,
		Progress:        Progress(status),
		Anomalous:       e.Classify(tender),
		Ratio:           Ratio(tender),
		Variance:        variance,
		VarianceDisplay: FormatVariance(variance),
		HighVariance:    variance > highVariancePercent,
		Value:           value,
		ValueDisplay:    fmt.Sprintf("%.1fM", value/1e6),
		Currency:        currency,
	}
}

func (e evaluatorImpl) Rows(tenders []view.Tender) []view.TenderRow {
	rows := make([]view.TenderRow, 0, len(tenders))
	for _, tender := range tenders {
		rows = append(rows, e.Row(tender))
	}
	return rows
}

// CountyBreakdown groups tenders per county, largest total value first.
func (e evaluatorImpl) CountyBreakdown(tenders []view.Tender) []view.CountyBreakdown {
	index := make(map[string]int)
	result := make([]view.CountyBreakdown, 0)
	for _, tender := range tenders {
		county := tender.County
		if county == "" {
			county = view.UnknownCounty
		}
		i, exists := index[county]
		if !exists {
			i = len(result)
			index[county] = i
			result = append(result, view.CountyBreakdown{Name: county})
		}
		result[i].TenderCount++
		result[i].TotalValue = saturatingAdd(result[i].TotalValue, finiteValue(tender))
		if e.Classify(tender) {
			result[i].Flagged++
		}
	}
	slices.SortStableFunc(result, func(a, b view.CountyBreakdown) int {
		return cmp.Compare(b.TotalValue, a.TotalValue)
	})
	return result
}

func finiteValue(tender view.Tender) float64 {
	if math.IsNaN(tender.Value) || math.IsInf(tender.Value, 0) {
		return 0
	}
	return tender.Value
}

func benchmark(tender view.Tender) float64 {
	if tender.BenchmarkValue == 0 || math.IsNaN(tender.BenchmarkValue) || math.IsInf(tender.BenchmarkValue, 0) {
		return 1
	}
	return tender.BenchmarkValue
}

// Ratio is value over benchmark, clamped to [-MaxRatio, MaxRatio]. A non-finite value counts as 0.
func Ratio(tender view.Tender) float64 {
	ratio := finiteValue(tender) / benchmark(tender)
	if math.IsNaN(ratio) {
		return 0
	}
	return math.Max(-MaxRatio, math.Min(MaxRatio, ratio))
}

// VariancePercent is defined only for a positive value, otherwise it is 0.
func VariancePercent(tender view.Tender) float64 {
	if finiteValue(tender) <= 0 {
		return 0
	}
	return (Ratio(tender) - 1) * 100
}

// FormatVariance renders "+50%", "-12%" or "0%".
func FormatVariance(variance float64) string {
	return formatSigned(variance, 0)
}

func formatSigned(v float64, decimals int) string {
	sign := ""
	if v > 0 {
		sign = "+"
	} else if v < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%.*f%%", sign, decimals, roundTo(math.Abs(v), decimals))
}

// saturatingAdd keeps sums finite: an overflow sticks at the largest float of the same sign.
func saturatingAdd(a, b float64) float64 {
	sum := a + b
	if math.IsInf(sum, 1) {
		return math.MaxFloat64
	}
	if math.IsInf(sum, -1) {
		return -math.MaxFloat64
	}
	return sum
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Progress maps a tender status to the completion percentage shown on the audit page.
func Progress(status view.TenderStatus) int {
	switch strings.ToLower(strings.TrimSpace(string(status))) {
	case "completed":
		return 100
	case "stalled":
		return 30
	case "ongoing", "in progress", "in_progress", "active":
		return 60
	case "", "awarded":
		return 10
	default:
		return 50
	}
}
