package view

type TenderStatus string

const (
	TenderStatusAwarded   TenderStatus = "Awarded"
	TenderStatusCompleted TenderStatus = "Completed"
	TenderStatusStalled   TenderStatus = "Stalled"
)

const UntitledProject = "Untitled Project"
const UnknownCounty = "Unknown"
const GeneralCategory = "General"

// Tender is the canonical procurement record. Wire aliases are resolved once in the normalizer.
type Tender struct {
	Id             string       `json:"id"`
	Title          string       `json:"title"`
	Value          float64      `json:"value"`
	BenchmarkValue float64      `json:"benchmarkValue"`
	County         string       `json:"county"`
	Category       string       `json:"category"`
	Status         TenderStatus `json:"status,omitempty"`
	ContractorId   string       `json:"contractorId,omitempty"`
	IsCritical     bool         `json:"isCritical"`
	RiskFlag       string       `json:"riskFlag,omitempty"`
	RiskFlags      []string     `json:"riskFlags,omitempty"`
}

type TenderRow struct {
	Id              string       `json:"id"`
	Title           string       `json:"title"`
	County          string       `json:"county"`
	Category        string       `json:"category"`
	Status          TenderStatus `json:"status"`
	RiskFlag        string       `json:"riskFlag,omitempty"`
	Progress        int          `json:"progress"`
	Anomalous       bool         `json:"anomalous"`
	Ratio           float64      `json:"ratio"`
	Variance        float64      `json:"variance"`
	VarianceDisplay string       `json:"varianceDisplay"`
	HighVariance    bool         `json:"highVariance"`
	Value           float64      `json:"value"`
	ValueDisplay    string       `json:"valueDisplay"`
	Currency        string       `json:"currency"`
}

type AnomalySummary struct {
	Count                  int     `json:"count"`
	TotalFlaggedValue      float64 `json:"totalFlaggedValue"`
	AverageVariance        float64 `json:"averageVariance"`
	AverageVarianceDisplay string  `json:"averageVarianceDisplay"`
}

type TendersView struct {
	County    string         `json:"county,omitempty"`
	Total     int            `json:"total"`
	Threshold float64        `json:"threshold"`
	Summary   AnomalySummary `json:"summary"`
	Tenders   []TenderRow    `json:"tenders"`
	Error     string         `json:"error,omitempty"`
}

type RankedAnomaliesView struct {
	Threshold float64     `json:"threshold"`
	Anomalies []TenderRow `json:"anomalies"`
	Error     string      `json:"error,omitempty"`
}

type CountyBreakdown struct {
	Name        string  `json:"name"`
	TenderCount int     `json:"tenderCount"`
	TotalValue  float64 `json:"totalValue"`
	Flagged     int     `json:"flagged"`
}

type CountiesView struct {
	Counties []CountyBreakdown `json:"counties"`
	Error    string            `json:"error,omitempty"`
}
