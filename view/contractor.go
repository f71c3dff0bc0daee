package view

type ContractorStatus string

const (
	ContractorActive      ContractorStatus = "active"
	ContractorFlagged     ContractorStatus = "flagged"
	ContractorUnderReview ContractorStatus = "under_review"
	ContractorBlacklisted ContractorStatus = "blacklisted"
)

type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High (Blacklist Warning)"
)

type Contractor struct {
	Id              string           `json:"id"`
	Name            string           `json:"name"`
	KraPin          string           `json:"kraPin,omitempty"`
	TrustScore      float64          `json:"trustScore"`
	RiskFlags       []string         `json:"riskFlags,omitempty"`
	Status          ContractorStatus `json:"status,omitempty"`
	Category        string           `json:"category,omitempty"`
	Region          string           `json:"region,omitempty"`
	Blacklisted     bool             `json:"blacklisted"`
	BlacklistReason string           `json:"blacklistReason,omitempty"`
	// ScoreMissing marks a record the backend sent without any trust score.
	ScoreMissing    bool             `json:"-"`
}

type ContractorRow struct {
	Contractor
	RiskLevel         RiskLevel `json:"riskLevel"`
	BelowWarningScore bool      `json:"belowWarningScore"`
}

type ContractorsView struct {
	Source      string          `json:"source"`
	Total       int             `json:"total"`
	Contractors []ContractorRow `json:"contractors"`
	Error       string          `json:"error,omitempty"`
}

type HighRiskView struct {
	Limit       int             `json:"limit"`
	Contractors []ContractorRow `json:"contractors"`
	Error       string          `json:"error,omitempty"`
}

type BlacklistReportView struct {
	Total       int             `json:"total"`
	Contractors []ContractorRow `json:"contractors"`
	Error       string          `json:"error,omitempty"`
}
