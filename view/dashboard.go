package view

type SectionError struct {
	Section string `json:"section"`
	Message string `json:"message"`
}

type DashboardView struct {
	ActiveTenders       int             `json:"activeTenders"`
	Anomalies           AnomalySummary  `json:"anomalies"`
	HighRiskContractors []ContractorRow `json:"highRiskContractors"`
	RecentPosts         []Post          `json:"recentPosts"`
	Counties            int             `json:"counties"`
	Errors              []SectionError  `json:"errors,omitempty"`
}
