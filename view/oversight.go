package view

import "time"

type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

type AlertStatus string

const (
	AlertOpen          AlertStatus = "open"
	AlertInvestigating AlertStatus = "investigating"
	AlertResolved      AlertStatus = "resolved"
)

type FraudAlert struct {
	Id              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description,omitempty"`
	Severity        AlertSeverity `json:"severity"`
	Status          AlertStatus   `json:"status"`
	AffectedTenders []string      `json:"affectedTenders,omitempty"`
	DetectedAt      *time.Time    `json:"detectedAt,omitempty"`
	AssignedTo      string        `json:"assignedTo,omitempty"`
}

type FraudAlertsView struct {
	Total         int          `json:"total"`
	Open          int          `json:"open"`
	Investigating int          `json:"investigating"`
	Resolved      int          `json:"resolved"`
	Alerts        []FraudAlert `json:"alerts"`
	Error         string       `json:"error,omitempty"`
}

type AuditStatus string

const (
	AuditPending    AuditStatus = "pending"
	AuditInProgress AuditStatus = "in_progress"
	AuditCompleted  AuditStatus = "completed"
)

type Audit struct {
	Id              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	Type            string      `json:"type,omitempty"`
	Status          AuditStatus `json:"status"`
	Findings        []string    `json:"findings"`
	Recommendations []string    `json:"recommendations,omitempty"`
	AssignedTo      []string    `json:"assignedTo,omitempty"`
}

type AuditsView struct {
	Total         int     `json:"total"`
	InProgress    int     `json:"inProgress"`
	Completed     int     `json:"completed"`
	TotalFindings int     `json:"totalFindings"`
	Audits        []Audit `json:"audits"`
	Error         string  `json:"error,omitempty"`
}
