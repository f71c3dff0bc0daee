package normalizer

import (
	"math"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/transparentprocure/oversight-service/view"
)

// Wire aliases per canonical field, in precedence order.
var (
	tenderTitleKeys     = []string{"title", "name", "project_name"}
	tenderBenchmarkKeys = []string{"benchmark_value", "benchmarkValue"}
	contractorScoreKeys = []string{"trust_score", "trustScore", "complianceScore", "compliance_score", "reputation_score"}
	postWardKeys        = []string{"wardId", "ward_id", "ward"}
)

const riskFlagSeparator = " + "

func DecodeTender(record gjson.Result) view.Tender {
	value, _ := coerceNumber(record, "value")
	benchmark, ok := coerceNumber(record, tenderBenchmarkKeys...)
	if !ok || benchmark == 0 {
		benchmark = 1
	}

	riskFlag := CoerceField(record, []string{"risk_flag", "riskFlag"}, "")
	var riskFlags []string
	if riskFlag != "" {
		for _, flag := range strings.Split(riskFlag, riskFlagSeparator) {
			if flag = strings.TrimSpace(flag); flag != "" {
				riskFlags = append(riskFlags, flag)
			}
		}
	}

	return view.Tender{
		Id:             CoerceField(record, []string{"id"}, ""),
		Title:          CoerceField(record, tenderTitleKeys, view.UntitledProject),
		Value:          value,
		BenchmarkValue: benchmark,
		County:         CoerceField(record, []string{"county"}, view.UnknownCounty),
		Category:       CoerceField(record, []string{"category"}, view.GeneralCategory),
		Status:         view.TenderStatus(CoerceField(record, []string{"status"}, "")),
		ContractorId:   CoerceField(record, []string{"contractor_id", "contractorId"}, ""),
		IsCritical:     coerceBool(record, "is_critical", "isCritical"),
		RiskFlag:       riskFlag,
		RiskFlags:      riskFlags,
	}
}

func DecodeContractor(record gjson.Result) view.Contractor {
	id := CoerceField(record, []string{"id"}, "")
	score, reported := coerceNumber(record, contractorScoreKeys...)
	if score < 0 || score > 100 {
		log.Warnf("Contractor %s has trust score %v outside of [0,100], clamping", id, score)
		score = math.Max(0, math.Min(100, score))
	}

	status := view.ContractorStatus(strings.ToLower(CoerceField(record, []string{"status"}, "")))
	blacklisted := coerceBool(record, "blacklisted") || status == view.ContractorBlacklisted

	return view.Contractor{
		Id:              id,
		Name:            CoerceField(record, []string{"name", "company_name"}, ""),
		KraPin:          CoerceField(record, []string{"kraPin", "kra_pin"}, ""),
		TrustScore:      score,
		ScoreMissing:    !reported,
		RiskFlags:       coerceStrings(record, "riskFlags", "risk_flags"),
		Status:          status,
		Category:        CoerceField(record, []string{"category"}, ""),
		Region:          CoerceField(record, []string{"region", "county"}, ""),
		Blacklisted:     blacklisted,
		BlacklistReason: CoerceField(record, []string{"blacklistReason", "blacklist_reason"}, ""),
	}
}

func DecodePost(record gjson.Result) view.Post {
	return view.Post{
		Id:          CoerceField(record, []string{"id"}, ""),
		Title:       CoerceField(record, []string{"title"}, ""),
		Content:     CoerceField(record, []string{"content", "description"}, ""),
		WardId:      CoerceField(record, postWardKeys, ""),
		County:      CoerceField(record, []string{"county"}, ""),
		Category:    CoerceField(record, []string{"category"}, ""),
		ReferenceId: CoerceField(record, []string{"referenceId", "reference_id"}, ""),
		Status:      view.PostStatus(CoerceField(record, []string{"status"}, "")),
		Timestamp:   coerceTime(record, "timestamp", "createdAt", "created_at"),
		Author:      CoerceField(record, []string{"author", "authorName"}, ""),
		Likes:       coerceInt(record, "likes"),
		Comments:    coerceInt(record, "comments", "commentsCount"),
	}
}

func DecodeFraudAlert(record gjson.Result) view.FraudAlert {
	return view.FraudAlert{
		Id:              CoerceField(record, []string{"id"}, ""),
		Title:           CoerceField(record, []string{"title"}, ""),
		Description:     CoerceField(record, []string{"description"}, ""),
		Severity:        view.AlertSeverity(strings.ToLower(CoerceField(record, []string{"severity"}, string(view.SeverityLow)))),
		Status:          view.AlertStatus(strings.ToLower(CoerceField(record, []string{"status"}, string(view.AlertOpen)))),
		AffectedTenders: coerceStrings(record, "affectedTenders", "affected_tenders"),
		DetectedAt:      coerceTime(record, "detectedAt", "detected_at"),
		AssignedTo:      CoerceField(record, []string{"assignedTo", "assigned_to"}, ""),
	}
}

func DecodeAudit(record gjson.Result) view.Audit {
	findings := coerceStrings(record, "findings")
	if findings == nil {
		findings = []string{}
	}
	return view.Audit{
		Id:              CoerceField(record, []string{"id"}, ""),
		Title:           CoerceField(record, []string{"title"}, ""),
		Description:     CoerceField(record, []string{"description"}, ""),
		Type:            CoerceField(record, []string{"type"}, ""),
		Status:          view.AuditStatus(strings.ToLower(CoerceField(record, []string{"status"}, string(view.AuditPending)))),
		Findings:        findings,
		Recommendations: coerceStrings(record, "recommendations"),
		AssignedTo:      coerceStrings(record, "assignedTo", "assigned_to"),
	}
}

func DecodeTenders(records []gjson.Result) []view.Tender {
	result := make([]view.Tender, 0, len(records))
	for _, record := range records {
		result = append(result, DecodeTender(record))
	}
	return result
}

func DecodeContractors(records []gjson.Result) []view.Contractor {
	result := make([]view.Contractor, 0, len(records))
	for _, record := range records {
		result = append(result, DecodeContractor(record))
	}
	return result
}

func DecodePosts(records []gjson.Result) []view.Post {
	result := make([]view.Post, 0, len(records))
	for _, record := range records {
		result = append(result, DecodePost(record))
	}
	return result
}

func DecodeFraudAlerts(records []gjson.Result) []view.FraudAlert {
	result := make([]view.FraudAlert, 0, len(records))
	for _, record := range records {
		result = append(result, DecodeFraudAlert(record))
	}
	return result
}

func DecodeAudits(records []gjson.Result) []view.Audit {
	result := make([]view.Audit, 0, len(records))
	for _, record := range records {
		result = append(result, DecodeAudit(record))
	}
	return result
}

func coerceTime(record gjson.Result, candidateKeys ...string) *time.Time {
	raw := CoerceField(record, candidateKeys, "")
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	log.Debugf("Unparseable timestamp %q, ignoring", raw)
	return nil
}
