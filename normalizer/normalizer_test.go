package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/transparentprocure/oversight-service/exception"
	"github.com/transparentprocure/oversight-service/view"
)

const tenderRecords = `[
	{"id":"t1","title":"Kisumu Ring Road","value":300000000,"benchmark_value":100000000,"county":"Kisumu","risk_flag":"Price Anomaly + Citizen Flag","is_critical":true},
	{"id":"t2","name":"Borehole","value":"12000","benchmarkValue":"10000"}
]`

func TestUnwrap_Shapes(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		entity string
		ids    []string
	}{
		{name: "flat array", body: `[{"id":"1"},{"id":"2"}]`, entity: "tenders", ids: []string{"1", "2"}},
		{name: "envelope", body: `{"success":true,"statusCode":200,"message":"ok","data":[{"id":"1"}],"timestamp":"2024-01-01T00:00:00Z"}`, entity: "tenders", ids: []string{"1"}},
		{name: "paginated envelope", body: `{"success":true,"data":{"alerts":[{"id":"a"},{"id":"b"}],"pagination":{"page":1,"total":2}}}`, entity: "alerts", ids: []string{"a", "b"}},
		{name: "empty array", body: `[]`, entity: "posts", ids: []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := Unwrap([]byte(tc.body), tc.entity)
			require.NoError(t, err)
			ids := make([]string, 0, len(records))
			for _, r := range records {
				ids = append(ids, r.Get("id").String())
			}
			assert.Equal(t, tc.ids, ids)
		})
	}
}

func TestUnwrap_Malformed(t *testing.T) {
	bodies := map[string]string{
		"not json":          `<html>bad gateway</html>`,
		"scalar":            `"oops"`,
		"no data":           `{"success":false,"message":"boom"}`,
		"null data":         `{"data":null}`,
		"wrong nested name": `{"data":{"items":[{"id":"1"}]}}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			records, err := Unwrap([]byte(body), "alerts")
			require.Error(t, err)
			assert.NotNil(t, records)
			assert.Empty(t, records)
			assert.True(t, exception.HasCode(err, exception.MalformedResponse))
			assert.Contains(t, err.Error(), "alerts")
		})
	}
}

func TestUnwrap_SameRecordsRegardlessOfShape(t *testing.T) {
	flat := []byte(tenderRecords)
	envelope := []byte(`{"success":true,"data":` + tenderRecords + `}`)
	nested := []byte(`{"success":true,"data":{"tenders":` + tenderRecords + `,"pagination":{"page":1}}}`)

	var decoded [][]view.Tender
	for _, body := range [][]byte{flat, envelope, nested} {
		records, err := Unwrap(body, "tenders")
		require.NoError(t, err)
		decoded = append(decoded, DecodeTenders(records))
	}
	assert.Equal(t, decoded[0], decoded[1])
	assert.Equal(t, decoded[0], decoded[2])
	assert.Len(t, decoded[0], 2)
}

func TestCoerceField(t *testing.T) {
	record := gjson.Parse(`{"title":"  ","name":"Bridge","id":42,"flag":null}`)

	assert.Equal(t, "Bridge", CoerceField(record, []string{"title", "name"}, "x"))
	assert.Equal(t, "42", CoerceField(record, []string{"id"}, ""))
	assert.Equal(t, "fallback", CoerceField(record, []string{"flag", "missing"}, "fallback"))
	assert.Equal(t, "", CoerceField(record, nil, ""))
}

func TestDecodeTender_Defaults(t *testing.T) {
	tender := DecodeTender(gjson.Parse(`{"id":"t9","value":"n/a","benchmark_value":0}`))

	assert.Equal(t, "t9", tender.Id)
	assert.Equal(t, view.UntitledProject, tender.Title)
	assert.Equal(t, 0.0, tender.Value)
	assert.Equal(t, 1.0, tender.BenchmarkValue)
	assert.Equal(t, view.UnknownCounty, tender.County)
	assert.Equal(t, view.GeneralCategory, tender.Category)
	assert.False(t, tender.IsCritical)
	assert.Empty(t, tender.RiskFlags)
}

func TestDecodeTender_Aliases(t *testing.T) {
	records, err := Unwrap([]byte(tenderRecords), "tenders")
	require.NoError(t, err)
	tenders := DecodeTenders(records)

	first := tenders[0]
	assert.Equal(t, "Kisumu Ring Road", first.Title)
	assert.Equal(t, 300000000.0, first.Value)
	assert.Equal(t, 100000000.0, first.BenchmarkValue)
	assert.True(t, first.IsCritical)
	assert.Equal(t, "Price Anomaly + Citizen Flag", first.RiskFlag)
	assert.Equal(t, []string{"Price Anomaly", "Citizen Flag"}, first.RiskFlags)

	second := tenders[1]
	assert.Equal(t, "Borehole", second.Title)
	assert.Equal(t, 12000.0, second.Value)
	assert.Equal(t, 10000.0, second.BenchmarkValue)

	third := DecodeTender(gjson.Parse(`{"project_name":"Market Shed","contractorId":"c7"}`))
	assert.Equal(t, "Market Shed", third.Title)
	assert.Equal(t, "c7", third.ContractorId)
}

func TestDecodeTender_NonFiniteNumbersAreAbsent(t *testing.T) {
	cases := []struct {
		name   string
		record string
	}{
		{"infinity string", `{"value":"Infinity","benchmark_value":"-Inf"}`},
		{"overflowing literal", `{"value":1e400,"benchmark_value":-1e400}`},
		{"nan string", `{"value":"NaN","benchmark_value":"nan"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tender := DecodeTender(gjson.Parse(tc.record))
			assert.Equal(t, 0.0, tender.Value)
			assert.Equal(t, 1.0, tender.BenchmarkValue)
		})
	}

	score := DecodeContractor(gjson.Parse(`{"id":"c9","trust_score":"Infinity"}`))
	assert.Equal(t, 0.0, score.TrustScore)
	assert.True(t, score.ScoreMissing)
}

func TestDecodeContractor(t *testing.T) {
	c := DecodeContractor(gjson.Parse(`{"id":"c1","name":"Apex","kra_pin":"P051","trust_score":"45","risk_flags":["late delivery"]}`))
	assert.Equal(t, 45.0, c.TrustScore)
	assert.Equal(t, "P051", c.KraPin)
	assert.Equal(t, []string{"late delivery"}, c.RiskFlags)
	assert.False(t, c.Blacklisted)

	registry := DecodeContractor(gjson.Parse(`{"id":"c2","complianceScore":130,"status":"Blacklisted"}`))
	assert.Equal(t, 100.0, registry.TrustScore)
	assert.Equal(t, view.ContractorBlacklisted, registry.Status)
	assert.True(t, registry.Blacklisted)

	missing := DecodeContractor(gjson.Parse(`{"id":"c3"}`))
	assert.Equal(t, 0.0, missing.TrustScore)
	assert.True(t, missing.ScoreMissing)
	assert.False(t, c.ScoreMissing)

	negative := DecodeContractor(gjson.Parse(`{"id":"c4","trustScore":-5}`))
	assert.Equal(t, 0.0, negative.TrustScore)
}

func TestDecodePost(t *testing.T) {
	p := DecodePost(gjson.Parse(`{"id":"p1","title":"Clinic","content":"Roof done","ward_id":"w3","status":"delay_reported","timestamp":"2024-03-05T10:00:00Z","likes":4,"comments":[{"id":1},{"id":2}]}`))

	assert.Equal(t, "w3", p.WardId)
	assert.Equal(t, view.PostDelayReported, p.Status)
	require.NotNil(t, p.Timestamp)
	assert.Equal(t, 2024, p.Timestamp.Year())
	assert.Equal(t, 4, p.Likes)
	assert.Equal(t, 2, p.Comments)

	noTime := DecodePost(gjson.Parse(`{"id":"p2","timestamp":"yesterday"}`))
	assert.Nil(t, noTime.Timestamp)
}

func TestDecodeFraudAlertAndAudit(t *testing.T) {
	alert := DecodeFraudAlert(gjson.Parse(`{"id":"f1","title":"Split tender","severity":"HIGH","affectedTenders":["t1","t2"]}`))
	assert.Equal(t, view.SeverityHigh, alert.Severity)
	assert.Equal(t, view.AlertOpen, alert.Status)
	assert.Equal(t, []string{"t1", "t2"}, alert.AffectedTenders)

	single := DecodeAudit(gjson.Parse(`{"id":"a1","status":"in_progress","assignedTo":"Auditor General"}`))
	assert.Equal(t, view.AuditInProgress, single.Status)
	assert.Equal(t, []string{"Auditor General"}, single.AssignedTo)
	assert.NotNil(t, single.Findings)
	assert.Empty(t, single.Findings)

	many := DecodeAudit(gjson.Parse(`{"id":"a2","findings":["overpricing","ghost workers"],"assignedTo":["A","B"]}`))
	assert.Equal(t, view.AuditPending, many.Status)
	assert.Len(t, many.Findings, 2)
	assert.Equal(t, []string{"A", "B"}, many.AssignedTo)
}
