package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemInfoDefaults(t *testing.T) {
	for _, name := range []string{LISTEN_ADDRESS, PROCUREMENT_API_URL, PROCUREMENT_API_TIMEOUT, VARIANCE_THRESHOLD,
		ANOMALY_FLAG_PATTERN, HIGH_RISK_LIMIT, SESSION_TTL, SESSION_CACHE_SIZE} {
		t.Setenv(name, "")
	}

	s, err := NewSystemInfoService()

	require.NoError(t, err)
	assert.Equal(t, ":8080", s.GetListenAddress())
	assert.Equal(t, "http://localhost:3001/api", s.GetProcurementApiUrl())
	assert.Equal(t, 10*time.Second, s.GetProcurementApiTimeout())
	assert.Equal(t, 1.5, s.GetVarianceThreshold())
	assert.Equal(t, `(?i)anomal`, s.GetAnomalyFlagPattern())
	assert.Equal(t, 3, s.GetHighRiskLimit())
	assert.Equal(t, time.Hour, s.GetSessionTTL())
	assert.Equal(t, 1000, s.GetSessionCacheSize())
}

func TestSystemInfoOverrides(t *testing.T) {
	t.Setenv(VARIANCE_THRESHOLD, "2")
	t.Setenv(PROCUREMENT_API_TIMEOUT, "3s")
	t.Setenv(HIGH_RISK_LIMIT, "5")

	s, err := NewSystemInfoService()

	require.NoError(t, err)
	assert.Equal(t, 2.0, s.GetVarianceThreshold())
	assert.Equal(t, 3*time.Second, s.GetProcurementApiTimeout())
	assert.Equal(t, 5, s.GetHighRiskLimit())
}

func TestSystemInfoRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		VARIANCE_THRESHOLD:      "-1",
		PROCUREMENT_API_TIMEOUT: "soon",
		HIGH_RISK_LIMIT:         "zero",
		ANOMALY_FLAG_PATTERN:    "([",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)
			_, err := NewSystemInfoService()
			assert.Error(t, err)
		})
	}
}
