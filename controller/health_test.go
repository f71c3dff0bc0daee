package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	readyChan := make(chan bool)
	health := NewHealthController(readyChan)

	rec := httptest.NewRecorder()
	health.HandleLiveRequest(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	health.HandleReadyRequest(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	readyChan <- true
	close(readyChan)

	assert.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		health.HandleReadyRequest(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		return rec.Code == http.StatusOK
	}, time.Second, 10*time.Millisecond)
}
