// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/transparentprocure/oversight-service/risk"

	log "github.com/sirupsen/logrus"
)

const (
	LISTEN_ADDRESS          = "LISTEN_ADDRESS"
	ORIGIN_ALLOWED          = "ORIGIN_ALLOWED"
	LOG_LEVEL               = "LOG_LEVEL"
	PROCUREMENT_API_URL     = "PROCUREMENT_API_URL"
	PROCUREMENT_API_TOKEN   = "PROCUREMENT_API_TOKEN"
	PROCUREMENT_API_TIMEOUT = "PROCUREMENT_API_TIMEOUT"
	VARIANCE_THRESHOLD      = "VARIANCE_THRESHOLD"
	ANOMALY_FLAG_PATTERN    = "ANOMALY_FLAG_PATTERN"
	HIGH_RISK_LIMIT         = "HIGH_RISK_LIMIT"
	SESSION_TTL             = "SESSION_TTL"
	SESSION_CACHE_SIZE      = "SESSION_CACHE_SIZE"
	SYSTEM_API_KEY          = "SYSTEM_API_KEY"
)

const (
	defaultListenAddress  = ":8080"
	defaultProcurementUrl = "http://localhost:3001/api"
	defaultApiTimeout     = 10 * time.Second
	defaultSessionTTL     = 60 * time.Minute
	defaultSessionCache   = 1000
)

type SystemInfoService interface {
	Init() error
	GetListenAddress() string
	GetOriginAllowed() string
	GetLogLevel() string
	GetProcurementApiUrl() string
	GetProcurementApiToken() string
	GetProcurementApiTimeout() time.Duration
	GetVarianceThreshold() float64
	GetAnomalyFlagPattern() string
	GetHighRiskLimit() int
	GetSessionTTL() time.Duration
	GetSessionCacheSize() int
	GetSystemApiKey() string
}

func NewSystemInfoService() (SystemInfoService, error) {
	s := &systemInfoServiceImpl{
		systemInfoMap: make(map[string]interface{})}
	if err := s.Init(); err != nil {
		log.Error("Failed to read system info: " + err.Error())
		return nil, err
	}
	return s, nil
}

type systemInfoServiceImpl struct {
	systemInfoMap map[string]interface{}
}

func (g systemInfoServiceImpl) Init() error {
	g.setListenAddress()
	g.setOriginAllowed()
	g.setLogLevel()
	g.setProcurementApiUrl()
	g.setProcurementApiToken()
	g.setSystemApiKey()
	if err := g.setProcurementApiTimeout(); err != nil {
		return err
	}
	if err := g.setVarianceThreshold(); err != nil {
		return err
	}
	if err := g.setAnomalyFlagPattern(); err != nil {
		return err
	}
	if err := g.setHighRiskLimit(); err != nil {
		return err
	}
	if err := g.setSessionTTL(); err != nil {
		return err
	}
	if err := g.setSessionCacheSize(); err != nil {
		return err
	}
	return nil
}

func (g systemInfoServiceImpl) setListenAddress() {
	listenAddr := os.Getenv(LISTEN_ADDRESS)
	if listenAddr == "" {
		listenAddr = defaultListenAddress
	}
	g.systemInfoMap[LISTEN_ADDRESS] = listenAddr
}

func (g systemInfoServiceImpl) GetListenAddress() string {
	return g.systemInfoMap[LISTEN_ADDRESS].(string)
}

func (g systemInfoServiceImpl) setOriginAllowed() {
	g.systemInfoMap[ORIGIN_ALLOWED] = os.Getenv(ORIGIN_ALLOWED)
}

func (g systemInfoServiceImpl) GetOriginAllowed() string {
	return g.systemInfoMap[ORIGIN_ALLOWED].(string)
}

func (g systemInfoServiceImpl) setLogLevel() {
	g.systemInfoMap[LOG_LEVEL] = os.Getenv(LOG_LEVEL)
}

func (g systemInfoServiceImpl) GetLogLevel() string {
	return g.systemInfoMap[LOG_LEVEL].(string)
}

func (g systemInfoServiceImpl) setProcurementApiUrl() {
	apiUrl := os.Getenv(PROCUREMENT_API_URL)
	if apiUrl == "" {
		apiUrl = defaultProcurementUrl
	}
	g.systemInfoMap[PROCUREMENT_API_URL] = apiUrl
}

func (g systemInfoServiceImpl) GetProcurementApiUrl() string {
	return g.systemInfoMap[PROCUREMENT_API_URL].(string)
}

func (g systemInfoServiceImpl) setProcurementApiToken() {
	g.systemInfoMap[PROCUREMENT_API_TOKEN] = os.Getenv(PROCUREMENT_API_TOKEN)
}

func (g systemInfoServiceImpl) GetProcurementApiToken() string {
	return g.systemInfoMap[PROCUREMENT_API_TOKEN].(string)
}

func (g systemInfoServiceImpl) setProcurementApiTimeout() error {
	timeout, err := durationEnv(PROCUREMENT_API_TIMEOUT, defaultApiTimeout)
	if err != nil {
		return err
	}
	g.systemInfoMap[PROCUREMENT_API_TIMEOUT] = timeout
	return nil
}

func (g systemInfoServiceImpl) GetProcurementApiTimeout() time.Duration {
	return g.systemInfoMap[PROCUREMENT_API_TIMEOUT].(time.Duration)
}

func (g systemInfoServiceImpl) setVarianceThreshold() error {
	threshold := risk.DefaultThreshold
	if raw := os.Getenv(VARIANCE_THRESHOLD); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("%s must be a positive number, got '%s'", VARIANCE_THRESHOLD, raw)
		}
		threshold = parsed
	}
	g.systemInfoMap[VARIANCE_THRESHOLD] = threshold
	return nil
}

func (g systemInfoServiceImpl) GetVarianceThreshold() float64 {
	return g.systemInfoMap[VARIANCE_THRESHOLD].(float64)
}

func (g systemInfoServiceImpl) setAnomalyFlagPattern() error {
	pattern := os.Getenv(ANOMALY_FLAG_PATTERN)
	if pattern == "" {
		pattern = risk.DefaultAnomalyPattern
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("%s is not a valid regular expression: %w", ANOMALY_FLAG_PATTERN, err)
	}
	g.systemInfoMap[ANOMALY_FLAG_PATTERN] = pattern
	return nil
}

func (g systemInfoServiceImpl) GetAnomalyFlagPattern() string {
	return g.systemInfoMap[ANOMALY_FLAG_PATTERN].(string)
}

func (g systemInfoServiceImpl) setHighRiskLimit() error {
	limit, err := positiveIntEnv(HIGH_RISK_LIMIT, risk.DefaultHighRiskLimit)
	if err != nil {
		return err
	}
	g.systemInfoMap[HIGH_RISK_LIMIT] = limit
	return nil
}

func (g systemInfoServiceImpl) GetHighRiskLimit() int {
	return g.systemInfoMap[HIGH_RISK_LIMIT].(int)
}

func (g systemInfoServiceImpl) setSessionTTL() error {
	ttl, err := durationEnv(SESSION_TTL, defaultSessionTTL)
	if err != nil {
		return err
	}
	g.systemInfoMap[SESSION_TTL] = ttl
	return nil
}

func (g systemInfoServiceImpl) GetSessionTTL() time.Duration {
	return g.systemInfoMap[SESSION_TTL].(time.Duration)
}

func (g systemInfoServiceImpl) setSessionCacheSize() error {
	size, err := positiveIntEnv(SESSION_CACHE_SIZE, defaultSessionCache)
	if err != nil {
		return err
	}
	g.systemInfoMap[SESSION_CACHE_SIZE] = size
	return nil
}

func (g systemInfoServiceImpl) GetSessionCacheSize() int {
	return g.systemInfoMap[SESSION_CACHE_SIZE].(int)
}

func (g systemInfoServiceImpl) setSystemApiKey() {
	g.systemInfoMap[SYSTEM_API_KEY] = os.Getenv(SYSTEM_API_KEY)
}

func (g systemInfoServiceImpl) GetSystemApiKey() string {
	return g.systemInfoMap[SYSTEM_API_KEY].(string)
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration like 10s, got '%s'", name, raw)
	}
	return d, nil
}

func positiveIntEnv(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got '%s'", name, raw)
	}
	return n, nil
}
