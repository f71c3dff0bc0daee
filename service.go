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

package main

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/transparentprocure/oversight-service/client"
	"github.com/transparentprocure/oversight-service/controller"
	"github.com/transparentprocure/oversight-service/risk"
	"github.com/transparentprocure/oversight-service/security"
	"github.com/transparentprocure/oversight-service/service"
	"github.com/transparentprocure/oversight-service/utils"

	log "github.com/sirupsen/logrus"
)

func init() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	systemInfoService, err := service.NewSystemInfoService()
	if err != nil {
		panic(err)
	}
	if level, err := log.ParseLevel(systemInfoService.GetLogLevel()); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	readyChan := make(chan bool)
	healthController := controller.NewHealthController(readyChan)

	procurementClient := client.NewProcurementClient(systemInfoService.GetProcurementApiUrl(),
		systemInfoService.GetProcurementApiToken(), systemInfoService.GetProcurementApiTimeout())

	evaluator, err := risk.NewEvaluator(systemInfoService.GetVarianceThreshold(), systemInfoService.GetAnomalyFlagPattern())
	if err != nil {
		panic(err)
	}
	generations := utils.NewViewGenerations()

	sessionService := service.NewSessionService(procurementClient, systemInfoService.GetSessionTTL(), systemInfoService.GetSessionCacheSize())
	dashboardService := service.NewDashboardService(procurementClient, evaluator, systemInfoService.GetHighRiskLimit())
	tenderService := service.NewTenderService(procurementClient, evaluator)
	contractorService := service.NewContractorService(procurementClient, systemInfoService.GetHighRiskLimit())
	feedService := service.NewFeedService(procurementClient)
	oversightService := service.NewOversightService(procurementClient)

	if err := security.SetupGoGuardian(sessionService, systemInfoService.GetSystemApiKey()); err != nil {
		log.Fatalf("Failed to setup authentication: %v", err)
	}

	authController := controller.NewAuthController(sessionService)
	dashboardController := controller.NewDashboardController(dashboardService)
	tenderController := controller.NewTenderController(tenderService, generations)
	contractorController := controller.NewContractorController(contractorService)
	feedController := controller.NewFeedController(feedService, generations)
	oversightController := controller.NewOversightController(oversightService)
	schemaController := controller.NewSchemaController()

	r := mux.NewRouter().SkipClean(true).UseEncodedPath()
	r.HandleFunc("/api/v1/auth/login", security.NoSecure(authController.Login)).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/auth/logout", security.Secure(authController.Logout)).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/auth/me", security.Secure(authController.GetCurrentUser)).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/dashboard", security.Secure(dashboardController.GetDashboard)).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/tenders", security.Secure(tenderController.GetTenders)).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/tenders/anomalies", security.Secure(tenderController.GetAnomalies)).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/tenders/counties", security.Secure(tenderController.GetCounties)).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/contractors", security.Secure(contractorController.GetContractors)).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/contractors/high-risk", security.Secure(contractorController.GetHighRisk)).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/reports/blacklisted", security.Secure(contractorController.GetBlacklistReport)).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/feed", security.Secure(feedController.GetFeed)).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/feed/ward/{wardId}", security.Secure(feedController.GetWardFeed)).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/fraud/alerts", security.Secure(oversightController.GetFraudAlerts)).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/audits", security.Secure(oversightController.GetAudits)).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/schema", security.NoSecure(schemaController.ListSchemas)).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/schema/{entity}", security.NoSecure(schemaController.GetSchema)).Methods(http.MethodGet)

	r.HandleFunc("/live", healthController.HandleLiveRequest).Methods(http.MethodGet)
	r.HandleFunc("/ready", healthController.HandleReadyRequest).Methods(http.MethodGet)

	debug.SetGCPercent(30)

	srv := makeServer(systemInfoService, r)
	readyChan <- true
	close(readyChan)

	log.Fatalf("%v", srv.ListenAndServe())
}

func makeServer(systemInfoService service.SystemInfoService, r *mux.Router) *http.Server {
	listenAddr := systemInfoService.GetListenAddress()

	log.Infof("Listen addr = %s", listenAddr)

	var corsOptions []handlers.CORSOption

	corsOptions = append(corsOptions, handlers.AllowedHeaders([]string{"Connection", "Accept-Encoding", "Content-Encoding", "X-Requested-With", "Content-Type", "Authorization", security.ApiKeyHeader, controller.ViewIdHeader}))

	allowedOrigin := systemInfoService.GetOriginAllowed()
	if allowedOrigin != "" {
		corsOptions = append(corsOptions, handlers.AllowedOrigins([]string{allowedOrigin}))
		corsOptions = append(corsOptions, handlers.AllowCredentials())
	}
	corsOptions = append(corsOptions, handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "OPTIONS"}))

	return &http.Server{
		Handler:      handlers.CompressHandler(handlers.CORS(corsOptions...)(r)),
		Addr:         listenAddr,
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  30 * time.Second,
	}
}
