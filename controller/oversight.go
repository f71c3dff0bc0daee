package controller

import (
	"net/http"

	"github.com/transparentprocure/oversight-service/secctx"
	"github.com/transparentprocure/oversight-service/service"
)

type OversightController interface {
	GetFraudAlerts(w http.ResponseWriter, r *http.Request)
	GetAudits(w http.ResponseWriter, r *http.Request)
}

func NewOversightController(oversightService service.OversightService) OversightController {
	return &oversightControllerImpl{oversightService: oversightService}
}

type oversightControllerImpl struct {
	oversightService service.OversightService
}

func (o oversightControllerImpl) GetFraudAlerts(w http.ResponseWriter, r *http.Request) {
	result, err := o.oversightService.GetFraudAlerts(secctx.MakeUserContext(r))
	if err != nil {
		respondWithError(w, "Failed to get fraud alerts", err)
		return
	}
	respondWithJson(w, http.StatusOK, result)
}

func (o oversightControllerImpl) GetAudits(w http.ResponseWriter, r *http.Request) {
	result, err := o.oversightService.GetAudits(secctx.MakeUserContext(r))
	if err != nil {
		respondWithError(w, "Failed to get audits", err)
		return
	}
	respondWithJson(w, http.StatusOK, result)
}
