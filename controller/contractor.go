package controller

import (
	"net/http"

	"github.com/transparentprocure/oversight-service/exception"
	"github.com/transparentprocure/oversight-service/secctx"
	"github.com/transparentprocure/oversight-service/service"
)

type ContractorController interface {
	GetContractors(w http.ResponseWriter, r *http.Request)
	GetHighRisk(w http.ResponseWriter, r *http.Request)
	GetBlacklistReport(w http.ResponseWriter, r *http.Request)
}

func NewContractorController(contractorService service.ContractorService) ContractorController {
	return &contractorControllerImpl{contractorService: contractorService}
}

type contractorControllerImpl struct {
	contractorService service.ContractorService
}

func (c contractorControllerImpl) GetContractors(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source != "" && source != service.RegistrySource {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameterValue,
			Message: exception.InvalidParameterValueMsg,
			Params:  map[string]interface{}{"param": "source", "value": source},
		})
		return
	}
	result, err := c.contractorService.GetContractorsView(secctx.MakeUserContext(r), source)
	if err != nil {
		respondWithError(w, "Failed to get contractors", err)
		return
	}
	respondWithJson(w, http.StatusOK, result)
}

func (c contractorControllerImpl) GetHighRisk(w http.ResponseWriter, r *http.Request) {
	limit, err := getLimitParam(r, "limit")
	if err != nil {
		respondWithError(w, "Invalid limit", err)
		return
	}
	result, err := c.contractorService.GetHighRisk(secctx.MakeUserContext(r), limit)
	if err != nil {
		respondWithError(w, "Failed to get high risk contractors", err)
		return
	}
	respondWithJson(w, http.StatusOK, result)
}

func (c contractorControllerImpl) GetBlacklistReport(w http.ResponseWriter, r *http.Request) {
	result, err := c.contractorService.GetBlacklistReport(secctx.MakeUserContext(r))
	if err != nil {
		respondWithError(w, "Failed to get blacklist report", err)
		return
	}
	respondWithJson(w, http.StatusOK, result)
}
