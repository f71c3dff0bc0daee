package controller

import (
	"net/http"

	"github.com/transparentprocure/oversight-service/secctx"
	"github.com/transparentprocure/oversight-service/service"
	"github.com/transparentprocure/oversight-service/utils"
)

type TenderController interface {
	GetTenders(w http.ResponseWriter, r *http.Request)
	GetAnomalies(w http.ResponseWriter, r *http.Request)
	GetCounties(w http.ResponseWriter, r *http.Request)
}

func NewTenderController(tenderService service.TenderService, generations utils.ViewGenerations) TenderController {
	return &tenderControllerImpl{tenderService: tenderService, generations: generations}
}

type tenderControllerImpl struct {
	tenderService service.TenderService
	generations   utils.ViewGenerations
}

func (t tenderControllerImpl) GetTenders(w http.ResponseWriter, r *http.Request) {
	county := r.URL.Query().Get("county")
	ctx, gen := beginView(r, t.generations, "tenders")
	result, err := t.tenderService.GetTendersView(ctx, county)
	respondWithView(w, r, gen, "Failed to get tenders", result, err)
}

func (t tenderControllerImpl) GetAnomalies(w http.ResponseWriter, r *http.Request) {
	limit, err := getLimitParam(r, "limit")
	if err != nil {
		respondWithError(w, "Invalid limit", err)
		return
	}
	county := r.URL.Query().Get("county")
	ctx, gen := beginView(r, t.generations, "anomalies")
	result, err := t.tenderService.GetRankedAnomalies(ctx, county, limit)
	respondWithView(w, r, gen, "Failed to rank anomalous tenders", result, err)
}

func (t tenderControllerImpl) GetCounties(w http.ResponseWriter, r *http.Request) {
	result, err := t.tenderService.GetCountyBreakdown(secctx.MakeUserContext(r))
	if err != nil {
		respondWithError(w, "Failed to get county breakdown", err)
		return
	}
	respondWithJson(w, http.StatusOK, result)
}
