package controller

import (
	"net/http"

	"github.com/transparentprocure/oversight-service/secctx"
	"github.com/transparentprocure/oversight-service/service"
)

type DashboardController interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

func NewDashboardController(dashboardService service.DashboardService) DashboardController {
	return &dashboardControllerImpl{dashboardService: dashboardService}
}

type dashboardControllerImpl struct {
	dashboardService service.DashboardService
}

func (d dashboardControllerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := d.dashboardService.GetDashboard(secctx.MakeUserContext(r))
	if err != nil {
		respondWithError(w, "Failed to build dashboard", err)
		return
	}
	respondWithJson(w, http.StatusOK, result)
}
