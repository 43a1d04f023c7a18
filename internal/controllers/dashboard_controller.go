package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tropay/tenant-service/internal/dtos"
	"github.com/tropay/tenant-service/internal/services"
	"github.com/tropay/tenant-service/shared/go-utils"
)

type DashboardController struct {
	dashboardService *services.DashboardService
	dispatcher       services.ActionDispatcher
}

func NewDashboardController(s *services.DashboardService, dispatcher services.ActionDispatcher) *DashboardController {
	return &DashboardController{dashboardService: s, dispatcher: dispatcher}
}

// GET /api/v1/tenant/dashboard
func (c *DashboardController) GetDashboardHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantIDOrAbort(w, r)
	if !ok {
		return
	}

	data, err := c.dashboardService.FetchDashboard(r.Context(), tenantID, c.dispatcher)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Failed to load dashboard for tenant %s", tenantID)
		respondServiceError(w, err, "Could not load dashboard")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewDashboardResponse(data))
}

// POST /api/v1/tenant/quick-actions/{id}
func (c *DashboardController) RunQuickActionHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantIDOrAbort(w, r)
	if !ok {
		return
	}

	res, err := c.dashboardService.RunQuickAction(r.Context(), tenantID, mux.Vars(r)["id"], c.dispatcher)
	if err != nil {
		respondServiceError(w, err, "Could not run quick action")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}
