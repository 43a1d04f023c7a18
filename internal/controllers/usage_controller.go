package controllers

import (
	"net/http"

	"github.com/tropay/tenant-service/internal/services"
	"github.com/tropay/tenant-service/shared/go-utils"
)

type UsageController struct {
	usageService *services.UsageService
}

func NewUsageController(s *services.UsageService) *UsageController {
	return &UsageController{usageService: s}
}

// GET /api/v1/tenant/usage?period=YYYY-MM
func (c *UsageController) GetUsageHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantIDOrAbort(w, r)
	if !ok {
		return
	}

	resp, err := c.usageService.GetUsageDetail(r.Context(), tenantID, r.URL.Query().Get("period"))
	if err != nil {
		respondServiceError(w, err, "Could not load usage")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
