package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/tropay/tenant-service/internal/dtos"
	"github.com/tropay/tenant-service/shared/go-utils"
)

// Pinger is anything that can report whether its backing stores answer.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	pinger     Pinger
	dataSource string
}

func NewHealthController(p Pinger, dataSource string) *HealthController {
	return &HealthController{pinger: p, dataSource: dataSource}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := c.pinger.Ping(ctx); err != nil {
		utils.Logger.WithError(err).Error("tenant-service data source unreachable")
		utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeInternal, "Data source unreachable", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK", DataSource: c.dataSource})
}
