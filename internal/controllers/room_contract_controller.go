package controllers

import (
	"net/http"

	"github.com/tropay/tenant-service/internal/dtos"
	"github.com/tropay/tenant-service/internal/services"
	"github.com/tropay/tenant-service/shared/go-utils"
)

type RoomContractController struct {
	roomContractService *services.RoomContractService
}

func NewRoomContractController(s *services.RoomContractService) *RoomContractController {
	return &RoomContractController{roomContractService: s}
}

// GET /api/v1/tenant/room-contract
func (c *RoomContractController) GetRoomContractHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantIDOrAbort(w, r)
	if !ok {
		return
	}

	rc, notice, err := c.roomContractService.GetRoomContract(r.Context(), tenantID)
	if err != nil {
		respondServiceError(w, err, "Could not load room and contract")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewRoomContractResponse(rc, notice))
}

// POST /api/v1/tenant/room-contract/renewal
func (c *RoomContractController) RequestRenewalHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantIDOrAbort(w, r)
	if !ok {
		return
	}

	req, err := c.roomContractService.RequestRenewal(r.Context(), tenantID)
	if err != nil {
		respondServiceError(w, err, "Could not request renewal")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, req)
}
