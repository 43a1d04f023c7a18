package dtos

import (
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
)

type RoomContractResponse struct {
	Room                   internal_models.RoomDetails      `json:"room"`
	RoomStatusCategory     internal_utils.Category          `json:"room_status_category"`
	Contract               internal_models.ContractDetails  `json:"contract"`
	ContractStatusCategory internal_utils.Category          `json:"contract_status_category"`
	Notice                 *internal_models.ImportantNotice `json:"notice,omitempty"`
	NoticeCategory         *internal_utils.Category         `json:"notice_category,omitempty"`
	NoticeIcon             string                           `json:"notice_icon,omitempty"`
}

func NewRoomContractResponse(rc *internal_models.RoomContract, notice *internal_models.ImportantNotice) RoomContractResponse {
	resp := RoomContractResponse{
		Room:                   rc.Room,
		RoomStatusCategory:     internal_utils.Classify(string(rc.Room.Status), internal_utils.DomainRoom),
		Contract:               rc.Contract,
		ContractStatusCategory: internal_utils.Classify(string(rc.Contract.Status), internal_utils.DomainContract),
		Notice:                 notice,
	}
	if notice != nil {
		c := internal_utils.Classify(string(notice.Type), internal_utils.DomainNotice)
		resp.NoticeCategory = &c
		resp.NoticeIcon = internal_utils.IconForNotice(notice.Type)
	}
	return resp
}
