package dto

import (
	"strings"
	"time"

	"canvassers_backend/internals/features/sales/model"

	"github.com/google/uuid"
)

type CreateSaleRequest struct {
	CustomerName           string  `json:"customer_name" validate:"required,max=150"`
	CustomerPhone          string  `json:"customer_phone" validate:"required,min=7,max=30"`
	AXAInsuranceCardSerial string  `json:"axa_insurance_card_serial" validate:"required,max=100"`
	CustomerRemark         *string `json:"customer_remark" validate:"omitempty,max=2000"`
	Location               *string `json:"location" validate:"omitempty,max=255"`
}

// Normalize membuang spasi supaya field yang hanya berisi spasi dianggap kosong.
func (r *CreateSaleRequest) Normalize() {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.AXAInsuranceCardSerial = strings.TrimSpace(r.AXAInsuranceCardSerial)
	r.CustomerRemark = trimPtr(r.CustomerRemark)
	r.Location = trimPtr(r.Location)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (r CreateSaleRequest) ToModel(userID uuid.UUID, checkInID *uuid.UUID, now time.Time) *model.SaleModel {
	return &model.SaleModel{
		ID:                     uuid.New(),
		UserID:                 userID,
		CheckInID:              checkInID,
		CustomerName:           r.CustomerName,
		CustomerPhone:          r.CustomerPhone,
		AXAInsuranceCardSerial: r.AXAInsuranceCardSerial,
		CustomerRemark:         r.CustomerRemark,
		Location:               r.Location,
		CreatedAt:              now,
	}
}
