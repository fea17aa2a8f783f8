package model

import (
	"time"

	"github.com/google/uuid"
)

// SaleModel merepresentasikan tabel sales.
type SaleModel struct {
	ID                     uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID                 uuid.UUID  `gorm:"type:uuid;not null;index:idx_sales_user_created,priority:1" json:"user_id"`
	CheckInID              *uuid.UUID `gorm:"type:uuid;index" json:"check_in_id,omitempty"`
	CustomerName           string     `gorm:"size:150;not null" json:"customer_name"`
	CustomerPhone          string     `gorm:"size:30;not null" json:"customer_phone"`
	AXAInsuranceCardSerial string     `gorm:"column:axa_insurance_card_serial;size:100;not null" json:"axa_insurance_card_serial"`
	CustomerRemark         *string    `gorm:"type:text" json:"customer_remark,omitempty"`
	Location               *string    `gorm:"type:text" json:"location,omitempty"`
	CreatedAt              time.Time  `gorm:"not null;index:idx_sales_user_created,priority:2" json:"created_at"`
}

func (SaleModel) TableName() string {
	return "sales"
}
