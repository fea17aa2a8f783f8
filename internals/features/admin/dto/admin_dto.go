package dto

import (
	"strings"

	salesModel "canvassers_backend/internals/features/sales/model"

	"github.com/google/uuid"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// CheckInFilter: query admin untuk daftar check-in.
type CheckInFilter struct {
	Date        string `query:"date"`
	Branch      string `query:"branch"`
	Name        string `query:"name"`
	EmailSuffix string `query:"email_suffix"`
	Order       string `query:"order"`
}

func (f *CheckInFilter) Normalize() {
	f.Date = strings.TrimSpace(f.Date)
	f.Branch = strings.TrimSpace(f.Branch)
	f.Name = strings.TrimSpace(f.Name)
	f.EmailSuffix = strings.TrimSpace(f.EmailSuffix)
	f.Order = strings.ToLower(strings.TrimSpace(f.Order))
	if f.Order != OrderAsc {
		f.Order = OrderDesc
	}
}

// SaleFilter: query admin untuk daftar penjualan.
type SaleFilter struct {
	Date   string     `query:"date"`
	Name   string     `query:"name"`
	UserID *uuid.UUID `query:"-"`
}

func (f *SaleFilter) Normalize() {
	f.Date = strings.TrimSpace(f.Date)
	f.Name = strings.TrimSpace(f.Name)
}

// SaleRow = sale + identitas canvasser (join users).
type SaleRow struct {
	salesModel.SaleModel
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

type DayCount struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Within  int    `json:"within"`
	Outside int    `json:"outside"`
}

type UserSalesCount struct {
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	Sales           int       `json:"sales"`
	UniqueCustomers int       `json:"unique_customers"`
}
