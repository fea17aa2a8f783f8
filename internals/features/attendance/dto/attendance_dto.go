package dto

import "strings"

// LocationRequest: body check-in dan check-out. Koordinat kosong = lokasi tidak tersedia.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type FeedbackRequest struct {
	Sales      string `json:"sales" validate:"required,max=2000"`
	Remark     string `json:"remark" validate:"max=2000"`
	Challenges string `json:"challenges" validate:"max=2000"`
}

func (r *FeedbackRequest) Normalize() {
	r.Sales = strings.TrimSpace(r.Sales)
	r.Remark = strings.TrimSpace(r.Remark)
	r.Challenges = strings.TrimSpace(r.Challenges)
}
