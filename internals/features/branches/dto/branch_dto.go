package dto

import (
	"strings"

	"canvassers_backend/internals/features/branches/model"
)

type CreateBranchRequest struct {
	Address string   `json:"address" validate:"required,min=2,max=255"`
	Lat     *float64 `json:"lat" validate:"required,latitude"`
	Long    *float64 `json:"long" validate:"required,longitude"`
}

func (r CreateBranchRequest) ToModel() *model.BranchModel {
	return &model.BranchModel{
		Address: strings.TrimSpace(r.Address),
		Lat:     *r.Lat,
		Long:    *r.Long,
	}
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportBranchesResponse struct {
	Imported int              `json:"imported"`
	Skipped  []ImportRowError `json:"skipped,omitempty"`
}
