package model

import (
	"time"

	"canvassers_backend/internals/features/geo"

	"github.com/google/uuid"
)

// BranchModel merepresentasikan tabel branch_locations.
// Address adalah join key ke users.slot_location.
type BranchModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Address   string    `gorm:"type:text;not null;uniqueIndex" json:"address"`
	Lat       float64   `gorm:"column:lat;not null" json:"lat"`
	Long      float64   `gorm:"column:long;not null" json:"long"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BranchModel) TableName() string {
	return "branch_locations"
}

func (b BranchModel) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: b.Lat, Longitude: b.Long}
}

// BranchSnapshot adalah salinan cabang yang disimpan bersama event check-in.
type BranchSnapshot struct {
	ID      uuid.UUID `json:"id"`
	Address string    `json:"address"`
	Lat     float64   `json:"lat"`
	Long    float64   `json:"long"`
}

func (b BranchModel) Snapshot() BranchSnapshot {
	return BranchSnapshot{ID: b.ID, Address: b.Address, Lat: b.Lat, Long: b.Long}
}

func (s BranchSnapshot) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: s.Lat, Longitude: s.Long}
}
