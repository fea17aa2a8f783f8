package model

import (
	"time"

	branchModel "canvassers_backend/internals/features/branches/model"
	"canvassers_backend/internals/features/geo"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CheckInModel: satu baris per check-in, diamandemen sekali saat check-out.
// Index unik parsial (user_id WHERE check_out_time IS NULL) dibuat di migrasi.
type CheckInModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string    `gorm:"size:100" json:"name"`
	Email  string    `gorm:"size:255;index" json:"email"`

	Location      datatypes.JSONType[geo.Coordinate]                `gorm:"type:jsonb;not null" json:"location"`
	Branch        datatypes.JSONType[branchModel.BranchSnapshot]    `gorm:"type:jsonb;not null" json:"branch"`
	BranchAddress string                                            `gorm:"type:text;index" json:"branch_address"`
	CheckInTime   time.Time                                         `gorm:"not null;index" json:"check_in_time"`

	DistanceToBranch float64 `gorm:"not null" json:"distance_to_branch"`
	Within400Meters  bool    `gorm:"column:within_400_meters;not null" json:"within_400_meters"`

	CheckOutTime             *time.Time     `json:"check_out_time"`
	Feedback                 datatypes.JSON `gorm:"type:jsonb" json:"feedback,omitempty"`
	CheckOutLocation         datatypes.JSON `gorm:"column:checkout_location;type:jsonb" json:"checkout_location,omitempty"`
	CheckOutDistanceToBranch *float64       `gorm:"column:checkout_distance_to_branch" json:"checkout_distance_to_branch,omitempty"`
	IsWithin400m             *bool          `gorm:"column:is_within_400m" json:"is_within_400m,omitempty"`
}

func (CheckInModel) TableName() string {
	return "check_ins"
}

func (m CheckInModel) IsOpen() bool {
	return m.CheckOutTime == nil
}
