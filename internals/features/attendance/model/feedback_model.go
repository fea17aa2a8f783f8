package model

import (
	"time"

	"github.com/google/uuid"
)

type FeedbackModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CheckInID  uuid.UUID `gorm:"type:uuid;not null;index" json:"check_in_id"`
	Sales      string    `gorm:"type:text;not null" json:"sales"`
	Remark     string    `gorm:"type:text" json:"remark"`
	Challenges string    `gorm:"type:text" json:"challenges"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (FeedbackModel) TableName() string {
	return "feedback"
}
