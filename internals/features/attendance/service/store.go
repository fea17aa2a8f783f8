package service

import (
	"context"
	"time"

	"canvassers_backend/internals/features/attendance/model"
	"canvassers_backend/internals/features/geo"
	salesModel "canvassers_backend/internals/features/sales/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CheckOutAmendment adalah perubahan yang ditulis ke baris check-in saat check-out.
type CheckOutAmendment struct {
	CheckInID      uuid.UUID
	UserID         uuid.UUID
	CheckOutTime   time.Time
	Feedback       datatypes.JSON
	Location       geo.Coordinate
	DistanceMeters float64
	Within         bool
}

// Store adalah record store attendance.
// FindOpenCheckIn dan FindLatestFeedback mengembalikan (nil, nil) kalau tidak ada.
// InsertCheckIn mengembalikan ErrAlreadyCheckedIn kalau user masih punya check-in terbuka,
// AmendCheckOut mengembalikan ErrNotCheckedIn kalau check-in sudah ditutup.
type Store interface {
	InsertCheckIn(ctx context.Context, ev *model.CheckInModel) error
	AmendCheckOut(ctx context.Context, a CheckOutAmendment) error
	InsertSale(ctx context.Context, sale *salesModel.SaleModel) error
	InsertFeedback(ctx context.Context, fb *model.FeedbackModel) error
	ListSalesForUser(ctx context.Context, userID uuid.UUID, since time.Time) ([]salesModel.SaleModel, error)
	FindOpenCheckIn(ctx context.Context, userID uuid.UUID) (*model.CheckInModel, error)
	FindLatestFeedback(ctx context.Context, checkInID uuid.UUID) (*model.FeedbackModel, error)
}
