package repository

import (
	"context"
	"errors"
	"time"

	"canvassers_backend/internals/features/attendance/model"
	"canvassers_backend/internals/features/attendance/service"
	salesModel "canvassers_backend/internals/features/sales/model"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// AttendanceStore adalah implementasi service.Store di atas GORM/Postgres.
type AttendanceStore struct {
	DB *gorm.DB
}

func NewAttendanceStore(db *gorm.DB) *AttendanceStore {
	return &AttendanceStore{DB: db}
}

var _ service.Store = (*AttendanceStore)(nil)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *AttendanceStore) InsertCheckIn(ctx context.Context, ev *model.CheckInModel) error {
	if err := s.DB.WithContext(ctx).Create(ev).Error; err != nil {
		// uq_check_ins_open_per_user
		if isUniqueViolation(err) {
			return service.ErrAlreadyCheckedIn
		}
		return err
	}
	return nil
}

func (s *AttendanceStore) AmendCheckOut(ctx context.Context, a service.CheckOutAmendment) error {
	loc, err := sonic.Marshal(a.Location)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).
		Model(&model.CheckInModel{}).
		Where("id = ? AND user_id = ? AND check_out_time IS NULL", a.CheckInID, a.UserID).
		Updates(map[string]any{
			"check_out_time":              a.CheckOutTime,
			"feedback":                    a.Feedback,
			"checkout_location":           datatypes.JSON(loc),
			"checkout_distance_to_branch": a.DistanceMeters,
			"is_within_400m":              a.Within,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return service.ErrNotCheckedIn
	}
	return nil
}

func (s *AttendanceStore) InsertSale(ctx context.Context, sale *salesModel.SaleModel) error {
	return s.DB.WithContext(ctx).Create(sale).Error
}

func (s *AttendanceStore) InsertFeedback(ctx context.Context, fb *model.FeedbackModel) error {
	return s.DB.WithContext(ctx).Create(fb).Error
}

func (s *AttendanceStore) ListSalesForUser(ctx context.Context, userID uuid.UUID, since time.Time) ([]salesModel.SaleModel, error) {
	var rows []salesModel.SaleModel
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (s *AttendanceStore) FindOpenCheckIn(ctx context.Context, userID uuid.UUID) (*model.CheckInModel, error) {
	var row model.CheckInModel
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND check_out_time IS NULL", userID).
		Order("check_in_time DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *AttendanceStore) FindLatestFeedback(ctx context.Context, checkInID uuid.UUID) (*model.FeedbackModel, error) {
	var row model.FeedbackModel
	err := s.DB.WithContext(ctx).
		Where("check_in_id = ?", checkInID).
		Order("created_at DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
