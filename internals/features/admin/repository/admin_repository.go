package repository

import (
	"context"
	"time"

	"canvassers_backend/internals/features/admin/dto"
	attendanceModel "canvassers_backend/internals/features/attendance/model"

	"gorm.io/gorm"
)

// Window membatasi rentang waktu query; nil = tanpa batas.
type Window struct {
	From *time.Time
	To   *time.Time
}

type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) ListCheckIns(ctx context.Context, w Window) ([]attendanceModel.CheckInModel, error) {
	var rows []attendanceModel.CheckInModel
	q := r.DB.WithContext(ctx).Model(&attendanceModel.CheckInModel{})
	if w.From != nil {
		q = q.Where("check_in_time >= ?", *w.From)
	}
	if w.To != nil {
		q = q.Where("check_in_time < ?", *w.To)
	}
	err := q.Order("check_in_time DESC").Find(&rows).Error
	return rows, err
}

func (r *AdminRepository) ListSales(ctx context.Context, w Window) ([]dto.SaleRow, error) {
	var rows []dto.SaleRow
	q := r.DB.WithContext(ctx).
		Table("sales").
		Select("sales.*, users.name AS user_name, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = sales.user_id")
	if w.From != nil {
		q = q.Where("sales.created_at >= ?", *w.From)
	}
	if w.To != nil {
		q = q.Where("sales.created_at < ?", *w.To)
	}
	err := q.Order("sales.created_at DESC").Scan(&rows).Error
	return rows, err
}
