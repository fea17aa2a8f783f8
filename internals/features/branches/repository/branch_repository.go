package repository

import (
	"context"

	"canvassers_backend/internals/features/branches/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BranchRepository struct {
	DB *gorm.DB
}

func NewBranchRepository(db *gorm.DB) *BranchRepository {
	return &BranchRepository{DB: db}
}

// ListBranches: urutan address desc mengikuti tampilan dropdown lama.
func (r *BranchRepository) ListBranches(ctx context.Context) ([]model.BranchModel, error) {
	var rows []model.BranchModel
	if err := r.DB.WithContext(ctx).Order("address DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BranchRepository) Create(ctx context.Context, b *model.BranchModel) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

// UpsertByAddress memperbarui koordinat jika address sudah ada.
func (r *BranchRepository) UpsertByAddress(ctx context.Context, rows []model.BranchModel) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"lat", "long", "updated_at"}),
	}).Create(&rows).Error
}
