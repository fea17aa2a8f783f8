package repository

import (
	"context"
	"strings"

	"canvassers_backend/internals/features/users/user/model"
	helper "canvassers_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// ListUsers: q mencari di name/email (ILIKE), urut nama.
func (r *UserRepository) ListUsers(ctx context.Context, q string, p helper.Paging) ([]model.UserModel, int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.UserModel{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.UserModel
	if err := tx.Order("name ASC").Limit(p.PerPage).Offset(p.Offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUser menerapkan changes lalu mengembalikan baris terbaru.
func (r *UserRepository) UpdateUser(ctx context.Context, id uuid.UUID, changes map[string]any) (*model.UserModel, error) {
	var user model.UserModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&user).Updates(changes).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
