package repository

import (
	"context"
	"strings"

	userModel "canvassers_backend/internals/features/users/user/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ====================== USER ====================== */

type AuthRepository struct {
	DB *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{DB: db}
}

func (r *AuthRepository) FindUserByEmail(ctx context.Context, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := r.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := r.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *userModel.UserModel) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

// UserStatus: status aktif dan role terkini; gorm.ErrRecordNotFound kalau user tidak ada.
func (r *AuthRepository) UserStatus(ctx context.Context, id uuid.UUID) (bool, string, error) {
	var row struct {
		Active bool
		Role   string
	}
	if err := r.DB.WithContext(ctx).
		Table("users").
		Select("active", "role").
		Where("id = ?", id).
		Take(&row).Error; err != nil {
		return false, "", err
	}
	return row.Active, row.Role, nil
}
