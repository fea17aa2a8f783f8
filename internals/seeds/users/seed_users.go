package users

import (
	"errors"
	"log"
	"os"
	"strings"

	"canvassers_backend/internals/constants"
	authService "canvassers_backend/internals/features/users/auth/service"
	"canvassers_backend/internals/features/users/user/model"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserSeed struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	Active       bool   `json:"active"`
	SlotLocation string `json:"slot_location"`
}

func seedOne(db *gorm.DB, data UserSeed) error {
	email := strings.ToLower(strings.TrimSpace(data.Email))
	if email == "" || data.Password == "" {
		return errors.New("email and password are required")
	}

	var existing model.UserModel
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("ℹ️ User dengan email '%s' sudah ada, dilewati.", email)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := authService.HashPassword(data.Password)
	if err != nil {
		return err
	}

	u := model.UserModel{
		ID:           uuid.New(),
		Name:         data.Name,
		Email:        email,
		Phone:        data.Phone,
		Password:     hashed,
		Role:         data.Role,
		Active:       data.Active,
		SlotLocation: data.SlotLocation,
	}
	u.SetDefaultValues()
	return db.Create(&u).Error
}

func SeedUsersFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file user:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("❌ Gagal membaca file JSON: %v", err)
		return
	}

	var inputs []UserSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		log.Printf("❌ Gagal decode JSON: %v", err)
		return
	}

	for _, data := range inputs {
		if err := seedOne(db, data); err != nil {
			log.Printf("❌ Gagal seed user '%s': %v", data.Email, err)
		}
	}
}

// SeedAdminFromEnv membuat admin aktif dari ADMIN_EMAIL/ADMIN_PASSWORD bila belum ada.
func SeedAdminFromEnv(db *gorm.DB) {
	email := strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	err := seedOne(db, UserSeed{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     constants.RoleAdmin,
		Active:   true,
	})
	if err != nil {
		log.Printf("❌ Gagal seed admin: %v", err)
	}
}
