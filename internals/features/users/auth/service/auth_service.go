package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"canvassers_backend/internals/constants"
	"canvassers_backend/internals/features/users/auth/dto"
	userModel "canvassers_backend/internals/features/users/user/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("User is not active, Please contact admin")
	ErrEmailTaken         = errors.New("email is already registered")
)

type UserRepository interface {
	FindUserByEmail(ctx context.Context, email string) (*userModel.UserModel, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error)
	CreateUser(ctx context.Context, user *userModel.UserModel) error
}

type TokenBlacklister interface {
	Add(ctx context.Context, rawToken string, expiresAt time.Time) error
}

type AuthService struct {
	Users     UserRepository
	Blacklist TokenBlacklister
	Secret    string
	TokenTTL  time.Duration

	// OnLogout dipanggil setelah token di-blacklist (mis. menutup sesi attendance).
	OnLogout func(userID uuid.UUID)

	Now func() time.Time
}

func NewAuthService(users UserRepository, blacklist TokenBlacklister, secret string) *AuthService {
	return &AuthService{
		Users:     users,
		Blacklist: blacklist,
		Secret:    secret,
		TokenTTL:  accessTTLDefault,
		Now:       time.Now,
	}
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

/* ==========================
   REGISTER
========================== */

// Register membuat user baru (non-aktif sampai admin mengaktifkan).
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*userModel.UserModel, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &userModel.UserModel{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    strings.TrimSpace(req.Phone),
		Password: hash,
		Role:     constants.RoleUser,
		Active:   false,
	}
	user.SetDefaultValues()

	if err := s.Users.CreateUser(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	log.Printf("[INFO] register: user=%s email=%s", user.ID, user.Email)
	return user, nil
}

/* ==========================
   LOGIN
========================== */

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logLoginActivity(email, "FAILURE", "unknown email")
			return nil, ErrInvalidCredentials
		}
		logLoginActivity(email, "ERROR", err.Error())
		return nil, err
	}
	if !CheckPasswordHash(req.Password, user.Password) {
		logLoginActivity(email, "FAILURE", "wrong password")
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		logLoginActivity(email, "FAILURE", "inactive user")
		return nil, ErrInactiveUser
	}

	token, _, err := IssueAccessToken(user, s.Secret, s.now(), s.TokenTTL)
	if err != nil {
		logLoginActivity(email, "ERROR", err.Error())
		return nil, err
	}

	logLoginActivity(email, "SUCCESS", "")
	return &dto.LoginResponse{User: *user, Token: token}, nil
}

func logLoginActivity(email, status, detail string) {
	if detail == "" {
		log.Printf("[LOGIN] %s email=%s", status, email)
		return
	}
	log.Printf("[LOGIN] %s email=%s detail=%s", status, email, detail)
}

/* ==========================
   LOGOUT
========================== */

// Logout mem-blacklist token sampai exp-nya lewat.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, rawToken string, expiresAt time.Time) error {
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(s.TokenTTL)
	}
	if err := s.Blacklist.Add(ctx, rawToken, expiresAt); err != nil {
		return err
	}
	if s.OnLogout != nil {
		s.OnLogout(userID)
	}
	log.Printf("[INFO] logout: user=%s", userID)
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*userModel.UserModel, error) {
	return s.Users.FindUserByID(ctx, userID)
}
