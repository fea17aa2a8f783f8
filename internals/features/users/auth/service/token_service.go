package service

import (
	"errors"
	"time"

	userModel "canvassers_backend/internals/features/users/user/model"

	"github.com/golang-jwt/jwt/v4"
)

const accessTTLDefault = 24 * time.Hour

var errMissingSecret = errors.New("JWT_SECRET is not set")

// IssueAccessToken: HS256 dengan klaim id, email, role, exp.
func IssueAccessToken(user *userModel.UserModel, secret string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errMissingSecret
	}
	if ttl <= 0 {
		ttl = accessTTLDefault
	}
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"id":    user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}
