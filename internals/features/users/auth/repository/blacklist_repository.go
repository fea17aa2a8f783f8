package repository

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"gorm.io/gorm"
)

/* ====================== BLACKLIST TOKEN ====================== */

// BlacklistRepository menyimpan HMAC(access_token) supaya token mentah tidak pernah masuk DB.
type BlacklistRepository struct {
	DB     *gorm.DB
	Secret string
}

func NewBlacklistRepository(db *gorm.DB, secret string) *BlacklistRepository {
	return &BlacklistRepository{DB: db, Secret: secret}
}

func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

func (r *BlacklistRepository) Add(ctx context.Context, rawToken string, expiresAt time.Time) error {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}
	return r.DB.WithContext(ctx).Exec(`
		INSERT INTO token_blacklist (token, expired_at, created_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (token) DO UPDATE
		SET expired_at = EXCLUDED.expired_at
	`, hmacHex(rawToken, r.Secret), expiresAt.UTC()).Error
}

// IsBlacklisted: ada baris yang belum expired?
func (r *BlacklistRepository) IsBlacklisted(ctx context.Context, rawToken string) (bool, error) {
	if strings.TrimSpace(rawToken) == "" {
		return false, nil
	}
	var exists bool
	err := r.DB.WithContext(ctx).Raw(`
		SELECT EXISTS (
		  SELECT 1 FROM token_blacklist
		  WHERE token = ? AND expired_at > NOW()
		)
	`, hmacHex(rawToken, r.Secret)).Scan(&exists).Error
	return exists, err
}

// PurgeExpired menghapus baris yang expired sebelum `before`.
func (r *BlacklistRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Exec(`DELETE FROM token_blacklist WHERE expired_at < ?`, before.UTC())
	return res.RowsAffected, res.Error
}
