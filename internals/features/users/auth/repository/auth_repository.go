package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "elearning_backend/internals/features/users/auth/model"
	userModel "elearning_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

// FindUserByEmailOrUsername: identifier dicocokkan case-insensitive ke email atau user_name.
func FindUserByEmailOrUsername(ctx context.Context, db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	id := strings.ToLower(strings.TrimSpace(identifier))
	if err := db.WithContext(ctx).
		Where("LOWER(email) = ? OR LOWER(user_name) = ?", id, id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByGoogleID(ctx context.Context, db *gorm.DB, googleID string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, db *gorm.DB, user *userModel.UserModel) error {
	return db.WithContext(ctx).Create(user).Error
}

func UpdateUserPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, newHash string) error {
	return db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", newHash).Error
}

// LinkGoogleID: akun email yang sudah ada dihubungkan ke akun Google.
func LinkGoogleID(ctx context.Context, db *gorm.DB, userID uuid.UUID, googleID string) error {
	return db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ? AND google_id IS NULL", userID).
		Update("google_id", googleID).Error
}

func IsUsernameTaken(ctx context.Context, db *gorm.DB, username string) (bool, error) {
	var exists bool
	err := db.WithContext(ctx).
		Raw(`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(user_name) = LOWER(?))`, username).
		Scan(&exists).Error
	return exists, err
}

/* ====================== REFRESH TOKEN ====================== */

func CreateRefreshToken(ctx context.Context, db *gorm.DB, token *authModel.RefreshTokenModel) error {
	return db.WithContext(ctx).Create(token).Error
}

// FindActiveRefreshToken: belum di-revoke & belum expired.
func FindActiveRefreshToken(ctx context.Context, db *gorm.DB, hash []byte) (*authModel.RefreshTokenModel, error) {
	var rt authModel.RefreshTokenModel
	if err := db.WithContext(ctx).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", hash, time.Now().UTC()).
		First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func RevokeRefreshToken(ctx context.Context, db *gorm.DB, hash []byte) error {
	return db.WithContext(ctx).Model(&authModel.RefreshTokenModel{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", time.Now().UTC()).Error
}

// RevokeAllRefreshTokens dipakai setelah ganti/reset password.
func RevokeAllRefreshTokens(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	return db.WithContext(ctx).Model(&authModel.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now().UTC()).Error
}

/* ====================== BLACKLIST TOKEN ====================== */

func BlacklistToken(ctx context.Context, db *gorm.DB, token string, ttl time.Duration) error {
	return db.WithContext(ctx).
		Exec(`INSERT INTO token_blacklist (token, expired_at) VALUES (?, ?) ON CONFLICT (token) DO NOTHING`,
			token, time.Now().UTC().Add(ttl)).Error
}

func IsTokenBlacklisted(ctx context.Context, db *gorm.DB, token string) (bool, error) {
	var exists bool
	err := db.WithContext(ctx).
		Raw(`SELECT EXISTS(SELECT 1 FROM token_blacklist WHERE token = ? AND deleted_at IS NULL)`, token).
		Scan(&exists).Error
	return exists, err
}

// CleanupExpiredBlacklist hapus permanen token yang sudah lewat expired_at,
// sekalian refresh token yang expired/revoked lebih dari graceDays.
func CleanupExpiredBlacklist(ctx context.Context, db *gorm.DB, graceDays int) (int64, int64, error) {
	now := time.Now().UTC()
	res := db.WithContext(ctx).Exec(`DELETE FROM token_blacklist WHERE expired_at <= ?`, now)
	if res.Error != nil {
		return 0, 0, res.Error
	}
	cutoff := now.AddDate(0, 0, -graceDays)
	res2 := db.WithContext(ctx).Exec(
		`DELETE FROM refresh_tokens WHERE expires_at <= ? OR (revoked_at IS NOT NULL AND revoked_at <= ?)`,
		cutoff, cutoff)
	return res.RowsAffected, res2.RowsAffected, res2.Error
}
