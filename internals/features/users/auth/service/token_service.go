package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"elearning_backend/internals/configs"
	"elearning_backend/internals/features/users/auth/dto"
	authModel "elearning_backend/internals/features/users/auth/model"
	authRepo "elearning_backend/internals/features/users/auth/repository"
	userModel "elearning_backend/internals/features/users/user/model"
	helper "elearning_backend/internals/helpers"
)

/* ==========================
   Const & small helpers
========================== */

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour

	cookieAccess  = "access_token"
	cookieRefresh = "refresh_token"
	cookieCSRF    = "csrf_token"
)

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		secret = configs.GetEnv("JWT_SECRET")
	}
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET belum diset")
	}
	return secret, nil
}

func getRefreshSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	if secret == "" {
		secret = configs.GetEnv("JWT_REFRESH_SECRET")
	}
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_REFRESH_SECRET belum diset")
	}
	return secret, nil
}

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ComputeRefreshHash: HMAC-SHA256(token) yang disimpan di refresh_tokens.token_hash
func ComputeRefreshHash(token, secret string) []byte {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(token))
	return m.Sum(nil)
}

func randomString(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)[:n]
}

/* ==========================
   Claims
========================== */

// BuildAccessClaims: klaim yang dibaca AuthMiddleware (id, role, user_name).
func BuildAccessClaims(user userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":       "access",
		"sub":       user.ID.String(),
		"id":        user.ID.String(),
		"user_name": user.UserName,
		"role":      user.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTLDefault).Unix(),
	}
}

func BuildRefreshClaims(userID uuid.UUID, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ": "refresh",
		"sub": userID.String(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
}

/* ==========================
   Issue tokens + cookies
========================== */

func issueTokens(c *fiber.Ctx, db *gorm.DB, user userModel.UserModel, message string) error {
	jwtSecret, err := getJWTSecret()
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	now := nowUTC()
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, BuildAccessClaims(user, now)).SignedString([]byte(jwtSecret))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat access token")
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, BuildRefreshClaims(user.ID, now)).SignedString([]byte(refreshSecret))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat refresh token")
	}

	if err := authRepo.CreateRefreshToken(c.UserContext(), db, &authModel.RefreshTokenModel{
		UserID:    user.ID,
		TokenHash: ComputeRefreshHash(refreshToken, refreshSecret),
		ExpiresAt: now.Add(refreshTTLDefault),
		UserAgent: strptr(c.Get("User-Agent")),
		IP:        strptr(c.IP()),
	}); err != nil {
		log.Printf("[ERROR] simpan refresh token: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan refresh token")
	}

	setAuthCookies(c, accessToken, refreshToken, now)
	setCSRFCookie(c, randomString(48), now.Add(refreshTTLDefault))

	return helper.JsonOK(c, message, fiber.Map{
		"user":         dto.FromModel(user),
		"access_token": accessToken,
		"expires_in":   int(accessTTLDefault.Seconds()),
	})
}

func cookieSecure() bool { return configs.GetEnvBool("COOKIE_SECURE", true) }

func setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string, now time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieAccess,
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   cookieSecure(),
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(accessTTLDefault),
	})
	c.Cookie(&fiber.Cookie{
		Name:     cookieRefresh,
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   cookieSecure(),
		SameSite: "None",
		Path:     "/api/auth",
		Expires:  now.Add(refreshTTLDefault),
	})
}

// csrf cookie harus bisa dibaca JS (double-submit)
func setCSRFCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieCSRF,
		Value:    token,
		HTTPOnly: false,
		Secure:   cookieSecure(),
		SameSite: "None",
		Path:     "/",
		Expires:  exp,
	})
}

func clearAuthCookies(c *fiber.Ctx) {
	expired := nowUTC().Add(-time.Hour)
	for name, path := range map[string]string{cookieAccess: "/", cookieRefresh: "/api/auth", cookieCSRF: "/"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: name != cookieCSRF,
			Secure:   cookieSecure(),
			SameSite: "None",
			Path:     path,
			Expires:  expired,
			MaxAge:   -1,
		})
	}
}

/* ==========================
   REFRESH TOKEN (rotate)
   POST /api/auth/refresh-token
========================== */

// parseRefreshToken: valid signature + exp + typ=refresh → user id
func parseRefreshToken(raw, secret string) (uuid.UUID, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, errors.New("refresh token invalid")
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return uuid.Nil, errors.New("bukan refresh token")
	}
	sub, _ := claims["sub"].(string)
	return uuid.Parse(sub)
}

func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	raw := helper.GetRefreshTokenFromCookie(c)
	fromCookie := raw != ""
	if !fromCookie {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.BodyParser(&body)
		raw = strings.TrimSpace(body.RefreshToken)
	}
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak ada")
	}
	// CSRF wajib kalau refresh datang dari cookie
	if fromCookie {
		if err := helper.CheckCSRFCookieHeader(c); err != nil {
			return helper.FromFiberError(c, err)
		}
	}

	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	userID, err := parseRefreshToken(raw, refreshSecret)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}

	ctx := c.UserContext()
	hash := ComputeRefreshHash(raw, refreshSecret)
	rt, err := authRepo.FindActiveRefreshToken(ctx, db, hash)
	if err != nil || rt.UserID != userID {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak dikenal")
	}

	user, err := authRepo.FindUserByID(ctx, db, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User tidak ditemukan")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun dinonaktifkan")
	}

	// ROTATE: refresh lama tidak bisa dipakai lagi
	if err := authRepo.RevokeRefreshToken(ctx, db, hash); err != nil {
		log.Printf("[WARN] revoke refresh lama gagal: %v", err)
	}
	return issueTokens(c, db, *user, "Token diperbarui")
}

/* ==========================
   CSRF seed
   GET /api/auth/csrf
========================== */

func CSRF(c *fiber.Ctx) error {
	token := randomString(48)
	setCSRFCookie(c, token, nowUTC().Add(24*time.Hour))
	return helper.JsonOK(c, "ok", fiber.Map{"csrf_token": token})
}
