package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"elearning_backend/internals/configs"
	"elearning_backend/internals/constants"
	authRepo "elearning_backend/internals/features/users/auth/repository"
	helper "elearning_backend/internals/helpers"
)

const expirySkew = 30 * time.Second

var errInactive = errors.New("user inactive")

type activeUser struct {
	ID       uuid.UUID
	UserName string
	Role     string
	IsActive bool
}

// AuthMiddleware: wajib login. Role diambil dari DB supaya perubahan role
// oleh admin langsung berlaku tanpa menunggu token baru.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}

		claims, status, msg := verifyAccessToken(tokenString)
		if status != 0 {
			return helper.JsonError(c, status, msg)
		}

		ctx := c.UserContext()
		if black, err := authRepo.IsTokenBlacklisted(ctx, db, tokenString); err != nil {
			log.Printf("[ERROR] cek blacklist: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
		} else if black {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		u, err := ensureUserActive(db, c, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
			if errors.Is(err, errInactive) {
				return helper.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
			}
			log.Printf("[ERROR] ensureUserActive: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}

		storeLocals(c, u, tokenString)
		return c.Next()
	}
}

// OptionalAuth: route publik yang perilakunya beda kalau user login
// (mis. detail course menampilkan status pembelian). Token invalid = anonim.
func OptionalAuth(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return c.Next()
		}
		claims, status, _ := verifyAccessToken(tokenString)
		if status != 0 {
			return c.Next()
		}
		if black, err := authRepo.IsTokenBlacklisted(c.UserContext(), db, tokenString); err != nil || black {
			return c.Next()
		}
		userID, err := extractUserID(claims)
		if err != nil {
			return c.Next()
		}
		if u, err := ensureUserActive(db, c, userID); err == nil {
			storeLocals(c, u, tokenString)
		}
		return c.Next()
	}
}

// verifyAccessToken: status 0 berarti valid.
func verifyAccessToken(tokenString string) (jwt.MapClaims, int, string) {
	secret := configs.JWTSecret
	if secret == "" {
		secret = configs.GetEnv("JWT_SECRET")
	}
	if secret == "" {
		log.Println("[ERROR] JWT_SECRET kosong")
		return nil, fiber.StatusInternalServerError, "Missing JWT Secret"
	}
	claims, err := parseAccessToken(tokenString, secret)
	if err != nil {
		return nil, fiber.StatusUnauthorized, "Unauthorized - Token parse error"
	}
	if err := validateTokenExpiry(claims, expirySkew); err != nil {
		return nil, fiber.StatusUnauthorized, "Unauthorized - Token expired"
	}
	return claims, 0, ""
}

func ensureUserActive(db *gorm.DB, c *fiber.Ctx, userID uuid.UUID) (*activeUser, error) {
	var u activeUser
	res := db.WithContext(c.UserContext()).
		Table("users").
		Select("id, user_name, role, is_active").
		Where("id = ? AND deleted_at IS NULL", userID).
		Limit(1).
		Scan(&u)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	if !u.IsActive {
		return nil, errInactive
	}
	return &u, nil
}

func storeLocals(c *fiber.Ctx, u *activeUser, raw string) {
	c.Locals(helper.LocUserID, u.ID.String())
	c.Locals(helper.LocUserRole, constants.NormalizeRole(u.Role))
	c.Locals(helper.LocUserName, u.UserName)
	helper.SetRawAccessToken(c, raw)
}
