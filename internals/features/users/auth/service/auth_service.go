package service

import (
	"errors"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"elearning_backend/internals/configs"
	authHelper "elearning_backend/internals/features/users/auth/helper"
	"elearning_backend/internals/features/users/auth/dto"
	authRepo "elearning_backend/internals/features/users/auth/repository"
	userModel "elearning_backend/internals/features/users/user/model"
	helper "elearning_backend/internals/helpers"
)

var validate = validator.New()

/* ==========================
   REGISTER
========================== */

func Register(db *gorm.DB, c *fiber.Ctx) error {
	var input dto.RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	input.Normalize()
	if err := validate.Struct(&input); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := authHelper.ValidateUserName(input.UserName); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := authHelper.ValidatePasswordStrength(input.Password); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if (input.SecurityQuestion == nil) != (input.SecurityAnswer == nil) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Pertanyaan dan jawaban keamanan harus diisi bersamaan")
	}

	ctx := c.UserContext()
	if taken, err := authRepo.IsUsernameTaken(ctx, db, input.UserName); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal cek username")
	} else if taken {
		return helper.JsonError(c, fiber.StatusConflict, "Username sudah dipakai")
	}

	hash, err := authHelper.HashPassword(input.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal hash password")
	}
	var answer *string
	if input.SecurityAnswer != nil {
		a, err := authHelper.HashSecurityAnswer(*input.SecurityAnswer)
		if err != nil {
			if errors.Is(err, authHelper.ErrSecurityAnswerInvalid) {
				return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal hash jawaban keamanan")
		}
		answer = &a
	}

	user := input.ToModel(hash, answer)
	if err := authRepo.CreateUser(ctx, db, &user); err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email atau username sudah terdaftar")
		}
		log.Printf("[ERROR] register: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat user")
	}

	log.Printf("[INFO] user registered id=%s user_name=%s", user.ID, user.UserName)
	return helper.JsonCreated(c, "Registrasi berhasil", dto.FromModel(user))
}

/* ==========================
   LOGIN
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input dto.LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	input.Identifier = strings.TrimSpace(input.Identifier)
	if err := validate.Struct(&input); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := authRepo.FindUserByEmailOrUsername(c.UserContext(), db, input.Identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Identifier atau password salah")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil user")
	}
	if err := authHelper.CheckPasswordHash(user.Password, input.Password); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Identifier atau password salah")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan. Hubungi admin.")
	}

	return issueTokens(c, db, *user, "Login berhasil")
}

/* ==========================
   LOGIN GOOGLE
========================== */

func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var input dto.GoogleLoginRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.ValidationError(c, err)
	}
	clientID := strings.TrimSpace(configs.GoogleClientID)
	if clientID == "" {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Login Google belum dikonfigurasi")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(input.IDToken, []string{clientID}); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google ID Token")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(input.IDToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Failed to decode ID Token")
	}
	email := strings.ToLower(strings.TrimSpace(claimSet.Email))
	googleID := claimSet.Sub
	if email == "" || googleID == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "ID Token tanpa email")
	}

	ctx := c.UserContext()

	// 1) google_id sudah terhubung
	user, err := authRepo.FindUserByGoogleID(ctx, db, googleID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil user")
	}

	// 2) email sudah terdaftar → link
	if user == nil {
		user, err = authRepo.FindUserByEmail(ctx, db, email)
		switch {
		case err == nil:
			if err := authRepo.LinkGoogleID(ctx, db, user.ID, googleID); err != nil {
				log.Printf("[WARN] link google_id user=%s: %v", user.ID, err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = nil
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil user")
		}
	}

	// 3) user baru
	if user == nil {
		created, err := createGoogleUser(c, db, email, claimSet.Name, googleID)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		user = created
	}

	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan. Hubungi admin.")
	}
	return issueTokens(c, db, *user, "Login Google berhasil")
}

func createGoogleUser(c *fiber.Ctx, db *gorm.DB, email, name, googleID string) (*userModel.UserModel, error) {
	ctx := c.UserContext()
	hash, err := authHelper.HashPassword(authHelper.RandomPassword())
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal hash password")
	}

	base := authHelper.UserNameFromEmail(email)
	userName := base
	for i := 0; i < 5; i++ {
		taken, err := authRepo.IsUsernameTaken(ctx, db, userName)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal cek username")
		}
		if !taken {
			break
		}
		userName = base + "_" + randomString(4)
	}

	u := userModel.UserModel{
		UserName: userName,
		Email:    email,
		Password: hash,
		GoogleID: &googleID,
		IsActive: true,
	}
	if n := strings.TrimSpace(name); n != "" {
		u.FullName = &n
	}
	if err := authRepo.CreateUser(ctx, db, &u); err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, fiber.NewError(fiber.StatusConflict, "Email sudah terdaftar")
		}
		log.Printf("[ERROR] create google user: %v", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat user Google")
	}
	log.Printf("[INFO] google user created id=%s", u.ID)
	return &u, nil
}

/* ==========================
   LOGOUT
========================== */

func Logout(db *gorm.DB, c *fiber.Ctx) error {
	if helper.UsesCookieAuth(c) {
		if err := helper.CheckCSRFCookieHeader(c); err != nil {
			return helper.FromFiberError(c, err)
		}
	}
	ctx := c.UserContext()

	accessToken := helper.GetRawAccessToken(c)
	if accessToken != "" {
		if err := authRepo.BlacklistToken(ctx, db, accessToken, resolveBlacklistTTL(accessToken)); err != nil {
			log.Printf("[WARN] blacklist token gagal: %v", err)
		}
	} else {
		log.Println("[INFO] logout tanpa access token; clear cookies saja")
	}

	if rt := helper.GetRefreshTokenFromCookie(c); rt != "" {
		if secret, err := getRefreshSecret(); err == nil {
			if err := authRepo.RevokeRefreshToken(ctx, db, ComputeRefreshHash(rt, secret)); err != nil {
				log.Printf("[WARN] revoke refresh token gagal: %v", err)
			}
		}
	}

	clearAuthCookies(c)
	return helper.JsonOK(c, "Logout berhasil", nil)
}

// resolveBlacklistTTL: BLACKLIST_TTL_SECONDS kalau diset, selain itu sisa umur token + 60 detik.
func resolveBlacklistTTL(accessToken string) time.Duration {
	ttl := 2 * time.Minute
	if n := configs.GetEnvInt("BLACKLIST_TTL_SECONDS", 0); n > 0 {
		return time.Duration(n) * time.Second
	}
	secret, err := getJWTSecret()
	if err != nil || accessToken == "" {
		return ttl
	}
	tok, err := jwt.Parse(accessToken, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return ttl
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return ttl
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return ttl
	}
	if until := time.Until(time.Unix(int64(exp), 0)); until > 0 {
		return until + 60*time.Second
	}
	return time.Minute
}
