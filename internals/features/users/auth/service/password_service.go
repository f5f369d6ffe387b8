package service

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authHelper "elearning_backend/internals/features/users/auth/helper"
	"elearning_backend/internals/features/users/auth/dto"
	authRepo "elearning_backend/internals/features/users/auth/repository"
	helper "elearning_backend/internals/helpers"
)

// ========================== CHANGE PASSWORD ==========================
func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	var input dto.ChangePasswordRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := authHelper.ValidatePasswordStrength(input.NewPassword); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()

	user, err := authRepo.FindUserByID(ctx, db, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}
	if err := authHelper.CheckPasswordHash(user.Password, input.CurrentPassword); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Password lama salah")
	}

	newHash, err := authHelper.HashPassword(input.NewPassword)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash new password")
	}
	if err := authRepo.UpdateUserPassword(ctx, db, userID, newHash); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update password")
	}
	// sesi lain harus login ulang
	if err := authRepo.RevokeAllRefreshTokens(ctx, db, userID); err != nil {
		log.Printf("[WARN] revoke refresh tokens user=%s: %v", userID, err)
	}

	return helper.JsonUpdated(c, "Password berhasil diubah", nil)
}

// ========================== FORGOT PASSWORD ==========================

// GetSecurityQuestion: tahap 1 reset, kembalikan pertanyaan keamanan milik email.
func GetSecurityQuestion(db *gorm.DB, c *fiber.Ctx) error {
	var input dto.SecurityQuestionRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := authRepo.FindUserByEmail(c.UserContext(), db, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil user")
	}
	if user.SecurityQuestion == nil || user.SecurityAnswer == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Akun ini belum mengatur pertanyaan keamanan")
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"email":             user.Email,
		"security_question": *user.SecurityQuestion,
	})
}

// ResetPassword: email + jawaban keamanan benar → password baru.
func ResetPassword(db *gorm.DB, c *fiber.Ctx) error {
	var input dto.ResetPasswordRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := authHelper.ValidatePasswordStrength(input.NewPassword); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	ctx := c.UserContext()

	user, err := authRepo.FindUserByEmail(ctx, db, input.Email)
	if err != nil {
		// jangan bocorkan email mana yang terdaftar
		return helper.JsonError(c, fiber.StatusBadRequest, "Email atau jawaban keamanan salah")
	}
	if user.SecurityAnswer == nil ||
		!authHelper.CheckSecurityAnswer(*user.SecurityAnswer, input.SecurityAnswer) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Email atau jawaban keamanan salah")
	}

	hash, err := authHelper.HashPassword(input.NewPassword)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}
	if err := authRepo.UpdateUserPassword(ctx, db, user.ID, hash); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update password")
	}
	if err := authRepo.RevokeAllRefreshTokens(ctx, db, user.ID); err != nil {
		log.Printf("[WARN] revoke refresh tokens user=%s: %v", user.ID, err)
	}

	log.Printf("[INFO] password reset user=%s", user.ID)
	return helper.JsonUpdated(c, "Password berhasil direset", nil)
}
