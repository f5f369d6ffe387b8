package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	userModel "elearning_backend/internals/features/users/user/model"
)

type RegisterRequest struct {
	UserName         string  `json:"user_name" validate:"required,min=3,max=50"`
	FullName         *string `json:"full_name" validate:"omitempty,max=120"`
	Email            string  `json:"email" validate:"required,email,max=255"`
	Password         string  `json:"password" validate:"required,min=8,max=72"`
	SecurityQuestion *string `json:"security_question" validate:"omitempty,max=255"`
	SecurityAnswer   *string `json:"security_answer" validate:"omitempty,max=255"`
	Grade            *string `json:"grade" validate:"omitempty,max=50"`
	Division         *string `json:"division" validate:"omitempty,max=50"`
	Curriculum       *string `json:"curriculum" validate:"omitempty,max=50"`
	Phone            *string `json:"phone" validate:"omitempty,max=20"`
}

func (r *RegisterRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	for _, p := range []**string{&r.FullName, &r.SecurityQuestion, &r.SecurityAnswer, &r.Grade, &r.Division, &r.Curriculum, &r.Phone} {
		if *p == nil {
			continue
		}
		v := strings.TrimSpace(**p)
		if v == "" {
			*p = nil
			continue
		}
		*p = &v
	}
}

// ToModel: password dan jawaban keamanan sudah harus di-hash oleh caller
func (r RegisterRequest) ToModel(passwordHash string, answerHash *string) userModel.UserModel {
	return userModel.UserModel{
		UserName:         r.UserName,
		FullName:         r.FullName,
		Email:            r.Email,
		Password:         passwordHash,
		SecurityQuestion: r.SecurityQuestion,
		SecurityAnswer:   answerHash,
		Grade:            r.Grade,
		Division:         r.Division,
		Curriculum:       r.Curriculum,
		Phone:            r.Phone,
		IsActive:         true,
	}
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type SecurityQuestionRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email          string `json:"email" validate:"required,email"`
	SecurityAnswer string `json:"security_answer" validate:"required"`
	NewPassword    string `json:"new_password" validate:"required,min=8,max=72"`
}

/* ===== Response ===== */

type AuthUser struct {
	ID         uuid.UUID       `json:"id"`
	UserName   string          `json:"user_name"`
	FullName   *string         `json:"full_name,omitempty"`
	Email      string          `json:"email"`
	Role       string          `json:"role"`
	Balance    decimal.Decimal `json:"balance"`
	Grade      *string         `json:"grade,omitempty"`
	Division   *string         `json:"division,omitempty"`
	Curriculum *string         `json:"curriculum,omitempty"`
}

func FromModel(u userModel.UserModel) AuthUser {
	return AuthUser{
		ID:         u.ID,
		UserName:   u.UserName,
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       u.Role,
		Balance:    u.Balance,
		Grade:      u.Grade,
		Division:   u.Division,
		Curriculum: u.Curriculum,
	}
}
