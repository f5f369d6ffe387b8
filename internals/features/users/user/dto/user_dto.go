package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"elearning_backend/internals/features/users/user/model"
	helper "elearning_backend/internals/helpers"
)

/* ===== Response ===== */

type UserResponse struct {
	ID             uuid.UUID       `json:"id"`
	UserName       string          `json:"user_name"`
	FullName       *string         `json:"full_name,omitempty"`
	Email          string          `json:"email"`
	Role           string          `json:"role"`
	Balance        decimal.Decimal `json:"balance"`
	Grade          *string         `json:"grade,omitempty"`
	Division       *string         `json:"division,omitempty"`
	Curriculum     *string         `json:"curriculum,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	HasSecurityQA  bool            `json:"has_security_question"`
	IsActive       bool            `json:"is_active"`
	IsGoogleLinked bool            `json:"is_google_linked"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func FromModel(u model.UserModel) UserResponse {
	return UserResponse{
		ID:             u.ID,
		UserName:       u.UserName,
		FullName:       u.FullName,
		Email:          u.Email,
		Role:           u.Role,
		Balance:        u.Balance,
		Grade:          u.Grade,
		Division:       u.Division,
		Curriculum:     u.Curriculum,
		Phone:          u.Phone,
		HasSecurityQA:  u.SecurityQuestion != nil && u.SecurityAnswer != nil,
		IsActive:       u.IsActive,
		IsGoogleLinked: u.GoogleID != nil,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func FromModels(list []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, FromModel(u))
	}
	return out
}

/* ===== PATCH /api/u/me ===== */

// UpdateMeRequest: field absent = tidak diubah, null = dikosongkan.
type UpdateMeRequest struct {
	FullName   helper.UpdateField[string] `json:"full_name"`
	Phone      helper.UpdateField[string] `json:"phone"`
	Grade      helper.UpdateField[string] `json:"grade"`
	Division   helper.UpdateField[string] `json:"division"`
	Curriculum helper.UpdateField[string] `json:"curriculum"`
}

var updateMeLimits = map[string]int{
	"full_name":  120,
	"phone":      20,
	"grade":      50,
	"division":   50,
	"curriculum": 50,
}

// ToUpdates: map kolom → nilai untuk gorm Updates. Error kalau melebihi panjang kolom.
func (r UpdateMeRequest) ToUpdates() (map[string]any, map[string][]string) {
	updates := map[string]any{}
	errs := map[string][]string{}

	put := func(col string, f helper.UpdateField[string]) {
		if !f.ShouldUpdate() {
			return
		}
		if f.IsNull() {
			updates[col] = nil
			return
		}
		v := strings.TrimSpace(f.Val())
		if v == "" {
			updates[col] = nil
			return
		}
		if len(v) > updateMeLimits[col] {
			errs[col] = append(errs[col], "max="+strconv.Itoa(updateMeLimits[col]))
			return
		}
		updates[col] = v
	}
	put("full_name", r.FullName)
	put("phone", r.Phone)
	put("grade", r.Grade)
	put("division", r.Division)
	put("curriculum", r.Curriculum)
	return updates, errs
}

/* ===== Admin ===== */

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER TEACHER ADMIN"`
}

type UpdateActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
