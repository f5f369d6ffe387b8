package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	courseModel "elearning_backend/internals/features/courses/courses/model"
	balanceDTO "elearning_backend/internals/features/finance/balances/dto"
	"elearning_backend/internals/features/finance/purchases/model"
)

/* ===== Request ===== */

type GrantRequest struct {
	UserID   uuid.UUID `json:"user_id"   validate:"required"`
	CourseID uuid.UUID `json:"course_id" validate:"required"`
}

type RedeemRequest struct {
	Code string `json:"code" validate:"required,max=32"`
}

// CreateCodesRequest: course_id XOR amount.
type CreateCodesRequest struct {
	CourseID  *uuid.UUID       `json:"course_id"`
	Amount    *decimal.Decimal `json:"amount"`
	Count     int              `json:"count"      validate:"required,min=1,max=500"`
	ExpiresAt *time.Time       `json:"expires_at"`
	Note      *string          `json:"note"       validate:"omitempty,max=500"`
}

func (r *CreateCodesRequest) Normalize() {
	if r.Note != nil {
		s := strings.TrimSpace(*r.Note)
		if s == "" {
			r.Note = nil
		} else {
			r.Note = &s
		}
	}
	if r.Amount != nil {
		a := r.Amount.Round(2)
		r.Amount = &a
	}
}

func (r *CreateCodesRequest) Check(now time.Time) error {
	hasCourse := r.CourseID != nil && *r.CourseID != uuid.Nil
	hasAmount := r.Amount != nil
	if hasCourse == hasAmount {
		return errors.New("isi salah satu: course_id atau amount")
	}
	if hasAmount && !r.Amount.IsPositive() {
		return errors.New("amount harus > 0")
	}
	if r.ExpiresAt != nil && !r.ExpiresAt.After(now) {
		return errors.New("expires_at harus di masa depan")
	}
	return nil
}

func (r *CreateCodesRequest) Template(createdBy uuid.UUID) model.PurchaseCodeModel {
	return model.PurchaseCodeModel{
		PurchaseCodeCourseID:  r.CourseID,
		PurchaseCodeAmount:    r.Amount,
		PurchaseCodeExpiresAt: r.ExpiresAt,
		PurchaseCodeCreatedBy: &createdBy,
		PurchaseCodeNote:      r.Note,
	}
}

/* ===== Response ===== */

type CourseBrief struct {
	CourseID     uuid.UUID `json:"course_id"`
	Title        string    `json:"course_title"`
	Slug         string    `json:"course_slug"`
	ImageURL     *string   `json:"course_image_url,omitempty"`
	ThumbnailURL *string   `json:"course_thumbnail_url,omitempty"`
}

func BriefOf(c courseModel.CourseModel) *CourseBrief {
	return &CourseBrief{
		CourseID:     c.CourseID,
		Title:        c.CourseTitle,
		Slug:         c.CourseSlug,
		ImageURL:     c.CourseImageURL,
		ThumbnailURL: c.CourseThumbnailURL,
	}
}

type PurchaseResponse struct {
	PurchaseID uuid.UUID       `json:"purchase_id"`
	UserID     uuid.UUID       `json:"user_id"`
	CourseID   uuid.UUID       `json:"course_id"`
	Amount     decimal.Decimal `json:"amount"`
	Source     string          `json:"source"`
	CodeID     *uuid.UUID      `json:"purchase_code_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	Course     *CourseBrief    `json:"course,omitempty"`

	Transaction *balanceDTO.TransactionResponse `json:"transaction,omitempty"`
}

func FromPurchase(m *model.PurchaseModel) PurchaseResponse {
	return PurchaseResponse{
		PurchaseID: m.PurchaseID,
		UserID:     m.PurchaseUserID,
		CourseID:   m.PurchaseCourseID,
		Amount:     m.PurchaseAmount,
		Source:     m.PurchaseSource,
		CodeID:     m.PurchaseCodeID,
		CreatedAt:  m.PurchaseCreatedAt,
	}
}

type CodeResponse struct {
	ID        uuid.UUID        `json:"purchase_code_id"`
	Code      string           `json:"code"`
	CourseID  *uuid.UUID       `json:"course_id,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
	UsedBy    *uuid.UUID       `json:"used_by,omitempty"`
	UsedAt    *time.Time       `json:"used_at,omitempty"`
	Note      *string          `json:"note,omitempty"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	Course    *CourseBrief     `json:"course,omitempty"`
}

func FromCode(m *model.PurchaseCodeModel, now time.Time) CodeResponse {
	return CodeResponse{
		ID:        m.PurchaseCodeID,
		Code:      m.PurchaseCodeValue,
		CourseID:  m.PurchaseCodeCourseID,
		Amount:    m.PurchaseCodeAmount,
		ExpiresAt: m.PurchaseCodeExpiresAt,
		UsedBy:    m.PurchaseCodeUsedBy,
		UsedAt:    m.PurchaseCodeUsedAt,
		Note:      m.PurchaseCodeNote,
		Status:    m.Status(now),
		CreatedAt: m.PurchaseCodeCreatedAt,
	}
}

// RedeemResponse: kind = "course" | "balance".
type RedeemResponse struct {
	Kind        string                          `json:"kind"`
	Code        string                          `json:"code"`
	Purchase    *PurchaseResponse               `json:"purchase,omitempty"`
	Transaction *balanceDTO.TransactionResponse `json:"transaction,omitempty"`
}
