package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseCodeModel: kode sekali pakai. Tepat salah satu dari CourseID / Amount terisi.
type PurchaseCodeModel struct {
	PurchaseCodeID        uuid.UUID        `json:"purchase_code_id"                  gorm:"column:purchase_code_id;type:uuid;default:gen_random_uuid();primaryKey"`
	PurchaseCodeValue     string           `json:"purchase_code_value"               gorm:"column:purchase_code_value;type:varchar(20);not null"`
	PurchaseCodeCourseID  *uuid.UUID       `json:"purchase_code_course_id,omitempty" gorm:"column:purchase_code_course_id;type:uuid"`
	PurchaseCodeAmount    *decimal.Decimal `json:"purchase_code_amount,omitempty"    gorm:"column:purchase_code_amount;type:numeric(14,2)"`
	PurchaseCodeExpiresAt *time.Time       `json:"purchase_code_expires_at,omitempty" gorm:"column:purchase_code_expires_at;type:timestamptz"`
	PurchaseCodeUsedBy    *uuid.UUID       `json:"purchase_code_used_by,omitempty"   gorm:"column:purchase_code_used_by;type:uuid"`
	PurchaseCodeUsedAt    *time.Time       `json:"purchase_code_used_at,omitempty"   gorm:"column:purchase_code_used_at;type:timestamptz"`
	PurchaseCodeCreatedBy *uuid.UUID       `json:"purchase_code_created_by,omitempty" gorm:"column:purchase_code_created_by;type:uuid"`
	PurchaseCodeNote      *string          `json:"purchase_code_note,omitempty"      gorm:"column:purchase_code_note"`
	PurchaseCodeCreatedAt time.Time        `json:"purchase_code_created_at"          gorm:"column:purchase_code_created_at;type:timestamptz;autoCreateTime"`
}

func (PurchaseCodeModel) TableName() string { return "purchase_codes" }

func (m *PurchaseCodeModel) IsUsed() bool { return m.PurchaseCodeUsedAt != nil }

func (m *PurchaseCodeModel) IsExpired(now time.Time) bool {
	return m.PurchaseCodeExpiresAt != nil && !now.Before(*m.PurchaseCodeExpiresAt)
}

// Status: used | expired | active
func (m *PurchaseCodeModel) Status(now time.Time) string {
	switch {
	case m.IsUsed():
		return "used"
	case m.IsExpired(now):
		return "expired"
	}
	return "active"
}
