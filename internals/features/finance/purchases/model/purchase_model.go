package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SourceBalance = "BALANCE"
	SourceCode    = "CODE"
	SourceAdmin   = "ADMIN"
	SourceFree    = "FREE"
)

var Sources = []string{SourceBalance, SourceCode, SourceAdmin, SourceFree}

// PurchaseModel: hak akses user ke course. Unik per (user, course).
type PurchaseModel struct {
	PurchaseID        uuid.UUID       `json:"purchase_id"                gorm:"column:purchase_id;type:uuid;default:gen_random_uuid();primaryKey"`
	PurchaseUserID    uuid.UUID       `json:"purchase_user_id"           gorm:"column:purchase_user_id;type:uuid;not null"`
	PurchaseCourseID  uuid.UUID       `json:"purchase_course_id"         gorm:"column:purchase_course_id;type:uuid;not null"`
	PurchaseAmount    decimal.Decimal `json:"purchase_amount"            gorm:"column:purchase_amount;type:numeric(14,2);not null;default:0"`
	PurchaseSource    string          `json:"purchase_source"            gorm:"column:purchase_source;type:varchar(10);not null"`
	PurchaseCodeID    *uuid.UUID      `json:"purchase_code_id,omitempty" gorm:"column:purchase_code_id;type:uuid"`
	PurchaseCreatedAt time.Time       `json:"purchase_created_at"        gorm:"column:purchase_created_at;type:timestamptz;autoCreateTime"`
}

func (PurchaseModel) TableName() string { return "purchases" }
