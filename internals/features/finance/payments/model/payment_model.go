// file: internals/features/finance/payments/model/payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/*
  payments = top-up saldo via Midtrans Snap.
  - payment_order_id dikirim ke Midtrans sebagai order_id (unik).
  - payment_credited_at terisi sekali saat saldo dikredit (idempotensi webhook).
*/

type PaymentModel struct {
	PaymentID      uuid.UUID       `gorm:"column:payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_id"`
	PaymentUserID  uuid.UUID       `gorm:"column:payment_user_id;type:uuid;not null"                       json:"payment_user_id"`
	PaymentOrderID string          `gorm:"column:payment_order_id;type:varchar(64);not null"               json:"payment_order_id"`
	PaymentAmount  decimal.Decimal `gorm:"column:payment_amount;type:numeric(14,2);not null"               json:"payment_amount"`
	PaymentStatus  PaymentStatus   `gorm:"column:payment_status;type:varchar(24);not null;default:'initiated'" json:"payment_status"`

	// Snap
	PaymentSnapToken   *string `gorm:"column:payment_snap_token"   json:"payment_snap_token,omitempty"`
	PaymentRedirectURL *string `gorm:"column:payment_redirect_url" json:"payment_redirect_url,omitempty"`

	// dari webhook
	PaymentGatewayReference *string `gorm:"column:payment_gateway_reference"            json:"payment_gateway_reference,omitempty"`
	PaymentType             *string `gorm:"column:payment_type;type:varchar(40)"        json:"payment_type,omitempty"`

	PaymentPaidAt     *time.Time `gorm:"column:payment_paid_at;type:timestamptz"     json:"payment_paid_at,omitempty"`
	PaymentExpiredAt  *time.Time `gorm:"column:payment_expired_at;type:timestamptz"  json:"payment_expired_at,omitempty"`
	PaymentCreditedAt *time.Time `gorm:"column:payment_credited_at;type:timestamptz" json:"payment_credited_at,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;type:timestamptz;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time `gorm:"column:payment_updated_at;type:timestamptz;autoUpdateTime" json:"payment_updated_at"`
}

func (PaymentModel) TableName() string { return "payments" }
