package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"elearning_backend/internals/features/finance/payments/model"
)

// CreateTopupRequest: amount rupiah bulat, string atau number.
type CreateTopupRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type TopupResponse struct {
	PaymentID   uuid.UUID           `json:"payment_id"`
	UserID      uuid.UUID           `json:"user_id"`
	OrderID     string              `json:"order_id"`
	Amount      decimal.Decimal     `json:"amount"`
	Status      model.PaymentStatus `json:"status"`
	SnapToken   *string             `json:"snap_token,omitempty"`
	RedirectURL *string             `json:"redirect_url,omitempty"`
	PaymentType *string             `json:"payment_type,omitempty"`
	PaidAt      *time.Time          `json:"paid_at,omitempty"`
	ExpiredAt   *time.Time          `json:"expired_at,omitempty"`
	CreditedAt  *time.Time          `json:"credited_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// FromModel: snap token hanya ditampilkan selama masih open.
func FromModel(m *model.PaymentModel) TopupResponse {
	out := TopupResponse{
		PaymentID:   m.PaymentID,
		UserID:      m.PaymentUserID,
		OrderID:     m.PaymentOrderID,
		Amount:      m.PaymentAmount,
		Status:      m.PaymentStatus,
		PaymentType: m.PaymentType,
		PaidAt:      m.PaymentPaidAt,
		ExpiredAt:   m.PaymentExpiredAt,
		CreditedAt:  m.PaymentCreditedAt,
		CreatedAt:   m.PaymentCreatedAt,
		UpdatedAt:   m.PaymentUpdatedAt,
	}
	if m.PaymentStatus.IsOpen() {
		out.SnapToken = m.PaymentSnapToken
		out.RedirectURL = m.PaymentRedirectURL
	}
	return out
}

func FromModels(rows []model.PaymentModel) []TopupResponse {
	out := make([]TopupResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
