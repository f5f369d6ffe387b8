package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"elearning_backend/internals/features/finance/payments/model"
)

func TestFromModelHidesSnapTokenWhenClosed(t *testing.T) {
	tok, url := "tok", "https://app.sandbox.midtrans.com/x"
	m := model.PaymentModel{
		PaymentOrderID:     "TOPUP-1-ABCDEF",
		PaymentAmount:      decimal.NewFromInt(10_000),
		PaymentStatus:      model.PaymentStatusPending,
		PaymentSnapToken:   &tok,
		PaymentRedirectURL: &url,
	}
	open := FromModel(&m)
	assert.Equal(t, &tok, open.SnapToken)
	assert.Equal(t, &url, open.RedirectURL)

	m.PaymentStatus = model.PaymentStatusPaid
	paid := FromModel(&m)
	assert.Nil(t, paid.SnapToken)
	assert.Nil(t, paid.RedirectURL)
}
