package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elearning_backend/internals/features/finance/payments/model"
)

func pendingTopup(amount int64) model.PaymentModel {
	return model.PaymentModel{
		PaymentID:      uuid.New(),
		PaymentUserID:  uuid.New(),
		PaymentOrderID: "TOPUP-1767225600-ABC123",
		PaymentAmount:  decimal.NewFromInt(amount),
		PaymentStatus:  model.PaymentStatusPending,
	}
}

func TestDecideNotification(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	earlier := now.Add(-time.Hour)

	credited := pendingTopup(50000)
	credited.PaymentStatus = model.PaymentStatusPaid
	credited.PaymentPaidAt = &earlier
	credited.PaymentCreditedAt = &earlier

	expired := pendingTopup(50000)
	expired.PaymentStatus = model.PaymentStatusExpired
	expired.PaymentExpiredAt = &earlier

	refundedAfterCredit := credited

	cases := []struct {
		name        string
		payment     model.PaymentModel
		notif       Notification
		wantErr     error
		wantIgnored bool
		wantCredit  bool
		wantNext    model.PaymentStatus
		wantRefund  bool
	}{
		{
			name:       "settlement pertama mengkredit",
			payment:    pendingTopup(50000),
			notif:      Notification{TransactionStatus: "settlement", GrossAmount: "50000.00"},
			wantCredit: true,
			wantNext:   model.PaymentStatusPaid,
		},
		{
			name:     "settlement ulang setelah dikredit tidak mengkredit lagi",
			payment:  credited,
			notif:    Notification{TransactionStatus: "settlement", GrossAmount: "50000.00"},
			wantNext: model.PaymentStatusPaid,
		},
		{
			name:    "gross amount beda ditolak",
			payment: pendingTopup(50000),
			notif:   Notification{TransactionStatus: "settlement", GrossAmount: "5000000.00"},
			wantErr: ErrAmountMismatch,
		},
		{
			name:    "gross amount tidak valid ditolak",
			payment: pendingTopup(50000),
			notif:   Notification{TransactionStatus: "capture", FraudStatus: "accept", GrossAmount: "abc"},
			wantErr: ErrAmountMismatch,
		},
		{
			name:       "settlement telat setelah expired tetap mengkredit",
			payment:    expired,
			notif:      Notification{TransactionStatus: "settlement", GrossAmount: "50000"},
			wantCredit: true,
			wantNext:   model.PaymentStatusPaid,
		},
		{
			name:        "paid tidak turun ke pending",
			payment:     credited,
			notif:       Notification{TransactionStatus: "pending", GrossAmount: "50000.00"},
			wantIgnored: true,
		},
		{
			name:        "status tidak dikenal diabaikan",
			payment:     pendingTopup(50000),
			notif:       Notification{TransactionStatus: "authorize"},
			wantIgnored: true,
		},
		{
			name:     "fraud challenge menunggu",
			payment:  pendingTopup(50000),
			notif:    Notification{TransactionStatus: "capture", FraudStatus: "challenge", GrossAmount: "50000.00"},
			wantNext: model.PaymentStatusAwaitingCallback,
		},
		{
			name:       "refund setelah kredit ditandai",
			payment:    refundedAfterCredit,
			notif:      Notification{TransactionStatus: "refund", GrossAmount: "50000.00"},
			wantNext:   model.PaymentStatusRefunded,
			wantRefund: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := DecideNotification(tc.payment, tc.notif, now)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.False(t, d.Credit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantIgnored, d.Ignored)
			assert.Equal(t, tc.wantCredit, d.Credit)
			assert.Equal(t, tc.wantRefund, d.RefundAfterCredit)
			if tc.wantIgnored {
				assert.Empty(t, d.Updates)
				return
			}
			assert.Equal(t, tc.wantNext, d.Next)
			assert.Equal(t, tc.wantNext, d.Updates["payment_status"])
			_, setsCredited := d.Updates["payment_credited_at"]
			assert.Equal(t, tc.wantCredit, setsCredited)
		})
	}
}

func TestDecideNotificationKeepsFirstPaidAt(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)
	p := pendingTopup(10000)
	p.PaymentStatus = model.PaymentStatusPaid
	p.PaymentPaidAt = &earlier
	p.PaymentCreditedAt = &earlier

	d, err := DecideNotification(p, Notification{
		TransactionStatus: "settlement",
		GrossAmount:       "10000.00",
		TransactionID:     "trx-1",
		PaymentType:       "bank_transfer",
	}, now)
	require.NoError(t, err)
	assert.NotContains(t, d.Updates, "payment_paid_at")
	assert.Equal(t, "trx-1", d.Updates["payment_gateway_reference"])
	assert.Equal(t, "bank_transfer", d.Updates["payment_type"])
}
