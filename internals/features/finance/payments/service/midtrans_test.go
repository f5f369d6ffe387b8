package service

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elearning_backend/internals/features/finance/payments/model"
)

func TestSignatureKeyDeterministic(t *testing.T) {
	got := SignatureKey("TOPUP-1-ABC", "200", "10000.00", "SB-Mid-server-x")
	assert.Len(t, got, 128)
	assert.Equal(t, got, SignatureKey("TOPUP-1-ABC", "200", "10000.00", "SB-Mid-server-x"))
	assert.NotEqual(t, got, SignatureKey("TOPUP-1-ABC", "201", "10000.00", "SB-Mid-server-x"))
}

func TestVerifySignature(t *testing.T) {
	key := "SB-Mid-server-x"
	n := Notification{OrderID: "TOPUP-1-ABC", StatusCode: "200", GrossAmount: "10000.00"}
	n.SignatureKey = SignatureKey(n.OrderID, n.StatusCode, n.GrossAmount, key)
	assert.True(t, verifyWithKey(n, key))

	upper := n
	upper.SignatureKey = "  " + strings.ToUpper(n.SignatureKey) + " "
	assert.True(t, verifyWithKey(upper, key), "hex uppercase tetap diterima")

	tampered := n
	tampered.GrossAmount = "1000000.00"
	assert.False(t, verifyWithKey(tampered, key))

	assert.False(t, verifyWithKey(Notification{OrderID: "x"}, key), "signature kosong")
	assert.False(t, verifyWithKey(n, ""), "server key kosong")
}

func TestMapMidtransStatus(t *testing.T) {
	cases := []struct {
		ts, fraud string
		want      model.PaymentStatus
		ok        bool
	}{
		{"capture", "accept", model.PaymentStatusPaid, true},
		{"capture", "challenge", model.PaymentStatusAwaitingCallback, true},
		{"capture", "deny", model.PaymentStatusFailed, true},
		{"settlement", "", model.PaymentStatusPaid, true},
		{"SETTLEMENT", "", model.PaymentStatusPaid, true},
		{"pending", "", model.PaymentStatusPending, true},
		{"deny", "", model.PaymentStatusFailed, true},
		{"failure", "", model.PaymentStatusFailed, true},
		{"cancel", "", model.PaymentStatusCanceled, true},
		{"expire", "", model.PaymentStatusExpired, true},
		{"refund", "", model.PaymentStatusRefunded, true},
		{"partial_refund", "", model.PaymentStatusPartiallyRefunded, true},
		{"authorize", "", "", false},
	}
	for _, tc := range cases {
		got, ok := MapMidtransStatus(tc.ts, tc.fraud)
		assert.Equal(t, tc.ok, ok, tc.ts)
		assert.Equal(t, tc.want, got, tc.ts)
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(model.PaymentStatusPending, model.PaymentStatusPaid))
	assert.True(t, CanTransition(model.PaymentStatusExpired, model.PaymentStatusPaid), "settlement telat")
	assert.True(t, CanTransition(model.PaymentStatusPaid, model.PaymentStatusPaid), "notifikasi ganda")
	assert.True(t, CanTransition(model.PaymentStatusPaid, model.PaymentStatusRefunded))
	assert.False(t, CanTransition(model.PaymentStatusPaid, model.PaymentStatusPending))
	assert.False(t, CanTransition(model.PaymentStatusPaid, model.PaymentStatusExpired))
	assert.False(t, CanTransition(model.PaymentStatusRefunded, model.PaymentStatusPaid))
	assert.False(t, CanTransition(model.PaymentStatusExpired, model.PaymentStatusPending))
}

func TestNewOrderID(t *testing.T) {
	re := regexp.MustCompile(`^TOPUP-1767225600-[A-Z2-9]{6}$`)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a, err := NewOrderID(now)
	require.NoError(t, err)
	b, err := NewOrderID(now)
	require.NoError(t, err)
	assert.Regexp(t, re, a)
	assert.NotEqual(t, a, b)
}

func TestCheckTopupAmount(t *testing.T) {
	assert.NoError(t, CheckTopupAmount(decimal.NewFromInt(10_000)))
	assert.ErrorIs(t, CheckTopupAmount(decimal.NewFromInt(9_999)), ErrTopupAmountRange)
	assert.ErrorIs(t, CheckTopupAmount(decimal.NewFromInt(50_000_001)), ErrTopupAmountRange)
	assert.ErrorIs(t, CheckTopupAmount(decimal.RequireFromString("10000.50")), ErrTopupNotWhole)
}

func TestGenerateSnapTokenBuildsRequest(t *testing.T) {
	orig := createSnapTransaction
	defer func() { createSnapTransaction = orig }()

	var got *snap.Request
	createSnapTransaction = func(req *snap.Request) (*snap.Response, error) {
		got = req
		return &snap.Response{Token: "tok", RedirectURL: "https://app.sandbox.midtrans.com/x"}, nil
	}

	p := model.PaymentModel{PaymentOrderID: "TOPUP-1-ABCDEF", PaymentAmount: decimal.NewFromInt(25_000)}
	token, url, err := GenerateSnapToken(p, CustomerInput{FirstName: "Budi", Email: "budi@example.com"}, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "https://app.sandbox.midtrans.com/x", url)

	require.NotNil(t, got)
	assert.Equal(t, "TOPUP-1-ABCDEF", got.TransactionDetails.OrderID)
	assert.Equal(t, int64(25_000), got.TransactionDetails.GrossAmt)
	require.NotNil(t, got.Expiry)
	assert.Equal(t, int64(24), got.Expiry.Duration)
	require.NotNil(t, got.Items)
	assert.Equal(t, int64(25_000), (*got.Items)[0].Price)
}

func TestGenerateSnapTokenRejectsEmptyOrder(t *testing.T) {
	_, _, err := GenerateSnapToken(model.PaymentModel{PaymentAmount: decimal.NewFromInt(10_000)}, CustomerInput{}, 0)
	assert.Error(t, err)
}

func TestSplitName(t *testing.T) {
	f, l := splitName("Budi Santoso Putra")
	assert.Equal(t, "Budi", f)
	assert.Equal(t, "Santoso Putra", l)
	f, l = splitName("budi")
	assert.Equal(t, "budi", f)
	assert.Empty(t, l)
}
