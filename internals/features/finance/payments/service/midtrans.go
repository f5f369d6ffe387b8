package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"elearning_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Midtrans Client
========================================================= */

var (
	SnapClient snap.Client
	serverKey  string
)

// InitMidtrans harus dipanggil saat bootstrap app.
// useProduction=true untuk Production, false untuk Sandbox.
func InitMidtrans(key string, useProduction bool) {
	serverKey = key
	if useProduction {
		SnapClient.New(key, midtrans.Production)
	} else {
		SnapClient.New(key, midtrans.Sandbox)
	}
}

// MidtransEnabled: false kalau MIDTRANS_SERVER_KEY kosong (top-up ditolak 503).
func MidtransEnabled() bool { return serverKey != "" }

// createSnapTransaction bisa diganti di test.
var createSnapTransaction = func(req *snap.Request) (*snap.Response, error) {
	resp, merr := SnapClient.CreateTransaction(req)
	if merr != nil {
		return nil, fmt.Errorf("midtrans snap (%d): %s", merr.StatusCode, merr.Message)
	}
	return resp, nil
}

/* =========================================================
   Input helper untuk data customer
========================================================= */

type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

/* =========================================================
   Generate Snap Token (top-up saldo)
========================================================= */

func GenerateSnapToken(p model.PaymentModel, cust CustomerInput, expiry time.Duration) (string, string, error) {
	if !p.PaymentAmount.IsPositive() {
		return "", "", errors.New("invalid payment_amount")
	}
	if p.PaymentOrderID == "" {
		return "", "", errors.New("payment_order_id is required (used as OrderID)")
	}
	gross := p.PaymentAmount.Ceil().IntPart()

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  p.PaymentOrderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.FirstName,
			LName: cust.LastName,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       "TOPUP",
				Price:    gross,
				Qty:      1,
				Name:     "Top-up Saldo",
				Category: "TOPUP",
			},
		},
	}
	if h := int64(expiry / time.Hour); h > 0 {
		req.Expiry = &snap.ExpiryDetails{Unit: "hour", Duration: h}
	}

	resp, err := createSnapTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}

/* =========================================================
   Order ID
========================================================= */

const orderIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewOrderID: TOPUP-<unix>-<6 char acak>.
func NewOrderID(now time.Time) (string, error) {
	b := make([]byte, 6)
	max := big.NewInt(int64(len(orderIDAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = orderIDAlphabet[n.Int64()]
	}
	return fmt.Sprintf("TOPUP-%d-%s", now.Unix(), b), nil
}

/* =========================================================
   Webhook: notifikasi, signature, mapping status
========================================================= */

type Notification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, refund, partial_refund, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"` // string dari Midtrans, "150000.00"
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"` // accept / challenge / deny
	TransactionID     string `json:"transaction_id"`
	SettlementTime    string `json:"settlement_time"`
}

// SignatureKey: SHA512(order_id + status_code + gross_amount + ServerKey), hex.
func SignatureKey(orderID, statusCode, grossAmount, key string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + key))
	return hex.EncodeToString(h[:])
}

// VerifySignature: pakai server key hasil InitMidtrans.
func VerifySignature(n Notification) bool {
	return verifyWithKey(n, serverKey)
}

func verifyWithKey(n Notification, key string) bool {
	want := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if want == "" || key == "" {
		return false
	}
	got := SignatureKey(n.OrderID, n.StatusCode, n.GrossAmount, key)
	return hmac.Equal([]byte(got), []byte(want))
}

// MapMidtransStatus: status midtrans → status internal. ok=false kalau tidak dikenal.
func MapMidtransStatus(transactionStatus, fraudStatus string) (model.PaymentStatus, bool) {
	ts := strings.ToLower(strings.TrimSpace(transactionStatus))
	fraud := strings.ToLower(strings.TrimSpace(fraudStatus))
	switch ts {
	case "capture":
		// untuk cc: capture + fraud=accept -> paid, fraud=challenge -> awaiting
		switch fraud {
		case "accept", "":
			return model.PaymentStatusPaid, true
		case "challenge":
			return model.PaymentStatusAwaitingCallback, true
		}
		return model.PaymentStatusFailed, true
	case "settlement":
		return model.PaymentStatusPaid, true
	case "pending":
		return model.PaymentStatusPending, true
	case "deny", "failure":
		return model.PaymentStatusFailed, true
	case "cancel":
		return model.PaymentStatusCanceled, true
	case "expire":
		return model.PaymentStatusExpired, true
	case "refund":
		return model.PaymentStatusRefunded, true
	case "partial_refund":
		return model.PaymentStatusPartiallyRefunded, true
	}
	return "", false
}

// CanTransition: paid tidak boleh turun ke status open/gagal.
// Status gagal/expired boleh naik ke paid (settlement telat setelah cron expire).
func CanTransition(from, to model.PaymentStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case model.PaymentStatusInitiated, model.PaymentStatusPending, model.PaymentStatusAwaitingCallback:
		return true
	case model.PaymentStatusPaid:
		return to == model.PaymentStatusRefunded || to == model.PaymentStatusPartiallyRefunded
	case model.PaymentStatusPartiallyRefunded:
		return to == model.PaymentStatusRefunded
	case model.PaymentStatusFailed, model.PaymentStatusCanceled, model.PaymentStatusExpired:
		return to == model.PaymentStatusPaid
	}
	return false
}
