package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	balanceModel "elearning_backend/internals/features/finance/balances/model"
	ledger "elearning_backend/internals/features/finance/balances/service"
	"elearning_backend/internals/features/finance/payments/model"
	userModel "elearning_backend/internals/features/users/user/model"
)

var (
	MinTopupAmount = decimal.NewFromInt(10_000)
	MaxTopupAmount = decimal.NewFromInt(50_000_000)
)

var (
	ErrGatewayDisabled  = errors.New("payment gateway belum dikonfigurasi")
	ErrGateway          = errors.New("gagal membuat transaksi midtrans")
	ErrPaymentNotFound  = errors.New("payment tidak ditemukan")
	ErrAmountMismatch   = errors.New("gross_amount tidak sama dengan nominal top-up")
	ErrTopupAmountRange = fmt.Errorf("nominal top-up minimal %s dan maksimal %s", MinTopupAmount, MaxTopupAmount)
	ErrTopupNotWhole    = errors.New("nominal top-up harus bilangan bulat rupiah")
)

// CheckTopupAmount: bilangan bulat rupiah dalam rentang.
func CheckTopupAmount(amount decimal.Decimal) error {
	if amount.LessThan(MinTopupAmount) || amount.GreaterThan(MaxTopupAmount) {
		return ErrTopupAmountRange
	}
	if !amount.Equal(amount.Truncate(0)) {
		return ErrTopupNotWhole
	}
	return nil
}

/* =========================================================
   Create top-up
========================================================= */

// CreateTopup: simpan payment initiated → minta Snap token → pending.
// Gagal di Midtrans = payment ditandai failed.
func CreateTopup(ctx context.Context, db *gorm.DB, user *userModel.UserModel, amount decimal.Decimal, expiry time.Duration) (*model.PaymentModel, error) {
	if !MidtransEnabled() {
		return nil, ErrGatewayDisabled
	}
	if err := CheckTopupAmount(amount); err != nil {
		return nil, err
	}
	orderID, err := NewOrderID(time.Now())
	if err != nil {
		return nil, err
	}

	p := model.PaymentModel{
		PaymentUserID:  user.ID,
		PaymentOrderID: orderID,
		PaymentAmount:  amount,
		PaymentStatus:  model.PaymentStatusInitiated,
	}
	if err := db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}

	first, last := splitName(user.DisplayName())
	cust := CustomerInput{FirstName: first, LastName: last, Email: user.Email}
	if user.Phone != nil {
		cust.Phone = *user.Phone
	}

	token, redirect, err := GenerateSnapToken(p, cust, expiry)
	if err != nil {
		log.Printf("[ERROR] snap token order=%s: %v", orderID, err)
		db.WithContext(ctx).Model(&model.PaymentModel{}).
			Where("payment_id = ?", p.PaymentID).
			Update("payment_status", model.PaymentStatusFailed)
		return nil, ErrGateway
	}

	p.PaymentStatus = model.PaymentStatusPending
	p.PaymentSnapToken = &token
	p.PaymentRedirectURL = &redirect
	if err := db.WithContext(ctx).Model(&model.PaymentModel{}).
		Where("payment_id = ?", p.PaymentID).
		Updates(map[string]any{
			"payment_status":       p.PaymentStatus,
			"payment_snap_token":   token,
			"payment_redirect_url": redirect,
		}).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i], strings.TrimSpace(full[i+1:])
	}
	return full, ""
}

/* =========================================================
   Apply notification
========================================================= */

// Outcome: hasil proses satu notifikasi webhook.
type Outcome struct {
	Payment  *model.PaymentModel
	Previous model.PaymentStatus
	Ignored  bool // status tidak dikenal / transisi ditolak
	Credited bool // saldo dikredit pada notifikasi ini
}

// Decision: hasil evaluasi notifikasi terhadap baris payment, tanpa menyentuh DB.
type Decision struct {
	Next              model.PaymentStatus
	Updates           map[string]any
	Ignored           bool // status tidak dikenal / transisi ditolak
	Credit            bool // saldo harus dikredit sekarang
	RefundAfterCredit bool
}

/*
DecideNotification menentukan perubahan payment untuk satu notifikasi:
  - status tidak dikenal atau transisi ditolak → Ignored.
  - paid dengan credited_at kosong → Credit, gross_amount wajib sama persis
    dengan amount (ErrAmountMismatch kalau beda).
  - paid yang sudah dikredit hanya memperbarui metadata.
*/
func DecideNotification(p model.PaymentModel, n Notification, now time.Time) (Decision, error) {
	next, ok := MapMidtransStatus(n.TransactionStatus, n.FraudStatus)
	if !ok || !CanTransition(p.PaymentStatus, next) {
		return Decision{Ignored: true}, nil
	}

	d := Decision{
		Next:    next,
		Updates: map[string]any{"payment_status": next, "payment_updated_at": now},
	}
	if n.TransactionID != "" {
		d.Updates["payment_gateway_reference"] = n.TransactionID
	}
	if n.PaymentType != "" {
		d.Updates["payment_type"] = n.PaymentType
	}

	switch next {
	case model.PaymentStatusPaid:
		if p.PaymentPaidAt == nil {
			d.Updates["payment_paid_at"] = now
		}
		if p.PaymentCreditedAt == nil {
			gross, err := decimal.NewFromString(strings.TrimSpace(n.GrossAmount))
			if err != nil || !gross.Equal(p.PaymentAmount) {
				return Decision{}, ErrAmountMismatch
			}
			d.Updates["payment_credited_at"] = now
			d.Credit = true
		}
	case model.PaymentStatusExpired:
		if p.PaymentExpiredAt == nil {
			d.Updates["payment_expired_at"] = now
		}
	case model.PaymentStatusRefunded, model.PaymentStatusPartiallyRefunded:
		d.RefundAfterCredit = p.PaymentCreditedAt != nil
	}
	return d, nil
}

// ApplyNotification: kunci payment (FOR UPDATE), terapkan status, kredit saldo tepat sekali.
func ApplyNotification(ctx context.Context, db *gorm.DB, n Notification, now time.Time) (*Outcome, error) {
	out := &Outcome{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.PaymentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "payment_order_id = ?", n.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		out.Payment = &p
		out.Previous = p.PaymentStatus

		d, err := DecideNotification(p, n, now)
		if err != nil {
			return err
		}
		if d.Ignored {
			out.Ignored = true
			return nil
		}

		if d.Credit {
			if _, err := ledger.Apply(tx, ledger.Entry{
				UserID:    p.PaymentUserID,
				Amount:    p.PaymentAmount,
				Type:      balanceModel.TxDeposit,
				Reference: p.PaymentOrderID,
				Note:      "Top-up Midtrans",
			}); err != nil {
				return err
			}
			out.Credited = true
		}
		if d.RefundAfterCredit {
			// saldo sudah dikredit; koreksi lewat penyesuaian admin
			log.Printf("[WARN] top-up %s di-refund di Midtrans setelah saldo dikredit", p.PaymentOrderID)
		}

		if err := tx.Model(&model.PaymentModel{}).
			Where("payment_id = ?", p.PaymentID).
			Updates(d.Updates).Error; err != nil {
			return err
		}
		return tx.First(&p, "payment_id = ?", p.PaymentID).Error
	})
	if err != nil {
		return out, err
	}
	return out, nil
}

/* =========================================================
   Expiry
========================================================= */

// ExpireStale: top-up open yang lebih tua dari cutoff → expired.
func ExpireStale(ctx context.Context, db *gorm.DB, cutoff, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Model(&model.PaymentModel{}).
		Where("payment_status IN ? AND payment_created_at < ?", []model.PaymentStatus{
			model.PaymentStatusInitiated,
			model.PaymentStatusPending,
		}, cutoff).
		Updates(map[string]any{
			"payment_status":     model.PaymentStatusExpired,
			"payment_expired_at": now,
			"payment_updated_at": now,
		})
	return res.RowsAffected, res.Error
}

// FindUserPayment: payment milik user.
func FindUserPayment(ctx context.Context, db *gorm.DB, userID, paymentID uuid.UUID) (*model.PaymentModel, error) {
	var p model.PaymentModel
	if err := db.WithContext(ctx).
		First(&p, "payment_id = ? AND payment_user_id = ?", paymentID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}
