package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"elearning_backend/internals/features/finance/balances/model"
	userModel "elearning_backend/internals/features/users/user/model"
)

var (
	ErrInsufficientBalance = errors.New("saldo tidak mencukupi")
	ErrZeroAmount          = errors.New("nominal tidak boleh nol")
	ErrUserNotFound        = errors.New("user tidak ditemukan")
)

// Entry: satu mutasi saldo.
type Entry struct {
	UserID    uuid.UUID
	Amount    decimal.Decimal // bertanda
	Type      string
	Reference string
	Note      string
	CreatedBy *uuid.UUID
}

// NextBalance: saldo baru setelah amount diterapkan. Tidak boleh < 0.
func NextBalance(current, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsZero() {
		return current, ErrZeroAmount
	}
	next := current.Add(amount).Round(2)
	if next.IsNegative() {
		return current, ErrInsufficientBalance
	}
	return next, nil
}

// Apply: kunci baris user (FOR UPDATE), hitung saldo baru, tulis ledger.
// Wajib dipanggil di dalam transaksi; gagal = tidak ada yang berubah.
func Apply(tx *gorm.DB, e Entry) (*model.BalanceTransactionModel, error) {
	var u userModel.UserModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "balance").
		First(&u, "id = ?", e.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	next, err := NextBalance(u.Balance, e.Amount)
	if err != nil {
		return nil, err
	}

	if err := tx.Model(&userModel.UserModel{}).
		Where("id = ?", e.UserID).
		Updates(map[string]any{"balance": next, "updated_at": time.Now()}).Error; err != nil {
		return nil, err
	}

	row := model.BalanceTransactionModel{
		BalanceTransactionUserID:       e.UserID,
		BalanceTransactionAmount:       e.Amount.Round(2),
		BalanceTransactionType:         e.Type,
		BalanceTransactionBalanceAfter: next,
		BalanceTransactionReference:    nonEmpty(e.Reference),
		BalanceTransactionNote:         nonEmpty(e.Note),
		BalanceTransactionCreatedBy:    e.CreatedBy,
	}
	if err := tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CurrentBalance: baca tanpa lock.
func CurrentBalance(tx *gorm.DB, userID uuid.UUID) (decimal.Decimal, error) {
	var u userModel.UserModel
	if err := tx.Select("id", "balance").First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrUserNotFound
		}
		return decimal.Zero, err
	}
	return u.Balance, nil
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
