package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* ===== Tipe transaksi ===== */

const (
	TxDeposit    = "DEPOSIT"    // top-up Midtrans / setoran admin
	TxPurchase   = "PURCHASE"   // beli course (negatif)
	TxRefund     = "REFUND"     // revoke purchase dengan refund
	TxAdjustment = "ADJUSTMENT" // koreksi manual admin
	TxCodeTopup  = "CODE_TOPUP" // redeem kode bernilai saldo
)

var TxTypes = []string{TxDeposit, TxPurchase, TxRefund, TxAdjustment, TxCodeTopup}

// BalanceTransactionModel: ledger saldo. Amount bertanda (+ kredit, - debit).
type BalanceTransactionModel struct {
	BalanceTransactionID           uuid.UUID       `json:"balance_transaction_id"              gorm:"column:balance_transaction_id;type:uuid;default:gen_random_uuid();primaryKey"`
	BalanceTransactionUserID       uuid.UUID       `json:"balance_transaction_user_id"         gorm:"column:balance_transaction_user_id;type:uuid;not null"`
	BalanceTransactionAmount       decimal.Decimal `json:"balance_transaction_amount"          gorm:"column:balance_transaction_amount;type:numeric(14,2);not null"`
	BalanceTransactionType         string          `json:"balance_transaction_type"            gorm:"column:balance_transaction_type;type:varchar(20);not null"`
	BalanceTransactionBalanceAfter decimal.Decimal `json:"balance_transaction_balance_after"   gorm:"column:balance_transaction_balance_after;type:numeric(14,2);not null"`
	BalanceTransactionReference    *string         `json:"balance_transaction_reference,omitempty" gorm:"column:balance_transaction_reference;type:varchar(120)"`
	BalanceTransactionNote         *string         `json:"balance_transaction_note,omitempty"  gorm:"column:balance_transaction_note"`
	BalanceTransactionCreatedBy    *uuid.UUID      `json:"balance_transaction_created_by,omitempty" gorm:"column:balance_transaction_created_by;type:uuid"`
	BalanceTransactionCreatedAt    time.Time       `json:"balance_transaction_created_at"      gorm:"column:balance_transaction_created_at;type:timestamptz;autoCreateTime"`
}

func (BalanceTransactionModel) TableName() string { return "balance_transactions" }
