package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"elearning_backend/internals/features/finance/balances/model"
)

// MaxAdjustment: batas satu kali penyesuaian admin.
var MaxAdjustment = decimal.NewFromInt(100_000_000)

// AdjustBalanceRequest: positif = DEPOSIT, negatif = ADJUSTMENT.
// amount boleh string "15000.50" atau number.
type AdjustBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note" validate:"omitempty,max=500"`
}

func (r *AdjustBalanceRequest) Normalize() {
	r.Note = strings.TrimSpace(r.Note)
	r.Amount = r.Amount.Round(2)
}

func (r *AdjustBalanceRequest) Check() error {
	if r.Amount.IsZero() {
		return errors.New("amount tidak boleh 0")
	}
	if r.Amount.Abs().GreaterThan(MaxAdjustment) {
		return errors.New("amount melebihi batas penyesuaian")
	}
	return nil
}

// TxType: jenis ledger sesuai tanda amount.
func (r *AdjustBalanceRequest) TxType() string {
	if r.Amount.IsPositive() {
		return model.TxDeposit
	}
	return model.TxAdjustment
}

type TransactionResponse struct {
	ID           uuid.UUID       `json:"balance_transaction_id"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Reference    *string         `json:"reference,omitempty"`
	Note         *string         `json:"note,omitempty"`
	CreatedBy    *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func FromModel(m *model.BalanceTransactionModel) TransactionResponse {
	return TransactionResponse{
		ID:           m.BalanceTransactionID,
		Amount:       m.BalanceTransactionAmount,
		Type:         m.BalanceTransactionType,
		BalanceAfter: m.BalanceTransactionBalanceAfter,
		Reference:    m.BalanceTransactionReference,
		Note:         m.BalanceTransactionNote,
		CreatedBy:    m.BalanceTransactionCreatedBy,
		CreatedAt:    m.BalanceTransactionCreatedAt,
	}
}

func FromModels(rows []model.BalanceTransactionModel) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type BalanceResponse struct {
	Balance decimal.Decimal       `json:"balance"`
	Recent  []TransactionResponse `json:"recent_transactions"`
}
