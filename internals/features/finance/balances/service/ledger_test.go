package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNextBalanceCreditAndDebit(t *testing.T) {
	got, err := NextBalance(d("50000"), d("25000.50"))
	require.NoError(t, err)
	assert.Equal(t, "75000.50", got.StringFixed(2))

	got, err = NextBalance(d("50000"), d("-50000"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestNextBalanceRejectsOverdraft(t *testing.T) {
	got, err := NextBalance(d("10000"), d("-10000.01"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, "10000.00", got.StringFixed(2), "saldo lama dikembalikan")
}

func TestNextBalanceRejectsZero(t *testing.T) {
	_, err := NextBalance(d("10000"), decimal.Zero)
	assert.ErrorIs(t, err, ErrZeroAmount)
}
