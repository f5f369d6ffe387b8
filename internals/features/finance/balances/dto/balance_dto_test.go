package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elearning_backend/internals/features/finance/balances/model"
)

func TestAdjustBalanceRequestAcceptsStringAndNumber(t *testing.T) {
	for _, raw := range []string{`{"amount":"15000.505"}`, `{"amount":15000.505}`} {
		var r AdjustBalanceRequest
		require.NoError(t, json.Unmarshal([]byte(raw), &r), raw)
		r.Normalize()
		assert.Equal(t, "15000.51", r.Amount.StringFixed(2), raw)
		assert.NoError(t, r.Check())
		assert.Equal(t, model.TxDeposit, r.TxType())
	}
}

func TestAdjustBalanceRequestNegativeIsAdjustment(t *testing.T) {
	var r AdjustBalanceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":-2500,"note":"  koreksi  "}`), &r))
	r.Normalize()
	assert.Equal(t, model.TxAdjustment, r.TxType())
	assert.Equal(t, "koreksi", r.Note)
}

func TestAdjustBalanceRequestRejectsZeroAndHuge(t *testing.T) {
	var r AdjustBalanceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":0}`), &r))
	assert.Error(t, r.Check())

	require.NoError(t, json.Unmarshal([]byte(`{"amount":"100000000.01"}`), &r))
	assert.Error(t, r.Check())
}
