package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseCodeStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.Equal(t, "active", (&PurchaseCodeModel{}).Status(now))
	assert.Equal(t, "active", (&PurchaseCodeModel{PurchaseCodeExpiresAt: &future}).Status(now))
	assert.Equal(t, "expired", (&PurchaseCodeModel{PurchaseCodeExpiresAt: &past}).Status(now))
	assert.Equal(t, "expired", (&PurchaseCodeModel{PurchaseCodeExpiresAt: &now}).Status(now))
	assert.Equal(t, "used", (&PurchaseCodeModel{PurchaseCodeExpiresAt: &past, PurchaseCodeUsedAt: &past}).Status(now))
}
