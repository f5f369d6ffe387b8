package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCodesRequestTarget(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cid := uuid.New()

	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{"course only", `{"course_id":"` + cid.String() + `","count":5}`, true},
		{"amount only", `{"amount":"50000","count":5}`, true},
		{"both", `{"course_id":"` + cid.String() + `","amount":50000,"count":5}`, false},
		{"neither", `{"count":5}`, false},
		{"zero amount", `{"amount":0,"count":5}`, false},
		{"expired", `{"amount":1000,"count":1,"expires_at":"2025-12-31T00:00:00Z"}`, false},
		{"future expiry", `{"amount":1000,"count":1,"expires_at":"2026-02-01T00:00:00Z"}`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var r CreateCodesRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &r))
			r.Normalize()
			err := r.Check(now)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCreateCodesRequestTemplate(t *testing.T) {
	var r CreateCodesRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"25000.499","count":2,"note":"  promo  "}`), &r))
	r.Normalize()

	admin := uuid.New()
	tmpl := r.Template(admin)
	require.NotNil(t, tmpl.PurchaseCodeAmount)
	assert.Equal(t, "25000.50", tmpl.PurchaseCodeAmount.StringFixed(2))
	assert.Nil(t, tmpl.PurchaseCodeCourseID)
	assert.Equal(t, "promo", *tmpl.PurchaseCodeNote)
	assert.Equal(t, admin, *tmpl.PurchaseCodeCreatedBy)
}
