package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMeRequestToUpdates(t *testing.T) {
	var req UpdateMeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"full_name":"  Budi  ","phone":null,"grade":""}`), &req))

	updates, errs := req.ToUpdates()
	assert.Empty(t, errs)
	assert.Equal(t, "Budi", updates["full_name"])
	assert.Contains(t, updates, "phone")
	assert.Nil(t, updates["phone"])
	assert.Nil(t, updates["grade"])
	assert.NotContains(t, updates, "division")
	assert.NotContains(t, updates, "curriculum")
}

func TestUpdateMeRequestTooLong(t *testing.T) {
	var req UpdateMeRequest
	body := `{"phone":"` + strings.Repeat("1", 21) + `"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	updates, errs := req.ToUpdates()
	assert.Empty(t, updates)
	assert.Equal(t, []string{"max=20"}, errs["phone"])
}
