package helper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityAnswerHashed(t *testing.T) {
	hash, err := HashSecurityAnswer("  Kucing  Oren ")
	require.NoError(t, err)
	assert.NotContains(t, strings.ToLower(hash), "kucing")
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.True(t, CheckSecurityAnswer(hash, "kucing oren"))
	assert.True(t, CheckSecurityAnswer(hash, "KUCING OREN"))
	assert.False(t, CheckSecurityAnswer(hash, "kucing hitam"))
	assert.False(t, CheckSecurityAnswer(hash, ""))

	// hash tersimpan tidak bisa dipakai sebagai jawaban
	assert.False(t, CheckSecurityAnswer(hash, hash))
}

func TestSecurityAnswerRejectsPlaintextRow(t *testing.T) {
	assert.False(t, CheckSecurityAnswer("kucing oren", "kucing oren"))
}

func TestHashSecurityAnswerInvalid(t *testing.T) {
	_, err := HashSecurityAnswer("   ")
	assert.ErrorIs(t, err, ErrSecurityAnswerInvalid)

	_, err = HashSecurityAnswer(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrSecurityAnswerInvalid)
}
