package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeRe = regexp.MustCompile(`^[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{4}-[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{4}-[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{4}$`)

func TestGenerateCodeFormat(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, codeRe, code)
	}
}

func TestGenerateCodesUnique(t *testing.T) {
	codes, err := GenerateCodes(500)
	require.NoError(t, err)
	require.Len(t, codes, 500)

	seen := map[string]bool{}
	for _, c := range codes {
		assert.False(t, seen[c], "duplikat %s", c)
		seen[c] = true
	}
}

func TestNormalizeCode(t *testing.T) {
	got, err := NormalizeCode(" abcd efgh-jkmn ")
	require.NoError(t, err)
	assert.Equal(t, "ABCD-EFGH-JKMN", got)

	got, err = NormalizeCode("ABCDEFGHJKMN")
	require.NoError(t, err)
	assert.Equal(t, "ABCD-EFGH-JKMN", got)
}

func TestNormalizeCodeRejects(t *testing.T) {
	for _, in := range []string{"", "ABCD-EFGH", "ABCD-EFGH-JKMN-P", "ABCD-EFGH-JK0N", "ABCD-EFGH-JKIN", "ABCD_EFGH_JKMN"} {
		_, err := NormalizeCode(in)
		assert.ErrorIs(t, err, ErrCodeFormat, in)
	}
}
