package service

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// CodeAlphabet: tanpa 0/O/1/I supaya tidak tertukar saat diketik.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	codeGroups    = 3
	codeGroupSize = 4
	codeLen       = codeGroups * codeGroupSize
)

var ErrCodeFormat = errors.New("format kode tidak valid")

// GenerateCode: XXXX-XXXX-XXXX dari crypto/rand.
func GenerateCode() (string, error) {
	raw := make([]byte, codeLen)
	max := big.NewInt(int64(len(CodeAlphabet)))
	for i := range raw {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		raw[i] = CodeAlphabet[n.Int64()]
	}
	return group(string(raw)), nil
}

// GenerateCodes: n kode unik (dalam satu batch).
func GenerateCodes(n int) ([]string, error) {
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for len(out) < n {
		code, err := GenerateCode()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out, nil
}

// NormalizeCode: input user ("abcd efgh-jkmn") → "ABCD-EFGH-JKMN".
func NormalizeCode(in string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(in) {
		switch {
		case r == '-' || r == ' ' || r == '\t':
			continue
		case !strings.ContainsRune(CodeAlphabet, r):
			return "", ErrCodeFormat
		}
		b.WriteRune(r)
	}
	if b.Len() != codeLen {
		return "", ErrCodeFormat
	}
	return group(b.String()), nil
}

func group(raw string) string {
	parts := make([]string, 0, codeGroups)
	for i := 0; i < len(raw); i += codeGroupSize {
		parts = append(parts, raw[i:i+codeGroupSize])
	}
	return strings.Join(parts, "-")
}
