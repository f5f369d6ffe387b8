package helper

import (
	"errors"
	"regexp"
	"strings"
)

var (
	reLetter   = regexp.MustCompile(`[A-Za-z]`)
	reNumber   = regexp.MustCompile(`[0-9]`)
	reUserName = regexp.MustCompile(`^[a-zA-Z0-9._]{3,50}$`)
)

func isAlphaNumeric(s string) bool {
	return reLetter.MatchString(s) && reNumber.MatchString(s)
}

// ValidatePasswordStrength: minimal 8 karakter, ada huruf & angka
func ValidatePasswordStrength(pw string) error {
	if len(pw) < 8 {
		return errors.New("Password minimal 8 karakter")
	}
	if !isAlphaNumeric(pw) {
		return errors.New("Password harus mengandung huruf dan angka")
	}
	return nil
}

func ValidateUserName(name string) error {
	if !reUserName.MatchString(name) {
		return errors.New("Username 3-50 karakter, hanya huruf, angka, titik, underscore")
	}
	return nil
}

// NormalizeAnswer: jawaban keamanan dibandingkan case-insensitive tanpa spasi berlebih
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// UserNameFromEmail: kandidat username untuk akun Google
func UserNameFromEmail(email string) string {
	local := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	local = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '_' {
			return r
		}
		return -1
	}, local)
	if len(local) < 3 {
		local = "user_" + local
	}
	if len(local) > 40 {
		local = local[:40]
	}
	return local
}
