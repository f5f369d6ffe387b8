package helper

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword bcrypt dengan cost default
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPasswordHash nil kalau cocok
func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// batas input bcrypt
const maxAnswerBytes = 72

var ErrSecurityAnswerInvalid = errors.New("Jawaban keamanan kosong atau terlalu panjang")

// HashSecurityAnswer: jawaban dinormalisasi dulu lalu di-bcrypt seperti password.
func HashSecurityAnswer(answer string) (string, error) {
	n := NormalizeAnswer(answer)
	if n == "" || len(n) > maxAnswerBytes {
		return "", ErrSecurityAnswerInvalid
	}
	return HashPassword(n)
}

// CheckSecurityAnswer true kalau jawaban cocok dengan hash tersimpan
func CheckSecurityAnswer(hash, answer string) bool {
	n := NormalizeAnswer(answer)
	if hash == "" || n == "" || len(n) > maxAnswerBytes {
		return false
	}
	return CheckPasswordHash(hash, n) == nil
}

// RandomPassword untuk akun Google (tidak pernah dipakai login manual)
func RandomPassword() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
