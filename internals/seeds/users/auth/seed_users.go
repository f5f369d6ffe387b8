package user

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"gorm.io/gorm"

	"elearning_backend/internals/configs"
	"elearning_backend/internals/constants"
	authHelper "elearning_backend/internals/features/users/auth/helper"
	"elearning_backend/internals/features/users/user/model"
)

type UserSeed struct {
	UserName         string `json:"user_name"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Role             string `json:"role"`
	Grade            string `json:"grade"`
	Division         string `json:"division"`
	Curriculum       string `json:"curriculum"`
	SecurityQuestion string `json:"security_question"`
	SecurityAnswer   string `json:"security_answer"`
}

// SeedAdminFromEnv: buat akun ADMIN dari ADMIN_EMAIL / ADMIN_PASSWORD kalau belum ada.
func SeedAdminFromEnv(db *gorm.DB) {
	email := strings.ToLower(strings.TrimSpace(configs.GetEnv("ADMIN_EMAIL", "")))
	password := configs.GetEnv("ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		log.Println("[SEED] ADMIN_EMAIL/ADMIN_PASSWORD kosong, admin seed dilewati")
		return
	}
	seedOne(db, UserSeed{
		UserName: configs.GetEnv("ADMIN_USERNAME", "admin"),
		Email:    email,
		Password: password,
		Role:     constants.RoleAdmin,
	})
}

func SeedUsersFromJSON(db *gorm.DB, filePath string) {
	log.Println("[SEED] Membaca file user:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("[SEED] Gagal membaca file JSON: %v", err)
		return
	}

	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Printf("[SEED] Gagal decode JSON: %v", err)
		return
	}
	for _, data := range inputs {
		seedOne(db, data)
	}
}

func seedOne(db *gorm.DB, data UserSeed) {
	data.Email = strings.ToLower(strings.TrimSpace(data.Email))

	var existing model.UserModel
	if err := db.Where("LOWER(email) = ?", data.Email).First(&existing).Error; err == nil {
		log.Printf("[SEED] User '%s' sudah ada, dilewati.", data.Email)
		return
	}

	role := constants.NormalizeRole(data.Role)
	if role == "" {
		role = constants.RoleUser
	}

	// hash password sebelum disimpan
	hashedPassword, err := authHelper.HashPassword(data.Password)
	if err != nil {
		log.Printf("[SEED] Gagal hash password untuk '%s': %v", data.Email, err)
		return
	}

	newUser := model.UserModel{
		UserName:   data.UserName,
		FullName:   optional(data.FullName),
		Email:      data.Email,
		Password:   hashedPassword,
		Role:       role,
		Grade:      optional(data.Grade),
		Division:   optional(data.Division),
		Curriculum: optional(data.Curriculum),
		IsActive:   true,
	}
	if q := optional(data.SecurityQuestion); q != nil {
		newUser.SecurityQuestion = q
		if a, err := authHelper.HashSecurityAnswer(data.SecurityAnswer); err == nil {
			newUser.SecurityAnswer = &a
		} else if data.SecurityAnswer != "" {
			log.Printf("[SEED] Jawaban keamanan '%s' dilewati: %v", data.Email, err)
		}
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("[SEED] Gagal insert user '%s': %v", data.Email, err)
		return
	}
	log.Printf("[SEED] Berhasil insert user '%s' (%s)", data.Email, role)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
