package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"elearning_backend/internals/constants"
)

// UserModel merepresentasikan tabel users di database
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserName string    `gorm:"size:50;not null" json:"user_name"`
	FullName *string   `gorm:"size:120" json:"full_name,omitempty"`
	Email    string    `gorm:"size:255;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	GoogleID *string   `gorm:"size:255" json:"-"`
	Role     string    `gorm:"type:varchar(10);not null;default:'USER'" json:"role"`

	// saldo internal (IDR), hanya diubah lewat ledger balances
	Balance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"balance"`

	// atribut untuk rekomendasi course
	Grade      *string `gorm:"size:50" json:"grade,omitempty"`
	Division   *string `gorm:"size:50" json:"division,omitempty"`
	Curriculum *string `gorm:"size:50" json:"curriculum,omitempty"`
	Phone      *string `gorm:"size:20" json:"phone,omitempty"`

	SecurityQuestion *string `json:"security_question,omitempty"`
	SecurityAnswer   *string `json:"-"`

	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(*gorm.DB) error {
	if u.Role == "" {
		u.Role = constants.RoleUser
	}
	return nil
}

func (u *UserModel) IsAdmin() bool   { return u.Role == constants.RoleAdmin }
func (u *UserModel) IsTeacher() bool { return u.Role == constants.RoleTeacher }

// DisplayName: full_name kalau ada, fallback ke user_name
func (u *UserModel) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.UserName
}
