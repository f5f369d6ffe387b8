package constants

import (
	"fmt"
	"strings"
)

const (
	RoleUser    = "USER"
	RoleTeacher = "TEACHER"
	RoleAdmin   = "ADMIN"
)

// Template pesan error role
const (
	ErrOnlyTeachersCanAccess = "Hanya teacher atau admin yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess   = "Hanya admin yang boleh mengakses fitur %s."
)

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleUser,
		RoleTeacher,
		RoleAdmin,
	}

	TeacherAndAbove = []string{
		RoleTeacher,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)

// NormalizeRole menerima "teacher", " Teacher " dst → "TEACHER". Kosong kalau tidak dikenal.
func NormalizeRole(r string) string {
	r = strings.ToUpper(strings.TrimSpace(r))
	for _, known := range AllRoles {
		if r == known {
			return r
		}
	}
	return ""
}

func IsTeacherOrAdmin(role string) bool {
	return role == RoleTeacher || role == RoleAdmin
}
