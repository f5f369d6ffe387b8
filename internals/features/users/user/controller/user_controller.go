package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"elearning_backend/internals/constants"
	authRepo "elearning_backend/internals/features/users/auth/repository"
	"elearning_backend/internals/features/users/user/dto"
	"elearning_backend/internals/features/users/user/model"
	helper "elearning_backend/internals/helpers"
)

type UserController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Validator: validator.New()}
}

func (uc *UserController) findUser(c *fiber.Ctx, id uuid.UUID) (*model.UserModel, error) {
	var user model.UserModel
	if err := uc.DB.WithContext(c.UserContext()).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil user")
	}
	return &user, nil
}

/* ===================== USER ===================== */

// GET /api/u/me
func (uc *UserController) GetMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	user, err := uc.findUser(c, userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "User profile fetched successfully", dto.FromModel(*user))
}

// PATCH /api/u/me
func (uc *UserController) UpdateMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.UpdateMeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	updates, fieldErrs := req.ToUpdates()
	if len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs)
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	if err := uc.DB.WithContext(c.UserContext()).
		Model(&model.UserModel{}).
		Where("id = ?", userID).
		Updates(updates).Error; err != nil {
		log.Printf("[ERROR] update profile user=%s: %v", userID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal update profil")
	}

	user, err := uc.findUser(c, userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Profil berhasil diperbarui", dto.FromModel(*user))
}

/* ===================== ADMIN ===================== */

var userSortColumns = map[string]string{
	"created_at": "created_at",
	"user_name":  "user_name",
	"email":      "email",
	"balance":    "balance",
}

// GET /api/a/users?q=&role=&is_active=&page=&per_page=
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	q := uc.DB.WithContext(c.UserContext()).Model(&model.UserModel{})
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + s + "%"
		q = q.Where("user_name ILIKE ? OR email ILIKE ? OR full_name ILIKE ?", like, like, like)
	}
	if r := c.Query("role"); r != "" {
		role := constants.NormalizeRole(r)
		if role == "" {
			return helper.JsonError(c, fiber.StatusBadRequest, "role tidak valid")
		}
		q = q.Where("role = ?", role)
	}
	if a := c.Query("is_active"); a != "" {
		q = q.Where("is_active = ?", a == "true" || a == "1")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung user")
	}
	var users []model.UserModel
	if err := q.Order(p.OrderClause(userSortColumns, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&users).Error; err != nil {
		log.Println("[ERROR] Failed to fetch users:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve users")
	}

	return helper.JsonList(c, "Users fetched successfully", dto.FromModels(users), p.Pagination(total))
}

// GET /api/a/users/:id
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	user, err := uc.findUser(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(*user))
}

// PATCH /api/a/users/:id/role
func (uc *UserController) UpdateRole(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	if err := uc.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	// admin tidak bisa menurunkan role dirinya sendiri
	if me, _ := helper.GetUserIDFromToken(c); me == id && req.Role != constants.RoleAdmin {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak bisa mengubah role akun sendiri")
	}

	user, err := uc.findUser(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := uc.DB.WithContext(c.UserContext()).Model(user).Update("role", req.Role).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal update role")
	}
	user.Role = req.Role
	log.Printf("[INFO] role user=%s → %s", id, req.Role)
	return helper.JsonUpdated(c, "Role diperbarui", dto.FromModel(*user))
}

// PATCH /api/a/users/:id/active
func (uc *UserController) UpdateActive(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.UpdateActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := uc.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if me, _ := helper.GetUserIDFromToken(c); me == id && !*req.IsActive {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak bisa menonaktifkan akun sendiri")
	}

	user, err := uc.findUser(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()
	if err := uc.DB.WithContext(ctx).Model(user).Update("is_active", *req.IsActive).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal update status user")
	}
	user.IsActive = *req.IsActive
	if !*req.IsActive {
		if err := authRepo.RevokeAllRefreshTokens(ctx, uc.DB, id); err != nil {
			log.Printf("[WARN] revoke refresh tokens user=%s: %v", id, err)
		}
	}
	return helper.JsonUpdated(c, "Status user diperbarui", dto.FromModel(*user))
}
