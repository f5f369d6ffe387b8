package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"elearning_backend/internals/features/dashboards/service"
	helper "elearning_backend/internals/helpers"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// GET /api/u/dashboard
func (h *DashboardController) User(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	out, err := service.BuildUserDashboard(c.UserContext(), h.DB, userID)
	if err != nil {
		log.Printf("[ERROR] user dashboard %s: %v", userID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat dashboard")
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/t/dashboard
func (h *DashboardController) Teacher(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	out, err := service.BuildTeacherDashboard(c.UserContext(), h.DB, userID)
	if err != nil {
		log.Printf("[ERROR] teacher dashboard %s: %v", userID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat dashboard")
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/a/dashboard
func (h *DashboardController) Admin(c *fiber.Ctx) error {
	out, err := service.BuildAdminDashboard(c.UserContext(), h.DB)
	if err != nil {
		log.Printf("[ERROR] admin dashboard: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat dashboard")
	}
	return helper.JsonOK(c, "ok", out)
}
