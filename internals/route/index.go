// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"elearning_backend/internals/constants"
	helperOSS "elearning_backend/internals/helpers/oss"
	authMiddleware "elearning_backend/internals/middlewares/auth"
	routeDetails "elearning_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	// ===== OSS (opsional; tanpa env → upload 503) =====
	blob := helperOSS.NewBlobServiceFromEnv()

	mountAPI(app, db, Authn{
		Required: authMiddleware.AuthMiddleware(db),
		Optional: authMiddleware.OptionalAuth(db),
	}, blob)
}

// Authn: middleware autentikasi untuk grup /api/*.
type Authn struct {
	Required fiber.Handler
	Optional fiber.Handler
}

// mountAPI: grup per role + semua route fitur.
func mountAPI(app fiber.Router, db *gorm.DB, authn Authn, blob helperOSS.BlobService) {
	// ===================== GROUPS =====================

	// PUBLIC → JWT opsional
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public", authn.Optional)

	// PRIVATE (USER) → semua role yang login
	log.Println("[INFO] Setting up PRIVATE group...")
	user := app.Group("/api/u", authn.Required)

	// TEACHER → teacher & admin
	log.Println("[INFO] Setting up TEACHER group...")
	teacher := app.Group("/api/t",
		authn.Required,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorTeacher("Authoring"), constants.TeacherAndAbove),
	)

	// ADMIN
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a",
		authn.Required,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("Admin"), constants.AdminOnly),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting User routes...")
	routeDetails.UserRoutes(user, db)
	routeDetails.UserAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Course routes...")
	routeDetails.CoursePublicRoutes(public, db)
	routeDetails.CourseUserRoutes(user, db)
	routeDetails.CourseTeacherRoutes(teacher, db, blob)

	log.Println("[INFO] Mounting Finance routes...")
	routeDetails.FinancePublicRoutes(public, db)
	routeDetails.FinanceUserRoutes(user, db)
	routeDetails.FinanceAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Dashboard routes...")
	routeDetails.DashboardRoutes(user, teacher, admin, db)
}
