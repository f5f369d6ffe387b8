package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"elearning_backend/internals/features/courses/courses/dto"
	"elearning_backend/internals/features/courses/courses/model"
	"elearning_backend/internals/features/courses/courses/service"
	helper "elearning_backend/internals/helpers"
)

type CourseUserController struct {
	DB *gorm.DB
}

func NewCourseUserController(db *gorm.DB) *CourseUserController {
	return &CourseUserController{DB: db}
}

type userTarget struct {
	Grade      *string
	Division   *string
	Curriculum *string
}

// GET /api/u/courses/recommended?limit=
// Skor: grade cocok = 2, kurikulum cocok = 1, divisi ada di course_divisions = 1.
// Course yang sudah dibeli tidak ikut.
func (h *CourseUserController) Recommended(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}
	ctx := c.UserContext()

	var t userTarget
	if err := h.DB.WithContext(ctx).Table("users").
		Select("grade, division, curriculum").
		Where("id = ?", userID).
		Scan(&t).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil profil")
	}

	const scoreExpr = `(CASE WHEN ?::text IS NOT NULL AND LOWER(course_grade) = LOWER(?::text) THEN 2 ELSE 0 END
		+ CASE WHEN ?::text IS NOT NULL AND LOWER(course_curriculum) = LOWER(?::text) THEN 1 ELSE 0 END
		+ CASE WHEN ?::text IS NOT NULL AND EXISTS (SELECT 1 FROM unnest(course_divisions) d WHERE LOWER(d) = LOWER(?::text)) THEN 1 ELSE 0 END)`

	var rows []model.CourseModel
	if err := h.DB.WithContext(ctx).
		Model(&model.CourseModel{}).
		Where("course_is_published = TRUE").
		Where("NOT EXISTS (SELECT 1 FROM purchases p WHERE p.purchase_course_id = courses.course_id AND p.purchase_user_id = ?)", userID).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                scoreExpr + " DESC, course_created_at DESC",
			Vars:               []any{t.Grade, t.Grade, t.Curriculum, t.Curriculum, t.Division, t.Division},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil rekomendasi")
	}

	teachers, err := service.TeacherBriefs(ctx, h.DB, teacherIDsOf(rows))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil teacher")
	}
	return helper.JsonOK(c, "ok", dto.FromModels(rows, teachers))
}

type myCourseRow struct {
	model.CourseModel
	PurchaseCreatedAt time.Time `gorm:"column:purchase_created_at"`
	PurchaseSource    string    `gorm:"column:purchase_source"`
}

type MyCourseResponse struct {
	dto.CourseResponse
	PurchasedAt    time.Time `json:"purchased_at"`
	PurchaseSource string    `json:"purchase_source"`
}

// GET /api/u/courses/mine: course yang sudah dibeli (termasuk yang di-unpublish setelah dibeli).
func (h *CourseUserController) Mine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "purchased_at", "desc", helper.DefaultOpts)
	ctx := c.UserContext()

	base := h.DB.WithContext(ctx).
		Table("courses").
		Joins("JOIN purchases p ON p.purchase_course_id = courses.course_id").
		Where("p.purchase_user_id = ? AND courses.course_deleted_at IS NULL", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung course")
	}
	var rows []myCourseRow
	if err := base.
		Select("courses.*, p.purchase_created_at, p.purchase_source").
		Order(p.OrderClause(map[string]string{
			"purchased_at": "p.purchase_created_at",
			"title":        "courses.course_title",
		}, "purchased_at")).
		Limit(p.Limit()).Offset(p.Offset()).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil course")
	}

	courses := make([]model.CourseModel, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.CourseModel)
	}
	teachers, err := service.TeacherBriefs(ctx, h.DB, teacherIDsOf(courses))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil teacher")
	}
	resp := dto.FromModels(courses, teachers)
	out := make([]MyCourseResponse, 0, len(rows))
	for i, r := range rows {
		out = append(out, MyCourseResponse{
			CourseResponse: resp[i],
			PurchasedAt:    r.PurchaseCreatedAt,
			PurchaseSource: r.PurchaseSource,
		})
	}
	return helper.JsonList(c, "ok", out, p.Pagination(total))
}

func teacherIDsOf(rows []model.CourseModel) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.CourseTeacherID)
	}
	return ids
}
