package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	progressService "elearning_backend/internals/features/courses/progress/service"
	balanceModel "elearning_backend/internals/features/finance/balances/model"
	paymentModel "elearning_backend/internals/features/finance/payments/model"
)

const recentLimit = 5

/* ===== USER ===== */

type PurchasedCourse struct {
	CourseID     uuid.UUID       `json:"course_id"`
	Title        string          `json:"course_title"`
	Slug         string          `json:"course_slug"`
	ThumbnailURL *string         `json:"course_thumbnail_url,omitempty"`
	PurchasedAt  time.Time       `json:"purchased_at"`
	Progress     decimal.Decimal `json:"progress_percentage"`
}

type UserDashboard struct {
	Balance          decimal.Decimal                `json:"balance"`
	PurchasedCount   int                            `json:"purchased_count"`
	CompletedCourses int                            `json:"completed_courses"`
	Courses          []PurchasedCourse              `json:"courses"`
	RecentResults    []progressService.RecentResult `json:"recent_quiz_results"`
}

var hundred = decimal.NewFromInt(100)

func BuildUserDashboard(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*UserDashboard, error) {
	out := &UserDashboard{Courses: []PurchasedCourse{}}
	tx := db.WithContext(ctx)

	var bal struct{ Balance decimal.Decimal }
	if err := tx.Table("users").Select("balance").Where("id = ?", userID).Scan(&bal).Error; err != nil {
		return nil, err
	}
	out.Balance = bal.Balance

	if err := tx.Table("purchases p").
		Select(`c.course_id, c.course_title AS title, c.course_slug AS slug,
		        COALESCE(c.course_thumbnail_url, c.course_image_url) AS thumbnail_url,
		        p.purchase_created_at AS purchased_at`).
		Joins("JOIN courses c ON c.course_id = p.purchase_course_id AND c.course_deleted_at IS NULL").
		Where("p.purchase_user_id = ?", userID).
		Order("p.purchase_created_at DESC").
		Scan(&out.Courses).Error; err != nil {
		return nil, err
	}
	if out.Courses == nil {
		out.Courses = []PurchasedCourse{}
	}

	ids := make([]uuid.UUID, 0, len(out.Courses))
	for _, c := range out.Courses {
		ids = append(ids, c.CourseID)
	}
	pct, err := progressService.CoursePercentages(ctx, db, userID, ids)
	if err != nil {
		return nil, err
	}
	for i := range out.Courses {
		out.Courses[i].Progress = pct[out.Courses[i].CourseID]
		if out.Courses[i].Progress.Equal(hundred) {
			out.CompletedCourses++
		}
	}
	out.PurchasedCount = len(out.Courses)

	out.RecentResults, err = progressService.RecentResults(ctx, db, progressService.ResultFilter{UserID: &userID}, recentLimit)
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* ===== TEACHER ===== */

type TeacherDashboard struct {
	TotalCourses     int64                          `json:"total_courses"`
	PublishedCourses int64                          `json:"published_courses"`
	TotalQuizzes     int64                          `json:"total_quizzes"`
	TotalStudents    int64                          `json:"total_students"`
	TotalPurchases   int64                          `json:"total_purchases"`
	Revenue          decimal.Decimal                `json:"revenue"`
	RecentResults    []progressService.RecentResult `json:"recent_quiz_results"`
}

func BuildTeacherDashboard(ctx context.Context, db *gorm.DB, teacherID uuid.UUID) (*TeacherDashboard, error) {
	out := &TeacherDashboard{}
	tx := db.WithContext(ctx)

	var courses struct {
		Total     int64
		Published int64
	}
	if err := tx.Raw(`
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE course_is_published) AS published
		FROM courses
		WHERE course_teacher_id = ? AND course_deleted_at IS NULL`, teacherID).
		Scan(&courses).Error; err != nil {
		return nil, err
	}
	out.TotalCourses, out.PublishedCourses = courses.Total, courses.Published

	if err := tx.Table("quizzes q").
		Joins("JOIN courses c ON c.course_id = q.quiz_course_id").
		Where("c.course_teacher_id = ? AND c.course_deleted_at IS NULL", teacherID).
		Count(&out.TotalQuizzes).Error; err != nil {
		return nil, err
	}

	var sales struct {
		Students  int64
		Purchases int64
		Revenue   decimal.Decimal
	}
	if err := tx.Raw(`
		SELECT COUNT(DISTINCT p.purchase_user_id) AS students,
		       COUNT(*) AS purchases,
		       COALESCE(SUM(p.purchase_amount), 0) AS revenue
		FROM purchases p
		JOIN courses c ON c.course_id = p.purchase_course_id
		WHERE c.course_teacher_id = ?`, teacherID).
		Scan(&sales).Error; err != nil {
		return nil, err
	}
	out.TotalStudents, out.TotalPurchases, out.Revenue = sales.Students, sales.Purchases, sales.Revenue

	var err error
	out.RecentResults, err = progressService.RecentResults(ctx, db, progressService.ResultFilter{TeacherID: &teacherID}, recentLimit)
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* ===== ADMIN ===== */

type RecentTransaction struct {
	balanceModel.BalanceTransactionModel
	UserName string `json:"user_name"`
}

type AdminDashboard struct {
	UsersByRole        map[string]int64    `json:"users_by_role"`
	TotalUsers         int64               `json:"total_users"`
	TotalCourses       int64               `json:"total_courses"`
	PublishedCourses   int64               `json:"published_courses"`
	TotalPurchases     int64               `json:"total_purchases"`
	Revenue            decimal.Decimal     `json:"revenue"`
	TotalDeposits      decimal.Decimal     `json:"total_deposits"`
	PaidTopups         int64               `json:"paid_topups"`
	PendingTopups      int64               `json:"pending_topups"`
	RecentTransactions []RecentTransaction `json:"recent_transactions"`
}

func BuildAdminDashboard(ctx context.Context, db *gorm.DB) (*AdminDashboard, error) {
	out := &AdminDashboard{UsersByRole: map[string]int64{}, RecentTransactions: []RecentTransaction{}}
	tx := db.WithContext(ctx)

	var roles []struct {
		Role  string
		Total int64
	}
	if err := tx.Table("users").
		Select("role, COUNT(*) AS total").
		Where("deleted_at IS NULL").
		Group("role").
		Scan(&roles).Error; err != nil {
		return nil, err
	}
	for _, r := range roles {
		out.UsersByRole[r.Role] = r.Total
		out.TotalUsers += r.Total
	}

	var courses struct {
		Total     int64
		Published int64
	}
	if err := tx.Raw(`
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE course_is_published) AS published
		FROM courses WHERE course_deleted_at IS NULL`).
		Scan(&courses).Error; err != nil {
		return nil, err
	}
	out.TotalCourses, out.PublishedCourses = courses.Total, courses.Published

	var sales struct {
		Purchases int64
		Revenue   decimal.Decimal
	}
	if err := tx.Raw(`
		SELECT COUNT(*) AS purchases, COALESCE(SUM(purchase_amount), 0) AS revenue
		FROM purchases`).Scan(&sales).Error; err != nil {
		return nil, err
	}
	out.TotalPurchases, out.Revenue = sales.Purchases, sales.Revenue

	var deposits struct{ Total decimal.Decimal }
	if err := tx.Model(&balanceModel.BalanceTransactionModel{}).
		Select("COALESCE(SUM(balance_transaction_amount), 0) AS total").
		Where("balance_transaction_type = ?", balanceModel.TxDeposit).
		Scan(&deposits).Error; err != nil {
		return nil, err
	}
	out.TotalDeposits = deposits.Total

	var topups struct {
		Paid    int64
		Pending int64
	}
	if err := tx.Raw(`
		SELECT COUNT(*) FILTER (WHERE payment_status = ?) AS paid,
		       COUNT(*) FILTER (WHERE payment_status IN ?) AS pending
		FROM payments`,
		paymentModel.PaymentStatusPaid,
		[]paymentModel.PaymentStatus{paymentModel.PaymentStatusInitiated, paymentModel.PaymentStatusPending, paymentModel.PaymentStatusAwaitingCallback},
	).Scan(&topups).Error; err != nil {
		return nil, err
	}
	out.PaidTopups, out.PendingTopups = topups.Paid, topups.Pending

	if err := tx.Table("balance_transactions bt").
		Select("bt.*, u.user_name").
		Joins("JOIN users u ON u.id = bt.balance_transaction_user_id").
		Order("bt.balance_transaction_created_at DESC").
		Limit(10).
		Scan(&out.RecentTransactions).Error; err != nil {
		return nil, err
	}
	return out, nil
}
