package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	courseModel "elearning_backend/internals/features/courses/courses/model"
	courseService "elearning_backend/internals/features/courses/courses/service"
	balanceModel "elearning_backend/internals/features/finance/balances/model"
	ledger "elearning_backend/internals/features/finance/balances/service"
	"elearning_backend/internals/features/finance/purchases/model"
	helper "elearning_backend/internals/helpers"
)

var (
	ErrAlreadyOwned   = errors.New("course sudah dimiliki")
	ErrCodeNotFound   = errors.New("kode tidak ditemukan")
	ErrCodeUsed       = errors.New("kode sudah dipakai")
	ErrCodeExpired    = errors.New("kode sudah kedaluwarsa")
	ErrCourseNotReady = errors.New("course belum tersedia")
)

/* ===== Beli dengan saldo ===== */

// PurchasePlan: apa yang akan ditulis untuk satu pembelian.
type PurchasePlan struct {
	Purchase model.PurchaseModel
	Debit    *ledger.Entry // nil untuk course gratis
}

// PlanBuy: course gratis → FREE; berbayar → debit PURCHASE lalu purchase BALANCE.
func PlanBuy(course *courseModel.CourseModel, actor courseService.Actor, owned bool) (PurchasePlan, error) {
	if !course.CourseIsPublished {
		return PurchasePlan{}, ErrCourseNotReady
	}
	if owned || actor.CanManage(course) {
		return PurchasePlan{}, ErrAlreadyOwned
	}
	plan := PurchasePlan{Purchase: model.PurchaseModel{
		PurchaseUserID:   actor.UserID,
		PurchaseCourseID: course.CourseID,
		PurchaseAmount:   decimal.Zero,
		PurchaseSource:   model.SourceFree,
	}}
	if course.IsFree() {
		return plan, nil
	}
	plan.Purchase.PurchaseAmount = course.CoursePrice
	plan.Purchase.PurchaseSource = model.SourceBalance
	plan.Debit = &ledger.Entry{
		UserID:    actor.UserID,
		Amount:    course.CoursePrice.Neg(),
		Type:      balanceModel.TxPurchase,
		Reference: "course:" + course.CourseID.String(),
		Note:      "Pembelian " + course.CourseTitle,
		CreatedBy: &actor.UserID,
	}
	return plan, nil
}

// purchaseWriter: langkah tulis pembelian di dalam satu transaksi.
type purchaseWriter interface {
	Debit(e ledger.Entry) (*balanceModel.BalanceTransactionModel, error)
	Insert(row *model.PurchaseModel) error
}

type txWriter struct{ tx *gorm.DB }

func (w txWriter) Debit(e ledger.Entry) (*balanceModel.BalanceTransactionModel, error) {
	return ledger.Apply(w.tx, e)
}

func (w txWriter) Insert(row *model.PurchaseModel) error { return createPurchase(w.tx, row) }

// executePlan: debit dulu; debit gagal = purchase tidak ditulis.
func executePlan(w purchaseWriter, plan PurchasePlan) (*model.PurchaseModel, *balanceModel.BalanceTransactionModel, error) {
	var entry *balanceModel.BalanceTransactionModel
	if plan.Debit != nil {
		var err error
		if entry, err = w.Debit(*plan.Debit); err != nil {
			return nil, nil, err
		}
	}
	row := plan.Purchase
	if err := w.Insert(&row); err != nil {
		return nil, nil, err
	}
	return &row, entry, nil
}

// Buy: seluruhnya dalam satu transaksi; saldo kurang = tidak ada perubahan.
func Buy(ctx context.Context, db *gorm.DB, actor courseService.Actor, courseID uuid.UUID) (*model.PurchaseModel, *balanceModel.BalanceTransactionModel, error) {
	var (
		out   *model.PurchaseModel
		entry *balanceModel.BalanceTransactionModel
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := courseService.FindCourse(ctx, tx, courseID)
		if err != nil {
			return err
		}
		owned, err := courseService.HasPurchased(ctx, tx, actor.UserID, course.CourseID)
		if err != nil {
			return err
		}
		plan, err := PlanBuy(course, actor, owned)
		if err != nil {
			return err
		}
		out, entry, err = executePlan(txWriter{tx: tx}, plan)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return out, entry, nil
}

/* ===== Grant / Revoke (admin) ===== */

// Grant: akses tanpa bayar (source ADMIN).
func Grant(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (*model.PurchaseModel, error) {
	var out *model.PurchaseModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := courseService.FindCourse(ctx, tx, courseID); err != nil {
			return err
		}
		if _, err := ledger.CurrentBalance(tx, userID); err != nil {
			return err
		}
		row := model.PurchaseModel{
			PurchaseUserID:   userID,
			PurchaseCourseID: courseID,
			PurchaseAmount:   decimal.Zero,
			PurchaseSource:   model.SourceAdmin,
		}
		if err := createPurchase(tx, &row); err != nil {
			return err
		}
		out = &row
		return nil
	})
	return out, err
}

// Revoke: hapus purchase; refund=true mengembalikan amount ke saldo (REFUND).
func Revoke(ctx context.Context, db *gorm.DB, purchaseID uuid.UUID, refund bool, adminID uuid.UUID) (*model.PurchaseModel, *balanceModel.BalanceTransactionModel, error) {
	var (
		p     model.PurchaseModel
		entry *balanceModel.BalanceTransactionModel
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "purchase_id = ?", purchaseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Purchase tidak ditemukan")
			}
			return err
		}
		if refund && p.PurchaseAmount.IsPositive() {
			var err error
			entry, err = ledger.Apply(tx, ledger.Entry{
				UserID:    p.PurchaseUserID,
				Amount:    p.PurchaseAmount,
				Type:      balanceModel.TxRefund,
				Reference: "purchase:" + p.PurchaseID.String(),
				Note:      "Refund pembelian course",
				CreatedBy: &adminID,
			})
			if err != nil {
				return err
			}
		}
		return tx.Delete(&model.PurchaseModel{}, "purchase_id = ?", p.PurchaseID).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &p, entry, nil
}

/* ===== Redeem ===== */

// RedeemResult: salah satu dari Purchase / Transaction terisi.
type RedeemResult struct {
	Code        *model.PurchaseCodeModel
	Purchase    *model.PurchaseModel
	Transaction *balanceModel.BalanceTransactionModel
}

// Redeem: kunci baris kode, validasi, lalu beri akses course atau kredit saldo.
func Redeem(ctx context.Context, db *gorm.DB, userID uuid.UUID, rawCode string, now time.Time) (*RedeemResult, error) {
	value, err := NormalizeCode(rawCode)
	if err != nil {
		return nil, err
	}
	res := &RedeemResult{}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var code model.PurchaseCodeModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&code, "purchase_code_value = ?", value).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}
			return err
		}
		if code.IsUsed() {
			return ErrCodeUsed
		}
		if code.IsExpired(now) {
			return ErrCodeExpired
		}

		switch {
		case code.PurchaseCodeCourseID != nil:
			course, err := courseService.FindCourse(ctx, tx, *code.PurchaseCodeCourseID)
			if err != nil {
				return err
			}
			if owned, err := courseService.HasPurchased(ctx, tx, userID, course.CourseID); err != nil {
				return err
			} else if owned {
				return ErrAlreadyOwned
			}
			row := model.PurchaseModel{
				PurchaseUserID:   userID,
				PurchaseCourseID: course.CourseID,
				PurchaseAmount:   decimal.Zero,
				PurchaseSource:   model.SourceCode,
				PurchaseCodeID:   &code.PurchaseCodeID,
			}
			if err := createPurchase(tx, &row); err != nil {
				return err
			}
			res.Purchase = &row

		case code.PurchaseCodeAmount != nil:
			entry, err := ledger.Apply(tx, ledger.Entry{
				UserID:    userID,
				Amount:    *code.PurchaseCodeAmount,
				Type:      balanceModel.TxCodeTopup,
				Reference: "code:" + code.PurchaseCodeValue,
				CreatedBy: &userID,
			})
			if err != nil {
				return err
			}
			res.Transaction = entry

		default:
			return ErrCodeNotFound
		}

		code.PurchaseCodeUsedBy = &userID
		code.PurchaseCodeUsedAt = &now
		if err := tx.Model(&model.PurchaseCodeModel{}).
			Where("purchase_code_id = ?", code.PurchaseCodeID).
			Updates(map[string]any{
				"purchase_code_used_by": userID,
				"purchase_code_used_at": now,
			}).Error; err != nil {
			return err
		}
		res.Code = &code
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

/* ===== helpers ===== */

func createPurchase(tx *gorm.DB, row *model.PurchaseModel) error {
	if err := tx.Create(row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return ErrAlreadyOwned
		}
		return err
	}
	return nil
}

// CourseTitles: judul course untuk list purchase/kode (termasuk yang soft-delete).
func CourseTitles(ctx context.Context, db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]courseModel.CourseModel, error) {
	out := make(map[uuid.UUID]courseModel.CourseModel, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []courseModel.CourseModel
	if err := db.WithContext(ctx).Unscoped().
		Select("course_id", "course_title", "course_slug", "course_image_url", "course_thumbnail_url", "course_price").
		Where("course_id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.CourseID] = r
	}
	return out, nil
}
