package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	courseService "elearning_backend/internals/features/courses/courses/service"
	"elearning_backend/internals/features/finance/purchases/model"
	helper "elearning_backend/internals/helpers"
)

const maxCodeRetries = 3

// CreateCodes: insert batch kode dari template. Tabrakan nilai (sangat jarang)
// diulang dengan batch baru.
func CreateCodes(ctx context.Context, db *gorm.DB, tmpl model.PurchaseCodeModel, count int) ([]model.PurchaseCodeModel, error) {
	if tmpl.PurchaseCodeCourseID != nil {
		if _, err := courseService.FindCourse(ctx, db, *tmpl.PurchaseCodeCourseID); err != nil {
			return nil, err
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxCodeRetries; attempt++ {
		values, err := GenerateCodes(count)
		if err != nil {
			return nil, err
		}
		rows := make([]model.PurchaseCodeModel, 0, count)
		for _, v := range values {
			r := tmpl
			r.PurchaseCodeID = uuid.Nil
			r.PurchaseCodeValue = v
			rows = append(rows, r)
		}
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.CreateInBatches(&rows, 100).Error
		})
		if err == nil {
			return rows, nil
		}
		if !helper.IsUniqueViolation(err) {
			return nil, err
		}
		log.Printf("[WARN] purchase code collision, retry %d/%d", attempt, maxCodeRetries)
		lastErr = err
	}
	return nil, lastErr
}
