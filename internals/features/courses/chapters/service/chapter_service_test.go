package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"elearning_backend/internals/features/courses/chapters/model"
)

func TestValidateAttachmentOrder(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	current := []model.ChapterAttachmentModel{{ChapterAttachmentID: a}, {ChapterAttachmentID: b}}

	assert.NoError(t, ValidateAttachmentOrder(current, []uuid.UUID{b, a}))
	assert.Error(t, ValidateAttachmentOrder(current, []uuid.UUID{a}))
	assert.Error(t, ValidateAttachmentOrder(current, []uuid.UUID{a, a}))
	assert.Error(t, ValidateAttachmentOrder(current, []uuid.UUID{a, uuid.New()}))
}
