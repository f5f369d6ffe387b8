package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"elearning_backend/internals/constants"
	"elearning_backend/internals/features/courses/courses/model"
)

func TestActorCanManage(t *testing.T) {
	owner := uuid.New()
	course := &model.CourseModel{CourseID: uuid.New(), CourseTeacherID: owner}

	assert.True(t, Actor{UserID: owner, Role: constants.RoleTeacher}.CanManage(course))
	assert.True(t, Actor{UserID: uuid.New(), Role: constants.RoleAdmin}.CanManage(course))
	assert.False(t, Actor{UserID: uuid.New(), Role: constants.RoleTeacher}.CanManage(course))

	// role turun ke USER: kepemilikan lama tidak berlaku
	assert.False(t, Actor{UserID: owner, Role: constants.RoleUser}.CanManage(course))
}

func TestUniqueIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, uniqueIDs([]uuid.UUID{a, b, a, b, a}))
	assert.Empty(t, uniqueIDs(nil))
}
