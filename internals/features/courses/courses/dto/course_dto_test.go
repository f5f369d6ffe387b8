package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDivisions(t *testing.T) {
	got := NormalizeDivisions([]string{" IPA ", "", "ipa", "IPS", "  "})
	assert.Equal(t, []string{"IPA", "IPS"}, got)
	assert.Empty(t, NormalizeDivisions(nil))
}

func TestValidatePrice(t *testing.T) {
	assert.NoError(t, ValidatePrice(decimal.Zero))
	assert.NoError(t, ValidatePrice(decimal.NewFromInt(150000)))
	assert.Error(t, ValidatePrice(decimal.NewFromInt(-1)))
	assert.Error(t, ValidatePrice(decimal.NewFromInt(2_000_000_000)))
}

func TestCreateCourseToModel(t *testing.T) {
	var req CreateCourseRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"course_title": "  Matematika Dasar  ",
		"course_price": "49999.999",
		"course_grade": "  ",
		"course_divisions": ["IPA", "ipa"]
	}`), &req))
	req.Normalize()
	require.NoError(t, req.Validate())

	teacher := uuid.New()
	m := req.ToModel(teacher, "matematika-dasar")
	assert.Equal(t, "Matematika Dasar", m.CourseTitle)
	assert.Equal(t, teacher, m.CourseTeacherID)
	assert.Equal(t, "50000", m.CoursePrice.String())
	assert.Nil(t, m.CourseGrade)
	assert.Equal(t, pq.StringArray{"IPA"}, m.CourseDivisions)
	assert.False(t, m.IsFree())
}

func TestCreateCourseFreeByDefault(t *testing.T) {
	req := CreateCourseRequest{CourseTitle: "Gratis"}
	m := req.ToModel(uuid.New(), "gratis")
	assert.True(t, m.IsFree())
}

func TestUpdateCourseToUpdates(t *testing.T) {
	var req UpdateCourseRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"course_title": " Fisika ",
		"course_price": 25000,
		"course_description": null,
		"course_grade": "12"
	}`), &req))

	u, err := req.ToUpdates()
	require.NoError(t, err)
	assert.Equal(t, "Fisika", u["course_title"])
	assert.True(t, decimal.NewFromInt(25000).Equal(u["course_price"].(decimal.Decimal)))
	assert.Contains(t, u, "course_description")
	assert.Nil(t, u["course_description"])
	assert.Equal(t, "12", u["course_grade"])
	assert.NotContains(t, u, "course_curriculum")
	assert.NotContains(t, u, "course_divisions")
}

func TestUpdateCourseRejectsBadValues(t *testing.T) {
	short := "ab"
	_, err := (&UpdateCourseRequest{CourseTitle: &short}).ToUpdates()
	assert.Error(t, err)

	neg := decimal.NewFromInt(-5)
	_, err = (&UpdateCourseRequest{CoursePrice: &neg}).ToUpdates()
	assert.Error(t, err)

	var req UpdateCourseRequest
	require.NoError(t, json.Unmarshal([]byte(`{"course_grade": "`+strings.Repeat("x", 51)+`"}`), &req))
	_, err = req.ToUpdates()
	assert.Error(t, err)
}
