package helper

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestJsonErrorShape(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return JsonError(c, fiber.StatusConflict, "sudah dibeli")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "sudah dibeli", body["message"])
	assert.Equal(t, "CONFLICT", body["error_code"])
}

func TestFiberErrorHandlerTurnsFiberErrorIntoJSON(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusForbidden, "nope")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeBody(t, resp.Body)["error_code"])
}

func TestValidationErrorMapsFields(t *testing.T) {
	type payload struct {
		CourseTitle string `validate:"required"`
		PerPage     int    `validate:"gte=1"`
	}
	verr := validator.New().Struct(payload{})
	require.Error(t, verr)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return ValidationError(c, verr) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	fields := body["errors"].(map[string]any)
	assert.Contains(t, fields, "course_title")
	assert.Contains(t, fields, "per_page")
}

func TestJsonListCountsItems(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		p := BuildPagination(45, 2, 20)
		return JsonList(c, "", []int{1, 2, 3}, &p)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body := decodeBody(t, resp.Body)
	pg := body["pagination"].(map[string]any)
	assert.EqualValues(t, 3, pg["count"])
	assert.EqualValues(t, 3, pg["total_pages"])
	assert.Equal(t, true, pg["has_next"])
	assert.Equal(t, true, pg["has_prev"])
}

func TestParseFiberClampsAndDefaults(t *testing.T) {
	var got Params
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParseFiber(c, "created_at", "desc", DefaultOpts)
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/?page=0&per_page=1000&order=ASC&sort_by=title", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, DefaultOpts.MaxPerPage, got.PerPage)
	assert.Equal(t, "asc", got.SortOrder)
	assert.Equal(t, "title", got.SortBy)

	allowed := map[string]string{"title": "course_title", "created_at": "course_created_at"}
	assert.Equal(t, "course_title ASC", got.OrderClause(allowed, "created_at"))

	got.SortBy = "drop table"
	assert.Equal(t, "course_created_at ASC", got.OrderClause(allowed, "created_at"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "belajar-matematika-dasar", Slugify("  Belajar Matematika  Dasar!! ", 0))
	assert.Equal(t, "cafe-creme", Slugify("Café Crème", 0))
	assert.Equal(t, "course", Slugify("!!!", 0))
	assert.Equal(t, "abc", Slugify("abc-def", 4))
	assert.Equal(t, "abcd-2", withSuffix("abcdefgh", "-2", 6))
}

func TestGetUserIDFromToken(t *testing.T) {
	id := uuid.New()
	app := fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler})
	app.Get("/:mode", func(c *fiber.Ctx) error {
		switch c.Params("mode") {
		case "ok":
			c.Locals(LocUserID, id.String())
		case "bad":
			c.Locals(LocUserID, "not-a-uuid")
		}
		got, err := GetUserIDFromToken(c)
		if err != nil {
			return err
		}
		return c.SendString(got.String())
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/ok", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, id.String(), string(raw))

	resp, _ = app.Test(httptest.NewRequest("GET", "/bad", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest("GET", "/none", nil))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "uq_purchases_user_course"}
	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsUniqueViolation(err, "uq_purchases_user_course"))
	assert.False(t, IsUniqueViolation(err, "uq_users_email"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestUpdateFieldTriState(t *testing.T) {
	var body struct {
		Title UpdateField[string]  `json:"title"`
		Desc  UpdateField[*string] `json:"desc"`
		Price UpdateField[int]     `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","desc":null}`), &body))
	assert.True(t, body.Title.ShouldUpdate())
	assert.Equal(t, "x", body.Title.Val())
	assert.True(t, body.Desc.IsNull())
	assert.False(t, body.Price.ShouldUpdate())
}
