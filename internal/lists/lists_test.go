package lists

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seddikfer4/Mcdial/internal/database/dbtest"
)

func newTestApp(db *dbtest.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "An error occurred, please try again later."
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}
			return c.Status(code).JSON(fiber.Map{"message": message})
		},
	})

	h := &Handler{Repo: &Repo{DB: db}, PageLimit: 100, PageLimitMax: 500}
	app.Get("/lists", h.List)
	app.Get("/lists/:listId", h.Get)
	app.Post("/lists", h.Create)
	app.Put("/lists/:listId", h.Update)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestCreateMissingFields(t *testing.T) {
	db := &dbtest.DB{}
	app := newTestApp(db)

	status, resp := doJSON(t, app, "POST", "/lists", `{"list_id":"101"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, resp, "required")
	assert.Empty(t, db.Calls)
}

func TestCreateDuplicate(t *testing.T) {
	db := &dbtest.DB{Results: []dbtest.Result{
		{Rows: [][]any{{int64(1)}}},
	}}
	app := newTestApp(db)

	status, resp := doJSON(t, app, "POST", "/lists",
		`{"list_id":"101","list_name":"Cold leads","campaign_id":"SALES"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, resp, "List already exists.")
	assert.Len(t, db.Calls, 1, "no insert after a duplicate")
}

func TestCreateSuccess(t *testing.T) {
	db := &dbtest.DB{Results: []dbtest.Result{
		{}, // existence check: no rows
		{}, // insert
	}}
	app := newTestApp(db)

	status, resp := doJSON(t, app, "POST", "/lists",
		`{"list_id":"101","list_name":"Cold leads","campaign_id":"SALES"}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Contains(t, resp, "List created successfully.")

	require.Len(t, db.Calls, 2)
	assert.Contains(t, db.Calls[1].SQL, "INSERT INTO vicidial_lists")
	assert.Equal(t, "101", db.Calls[1].Args[0])
}

func TestGetNotFound(t *testing.T) {
	db := &dbtest.DB{Results: []dbtest.Result{
		{Columns: []string{"list_id"}},
	}}
	app := newTestApp(db)

	status, resp := doJSON(t, app, "GET", "/lists/999", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, resp, "List not found.")
}

func TestUpdateRejectsUnknownField(t *testing.T) {
	db := &dbtest.DB{}
	app := newTestApp(db)

	status, resp := doJSON(t, app, "PUT", "/lists/101", `{"list_id":"102"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, resp, "list_id")
	assert.Empty(t, db.Calls)
}

func TestUpdateRejectsBadActiveFlag(t *testing.T) {
	db := &dbtest.DB{}
	app := newTestApp(db)

	status, resp := doJSON(t, app, "PUT", "/lists/101", `{"active":"maybe"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, resp, "active")
	assert.Empty(t, db.Calls)
}

func TestUpdateDeterministicOrder(t *testing.T) {
	db := &dbtest.DB{Results: []dbtest.Result{
		{Columns: []string{"list_id"}, Rows: [][]any{{int64(101)}}},
		{},
	}}
	app := newTestApp(db)

	status, _ := doJSON(t, app, "PUT", "/lists/101",
		`{"list_name":"Warm leads","active":"N","campaign_id":"SALES2"}`)
	assert.Equal(t, fiber.StatusOK, status)

	require.Len(t, db.Calls, 2)
	assert.Contains(t, db.Calls[1].SQL,
		"SET active = $1, campaign_id = $2, list_name = $3, list_changedate = $4")
	assert.Equal(t, []any{"N", "SALES2", "Warm leads"}, db.Calls[1].Args[:3])
}

func TestUpdateSuccess(t *testing.T) {
	db := &dbtest.DB{Results: []dbtest.Result{
		{Columns: []string{"list_id"}, Rows: [][]any{{int64(101)}}},
		{},
	}}
	app := newTestApp(db)

	status, resp := doJSON(t, app, "PUT", "/lists/101", `{"active":"N"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, resp, "List updated successfully.")

	require.Len(t, db.Calls, 2)
	assert.Contains(t, db.Calls[1].SQL, "active = $1")
	assert.Contains(t, db.Calls[1].SQL, "list_changedate")
}
