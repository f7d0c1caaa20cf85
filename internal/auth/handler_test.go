package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/seddikfer4/Mcdial/internal/database/dbtest"
)

func loginApp(db *dbtest.DB) *fiber.App {
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
	h := &Handler{DB: db, Secret: []byte("login-test-secret"), TTL: time.Hour}
	app.Post("/login", h.Login)
	app.Post("/logout", h.Logout)
	return app
}

func postLogin(t *testing.T, app *fiber.App, body string) (int, string, []string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw), resp.Header.Values("Set-Cookie")
}

func TestLoginMissingFields(t *testing.T) {
	db := &dbtest.DB{}
	app := loginApp(db)

	for _, body := range []string{`{}`, `{"user":"1001"}`, `{"pass":"pw"}`, `{"user":"  ","pass":"pw"}`} {
		status, _, _ := postLogin(t, app, body)
		assert.Equal(t, fiber.StatusBadRequest, status, "body %s", body)
	}
	assert.Empty(t, db.Calls)
}

func TestLoginUnknownUser(t *testing.T) {
	db := &dbtest.DB{Results: []dbtest.Result{{}}}
	app := loginApp(db)

	status, resp, _ := postLogin(t, app, `{"user":"ghost","pass":"pw"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, resp, "invalid credentials")
}

func TestLoginInactiveUser(t *testing.T) {
	db := &dbtest.DB{Results: []dbtest.Result{
		{Rows: [][]any{{"pw", "", "N", "Agent Smith", 1}}},
	}}
	app := loginApp(db)

	status, _, _ := postLogin(t, app, `{"user":"1001","pass":"pw"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLoginWrongPassword(t *testing.T) {
	db := &dbtest.DB{Results: []dbtest.Result{
		{Rows: [][]any{{"pw", "", "Y", "Agent Smith", 1}}},
	}}
	app := loginApp(db)

	status, _, _ := postLogin(t, app, `{"user":"1001","pass":"wrong"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLoginClearTextMatch(t *testing.T) {
	db := &dbtest.DB{Results: []dbtest.Result{
		{Rows: [][]any{{"pw", "", "Y", "Agent Smith", 4}}},
	}}
	app := loginApp(db)

	status, resp, cookies := postLogin(t, app, `{"user":"1001","pass":"pw"}`)
	require.Equal(t, fiber.StatusOK, status)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp), &out))
	assert.Equal(t, "1001", out["user"])
	assert.Equal(t, "Agent Smith", out["full_name"])
	assert.EqualValues(t, 4, out["user_level"])
	assert.NotEmpty(t, out["token"])

	require.NotEmpty(t, cookies)
	assert.Contains(t, cookies[0], CookieName+"=")
	assert.Contains(t, cookies[0], "HttpOnly")
}

func TestLoginHashedPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	db := &dbtest.DB{Results: []dbtest.Result{
		{Rows: [][]any{{"stale-clear-text", string(hash), "Y", "Agent Smith", 1}}},
	}}
	app := loginApp(db)

	status, _, _ := postLogin(t, app, `{"user":"1001","pass":"pw"}`)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestLoginHashTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("real-pw"), bcrypt.MinCost)
	require.NoError(t, err)

	// The stored hash wins even when the clear-text column would match.
	db := &dbtest.DB{Results: []dbtest.Result{
		{Rows: [][]any{{"pw", string(hash), "Y", "Agent Smith", 1}}},
	}}
	app := loginApp(db)

	status, _, _ := postLogin(t, app, `{"user":"1001","pass":"pw"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLogoutExpiresCookie(t *testing.T) {
	app := loginApp(&dbtest.DB{})

	resp, err := app.Test(httptest.NewRequest("POST", "/logout", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookies := resp.Header.Values("Set-Cookie")
	require.NotEmpty(t, cookies)
	assert.Contains(t, cookies[0], CookieName+"=")
	assert.Contains(t, strings.ToLower(cookies[0]), "expires")
}
