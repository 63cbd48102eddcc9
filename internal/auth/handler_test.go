package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dailydairy-backend/internal/config"
	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/logger"
	"dailydairy-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) (*fiber.App, *config.Config) {
	t.Helper()
	logger.Init(true)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	cfg := &config.Config{JWTSecret: "test-secret-test-secret-test-secret!"}

	app := fiber.New()
	app.Post("/api/auth/register", RegisterHandler(cfg))
	app.Post("/api/auth/login", LoginHandler(cfg))

	me := app.Group("", JWTMiddleware(cfg))
	me.Get("/api/auth/me", MeHandler())

	return app, cfg
}

func postJSON(t *testing.T, app *fiber.App, path string, body any, token string) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	resp.Body.Close()
}

func TestRegisterLoginMeRoundTrip(t *testing.T) {
	app, _ := setupApp(t)

	resp := postJSON(t, app, "/api/auth/register", RegisterRequest{
		Name:     "Asha Patel",
		Email:    "Asha@Example.com",
		Phone:    "9876543210",
		Password: "s3cret-pass",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var reg AuthResponse
	decode(t, resp, &reg)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, models.RoleMember, reg.Role)
	assert.Equal(t, "asha@example.com", reg.Email)
	require.NotNil(t, reg.MemberID)

	// member row exists with a zero wallet
	var member models.Member
	require.NoError(t, database.DB.First(&member, "id = ?", *reg.MemberID).Error)
	assert.Equal(t, 0.0, member.WalletBalance)

	resp = postJSON(t, app, "/api/auth/login", LoginRequest{
		Email:    "asha@example.com",
		Password: "s3cret-pass",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var login AuthResponse
	decode(t, resp, &login)
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, meResp.StatusCode)

	var me map[string]any
	decode(t, meResp, &me)
	assert.Equal(t, "Asha Patel", me["name"])
	assert.EqualValues(t, *reg.MemberID, me["member_id"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, _ := setupApp(t)

	body := RegisterRequest{
		Name:     "First",
		Email:    "dup@example.com",
		Phone:    "9876543210",
		Password: "s3cret-pass",
	}
	resp := postJSON(t, app, "/api/auth/register", body, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	body.Name = "Second"
	resp = postJSON(t, app, "/api/auth/register", body, "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginWrongPassword(t *testing.T) {
	app, _ := setupApp(t)

	resp := postJSON(t, app, "/api/auth/register", RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Phone:    "9876543210",
		Password: "s3cret-pass",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, app, "/api/auth/login", LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong-pass",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, app, "/api/auth/login", LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever1",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestMeRejectsMissingToken(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
