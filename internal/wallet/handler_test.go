package wallet

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dailydairy-backend/internal/auth"
	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/logger"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWalletApp(t *testing.T) (*fiber.App, models.Member) {
	t.Helper()
	logger.Init(true)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	user := models.User{Name: "Asha", Email: "asha@example.com", Phone: "9876543210", PasswordHash: "x", Role: models.RoleMember, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	member := models.Member{UserID: user.ID}
	require.NoError(t, db.Create(&member).Error)

	app := fiber.New()
	memberID := member.ID
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, user.ID)
		c.Locals(auth.CtxUserRoleKey, models.RoleMember)
		c.Locals(auth.CtxMemberIDKey, &memberID)
		return c.Next()
	})
	app.Get("/api/wallet", BalanceHandler())
	app.Get("/api/wallet/transactions", ListTransactionsHandler())
	app.Post("/api/wallet/topup", TopUpHandler())
	return app, member
}

func TestTopUpCreditsBalance(t *testing.T) {
	app, member := setupWalletApp(t)

	b, _ := json.Marshal(TopUpRequest{Amount: 250.505, Reference: "gateway txn 991"})
	req := httptest.NewRequest(http.MethodPost, "/api/wallet/topup", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out struct {
		Amount  float64 `json:"amount"`
		Balance float64 `json:"balance"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()

	// amount rounded to 2dp before crediting
	assert.Equal(t, 250.51, out.Amount)
	assert.Equal(t, 250.51, out.Balance)

	var m models.Member
	require.NoError(t, database.DB.First(&m, "id = ?", member.ID).Error)
	assert.Equal(t, 250.51, m.WalletBalance)

	var txn models.WalletTransaction
	require.NoError(t, database.DB.First(&txn, "member_id = ?", member.ID).Error)
	assert.Equal(t, models.WalletCredit, txn.Type)
	assert.Equal(t, "gateway txn 991", txn.Reference)
}

func TestTopUpRejectsNonPositiveAmount(t *testing.T) {
	app, _ := setupWalletApp(t)

	b, _ := json.Marshal(TopUpRequest{Amount: -10})
	req := httptest.NewRequest(http.MethodPost, "/api/wallet/topup", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestListTransactionsFiltersByType(t *testing.T) {
	app, member := setupWalletApp(t)

	rows := []models.WalletTransaction{
		{MemberID: member.ID, Amount: 100, Type: models.WalletCredit, Reference: "top-up"},
		{MemberID: member.ID, Amount: 40, Type: models.WalletDebit, Reference: "order ORD-1"},
		{MemberID: member.ID, Amount: 60, Type: models.WalletCredit, Reference: "refund"},
	}
	require.NoError(t, database.DB.Create(&rows).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/wallet/transactions?type=CREDIT", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var env pagination.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	assert.Equal(t, int64(2), env.TotalRecords)
}
