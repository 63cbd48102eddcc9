package subscription

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dailydairy-backend/internal/auth"
	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/logger"
	"dailydairy-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type orderFixture struct {
	member  models.Member
	address models.DeliveryAddress
	agency  models.Agency
	variant models.DepotProductVariant
}

func setupOrderApp(t *testing.T, walletBalance float64) (*fiber.App, orderFixture) {
	t.Helper()
	logger.Init(true)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	var fx orderFixture

	user := models.User{Name: "Asha", Email: "asha@example.com", Phone: "9876543210", PasswordHash: "x", Role: models.RoleMember, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	fx.member = models.Member{UserID: user.ID, WalletBalance: walletBalance}
	require.NoError(t, db.Create(&fx.member).Error)

	fx.agency = models.Agency{Name: "Pune East Agency", City: "Pune", IsActive: true}
	require.NoError(t, db.Create(&fx.agency).Error)

	fx.address = models.DeliveryAddress{
		MemberID: fx.member.ID, Recipient: "Asha", Line1: "12 MG Road", City: "Pune", Pincode: "411001", IsDefault: true,
	}
	require.NoError(t, db.Create(&fx.address).Error)

	depot := models.Depot{Name: "Pune Depot", City: "Pune", AgencyID: &fx.agency.ID}
	require.NoError(t, db.Create(&depot).Error)

	product := models.Product{Name: "Cow Milk", Unit: "ltr", IsAvailable: true}
	require.NoError(t, db.Create(&product).Error)

	month := 52.0
	fx.variant = models.DepotProductVariant{
		DepotID: depot.ID, ProductID: product.ID, Name: "1L pouch",
		SellingPrice: 60, Price1Month: &month, ClosingQty: 500, IsAvailable: true,
	}
	require.NoError(t, db.Create(&fx.variant).Error)

	app := fiber.New()
	// stand-in for the JWT middleware: fixes the member scope
	memberID := fx.member.ID
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, user.ID)
		c.Locals(auth.CtxUserRoleKey, models.RoleMember)
		c.Locals(auth.CtxMemberIDKey, &memberID)
		return c.Next()
	})
	app.Post("/api/orders", CreateOrderHandler())
	app.Get("/api/subscriptions", ListSubscriptionsHandler())
	app.Post("/api/subscriptions/:id/cancel", CancelSubscriptionHandler())

	return app, fx
}

func postOrder(t *testing.T, app *fiber.App, body CreateOrderRequest) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestCreateOrderWithWallet(t *testing.T) {
	app, fx := setupOrderApp(t, 500)

	resp := postOrder(t, app, CreateOrderRequest{
		DeliveryAddressID: fx.address.ID,
		UseWallet:         true,
		Items: []OrderItemRequest{{
			ProductID:    fx.variant.ProductID,
			VariantID:    fx.variant.ID,
			Period:       30,
			ScheduleType: "DAILY",
			Qty:          1,
			StartDate:    futureDate(1),
		}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var order OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	resp.Body.Close()

	// 30 days * 1 qty at the month tier rate
	assert.Equal(t, 30.0, order.TotalQty)
	assert.Equal(t, 1560.0, order.TotalAmount)
	assert.Equal(t, 500.0, order.WalletAmountUsed)
	assert.Equal(t, 1060.0, order.PayableAmount)
	require.Len(t, order.Subscriptions, 1)

	sub := order.Subscriptions[0]
	assert.Equal(t, 52.0, sub.Rate)
	assert.Equal(t, fx.agency.ID, sub.AgencyID)
	assert.Equal(t, 30, sub.DeliveryCount)

	// wallet debited and the trail written
	var member models.Member
	require.NoError(t, database.DB.First(&member, "id = ?", fx.member.ID).Error)
	assert.Equal(t, 0.0, member.WalletBalance)

	var txn models.WalletTransaction
	require.NoError(t, database.DB.First(&txn, "member_id = ?", fx.member.ID).Error)
	assert.Equal(t, models.WalletDebit, txn.Type)
	assert.Equal(t, 500.0, txn.Amount)

	// 30 pending schedule entries
	var entryCount int64
	database.DB.Model(&models.DeliveryScheduleEntry{}).
		Where("subscription_id = ? AND status = ?", sub.ID, models.DeliveryPending).
		Count(&entryCount)
	assert.EqualValues(t, 30, entryCount)

	// first subscription fixes the member's default agency
	require.NotNil(t, member.AgencyID)
	assert.Equal(t, fx.agency.ID, *member.AgencyID)
}

func TestCreateOrderWalletCoversEverything(t *testing.T) {
	app, fx := setupOrderApp(t, 5000)

	resp := postOrder(t, app, CreateOrderRequest{
		DeliveryAddressID: fx.address.ID,
		UseWallet:         true,
		Items: []OrderItemRequest{{
			ProductID:    fx.variant.ProductID,
			VariantID:    fx.variant.ID,
			Period:       7,
			ScheduleType: "DAILY",
			Qty:          1,
			StartDate:    futureDate(1),
		}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var order OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	resp.Body.Close()

	// 7 days at the selling price (no 7-day tier configured)
	assert.Equal(t, 420.0, order.TotalAmount)
	assert.Equal(t, 420.0, order.WalletAmountUsed)
	assert.Equal(t, 0.0, order.PayableAmount)
	assert.Equal(t, string(models.PaymentPaid), order.Status)
	assert.Equal(t, string(models.PaymentPaid), order.Subscriptions[0].PaymentStatus)

	var member models.Member
	require.NoError(t, database.DB.First(&member, "id = ?", fx.member.ID).Error)
	assert.Equal(t, 4580.0, member.WalletBalance)
}

func TestCreateOrderUnknownAddress(t *testing.T) {
	app, fx := setupOrderApp(t, 0)

	resp := postOrder(t, app, CreateOrderRequest{
		DeliveryAddressID: fx.address.ID + 99,
		Items: []OrderItemRequest{{
			ProductID:    fx.variant.ProductID,
			VariantID:    fx.variant.ID,
			Period:       7,
			ScheduleType: "DAILY",
			Qty:          1,
			StartDate:    futureDate(1),
		}},
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCancelSubscriptionRefundsPendingDeliveries(t *testing.T) {
	app, fx := setupOrderApp(t, 0)

	resp := postOrder(t, app, CreateOrderRequest{
		DeliveryAddressID: fx.address.ID,
		Items: []OrderItemRequest{{
			ProductID:    fx.variant.ProductID,
			VariantID:    fx.variant.ID,
			Period:       10,
			ScheduleType: "DAILY",
			Qty:          2,
			StartDate:    futureDate(1),
		}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var order OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	resp.Body.Close()
	subID := order.Subscriptions[0].ID

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/subscriptions/%d/cancel", subID), nil)
	cancelResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, cancelResp.StatusCode)

	var out struct {
		RefundAmount float64 `json:"refund_amount"`
	}
	require.NoError(t, json.NewDecoder(cancelResp.Body).Decode(&out))
	cancelResp.Body.Close()

	// all 10 deliveries are still in the future: 10 days * 2 qty * 60
	assert.Equal(t, 1200.0, out.RefundAmount)

	var sub models.Subscription
	require.NoError(t, database.DB.First(&sub, "id = ?", subID).Error)
	assert.Equal(t, models.SubscriptionCancelled, sub.Status)

	var cancelled int64
	database.DB.Model(&models.DeliveryScheduleEntry{}).
		Where("subscription_id = ? AND status = ?", subID, models.DeliveryCancelled).
		Count(&cancelled)
	assert.EqualValues(t, 10, cancelled)

	var member models.Member
	require.NoError(t, database.DB.First(&member, "id = ?", fx.member.ID).Error)
	assert.Equal(t, 1200.0, member.WalletBalance)

	// cancelling again conflicts
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/subscriptions/%d/cancel", subID), nil)
	again, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, again.StatusCode)
}
