package stock

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/logger"
	"dailydairy-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStockApp(t *testing.T) *fiber.App {
	t.Helper()
	logger.Init(true)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	app := fiber.New()
	app.Post("/api/transfers", CreateTransferHandler())
	app.Get("/api/transfers", ListTransfersHandler())
	app.Post("/api/wastage", CreateWastageHandler())
	return app
}

func seedDepotsWithStock(t *testing.T) (from, to models.Depot, variant models.DepotProductVariant) {
	t.Helper()

	from = models.Depot{Name: "Central Depot", City: "Pune"}
	to = models.Depot{Name: "East Depot", City: "Pune"}
	require.NoError(t, database.DB.Create(&from).Error)
	require.NoError(t, database.DB.Create(&to).Error)

	product := models.Product{Name: "Cow Milk", Unit: "ltr", IsAvailable: true}
	require.NoError(t, database.DB.Create(&product).Error)

	variant = models.DepotProductVariant{
		DepotID:      from.ID,
		ProductID:    product.ID,
		Name:         "500ml pouch",
		SellingPrice: 30,
		ClosingQty:   100,
		IsAvailable:  true,
	}
	require.NoError(t, database.DB.Create(&variant).Error)
	return from, to, variant
}

func postStockJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestCreateTransferMovesStock(t *testing.T) {
	app := setupStockApp(t)
	from, to, variant := seedDepotsWithStock(t)

	resp := postStockJSON(t, app, "/api/transfers", CreateTransferRequest{
		FromDepotID: from.ID,
		ToDepotID:   to.ID,
		Date:        "2026-08-20",
		Lines:       []TransferLineRequest{{VariantID: variant.ID, Quantity: 40}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created TransferResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.NotEmpty(t, created.TransferNo)

	// source decremented
	var src models.DepotProductVariant
	require.NoError(t, database.DB.First(&src, "id = ?", variant.ID).Error)
	assert.Equal(t, 60.0, src.ClosingQty)

	// destination variant created on first receipt
	var dst models.DepotProductVariant
	require.NoError(t, database.DB.First(&dst,
		"depot_id = ? AND product_id = ? AND name = ?", to.ID, variant.ProductID, variant.Name).Error)
	assert.Equal(t, 40.0, dst.ClosingQty)

	// double entry: one ISSUED at the source, one RECEIVED at the destination
	var ledger []models.StockLedger
	require.NoError(t, database.DB.Order("id ASC").Find(&ledger, "reference_id = ?", created.ID).Error)
	require.Len(t, ledger, 2)
	assert.Equal(t, models.StockIssued, ledger[0].TransactionType)
	assert.Equal(t, from.ID, ledger[0].DepotID)
	assert.Equal(t, models.StockReceived, ledger[1].TransactionType)
	assert.Equal(t, to.ID, ledger[1].DepotID)
	assert.Equal(t, 40.0, ledger[0].Quantity)
	assert.Equal(t, 40.0, ledger[1].Quantity)
}

func TestCreateTransferSecondReceiptIncrements(t *testing.T) {
	app := setupStockApp(t)
	from, to, variant := seedDepotsWithStock(t)

	for i := 0; i < 2; i++ {
		resp := postStockJSON(t, app, "/api/transfers", CreateTransferRequest{
			FromDepotID: from.ID,
			ToDepotID:   to.ID,
			Date:        "2026-08-20",
			Lines:       []TransferLineRequest{{VariantID: variant.ID, Quantity: 10}},
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	var dst models.DepotProductVariant
	require.NoError(t, database.DB.First(&dst,
		"depot_id = ? AND product_id = ?", to.ID, variant.ProductID).Error)
	assert.Equal(t, 20.0, dst.ClosingQty)
}

func TestCreateTransferInsufficientStock(t *testing.T) {
	app := setupStockApp(t)
	from, to, variant := seedDepotsWithStock(t)

	resp := postStockJSON(t, app, "/api/transfers", CreateTransferRequest{
		FromDepotID: from.ID,
		ToDepotID:   to.ID,
		Date:        "2026-08-20",
		Lines:       []TransferLineRequest{{VariantID: variant.ID, Quantity: 500}},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// whole transfer rolled back
	var src models.DepotProductVariant
	require.NoError(t, database.DB.First(&src, "id = ?", variant.ID).Error)
	assert.Equal(t, 100.0, src.ClosingQty)

	var transferCount, ledgerCount int64
	database.DB.Model(&models.Transfer{}).Count(&transferCount)
	database.DB.Model(&models.StockLedger{}).Count(&ledgerCount)
	assert.Zero(t, transferCount)
	assert.Zero(t, ledgerCount)
}

func TestCreateTransferRejectsSameDepot(t *testing.T) {
	app := setupStockApp(t)
	from, _, variant := seedDepotsWithStock(t)

	resp := postStockJSON(t, app, "/api/transfers", CreateTransferRequest{
		FromDepotID: from.ID,
		ToDepotID:   from.ID,
		Date:        "2026-08-20",
		Lines:       []TransferLineRequest{{VariantID: variant.ID, Quantity: 5}},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateWastageGuardsClosingQty(t *testing.T) {
	app := setupStockApp(t)
	from, _, variant := seedDepotsWithStock(t)

	resp := postStockJSON(t, app, "/api/wastage", CreateWastageRequest{
		DepotID: from.ID,
		Date:    "2026-08-21",
		Lines:   []WastageLineRequest{{VariantID: variant.ID, Quantity: 30, Reason: "spoiled in storage"}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var v models.DepotProductVariant
	require.NoError(t, database.DB.First(&v, "id = ?", variant.ID).Error)
	assert.Equal(t, 70.0, v.ClosingQty)

	var ledger models.StockLedger
	require.NoError(t, database.DB.First(&ledger, "reference = ?", "wastage").Error)
	assert.Equal(t, models.StockIssued, ledger.TransactionType)
	assert.Equal(t, 30.0, ledger.Quantity)

	// more than remaining stock is rejected
	resp = postStockJSON(t, app, "/api/wastage", CreateWastageRequest{
		DepotID: from.ID,
		Date:    "2026-08-21",
		Lines:   []WastageLineRequest{{VariantID: variant.ID, Quantity: 75, Reason: "miscount"}},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	require.NoError(t, database.DB.First(&v, "id = ?", variant.ID).Error)
	assert.Equal(t, 70.0, v.ClosingQty)
}

func TestRecomputeClosingQtyFromLedger(t *testing.T) {
	setupStockApp(t)
	from, _, variant := seedDepotsWithStock(t)

	now := time.Now()
	rows := []models.StockLedger{
		{DepotID: from.ID, ProductID: variant.ProductID, VariantID: variant.ID, Date: now, TransactionType: models.StockReceived, Quantity: 50, Reference: "opening"},
		{DepotID: from.ID, ProductID: variant.ProductID, VariantID: variant.ID, Date: now, TransactionType: models.StockIssued, Quantity: 12, Reference: "wastage"},
		{DepotID: from.ID, ProductID: variant.ProductID, VariantID: variant.ID, Date: now, TransactionType: models.StockReceived, Quantity: 8, Reference: "transfer"},
	}
	require.NoError(t, database.DB.Create(&rows).Error)

	closing, err := RecomputeClosingQty(database.DB, from.ID, variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 46.0, closing)
}
