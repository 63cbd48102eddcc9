package stock

import (
	"fmt"
	"time"

	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/logger"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/pagination"
	"dailydairy-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WastageLineRequest struct {
	VariantID uint    `json:"variant_id" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	Reason    string  `json:"reason" validate:"required,max=255"`
}

type CreateWastageRequest struct {
	DepotID uint                 `json:"depot_id" validate:"required"`
	Date    string               `json:"date" validate:"required"`
	Note    string               `json:"note" validate:"max=255"`
	Lines   []WastageLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type WastageLineResponse struct {
	VariantID uint    `json:"variant_id"`
	Quantity  float64 `json:"quantity"`
	Reason    string  `json:"reason"`
}

type WastageResponse struct {
	ID        uint                  `json:"id"`
	WastageNo string                `json:"wastage_no"`
	DepotID   uint                  `json:"depot_id"`
	Date      string                `json:"date"`
	Note      string                `json:"note"`
	Lines     []WastageLineResponse `json:"lines"`
}

// POST /api/wastage
// Records a stock loss: decrements each variant's closing quantity and writes
// one ISSUED ledger row per line, atomically.
func CreateWastageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateWastageRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		var depot models.Depot
		if err := database.DB.First(&depot, "id = ?", body.DepotID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "depot not found")
		}

		wastage := models.Wastage{
			WastageNo: NextWastageNo(),
			DepotID:   body.DepotID,
			Date:      date,
			Note:      body.Note,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&wastage).Error; err != nil {
				return err
			}

			for _, line := range body.Lines {
				var variant models.DepotProductVariant
				if err := tx.First(&variant, "id = ? AND depot_id = ?", line.VariantID, body.DepotID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("variant %d does not belong to this depot", line.VariantID))
				}
				if variant.ClosingQty < line.Quantity {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("wastage exceeds stock for variant %d: have %.2f, wasting %.2f",
							line.VariantID, variant.ClosingQty, line.Quantity))
				}

				detail := models.WastageDetail{
					WastageID: wastage.ID,
					VariantID: line.VariantID,
					Quantity:  line.Quantity,
					Reason:    line.Reason,
				}
				if err := tx.Create(&detail).Error; err != nil {
					return err
				}

				if err := tx.Model(&variant).
					Update("closing_qty", gorm.Expr("closing_qty - ?", line.Quantity)).Error; err != nil {
					return err
				}

				ledger := models.StockLedger{
					DepotID:         body.DepotID,
					ProductID:       variant.ProductID,
					VariantID:       variant.ID,
					Date:            date,
					TransactionType: models.StockIssued,
					Quantity:        line.Quantity,
					Reference:       "wastage",
					ReferenceID:     wastage.ID,
				}
				if err := tx.Create(&ledger).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			logger.L.Error("wastage recording failed", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "wastage could not be recorded")
		}

		resp := WastageResponse{
			ID:        wastage.ID,
			WastageNo: wastage.WastageNo,
			DepotID:   wastage.DepotID,
			Date:      wastage.Date.Format("2006-01-02"),
			Note:      wastage.Note,
		}
		for _, line := range body.Lines {
			resp.Lines = append(resp.Lines, WastageLineResponse{line.VariantID, line.Quantity, line.Reason})
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// GET /api/wastage?depot_id=
func ListWastageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := pagination.Parse(c)
		q := database.DB.Model(&models.Wastage{})

		if s := c.Query("depot_id"); s != "" {
			var depotID uint
			if _, err := fmt.Sscan(s, &depotID); err != nil || depotID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "depot_id is invalid")
			}
			q = q.Where("depot_id = ?", depotID)
		}

		var total int64
		q.Count(&total)

		var wastages []models.Wastage
		if err := q.Preload("Details").Order("date DESC, id DESC").
			Limit(p.Limit).Offset(p.Offset()).Find(&wastages).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "wastage records could not be listed")
		}

		resp := make([]WastageResponse, 0, len(wastages))
		for _, w := range wastages {
			r := WastageResponse{
				ID:        w.ID,
				WastageNo: w.WastageNo,
				DepotID:   w.DepotID,
				Date:      w.Date.Format("2006-01-02"),
				Note:      w.Note,
			}
			for _, d := range w.Details {
				r.Lines = append(r.Lines, WastageLineResponse{d.VariantID, d.Quantity, d.Reason})
			}
			resp = append(resp, r)
		}
		return c.JSON(pagination.Wrap(resp, total, p))
	}
}

// POST /api/admin/variants/:id/recompute-stock
// Rebuilds one variant's closing quantity from the stock ledger. Used by the
// data-integrity check after manual corrections.
func RecomputeVariantStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var variantID uint
		if _, err := fmt.Sscan(c.Params("id"), &variantID); err != nil || variantID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid variant id")
		}

		var variant models.DepotProductVariant
		if err := database.DB.First(&variant, "id = ?", variantID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "variant not found")
		}

		closing, err := RecomputeClosingQty(database.DB, variant.DepotID, variant.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "stock could not be recomputed")
		}

		if err := database.DB.Model(&variant).Update("closing_qty", closing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "stock could not be updated")
		}

		return c.JSON(fiber.Map{
			"variant_id":  variant.ID,
			"closing_qty": closing,
		})
	}
}
