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

type TransferLineRequest struct {
	VariantID uint    `json:"variant_id" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
}

type CreateTransferRequest struct {
	FromDepotID uint                  `json:"from_depot_id" validate:"required"`
	ToDepotID   uint                  `json:"to_depot_id" validate:"required"`
	Date        string                `json:"date" validate:"required"`
	Note        string                `json:"note" validate:"max=255"`
	Lines       []TransferLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type TransferResponse struct {
	ID          uint   `json:"id"`
	TransferNo  string `json:"transfer_no"`
	FromDepotID uint   `json:"from_depot_id"`
	ToDepotID   uint   `json:"to_depot_id"`
	Date        string `json:"date"`
	Note        string `json:"note"`
	Lines       []struct {
		VariantID uint    `json:"variant_id"`
		Quantity  float64 `json:"quantity"`
	} `json:"lines"`
}

// POST /api/transfers
// Moves stock between two depots: decrements the source variant, increments
// (or creates) the destination variant, and writes an ISSUED + RECEIVED
// ledger pair per line, all in one transaction. A source variant whose
// closing quantity cannot cover its line rejects the whole transfer.
func CreateTransferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTransferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}
		if body.FromDepotID == body.ToDepotID {
			return fiber.NewError(fiber.StatusBadRequest, "source and destination depots must differ")
		}

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		var fromDepot, toDepot models.Depot
		if err := database.DB.First(&fromDepot, "id = ?", body.FromDepotID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "source depot not found")
		}
		if err := database.DB.First(&toDepot, "id = ?", body.ToDepotID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "destination depot not found")
		}

		transfer := models.Transfer{
			TransferNo:  NextTransferNo(),
			FromDepotID: body.FromDepotID,
			ToDepotID:   body.ToDepotID,
			Date:        date,
			Note:        body.Note,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&transfer).Error; err != nil {
				return err
			}

			for _, line := range body.Lines {
				var fromVariant models.DepotProductVariant
				if err := tx.First(&fromVariant, "id = ? AND depot_id = ?", line.VariantID, body.FromDepotID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("variant %d does not belong to the source depot", line.VariantID))
				}

				// closingQty must not go negative
				if fromVariant.ClosingQty < line.Quantity {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("insufficient stock for variant %d: have %.2f, need %.2f",
							line.VariantID, fromVariant.ClosingQty, line.Quantity))
				}

				detail := models.TransferDetail{
					TransferID: transfer.ID,
					VariantID:  line.VariantID,
					Quantity:   line.Quantity,
				}
				if err := tx.Create(&detail).Error; err != nil {
					return err
				}

				if err := tx.Model(&fromVariant).
					Update("closing_qty", gorm.Expr("closing_qty - ?", line.Quantity)).Error; err != nil {
					return err
				}

				// destination depot gets a matching variant, created on first receipt
				var toVariant models.DepotProductVariant
				err := tx.First(&toVariant,
					"depot_id = ? AND product_id = ? AND name = ?",
					body.ToDepotID, fromVariant.ProductID, fromVariant.Name).Error
				if err != nil {
					toVariant = fromVariant
					toVariant.ID = 0
					toVariant.DepotID = body.ToDepotID
					toVariant.ClosingQty = line.Quantity
					if err := tx.Create(&toVariant).Error; err != nil {
						return err
					}
				} else {
					if err := tx.Model(&toVariant).
						Update("closing_qty", gorm.Expr("closing_qty + ?", line.Quantity)).Error; err != nil {
						return err
					}
				}

				ledgerRows := []models.StockLedger{
					{
						DepotID:         body.FromDepotID,
						ProductID:       fromVariant.ProductID,
						VariantID:       fromVariant.ID,
						Date:            date,
						TransactionType: models.StockIssued,
						Quantity:        line.Quantity,
						Reference:       "transfer",
						ReferenceID:     transfer.ID,
					},
					{
						DepotID:         body.ToDepotID,
						ProductID:       toVariant.ProductID,
						VariantID:       toVariant.ID,
						Date:            date,
						TransactionType: models.StockReceived,
						Quantity:        line.Quantity,
						Reference:       "transfer",
						ReferenceID:     transfer.ID,
					},
				}
				if err := tx.Create(&ledgerRows).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			logger.L.Error("transfer failed", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "transfer could not be created")
		}

		resp := TransferResponse{
			ID:          transfer.ID,
			TransferNo:  transfer.TransferNo,
			FromDepotID: transfer.FromDepotID,
			ToDepotID:   transfer.ToDepotID,
			Date:        transfer.Date.Format("2006-01-02"),
			Note:        transfer.Note,
		}
		for _, line := range body.Lines {
			resp.Lines = append(resp.Lines, struct {
				VariantID uint    `json:"variant_id"`
				Quantity  float64 `json:"quantity"`
			}{line.VariantID, line.Quantity})
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// GET /api/transfers?depot_id=
func ListTransfersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := pagination.Parse(c)
		q := database.DB.Model(&models.Transfer{})

		if s := c.Query("depot_id"); s != "" {
			var depotID uint
			if _, err := fmt.Sscan(s, &depotID); err != nil || depotID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "depot_id is invalid")
			}
			q = q.Where("from_depot_id = ? OR to_depot_id = ?", depotID, depotID)
		}

		var total int64
		q.Count(&total)

		var transfers []models.Transfer
		if err := q.Preload("Details").Order("date DESC, id DESC").
			Limit(p.Limit).Offset(p.Offset()).Find(&transfers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "transfers could not be listed")
		}

		resp := make([]TransferResponse, 0, len(transfers))
		for _, t := range transfers {
			r := TransferResponse{
				ID:          t.ID,
				TransferNo:  t.TransferNo,
				FromDepotID: t.FromDepotID,
				ToDepotID:   t.ToDepotID,
				Date:        t.Date.Format("2006-01-02"),
				Note:        t.Note,
			}
			for _, d := range t.Details {
				r.Lines = append(r.Lines, struct {
					VariantID uint    `json:"variant_id"`
					Quantity  float64 `json:"quantity"`
				}{d.VariantID, d.Quantity})
			}
			resp = append(resp, r)
		}
		return c.JSON(pagination.Wrap(resp, total, p))
	}
}
