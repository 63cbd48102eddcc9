package invoice

import (
	"fmt"
	"time"

	"dailydairy-backend/internal/auth"
	"dailydairy-backend/internal/config"
	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/logger"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/pagination"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InvoiceResponse struct {
	ID          uint    `json:"id"`
	InvoiceNo   string  `json:"invoice_no"`
	OrderID     uint    `json:"order_id"`
	OrderNo     string  `json:"order_no"`
	Amount      float64 `json:"amount"`
	GeneratedAt string  `json:"generated_at"`
}

// POST /api/invoices/orders/:orderId
// Generates (or re-serves) the invoice for one of the member's orders.
// Number sequence restarts each month; the PDF lands in the invoice dir.
func GenerateInvoiceHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		var orderID uint
		if _, err := fmt.Sscan(c.Params("orderId"), &orderID); err != nil || orderID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
		}

		var order models.ProductOrder
		if err := database.DB.First(&order, "id = ? AND member_id = ?", orderID, memberID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}

		// idempotent: an order gets one invoice
		var existing models.Invoice
		if err := database.DB.First(&existing, "order_id = ?", order.ID).Error; err == nil {
			return c.JSON(toInvoiceResponse(existing, order.OrderNo))
		}

		var member models.Member
		if err := database.DB.Preload("User").First(&member, "id = ?", memberID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "member could not be loaded")
		}

		var subs []models.Subscription
		if err := database.DB.Preload("Product").Preload("Variant").
			Find(&subs, "order_id = ?", order.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "order lines could not be loaded")
		}

		now := time.Now()
		inv := models.Invoice{
			MemberID:    memberID,
			OrderID:     order.ID,
			Amount:      order.TotalAmount,
			GeneratedAt: now,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
			var seq int64
			if err := tx.Model(&models.Invoice{}).
				Where("generated_at >= ?", monthStart).Count(&seq).Error; err != nil {
				return err
			}
			inv.InvoiceNo = FormatInvoiceNo(now, seq+1)

			path, err := WritePDF(cfg.InvoiceDir, &inv, &order, member.User.Name, subs)
			if err != nil {
				return err
			}
			inv.PDFPath = path

			return tx.Create(&inv).Error
		})
		if err != nil {
			logger.L.Error("invoice generation failed", zap.Uint("order_id", order.ID), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "invoice could not be generated")
		}

		return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(inv, order.OrderNo))
	}
}

// GET /api/invoices
func ListInvoicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		p := pagination.Parse(c)
		q := database.DB.Model(&models.Invoice{}).Where("member_id = ?", memberID)

		var total int64
		q.Count(&total)

		var invoices []models.Invoice
		if err := q.Preload("Order").Order("generated_at DESC").
			Limit(p.Limit).Offset(p.Offset()).Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "invoices could not be listed")
		}

		resp := make([]InvoiceResponse, 0, len(invoices))
		for _, inv := range invoices {
			resp = append(resp, toInvoiceResponse(inv, inv.Order.OrderNo))
		}
		return c.JSON(pagination.Wrap(resp, total, p))
	}
}

// GET /api/invoices/:id/download
func DownloadInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		var invID uint
		if _, err := fmt.Sscan(c.Params("id"), &invID); err != nil || invID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
		}

		var inv models.Invoice
		if err := database.DB.First(&inv, "id = ? AND member_id = ?", invID, memberID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "invoice not found")
		}
		if inv.PDFPath == "" {
			return fiber.NewError(fiber.StatusNotFound, "invoice PDF is missing")
		}

		return c.Download(inv.PDFPath, inv.InvoiceNo+".pdf")
	}
}

func toInvoiceResponse(inv models.Invoice, orderNo string) InvoiceResponse {
	return InvoiceResponse{
		ID:          inv.ID,
		InvoiceNo:   inv.InvoiceNo,
		OrderID:     inv.OrderID,
		OrderNo:     orderNo,
		Amount:      inv.Amount,
		GeneratedAt: inv.GeneratedAt.Format("2006-01-02 15:04:05"),
	}
}
