package wallet

import (
	"dailydairy-backend/internal/auth"
	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/logger"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/pagination"
	"dailydairy-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TopUpRequest struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Reference string  `json:"reference" validate:"max=255"`
}

type TransactionResponse struct {
	ID        uint    `json:"id"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Reference string  `json:"reference"`
	OrderID   *uint   `json:"order_id,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// GET /api/wallet
func BalanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		var member models.Member
		if err := database.DB.First(&member, "id = ?", memberID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "member not found")
		}

		return c.JSON(fiber.Map{
			"member_id": member.ID,
			"balance":   member.WalletBalance,
		})
	}
}

// GET /api/wallet/transactions
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		p := pagination.Parse(c)
		q := database.DB.Model(&models.WalletTransaction{}).Where("member_id = ?", memberID)
		if t := c.Query("type"); t == string(models.WalletCredit) || t == string(models.WalletDebit) {
			q = q.Where("type = ?", t)
		}

		var total int64
		q.Count(&total)

		var txns []models.WalletTransaction
		if err := q.Order("created_at DESC").Limit(p.Limit).Offset(p.Offset()).Find(&txns).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "transactions could not be listed")
		}

		resp := make([]TransactionResponse, 0, len(txns))
		for _, t := range txns {
			resp = append(resp, TransactionResponse{
				ID:        t.ID,
				Amount:    t.Amount,
				Type:      string(t.Type),
				Reference: t.Reference,
				OrderID:   t.OrderID,
				CreatedAt: t.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(pagination.Wrap(resp, total, p))
	}
}

// POST /api/wallet/topup
// Credits the wallet and records the transaction atomically. Payment gateway
// callbacks land here after verification on the gateway side.
func TopUpHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		var body TopUpRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		amount := decimal.NewFromFloat(body.Amount).Round(2).InexactFloat64()
		reference := body.Reference
		if reference == "" {
			reference = "wallet top-up"
		}

		txn := models.WalletTransaction{
			MemberID:  memberID,
			Amount:    amount,
			Type:      models.WalletCredit,
			Reference: reference,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&txn).Error; err != nil {
				return err
			}
			return tx.Model(&models.Member{}).Where("id = ?", memberID).
				Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount)).Error
		})
		if err != nil {
			logger.L.Error("wallet top-up failed", zap.Uint("member_id", memberID), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "wallet could not be credited")
		}

		var member models.Member
		database.DB.First(&member, "id = ?", memberID)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"transaction_id": txn.ID,
			"amount":         amount,
			"balance":        member.WalletBalance,
			"reference":      reference,
		})
	}
}
