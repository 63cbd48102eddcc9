package subscription

import (
	"errors"
	"fmt"
	"time"

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

type OrderItemRequest struct {
	ProductID    uint     `json:"product_id" validate:"required"`
	VariantID    uint     `json:"variant_id" validate:"required"`
	Period       int      `json:"period" validate:"required,min=1,max=90"`
	ScheduleType string   `json:"schedule_type" validate:"required,oneof=DAILY ALTERNATE_DAYS DAY1_DAY2 WEEKDAYS"`
	Qty          float64  `json:"qty" validate:"required,gt=0"`
	AltQty       *float64 `json:"alt_qty,omitempty"`
	Weekdays     []string `json:"weekdays,omitempty"`
	StartDate    string   `json:"start_date" validate:"required"` // "2026-09-01"
}

type CreateOrderRequest struct {
	DeliveryAddressID uint               `json:"delivery_address_id" validate:"required"`
	UseWallet         bool               `json:"use_wallet"`
	Items             []OrderItemRequest `json:"items" validate:"required,min=1,max=20,dive"`
}

type SubscriptionResponse struct {
	ID               uint    `json:"id"`
	ProductID        uint    `json:"product_id"`
	ProductName      string  `json:"product_name"`
	VariantID        uint    `json:"variant_id"`
	VariantName      string  `json:"variant_name"`
	AgencyID         uint    `json:"agency_id"`
	Period           int     `json:"period"`
	ScheduleType     string  `json:"schedule_type"`
	Qty              float64 `json:"qty"`
	StartDate        string  `json:"start_date"`
	ExpiryDate       string  `json:"expiry_date"`
	Rate             float64 `json:"rate"`
	TotalQty         float64 `json:"total_qty"`
	Amount           float64 `json:"amount"`
	WalletAmountUsed float64 `json:"wallet_amount_used"`
	PayableAmount    float64 `json:"payable_amount"`
	PaymentStatus    string  `json:"payment_status"`
	Status           string  `json:"status"`
	DeliveryCount    int     `json:"delivery_count"`
}

type OrderResponse struct {
	ID               uint                   `json:"id"`
	OrderNo          string                 `json:"order_no"`
	TotalQty         float64                `json:"total_qty"`
	TotalAmount      float64                `json:"total_amount"`
	WalletAmountUsed float64                `json:"wallet_amount_used"`
	PayableAmount    float64                `json:"payable_amount"`
	Status           string                 `json:"status"`
	CreatedAt        string                 `json:"created_at"`
	Subscriptions    []SubscriptionResponse `json:"subscriptions"`
}

// preparedLine is one order item after pricing and schedule generation,
// before the wallet split.
type preparedLine struct {
	req      OrderItemRequest
	variant  models.DepotProductVariant
	agencyID uint
	start    time.Time
	expiry   time.Time
	schedule []ScheduleItem
	rate     float64
	totalQty float64
	amount   float64
}

// POST /api/orders
// Creates a product order with one subscription per item, generates the
// delivery schedule for each, and applies the member's wallet proportionally
// across the lines. Everything is written in one transaction.
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		var member models.Member
		if err := database.DB.First(&member, "id = ?", memberID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "member not found")
		}

		var address models.DeliveryAddress
		if err := database.DB.First(&address, "id = ? AND member_id = ?", body.DeliveryAddressID, memberID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "delivery address not found")
		}

		lines := make([]preparedLine, 0, len(body.Items))
		for i, item := range body.Items {
			line, err := prepareLine(item, &address)
			if err != nil {
				if fe, ok := err.(*fiber.Error); ok {
					return fiber.NewError(fe.Code, fmt.Sprintf("item %d: %s", i+1, fe.Message))
				}
				return err
			}
			lines = append(lines, line)
		}

		totalQty := decimal.Zero
		totalAmount := decimal.Zero
		amounts := make([]float64, len(lines))
		for i, l := range lines {
			totalQty = totalQty.Add(decimal.NewFromFloat(l.totalQty))
			totalAmount = totalAmount.Add(decimal.NewFromFloat(l.amount))
			amounts[i] = l.amount
		}

		walletApplied := 0.0
		if body.UseWallet && member.WalletBalance > 0 {
			walletApplied = decimal.Min(
				decimal.NewFromFloat(member.WalletBalance),
				totalAmount,
			).Round(2).InexactFloat64()
		}
		allocs := AllocateWallet(amounts, walletApplied)

		payable := totalAmount.Sub(decimal.NewFromFloat(walletApplied)).Round(2)
		order := models.ProductOrder{
			MemberID:         memberID,
			OrderNo:          nextOrderNo(),
			TotalQty:         totalQty.InexactFloat64(),
			TotalAmount:      totalAmount.Round(2).InexactFloat64(),
			WalletAmountUsed: walletApplied,
			PayableAmount:    payable.InexactFloat64(),
			Status:           models.PaymentPending,
		}
		if payable.LessThanOrEqual(decimal.Zero) {
			order.Status = models.PaymentPaid
		}

		subs := make([]models.Subscription, len(lines))

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			for i, l := range lines {
				sub := models.Subscription{
					OrderID:           order.ID,
					MemberID:          memberID,
					ProductID:         l.req.ProductID,
					VariantID:         l.req.VariantID,
					DepotID:           l.variant.DepotID,
					AgencyID:          l.agencyID,
					DeliveryAddressID: address.ID,
					Period:            l.req.Period,
					ScheduleType:      models.ScheduleType(l.req.ScheduleType),
					Qty:               l.req.Qty,
					AltQty:            l.req.AltQty,
					Weekdays:          joinWeekdays(l.req.Weekdays),
					StartDate:         l.start,
					ExpiryDate:        l.expiry,
					Rate:              l.rate,
					TotalQty:          l.totalQty,
					Amount:            l.amount,
					WalletAmountUsed:  allocs[i].WalletShare,
					PayableAmount:     allocs[i].Payable,
					PaymentStatus:     models.PaymentPending,
					Status:            models.SubscriptionActive,
				}
				if allocs[i].Paid {
					sub.PaymentStatus = models.PaymentPaid
				}
				if err := tx.Create(&sub).Error; err != nil {
					return err
				}

				entries := make([]models.DeliveryScheduleEntry, len(l.schedule))
				for j, s := range l.schedule {
					entries[j] = models.DeliveryScheduleEntry{
						SubscriptionID: sub.ID,
						MemberID:       memberID,
						AgencyID:       l.agencyID,
						Date:           s.Date,
						Quantity:       s.Quantity,
						Status:         models.DeliveryPending,
					}
				}
				if err := tx.CreateInBatches(entries, 100).Error; err != nil {
					return err
				}
				subs[i] = sub
			}

			if walletApplied > 0 {
				txn := models.WalletTransaction{
					MemberID:  memberID,
					Amount:    walletApplied,
					Type:      models.WalletDebit,
					Reference: fmt.Sprintf("order %s", order.OrderNo),
					OrderID:   &order.ID,
				}
				if err := tx.Create(&txn).Error; err != nil {
					return err
				}
				newBalance := decimal.NewFromFloat(member.WalletBalance).
					Sub(decimal.NewFromFloat(walletApplied)).Round(2).InexactFloat64()
				if err := tx.Model(&models.Member{}).Where("id = ?", memberID).
					Update("wallet_balance", newBalance).Error; err != nil {
					return err
				}
			}

			// first subscription fixes the member's default agency
			if member.AgencyID == nil && len(lines) > 0 {
				if err := tx.Model(&models.Member{}).Where("id = ?", memberID).
					Update("agency_id", lines[0].agencyID).Error; err != nil {
					return err
				}
			}

			return nil
		})
		if err != nil {
			logger.L.Error("order creation failed", zap.Uint("member_id", memberID), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "order could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(buildOrderResponse(&order, subs, lines))
	}
}

func prepareLine(item OrderItemRequest, address *models.DeliveryAddress) (preparedLine, error) {
	var line preparedLine
	line.req = item

	start, err := time.Parse("2006-01-02", item.StartDate)
	if err != nil {
		return line, fiber.NewError(fiber.StatusBadRequest, "start_date must be 'YYYY-MM-DD'")
	}
	line.start = start
	line.expiry = start.AddDate(0, 0, item.Period-1)

	var variant models.DepotProductVariant
	if err := database.DB.Preload("Depot").Preload("Product").
		First(&variant, "id = ? AND product_id = ?", item.VariantID, item.ProductID).Error; err != nil {
		return line, fiber.NewError(fiber.StatusNotFound, "product variant not found")
	}
	if !variant.IsAvailable || !variant.Product.IsAvailable {
		return line, fiber.NewError(fiber.StatusBadRequest, "product is not available")
	}
	line.variant = variant

	agencyID, err := resolveAgency(&variant.Depot, address)
	if err != nil {
		return line, err
	}
	line.agencyID = agencyID

	schedule, err := GenerateSchedule(start, item.Period, models.ScheduleType(item.ScheduleType), item.Qty, item.AltQty, item.Weekdays)
	if err != nil {
		return line, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	line.schedule = schedule
	line.totalQty = TotalQuantity(schedule)
	line.rate = ResolveRate(&variant, item.Period)
	line.amount = decimal.NewFromFloat(line.rate).
		Mul(decimal.NewFromFloat(line.totalQty)).Round(2).InexactFloat64()

	return line, nil
}

// resolveAgency: online depots route by the delivery address city, offline
// depots ship through their own agency.
func resolveAgency(depot *models.Depot, address *models.DeliveryAddress) (uint, error) {
	if !depot.IsOnline {
		if depot.AgencyID == nil {
			return 0, fiber.NewError(fiber.StatusConflict, "depot has no agency configured")
		}
		return *depot.AgencyID, nil
	}

	var agency models.Agency
	err := database.DB.First(&agency, "city = ? AND is_active = true", address.City).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("no delivery agency serves %s", address.City))
		}
		return 0, fiber.NewError(fiber.StatusInternalServerError, "agency lookup failed")
	}
	return agency.ID, nil
}

func nextOrderNo() string {
	today := time.Now().Format("20060102")
	var count int64
	database.DB.Model(&models.ProductOrder{}).
		Where("order_no LIKE ?", fmt.Sprintf("ORD-%s-%%", today)).
		Count(&count)
	return fmt.Sprintf("ORD-%s-%05d", today, count+1)
}

func joinWeekdays(days []string) string {
	out := ""
	for i, d := range days {
		if i > 0 {
			out += ","
		}
		out += d
	}
	return out
}

func buildOrderResponse(order *models.ProductOrder, subs []models.Subscription, lines []preparedLine) OrderResponse {
	resp := OrderResponse{
		ID:               order.ID,
		OrderNo:          order.OrderNo,
		TotalQty:         order.TotalQty,
		TotalAmount:      order.TotalAmount,
		WalletAmountUsed: order.WalletAmountUsed,
		PayableAmount:    order.PayableAmount,
		Status:           string(order.Status),
		CreatedAt:        order.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for i, s := range subs {
		resp.Subscriptions = append(resp.Subscriptions, SubscriptionResponse{
			ID:               s.ID,
			ProductID:        s.ProductID,
			ProductName:      lines[i].variant.Product.Name,
			VariantID:        s.VariantID,
			VariantName:      lines[i].variant.Name,
			AgencyID:         s.AgencyID,
			Period:           s.Period,
			ScheduleType:     string(s.ScheduleType),
			Qty:              s.Qty,
			StartDate:        s.StartDate.Format("2006-01-02"),
			ExpiryDate:       s.ExpiryDate.Format("2006-01-02"),
			Rate:             s.Rate,
			TotalQty:         s.TotalQty,
			Amount:           s.Amount,
			WalletAmountUsed: s.WalletAmountUsed,
			PayableAmount:    s.PayableAmount,
			PaymentStatus:    string(s.PaymentStatus),
			Status:           string(s.Status),
			DeliveryCount:    len(lines[i].schedule),
		})
	}
	return resp
}

// GET /api/subscriptions
func ListSubscriptionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		p := pagination.Parse(c)
		q := database.DB.Model(&models.Subscription{}).Where("member_id = ?", memberID)
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var total int64
		q.Count(&total)

		var subs []models.Subscription
		if err := q.Preload("Product").Preload("Variant").Preload("Agency").
			Order("created_at DESC").
			Limit(p.Limit).Offset(p.Offset()).
			Find(&subs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "subscriptions could not be listed")
		}

		resp := make([]SubscriptionResponse, 0, len(subs))
		for _, s := range subs {
			resp = append(resp, SubscriptionResponse{
				ID:               s.ID,
				ProductID:        s.ProductID,
				ProductName:      s.Product.Name,
				VariantID:        s.VariantID,
				VariantName:      s.Variant.Name,
				AgencyID:         s.AgencyID,
				Period:           s.Period,
				ScheduleType:     string(s.ScheduleType),
				Qty:              s.Qty,
				StartDate:        s.StartDate.Format("2006-01-02"),
				ExpiryDate:       s.ExpiryDate.Format("2006-01-02"),
				Rate:             s.Rate,
				TotalQty:         s.TotalQty,
				Amount:           s.Amount,
				WalletAmountUsed: s.WalletAmountUsed,
				PayableAmount:    s.PayableAmount,
				PaymentStatus:    string(s.PaymentStatus),
				Status:           string(s.Status),
			})
		}

		return c.JSON(pagination.Wrap(resp, total, p))
	}
}

// POST /api/subscriptions/:id/cancel
// Cancels the remaining deliveries and refunds their value to the wallet.
func CancelSubscriptionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		var subID uint
		if _, err := fmt.Sscan(c.Params("id"), &subID); err != nil || subID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid subscription id")
		}

		var sub models.Subscription
		if err := database.DB.First(&sub, "id = ? AND member_id = ?", subID, memberID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "subscription not found")
		}
		if sub.Status != models.SubscriptionActive {
			return fiber.NewError(fiber.StatusConflict, "subscription is not active")
		}

		var entries []models.DeliveryScheduleEntry
		if err := database.DB.Find(&entries, "subscription_id = ?", sub.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "delivery entries could not be loaded")
		}

		now := time.Now()
		refund := CalculateRefund(sub.Rate, entries, now)

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.DeliveryScheduleEntry{}).
				Where("subscription_id = ? AND status = ? AND date >= ?", sub.ID, models.DeliveryPending, truncateToDay(now)).
				Update("status", models.DeliveryCancelled).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.Subscription{}).Where("id = ?", sub.ID).
				Update("status", models.SubscriptionCancelled).Error; err != nil {
				return err
			}

			if refund > 0 {
				txn := models.WalletTransaction{
					MemberID:  memberID,
					Amount:    refund,
					Type:      models.WalletCredit,
					Reference: fmt.Sprintf("refund subscription #%d", sub.ID),
					OrderID:   &sub.OrderID,
				}
				if err := tx.Create(&txn).Error; err != nil {
					return err
				}
				if err := tx.Model(&models.Member{}).Where("id = ?", memberID).
					Update("wallet_balance", gorm.Expr("wallet_balance + ?", refund)).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			logger.L.Error("subscription cancel failed", zap.Uint("subscription_id", sub.ID), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "subscription could not be cancelled")
		}

		return c.JSON(fiber.Map{
			"subscription_id": sub.ID,
			"status":          models.SubscriptionCancelled,
			"refund_amount":   refund,
		})
	}
}
