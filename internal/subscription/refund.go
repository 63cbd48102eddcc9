package subscription

import (
	"time"

	"dailydairy-backend/internal/models"

	"github.com/shopspring/decimal"
)

// CalculateRefund values the undelivered remainder of a cancelled
// subscription: pending entries dated today or later, at the subscription
// rate. Delivered, skipped and past-due entries are not refunded.
func CalculateRefund(rate float64, entries []models.DeliveryScheduleEntry, today time.Time) float64 {
	today = truncateToDay(today)

	qty := decimal.Zero
	for _, e := range entries {
		if e.Status != models.DeliveryPending {
			continue
		}
		if truncateToDay(e.Date).Before(today) {
			continue
		}
		qty = qty.Add(decimal.NewFromFloat(e.Quantity))
	}

	return decimal.NewFromFloat(rate).Mul(qty).Round(2).InexactFloat64()
}
