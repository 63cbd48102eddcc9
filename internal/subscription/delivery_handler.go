package subscription

import (
	"fmt"
	"time"

	"dailydairy-backend/internal/auth"
	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

type DeliveryEntryResponse struct {
	ID             uint    `json:"id"`
	SubscriptionID uint    `json:"subscription_id"`
	MemberID       uint    `json:"member_id"`
	AgencyID       uint    `json:"agency_id"`
	Date           string  `json:"date"`
	Quantity       float64 `json:"quantity"`
	Status         string  `json:"status"`
}

func toEntryResponse(e models.DeliveryScheduleEntry) DeliveryEntryResponse {
	return DeliveryEntryResponse{
		ID:             e.ID,
		SubscriptionID: e.SubscriptionID,
		MemberID:       e.MemberID,
		AgencyID:       e.AgencyID,
		Date:           e.Date.Format("2006-01-02"),
		Quantity:       e.Quantity,
		Status:         string(e.Status),
	}
}

// GET /api/delivery-schedules?subscription_id=&from=&to=
// Member view of their own delivery calendar.
func ListDeliverySchedulesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		p := pagination.Parse(c)
		q := database.DB.Model(&models.DeliveryScheduleEntry{}).Where("member_id = ?", memberID)

		if s := c.Query("subscription_id"); s != "" {
			var subID uint
			if _, err := fmt.Sscan(s, &subID); err != nil || subID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "subscription_id is invalid")
			}
			q = q.Where("subscription_id = ?", subID)
		}
		if from := c.Query("from"); from != "" {
			d, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from must be 'YYYY-MM-DD'")
			}
			q = q.Where("date >= ?", d)
		}
		if to := c.Query("to"); to != "" {
			d, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to must be 'YYYY-MM-DD'")
			}
			q = q.Where("date <= ?", d)
		}

		var total int64
		q.Count(&total)

		var entries []models.DeliveryScheduleEntry
		if err := q.Order("date ASC").Limit(p.Limit).Offset(p.Offset()).Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "delivery schedule could not be listed")
		}

		resp := make([]DeliveryEntryResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, toEntryResponse(e))
		}
		return c.JSON(pagination.Wrap(resp, total, p))
	}
}

// GET /api/delivery-sheet?date=
// The agency's delivery sheet for one day. Admins may pass agency_id.
func AgencyDeliverySheetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		agencyID, err := resolveAgencyScope(c)
		if err != nil {
			return err
		}

		dateStr := c.Query("date", time.Now().Format("2006-01-02"))
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		p := pagination.Parse(c)
		q := database.DB.Model(&models.DeliveryScheduleEntry{}).
			Where("agency_id = ? AND date = ?", agencyID, date)

		var total int64
		q.Count(&total)

		var entries []models.DeliveryScheduleEntry
		if err := q.Order("id ASC").Limit(p.Limit).Offset(p.Offset()).Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "delivery sheet could not be listed")
		}

		resp := make([]DeliveryEntryResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, toEntryResponse(e))
		}
		return c.JSON(pagination.Wrap(resp, total, p))
	}
}

type UpdateDeliveryStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DELIVERED NOT_DELIVERED"`
}

// PATCH /api/delivery-schedules/:id/status
// Agencies mark entries delivered or not delivered; cancelled entries and
// entries of other agencies are untouchable.
func UpdateDeliveryStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var entryID uint
		if _, err := fmt.Sscan(c.Params("id"), &entryID); err != nil || entryID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid delivery entry id")
		}

		var body UpdateDeliveryStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Status != string(models.DeliveryDelivered) && body.Status != string(models.DeliveryNotDelivered) {
			return fiber.NewError(fiber.StatusBadRequest, "status must be DELIVERED or NOT_DELIVERED")
		}

		var entry models.DeliveryScheduleEntry
		if err := database.DB.First(&entry, "id = ?", entryID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "delivery entry not found")
		}

		role := c.Locals(auth.CtxUserRoleKey).(models.UserRole)
		if role == models.RoleAgency {
			agencyID, err := auth.AgencyID(c)
			if err != nil {
				return err
			}
			if entry.AgencyID != agencyID {
				return fiber.NewError(fiber.StatusForbidden, "entry belongs to another agency")
			}
		}

		if entry.Status == models.DeliveryCancelled {
			return fiber.NewError(fiber.StatusConflict, "cancelled entries cannot be updated")
		}

		if err := database.DB.Model(&entry).Update("status", body.Status).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "delivery entry could not be updated")
		}

		entry.Status = models.DeliveryStatus(body.Status)
		return c.JSON(toEntryResponse(entry))
	}
}

func resolveAgencyScope(c *fiber.Ctx) (uint, error) {
	role, ok := c.Locals(auth.CtxUserRoleKey).(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "role information missing")
	}

	if role == models.RoleAgency {
		return auth.AgencyID(c)
	}

	// admin callers pick the agency explicitly
	s := c.Query("agency_id")
	if s == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "agency_id is required")
	}
	var agencyID uint
	if _, err := fmt.Sscan(s, &agencyID); err != nil || agencyID == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "agency_id is invalid")
	}
	return agencyID, nil
}
