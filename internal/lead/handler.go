package lead

import (
	"fmt"

	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/pagination"
	"dailydairy-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateLeadRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Phone           string `json:"phone" validate:"required,min=10,max=15"`
	Email           string `json:"email" validate:"omitempty,email"`
	City            string `json:"city" validate:"max=100"`
	ProductInterest string `json:"product_interest" validate:"max=255"`
}

type UpdateLeadRequest struct {
	Status string `json:"status" validate:"required,oneof=NEW CONTACTED CONVERTED CLOSED"`
	Notes  string `json:"notes" validate:"max=1000"`
}

type LeadResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	City            string `json:"city"`
	ProductInterest string `json:"product_interest"`
	Status          string `json:"status"`
	Notes           string `json:"notes"`
	CreatedAt       string `json:"created_at"`
}

func toLeadResponse(l models.Lead) LeadResponse {
	return LeadResponse{
		ID:              l.ID,
		Name:            l.Name,
		Phone:           l.Phone,
		Email:           l.Email,
		City:            l.City,
		ProductInterest: l.ProductInterest,
		Status:          l.Status,
		Notes:           l.Notes,
		CreatedAt:       l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/leads (public)
func CreateLeadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateLeadRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		lead := models.Lead{
			Name:            body.Name,
			Phone:           body.Phone,
			Email:           body.Email,
			City:            body.City,
			ProductInterest: body.ProductInterest,
			Status:          "NEW",
		}
		if err := database.DB.Create(&lead).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "lead could not be saved")
		}
		return c.Status(fiber.StatusCreated).JSON(toLeadResponse(lead))
	}
}

// GET /api/admin/leads
func ListLeadsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := pagination.Parse(c)
		q := database.DB.Model(&models.Lead{})
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var total int64
		q.Count(&total)

		var leads []models.Lead
		if err := q.Order("created_at DESC").Limit(p.Limit).Offset(p.Offset()).Find(&leads).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "leads could not be listed")
		}

		resp := make([]LeadResponse, 0, len(leads))
		for _, l := range leads {
			resp = append(resp, toLeadResponse(l))
		}
		return c.JSON(pagination.Wrap(resp, total, p))
	}
}

// PUT /api/admin/leads/:id
func UpdateLeadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var leadID uint
		if _, err := fmt.Sscan(c.Params("id"), &leadID); err != nil || leadID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid lead id")
		}

		var body UpdateLeadRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		var lead models.Lead
		if err := database.DB.First(&lead, "id = ?", leadID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "lead not found")
		}

		if err := database.DB.Model(&lead).Updates(map[string]interface{}{
			"status": body.Status,
			"notes":  body.Notes,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "lead could not be updated")
		}

		database.DB.First(&lead, "id = ?", leadID)
		return c.JSON(toLeadResponse(lead))
	}
}
