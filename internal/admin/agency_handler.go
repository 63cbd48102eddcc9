package admin

import (
	"fmt"
	"strings"

	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/pagination"
	"dailydairy-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AgencyRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	City  string `json:"city" validate:"required,max=100"`
	Phone string `json:"phone" validate:"max=20"`
	// optional login account for the agency
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

type AgencyResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
	UserID   *uint  `json:"user_id,omitempty"`
}

func toAgencyResponse(a models.Agency) AgencyResponse {
	return AgencyResponse{
		ID:       a.ID,
		Name:     a.Name,
		City:     a.City,
		Phone:    a.Phone,
		IsActive: a.IsActive,
		UserID:   a.UserID,
	}
}

// POST /api/admin/agencies
// Optionally provisions an AGENCY login when email/password are given.
func CreateAgencyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AgencyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}
		if (body.Email == "") != (body.Password == "") {
			return fiber.NewError(fiber.StatusBadRequest, "email and password must be provided together")
		}

		agency := models.Agency{
			Name:     body.Name,
			City:     body.City,
			Phone:    body.Phone,
			IsActive: true,
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if body.Email != "" {
				email := strings.TrimSpace(strings.ToLower(body.Email))
				var count int64
				tx.Model(&models.User{}).Where("email = ?", email).Count(&count)
				if count > 0 {
					return fiber.NewError(fiber.StatusConflict, "email is already registered")
				}

				hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
				if err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "password could not be hashed")
				}
				user := models.User{
					Name:         body.Name,
					Email:        email,
					Phone:        body.Phone,
					PasswordHash: string(hash),
					Role:         models.RoleAgency,
				}
				if err := tx.Create(&user).Error; err != nil {
					return err
				}
				agency.UserID = &user.ID
			}
			return tx.Create(&agency).Error
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "agency could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(toAgencyResponse(agency))
	}
}

// GET /api/admin/agencies
func ListAgenciesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := pagination.Parse(c)
		q := database.DB.Model(&models.Agency{})
		if city := c.Query("city"); city != "" {
			q = q.Where("city = ?", city)
		}

		var total int64
		q.Count(&total)

		var agencies []models.Agency
		if err := q.Order("name ASC").Limit(p.Limit).Offset(p.Offset()).Find(&agencies).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "agencies could not be listed")
		}

		resp := make([]AgencyResponse, 0, len(agencies))
		for _, a := range agencies {
			resp = append(resp, toAgencyResponse(a))
		}
		return c.JSON(pagination.Wrap(resp, total, p))
	}
}

// PUT /api/admin/agencies/:id
func UpdateAgencyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var agencyID uint
		if _, err := fmt.Sscan(c.Params("id"), &agencyID); err != nil || agencyID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid agency id")
		}

		var body struct {
			Name     string `json:"name" validate:"required,max=100"`
			City     string `json:"city" validate:"required,max=100"`
			Phone    string `json:"phone" validate:"max=20"`
			IsActive *bool  `json:"is_active"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		var agency models.Agency
		if err := database.DB.First(&agency, "id = ?", agencyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "agency not found")
		}

		updates := map[string]interface{}{
			"name":  body.Name,
			"city":  body.City,
			"phone": body.Phone,
		}
		if body.IsActive != nil {
			updates["is_active"] = *body.IsActive
		}
		if err := database.DB.Model(&agency).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "agency could not be updated")
		}

		database.DB.First(&agency, "id = ?", agencyID)
		return c.JSON(toAgencyResponse(agency))
	}
}

// DELETE /api/admin/agencies/:id
func DeleteAgencyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var agencyID uint
		if _, err := fmt.Sscan(c.Params("id"), &agencyID); err != nil || agencyID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid agency id")
		}

		var subCount int64
		database.DB.Model(&models.Subscription{}).
			Where("agency_id = ? AND status = ?", agencyID, models.SubscriptionActive).
			Count(&subCount)
		if subCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "agency has active subscriptions")
		}

		res := database.DB.Delete(&models.Agency{}, "id = ?", agencyID)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "agency could not be deleted")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "agency not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
