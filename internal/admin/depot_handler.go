package admin

import (
	"fmt"

	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/pagination"
	"dailydairy-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type DepotRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Address  string `json:"address" validate:"max=255"`
	City     string `json:"city" validate:"max=100"`
	IsOnline bool   `json:"is_online"`
	AgencyID *uint  `json:"agency_id"`
}

type DepotResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	IsOnline bool   `json:"is_online"`
	AgencyID *uint  `json:"agency_id,omitempty"`
}

func toDepotResponse(d models.Depot) DepotResponse {
	return DepotResponse{
		ID:       d.ID,
		Name:     d.Name,
		Address:  d.Address,
		City:     d.City,
		IsOnline: d.IsOnline,
		AgencyID: d.AgencyID,
	}
}

// POST /api/admin/depots
func CreateDepotHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DepotRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		// offline depots deliver through a fixed agency
		if !body.IsOnline && body.AgencyID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "offline depots require agency_id")
		}
		if body.AgencyID != nil {
			var agency models.Agency
			if err := database.DB.First(&agency, "id = ?", *body.AgencyID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "agency not found")
			}
		}

		var count int64
		database.DB.Model(&models.Depot{}).Where("name = ?", body.Name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "a depot with this name already exists")
		}

		depot := models.Depot{
			Name:     body.Name,
			Address:  body.Address,
			City:     body.City,
			IsOnline: body.IsOnline,
			AgencyID: body.AgencyID,
		}
		if err := database.DB.Create(&depot).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "depot could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(toDepotResponse(depot))
	}
}

// GET /api/admin/depots
func ListDepotsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := pagination.Parse(c)
		q := database.DB.Model(&models.Depot{})
		if city := c.Query("city"); city != "" {
			q = q.Where("city = ?", city)
		}

		var total int64
		q.Count(&total)

		var depots []models.Depot
		if err := q.Order("name ASC").Limit(p.Limit).Offset(p.Offset()).Find(&depots).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "depots could not be listed")
		}

		resp := make([]DepotResponse, 0, len(depots))
		for _, d := range depots {
			resp = append(resp, toDepotResponse(d))
		}
		return c.JSON(pagination.Wrap(resp, total, p))
	}
}

// GET /api/admin/depots/:id
func GetDepotHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var depotID uint
		if _, err := fmt.Sscan(c.Params("id"), &depotID); err != nil || depotID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid depot id")
		}

		var depot models.Depot
		if err := database.DB.First(&depot, "id = ?", depotID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "depot not found")
		}
		return c.JSON(toDepotResponse(depot))
	}
}

// PUT /api/admin/depots/:id
func UpdateDepotHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var depotID uint
		if _, err := fmt.Sscan(c.Params("id"), &depotID); err != nil || depotID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid depot id")
		}

		var body DepotRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}
		if !body.IsOnline && body.AgencyID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "offline depots require agency_id")
		}

		var depot models.Depot
		if err := database.DB.First(&depot, "id = ?", depotID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "depot not found")
		}

		if err := database.DB.Model(&depot).Updates(map[string]interface{}{
			"name":      body.Name,
			"address":   body.Address,
			"city":      body.City,
			"is_online": body.IsOnline,
			"agency_id": body.AgencyID,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "depot could not be updated")
		}

		database.DB.First(&depot, "id = ?", depotID)
		return c.JSON(toDepotResponse(depot))
	}
}

// DELETE /api/admin/depots/:id
func DeleteDepotHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var depotID uint
		if _, err := fmt.Sscan(c.Params("id"), &depotID); err != nil || depotID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid depot id")
		}

		var variantCount int64
		database.DB.Model(&models.DepotProductVariant{}).Where("depot_id = ?", depotID).Count(&variantCount)
		if variantCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "depot still has product variants")
		}

		res := database.DB.Delete(&models.Depot{}, "id = ?", depotID)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "depot could not be deleted")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "depot not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
