package admin

import (
	"fmt"

	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/pagination"
	"dailydairy-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type SupervisorRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	DepotID uint   `json:"depot_id" validate:"required"`
	Phone   string `json:"phone" validate:"max=20"`
}

type SupervisorResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	DepotID   uint   `json:"depot_id"`
	DepotName string `json:"depot_name"`
	Phone     string `json:"phone"`
}

// POST /api/admin/supervisors
func CreateSupervisorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupervisorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		var depot models.Depot
		if err := database.DB.First(&depot, "id = ?", body.DepotID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "depot not found")
		}

		sup := models.Supervisor{Name: body.Name, DepotID: body.DepotID, Phone: body.Phone}
		if err := database.DB.Create(&sup).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "supervisor could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(SupervisorResponse{
			ID:        sup.ID,
			Name:      sup.Name,
			DepotID:   sup.DepotID,
			DepotName: depot.Name,
			Phone:     sup.Phone,
		})
	}
}

// GET /api/admin/supervisors
func ListSupervisorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := pagination.Parse(c)
		q := database.DB.Model(&models.Supervisor{})
		if s := c.Query("depot_id"); s != "" {
			var depotID uint
			if _, err := fmt.Sscan(s, &depotID); err != nil || depotID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "depot_id is invalid")
			}
			q = q.Where("depot_id = ?", depotID)
		}

		var total int64
		q.Count(&total)

		var sups []models.Supervisor
		if err := q.Preload("Depot").Order("name ASC").Limit(p.Limit).Offset(p.Offset()).Find(&sups).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "supervisors could not be listed")
		}

		resp := make([]SupervisorResponse, 0, len(sups))
		for _, s := range sups {
			resp = append(resp, SupervisorResponse{
				ID:        s.ID,
				Name:      s.Name,
				DepotID:   s.DepotID,
				DepotName: s.Depot.Name,
				Phone:     s.Phone,
			})
		}
		return c.JSON(pagination.Wrap(resp, total, p))
	}
}

// DELETE /api/admin/supervisors/:id
func DeleteSupervisorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var supID uint
		if _, err := fmt.Sscan(c.Params("id"), &supID); err != nil || supID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid supervisor id")
		}

		res := database.DB.Delete(&models.Supervisor{}, "id = ?", supID)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "supervisor could not be deleted")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "supervisor not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
