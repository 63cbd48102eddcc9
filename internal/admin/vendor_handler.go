package admin

import (
	"fmt"

	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/pagination"
	"dailydairy-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type VendorRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Contact string `json:"contact" validate:"max=100"`
	Address string `json:"address" validate:"max=255"`
}

type VendorResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Address  string `json:"address"`
	IsActive bool   `json:"is_active"`
}

func toVendorResponse(v models.Vendor) VendorResponse {
	return VendorResponse{ID: v.ID, Name: v.Name, Contact: v.Contact, Address: v.Address, IsActive: v.IsActive}
}

// POST /api/admin/vendors
func CreateVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body VendorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		vendor := models.Vendor{Name: body.Name, Contact: body.Contact, Address: body.Address, IsActive: true}
		if err := database.DB.Create(&vendor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "vendor could not be created")
		}
		return c.Status(fiber.StatusCreated).JSON(toVendorResponse(vendor))
	}
}

// GET /api/admin/vendors
func ListVendorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := pagination.Parse(c)

		var total int64
		database.DB.Model(&models.Vendor{}).Count(&total)

		var vendors []models.Vendor
		if err := database.DB.Order("name ASC").Limit(p.Limit).Offset(p.Offset()).Find(&vendors).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "vendors could not be listed")
		}

		resp := make([]VendorResponse, 0, len(vendors))
		for _, v := range vendors {
			resp = append(resp, toVendorResponse(v))
		}
		return c.JSON(pagination.Wrap(resp, total, p))
	}
}

// PUT /api/admin/vendors/:id
func UpdateVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var vendorID uint
		if _, err := fmt.Sscan(c.Params("id"), &vendorID); err != nil || vendorID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid vendor id")
		}

		var body VendorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		var vendor models.Vendor
		if err := database.DB.First(&vendor, "id = ?", vendorID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "vendor not found")
		}

		if err := database.DB.Model(&vendor).Updates(map[string]interface{}{
			"name":    body.Name,
			"contact": body.Contact,
			"address": body.Address,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "vendor could not be updated")
		}

		database.DB.First(&vendor, "id = ?", vendorID)
		return c.JSON(toVendorResponse(vendor))
	}
}

// DELETE /api/admin/vendors/:id
func DeleteVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var vendorID uint
		if _, err := fmt.Sscan(c.Params("id"), &vendorID); err != nil || vendorID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid vendor id")
		}

		res := database.DB.Delete(&models.Vendor{}, "id = ?", vendorID)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "vendor could not be deleted")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "vendor not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
