package member

import (
	"fmt"

	"dailydairy-backend/internal/auth"
	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AddressRequest struct {
	Recipient string `json:"recipient" validate:"required,max=100"`
	Line1     string `json:"line1" validate:"required,max=255"`
	Line2     string `json:"line2" validate:"max=255"`
	City      string `json:"city" validate:"required,max=100"`
	Pincode   string `json:"pincode" validate:"required,min=4,max=10"`
	IsDefault bool   `json:"is_default"`
}

type AddressResponse struct {
	ID        uint   `json:"id"`
	Recipient string `json:"recipient"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2"`
	City      string `json:"city"`
	Pincode   string `json:"pincode"`
	IsDefault bool   `json:"is_default"`
}

func toAddressResponse(a models.DeliveryAddress) AddressResponse {
	return AddressResponse{
		ID:        a.ID,
		Recipient: a.Recipient,
		Line1:     a.Line1,
		Line2:     a.Line2,
		City:      a.City,
		Pincode:   a.Pincode,
		IsDefault: a.IsDefault,
	}
}

// GET /api/members/me
func ProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		var member models.Member
		if err := database.DB.Preload("User").Preload("Agency").First(&member, "id = ?", memberID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "member not found")
		}

		resp := fiber.Map{
			"member_id":      member.ID,
			"name":           member.User.Name,
			"email":          member.User.Email,
			"phone":          member.User.Phone,
			"wallet_balance": member.WalletBalance,
		}
		if member.Agency != nil {
			resp["agency"] = fiber.Map{"id": member.Agency.ID, "name": member.Agency.Name}
		}
		return c.JSON(resp)
	}
}

// POST /api/addresses
func CreateAddressHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		var body AddressRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		addr := models.DeliveryAddress{
			MemberID:  memberID,
			Recipient: body.Recipient,
			Line1:     body.Line1,
			Line2:     body.Line2,
			City:      body.City,
			Pincode:   body.Pincode,
			IsDefault: body.IsDefault,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if body.IsDefault {
				if err := tx.Model(&models.DeliveryAddress{}).
					Where("member_id = ?", memberID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			return tx.Create(&addr).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "address could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(toAddressResponse(addr))
	}
}

// GET /api/addresses
func ListAddressesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		var addrs []models.DeliveryAddress
		if err := database.DB.Where("member_id = ?", memberID).
			Order("is_default DESC, id ASC").Find(&addrs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "addresses could not be listed")
		}

		resp := make([]AddressResponse, 0, len(addrs))
		for _, a := range addrs {
			resp = append(resp, toAddressResponse(a))
		}
		return c.JSON(resp)
	}
}

// PUT /api/addresses/:id
func UpdateAddressHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		var addrID uint
		if _, err := fmt.Sscan(c.Params("id"), &addrID); err != nil || addrID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid address id")
		}

		var body AddressRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		var addr models.DeliveryAddress
		if err := database.DB.First(&addr, "id = ? AND member_id = ?", addrID, memberID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "address not found")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if body.IsDefault && !addr.IsDefault {
				if err := tx.Model(&models.DeliveryAddress{}).
					Where("member_id = ?", memberID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			return tx.Model(&addr).Updates(map[string]interface{}{
				"recipient":  body.Recipient,
				"line1":      body.Line1,
				"line2":      body.Line2,
				"city":       body.City,
				"pincode":    body.Pincode,
				"is_default": body.IsDefault,
			}).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "address could not be updated")
		}

		database.DB.First(&addr, "id = ?", addrID)
		return c.JSON(toAddressResponse(addr))
	}
}

// DELETE /api/addresses/:id
func DeleteAddressHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID, err := auth.MemberID(c)
		if err != nil {
			return err
		}

		var addrID uint
		if _, err := fmt.Sscan(c.Params("id"), &addrID); err != nil || addrID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid address id")
		}

		var addr models.DeliveryAddress
		if err := database.DB.First(&addr, "id = ? AND member_id = ?", addrID, memberID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "address not found")
		}

		var subCount int64
		database.DB.Model(&models.Subscription{}).
			Where("delivery_address_id = ? AND status = ?", addrID, models.SubscriptionActive).
			Count(&subCount)
		if subCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "address is used by an active subscription")
		}

		if err := database.DB.Delete(&addr).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "address could not be deleted")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
