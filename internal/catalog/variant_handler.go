package catalog

import (
	"fmt"

	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/pagination"
	"dailydairy-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type VariantRequest struct {
	DepotID      uint     `json:"depot_id" validate:"required"`
	ProductID    uint     `json:"product_id" validate:"required"`
	Name         string   `json:"name" validate:"required,max=50"`
	MRP          float64  `json:"mrp" validate:"gte=0"`
	BuyingPrice  float64  `json:"buying_price" validate:"gte=0"`
	SellingPrice float64  `json:"selling_price" validate:"required,gt=0"`
	Price3Day    *float64 `json:"price_3_day"`
	Price7Day    *float64 `json:"price_7_day"`
	Price15Day   *float64 `json:"price_15_day"`
	Price1Month  *float64 `json:"price_1_month"`
	MinimumQty   float64  `json:"minimum_qty" validate:"gte=0"`
}

type VariantResponse struct {
	ID           uint     `json:"id"`
	DepotID      uint     `json:"depot_id"`
	ProductID    uint     `json:"product_id"`
	ProductName  string   `json:"product_name"`
	Name         string   `json:"name"`
	MRP          float64  `json:"mrp"`
	SellingPrice float64  `json:"selling_price"`
	Price3Day    *float64 `json:"price_3_day,omitempty"`
	Price7Day    *float64 `json:"price_7_day,omitempty"`
	Price15Day   *float64 `json:"price_15_day,omitempty"`
	Price1Month  *float64 `json:"price_1_month,omitempty"`
	ClosingQty   float64  `json:"closing_qty"`
	MinimumQty   float64  `json:"minimum_qty"`
	IsAvailable  bool     `json:"is_available"`
}

func toVariantResponse(v models.DepotProductVariant) VariantResponse {
	return VariantResponse{
		ID:           v.ID,
		DepotID:      v.DepotID,
		ProductID:    v.ProductID,
		ProductName:  v.Product.Name,
		Name:         v.Name,
		MRP:          v.MRP,
		SellingPrice: v.SellingPrice,
		Price3Day:    v.Price3Day,
		Price7Day:    v.Price7Day,
		Price15Day:   v.Price15Day,
		Price1Month:  v.Price1Month,
		ClosingQty:   v.ClosingQty,
		MinimumQty:   v.MinimumQty,
		IsAvailable:  v.IsAvailable,
	}
}

// POST /api/admin/variants
func CreateVariantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body VariantRequest
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
		var product models.Product
		if err := database.DB.First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "product not found")
		}

		var count int64
		database.DB.Model(&models.DepotProductVariant{}).
			Where("depot_id = ? AND product_id = ? AND name = ?", body.DepotID, body.ProductID, body.Name).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "variant already exists at this depot")
		}

		variant := models.DepotProductVariant{
			DepotID:      body.DepotID,
			ProductID:    body.ProductID,
			Name:         body.Name,
			MRP:          body.MRP,
			BuyingPrice:  body.BuyingPrice,
			SellingPrice: body.SellingPrice,
			Price3Day:    body.Price3Day,
			Price7Day:    body.Price7Day,
			Price15Day:   body.Price15Day,
			Price1Month:  body.Price1Month,
			MinimumQty:   body.MinimumQty,
			IsAvailable:  true,
		}
		if err := database.DB.Create(&variant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "variant could not be created")
		}

		variant.Product = product
		return c.Status(fiber.StatusCreated).JSON(toVariantResponse(variant))
	}
}

// GET /api/variants?depot_id=&product_id=
func ListVariantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := pagination.Parse(c)
		q := database.DB.Model(&models.DepotProductVariant{})

		if s := c.Query("depot_id"); s != "" {
			var depotID uint
			if _, err := fmt.Sscan(s, &depotID); err != nil || depotID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "depot_id is invalid")
			}
			q = q.Where("depot_id = ?", depotID)
		}
		if s := c.Query("product_id"); s != "" {
			var productID uint
			if _, err := fmt.Sscan(s, &productID); err != nil || productID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "product_id is invalid")
			}
			q = q.Where("product_id = ?", productID)
		}

		var total int64
		q.Count(&total)

		var variants []models.DepotProductVariant
		if err := q.Preload("Product").Order("id ASC").Limit(p.Limit).Offset(p.Offset()).Find(&variants).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "variants could not be listed")
		}

		resp := make([]VariantResponse, 0, len(variants))
		for _, v := range variants {
			resp = append(resp, toVariantResponse(v))
		}
		return c.JSON(pagination.Wrap(resp, total, p))
	}
}

// PUT /api/admin/variants/:id
func UpdateVariantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var variantID uint
		if _, err := fmt.Sscan(c.Params("id"), &variantID); err != nil || variantID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid variant id")
		}

		var body struct {
			Name         string   `json:"name" validate:"required,max=50"`
			MRP          float64  `json:"mrp" validate:"gte=0"`
			BuyingPrice  float64  `json:"buying_price" validate:"gte=0"`
			SellingPrice float64  `json:"selling_price" validate:"required,gt=0"`
			Price3Day    *float64 `json:"price_3_day"`
			Price7Day    *float64 `json:"price_7_day"`
			Price15Day   *float64 `json:"price_15_day"`
			Price1Month  *float64 `json:"price_1_month"`
			MinimumQty   float64  `json:"minimum_qty" validate:"gte=0"`
			IsAvailable  *bool    `json:"is_available"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		var variant models.DepotProductVariant
		if err := database.DB.First(&variant, "id = ?", variantID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "variant not found")
		}

		updates := map[string]interface{}{
			"name":          body.Name,
			"mrp":           body.MRP,
			"buying_price":  body.BuyingPrice,
			"selling_price": body.SellingPrice,
			"price3_day":    body.Price3Day,
			"price7_day":    body.Price7Day,
			"price15_day":   body.Price15Day,
			"price1_month":  body.Price1Month,
			"minimum_qty":   body.MinimumQty,
		}
		if body.IsAvailable != nil {
			updates["is_available"] = *body.IsAvailable
		}
		if err := database.DB.Model(&variant).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "variant could not be updated")
		}

		if err := database.DB.Preload("Product").First(&variant, "id = ?", variantID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "variant could not be reloaded")
		}
		return c.JSON(toVariantResponse(variant))
	}
}

// DELETE /api/admin/variants/:id
func DeleteVariantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var variantID uint
		if _, err := fmt.Sscan(c.Params("id"), &variantID); err != nil || variantID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid variant id")
		}

		var subCount int64
		database.DB.Model(&models.Subscription{}).
			Where("variant_id = ? AND status = ?", variantID, models.SubscriptionActive).
			Count(&subCount)
		if subCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "variant has active subscriptions")
		}

		res := database.DB.Delete(&models.DepotProductVariant{}, "id = ?", variantID)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "variant could not be deleted")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "variant not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
