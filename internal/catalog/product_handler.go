package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"dailydairy-backend/internal/config"
	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Unit        string `json:"unit"`
	ImageURL    string `json:"image_url"`
	IsAvailable bool   `json:"is_available"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Unit:        p.Unit,
		ImageURL:    p.ImageURL,
		IsAvailable: p.IsAvailable,
	}
}

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// saveProductImage stores an uploaded image under the configured upload
// directory with a random name and returns its public URL path.
func saveProductImage(c *fiber.Ctx, cfg *config.Config) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil // image is optional
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", fiber.NewError(fiber.StatusBadRequest, "image must be jpg, png or webp")
	}
	if file.Size > 5*1024*1024 {
		return "", fiber.NewError(fiber.StatusBadRequest, "image must be smaller than 5MB")
	}

	name := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(cfg.UploadDir, name)); err != nil {
		return "", fiber.NewError(fiber.StatusInternalServerError, "image could not be saved")
	}
	return "/uploads/" + name, nil
}

// POST /api/admin/products  (multipart: name, description, category, unit, image)
func CreateProductHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := strings.TrimSpace(c.FormValue("name"))
		unit := strings.TrimSpace(c.FormValue("unit"))
		if name == "" || unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and unit are required")
		}

		var count int64
		database.DB.Model(&models.Product{}).Where("name = ?", name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "a product with this name already exists")
		}

		imageURL, err := saveProductImage(c, cfg)
		if err != nil {
			return err
		}

		product := models.Product{
			Name:        name,
			Description: c.FormValue("description"),
			Category:    c.FormValue("category"),
			Unit:        unit,
			ImageURL:    imageURL,
			IsAvailable: true,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "product could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
	}
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := pagination.Parse(c)
		q := database.DB.Model(&models.Product{})
		if category := c.Query("category"); category != "" {
			q = q.Where("category = ?", category)
		}
		if c.Query("available") == "true" {
			q = q.Where("is_available = true")
		}

		var total int64
		q.Count(&total)

		var products []models.Product
		if err := q.Order("name ASC").Limit(p.Limit).Offset(p.Offset()).Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "products could not be listed")
		}

		resp := make([]ProductResponse, 0, len(products))
		for _, prod := range products {
			resp = append(resp, toProductResponse(prod))
		}
		return c.JSON(pagination.Wrap(resp, total, p))
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var productID uint
		if _, err := fmt.Sscan(c.Params("id"), &productID); err != nil || productID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return c.JSON(toProductResponse(product))
	}
}

// PUT /api/admin/products/:id  (multipart, image optional)
func UpdateProductHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var productID uint
		if _, err := fmt.Sscan(c.Params("id"), &productID); err != nil || productID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}

		updates := map[string]interface{}{}
		if name := strings.TrimSpace(c.FormValue("name")); name != "" {
			updates["name"] = name
		}
		if desc := c.FormValue("description"); desc != "" {
			updates["description"] = desc
		}
		if category := c.FormValue("category"); category != "" {
			updates["category"] = category
		}
		if unit := strings.TrimSpace(c.FormValue("unit")); unit != "" {
			updates["unit"] = unit
		}
		if avail := c.FormValue("is_available"); avail != "" {
			updates["is_available"] = avail == "true"
		}

		imageURL, err := saveProductImage(c, cfg)
		if err != nil {
			return err
		}
		if imageURL != "" {
			updates["image_url"] = imageURL
		}

		if len(updates) > 0 {
			if err := database.DB.Model(&product).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "product could not be updated")
			}
		}

		database.DB.First(&product, "id = ?", productID)
		return c.JSON(toProductResponse(product))
	}
}

// DELETE /api/admin/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var productID uint
		if _, err := fmt.Sscan(c.Params("id"), &productID); err != nil || productID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}

		var subCount int64
		database.DB.Model(&models.Subscription{}).
			Where("product_id = ? AND status = ?", productID, models.SubscriptionActive).
			Count(&subCount)
		if subCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "product has active subscriptions")
		}

		res := database.DB.Delete(&models.Product{}, "id = ?", productID)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "product could not be deleted")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
