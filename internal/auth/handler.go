package auth

import (
	"errors"
	"strings"

	"dailydairy-backend/internal/config"
	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/logger"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=10,max=15"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token    string          `json:"token"`
	UserID   uint            `json:"user_id"`
	MemberID *uint           `json:"member_id,omitempty"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
}

// POST /api/auth/register
// Member signup: creates the login user and the member row with a zero wallet.
func RegisterHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "email is already registered")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "password could not be hashed")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			Phone:        body.Phone,
			PasswordHash: string(hash),
			Role:         models.RoleMember,
		}
		member := models.Member{}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			member.UserID = user.ID
			return tx.Create(&member).Error
		})
		if err != nil {
			logger.L.Error("member registration failed", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "registration failed")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user, &member.ID, nil)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "token could not be generated")
		}

		return c.Status(fiber.StatusCreated).JSON(AuthResponse{
			Token:    token,
			UserID:   user.ID,
			MemberID: &member.ID,
			Name:     user.Name,
			Email:    user.Email,
			Role:     user.Role,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.First(&user, "email = ?", body.Email).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "login failed")
		}
		if !user.IsActive {
			return fiber.NewError(fiber.StatusForbidden, "account is disabled")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")
		}

		var memberID, agencyID *uint
		if user.Role == models.RoleMember {
			var member models.Member
			if err := database.DB.First(&member, "user_id = ?", user.ID).Error; err == nil {
				memberID = &member.ID
			}
		}
		if user.Role == models.RoleAgency {
			var agency models.Agency
			if err := database.DB.First(&agency, "user_id = ?", user.ID).Error; err == nil {
				agencyID = &agency.ID
			}
		}

		token, err := GenerateToken(cfg.JWTSecret, &user, memberID, agencyID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "token could not be generated")
		}

		return c.JSON(AuthResponse{
			Token:    token,
			UserID:   user.ID,
			MemberID: memberID,
			Name:     user.Name,
			Email:    user.Email,
			Role:     user.Role,
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}

		resp := fiber.Map{
			"user_id": user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"phone":   user.Phone,
			"role":    user.Role,
		}

		if user.Role == models.RoleMember {
			var member models.Member
			if err := database.DB.First(&member, "user_id = ?", user.ID).Error; err == nil {
				resp["member_id"] = member.ID
				resp["wallet_balance"] = member.WalletBalance
			}
		}

		return c.JSON(resp)
	}
}
