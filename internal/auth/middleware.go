package auth

import (
	"fmt"
	"strings"

	"dailydairy-backend/internal/config"
	"dailydairy-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserRoleKey = "user_role"
	CtxMemberIDKey = "member_id"
	CtxAgencyIDKey = "agency_id"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization must be 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "token claims could not be parsed")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxMemberIDKey, claims.MemberID)
		c.Locals(CtxAgencyIDKey, claims.AgencyID)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "role information missing")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "you are not allowed to perform this action")
	}
}

// MemberID returns the member scope from the token, or a 403 when the caller
// is not a member account.
func MemberID(c *fiber.Ctx) (uint, error) {
	mVal := c.Locals(CtxMemberIDKey)
	mPtr, ok := mVal.(*uint)
	if !ok || mPtr == nil {
		return 0, fiber.NewError(fiber.StatusForbidden, "member scope missing from token")
	}
	return *mPtr, nil
}

// AgencyID returns the agency scope from the token, or a 403.
func AgencyID(c *fiber.Ctx) (uint, error) {
	aVal := c.Locals(CtxAgencyIDKey)
	aPtr, ok := aVal.(*uint)
	if !ok || aPtr == nil {
		return 0, fiber.NewError(fiber.StatusForbidden, "agency scope missing from token")
	}
	return *aPtr, nil
}

func UserID(c *fiber.Ctx) (uint, error) {
	uVal := c.Locals(CtxUserIDKey)
	userID, ok := uVal.(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "user information missing")
	}
	return userID, nil
}
