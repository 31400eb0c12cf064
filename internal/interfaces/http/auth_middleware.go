package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/msylla/tonnage-api/internal/application/dto"
	"github.com/msylla/tonnage-api/pkg/jwt"
)

// Clés Locals posées par AuthMiddleware.
const (
	LocalUserID    = "user_id"
	LocalRole      = "role"
	LocalMagasinID = "magasin_id"
)

// AuthMiddleware valide le Bearer Token JWT et charge UserID, Role et MagasinID
// dans c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return erreur(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "header Authorization requis")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return erreur(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "format: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return erreur(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "token vide")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return erreur(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "token invalide ou expiré")
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalMagasinID, claims.MagasinID)
		return c.Next()
	}
}

// RequireRole autorise la requête si le rôle du token figure dans la liste.
// À placer après AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return erreur(c, fiber.StatusUnauthorized, "MISSING_ROLE", "token sans rôle")
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code: "FORBIDDEN", Message: "rôle insuffisant pour cette opération",
		})
	}
}

// GetUserID retourne l'UserID du contexte (après AuthMiddleware).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRole retourne le rôle du contexte (après AuthMiddleware).
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetMagasinID retourne le magasin de rattachement du contexte, vide pour
// les rôles non rattachés à un magasin.
func GetMagasinID(c *fiber.Ctx) string {
	v := c.Locals(LocalMagasinID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
