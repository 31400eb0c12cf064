package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/msylla/tonnage-api/internal/application/auth"
	"github.com/msylla/tonnage-api/internal/application/dto"
)

// AuthHandler gère l'authentification.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construit le handler.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login échange email/mot de passe contre un token JWT.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "INVALID_BODY", "corps invalide")
	}
	if err := validerRequete(in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", "email et password (6 caractères min) requis")
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return repondreErreur(c, err)
	}
	return repondre(c, fiber.StatusOK, out)
}

// Profil retourne l'utilisateur du token.
// GET /api/auth/profil
func (h *AuthHandler) Profil(c *fiber.Ctx) error {
	out, err := h.uc.Profil(c.Context(), GetUserID(c))
	if err != nil {
		return repondreErreur(c, err)
	}
	return repondre(c, fiber.StatusOK, out)
}
