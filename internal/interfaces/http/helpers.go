package http

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/msylla/tonnage-api/internal/application/dto"
	"github.com/msylla/tonnage-api/internal/domain"
)

var valide = validator.New()

// validerRequete applique les tags validate du DTO. Retourne nil ou un message exploitable.
func validerRequete(in any) error {
	if err := valide.Struct(in); err != nil {
		return err
	}
	return nil
}

func erreur(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// repondreErreur traduit une erreur de domaine en réponse HTTP.
// Les erreurs typées (stock, quota, capacité) gardent leur message: il porte
// la quantité qui permet à l'appelant d'ajuster sa demande.
func repondreErreur(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return erreur(c, fiber.StatusNotFound, "NOT_FOUND", "ressource non trouvée")
	case errors.Is(err, domain.ErrDuplicate):
		return erreur(c, fiber.StatusConflict, "DUPLICATE", "ressource dupliquée")
	case errors.Is(err, domain.ErrStockInsuffisant):
		return erreur(c, fiber.StatusConflict, "STOCK_INSUFFISANT", err.Error())
	case errors.Is(err, domain.ErrQuotaDepasse):
		return erreur(c, fiber.StatusConflict, "QUOTA_DEPASSE", err.Error())
	case errors.Is(err, domain.ErrCapaciteInsuffisante):
		return erreur(c, fiber.StatusConflict, "CAPACITE_INSUFFISANTE", err.Error())
	case errors.Is(err, domain.ErrTransitionInvalide):
		return erreur(c, fiber.StatusConflict, "TRANSITION_INVALIDE", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return erreur(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "identifiants invalides")
	case errors.Is(err, domain.ErrForbidden):
		return erreur(c, fiber.StatusForbidden, "FORBIDDEN", "accès refusé")
	default:
		return erreur(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

func repondre(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: true, Data: data})
}

const formatJour = "2006-01-02"

// parseJour interprète une date YYYY-MM-DD; nil si vide.
func parseJour(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(formatJour, s)
	if err != nil {
		return nil, domain.ErrValidation
	}
	return &t, nil
}

// parsePeriode interprète les bornes d'un PeriodeRequest. La borne de fin est
// étendue à la fin de journée: les filtres SQL sont inclusifs.
func parsePeriode(p dto.PeriodeRequest) (debut, fin *time.Time, err error) {
	debut, err = parseJour(p.DateDebut)
	if err != nil {
		return nil, nil, err
	}
	fin, err = parseJour(p.DateFin)
	if err != nil {
		return nil, nil, err
	}
	if fin != nil {
		f := fin.Add(24*time.Hour - time.Nanosecond)
		fin = &f
	}
	return debut, fin, nil
}
