package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/msylla/tonnage-api/internal/application/dto"
	"github.com/msylla/tonnage-api/internal/application/livraison"
	"github.com/msylla/tonnage-api/internal/application/reconciliation"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// LivraisonHandler gère les livraisons déclarées.
type LivraisonHandler struct {
	uc    *livraison.UseCase
	recon *reconciliation.UseCase
}

// NewLivraisonHandler construit le handler.
func NewLivraisonHandler(uc *livraison.UseCase, recon *reconciliation.UseCase) *LivraisonHandler {
	return &LivraisonHandler{uc: uc, recon: recon}
}

func versLivraisonResponse(l *entity.Livraison) dto.LivraisonResponse {
	return dto.LivraisonResponse{
		ID:            l.ID,
		ProduitID:     l.ProduitID,
		MagasinID:     l.MagasinID,
		ClientID:      l.ClientID,
		Quantite:      l.Quantite,
		DateLivraison: l.DateLivraison,
		Transporteur:  l.Transporteur,
		NumeroCamion:  l.NumeroCamion,
		Chauffeur:     l.Chauffeur,
		Statut:        l.Statut,
	}
}

// Create déclare une livraison. La déclaration ne touche pas au stock: elle
// sera rapprochée des entrées magasin par le moteur de rapprochement.
// POST /api/livraisons
func (h *LivraisonHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLivraisonRequest
	if err := c.BodyParser(&in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "INVALID_BODY", "corps invalide")
	}
	if err := validerRequete(in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	var date time.Time
	if in.DateLivraison != "" {
		jour, err := parseJour(in.DateLivraison)
		if err != nil {
			return erreur(c, fiber.StatusBadRequest, "VALIDATION", "date_livraison au format YYYY-MM-DD")
		}
		date = *jour
	}
	out, err := h.uc.Creer(c.Context(), livraison.CreerInput{
		ProduitID:     in.ProduitID,
		MagasinID:     in.MagasinID,
		ClientID:      in.ClientID,
		Quantite:      in.Quantite,
		DateLivraison: date,
		Transporteur:  in.Transporteur,
		NumeroCamion:  in.NumeroCamion,
		Chauffeur:     in.Chauffeur,
		Statut:        in.Statut,
		CreatedBy:     GetUserID(c),
	})
	if err != nil {
		return repondreErreur(c, err)
	}
	_ = h.recon.Invalider(c.Context())
	return repondre(c, fiber.StatusCreated, versLivraisonResponse(out))
}

// GetByID retourne une livraison.
// GET /api/livraisons/:id
func (h *LivraisonHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Obtenir(c.Context(), c.Params("id"))
	if err != nil {
		return repondreErreur(c, err)
	}
	return repondre(c, fiber.StatusOK, versLivraisonResponse(out))
}

// List retourne les livraisons filtrées.
// GET /api/livraisons
func (h *LivraisonHandler) List(c *fiber.Ctx) error {
	var in dto.ListLivraisonRequest
	if err := c.QueryParser(&in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", "paramètres invalides")
	}
	if err := validerRequete(in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	debut, fin, err := parsePeriode(in.PeriodeRequest)
	if err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", "dates au format YYYY-MM-DD")
	}
	livraisons, err := h.uc.Lister(c.Context(), repository.FiltresLivraison{
		MagasinID:    in.MagasinID,
		Statut:       in.Statut,
		Transporteur: in.Transporteur,
		DateDebut:    debut,
		DateFin:      fin,
	})
	if err != nil {
		return repondreErreur(c, err)
	}
	out := make([]dto.LivraisonResponse, 0, len(livraisons))
	for _, l := range livraisons {
		r := versLivraisonResponse(&l.Livraison)
		r.ProduitNom = l.ProduitNom
		r.MagasinNom = l.MagasinNom
		r.ClientNom = l.ClientNom
		out = append(out, r)
	}
	return repondre(c, fiber.StatusOK, out)
}
