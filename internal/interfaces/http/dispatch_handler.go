package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/msylla/tonnage-api/internal/application/dispatch"
	"github.com/msylla/tonnage-api/internal/application/dto"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// DispatchHandler gère les dispatches (protégé, manager/admin en écriture).
type DispatchHandler struct {
	uc *dispatch.UseCase
}

// NewDispatchHandler construit le handler.
func NewDispatchHandler(uc *dispatch.UseCase) *DispatchHandler {
	return &DispatchHandler{uc: uc}
}

func versDispatchResponse(d *repository.DispatchDetail) dto.DispatchResponse {
	return dto.DispatchResponse{
		ID:                    d.Dispatch.ID,
		NumeroDispatch:        d.Dispatch.NumeroDispatch,
		ProduitID:             d.Dispatch.ProduitID,
		ProduitNom:            d.ProduitNom,
		ProduitReference:      d.ProduitReference,
		Unite:                 d.Unite,
		MagasinSourceID:       d.Dispatch.MagasinSourceID,
		MagasinSourceNom:      d.MagasinSourceNom,
		MagasinDestinationID:  d.Dispatch.MagasinDestinationID,
		MagasinDestinationNom: d.MagasinDestinationNom,
		ClientID:              d.Dispatch.ClientID,
		ClientNom:             d.ClientNom,
		QuantiteTotale:        d.Dispatch.QuantiteTotale,
		Statut:                d.Dispatch.Statut,
		Notes:                 d.Dispatch.Notes,
		DateCreation:          d.Dispatch.DateCreation,
	}
}

func versRotationSimple(r *entity.Rotation) dto.RotationResponse {
	return dto.RotationResponse{
		ID:             r.ID,
		DispatchID:     r.DispatchID,
		NumeroRotation: r.NumeroRotation,
		ChauffeurID:    r.ChauffeurID,
		CapaciteCamion: r.CapaciteCamion,
		QuantitePrevue: r.QuantitePrevue,
		QuantiteLivree: r.QuantiteLivree,
		Ecart:          r.Ecart,
		Statut:         r.Statut,
		Observations:   r.Observations,
		DateDepart:     r.DateDepart,
		DateArrivee:    r.DateArrivee,
	}
}

// Create enregistre un dispatch et réserve la quantité au magasin source.
// POST /api/dispatches
func (h *DispatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDispatchRequest
	if err := c.BodyParser(&in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "INVALID_BODY", "corps invalide")
	}
	if err := validerRequete(in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	out, err := h.uc.Creer(c.Context(), dispatch.CreerInput{
		NumeroDispatch:       in.NumeroDispatch,
		ProduitID:            in.ProduitID,
		MagasinSourceID:      in.MagasinSourceID,
		MagasinDestinationID: in.MagasinDestinationID,
		ClientID:             in.ClientID,
		QuantiteTotale:       in.QuantiteTotale,
		Notes:                in.Notes,
		CreatedBy:            GetUserID(c),
	})
	if err != nil {
		return repondreErreur(c, err)
	}
	return repondre(c, fiber.StatusCreated, fiber.Map{
		"id":              out.ID,
		"numero_dispatch": out.NumeroDispatch,
		"statut":          out.Statut,
	})
}

// GetByID retourne le dispatch et ses rotations.
// GET /api/dispatches/:id
func (h *DispatchHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	detail, rotations, err := h.uc.Obtenir(c.Context(), id)
	if err != nil {
		return repondreErreur(c, err)
	}
	out := dto.DispatchDetailResponse{
		DispatchResponse: versDispatchResponse(detail),
		Rotations:        make([]dto.RotationResponse, 0, len(rotations)),
	}
	for _, r := range rotations {
		rr := versRotationSimple(r)
		rr.NumeroDispatch = detail.Dispatch.NumeroDispatch
		out.Rotations = append(out.Rotations, rr)
	}
	return repondre(c, fiber.StatusOK, out)
}

// List retourne les dispatches filtrés.
// GET /api/dispatches
func (h *DispatchHandler) List(c *fiber.Ctx) error {
	var in dto.ListDispatchRequest
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
	detail, err := h.uc.Lister(c.Context(), repository.FiltresDispatch{
		MagasinID: in.MagasinID,
		Statut:    in.Statut,
		DateDebut: debut,
		DateFin:   fin,
	})
	if err != nil {
		return repondreErreur(c, err)
	}
	out := make([]dto.DispatchResponse, 0, len(detail))
	for _, d := range detail {
		out = append(out, versDispatchResponse(d))
	}
	return repondre(c, fiber.StatusOK, out)
}

// Progression retourne l'avancement d'allocation des dispatches ouverts.
// GET /api/dispatches/progression
func (h *DispatchHandler) Progression(c *fiber.Ctx) error {
	lignes, err := h.uc.Progression(c.Context(), c.Query("magasin_id"))
	if err != nil {
		return repondreErreur(c, err)
	}
	out := make([]dto.ProgressionResponse, 0, len(lignes))
	for _, l := range lignes {
		out = append(out, dto.ProgressionResponse{
			DispatchResponse: versDispatchResponse(&l.DispatchDetail),
			QuantiteAllouee:  l.QuantiteAllouee,
			ResteAAllouer:    l.ResteAAllouer,
			Progression:      l.Progression,
			NombreRotations:  l.NombreRotations,
		})
	}
	return repondre(c, fiber.StatusOK, out)
}

// Annuler annule un dispatch en_attente et libère sa réservation.
// POST /api/dispatches/:id/annuler
func (h *DispatchHandler) Annuler(c *fiber.Ctx) error {
	if err := h.uc.Annuler(c.Context(), c.Params("id")); err != nil {
		return repondreErreur(c, err)
	}
	return repondre(c, fiber.StatusOK, fiber.Map{"statut": entity.DispatchAnnule})
}
