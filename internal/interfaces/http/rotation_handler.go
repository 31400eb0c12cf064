package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/msylla/tonnage-api/internal/application/dto"
	"github.com/msylla/tonnage-api/internal/application/reconciliation"
	"github.com/msylla/tonnage-api/internal/application/rotation"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// RotationHandler gère le cycle de vie des rotations. Les réceptions invalident
// le cache de rapprochement: elles créent des mouvements.
type RotationHandler struct {
	uc    *rotation.UseCase
	recon *reconciliation.UseCase
}

// NewRotationHandler construit le handler.
func NewRotationHandler(uc *rotation.UseCase, recon *reconciliation.UseCase) *RotationHandler {
	return &RotationHandler{uc: uc, recon: recon}
}

func versRotationResponse(r *repository.RotationDetail) dto.RotationResponse {
	out := versRotationSimple(&r.Rotation)
	out.NumeroDispatch = r.NumeroDispatch
	out.ChauffeurNom = r.ChauffeurNom
	out.NumeroCamion = r.NumeroCamion
	out.ProduitNom = r.ProduitNom
	out.MagasinSourceNom = r.MagasinSourceNom
	out.MagasinDestinationNom = r.MagasinDestinationNom
	return out
}

// Calculer propose un plan de rotations sans rien persister.
// POST /api/rotations/calculer
func (h *RotationHandler) Calculer(c *fiber.Ctx) error {
	var in dto.CalculerRotationsRequest
	if err := c.BodyParser(&in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "INVALID_BODY", "corps invalide")
	}
	if err := validerRequete(in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	propositions, err := h.uc.Calculer(c.Context(), in.Quantite, in.ChauffeurIDs)
	if err != nil {
		return repondreErreur(c, err)
	}
	out := make([]dto.PropositionRotationResponse, 0, len(propositions))
	for _, p := range propositions {
		out = append(out, dto.PropositionRotationResponse{
			NumeroRotation: p.NumeroRotation,
			ChauffeurID:    p.ChauffeurID,
			ChauffeurNom:   p.ChauffeurNom,
			NumeroCamion:   p.NumeroCamion,
			Capacite:       p.Capacite,
			QuantitePrevue: p.QuantitePrevue,
		})
	}
	return repondre(c, fiber.StatusOK, out)
}

// Ajouter rattache une rotation planifiée à un dispatch.
// POST /api/dispatches/:id/rotations
func (h *RotationHandler) Ajouter(c *fiber.Ctx) error {
	var in dto.AjouterRotationRequest
	if err := c.BodyParser(&in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "INVALID_BODY", "corps invalide")
	}
	if err := validerRequete(in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	out, err := h.uc.Ajouter(c.Context(), c.Params("id"), rotation.AjouterInput{
		ChauffeurID:    in.ChauffeurID,
		QuantitePrevue: in.QuantitePrevue,
		Observations:   in.Observations,
	})
	if err != nil {
		return repondreErreur(c, err)
	}
	return repondre(c, fiber.StatusCreated, versRotationSimple(out))
}

// AjouterLot persiste un lot de rotations en tout ou rien.
// POST /api/dispatches/:id/rotations/lot
func (h *RotationHandler) AjouterLot(c *fiber.Ctx) error {
	var in dto.CreerRotationsMultiplesRequest
	if err := c.BodyParser(&in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "INVALID_BODY", "corps invalide")
	}
	if err := validerRequete(in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	propositions := make([]rotation.PropositionInput, 0, len(in.Rotations))
	for _, p := range in.Rotations {
		propositions = append(propositions, rotation.PropositionInput{
			ChauffeurID:    p.ChauffeurID,
			QuantitePrevue: p.QuantitePrevue,
			Observations:   p.Observations,
		})
	}
	rotations, err := h.uc.CreerMultiples(c.Context(), c.Params("id"), propositions)
	if err != nil {
		return repondreErreur(c, err)
	}
	out := make([]dto.RotationResponse, 0, len(rotations))
	for _, r := range rotations {
		out = append(out, versRotationSimple(r))
	}
	return repondre(c, fiber.StatusCreated, out)
}

// Demarrer fait passer la rotation en transit.
// POST /api/rotations/:id/demarrer
func (h *RotationHandler) Demarrer(c *fiber.Ctx) error {
	if err := h.uc.Demarrer(c.Context(), c.Params("id")); err != nil {
		return repondreErreur(c, err)
	}
	return repondre(c, fiber.StatusOK, fiber.Map{"statut": entity.RotationEnTransit})
}

// Receptionner enregistre l'arrivée d'une rotation: écart, mouvements de stock
// et statut du dispatch recalculé, le tout dans une transaction.
// POST /api/rotations/:id/receptionner
func (h *RotationHandler) Receptionner(c *fiber.Ctx) error {
	var in dto.ReceptionnerRequest
	if err := c.BodyParser(&in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "INVALID_BODY", "corps invalide")
	}
	out, err := h.uc.Receptionner(c.Context(), c.Params("id"), in.QuantiteLivree, in.Observations, GetUserID(c))
	if err != nil {
		return repondreErreur(c, err)
	}
	_ = h.recon.Invalider(c.Context())
	return repondre(c, fiber.StatusOK, dto.ReceptionResponse{
		RotationID:     c.Params("id"),
		QuantitePrevue: out.QuantitePrevue,
		QuantiteLivree: out.QuantiteLivree,
		Ecart:          out.Ecart,
		StatutDispatch: out.StatutDispatch,
	})
}

// Manquant déclare la cargaison perdue: livré zéro, écart total.
// POST /api/rotations/:id/manquant
func (h *RotationHandler) Manquant(c *fiber.Ctx) error {
	var in dto.ManquantRequest
	if err := c.BodyParser(&in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "INVALID_BODY", "corps invalide")
	}
	out, err := h.uc.MarquerManquant(c.Context(), c.Params("id"), in.Observations, GetUserID(c))
	if err != nil {
		return repondreErreur(c, err)
	}
	_ = h.recon.Invalider(c.Context())
	return repondre(c, fiber.StatusOK, dto.ReceptionResponse{
		RotationID:     c.Params("id"),
		QuantitePrevue: out.QuantitePrevue,
		QuantiteLivree: out.QuantiteLivree,
		Ecart:          out.Ecart,
		StatutDispatch: out.StatutDispatch,
	})
}

// Annuler annule une rotation encore planifiée et rend son quota au dispatch.
// POST /api/rotations/:id/annuler
func (h *RotationHandler) Annuler(c *fiber.Ctx) error {
	if err := h.uc.Annuler(c.Context(), c.Params("id")); err != nil {
		return repondreErreur(c, err)
	}
	return repondre(c, fiber.StatusOK, fiber.Map{"statut": entity.RotationAnnule})
}

// ListByDispatch retourne les rotations d'un dispatch.
// GET /api/dispatches/:id/rotations
func (h *RotationHandler) ListByDispatch(c *fiber.Ctx) error {
	rotations, err := h.uc.Lister(c.Context(), repository.FiltresRotation{DispatchID: c.Params("id")})
	if err != nil {
		return repondreErreur(c, err)
	}
	out := make([]dto.RotationResponse, 0, len(rotations))
	for _, r := range rotations {
		out = append(out, versRotationResponse(r))
	}
	return repondre(c, fiber.StatusOK, out)
}

// List retourne les rotations filtrées.
// GET /api/rotations
func (h *RotationHandler) List(c *fiber.Ctx) error {
	var in dto.ListRotationRequest
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
	jour, err := parseJour(in.Date)
	if err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", "dates au format YYYY-MM-DD")
	}
	rotations, err := h.uc.Lister(c.Context(), repository.FiltresRotation{
		DispatchID:           in.DispatchID,
		MagasinDestinationID: in.MagasinID,
		Statut:               in.Statut,
		Date:                 jour,
		DateDebut:            debut,
		DateFin:              fin,
	})
	if err != nil {
		return repondreErreur(c, err)
	}
	out := make([]dto.RotationResponse, 0, len(rotations))
	for _, r := range rotations {
		out = append(out, versRotationResponse(r))
	}
	return repondre(c, fiber.StatusOK, out)
}

// EnTransit retourne les rotations attendues par un magasin: celles qu'un
// opérateur peut réceptionner. Un opérateur est borné à son magasin de
// rattachement quel que soit le filtre demandé.
// GET /api/rotations/en-transit
func (h *RotationHandler) EnTransit(c *fiber.Ctx) error {
	magasinID := c.Query("magasin_id")
	if GetRole(c) == entity.RoleOperator {
		magasinID = GetMagasinID(c)
	}
	rotations, err := h.uc.ListerEnTransit(c.Context(), magasinID)
	if err != nil {
		return repondreErreur(c, err)
	}
	out := make([]dto.RotationResponse, 0, len(rotations))
	for _, r := range rotations {
		out = append(out, versRotationResponse(r))
	}
	return repondre(c, fiber.StatusOK, out)
}

// Ecarts retourne les rotations livrées avec écart et les statistiques par chauffeur.
// GET /api/rotations/ecarts
func (h *RotationHandler) Ecarts(c *fiber.Ctx) error {
	var in dto.ListRotationRequest
	if err := c.QueryParser(&in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", "paramètres invalides")
	}
	debut, fin, err := parsePeriode(in.PeriodeRequest)
	if err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", "dates au format YYYY-MM-DD")
	}
	rotations, stats, err := h.uc.Ecarts(c.Context(), repository.FiltresRotation{
		DispatchID:           in.DispatchID,
		MagasinDestinationID: in.MagasinID,
		DateDebut:            debut,
		DateFin:              fin,
	})
	if err != nil {
		return repondreErreur(c, err)
	}
	out := dto.EcartsRotationsResponse{
		Rotations: make([]dto.RotationResponse, 0, len(rotations)),
		Stats:     make([]dto.StatsChauffeurResponse, 0, len(stats)),
	}
	for _, r := range rotations {
		out.Rotations = append(out.Rotations, versRotationResponse(r))
	}
	for _, s := range stats {
		out.Stats = append(out.Stats, dto.StatsChauffeurResponse{
			ChauffeurID:  s.ChauffeurID,
			ChauffeurNom: s.ChauffeurNom,
			NombreEcarts: s.NombreEcarts,
			TotalEcart:   s.TotalEcart,
			EcartMoyen:   s.EcartMoyen,
		})
	}
	return repondre(c, fiber.StatusOK, out)
}
