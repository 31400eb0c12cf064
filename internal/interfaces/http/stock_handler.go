package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/msylla/tonnage-api/internal/application/dto"
	"github.com/msylla/tonnage-api/internal/application/reconciliation"
	"github.com/msylla/tonnage-api/internal/application/stock"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// StockHandler gère la consultation des stocks et la saisie des mouvements.
type StockHandler struct {
	uc    *stock.UseCase
	recon *reconciliation.UseCase
}

// NewStockHandler construit le handler.
func NewStockHandler(uc *stock.UseCase, recon *reconciliation.UseCase) *StockHandler {
	return &StockHandler{uc: uc, recon: recon}
}

// List retourne les lignes de stock par produit et magasin.
// GET /api/stocks
func (h *StockHandler) List(c *fiber.Ctx) error {
	var in dto.ListStockRequest
	if err := c.QueryParser(&in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", "paramètres invalides")
	}
	lignes, err := h.uc.ListerStocks(c.Context(), repository.FiltresStock{
		MagasinID: in.MagasinID,
		ProduitID: in.ProduitID,
		SousSeuil: in.SousSeuil,
	})
	if err != nil {
		return repondreErreur(c, err)
	}
	out := make([]dto.StockResponse, 0, len(lignes))
	for _, l := range lignes {
		out = append(out, dto.StockResponse{
			ProduitID:          l.Stock.ProduitID,
			ProduitNom:         l.ProduitNom,
			ProduitReference:   l.ProduitRef,
			Unite:              l.Unite,
			MagasinID:          l.Stock.MagasinID,
			MagasinNom:         l.MagasinNom,
			QuantiteDisponible: l.Stock.QuantiteDisponible,
			QuantiteReservee:   l.Stock.QuantiteReservee,
			StockFaible:        l.StockFaible,
		})
	}
	return repondre(c, fiber.StatusOK, out)
}

// CreateMouvement enregistre une entrée ou une sortie magasin.
// POST /api/mouvements
func (h *StockHandler) CreateMouvement(c *fiber.Ctx) error {
	var in dto.CreateMouvementRequest
	if err := c.BodyParser(&in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "INVALID_BODY", "corps invalide")
	}
	if err := validerRequete(in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	out, err := h.uc.EnregistrerMouvement(c.Context(), stock.MouvementInput{
		Type:              in.Type,
		ProduitID:         in.ProduitID,
		MagasinID:         in.MagasinID,
		Quantite:          in.Quantite,
		ReferenceDocument: in.ReferenceDocument,
		Description:       in.Description,
		CreatedBy:         GetUserID(c),
	})
	if err != nil {
		return repondreErreur(c, err)
	}
	_ = h.recon.Invalider(c.Context())
	return repondre(c, fiber.StatusCreated, dto.MouvementResponse{
		ID:                out.ID,
		Type:              out.Type,
		ProduitID:         out.ProduitID,
		MagasinID:         out.MagasinID,
		Quantite:          out.Quantite,
		DateMouvement:     out.DateMouvement,
		ReferenceDocument: out.ReferenceDocument,
		Description:       out.Description,
	})
}

// ListMouvements retourne le journal des mouvements filtré.
// GET /api/mouvements
func (h *StockHandler) ListMouvements(c *fiber.Ctx) error {
	var in dto.ListMouvementRequest
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
	mouvements, err := h.uc.ListerMouvements(c.Context(), repository.FiltresMouvement{
		Type:      in.Type,
		ProduitID: in.ProduitID,
		MagasinID: in.MagasinID,
		DateDebut: debut,
		DateFin:   fin,
	})
	if err != nil {
		return repondreErreur(c, err)
	}
	out := make([]dto.MouvementResponse, 0, len(mouvements))
	for _, m := range mouvements {
		out = append(out, dto.MouvementResponse{
			ID:                m.Mouvement.ID,
			Type:              m.Mouvement.Type,
			ProduitID:         m.Mouvement.ProduitID,
			ProduitNom:        m.ProduitNom,
			ProduitReference:  m.ProduitRef,
			MagasinID:         m.Mouvement.MagasinID,
			MagasinNom:        m.MagasinNom,
			Quantite:          m.Mouvement.Quantite,
			DateMouvement:     m.Mouvement.DateMouvement,
			ReferenceDocument: m.Mouvement.ReferenceDocument,
			Description:       m.Mouvement.Description,
		})
	}
	return repondre(c, fiber.StatusOK, out)
}
