package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/msylla/tonnage-api/internal/application/dto"
	"github.com/msylla/tonnage-api/internal/application/reconciliation"
	domrecon "github.com/msylla/tonnage-api/internal/domain/reconciliation"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// ReconciliationHandler expose le rapprochement livraisons/entrées et le
// rapport des écarts. Lecture seule, résultats servis depuis le cache
// tant qu'aucune écriture ne l'invalide.
type ReconciliationHandler struct {
	uc *reconciliation.UseCase
}

// NewReconciliationHandler construit le handler.
func NewReconciliationHandler(uc *reconciliation.UseCase) *ReconciliationHandler {
	return &ReconciliationHandler{uc: uc}
}

// Comparaison rapproche les livraisons déclarées des entrées magasin.
// GET /api/livraisons/comparaison
func (h *ReconciliationHandler) Comparaison(c *fiber.Ctx) error {
	var in dto.ComparaisonRequest
	if err := c.QueryParser(&in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", "paramètres invalides")
	}
	debut, fin, err := parsePeriode(in.PeriodeRequest)
	if err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", "dates au format YYYY-MM-DD")
	}
	out, err := h.uc.Comparer(c.Context(), reconciliation.FiltresComparaison{
		DateDebut: debut,
		DateFin:   fin,
		MagasinID: in.MagasinID,
	})
	if err != nil {
		return repondreErreur(c, err)
	}
	return repondre(c, fiber.StatusOK, versComparaisonResponse(out))
}

// RapportEcarts retourne le rapport journalier dispatché / entré / sorti.
// GET /api/rapport-ecarts
func (h *ReconciliationHandler) RapportEcarts(c *fiber.Ctx) error {
	var in dto.RapportEcartsRequest
	if err := c.QueryParser(&in); err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", "paramètres invalides")
	}
	debut, fin, err := parsePeriode(in.PeriodeRequest)
	if err != nil {
		return erreur(c, fiber.StatusBadRequest, "VALIDATION", "dates au format YYYY-MM-DD")
	}
	out, err := h.uc.RapportEcarts(c.Context(), repository.FiltresRapport{
		DateDebut: debut,
		DateFin:   fin,
		MagasinID: in.MagasinID,
		ProduitID: in.ProduitID,
	})
	if err != nil {
		return repondreErreur(c, err)
	}
	return repondre(c, fiber.StatusOK, versRapportEcartsResponse(out))
}

func versComparaisonResponse(res *reconciliation.ResultatComparaison) dto.ComparaisonResponse {
	out := dto.ComparaisonResponse{
		Lignes: make([]dto.LigneComparaisonResponse, 0, len(res.Lignes)),
		Stats: dto.StatsComparaisonResponse{
			TotalLignes:    res.Stats.TotalLignes,
			Conformes:      res.Stats.Conformes,
			Manquants:      res.Stats.Manquants,
			Excedents:      res.Stats.Excedents,
			NonRecus:       res.Stats.NonRecus,
			NonPrevus:      res.Stats.NonPrevus,
			TotalEcartAbs:  res.Stats.TotalEcartAbs,
			TauxConformite: res.Stats.TauxConformite,
		},
	}
	for _, l := range res.Lignes {
		out.Lignes = append(out.Lignes, versLigneComparaison(l))
	}
	return out
}

func versLigneComparaison(l domrecon.LigneComparaison) dto.LigneComparaisonResponse {
	ligne := dto.LigneComparaisonResponse{
		QuantiteLivree:   l.QuantiteLivree,
		QuantiteRecue:    l.QuantiteRecue,
		Ecart:            l.Ecart,
		EcartPourcentage: l.EcartPourcentage,
		Statut:           l.Statut,
		Date:             l.Date,
	}
	if l.Livraison != nil {
		ligne.LivraisonID = l.Livraison.ID
		ligne.ProduitID = l.Livraison.ProduitID
		ligne.Transporteur = l.Livraison.Transporteur
		if l.Livraison.MagasinID != nil {
			ligne.MagasinID = *l.Livraison.MagasinID
		}
	}
	if l.Mouvement != nil {
		ligne.MouvementID = l.Mouvement.ID
		ligne.ReferenceDocument = l.Mouvement.ReferenceDocument
		ligne.ProduitID = l.Mouvement.ProduitID
		ligne.MagasinID = l.Mouvement.MagasinID
	}
	return ligne
}

func versRapportEcartsResponse(res *reconciliation.ResultatRapport) dto.RapportEcartsResponse {
	out := dto.RapportEcartsResponse{
		Lignes: make([]dto.LigneRapportResponse, 0, len(res.Lignes)),
		Stats: dto.StatsRapportResponse{
			TotalLignes:               res.Stats.TotalLignes,
			TotalDispatche:            res.Stats.TotalDispatche,
			TotalEntree:               res.Stats.TotalEntree,
			TotalSortie:               res.Stats.TotalSortie,
			TotalEcartAbs:             res.Stats.TotalEcartAbs,
			Conformes:                 res.Stats.Conformes,
			Manquants:                 res.Stats.Manquants,
			Excedents:                 res.Stats.Excedents,
			RapportGlobalEntreeSortie: res.Stats.RapportGlobalEntreeSortie,
			TauxConformite:            res.Stats.TauxConformite,
		},
	}
	for _, l := range res.Lignes {
		out.Lignes = append(out.Lignes, dto.LigneRapportResponse{
			Jour:                l.Jour,
			MagasinID:           l.MagasinID,
			MagasinNom:          l.MagasinNom,
			ProduitID:           l.ProduitID,
			ProduitNom:          l.ProduitNom,
			ProduitReference:    l.ProduitReference,
			QuantiteDispatchee:  l.QuantiteDispatchee,
			QuantiteEntree:      l.QuantiteEntree,
			QuantiteSortie:      l.QuantiteSortie,
			EcartDispatchEntree: l.EcartDispatchEntree,
			EcartPourcentage:    l.EcartPourcentage,
			RapportEntreeSortie: l.RapportEntreeSortie,
			Statut:              l.Statut,
		})
	}
	return out
}
