package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLivraisonRequest body de POST /api/livraisons.
type CreateLivraisonRequest struct {
	ProduitID     string          `json:"produit_id" validate:"required,uuid4"`
	MagasinID     string          `json:"magasin_id" validate:"omitempty,uuid4"`
	ClientID      string          `json:"client_id" validate:"omitempty,uuid4"`
	Quantite      decimal.Decimal `json:"quantite" validate:"required"`
	DateLivraison string          `json:"date_livraison"` // YYYY-MM-DD, aujourd'hui par défaut
	Transporteur  string          `json:"transporteur"`
	NumeroCamion  string          `json:"numero_camion"`
	Chauffeur     string          `json:"chauffeur"`
	Statut        string          `json:"statut" validate:"omitempty,oneof=programmee effectuee annulee"`
}

// ListLivraisonRequest paramètres de GET /api/livraisons.
type ListLivraisonRequest struct {
	PeriodeRequest
	MagasinID    string `query:"magasin_id"`
	Statut       string `query:"statut" validate:"omitempty,oneof=programmee effectuee annulee"`
	Transporteur string `query:"transporteur"`
}

// LivraisonResponse livraison enrichie dans les réponses.
type LivraisonResponse struct {
	ID            string          `json:"id"`
	ProduitID     string          `json:"produit_id"`
	ProduitNom    string          `json:"produit_nom,omitempty"`
	MagasinID     *string         `json:"magasin_id,omitempty"`
	MagasinNom    string          `json:"magasin_nom,omitempty"`
	ClientID      *string         `json:"client_id,omitempty"`
	ClientNom     string          `json:"client_nom,omitempty"`
	Quantite      decimal.Decimal `json:"quantite"`
	DateLivraison time.Time       `json:"date_livraison"`
	Transporteur  string          `json:"transporteur,omitempty"`
	NumeroCamion  string          `json:"numero_camion,omitempty"`
	Chauffeur     string          `json:"chauffeur,omitempty"`
	Statut        string          `json:"statut"`
}

// ComparaisonRequest paramètres de GET /api/livraisons/comparaison.
type ComparaisonRequest struct {
	PeriodeRequest
	MagasinID string `query:"magasin_id"`
}

// RapportEcartsRequest paramètres de GET /api/rapport-ecarts.
type RapportEcartsRequest struct {
	PeriodeRequest
	MagasinID string `query:"magasin_id"`
	ProduitID string `query:"produit_id"`
}

// LigneComparaisonResponse livraison déclarée rapprochée d'une entrée magasin.
// LivraisonID est vide pour une entrée sans livraison (non_prevu), MouvementID
// pour une livraison sans entrée (non_recu).
type LigneComparaisonResponse struct {
	LivraisonID       string          `json:"livraison_id,omitempty"`
	MouvementID       string          `json:"mouvement_id,omitempty"`
	ReferenceDocument string          `json:"reference_document,omitempty"`
	ProduitID         string          `json:"produit_id"`
	MagasinID         string          `json:"magasin_id,omitempty"`
	Transporteur      string          `json:"transporteur,omitempty"`
	QuantiteLivree    decimal.Decimal `json:"quantite_livree"`
	QuantiteRecue     decimal.Decimal `json:"quantite_recue"`
	Ecart             decimal.Decimal `json:"ecart"`
	EcartPourcentage  decimal.Decimal `json:"ecart_pourcentage"`
	Statut            string          `json:"statut"`
	Date              time.Time       `json:"date"`
}

// StatsComparaisonResponse agrégats de GET /api/livraisons/comparaison.
type StatsComparaisonResponse struct {
	TotalLignes    int             `json:"total_lignes"`
	Conformes      int             `json:"conformes"`
	Manquants      int             `json:"manquants"`
	Excedents      int             `json:"excedents"`
	NonRecus       int             `json:"non_recus"`
	NonPrevus      int             `json:"non_prevus"`
	TotalEcartAbs  decimal.Decimal `json:"total_ecart_abs"`
	TauxConformite decimal.Decimal `json:"taux_conformite"`
}

// ComparaisonResponse corps de GET /api/livraisons/comparaison.
type ComparaisonResponse struct {
	Lignes []LigneComparaisonResponse `json:"lignes"`
	Stats  StatsComparaisonResponse   `json:"stats"`
}

// LigneRapportResponse écarts d'un (jour, magasin, produit) du rapport.
type LigneRapportResponse struct {
	Jour                time.Time        `json:"jour"`
	MagasinID           string           `json:"magasin_id"`
	MagasinNom          string           `json:"magasin_nom"`
	ProduitID           string           `json:"produit_id"`
	ProduitNom          string           `json:"produit_nom"`
	ProduitReference    string           `json:"produit_reference"`
	QuantiteDispatchee  decimal.Decimal  `json:"quantite_dispatchee"`
	QuantiteEntree      decimal.Decimal  `json:"quantite_entree"`
	QuantiteSortie      decimal.Decimal  `json:"quantite_sortie"`
	EcartDispatchEntree decimal.Decimal  `json:"ecart_dispatch_entree"`
	EcartPourcentage    decimal.Decimal  `json:"ecart_pourcentage"`
	RapportEntreeSortie *decimal.Decimal `json:"rapport_entree_sortie,omitempty"`
	Statut              string           `json:"statut"`
}

// StatsRapportResponse agrégats de GET /api/rapport-ecarts.
type StatsRapportResponse struct {
	TotalLignes               int              `json:"total_lignes"`
	TotalDispatche            decimal.Decimal  `json:"total_dispatche"`
	TotalEntree               decimal.Decimal  `json:"total_entree"`
	TotalSortie               decimal.Decimal  `json:"total_sortie"`
	TotalEcartAbs             decimal.Decimal  `json:"total_ecart_abs"`
	Conformes                 int              `json:"conformes"`
	Manquants                 int              `json:"manquants"`
	Excedents                 int              `json:"excedents"`
	RapportGlobalEntreeSortie *decimal.Decimal `json:"rapport_global_entree_sortie,omitempty"`
	TauxConformite            decimal.Decimal  `json:"taux_conformite"`
}

// RapportEcartsResponse corps de GET /api/rapport-ecarts.
type RapportEcartsResponse struct {
	Lignes []LigneRapportResponse `json:"lignes"`
	Stats  StatsRapportResponse   `json:"stats"`
}
