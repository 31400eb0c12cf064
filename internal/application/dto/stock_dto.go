package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListStockRequest paramètres de GET /api/stocks.
type ListStockRequest struct {
	MagasinID string `query:"magasin_id"`
	ProduitID string `query:"produit_id"`
	SousSeuil bool   `query:"sous_seuil"`
}

// StockResponse ligne de stock dans les réponses.
type StockResponse struct {
	ProduitID          string          `json:"produit_id"`
	ProduitNom         string          `json:"produit_nom,omitempty"`
	ProduitReference   string          `json:"produit_reference,omitempty"`
	Unite              string          `json:"unite,omitempty"`
	MagasinID          string          `json:"magasin_id"`
	MagasinNom         string          `json:"magasin_nom,omitempty"`
	QuantiteDisponible decimal.Decimal `json:"quantite_disponible"`
	QuantiteReservee   decimal.Decimal `json:"quantite_reservee"`
	StockFaible        bool            `json:"stock_faible"`
}

// CreateMouvementRequest body de POST /api/mouvements.
type CreateMouvementRequest struct {
	Type              string          `json:"type" validate:"required,oneof=entree sortie"`
	ProduitID         string          `json:"produit_id" validate:"required,uuid4"`
	MagasinID         string          `json:"magasin_id" validate:"required,uuid4"`
	Quantite          decimal.Decimal `json:"quantite" validate:"required"`
	ReferenceDocument string          `json:"reference_document"`
	Description       string          `json:"description"`
}

// ListMouvementRequest paramètres de GET /api/mouvements.
type ListMouvementRequest struct {
	PeriodeRequest
	Type      string `query:"type" validate:"omitempty,oneof=entree sortie"`
	ProduitID string `query:"produit_id"`
	MagasinID string `query:"magasin_id"`
}

// MouvementResponse mouvement enrichi dans les réponses.
type MouvementResponse struct {
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	ProduitID         string          `json:"produit_id"`
	ProduitNom        string          `json:"produit_nom,omitempty"`
	ProduitReference  string          `json:"produit_reference,omitempty"`
	MagasinID         string          `json:"magasin_id"`
	MagasinNom        string          `json:"magasin_nom,omitempty"`
	Quantite          decimal.Decimal `json:"quantite"`
	DateMouvement     time.Time       `json:"date_mouvement"`
	ReferenceDocument string          `json:"reference_document,omitempty"`
	Description       string          `json:"description,omitempty"`
}
