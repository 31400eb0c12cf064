package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDispatchRequest body de POST /api/dispatches.
// Exactement une destination: magasin_destination_id ou client_id.
type CreateDispatchRequest struct {
	NumeroDispatch       string          `json:"numero_dispatch"`
	ProduitID            string          `json:"produit_id" validate:"required,uuid4"`
	MagasinSourceID      string          `json:"magasin_source_id" validate:"required,uuid4"`
	MagasinDestinationID string          `json:"magasin_destination_id" validate:"omitempty,uuid4"`
	ClientID             string          `json:"client_id" validate:"omitempty,uuid4"`
	QuantiteTotale       decimal.Decimal `json:"quantite_totale" validate:"required"`
	Notes                string          `json:"notes"`
}

// ListDispatchRequest paramètres de GET /api/dispatches.
type ListDispatchRequest struct {
	PeriodeRequest
	MagasinID string `query:"magasin_id"`
	Statut    string `query:"statut" validate:"omitempty,oneof=en_attente en_cours termine annule"`
}

// DispatchResponse dispatch enrichi dans les réponses.
type DispatchResponse struct {
	ID                    string          `json:"id"`
	NumeroDispatch        string          `json:"numero_dispatch"`
	ProduitID             string          `json:"produit_id"`
	ProduitNom            string          `json:"produit_nom,omitempty"`
	ProduitReference      string          `json:"produit_reference,omitempty"`
	Unite                 string          `json:"unite,omitempty"`
	MagasinSourceID       string          `json:"magasin_source_id"`
	MagasinSourceNom      string          `json:"magasin_source_nom,omitempty"`
	MagasinDestinationID  *string         `json:"magasin_destination_id,omitempty"`
	MagasinDestinationNom string          `json:"magasin_destination_nom,omitempty"`
	ClientID              *string         `json:"client_id,omitempty"`
	ClientNom             string          `json:"client_nom,omitempty"`
	QuantiteTotale        decimal.Decimal `json:"quantite_totale"`
	Statut                string          `json:"statut"`
	Notes                 string          `json:"notes,omitempty"`
	DateCreation          time.Time       `json:"date_creation"`
}

// DispatchDetailResponse dispatch et ses rotations pour GET /api/dispatches/:id.
type DispatchDetailResponse struct {
	DispatchResponse
	Rotations []RotationResponse `json:"rotations"`
}

// ProgressionResponse avancement d'allocation pour GET /api/dispatches/progression.
type ProgressionResponse struct {
	DispatchResponse
	QuantiteAllouee decimal.Decimal `json:"quantite_allouee"`
	ResteAAllouer   decimal.Decimal `json:"reste_a_allouer"`
	Progression     decimal.Decimal `json:"progression"`
	NombreRotations int             `json:"nombre_rotations"`
}
