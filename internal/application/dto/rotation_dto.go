package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculerRotationsRequest body de POST /api/rotations/calculer.
// Sans chauffeur_ids, tous les chauffeurs actifs sont candidats.
type CalculerRotationsRequest struct {
	Quantite     decimal.Decimal `json:"quantite" validate:"required"`
	ChauffeurIDs []string        `json:"chauffeur_ids" validate:"omitempty,dive,uuid4"`
}

// PropositionRotationResponse rotation proposée, non persistée.
type PropositionRotationResponse struct {
	NumeroRotation int             `json:"numero_rotation"`
	ChauffeurID    string          `json:"chauffeur_id"`
	ChauffeurNom   string          `json:"chauffeur_nom"`
	NumeroCamion   string          `json:"numero_camion"`
	Capacite       decimal.Decimal `json:"capacite"`
	QuantitePrevue decimal.Decimal `json:"quantite_prevue"`
}

// AjouterRotationRequest body de POST /api/dispatches/:id/rotations.
type AjouterRotationRequest struct {
	ChauffeurID    string          `json:"chauffeur_id" validate:"required,uuid4"`
	QuantitePrevue decimal.Decimal `json:"quantite_prevue" validate:"required"`
	Observations   string          `json:"observations"`
}

// CreerRotationsMultiplesRequest body de POST /api/dispatches/:id/rotations/lot.
// Le lot est persisté en tout ou rien.
type CreerRotationsMultiplesRequest struct {
	Rotations []AjouterRotationRequest `json:"rotations" validate:"required,min=1,dive"`
}

// ReceptionnerRequest body de POST /api/rotations/:id/receptionner.
type ReceptionnerRequest struct {
	QuantiteLivree decimal.Decimal `json:"quantite_livree"`
	Observations   string          `json:"observations"`
}

// ManquantRequest body de POST /api/rotations/:id/manquant.
type ManquantRequest struct {
	Observations string `json:"observations"`
}

// ListRotationRequest paramètres de GET /api/rotations.
type ListRotationRequest struct {
	PeriodeRequest
	DispatchID string `query:"dispatch_id"`
	MagasinID  string `query:"magasin_id"` // magasin destination
	Statut     string `query:"statut" validate:"omitempty,oneof=planifie en_transit livre manquant annule"`
	Date       string `query:"date"` // jour d'arrivée, YYYY-MM-DD
}

// RotationResponse rotation enrichie dans les réponses.
type RotationResponse struct {
	ID                    string           `json:"id"`
	DispatchID            string           `json:"dispatch_id"`
	NumeroDispatch        string           `json:"numero_dispatch,omitempty"`
	NumeroRotation        int              `json:"numero_rotation"`
	ChauffeurID           string           `json:"chauffeur_id"`
	ChauffeurNom          string           `json:"chauffeur_nom,omitempty"`
	NumeroCamion          string           `json:"numero_camion,omitempty"`
	ProduitNom            string           `json:"produit_nom,omitempty"`
	MagasinSourceNom      string           `json:"magasin_source_nom,omitempty"`
	MagasinDestinationNom string           `json:"magasin_destination_nom,omitempty"`
	CapaciteCamion        decimal.Decimal  `json:"capacite_camion"`
	QuantitePrevue        decimal.Decimal  `json:"quantite_prevue"`
	QuantiteLivree        *decimal.Decimal `json:"quantite_livree,omitempty"`
	Ecart                 *decimal.Decimal `json:"ecart,omitempty"`
	Statut                string           `json:"statut"`
	Observations          string           `json:"observations,omitempty"`
	DateDepart            *time.Time       `json:"date_depart,omitempty"`
	DateArrivee           *time.Time       `json:"date_arrivee,omitempty"`
}

// ReceptionResponse synthèse retournée après réception ou déclaration de manquant.
type ReceptionResponse struct {
	RotationID     string          `json:"rotation_id"`
	QuantitePrevue decimal.Decimal `json:"quantite_prevue"`
	QuantiteLivree decimal.Decimal `json:"quantite_livree"`
	Ecart          decimal.Decimal `json:"ecart"`
	StatutDispatch string          `json:"statut_dispatch"`
}

// StatsChauffeurResponse écarts cumulés par chauffeur.
type StatsChauffeurResponse struct {
	ChauffeurID  string          `json:"chauffeur_id"`
	ChauffeurNom string          `json:"chauffeur_nom"`
	NombreEcarts int             `json:"nombre_ecarts"`
	TotalEcart   decimal.Decimal `json:"total_ecart"`
	EcartMoyen   decimal.Decimal `json:"ecart_moyen"`
}

// EcartsRotationsResponse rotations livrées avec écart et statistiques par chauffeur.
type EcartsRotationsResponse struct {
	Rotations []RotationResponse       `json:"rotations"`
	Stats     []StatsChauffeurResponse `json:"stats_chauffeurs"`
}
