package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'une livraison déclarée.
const (
	LivraisonProgrammee = "programmee"
	LivraisonEffectuee  = "effectuee"
	LivraisonAnnulee    = "annulee"
)

// Livraison représente une livraison déclarée par le manager ou le transporteur.
// Elle est rapprochée des mouvements d'entrée saisis par le magasinier
// (même produit, même magasin, même jour) par le moteur de réconciliation.
type Livraison struct {
	ID            string
	ProduitID     string
	MagasinID     *string
	ClientID      *string
	Quantite      decimal.Decimal
	DateLivraison time.Time
	Transporteur  string
	NumeroCamion  string
	Chauffeur     string
	Statut        string
	CreatedBy     string
	CreatedAt     time.Time
}
