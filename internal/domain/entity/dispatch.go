package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'un dispatch.
const (
	DispatchEnAttente = "en_attente"
	DispatchEnCours   = "en_cours"
	DispatchTermine   = "termine"
	DispatchAnnule    = "annule"
)

// Dispatch représente l'instruction d'un manager de déplacer une quantité de produit
// depuis un magasin source vers un magasin destination ou un client.
// Invariant: la somme des quantités prévues des rotations non annulées ne dépasse
// jamais QuantiteTotale.
type Dispatch struct {
	ID                   string
	NumeroDispatch       string // unique
	ProduitID            string
	MagasinSourceID      string
	MagasinDestinationID *string
	ClientID             *string
	QuantiteTotale       decimal.Decimal
	Statut               string
	Notes                string
	CreatedBy            string
	DateCreation         time.Time
	UpdatedAt            time.Time
}

// EstModifiable indique si des rotations peuvent encore lui être rattachées.
func (d *Dispatch) EstModifiable() bool {
	return d.Statut == DispatchEnAttente || d.Statut == DispatchEnCours
}
