package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock représente la ligne de stock d'un produit dans un magasin.
// Mutée uniquement par le StockLedger, sous verrou de ligne; aucune quantité ne peut être négative.
type Stock struct {
	ProduitID          string
	MagasinID          string
	QuantiteDisponible decimal.Decimal
	QuantiteReservee   decimal.Decimal // engagée par des dispatches non terminés
	UpdatedAt          time.Time
}
