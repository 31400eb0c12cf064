package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Types de mouvement de stock.
const (
	MouvementEntree = "entree"
	MouvementSortie = "sortie"
)

// MouvementStock représente une écriture de magasin saisie par un opérateur ou
// générée par la réception d'une rotation (entrée au magasin destination,
// sortie au magasin source).
type MouvementStock struct {
	ID                string
	Type              string
	ProduitID         string
	MagasinID         string
	Quantite          decimal.Decimal
	DateMouvement     time.Time
	ReferenceDocument string // ex: DSP-20250115-A3F2-R1
	Description       string
	CreatedBy         string
	CreatedAt         time.Time
}
