package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produit représente une marchandise en vrac (référentiel, CRUD géré ailleurs).
type Produit struct {
	ID          string
	Reference   string // unique, ex: RIZ-001
	Nom         string
	Unite       string // tonnes par défaut
	SeuilAlerte decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
