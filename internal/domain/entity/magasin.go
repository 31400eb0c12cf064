package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Magasin représente un entrepôt portuaire (référentiel, CRUD géré ailleurs).
type Magasin struct {
	ID        string
	Nom       string
	Ville     string
	Capacite  decimal.Decimal // tonnes
	CreatedAt time.Time
	UpdatedAt time.Time
}
