package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'un chauffeur.
const (
	ChauffeurActif   = "actif"
	ChauffeurInactif = "inactif"
)

// Chauffeur représente un chauffeur et son camion (la capacité borne chaque rotation).
type Chauffeur struct {
	ID             string
	Nom            string
	NumeroPermis   string
	NumeroCamion   string
	CapaciteCamion decimal.Decimal // tonnes
	Telephone      string
	Statut         string
	CreatedAt      time.Time
}
