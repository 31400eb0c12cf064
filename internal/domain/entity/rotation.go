package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'une rotation.
const (
	RotationPlanifie  = "planifie"
	RotationEnTransit = "en_transit"
	RotationLivre     = "livre"
	RotationManquant  = "manquant"
	RotationAnnule    = "annule"
)

// Rotation représente un voyage de camion couvrant une partie d'un dispatch.
// QuantiteLivree et Ecart sont renseignés exactement une fois, au passage
// dans un état terminal (livre ou manquant).
type Rotation struct {
	ID             string
	DispatchID     string
	NumeroRotation int // séquentiel par dispatch
	ChauffeurID    string
	CapaciteCamion decimal.Decimal // capturée à la création, borne QuantitePrevue
	QuantitePrevue decimal.Decimal
	QuantiteLivree *decimal.Decimal
	Ecart          *decimal.Decimal // prevue - livree; positif = manquant, négatif = excédent
	Statut         string
	Observations   string
	ReceptionPar   *string
	DateDepart     *time.Time
	DateArrivee    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EstTerminale indique un état dont on ne sort plus (le camion est arrivé ou la cargaison perdue).
func (r *Rotation) EstTerminale() bool {
	return r.Statut == RotationLivre || r.Statut == RotationManquant || r.Statut == RotationAnnule
}
