// Package allocation découpe une quantité à dispatcher en rotations de camions.
// Le calcul est une fonction pure sur (quantité, capacités): il se teste sans base
// ni transport et ne dépend d'aucun état partagé.
package allocation

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
)

// Camion candidat à une rotation. Un même camion peut apparaître plusieurs fois
// dans la liste si l'appelant veut autoriser plusieurs passages.
type Camion struct {
	ChauffeurID  string
	ChauffeurNom string
	NumeroCamion string
	Capacite     decimal.Decimal
}

// Proposition rotation proposée, non persistée.
type Proposition struct {
	NumeroRotation int
	ChauffeurID    string
	ChauffeurNom   string
	NumeroCamion   string
	Capacite       decimal.Decimal
	QuantitePrevue decimal.Decimal
}

// CamionsDepuisChauffeurs convertit des chauffeurs actifs en camions candidats.
func CamionsDepuisChauffeurs(chauffeurs []*entity.Chauffeur) []Camion {
	camions := make([]Camion, 0, len(chauffeurs))
	for _, c := range chauffeurs {
		camions = append(camions, Camion{
			ChauffeurID:  c.ID,
			ChauffeurNom: c.Nom,
			NumeroCamion: c.NumeroCamion,
			Capacite:     c.CapaciteCamion,
		})
	}
	return camions
}

// CalculerRotations affecte gloutonnement la quantité aux camions triés par capacité
// décroissante (first-fit-decreasing): chaque camion reçoit min(capacité, restant)
// jusqu'à épuisement de la quantité. Les numéros de rotation sont séquentiels à
// partir de 1; la renumérotation réelle se fait à la persistance.
//
// Si la capacité cumulée des camions ne couvre pas la quantité, retourne
// CapaciteInsuffisanteError: l'appelant ajoute des camions ou relance une passe
// supplémentaire avec les mêmes camions.
func CalculerRotations(quantite decimal.Decimal, camions []Camion) ([]Proposition, error) {
	if !quantite.GreaterThan(decimal.Zero) {
		return nil, domain.ErrValidation
	}
	if len(camions) == 0 {
		return nil, domain.ErrValidation
	}

	tries := make([]Camion, len(camions))
	copy(tries, camions)
	sort.SliceStable(tries, func(i, j int) bool {
		return tries[i].Capacite.GreaterThan(tries[j].Capacite)
	})

	var propositions []Proposition
	restant := quantite
	for _, camion := range tries {
		if !restant.GreaterThan(decimal.Zero) {
			break
		}
		if !camion.Capacite.GreaterThan(decimal.Zero) {
			continue
		}
		affectee := decimal.Min(camion.Capacite, restant)
		propositions = append(propositions, Proposition{
			NumeroRotation: len(propositions) + 1,
			ChauffeurID:    camion.ChauffeurID,
			ChauffeurNom:   camion.ChauffeurNom,
			NumeroCamion:   camion.NumeroCamion,
			Capacite:       camion.Capacite,
			QuantitePrevue: affectee,
		})
		restant = restant.Sub(affectee)
	}

	if restant.GreaterThan(decimal.Zero) {
		return nil, &domain.CapaciteInsuffisanteError{
			CapaciteTotale: capaciteTotale(tries),
			Demandee:       quantite,
		}
	}
	return propositions, nil
}

func capaciteTotale(camions []Camion) decimal.Decimal {
	total := decimal.Zero
	for _, c := range camions {
		if c.Capacite.GreaterThan(decimal.Zero) {
			total = total.Add(c.Capacite)
		}
	}
	return total
}
