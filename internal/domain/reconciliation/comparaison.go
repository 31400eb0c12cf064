// Package reconciliation rapproche trois quantités saisies indépendamment:
// dispatchée par le manager, livrée par le transporteur, reçue par le magasinier.
// Tout le classement est pur; les cas d'usage fournissent les données.
package reconciliation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/msylla/tonnage-api/internal/domain/entity"
)

// Classifications d'une ligne rapprochée.
const (
	StatutConforme = "conforme"
	StatutManquant = "manquant"
	StatutExcedent = "excedent"
	StatutNonRecu  = "non_recu"  // livraison déclarée sans entrée magasin
	StatutNonPrevu = "non_prevu" // entrée magasin sans livraison déclarée
)

// SeuilConformite écart absolu en deçà duquel deux quantités sont réputées égales.
var SeuilConformite = decimal.NewFromFloat(0.01)

// LigneComparaison rapprochement d'une livraison déclarée avec au plus un mouvement d'entrée.
type LigneComparaison struct {
	Livraison        *entity.Livraison
	Mouvement        *entity.MouvementStock
	QuantiteLivree   decimal.Decimal
	QuantiteRecue    decimal.Decimal
	Ecart            decimal.Decimal // livrée - reçue; positif = manquant
	EcartPourcentage decimal.Decimal
	Statut           string
	Date             time.Time
}

// StatsComparaison agrégats d'un lot de lignes rapprochées.
type StatsComparaison struct {
	TotalLignes    int
	Conformes      int
	Manquants      int
	Excedents      int
	NonRecus       int
	NonPrevus      int
	TotalEcartAbs  decimal.Decimal
	TauxConformite decimal.Decimal // conformes / total * 100
}

// ComparerLivraisons apparie chaque livraison déclarée au premier mouvement d'entrée
// du même produit, même magasin et même jour calendaire (premier trouvé, un pour un,
// sans score flou). Les livraisons orphelines sont classées non_recu, les entrées
// orphelines non_prevu.
func ComparerLivraisons(livraisons []*entity.Livraison, entrees []*entity.MouvementStock) []LigneComparaison {
	lignes := make([]LigneComparaison, 0, len(livraisons)+len(entrees))
	apparies := make(map[string]bool, len(entrees))

	for _, livraison := range livraisons {
		var correspondant *entity.MouvementStock
		for _, mouvement := range entrees {
			if apparies[mouvement.ID] {
				continue
			}
			if mouvement.ProduitID != livraison.ProduitID {
				continue
			}
			if livraison.MagasinID == nil || mouvement.MagasinID != *livraison.MagasinID {
				continue
			}
			if !memeJour(mouvement.DateMouvement, livraison.DateLivraison) {
				continue
			}
			correspondant = mouvement
			apparies[mouvement.ID] = true
			break
		}

		ligne := LigneComparaison{
			Livraison:      livraison,
			Mouvement:      correspondant,
			QuantiteLivree: livraison.Quantite,
			Date:           livraison.DateLivraison,
			Statut:         StatutNonRecu,
		}
		if correspondant != nil {
			ligne.QuantiteRecue = correspondant.Quantite
			ligne.Statut = classifierEcart(ligne.QuantiteLivree.Sub(ligne.QuantiteRecue))
		}
		// Sans entrée, QuantiteRecue vaut zéro et l'écart est la livraison entière.
		ligne.Ecart = ligne.QuantiteLivree.Sub(ligne.QuantiteRecue)
		if livraison.Quantite.GreaterThan(decimal.Zero) {
			cent := decimal.NewFromInt(100)
			ligne.EcartPourcentage = ligne.QuantiteLivree.Sub(ligne.QuantiteRecue).
				Div(livraison.Quantite).Mul(cent)
		}
		lignes = append(lignes, ligne)
	}

	// Entrées sans livraison correspondante.
	for _, mouvement := range entrees {
		if apparies[mouvement.ID] {
			continue
		}
		lignes = append(lignes, LigneComparaison{
			Mouvement:     mouvement,
			QuantiteRecue: mouvement.Quantite,
			Ecart:         mouvement.Quantite.Neg(),
			Statut:        StatutNonPrevu,
			Date:          mouvement.DateMouvement,
		})
	}
	return lignes
}

// CalculerStatsComparaison calcule les compteurs par classification, l'écart absolu
// cumulé et le taux de conformité d'un lot de lignes.
func CalculerStatsComparaison(lignes []LigneComparaison) StatsComparaison {
	stats := StatsComparaison{TotalEcartAbs: decimal.Zero, TauxConformite: decimal.Zero}
	for _, ligne := range lignes {
		stats.TotalLignes++
		stats.TotalEcartAbs = stats.TotalEcartAbs.Add(ligne.Ecart.Abs())
		switch ligne.Statut {
		case StatutConforme:
			stats.Conformes++
		case StatutManquant:
			stats.Manquants++
		case StatutExcedent:
			stats.Excedents++
		case StatutNonRecu:
			stats.NonRecus++
		case StatutNonPrevu:
			stats.NonPrevus++
		}
	}
	if stats.TotalLignes > 0 {
		stats.TauxConformite = decimal.NewFromInt(int64(stats.Conformes)).
			Div(decimal.NewFromInt(int64(stats.TotalLignes))).
			Mul(decimal.NewFromInt(100)).Round(2)
	}
	return stats
}

func classifierEcart(ecart decimal.Decimal) string {
	switch {
	case ecart.Abs().LessThan(SeuilConformite):
		return StatutConforme
	case ecart.GreaterThan(decimal.Zero):
		return StatutManquant
	default:
		return StatutExcedent
	}
}

func memeJour(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}
