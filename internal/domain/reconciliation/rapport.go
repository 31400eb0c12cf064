package reconciliation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// LigneRapport écarts dispatch / entrée / sortie pour un (jour, magasin, produit).
type LigneRapport struct {
	Jour                time.Time
	MagasinID           string
	MagasinNom          string
	ProduitID           string
	ProduitNom          string
	ProduitReference    string
	QuantiteDispatchee  decimal.Decimal
	QuantiteEntree      decimal.Decimal
	QuantiteSortie      decimal.Decimal
	EcartDispatchEntree decimal.Decimal
	EcartPourcentage    decimal.Decimal
	// RapportEntreeSortie vaut nil quand aucune sortie n'est enregistrée (ratio indéfini).
	RapportEntreeSortie *decimal.Decimal
	Statut              string
}

// StatsRapport agrégats globaux du rapport des écarts.
type StatsRapport struct {
	TotalLignes              int
	TotalDispatche           decimal.Decimal
	TotalEntree              decimal.Decimal
	TotalSortie              decimal.Decimal
	TotalEcartAbs            decimal.Decimal
	Conformes                int
	Manquants                int
	Excedents                int
	RapportGlobalEntreeSortie *decimal.Decimal
	TauxConformite           decimal.Decimal
}

type cleRapport struct {
	jour    string
	magasin string
	produit string
}

// ConstruireRapport fusionne les trois agrégats journaliers (dispatché, entré, sorti)
// par (jour, magasin, produit) et classe chaque ligne selon l'écart dispatch/entrée.
func ConstruireRapport(
	dispatches []*repository.AggregatDispatchJour,
	entrees []*repository.AggregatMouvementJour,
	sorties []*repository.AggregatMouvementJour,
) []LigneRapport {
	fusion := make(map[cleRapport]*LigneRapport)

	ligne := func(jour time.Time, magasinID, magasinNom, produitID, produitNom, produitRef string) *LigneRapport {
		cle := cleRapport{jour: jour.Format("2006-01-02"), magasin: magasinID, produit: produitID}
		l, ok := fusion[cle]
		if !ok {
			l = &LigneRapport{
				Jour:               jour,
				MagasinID:          magasinID,
				MagasinNom:         magasinNom,
				ProduitID:          produitID,
				ProduitNom:         produitNom,
				ProduitReference:   produitRef,
				QuantiteDispatchee: decimal.Zero,
				QuantiteEntree:     decimal.Zero,
				QuantiteSortie:     decimal.Zero,
			}
			fusion[cle] = l
		}
		return l
	}

	for _, a := range dispatches {
		l := ligne(a.Jour, a.MagasinID, a.MagasinNom, a.ProduitID, a.ProduitNom, a.ProduitReference)
		l.QuantiteDispatchee = l.QuantiteDispatchee.Add(a.Quantite)
	}
	for _, a := range entrees {
		l := ligne(a.Jour, a.MagasinID, a.MagasinNom, a.ProduitID, a.ProduitNom, a.ProduitReference)
		l.QuantiteEntree = l.QuantiteEntree.Add(a.Quantite)
	}
	for _, a := range sorties {
		l := ligne(a.Jour, a.MagasinID, a.MagasinNom, a.ProduitID, a.ProduitNom, a.ProduitReference)
		l.QuantiteSortie = l.QuantiteSortie.Add(a.Quantite)
	}

	lignes := make([]LigneRapport, 0, len(fusion))
	cent := decimal.NewFromInt(100)
	for _, l := range fusion {
		l.EcartDispatchEntree = l.QuantiteDispatchee.Sub(l.QuantiteEntree)
		if l.QuantiteDispatchee.GreaterThan(decimal.Zero) {
			l.EcartPourcentage = l.EcartDispatchEntree.Div(l.QuantiteDispatchee).Mul(cent).Round(2)
		}
		if l.QuantiteSortie.GreaterThan(decimal.Zero) {
			ratio := l.QuantiteEntree.Div(l.QuantiteSortie).Round(4)
			l.RapportEntreeSortie = &ratio
		}
		l.Statut = classifierEcart(l.EcartDispatchEntree)
		lignes = append(lignes, *l)
	}

	sort.Slice(lignes, func(i, j int) bool {
		if !lignes[i].Jour.Equal(lignes[j].Jour) {
			return lignes[i].Jour.After(lignes[j].Jour)
		}
		if lignes[i].MagasinNom != lignes[j].MagasinNom {
			return lignes[i].MagasinNom < lignes[j].MagasinNom
		}
		return lignes[i].ProduitNom < lignes[j].ProduitNom
	})
	return lignes
}

// CalculerStatsRapport calcule les totaux, les compteurs par classification, le ratio
// global entrée/sortie et le taux de conformité.
func CalculerStatsRapport(lignes []LigneRapport) StatsRapport {
	stats := StatsRapport{
		TotalDispatche: decimal.Zero,
		TotalEntree:    decimal.Zero,
		TotalSortie:    decimal.Zero,
		TotalEcartAbs:  decimal.Zero,
		TauxConformite: decimal.Zero,
	}
	for _, l := range lignes {
		stats.TotalLignes++
		stats.TotalDispatche = stats.TotalDispatche.Add(l.QuantiteDispatchee)
		stats.TotalEntree = stats.TotalEntree.Add(l.QuantiteEntree)
		stats.TotalSortie = stats.TotalSortie.Add(l.QuantiteSortie)
		stats.TotalEcartAbs = stats.TotalEcartAbs.Add(l.EcartDispatchEntree.Abs())
		switch l.Statut {
		case StatutConforme:
			stats.Conformes++
		case StatutManquant:
			stats.Manquants++
		case StatutExcedent:
			stats.Excedents++
		}
	}
	if stats.TotalSortie.GreaterThan(decimal.Zero) {
		ratio := stats.TotalEntree.Div(stats.TotalSortie).Round(2)
		stats.RapportGlobalEntreeSortie = &ratio
	}
	if stats.TotalLignes > 0 {
		stats.TauxConformite = decimal.NewFromInt(int64(stats.Conformes)).
			Div(decimal.NewFromInt(int64(stats.TotalLignes))).
			Mul(decimal.NewFromInt(100)).Round(2)
	}
	return stats
}
