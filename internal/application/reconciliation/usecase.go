// Package reconciliation porte le moteur de rapprochement: comparaison des
// livraisons déclarées avec les entrées magasin, et rapport journalier des écarts
// dispatché / entré / sorti. Lecture seule, résultats mis en cache.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msylla/tonnage-api/internal/domain/reconciliation"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// ErrCacheMiss est retourné par un Cache quand la clé est absente ou expirée.
var ErrCacheMiss = errors.New("cache: clé absente")

// Cache port de cache applicatif des résultats de rapprochement (Redis en production).
type Cache interface {
	Get(ctx context.Context, cle string, dest any) error
	Set(ctx context.Context, cle string, valeur any, ttl time.Duration) error
	Invalider(ctx context.Context, motif string) error
}

// UseCase moteur de rapprochement. Le cache est optionnel: sans lui, chaque
// appel recalcule depuis la base.
type UseCase struct {
	livraisons repository.LivraisonRepository
	mouvements repository.MouvementStockRepository
	dispatches repository.DispatchRepository
	cache      Cache
	ttl        time.Duration
}

// NewUseCase construit le cas d'usage. ttl ne s'applique que si cache est non nil.
func NewUseCase(
	livraisons repository.LivraisonRepository,
	mouvements repository.MouvementStockRepository,
	dispatches repository.DispatchRepository,
	cache Cache,
	ttl time.Duration,
) *UseCase {
	return &UseCase{
		livraisons: livraisons,
		mouvements: mouvements,
		dispatches: dispatches,
		cache:      cache,
		ttl:        ttl,
	}
}

// FiltresComparaison bornes du rapprochement livraisons / entrées.
type FiltresComparaison struct {
	DateDebut *time.Time
	DateFin   *time.Time
	MagasinID string
}

// ResultatComparaison lignes rapprochées et agrégats.
type ResultatComparaison struct {
	Lignes []reconciliation.LigneComparaison `json:"lignes"`
	Stats  reconciliation.StatsComparaison   `json:"stats"`
}

// Comparer rapproche les livraisons déclarées de la période des entrées magasin
// correspondantes. Le rapprochement est recalculable à volonté: il ne mute rien.
func (uc *UseCase) Comparer(ctx context.Context, f FiltresComparaison) (*ResultatComparaison, error) {
	cle := cleComparaison(f)
	var resultat ResultatComparaison
	if uc.depuisCache(ctx, cle, &resultat) {
		return &resultat, nil
	}

	livraisons, err := uc.livraisons.ListPeriode(ctx, f.DateDebut, f.DateFin, f.MagasinID)
	if err != nil {
		return nil, err
	}
	entrees, err := uc.mouvements.ListEntrees(ctx, repository.FiltresMouvement{
		MagasinID: f.MagasinID,
		DateDebut: f.DateDebut,
		DateFin:   f.DateFin,
	})
	if err != nil {
		return nil, err
	}

	resultat.Lignes = reconciliation.ComparerLivraisons(livraisons, entrees)
	resultat.Stats = reconciliation.CalculerStatsComparaison(resultat.Lignes)
	uc.versCache(ctx, cle, &resultat)
	return &resultat, nil
}

// ResultatRapport lignes du rapport des écarts et agrégats.
type ResultatRapport struct {
	Lignes []reconciliation.LigneRapport `json:"lignes"`
	Stats  reconciliation.StatsRapport   `json:"stats"`
}

// RapportEcarts fusionne par (jour, magasin, produit) les quantités dispatchées,
// entrées et sorties de la période et classe chaque ligne selon l'écart
// dispatch / entrée.
func (uc *UseCase) RapportEcarts(ctx context.Context, f repository.FiltresRapport) (*ResultatRapport, error) {
	cle := cleRapport(f)
	var resultat ResultatRapport
	if uc.depuisCache(ctx, cle, &resultat) {
		return &resultat, nil
	}

	dispatches, err := uc.dispatches.SommesDispatcheesParJour(ctx, f)
	if err != nil {
		return nil, err
	}
	entrees, err := uc.mouvements.SommesParJour(ctx, "entree", f)
	if err != nil {
		return nil, err
	}
	sorties, err := uc.mouvements.SommesParJour(ctx, "sortie", f)
	if err != nil {
		return nil, err
	}

	resultat.Lignes = reconciliation.ConstruireRapport(dispatches, entrees, sorties)
	resultat.Stats = reconciliation.CalculerStatsRapport(resultat.Lignes)
	uc.versCache(ctx, cle, &resultat)
	return &resultat, nil
}

// Invalider purge les résultats mis en cache; à appeler après une écriture qui
// change la matière du rapprochement (mouvement, livraison, réception).
func (uc *UseCase) Invalider(ctx context.Context) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.Invalider(ctx, "reconciliation:*")
}

func (uc *UseCase) depuisCache(ctx context.Context, cle string, dest any) bool {
	if uc.cache == nil {
		return false
	}
	return uc.cache.Get(ctx, cle, dest) == nil
}

func (uc *UseCase) versCache(ctx context.Context, cle string, valeur any) {
	if uc.cache == nil {
		return
	}
	// Un cache indisponible ne doit jamais faire échouer la lecture.
	_ = uc.cache.Set(ctx, cle, valeur, uc.ttl)
}

func cleComparaison(f FiltresComparaison) string {
	return fmt.Sprintf("reconciliation:comparaison:%s:%s:%s",
		formatDate(f.DateDebut), formatDate(f.DateFin), f.MagasinID)
}

func cleRapport(f repository.FiltresRapport) string {
	return fmt.Sprintf("reconciliation:rapport:%s:%s:%s:%s",
		formatDate(f.DateDebut), formatDate(f.DateFin), f.MagasinID, f.ProduitID)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
