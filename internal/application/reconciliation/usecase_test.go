package reconciliation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msylla/tonnage-api/internal/application/apptest"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	domrec "github.com/msylla/tonnage-api/internal/domain/reconciliation"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// cacheMemoire cache de test adossé à une map, sérialisé en JSON comme Redis.
type cacheMemoire struct {
	valeurs map[string][]byte
	sets    int
	hits    int
}

func nouveauCacheMemoire() *cacheMemoire { return &cacheMemoire{valeurs: make(map[string][]byte)} }

func (c *cacheMemoire) Get(_ context.Context, cle string, dest any) error {
	brut, ok := c.valeurs[cle]
	if !ok {
		return ErrCacheMiss
	}
	c.hits++
	return json.Unmarshal(brut, dest)
}

func (c *cacheMemoire) Set(_ context.Context, cle string, valeur any, _ time.Duration) error {
	brut, err := json.Marshal(valeur)
	if err != nil {
		return err
	}
	c.valeurs[cle] = brut
	c.sets++
	return nil
}

func (c *cacheMemoire) Invalider(_ context.Context, _ string) error {
	c.valeurs = make(map[string][]byte)
	return nil
}

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func jour(j int) time.Time {
	return time.Date(2025, time.March, j, 10, 0, 0, 0, time.UTC)
}

func magasin(id string) *string { return &id }

func montageStore() *apptest.Store {
	store := apptest.NewStore()
	store.Produits["p1"] = &entity.Produit{ID: "p1", Reference: "RIZ-001", Nom: "Riz parfumé", Unite: "tonnes"}
	store.Magasins["m2"] = &entity.Magasin{ID: "m2", Nom: "Magasin B"}
	return store
}

func TestComparer(t *testing.T) {
	store := montageStore()
	// Livraison de 50 le 3 mars, entrée de 48 le même jour: manquant de 2.
	store.Livraisons["l1"] = &entity.Livraison{
		ID: "l1", ProduitID: "p1", MagasinID: magasin("m2"),
		Quantite: d(50), DateLivraison: jour(3), Statut: entity.LivraisonEffectuee,
	}
	// Livraison du 4 mars sans entrée: non_recu.
	store.Livraisons["l2"] = &entity.Livraison{
		ID: "l2", ProduitID: "p1", MagasinID: magasin("m2"),
		Quantite: d(30), DateLivraison: jour(4), Statut: entity.LivraisonEffectuee,
	}
	store.Mouvements = append(store.Mouvements, &entity.MouvementStock{
		ID: "e1", Type: entity.MouvementEntree, ProduitID: "p1", MagasinID: "m2",
		Quantite: d(48), DateMouvement: jour(3),
	})
	// Entrée du 5 mars sans livraison: non_prevu.
	store.Mouvements = append(store.Mouvements, &entity.MouvementStock{
		ID: "e2", Type: entity.MouvementEntree, ProduitID: "p1", MagasinID: "m2",
		Quantite: d(10), DateMouvement: jour(5),
	})

	repos := store.Repos()
	uc := NewUseCase(repos.Livraisons, repos.Mouvements, repos.Dispatches, nil, 0)

	resultat, err := uc.Comparer(context.Background(), FiltresComparaison{MagasinID: "m2"})
	require.NoError(t, err)
	require.Len(t, resultat.Lignes, 3)

	parStatut := make(map[string]int)
	for _, l := range resultat.Lignes {
		parStatut[l.Statut]++
	}
	assert.Equal(t, 1, parStatut[domrec.StatutManquant])
	assert.Equal(t, 1, parStatut[domrec.StatutNonRecu])
	assert.Equal(t, 1, parStatut[domrec.StatutNonPrevu])
	assert.Equal(t, 3, resultat.Stats.TotalLignes)
	assert.True(t, resultat.Stats.TauxConformite.IsZero())
}

func TestRapportEcarts(t *testing.T) {
	store := montageStore()
	dest := "m2"
	// 100 dispatchées, 95 entrées, 40 sorties le 3 mars.
	store.Dispatches["d1"] = &entity.Dispatch{
		ID: "d1", NumeroDispatch: "DSP-20250303-AAAAAA", ProduitID: "p1",
		MagasinSourceID: "m1", MagasinDestinationID: &dest,
		QuantiteTotale: d(100), Statut: entity.DispatchTermine, DateCreation: jour(3),
	}
	store.Mouvements = append(store.Mouvements,
		&entity.MouvementStock{ID: "e1", Type: entity.MouvementEntree, ProduitID: "p1", MagasinID: "m2", Quantite: d(95), DateMouvement: jour(3)},
		&entity.MouvementStock{ID: "s1", Type: entity.MouvementSortie, ProduitID: "p1", MagasinID: "m2", Quantite: d(40), DateMouvement: jour(3)},
	)

	repos := store.Repos()
	uc := NewUseCase(repos.Livraisons, repos.Mouvements, repos.Dispatches, nil, 0)

	resultat, err := uc.RapportEcarts(context.Background(), repository.FiltresRapport{MagasinID: "m2"})
	require.NoError(t, err)
	require.Len(t, resultat.Lignes, 1)
	ligne := resultat.Lignes[0]
	assert.True(t, ligne.QuantiteDispatchee.Equal(d(100)))
	assert.True(t, ligne.QuantiteEntree.Equal(d(95)))
	assert.True(t, ligne.QuantiteSortie.Equal(d(40)))
	assert.True(t, ligne.EcartDispatchEntree.Equal(d(5)))
	require.NotNil(t, ligne.RapportEntreeSortie)
	assert.True(t, ligne.RapportEntreeSortie.Equal(decimal.NewFromFloat(2.375)), "ratio = %s", ligne.RapportEntreeSortie)
	assert.Equal(t, domrec.StatutManquant, ligne.Statut)
}

func TestComparerPasseParLeCache(t *testing.T) {
	store := montageStore()
	store.Livraisons["l1"] = &entity.Livraison{
		ID: "l1", ProduitID: "p1", MagasinID: magasin("m2"),
		Quantite: d(50), DateLivraison: jour(3), Statut: entity.LivraisonEffectuee,
	}
	store.Mouvements = append(store.Mouvements, &entity.MouvementStock{
		ID: "e1", Type: entity.MouvementEntree, ProduitID: "p1", MagasinID: "m2",
		Quantite: d(50), DateMouvement: jour(3),
	})

	cache := nouveauCacheMemoire()
	repos := store.Repos()
	uc := NewUseCase(repos.Livraisons, repos.Mouvements, repos.Dispatches, cache, time.Minute)
	ctx := context.Background()

	premier, err := uc.Comparer(ctx, FiltresComparaison{MagasinID: "m2"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 0, cache.hits)

	// Une écriture postérieure n'est pas vue tant que le cache n'est pas invalidé.
	store.Livraisons["l2"] = &entity.Livraison{
		ID: "l2", ProduitID: "p1", MagasinID: magasin("m2"),
		Quantite: d(30), DateLivraison: jour(4), Statut: entity.LivraisonEffectuee,
	}
	second, err := uc.Comparer(ctx, FiltresComparaison{MagasinID: "m2"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, premier.Stats.TotalLignes, second.Stats.TotalLignes)

	require.NoError(t, uc.Invalider(ctx))
	troisieme, err := uc.Comparer(ctx, FiltresComparaison{MagasinID: "m2"})
	require.NoError(t, err)
	assert.Equal(t, 2, troisieme.Stats.TotalLignes)
}
