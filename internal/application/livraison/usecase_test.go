package livraison_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msylla/tonnage-api/internal/application/apptest"
	"github.com/msylla/tonnage-api/internal/application/livraison"
	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

func bancLivraison(t *testing.T) (*apptest.Store, *livraison.UseCase) {
	t.Helper()
	store := apptest.NewStore()
	store.Produits["p1"] = &entity.Produit{ID: "p1", Reference: "BLE-001", Nom: "Blé tendre", Unite: "tonnes"}
	store.Magasins["m1"] = &entity.Magasin{ID: "m1", Nom: "Môle 3", Ville: "Dakar"}
	store.Clients["c1"] = &entity.Client{ID: "c1", Nom: "Minoterie du Sahel"}
	repos := store.Repos()
	uc := livraison.NewUseCase(repos.Livraisons, &apptest.ProduitRepo{S: store}, &apptest.MagasinRepo{S: store}, &apptest.ClientRepo{S: store})
	return store, uc
}

func TestCreerLivraison(t *testing.T) {
	ctx := context.Background()
	_, uc := bancLivraison(t)

	l, err := uc.Creer(ctx, livraison.CreerInput{
		ProduitID:    "p1",
		MagasinID:    "m1",
		Quantite:     decimal.NewFromInt(120),
		Transporteur: "Transports Ndiaye",
		NumeroCamion: "DK-4521-AB",
		CreatedBy:    "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LivraisonProgrammee, l.Statut)
	require.NotNil(t, l.MagasinID)
	assert.Equal(t, "m1", *l.MagasinID)
	assert.Nil(t, l.ClientID)
	assert.False(t, l.DateLivraison.IsZero())

	lu, err := uc.Obtenir(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(120).Equal(lu.Quantite))
}

func TestCreerLivraisonVersClient(t *testing.T) {
	ctx := context.Background()
	_, uc := bancLivraison(t)

	l, err := uc.Creer(ctx, livraison.CreerInput{
		ProduitID: "p1",
		ClientID:  "c1",
		Quantite:  decimal.NewFromInt(30),
		Statut:    entity.LivraisonEffectuee,
		CreatedBy: "u1",
	})
	require.NoError(t, err)
	assert.Nil(t, l.MagasinID)
	require.NotNil(t, l.ClientID)
	assert.Equal(t, "c1", *l.ClientID)
	assert.Equal(t, entity.LivraisonEffectuee, l.Statut)
}

func TestCreerLivraisonValidation(t *testing.T) {
	ctx := context.Background()
	_, uc := bancLivraison(t)

	cas := []struct {
		nom string
		in  livraison.CreerInput
	}{
		{"sans produit", livraison.CreerInput{MagasinID: "m1", Quantite: decimal.NewFromInt(10)}},
		{"sans destination", livraison.CreerInput{ProduitID: "p1", Quantite: decimal.NewFromInt(10)}},
		{"quantité nulle", livraison.CreerInput{ProduitID: "p1", MagasinID: "m1", Quantite: decimal.Zero}},
		{"statut inconnu", livraison.CreerInput{ProduitID: "p1", MagasinID: "m1", Quantite: decimal.NewFromInt(10), Statut: "perdue"}},
	}
	for _, c := range cas {
		t.Run(c.nom, func(t *testing.T) {
			_, err := uc.Creer(ctx, c.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreerLivraisonProduitInconnu(t *testing.T) {
	ctx := context.Background()
	_, uc := bancLivraison(t)

	_, err := uc.Creer(ctx, livraison.CreerInput{
		ProduitID: "inconnu",
		MagasinID: "m1",
		Quantite:  decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListerLivraisonsParPeriode(t *testing.T) {
	ctx := context.Background()
	_, uc := bancLivraison(t)

	j1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	j2 := time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)
	for _, date := range []time.Time{j1, j2} {
		_, err := uc.Creer(ctx, livraison.CreerInput{
			ProduitID:     "p1",
			MagasinID:     "m1",
			Quantite:      decimal.NewFromInt(50),
			DateLivraison: date,
		})
		require.NoError(t, err)
	}

	debut := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	lignes, err := uc.Lister(ctx, repository.FiltresLivraison{DateDebut: &debut, DateFin: &fin})
	require.NoError(t, err)
	require.Len(t, lignes, 1)
	assert.Equal(t, "Blé tendre", lignes[0].ProduitNom)
	assert.Equal(t, "Môle 3", lignes[0].MagasinNom)
}
