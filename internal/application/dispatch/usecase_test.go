package dispatch

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msylla/tonnage-api/internal/application/apptest"
	appstock "github.com/msylla/tonnage-api/internal/application/stock"
	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
)

func nouveauCas(t *testing.T) (*apptest.Store, *UseCase) {
	t.Helper()
	store := apptest.NewStore()
	store.Produits["p1"] = &entity.Produit{ID: "p1", Reference: "MAIS-001", Nom: "Maïs jaune", Unite: "tonnes"}
	store.Magasins["m1"] = &entity.Magasin{ID: "m1", Nom: "Magasin A"}
	store.Magasins["m2"] = &entity.Magasin{ID: "m2", Nom: "Magasin B"}
	store.Clients["cl1"] = &entity.Client{ID: "cl1", Nom: "Sonacos"}
	store.SeedStock("p1", "m1", decimal.NewFromInt(100))

	repos := store.Repos()
	uc := NewUseCase(
		store.TxRunner(), appstock.NewLedger(), repos.Dispatches, repos.Rotations,
		&apptest.ProduitRepo{S: store}, &apptest.MagasinRepo{S: store}, &apptest.ClientRepo{S: store},
	)
	return store, uc
}

func TestCreerReserveLeStock(t *testing.T) {
	store, uc := nouveauCas(t)

	d, err := uc.Creer(context.Background(), CreerInput{
		ProduitID:            "p1",
		MagasinSourceID:      "m1",
		MagasinDestinationID: "m2",
		QuantiteTotale:       decimal.NewFromInt(60),
		CreatedBy:            "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DispatchEnAttente, d.Statut)
	assert.True(t, strings.HasPrefix(d.NumeroDispatch, "DSP-"+time.Now().Format("20060102")+"-"))

	stock := store.StockDe("p1", "m1")
	assert.True(t, stock.QuantiteDisponible.Equal(decimal.NewFromInt(40)))
	assert.True(t, stock.QuantiteReservee.Equal(decimal.NewFromInt(60)))
}

func TestCreerStockInsuffisant(t *testing.T) {
	store, uc := nouveauCas(t)

	_, err := uc.Creer(context.Background(), CreerInput{
		ProduitID:            "p1",
		MagasinSourceID:      "m1",
		MagasinDestinationID: "m2",
		QuantiteTotale:       decimal.NewFromInt(150),
	})
	var stockErr *domain.StockInsuffisantError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Disponible.Equal(decimal.NewFromInt(100)))

	// Le rejet n'a laissé aucune trace.
	assert.Empty(t, store.Dispatches)
	stock := store.StockDe("p1", "m1")
	assert.True(t, stock.QuantiteDisponible.Equal(decimal.NewFromInt(100)))
	assert.True(t, stock.QuantiteReservee.IsZero())
}

func TestCreerValidation(t *testing.T) {
	_, uc := nouveauCas(t)
	ctx := context.Background()

	cas := []CreerInput{
		{MagasinSourceID: "m1", MagasinDestinationID: "m2", QuantiteTotale: decimal.NewFromInt(10)}, // produit absent
		{ProduitID: "p1", MagasinSourceID: "m1", QuantiteTotale: decimal.NewFromInt(10)},            // aucune destination
		{ProduitID: "p1", MagasinSourceID: "m1", MagasinDestinationID: "m2", ClientID: "cl1", QuantiteTotale: decimal.NewFromInt(10)}, // deux destinations
		{ProduitID: "p1", MagasinSourceID: "m1", MagasinDestinationID: "m1", QuantiteTotale: decimal.NewFromInt(10)}, // destination = source
		{ProduitID: "p1", MagasinSourceID: "m1", MagasinDestinationID: "m2", QuantiteTotale: decimal.Zero},           // quantité nulle
	}
	for i, in := range cas {
		_, err := uc.Creer(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation, "cas %d", i)
	}
}

func TestCreerVersClient(t *testing.T) {
	_, uc := nouveauCas(t)

	d, err := uc.Creer(context.Background(), CreerInput{
		ProduitID:       "p1",
		MagasinSourceID: "m1",
		ClientID:        "cl1",
		QuantiteTotale:  decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	require.NotNil(t, d.ClientID)
	assert.Equal(t, "cl1", *d.ClientID)
	assert.Nil(t, d.MagasinDestinationID)
}

func TestCreerNumeroDuplique(t *testing.T) {
	_, uc := nouveauCas(t)
	ctx := context.Background()

	in := CreerInput{
		NumeroDispatch:       "DSP-20250115-AAAAAA",
		ProduitID:            "p1",
		MagasinSourceID:      "m1",
		MagasinDestinationID: "m2",
		QuantiteTotale:       decimal.NewFromInt(10),
	}
	_, err := uc.Creer(ctx, in)
	require.NoError(t, err)
	_, err = uc.Creer(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAnnulerLibereLaReservation(t *testing.T) {
	store, uc := nouveauCas(t)
	ctx := context.Background()

	d, err := uc.Creer(ctx, CreerInput{
		ProduitID:            "p1",
		MagasinSourceID:      "m1",
		MagasinDestinationID: "m2",
		QuantiteTotale:       decimal.NewFromInt(60),
	})
	require.NoError(t, err)
	require.NoError(t, uc.Annuler(ctx, d.ID))

	assert.Equal(t, entity.DispatchAnnule, store.Dispatches[d.ID].Statut)
	stock := store.StockDe("p1", "m1")
	assert.True(t, stock.QuantiteDisponible.Equal(decimal.NewFromInt(100)))
	assert.True(t, stock.QuantiteReservee.IsZero())
}

func TestAnnulerAvecRotationViveRefusee(t *testing.T) {
	store, uc := nouveauCas(t)
	ctx := context.Background()

	d, err := uc.Creer(ctx, CreerInput{
		ProduitID:            "p1",
		MagasinSourceID:      "m1",
		MagasinDestinationID: "m2",
		QuantiteTotale:       decimal.NewFromInt(60),
	})
	require.NoError(t, err)
	store.Rotations["r1"] = &entity.Rotation{
		ID: "r1", DispatchID: d.ID, NumeroRotation: 1,
		QuantitePrevue: decimal.NewFromInt(30), Statut: entity.RotationPlanifie,
	}

	assert.ErrorIs(t, uc.Annuler(ctx, d.ID), domain.ErrTransitionInvalide)
	assert.Equal(t, entity.DispatchEnAttente, store.Dispatches[d.ID].Statut)
}

func TestProgression(t *testing.T) {
	store, uc := nouveauCas(t)
	ctx := context.Background()

	d, err := uc.Creer(ctx, CreerInput{
		ProduitID:            "p1",
		MagasinSourceID:      "m1",
		MagasinDestinationID: "m2",
		QuantiteTotale:       decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	store.Rotations["r1"] = &entity.Rotation{
		ID: "r1", DispatchID: d.ID, NumeroRotation: 1,
		QuantitePrevue: decimal.NewFromInt(30), Statut: entity.RotationLivre,
	}
	store.Rotations["r2"] = &entity.Rotation{
		ID: "r2", DispatchID: d.ID, NumeroRotation: 2,
		QuantitePrevue: decimal.NewFromInt(30), Statut: entity.RotationAnnule,
	}

	progressions, err := uc.Progression(ctx, "m2")
	require.NoError(t, err)
	require.Len(t, progressions, 1)
	p := progressions[0]
	assert.True(t, p.QuantiteAllouee.Equal(decimal.NewFromInt(30)), "les rotations annulées ne comptent pas")
	assert.True(t, p.ResteAAllouer.Equal(decimal.NewFromInt(50)))
	assert.True(t, p.Progression.Equal(decimal.NewFromFloat(37.5)))
	assert.Equal(t, 1, p.NombreRotations)
}
