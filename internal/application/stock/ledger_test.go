package stock

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msylla/tonnage-api/internal/application/apptest"
	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestReserverPuisLiberer(t *testing.T) {
	store := apptest.NewStore()
	store.SeedStock("p1", "m1", d(100))
	ledger := NewLedger()
	stocks := store.Repos().Stocks
	ctx := context.Background()

	require.NoError(t, ledger.Reserver(ctx, stocks, "p1", "m1", d(40)))
	s := store.StockDe("p1", "m1")
	assert.True(t, s.QuantiteDisponible.Equal(d(60)))
	assert.True(t, s.QuantiteReservee.Equal(d(40)))

	require.NoError(t, ledger.Liberer(ctx, stocks, "p1", "m1", d(40)))
	s = store.StockDe("p1", "m1")
	assert.True(t, s.QuantiteDisponible.Equal(d(100)))
	assert.True(t, s.QuantiteReservee.IsZero())
}

func TestReserverInsuffisant(t *testing.T) {
	store := apptest.NewStore()
	store.SeedStock("p1", "m1", d(10))
	ledger := NewLedger()
	ctx := context.Background()

	err := ledger.Reserver(ctx, store.Repos().Stocks, "p1", "m1", d(11))
	var stockErr *domain.StockInsuffisantError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Disponible.Equal(d(10)))
	assert.ErrorIs(t, err, domain.ErrStockInsuffisant)

	// L'échec ne mute rien.
	s := store.StockDe("p1", "m1")
	assert.True(t, s.QuantiteDisponible.Equal(d(10)))
}

func TestLibererPlusQueReserve(t *testing.T) {
	store := apptest.NewStore()
	store.SeedStock("p1", "m1", d(100))
	ledger := NewLedger()
	stocks := store.Repos().Stocks
	ctx := context.Background()

	require.NoError(t, ledger.Reserver(ctx, stocks, "p1", "m1", d(20)))
	assert.ErrorIs(t, ledger.Liberer(ctx, stocks, "p1", "m1", d(21)), domain.ErrValidation)
}

func TestConsommerReservation(t *testing.T) {
	store := apptest.NewStore()
	store.SeedStock("p1", "m1", d(100))
	ledger := NewLedger()
	stocks := store.Repos().Stocks
	ctx := context.Background()

	require.NoError(t, ledger.Reserver(ctx, stocks, "p1", "m1", d(30)))
	require.NoError(t, ledger.ConsommerReservation(ctx, stocks, "p1", "m1", d(30)))

	// Le disponible ne bouge pas: la marchandise réservée est partie.
	s := store.StockDe("p1", "m1")
	assert.True(t, s.QuantiteDisponible.Equal(d(70)))
	assert.True(t, s.QuantiteReservee.IsZero())

	assert.ErrorIs(t, ledger.ConsommerReservation(ctx, stocks, "p1", "m1", d(1)), domain.ErrValidation)
}

func TestCrediterCreeLaLigne(t *testing.T) {
	store := apptest.NewStore()
	ledger := NewLedger()
	ctx := context.Background()

	require.NoError(t, ledger.Crediter(ctx, store.Repos().Stocks, "p1", "m2", d(15)))
	s := store.StockDe("p1", "m2")
	assert.True(t, s.QuantiteDisponible.Equal(d(15)))
}

func TestDebiterJamaisNegatif(t *testing.T) {
	store := apptest.NewStore()
	store.SeedStock("p1", "m1", d(5))
	ledger := NewLedger()
	stocks := store.Repos().Stocks
	ctx := context.Background()

	var stockErr *domain.StockInsuffisantError
	require.ErrorAs(t, ledger.Debiter(ctx, stocks, "p1", "m1", d(6)), &stockErr)
	require.NoError(t, ledger.Debiter(ctx, stocks, "p1", "m1", d(5)))
	s := store.StockDe("p1", "m1")
	assert.True(t, s.QuantiteDisponible.IsZero())
}

func TestQuantitesNonPositivesRejetees(t *testing.T) {
	store := apptest.NewStore()
	store.SeedStock("p1", "m1", d(10))
	ledger := NewLedger()
	stocks := store.Repos().Stocks
	ctx := context.Background()

	assert.ErrorIs(t, ledger.Reserver(ctx, stocks, "p1", "m1", decimal.Zero), domain.ErrValidation)
	assert.ErrorIs(t, ledger.Crediter(ctx, stocks, "p1", "m1", d(-1)), domain.ErrValidation)
	assert.ErrorIs(t, ledger.Debiter(ctx, stocks, "p1", "m1", decimal.Zero), domain.ErrValidation)
}

func TestEnregistrerMouvement(t *testing.T) {
	store := apptest.NewStore()
	store.Produits["p1"] = &entity.Produit{ID: "p1", Reference: "BLE-001", Nom: "Blé tendre", Unite: "tonnes"}
	store.Magasins["m1"] = &entity.Magasin{ID: "m1", Nom: "Magasin A"}
	store.SeedStock("p1", "m1", d(50))
	repos := store.Repos()
	uc := NewUseCase(store.TxRunner(), NewLedger(), repos.Stocks, repos.Mouvements,
		&apptest.ProduitRepo{S: store}, &apptest.MagasinRepo{S: store})
	ctx := context.Background()

	_, err := uc.EnregistrerMouvement(ctx, MouvementInput{
		Type: "entree", ProduitID: "p1", MagasinID: "m1", Quantite: d(20), CreatedBy: "u1",
	})
	require.NoError(t, err)
	_, err = uc.EnregistrerMouvement(ctx, MouvementInput{
		Type: "sortie", ProduitID: "p1", MagasinID: "m1", Quantite: d(30), CreatedBy: "u1",
	})
	require.NoError(t, err)

	s := store.StockDe("p1", "m1")
	assert.True(t, s.QuantiteDisponible.Equal(d(40)))
	require.Len(t, store.Mouvements, 2)

	// Une sortie au-delà du disponible est rejetée sans écrire de mouvement.
	_, err = uc.EnregistrerMouvement(ctx, MouvementInput{
		Type: "sortie", ProduitID: "p1", MagasinID: "m1", Quantite: d(41),
	})
	assert.ErrorIs(t, err, domain.ErrStockInsuffisant)
	assert.Len(t, store.Mouvements, 2)

	_, err = uc.EnregistrerMouvement(ctx, MouvementInput{
		Type: "transfert", ProduitID: "p1", MagasinID: "m1", Quantite: d(1),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
