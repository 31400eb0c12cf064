package rotation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msylla/tonnage-api/internal/application/apptest"
	appdispatch "github.com/msylla/tonnage-api/internal/application/dispatch"
	appstock "github.com/msylla/tonnage-api/internal/application/stock"
	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

type banc struct {
	store     *apptest.Store
	dispatchs *appdispatch.UseCase
	rotations *UseCase
}

func nouveauBanc(t *testing.T) *banc {
	t.Helper()
	store := apptest.NewStore()
	store.Produits["p1"] = &entity.Produit{ID: "p1", Reference: "RIZ-001", Nom: "Riz parfumé", Unite: "tonnes"}
	store.Magasins["m1"] = &entity.Magasin{ID: "m1", Nom: "Magasin A"}
	store.Magasins["m2"] = &entity.Magasin{ID: "m2", Nom: "Magasin B"}
	store.Chauffeurs["c1"] = &entity.Chauffeur{ID: "c1", Nom: "Diallo", NumeroCamion: "DK-1001", CapaciteCamion: decimal.NewFromInt(30), Statut: entity.ChauffeurActif}
	store.Chauffeurs["c2"] = &entity.Chauffeur{ID: "c2", Nom: "Ndiaye", NumeroCamion: "DK-1002", CapaciteCamion: decimal.NewFromInt(25), Statut: entity.ChauffeurActif}
	store.SeedStock("p1", "m1", decimal.NewFromInt(100))

	ledger := appstock.NewLedger()
	repos := store.Repos()
	return &banc{
		store: store,
		dispatchs: appdispatch.NewUseCase(
			store.TxRunner(), ledger, repos.Dispatches, repos.Rotations,
			&apptest.ProduitRepo{S: store}, &apptest.MagasinRepo{S: store}, &apptest.ClientRepo{S: store},
		),
		rotations: NewUseCase(
			store.TxRunner(), ledger, repos.Rotations, repos.Dispatches,
			&apptest.ChauffeurRepo{S: store},
		),
	}
}

func (b *banc) creerDispatch(t *testing.T, quantite int64) *entity.Dispatch {
	t.Helper()
	d, err := b.dispatchs.Creer(context.Background(), appdispatch.CreerInput{
		ProduitID:            "p1",
		MagasinSourceID:      "m1",
		MagasinDestinationID: "m2",
		QuantiteTotale:       decimal.NewFromInt(quantite),
		CreatedBy:            "u1",
	})
	require.NoError(t, err)
	return d
}

func TestAjouter(t *testing.T) {
	b := nouveauBanc(t)
	d := b.creerDispatch(t, 90)
	ctx := context.Background()

	rot, err := b.rotations.Ajouter(ctx, d.ID, AjouterInput{ChauffeurID: "c1", QuantitePrevue: decimal.NewFromInt(30)})
	require.NoError(t, err)
	assert.Equal(t, 1, rot.NumeroRotation)
	assert.Equal(t, entity.RotationPlanifie, rot.Statut)
	assert.True(t, rot.CapaciteCamion.Equal(decimal.NewFromInt(30)))

	rot2, err := b.rotations.Ajouter(ctx, d.ID, AjouterInput{ChauffeurID: "c2", QuantitePrevue: decimal.NewFromInt(25)})
	require.NoError(t, err)
	assert.Equal(t, 2, rot2.NumeroRotation)
}

func TestAjouterCapaciteDepassee(t *testing.T) {
	b := nouveauBanc(t)
	d := b.creerDispatch(t, 90)

	_, err := b.rotations.Ajouter(context.Background(), d.ID, AjouterInput{
		ChauffeurID:    "c2",
		QuantitePrevue: decimal.NewFromInt(26), // camion de 25
	})
	var capErr *domain.CapaciteInsuffisanteError
	require.ErrorAs(t, err, &capErr)
	assert.True(t, capErr.CapaciteTotale.Equal(decimal.NewFromInt(25)))
}

func TestAjouterQuotaDepasse(t *testing.T) {
	b := nouveauBanc(t)
	d := b.creerDispatch(t, 50)
	ctx := context.Background()

	_, err := b.rotations.Ajouter(ctx, d.ID, AjouterInput{ChauffeurID: "c1", QuantitePrevue: decimal.NewFromInt(30)})
	require.NoError(t, err)

	_, err = b.rotations.Ajouter(ctx, d.ID, AjouterInput{ChauffeurID: "c2", QuantitePrevue: decimal.NewFromInt(25)})
	var quotaErr *domain.QuotaDepasseError
	require.ErrorAs(t, err, &quotaErr)
	assert.True(t, quotaErr.QuotaRestant.Equal(decimal.NewFromInt(20)), "quota restant = %s", quotaErr.QuotaRestant)
	assert.ErrorIs(t, err, domain.ErrQuotaDepasse)
}

func TestCreerMultiplesToutOuRien(t *testing.T) {
	b := nouveauBanc(t)
	d := b.creerDispatch(t, 50)
	ctx := context.Background()

	// La troisième proposition crève le quota: rien ne doit être persisté.
	_, err := b.rotations.CreerMultiples(ctx, d.ID, []PropositionInput{
		{ChauffeurID: "c1", QuantitePrevue: decimal.NewFromInt(30)},
		{ChauffeurID: "c2", QuantitePrevue: decimal.NewFromInt(15)},
		{ChauffeurID: "c2", QuantitePrevue: decimal.NewFromInt(10)},
	})
	require.ErrorIs(t, err, domain.ErrQuotaDepasse)
	assert.Empty(t, b.store.Rotations)

	creees, err := b.rotations.CreerMultiples(ctx, d.ID, []PropositionInput{
		{ChauffeurID: "c1", QuantitePrevue: decimal.NewFromInt(30)},
		{ChauffeurID: "c2", QuantitePrevue: decimal.NewFromInt(20)},
	})
	require.NoError(t, err)
	require.Len(t, creees, 2)
	assert.Equal(t, 1, creees[0].NumeroRotation)
	assert.Equal(t, 2, creees[1].NumeroRotation)
}

func TestDemarrer(t *testing.T) {
	b := nouveauBanc(t)
	d := b.creerDispatch(t, 90)
	ctx := context.Background()

	rot, err := b.rotations.Ajouter(ctx, d.ID, AjouterInput{ChauffeurID: "c1", QuantitePrevue: decimal.NewFromInt(30)})
	require.NoError(t, err)

	require.NoError(t, b.rotations.Demarrer(ctx, rot.ID))
	assert.Equal(t, entity.RotationEnTransit, b.store.Rotations[rot.ID].Statut)
	assert.NotNil(t, b.store.Rotations[rot.ID].DateDepart)
	assert.Equal(t, entity.DispatchEnCours, b.store.Dispatches[d.ID].Statut)

	// Un second départ est refusé.
	assert.ErrorIs(t, b.rotations.Demarrer(ctx, rot.ID), domain.ErrTransitionInvalide)
}

func TestReceptionnerCycleComplet(t *testing.T) {
	b := nouveauBanc(t)
	d := b.creerDispatch(t, 90)
	ctx := context.Background()

	// Après réservation: 10 disponibles, 90 réservées à la source.
	source := b.store.StockDe("p1", "m1")
	assert.True(t, source.QuantiteDisponible.Equal(decimal.NewFromInt(10)))
	assert.True(t, source.QuantiteReservee.Equal(decimal.NewFromInt(90)))

	livraisons := []int64{28, 30, 29}
	ecartsAttendus := []int64{2, 0, 1}
	for i := range livraisons {
		rot, err := b.rotations.Ajouter(ctx, d.ID, AjouterInput{ChauffeurID: "c1", QuantitePrevue: decimal.NewFromInt(30)})
		require.NoError(t, err)
		require.NoError(t, b.rotations.Demarrer(ctx, rot.ID))

		res, err := b.rotations.Receptionner(ctx, rot.ID, decimal.NewFromInt(livraisons[i]), "", "u2")
		require.NoError(t, err)
		assert.True(t, res.Ecart.Equal(decimal.NewFromInt(ecartsAttendus[i])), "rotation %d: écart = %s", i+1, res.Ecart)
	}

	// Source soldée, destination créditée de la somme livrée (87).
	source = b.store.StockDe("p1", "m1")
	assert.True(t, source.QuantiteDisponible.Equal(decimal.NewFromInt(10)))
	assert.True(t, source.QuantiteReservee.IsZero())
	destination := b.store.StockDe("p1", "m2")
	assert.True(t, destination.QuantiteDisponible.Equal(decimal.NewFromInt(87)), "destination = %s", destination.QuantiteDisponible)

	// Tout le quota est alloué et terminal: dispatch terminé.
	assert.Equal(t, entity.DispatchTermine, b.store.Dispatches[d.ID].Statut)

	// Trois sorties à la source, trois entrées à la destination, références exactes.
	sorties, err := b.store.Repos().Mouvements.List(ctx, repository.FiltresMouvement{Type: entity.MouvementSortie, MagasinID: "m1"})
	require.NoError(t, err)
	require.Len(t, sorties, 3)
	entrees, err := b.store.Repos().Mouvements.ListEntrees(ctx, repository.FiltresMouvement{MagasinID: "m2"})
	require.NoError(t, err)
	require.Len(t, entrees, 3)
	for i, e := range entrees {
		assert.Equal(t, fmt.Sprintf("%s-R%d", d.NumeroDispatch, i+1), e.ReferenceDocument)
	}
}

func TestReceptionnerJamaisDeDoubleCredit(t *testing.T) {
	b := nouveauBanc(t)
	d := b.creerDispatch(t, 30)
	ctx := context.Background()

	rot, err := b.rotations.Ajouter(ctx, d.ID, AjouterInput{ChauffeurID: "c1", QuantitePrevue: decimal.NewFromInt(30)})
	require.NoError(t, err)
	require.NoError(t, b.rotations.Demarrer(ctx, rot.ID))

	_, err = b.rotations.Receptionner(ctx, rot.ID, decimal.NewFromInt(30), "", "u2")
	require.NoError(t, err)

	_, err = b.rotations.Receptionner(ctx, rot.ID, decimal.NewFromInt(30), "", "u2")
	assert.ErrorIs(t, err, domain.ErrTransitionInvalide)

	destination := b.store.StockDe("p1", "m2")
	assert.True(t, destination.QuantiteDisponible.Equal(decimal.NewFromInt(30)))
	entrees, err := b.store.Repos().Mouvements.ListEntrees(ctx, repository.FiltresMouvement{MagasinID: "m2"})
	require.NoError(t, err)
	assert.Len(t, entrees, 1)
}

func TestReceptionnerDepuisPlanifieRefusee(t *testing.T) {
	b := nouveauBanc(t)
	d := b.creerDispatch(t, 30)
	ctx := context.Background()

	rot, err := b.rotations.Ajouter(ctx, d.ID, AjouterInput{ChauffeurID: "c1", QuantitePrevue: decimal.NewFromInt(30)})
	require.NoError(t, err)

	_, err = b.rotations.Receptionner(ctx, rot.ID, decimal.NewFromInt(30), "", "u2")
	assert.ErrorIs(t, err, domain.ErrTransitionInvalide)
}

func TestReceptionnerExcedent(t *testing.T) {
	b := nouveauBanc(t)
	d := b.creerDispatch(t, 30)
	ctx := context.Background()

	rot, err := b.rotations.Ajouter(ctx, d.ID, AjouterInput{ChauffeurID: "c1", QuantitePrevue: decimal.NewFromInt(28)})
	require.NoError(t, err)
	require.NoError(t, b.rotations.Demarrer(ctx, rot.ID))

	// Livraison supérieure au prévu: écart négatif, la destination reçoit le réel.
	res, err := b.rotations.Receptionner(ctx, rot.ID, decimal.NewFromInt(29), "", "u2")
	require.NoError(t, err)
	assert.True(t, res.Ecart.Equal(decimal.NewFromInt(-1)))
	destination := b.store.StockDe("p1", "m2")
	assert.True(t, destination.QuantiteDisponible.Equal(decimal.NewFromInt(29)))
}

func TestMarquerManquant(t *testing.T) {
	b := nouveauBanc(t)
	d := b.creerDispatch(t, 30)
	ctx := context.Background()

	rot, err := b.rotations.Ajouter(ctx, d.ID, AjouterInput{ChauffeurID: "c1", QuantitePrevue: decimal.NewFromInt(30)})
	require.NoError(t, err)
	require.NoError(t, b.rotations.Demarrer(ctx, rot.ID))

	res, err := b.rotations.MarquerManquant(ctx, rot.ID, "cargaison non arrivée", "u2")
	require.NoError(t, err)
	assert.True(t, res.QuantiteLivree.IsZero())
	assert.True(t, res.Ecart.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, entity.DispatchTermine, res.StatutDispatch)

	// La réservation source est soldée mais la destination ne reçoit rien.
	source := b.store.StockDe("p1", "m1")
	assert.True(t, source.QuantiteReservee.IsZero())
	destination := b.store.StockDe("p1", "m2")
	assert.True(t, destination.QuantiteDisponible.IsZero())
	assert.Equal(t, entity.RotationManquant, b.store.Rotations[rot.ID].Statut)
}

func TestAnnulerRotation(t *testing.T) {
	b := nouveauBanc(t)
	d := b.creerDispatch(t, 50)
	ctx := context.Background()

	rot, err := b.rotations.Ajouter(ctx, d.ID, AjouterInput{ChauffeurID: "c1", QuantitePrevue: decimal.NewFromInt(30)})
	require.NoError(t, err)
	require.NoError(t, b.rotations.Annuler(ctx, rot.ID))

	// Le quota annulé redevient allouable.
	somme, err := b.store.Repos().Rotations.SommeAllouee(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, somme.IsZero())
	_, err = b.rotations.Ajouter(ctx, d.ID, AjouterInput{ChauffeurID: "c1", QuantitePrevue: decimal.NewFromInt(30)})
	require.NoError(t, err)

	// Une rotation partie ne s'annule plus.
	rot2, err := b.rotations.Ajouter(ctx, d.ID, AjouterInput{ChauffeurID: "c2", QuantitePrevue: decimal.NewFromInt(20)})
	require.NoError(t, err)
	require.NoError(t, b.rotations.Demarrer(ctx, rot2.ID))
	assert.ErrorIs(t, b.rotations.Annuler(ctx, rot2.ID), domain.ErrTransitionInvalide)
}

func TestAjouterSurDispatchAnnule(t *testing.T) {
	b := nouveauBanc(t)
	d := b.creerDispatch(t, 50)
	ctx := context.Background()

	require.NoError(t, b.dispatchs.Annuler(ctx, d.ID))
	_, err := b.rotations.Ajouter(ctx, d.ID, AjouterInput{ChauffeurID: "c1", QuantitePrevue: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrTransitionInvalide)
}

func TestCalculer(t *testing.T) {
	b := nouveauBanc(t)
	ctx := context.Background()

	// Tous les chauffeurs actifs, deux passes: les gros camions d'abord.
	propositions, err := b.rotations.Calculer(ctx, decimal.NewFromInt(85), nil)
	require.NoError(t, err)
	require.Len(t, propositions, 3)
	assert.True(t, propositions[0].QuantitePrevue.Equal(decimal.NewFromInt(30)))
	assert.True(t, propositions[1].QuantitePrevue.Equal(decimal.NewFromInt(30)))
	assert.True(t, propositions[2].QuantitePrevue.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "c2", propositions[2].ChauffeurID)

	// Chauffeur explicite.
	propositions, err = b.rotations.Calculer(ctx, decimal.NewFromInt(60), []string{"c1"})
	require.NoError(t, err)
	require.Len(t, propositions, 2)

	_, err = b.rotations.Calculer(ctx, decimal.NewFromInt(10), []string{"inconnu"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
