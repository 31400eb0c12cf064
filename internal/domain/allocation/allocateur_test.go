package allocation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/allocation"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func flotte(n int, capacite float64) []allocation.Camion {
	camions := make([]allocation.Camion, 0, n)
	for i := 0; i < n; i++ {
		camions = append(camions, allocation.Camion{
			ChauffeurID: string(rune('a' + i)),
			Capacite:    d(capacite),
		})
	}
	return camions
}

func sommePrevue(props []allocation.Proposition) decimal.Decimal {
	total := decimal.Zero
	for _, p := range props {
		total = total.Add(p.QuantitePrevue)
	}
	return total
}

func TestCalculerRotations_325TonnesEnCamionsDe30(t *testing.T) {
	props, err := allocation.CalculerRotations(d(325), flotte(12, 30))
	require.NoError(t, err)

	// 10 rotations pleines de 30 + 1 rotation de 25.
	require.Len(t, props, 11)
	for i := 0; i < 10; i++ {
		assert.True(t, props[i].QuantitePrevue.Equal(d(30)), "rotation %d", i+1)
	}
	assert.True(t, props[10].QuantitePrevue.Equal(d(25)))
	assert.True(t, sommePrevue(props).Equal(d(325)), "la somme doit couvrir exactement la quantité")
}

func TestCalculerRotations_NumerosSequentiels(t *testing.T) {
	props, err := allocation.CalculerRotations(d(70), flotte(3, 30))
	require.NoError(t, err)
	require.Len(t, props, 3)
	for i, p := range props {
		assert.Equal(t, i+1, p.NumeroRotation)
	}
}

func TestCalculerRotations_TrieParCapaciteDecroissante(t *testing.T) {
	camions := []allocation.Camion{
		{ChauffeurID: "petit", Capacite: d(10)},
		{ChauffeurID: "grand", Capacite: d(40)},
		{ChauffeurID: "moyen", Capacite: d(25)},
	}
	props, err := allocation.CalculerRotations(d(60), camions)
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, "grand", props[0].ChauffeurID)
	assert.True(t, props[0].QuantitePrevue.Equal(d(40)))
	assert.Equal(t, "moyen", props[1].ChauffeurID)
	assert.True(t, props[1].QuantitePrevue.Equal(d(20)))
}

func TestCalculerRotations_CapaciteInsuffisante(t *testing.T) {
	_, err := allocation.CalculerRotations(d(100), flotte(2, 30))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCapaciteInsuffisante)

	var capErr *domain.CapaciteInsuffisanteError
	require.ErrorAs(t, err, &capErr)
	assert.True(t, capErr.CapaciteTotale.Equal(d(60)))
	assert.True(t, capErr.Demandee.Equal(d(100)))
}

func TestCalculerRotations_MemeCamionEnPlusieursPasses(t *testing.T) {
	// L'appelant peut répéter un camion pour modéliser plusieurs passages.
	camion := allocation.Camion{ChauffeurID: "x", Capacite: d(30)}
	props, err := allocation.CalculerRotations(d(90), []allocation.Camion{camion, camion, camion})
	require.NoError(t, err)
	assert.Len(t, props, 3)
	assert.True(t, sommePrevue(props).Equal(d(90)))
}

func TestCalculerRotations_EntreesInvalides(t *testing.T) {
	_, err := allocation.CalculerRotations(decimal.Zero, flotte(2, 30))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = allocation.CalculerRotations(d(-5), flotte(2, 30))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = allocation.CalculerRotations(d(10), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCalculerRotations_IgnoreCapacitesNulles(t *testing.T) {
	camions := []allocation.Camion{
		{ChauffeurID: "hs", Capacite: decimal.Zero},
		{ChauffeurID: "ok", Capacite: d(50)},
	}
	props, err := allocation.CalculerRotations(d(45), camions)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "ok", props[0].ChauffeurID)
}

func TestCalculerRotations_QuantiteFractionnaire(t *testing.T) {
	props, err := allocation.CalculerRotations(decimal.NewFromFloat(32.5), flotte(2, 30))
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.True(t, props[1].QuantitePrevue.Equal(decimal.NewFromFloat(2.5)))
}
