package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msylla/tonnage-api/internal/application/reconciliation"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	domrecon "github.com/msylla/tonnage-api/internal/domain/reconciliation"
)

func TestVersComparaisonResponse(t *testing.T) {
	magasin := "mag-1"
	jour := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	res := &reconciliation.ResultatComparaison{
		Lignes: []domrecon.LigneComparaison{
			{
				Livraison: &entity.Livraison{
					ID:           "liv-1",
					ProduitID:    "prod-1",
					MagasinID:    &magasin,
					Transporteur: "Transco",
				},
				QuantiteLivree:   decimal.NewFromInt(50),
				Ecart:            decimal.NewFromInt(50),
				EcartPourcentage: decimal.NewFromInt(100),
				Statut:           domrecon.StatutNonRecu,
				Date:             jour,
			},
			{
				Mouvement: &entity.MouvementStock{
					ID:                "mvt-1",
					ProduitID:         "prod-2",
					MagasinID:         magasin,
					ReferenceDocument: "DSP-20260810-AAAAAA-R1",
				},
				QuantiteRecue: decimal.NewFromInt(30),
				Ecart:         decimal.NewFromInt(-30),
				Statut:        domrecon.StatutNonPrevu,
				Date:          jour,
			},
		},
		Stats: domrecon.StatsComparaison{
			TotalLignes:   2,
			NonRecus:      1,
			NonPrevus:     1,
			TotalEcartAbs: decimal.NewFromInt(80),
		},
	}

	out := versComparaisonResponse(res)
	require.Len(t, out.Lignes, 2)
	assert.Equal(t, "liv-1", out.Lignes[0].LivraisonID)
	assert.Equal(t, "prod-1", out.Lignes[0].ProduitID)
	assert.Equal(t, "mag-1", out.Lignes[0].MagasinID)
	assert.Equal(t, "mvt-1", out.Lignes[1].MouvementID)
	assert.Equal(t, "prod-2", out.Lignes[1].ProduitID)
	assert.Equal(t, "DSP-20260810-AAAAAA-R1", out.Lignes[1].ReferenceDocument)
	assert.Equal(t, 2, out.Stats.TotalLignes)
}

func TestComparaisonResponseClesJSON(t *testing.T) {
	out := versComparaisonResponse(&reconciliation.ResultatComparaison{
		Lignes: []domrecon.LigneComparaison{{
			Livraison:      &entity.Livraison{ID: "liv-1", ProduitID: "prod-1"},
			QuantiteLivree: decimal.NewFromInt(50),
			Ecart:          decimal.NewFromInt(50),
			Statut:         domrecon.StatutNonRecu,
		}},
	})
	brut, err := json.Marshal(out)
	require.NoError(t, err)

	corps := string(brut)
	assert.Contains(t, corps, `"quantite_livree"`)
	assert.Contains(t, corps, `"ecart_pourcentage"`)
	assert.Contains(t, corps, `"total_ecart_abs"`)
	assert.NotContains(t, corps, `"QuantiteLivree"`)
}

func TestVersRapportEcartsResponse(t *testing.T) {
	ratio := decimal.NewFromFloat(1.25)
	res := &reconciliation.ResultatRapport{
		Lignes: []domrecon.LigneRapport{{
			Jour:                time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
			MagasinID:           "mag-1",
			MagasinNom:          "Môle 3",
			ProduitID:           "prod-1",
			ProduitNom:          "Blé tendre",
			QuantiteDispatchee:  decimal.NewFromInt(100),
			QuantiteEntree:      decimal.NewFromInt(90),
			QuantiteSortie:      decimal.NewFromInt(72),
			EcartDispatchEntree: decimal.NewFromInt(10),
			RapportEntreeSortie: &ratio,
			Statut:              domrecon.StatutManquant,
		}},
		Stats: domrecon.StatsRapport{TotalLignes: 1, Manquants: 1},
	}

	out := versRapportEcartsResponse(res)
	require.Len(t, out.Lignes, 1)
	assert.Equal(t, "Môle 3", out.Lignes[0].MagasinNom)
	require.NotNil(t, out.Lignes[0].RapportEntreeSortie)
	assert.True(t, out.Lignes[0].RapportEntreeSortie.Equal(ratio))

	brut, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(brut), `"quantite_dispatchee"`)
	assert.Contains(t, string(brut), `"rapport_entree_sortie"`)
	assert.NotContains(t, string(brut), `"EcartDispatchEntree"`)
}
