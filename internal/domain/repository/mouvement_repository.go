package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/msylla/tonnage-api/internal/domain/entity"
)

// FiltresMouvement filtres de listing des mouvements de stock.
type FiltresMouvement struct {
	Type      string
	ProduitID string
	MagasinID string
	DateDebut *time.Time
	DateFin   *time.Time
}

// MouvementDetail mouvement enrichi des libellés joints.
type MouvementDetail struct {
	Mouvement  entity.MouvementStock
	ProduitNom string
	ProduitRef string
	MagasinNom string
}

// AggregatMouvementJour quantité agrégée par (jour, magasin, produit) pour un type
// de mouvement donné.
type AggregatMouvementJour struct {
	Jour             time.Time
	MagasinID        string
	MagasinNom       string
	ProduitID        string
	ProduitNom       string
	ProduitReference string
	Quantite         decimal.Decimal
}

// MouvementStockRepository port de persistance des mouvements (entrées/sorties magasin).
type MouvementStockRepository interface {
	Create(ctx context.Context, m *entity.MouvementStock) error
	List(ctx context.Context, f FiltresMouvement) ([]*MouvementDetail, error)
	// ListEntrees retourne les mouvements d'entrée bruts d'une période, matière du
	// rapprochement livraisons / entrées.
	ListEntrees(ctx context.Context, f FiltresMouvement) ([]*entity.MouvementStock, error)
	SommesParJour(ctx context.Context, typ string, f FiltresRapport) ([]*AggregatMouvementJour, error)
}
