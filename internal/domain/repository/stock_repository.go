package repository

import (
	"context"

	"github.com/msylla/tonnage-api/internal/domain/entity"
)

// FiltresStock filtres de consultation des lignes de stock.
type FiltresStock struct {
	MagasinID   string
	ProduitID   string
	SousSeuil   bool // uniquement les lignes sous le seuil d'alerte du produit
}

// LigneStock ligne de stock enrichie pour les listings.
type LigneStock struct {
	Stock       entity.Stock
	ProduitNom  string
	ProduitRef  string
	Unite       string
	MagasinNom  string
	StockFaible bool
}

// StockRepository port de persistance des lignes de stock par (produit, magasin).
// Get et Upsert s'utilisent dans une transaction; GetForUpdate pose un verrou de
// ligne (SELECT FOR UPDATE) pour la séquence lecture-contrôle-écriture du ledger.
type StockRepository interface {
	Get(ctx context.Context, produitID, magasinID string) (*entity.Stock, error)
	GetForUpdate(ctx context.Context, produitID, magasinID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	List(ctx context.Context, f FiltresStock) ([]*LigneStock, error)
}
