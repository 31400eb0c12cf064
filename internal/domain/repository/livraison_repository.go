package repository

import (
	"context"
	"time"

	"github.com/msylla/tonnage-api/internal/domain/entity"
)

// FiltresLivraison filtres de listing des livraisons déclarées.
type FiltresLivraison struct {
	MagasinID    string
	Statut       string
	Transporteur string
	Date         *time.Time
	DateDebut    *time.Time
	DateFin      *time.Time
}

// LivraisonDetail livraison enrichie des libellés joints.
type LivraisonDetail struct {
	Livraison  entity.Livraison
	ProduitNom string
	ProduitRef string
	MagasinNom string
	ClientNom  string
}

// LivraisonRepository port de persistance des livraisons déclarées.
type LivraisonRepository interface {
	Create(ctx context.Context, l *entity.Livraison) error
	GetByID(ctx context.Context, id string) (*entity.Livraison, error)
	List(ctx context.Context, f FiltresLivraison) ([]*LivraisonDetail, error)
	// ListPeriode retourne les livraisons brutes d'une période pour le rapprochement.
	ListPeriode(ctx context.Context, debut, fin *time.Time, magasinID string) ([]*entity.Livraison, error)
}
