package repository

import (
	"context"

	"github.com/msylla/tonnage-api/internal/domain/entity"
)

// Référentiels consultés en validation; leur cycle de vie CRUD est géré ailleurs.

type ProduitRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Produit, error)
	GetByReference(ctx context.Context, reference string) (*entity.Produit, error)
	List(ctx context.Context) ([]*entity.Produit, error)
}

type MagasinRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Magasin, error)
	List(ctx context.Context) ([]*entity.Magasin, error)
}

type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
}

type ChauffeurRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Chauffeur, error)
	// ListActifs retourne les chauffeurs candidats pour une allocation de rotations.
	ListActifs(ctx context.Context) ([]*entity.Chauffeur, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Chauffeur, error)
}

type UtilisateurRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Utilisateur, error)
	GetByEmail(ctx context.Context, email string) (*entity.Utilisateur, error)
}
