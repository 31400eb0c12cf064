// Package livraison porte la déclaration des livraisons attendues ou effectuées,
// matière première du rapprochement avec les entrées magasin.
package livraison

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// UseCase déclaration et consultation des livraisons.
type UseCase struct {
	livraisons repository.LivraisonRepository
	produits   repository.ProduitRepository
	magasins   repository.MagasinRepository
	clients    repository.ClientRepository
}

// NewUseCase construit le cas d'usage.
func NewUseCase(
	livraisons repository.LivraisonRepository,
	produits repository.ProduitRepository,
	magasins repository.MagasinRepository,
	clients repository.ClientRepository,
) *UseCase {
	return &UseCase{
		livraisons: livraisons,
		produits:   produits,
		magasins:   magasins,
		clients:    clients,
	}
}

// CreerInput déclaration d'une livraison. La destination est un magasin ou un client.
type CreerInput struct {
	ProduitID     string
	MagasinID     string
	ClientID      string
	Quantite      decimal.Decimal
	DateLivraison time.Time
	Transporteur  string
	NumeroCamion  string
	Chauffeur     string
	Statut        string
	CreatedBy     string
}

// Creer valide la déclaration et l'enregistre. Elle ne touche pas au stock:
// seule l'entrée magasin saisie par l'opérateur fait foi, le rapprochement
// relève ensuite les écarts.
func (uc *UseCase) Creer(ctx context.Context, in CreerInput) (*entity.Livraison, error) {
	if in.ProduitID == "" || !in.Quantite.GreaterThan(decimal.Zero) {
		return nil, domain.ErrValidation
	}
	if in.MagasinID == "" && in.ClientID == "" {
		return nil, domain.ErrValidation
	}
	statut := in.Statut
	if statut == "" {
		statut = entity.LivraisonProgrammee
	}
	if statut != entity.LivraisonProgrammee && statut != entity.LivraisonEffectuee && statut != entity.LivraisonAnnulee {
		return nil, domain.ErrValidation
	}

	if _, err := uc.produits.GetByID(ctx, in.ProduitID); err != nil {
		return nil, err
	}
	if in.MagasinID != "" {
		if _, err := uc.magasins.GetByID(ctx, in.MagasinID); err != nil {
			return nil, err
		}
	}
	if in.ClientID != "" {
		if _, err := uc.clients.GetByID(ctx, in.ClientID); err != nil {
			return nil, err
		}
	}

	date := in.DateLivraison
	if date.IsZero() {
		date = time.Now()
	}
	l := &entity.Livraison{
		ID:            uuid.New().String(),
		ProduitID:     in.ProduitID,
		Quantite:      in.Quantite,
		DateLivraison: date,
		Transporteur:  in.Transporteur,
		NumeroCamion:  in.NumeroCamion,
		Chauffeur:     in.Chauffeur,
		Statut:        statut,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     time.Now(),
	}
	if in.MagasinID != "" {
		l.MagasinID = &in.MagasinID
	}
	if in.ClientID != "" {
		l.ClientID = &in.ClientID
	}
	if err := uc.livraisons.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Obtenir retourne une livraison par identifiant.
func (uc *UseCase) Obtenir(ctx context.Context, id string) (*entity.Livraison, error) {
	return uc.livraisons.GetByID(ctx, id)
}

// Lister retourne les livraisons filtrées, enrichies des libellés joints.
func (uc *UseCase) Lister(ctx context.Context, f repository.FiltresLivraison) ([]*repository.LivraisonDetail, error) {
	return uc.livraisons.List(ctx, f)
}
