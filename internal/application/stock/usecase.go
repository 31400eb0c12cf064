package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/msylla/tonnage-api/internal/application/ports"
	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// UseCase opérations de stock hors circuit dispatch: saisies opérateur
// (entrées/sorties magasin) et consultations. Toute mutation passe par le Ledger
// dans une transaction unique.
type UseCase struct {
	txRunner    ports.TxRunner
	ledger      *Ledger
	stocks      repository.StockRepository
	mouvements  repository.MouvementStockRepository
	produits    repository.ProduitRepository
	magasins    repository.MagasinRepository
}

// NewUseCase construit le cas d'usage.
func NewUseCase(
	txRunner ports.TxRunner,
	ledger *Ledger,
	stocks repository.StockRepository,
	mouvements repository.MouvementStockRepository,
	produits repository.ProduitRepository,
	magasins repository.MagasinRepository,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		ledger:     ledger,
		stocks:     stocks,
		mouvements: mouvements,
		produits:   produits,
		magasins:   magasins,
	}
}

// MouvementInput saisie d'un mouvement de magasin par un opérateur.
type MouvementInput struct {
	Type              string
	ProduitID         string
	MagasinID         string
	Quantite          decimal.Decimal
	ReferenceDocument string
	Description       string
	CreatedBy         string
}

// EnregistrerMouvement applique une entrée ou une sortie magasin: crédit ou débit
// du ledger puis écriture du mouvement, dans la même transaction. Les entrées
// alimentent ensuite le rapprochement livraisons/entrées.
func (uc *UseCase) EnregistrerMouvement(ctx context.Context, in MouvementInput) (*entity.MouvementStock, error) {
	if in.ProduitID == "" || in.MagasinID == "" {
		return nil, domain.ErrValidation
	}
	if !in.Quantite.GreaterThan(decimal.Zero) {
		return nil, domain.ErrValidation
	}
	if in.Type != entity.MouvementEntree && in.Type != entity.MouvementSortie {
		return nil, domain.ErrValidation
	}
	if _, err := uc.produits.GetByID(ctx, in.ProduitID); err != nil {
		return nil, err
	}
	if _, err := uc.magasins.GetByID(ctx, in.MagasinID); err != nil {
		return nil, err
	}

	now := time.Now()
	mouvement := &entity.MouvementStock{
		ID:                uuid.New().String(),
		Type:              in.Type,
		ProduitID:         in.ProduitID,
		MagasinID:         in.MagasinID,
		Quantite:          in.Quantite,
		DateMouvement:     now,
		ReferenceDocument: in.ReferenceDocument,
		Description:       in.Description,
		CreatedBy:         in.CreatedBy,
		CreatedAt:         now,
	}

	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		if in.Type == entity.MouvementEntree {
			if err := uc.ledger.Crediter(ctx, r.Stocks, in.ProduitID, in.MagasinID, in.Quantite); err != nil {
				return err
			}
		} else {
			if err := uc.ledger.Debiter(ctx, r.Stocks, in.ProduitID, in.MagasinID, in.Quantite); err != nil {
				return err
			}
		}
		return r.Mouvements.Create(ctx, mouvement)
	})
	if err != nil {
		return nil, err
	}
	return mouvement, nil
}

// ListerStocks retourne les lignes de stock filtrées, avec l'indicateur de seuil d'alerte.
func (uc *UseCase) ListerStocks(ctx context.Context, f repository.FiltresStock) ([]*repository.LigneStock, error) {
	return uc.stocks.List(ctx, f)
}

// ListerMouvements retourne l'historique des mouvements filtrés.
func (uc *UseCase) ListerMouvements(ctx context.Context, f repository.FiltresMouvement) ([]*repository.MouvementDetail, error) {
	return uc.mouvements.List(ctx, f)
}
