// Package dispatch porte le DispatchPlanner: création et annulation des dispatches,
// avec réservation de stock au magasin source dans la même transaction.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/msylla/tonnage-api/internal/application/ports"
	appstock "github.com/msylla/tonnage-api/internal/application/stock"
	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// UseCase planifie les dispatches.
type UseCase struct {
	txRunner   ports.TxRunner
	ledger     *appstock.Ledger
	dispatches repository.DispatchRepository
	rotations  repository.RotationRepository
	produits   repository.ProduitRepository
	magasins   repository.MagasinRepository
	clients    repository.ClientRepository
}

// NewUseCase construit le cas d'usage.
func NewUseCase(
	txRunner ports.TxRunner,
	ledger *appstock.Ledger,
	dispatches repository.DispatchRepository,
	rotations repository.RotationRepository,
	produits repository.ProduitRepository,
	magasins repository.MagasinRepository,
	clients repository.ClientRepository,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		ledger:     ledger,
		dispatches: dispatches,
		rotations:  rotations,
		produits:   produits,
		magasins:   magasins,
		clients:    clients,
	}
}

// CreerInput entrée de création d'un dispatch. NumeroDispatch est généré s'il est vide.
// La destination est un magasin ou un client (au moins l'un des deux).
type CreerInput struct {
	NumeroDispatch       string
	ProduitID            string
	MagasinSourceID      string
	MagasinDestinationID string
	ClientID             string
	QuantiteTotale       decimal.Decimal
	Notes                string
	CreatedBy            string
}

// Creer valide l'entrée, réserve la quantité totale au magasin source puis
// enregistre le dispatch en en_attente, le tout dans une transaction unique:
// aucun effet de bord ne survit à un rejet.
func (uc *UseCase) Creer(ctx context.Context, in CreerInput) (*entity.Dispatch, error) {
	if in.ProduitID == "" || in.MagasinSourceID == "" {
		return nil, domain.ErrValidation
	}
	// Exactement une destination: magasin ou client, jamais les deux.
	if (in.MagasinDestinationID == "") == (in.ClientID == "") {
		return nil, domain.ErrValidation
	}
	if in.MagasinDestinationID == in.MagasinSourceID && in.MagasinDestinationID != "" {
		return nil, domain.ErrValidation
	}
	if !in.QuantiteTotale.GreaterThan(decimal.Zero) {
		return nil, domain.ErrValidation
	}

	if _, err := uc.produits.GetByID(ctx, in.ProduitID); err != nil {
		return nil, err
	}
	if _, err := uc.magasins.GetByID(ctx, in.MagasinSourceID); err != nil {
		return nil, err
	}
	if in.MagasinDestinationID != "" {
		if _, err := uc.magasins.GetByID(ctx, in.MagasinDestinationID); err != nil {
			return nil, err
		}
	}
	if in.ClientID != "" {
		if _, err := uc.clients.GetByID(ctx, in.ClientID); err != nil {
			return nil, err
		}
	}

	numero := in.NumeroDispatch
	if numero == "" {
		numero = genererNumeroDispatch(time.Now())
	}

	now := time.Now()
	d := &entity.Dispatch{
		ID:              uuid.New().String(),
		NumeroDispatch:  numero,
		ProduitID:       in.ProduitID,
		MagasinSourceID: in.MagasinSourceID,
		QuantiteTotale:  in.QuantiteTotale,
		Statut:          entity.DispatchEnAttente,
		Notes:           in.Notes,
		CreatedBy:       in.CreatedBy,
		DateCreation:    now,
		UpdatedAt:       now,
	}
	if in.MagasinDestinationID != "" {
		d.MagasinDestinationID = &in.MagasinDestinationID
	}
	if in.ClientID != "" {
		d.ClientID = &in.ClientID
	}

	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		if err := uc.ledger.Reserver(ctx, r.Stocks, in.ProduitID, in.MagasinSourceID, in.QuantiteTotale); err != nil {
			return err
		}
		return r.Dispatches.Create(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Annuler annule un dispatch encore en attente (aucune rotation non annulée) et
// libère la réservation au magasin source. Toute autre situation est rejetée:
// passé le premier départ, les seules issues sont livre ou manquant.
func (uc *UseCase) Annuler(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		d, err := r.Dispatches.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d.Statut != entity.DispatchEnAttente {
			return domain.ErrTransitionInvalide
		}
		rotations, err := r.Rotations.ListByDispatch(ctx, id)
		if err != nil {
			return err
		}
		for _, rot := range rotations {
			if rot.Statut != entity.RotationAnnule {
				return domain.ErrTransitionInvalide
			}
		}
		if err := uc.ledger.Liberer(ctx, r.Stocks, d.ProduitID, d.MagasinSourceID, d.QuantiteTotale); err != nil {
			return err
		}
		return r.Dispatches.UpdateStatut(ctx, id, entity.DispatchAnnule)
	})
}

// Obtenir retourne un dispatch enrichi et ses rotations.
func (uc *UseCase) Obtenir(ctx context.Context, id string) (*repository.DispatchDetail, []*entity.Rotation, error) {
	detail, err := uc.dispatches.GetDetail(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rotations, err := uc.rotations.ListByDispatch(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return detail, rotations, nil
}

// Lister retourne les dispatches filtrés.
func (uc *UseCase) Lister(ctx context.Context, f repository.FiltresDispatch) ([]*repository.DispatchDetail, error) {
	return uc.dispatches.List(ctx, f)
}

// Progression retourne l'avancement d'allocation des dispatches ouverts.
func (uc *UseCase) Progression(ctx context.Context, magasinID string) ([]*repository.ProgressionDispatch, error) {
	return uc.dispatches.ListProgression(ctx, magasinID)
}

// genererNumeroDispatch produit un numéro lisible et unique, ex: DSP-20250115-7F3A2C.
func genererNumeroDispatch(t time.Time) string {
	suffixe := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("DSP-%s-%s", t.Format("20060102"), suffixe)
}
