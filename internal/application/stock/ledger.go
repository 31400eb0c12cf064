// Package stock porte le StockLedger: toute mutation d'une ligne de stock
// (produit, magasin) passe par lui, sous verrou de ligne, dans la transaction
// de l'appelant. Aucune opération ne peut observer ni laisser une quantité négative.
package stock

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// Ledger service de comptabilité de stock. Les méthodes reçoivent un StockRepository
// attaché à la transaction en cours; le ledger lui-même est sans état.
type Ledger struct{}

// NewLedger construit le ledger.
func NewLedger() *Ledger { return &Ledger{} }

// Reserver vérifie atomiquement disponible >= qte puis bascule la quantité de
// disponible vers réservé. Échoue avec StockInsuffisantError{Disponible} sinon.
func (l *Ledger) Reserver(ctx context.Context, stocks repository.StockRepository, produitID, magasinID string, qte decimal.Decimal) error {
	if !qte.GreaterThan(decimal.Zero) {
		return domain.ErrValidation
	}
	s, err := stocks.GetForUpdate(ctx, produitID, magasinID)
	if err != nil {
		return err
	}
	if s.QuantiteDisponible.LessThan(qte) {
		return &domain.StockInsuffisantError{Disponible: s.QuantiteDisponible}
	}
	s.QuantiteDisponible = s.QuantiteDisponible.Sub(qte)
	s.QuantiteReservee = s.QuantiteReservee.Add(qte)
	s.UpdatedAt = time.Now()
	return stocks.Upsert(ctx, s)
}

// Liberer annule une réservation: la quantité retourne de réservé vers disponible
// (annulation de dispatch avant tout départ).
func (l *Ledger) Liberer(ctx context.Context, stocks repository.StockRepository, produitID, magasinID string, qte decimal.Decimal) error {
	if !qte.GreaterThan(decimal.Zero) {
		return domain.ErrValidation
	}
	s, err := stocks.GetForUpdate(ctx, produitID, magasinID)
	if err != nil {
		return err
	}
	if s.QuantiteReservee.LessThan(qte) {
		return domain.ErrValidation
	}
	s.QuantiteReservee = s.QuantiteReservee.Sub(qte)
	s.QuantiteDisponible = s.QuantiteDisponible.Add(qte)
	s.UpdatedAt = time.Now()
	return stocks.Upsert(ctx, s)
}

// ConsommerReservation solde une réservation quand la marchandise a physiquement
// quitté le magasin source (réception ou perte d'une rotation).
func (l *Ledger) ConsommerReservation(ctx context.Context, stocks repository.StockRepository, produitID, magasinID string, qte decimal.Decimal) error {
	if !qte.GreaterThan(decimal.Zero) {
		return domain.ErrValidation
	}
	s, err := stocks.GetForUpdate(ctx, produitID, magasinID)
	if err != nil {
		return err
	}
	if s.QuantiteReservee.LessThan(qte) {
		return domain.ErrValidation
	}
	s.QuantiteReservee = s.QuantiteReservee.Sub(qte)
	s.UpdatedAt = time.Now()
	return stocks.Upsert(ctx, s)
}

// Crediter augmente le disponible (réception d'une rotation au magasin destination,
// ou entrée initiale saisie par un opérateur). La ligne est créée au premier crédit.
func (l *Ledger) Crediter(ctx context.Context, stocks repository.StockRepository, produitID, magasinID string, qte decimal.Decimal) error {
	if !qte.GreaterThan(decimal.Zero) {
		return domain.ErrValidation
	}
	s, err := stocks.GetForUpdate(ctx, produitID, magasinID)
	if errors.Is(err, domain.ErrNotFound) {
		s = &entity.Stock{ProduitID: produitID, MagasinID: magasinID}
	} else if err != nil {
		return err
	}
	s.QuantiteDisponible = s.QuantiteDisponible.Add(qte)
	s.UpdatedAt = time.Now()
	return stocks.Upsert(ctx, s)
}

// Debiter retire directement du disponible (sortie magasin saisie par un opérateur,
// hors circuit dispatch). Échoue avec StockInsuffisantError si le disponible est insuffisant.
func (l *Ledger) Debiter(ctx context.Context, stocks repository.StockRepository, produitID, magasinID string, qte decimal.Decimal) error {
	if !qte.GreaterThan(decimal.Zero) {
		return domain.ErrValidation
	}
	s, err := stocks.GetForUpdate(ctx, produitID, magasinID)
	if err != nil {
		return err
	}
	if s.QuantiteDisponible.LessThan(qte) {
		return &domain.StockInsuffisantError{Disponible: s.QuantiteDisponible}
	}
	s.QuantiteDisponible = s.QuantiteDisponible.Sub(qte)
	s.UpdatedAt = time.Now()
	return stocks.Upsert(ctx, s)
}
