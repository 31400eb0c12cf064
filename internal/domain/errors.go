package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Erreurs de domaine (sans dépendances externes).
var (
	ErrNotFound             = errors.New("ressource non trouvée")
	ErrValidation           = errors.New("entrée invalide")
	ErrDuplicate            = errors.New("ressource dupliquée")
	ErrUnauthorized         = errors.New("non autorisé")
	ErrForbidden            = errors.New("accès refusé")
	ErrTransitionInvalide   = errors.New("transition d'état invalide")
	ErrStockInsuffisant     = errors.New("stock insuffisant")
	ErrQuotaDepasse         = errors.New("quota du dispatch dépassé")
	ErrCapaciteInsuffisante = errors.New("capacité camion insuffisante")
)

// StockInsuffisantError porte la quantité disponible pour que l'appelant puisse ajuster sa demande.
type StockInsuffisantError struct {
	Disponible decimal.Decimal
}

func (e *StockInsuffisantError) Error() string {
	return fmt.Sprintf("stock insuffisant: %s disponible", e.Disponible.String())
}

func (e *StockInsuffisantError) Is(target error) bool { return target == ErrStockInsuffisant }

// QuotaDepasseError porte le quota restant du dispatch.
type QuotaDepasseError struct {
	QuotaRestant decimal.Decimal
}

func (e *QuotaDepasseError) Error() string {
	return fmt.Sprintf("quota du dispatch dépassé: %s restant", e.QuotaRestant.String())
}

func (e *QuotaDepasseError) Is(target error) bool { return target == ErrQuotaDepasse }

// CapaciteInsuffisanteError porte la capacité totale offerte face à la quantité demandée.
type CapaciteInsuffisanteError struct {
	CapaciteTotale decimal.Decimal
	Demandee       decimal.Decimal
}

func (e *CapaciteInsuffisanteError) Error() string {
	return fmt.Sprintf("capacité insuffisante: %s offerte pour %s demandée",
		e.CapaciteTotale.String(), e.Demandee.String())
}

func (e *CapaciteInsuffisanteError) Is(target error) bool { return target == ErrCapaciteInsuffisante }
