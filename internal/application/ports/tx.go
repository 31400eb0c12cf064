// Package ports définit les contrats transactionnels partagés par les cas d'usage.
package ports

import (
	"context"

	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// Repos regroupe les repositories liés à une même transaction.
type Repos struct {
	Dispatches repository.DispatchRepository
	Rotations  repository.RotationRepository
	Stocks     repository.StockRepository
	Mouvements repository.MouvementStockRepository
	Livraisons repository.LivraisonRepository
}

// TxRunner exécute fn dans une transaction de base de données, avec des repositories
// attachés à cette transaction. Commit si fn retourne nil, rollback sinon.
// Chaque opération mutante du moteur s'exécute dans exactement un Run, court:
// aucun verrou n'est tenu pendant le transit physique d'un camion.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
