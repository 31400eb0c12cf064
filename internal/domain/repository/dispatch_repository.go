package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/msylla/tonnage-api/internal/domain/entity"
)

// FiltresDispatch filtres de listing des dispatches.
type FiltresDispatch struct {
	MagasinID string // source ou destination
	Statut    string
	DateDebut *time.Time
	DateFin   *time.Time
}

// DispatchDetail dispatch enrichi des libellés joints pour les listings.
type DispatchDetail struct {
	Dispatch              entity.Dispatch
	ProduitNom            string
	ProduitReference      string
	Unite                 string
	MagasinSourceNom      string
	MagasinDestinationNom string
	ClientNom             string
	CreatedByNom          string
}

// ProgressionDispatch état d'avancement de l'allocation d'un dispatch.
type ProgressionDispatch struct {
	DispatchDetail
	QuantiteAllouee decimal.Decimal
	ResteAAllouer   decimal.Decimal
	Progression     decimal.Decimal // pourcentage alloué
	NombreRotations int
}

// AggregatDispatchJour quantité dispatchée agrégée par (jour, magasin destination, produit),
// matière première du rapport des écarts.
type AggregatDispatchJour struct {
	Jour             time.Time
	MagasinID        string
	MagasinNom       string
	ProduitID        string
	ProduitNom       string
	ProduitReference string
	Quantite         decimal.Decimal
}

// FiltresRapport bornes du rapport des écarts.
type FiltresRapport struct {
	DateDebut *time.Time
	DateFin   *time.Time
	MagasinID string
	ProduitID string
}

// DispatchRepository port de persistance des dispatches.
type DispatchRepository interface {
	Create(ctx context.Context, d *entity.Dispatch) error
	GetByID(ctx context.Context, id string) (*entity.Dispatch, error)
	// GetForUpdate verrouille la ligne du dispatch; à utiliser pour tout contrôle
	// de quota ou de transition concurrent.
	GetForUpdate(ctx context.Context, id string) (*entity.Dispatch, error)
	GetDetail(ctx context.Context, id string) (*DispatchDetail, error)
	List(ctx context.Context, f FiltresDispatch) ([]*DispatchDetail, error)
	ListProgression(ctx context.Context, magasinID string) ([]*ProgressionDispatch, error)
	UpdateStatut(ctx context.Context, id, statut string) error
	// SommesDispatcheesParJour agrège les quantités des dispatches non annulés
	// par jour/magasin destination/produit pour le rapport des écarts.
	SommesDispatcheesParJour(ctx context.Context, f FiltresRapport) ([]*AggregatDispatchJour, error)
}
