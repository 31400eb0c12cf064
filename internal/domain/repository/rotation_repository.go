package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/msylla/tonnage-api/internal/domain/entity"
)

// FiltresRotation filtres de listing des rotations.
type FiltresRotation struct {
	DispatchID           string
	MagasinDestinationID string
	Statut               string
	Statuts              []string
	Date                 *time.Time // jour d'arrivée
	DateDebut            *time.Time
	DateFin              *time.Time
	AvecEcartSeulement   bool
}

// RotationDetail rotation enrichie des libellés joints.
type RotationDetail struct {
	Rotation              entity.Rotation
	ChauffeurNom          string
	NumeroCamion          string
	NumeroDispatch        string
	ProduitNom            string
	ProduitReference      string
	MagasinSourceNom      string
	MagasinDestinationNom string
	ReceptionnaireNom     string
}

// StatsChauffeur écarts cumulés par chauffeur sur les rotations livrées.
type StatsChauffeur struct {
	ChauffeurID  string
	ChauffeurNom string
	NombreEcarts int
	TotalEcart   decimal.Decimal
	EcartMoyen   decimal.Decimal
}

// RotationRepository port de persistance des rotations.
type RotationRepository interface {
	Create(ctx context.Context, r *entity.Rotation) error
	GetByID(ctx context.Context, id string) (*entity.Rotation, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Rotation, error)
	Update(ctx context.Context, r *entity.Rotation) error
	ListByDispatch(ctx context.Context, dispatchID string) ([]*entity.Rotation, error)
	List(ctx context.Context, f FiltresRotation) ([]*RotationDetail, error)
	// SommeAllouee retourne la somme des quantités prévues des rotations non annulées.
	SommeAllouee(ctx context.Context, dispatchID string) (decimal.Decimal, error)
	// ProchainNumero retourne le prochain numéro séquentiel de rotation du dispatch.
	ProchainNumero(ctx context.Context, dispatchID string) (int, error)
	// CountActives compte les rotations encore en cours (planifie ou en_transit).
	CountActives(ctx context.Context, dispatchID string) (int, error)
	StatsParChauffeur(ctx context.Context, f FiltresRotation) ([]*StatsChauffeur, error)
}
