package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

var _ repository.RotationRepository = (*RotationRepo)(nil)

// RotationRepo implémentation de RotationRepository sur PostgreSQL (pool ou tx).
type RotationRepo struct {
	q Querier
}

// NewRotationRepository construit l'adaptateur. Passer un pool ou une tx (Querier).
func NewRotationRepository(q Querier) *RotationRepo {
	return &RotationRepo{q: q}
}

const colonnesRotation = `
	r.id, r.dispatch_id, r.numero_rotation, r.chauffeur_id, r.capacite_camion,
	r.quantite_prevue, r.quantite_livree, r.ecart, r.statut, r.observations,
	r.reception_par, r.date_depart, r.date_arrivee, r.created_at, r.updated_at`

// Create persiste une rotation. L'unicité de (dispatch, numéro) est garantie en base.
func (r *RotationRepo) Create(ctx context.Context, rot *entity.Rotation) error {
	query := `
		INSERT INTO rotations (id, dispatch_id, numero_rotation, chauffeur_id, capacite_camion,
			quantite_prevue, quantite_livree, ecart, statut, observations, reception_par,
			date_depart, date_arrivee, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		rot.ID, rot.DispatchID, rot.NumeroRotation, rot.ChauffeurID, rot.CapaciteCamion,
		rot.QuantitePrevue, rot.QuantiteLivree, rot.Ecart, rot.Statut, rot.Observations,
		rot.ReceptionPar, rot.DateDepart, rot.DateArrivee, rot.CreatedAt, rot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert rotation: %w", err)
	}
	return nil
}

// GetByID retourne une rotation par identifiant.
func (r *RotationRepo) GetByID(ctx context.Context, id string) (*entity.Rotation, error) {
	query := `SELECT` + colonnesRotation + ` FROM rotations r WHERE r.id = $1`
	return r.scanRotation(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate retourne la rotation et verrouille sa ligne pour la transition d'état.
func (r *RotationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Rotation, error) {
	query := `SELECT` + colonnesRotation + ` FROM rotations r WHERE r.id = $1 FOR UPDATE`
	return r.scanRotation(r.q.QueryRow(ctx, query, id))
}

func (r *RotationRepo) scanRotation(row pgx.Row) (*entity.Rotation, error) {
	var rot entity.Rotation
	err := row.Scan(
		&rot.ID, &rot.DispatchID, &rot.NumeroRotation, &rot.ChauffeurID, &rot.CapaciteCamion,
		&rot.QuantitePrevue, &rot.QuantiteLivree, &rot.Ecart, &rot.Statut, &rot.Observations,
		&rot.ReceptionPar, &rot.DateDepart, &rot.DateArrivee, &rot.CreatedAt, &rot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get rotation: %w", err)
	}
	return &rot, nil
}

// Update réécrit la rotation (transition d'état, quantités figées à la réception).
func (r *RotationRepo) Update(ctx context.Context, rot *entity.Rotation) error {
	query := `
		UPDATE rotations
		SET statut = $1, quantite_livree = $2, ecart = $3, observations = $4,
		    reception_par = $5, date_depart = $6, date_arrivee = $7, updated_at = $8
		WHERE id = $9`
	tag, err := r.q.Exec(ctx, query,
		rot.Statut, rot.QuantiteLivree, rot.Ecart, rot.Observations,
		rot.ReceptionPar, rot.DateDepart, rot.DateArrivee, rot.UpdatedAt, rot.ID,
	)
	if err != nil {
		return fmt.Errorf("update rotation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByDispatch retourne les rotations d'un dispatch, par numéro croissant.
func (r *RotationRepo) ListByDispatch(ctx context.Context, dispatchID string) ([]*entity.Rotation, error) {
	query := `SELECT` + colonnesRotation + ` FROM rotations r WHERE r.dispatch_id = $1 ORDER BY r.numero_rotation`
	rows, err := r.q.Query(ctx, query, dispatchID)
	if err != nil {
		return nil, fmt.Errorf("list rotations by dispatch: %w", err)
	}
	defer rows.Close()

	var rotations []*entity.Rotation
	for rows.Next() {
		rot, err := r.scanRotation(rows)
		if err != nil {
			return nil, err
		}
		rotations = append(rotations, rot)
	}
	return rotations, rows.Err()
}

func (r *RotationRepo) builderDetail() sq.SelectBuilder {
	return sq.Select(
		"r.id", "r.dispatch_id", "r.numero_rotation", "r.chauffeur_id", "r.capacite_camion",
		"r.quantite_prevue", "r.quantite_livree", "r.ecart", "r.statut", "r.observations",
		"r.reception_par", "r.date_depart", "r.date_arrivee", "r.created_at", "r.updated_at",
		"ch.nom", "ch.numero_camion", "d.numero_dispatch", "p.nom", "p.reference",
		"ms.nom", "COALESCE(md.nom, '')", "COALESCE(u.nom || ' ' || u.prenom, '')",
	).
		From("rotations r").
		Join("chauffeurs ch ON ch.id = r.chauffeur_id").
		Join("dispatches d ON d.id = r.dispatch_id").
		Join("produits p ON p.id = d.produit_id").
		Join("magasins ms ON ms.id = d.magasin_source_id").
		LeftJoin("magasins md ON md.id = d.magasin_destination_id").
		LeftJoin("utilisateurs u ON u.id::text = r.reception_par").
		PlaceholderFormat(sq.Dollar)
}

// List retourne les rotations filtrées, enrichies des libellés joints.
func (r *RotationRepo) List(ctx context.Context, f repository.FiltresRotation) ([]*repository.RotationDetail, error) {
	builder := r.builderDetail().OrderBy("d.numero_dispatch", "r.numero_rotation")
	if f.DispatchID != "" {
		builder = builder.Where(sq.Eq{"r.dispatch_id": f.DispatchID})
	}
	if f.MagasinDestinationID != "" {
		builder = builder.Where(sq.Eq{"d.magasin_destination_id": f.MagasinDestinationID})
	}
	if f.Statut != "" {
		builder = builder.Where(sq.Eq{"r.statut": f.Statut})
	}
	if len(f.Statuts) > 0 {
		builder = builder.Where(sq.Eq{"r.statut": f.Statuts})
	}
	if f.AvecEcartSeulement {
		builder = builder.Where("r.ecart IS NOT NULL AND r.ecart <> 0")
	}
	if f.Date != nil {
		builder = builder.Where(sq.Expr("date_trunc('day', r.date_arrivee) = date_trunc('day', ?::timestamptz)", *f.Date))
	}
	if f.DateDebut != nil {
		builder = builder.Where(sq.GtOrEq{"r.date_arrivee": *f.DateDebut})
	}
	if f.DateFin != nil {
		builder = builder.Where(sq.LtOrEq{"r.date_arrivee": *f.DateFin})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list rotations: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rotations: %w", err)
	}
	defer rows.Close()

	var details []*repository.RotationDetail
	for rows.Next() {
		var det repository.RotationDetail
		err := rows.Scan(
			&det.Rotation.ID, &det.Rotation.DispatchID, &det.Rotation.NumeroRotation,
			&det.Rotation.ChauffeurID, &det.Rotation.CapaciteCamion, &det.Rotation.QuantitePrevue,
			&det.Rotation.QuantiteLivree, &det.Rotation.Ecart, &det.Rotation.Statut,
			&det.Rotation.Observations, &det.Rotation.ReceptionPar, &det.Rotation.DateDepart,
			&det.Rotation.DateArrivee, &det.Rotation.CreatedAt, &det.Rotation.UpdatedAt,
			&det.ChauffeurNom, &det.NumeroCamion, &det.NumeroDispatch, &det.ProduitNom,
			&det.ProduitReference, &det.MagasinSourceNom, &det.MagasinDestinationNom, &det.ReceptionnaireNom,
		)
		if err != nil {
			return nil, fmt.Errorf("scan rotation detail: %w", err)
		}
		details = append(details, &det)
	}
	return details, rows.Err()
}

// SommeAllouee retourne la somme des quantités prévues des rotations non annulées.
func (r *RotationRepo) SommeAllouee(ctx context.Context, dispatchID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantite_prevue), 0)
		FROM rotations WHERE dispatch_id = $1 AND statut <> 'annule'`
	var somme decimal.Decimal
	if err := r.q.QueryRow(ctx, query, dispatchID).Scan(&somme); err != nil {
		return decimal.Zero, fmt.Errorf("somme allouée: %w", err)
	}
	return somme, nil
}

// ProchainNumero retourne le prochain numéro séquentiel du dispatch.
// À appeler avec le dispatch verrouillé pour que deux ajouts concurrents ne
// tirent pas le même numéro.
func (r *RotationRepo) ProchainNumero(ctx context.Context, dispatchID string) (int, error) {
	query := `SELECT COALESCE(MAX(numero_rotation), 0) + 1 FROM rotations WHERE dispatch_id = $1`
	var numero int
	if err := r.q.QueryRow(ctx, query, dispatchID).Scan(&numero); err != nil {
		return 0, fmt.Errorf("prochain numéro: %w", err)
	}
	return numero, nil
}

// CountActives compte les rotations encore en cours (planifie ou en_transit).
func (r *RotationRepo) CountActives(ctx context.Context, dispatchID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM rotations
		WHERE dispatch_id = $1 AND statut IN ('planifie', 'en_transit')`
	var n int
	if err := r.q.QueryRow(ctx, query, dispatchID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rotations actives: %w", err)
	}
	return n, nil
}

// StatsParChauffeur agrège les écarts non nuls des rotations livrées, par chauffeur.
func (r *RotationRepo) StatsParChauffeur(ctx context.Context, f repository.FiltresRotation) ([]*repository.StatsChauffeur, error) {
	builder := sq.Select(
		"r.chauffeur_id", "ch.nom", "COUNT(*)", "SUM(r.ecart)", "ROUND(AVG(r.ecart), 2)",
	).
		From("rotations r").
		Join("chauffeurs ch ON ch.id = r.chauffeur_id").
		Join("dispatches d ON d.id = r.dispatch_id").
		Where(sq.Eq{"r.statut": entity.RotationLivre}).
		Where("r.ecart IS NOT NULL AND r.ecart <> 0").
		GroupBy("r.chauffeur_id", "ch.nom").
		OrderBy("SUM(r.ecart) DESC").
		PlaceholderFormat(sq.Dollar)

	if f.MagasinDestinationID != "" {
		builder = builder.Where(sq.Eq{"d.magasin_destination_id": f.MagasinDestinationID})
	}
	if f.DateDebut != nil {
		builder = builder.Where(sq.GtOrEq{"r.date_arrivee": *f.DateDebut})
	}
	if f.DateFin != nil {
		builder = builder.Where(sq.LtOrEq{"r.date_arrivee": *f.DateFin})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stats chauffeurs: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stats chauffeurs: %w", err)
	}
	defer rows.Close()

	var stats []*repository.StatsChauffeur
	for rows.Next() {
		var s repository.StatsChauffeur
		if err := rows.Scan(&s.ChauffeurID, &s.ChauffeurNom, &s.NombreEcarts, &s.TotalEcart, &s.EcartMoyen); err != nil {
			return nil, fmt.Errorf("scan stats chauffeur: %w", err)
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}
