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

var _ repository.DispatchRepository = (*DispatchRepo)(nil)

// DispatchRepo implémentation de DispatchRepository sur PostgreSQL (pool ou tx).
type DispatchRepo struct {
	q Querier
}

// NewDispatchRepository construit l'adaptateur. Passer un pool ou une tx (Querier).
func NewDispatchRepository(q Querier) *DispatchRepo {
	return &DispatchRepo{q: q}
}

const colonnesDispatch = `
	d.id, d.numero_dispatch, d.produit_id, d.magasin_source_id, d.magasin_destination_id,
	d.client_id, d.quantite_totale, d.statut, d.notes, d.created_by, d.date_creation, d.updated_at`

// Create persiste un dispatch. Retourne ErrDuplicate si le numéro existe déjà.
func (r *DispatchRepo) Create(ctx context.Context, d *entity.Dispatch) error {
	query := `
		INSERT INTO dispatches (id, numero_dispatch, produit_id, magasin_source_id,
			magasin_destination_id, client_id, quantite_totale, statut, notes,
			created_by, date_creation, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.NumeroDispatch, d.ProduitID, d.MagasinSourceID, d.MagasinDestinationID,
		d.ClientID, d.QuantiteTotale, d.Statut, d.Notes, d.CreatedBy, d.DateCreation, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert dispatch: %w", err)
	}
	return nil
}

// GetByID retourne un dispatch par identifiant.
func (r *DispatchRepo) GetByID(ctx context.Context, id string) (*entity.Dispatch, error) {
	query := `SELECT` + colonnesDispatch + ` FROM dispatches d WHERE d.id = $1`
	return r.scanDispatch(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate retourne le dispatch et verrouille sa ligne.
func (r *DispatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Dispatch, error) {
	query := `SELECT` + colonnesDispatch + ` FROM dispatches d WHERE d.id = $1 FOR UPDATE`
	return r.scanDispatch(r.q.QueryRow(ctx, query, id))
}

func (r *DispatchRepo) scanDispatch(row pgx.Row) (*entity.Dispatch, error) {
	var d entity.Dispatch
	err := row.Scan(
		&d.ID, &d.NumeroDispatch, &d.ProduitID, &d.MagasinSourceID, &d.MagasinDestinationID,
		&d.ClientID, &d.QuantiteTotale, &d.Statut, &d.Notes, &d.CreatedBy, &d.DateCreation, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get dispatch: %w", err)
	}
	return &d, nil
}

func (r *DispatchRepo) builderDetail() sq.SelectBuilder {
	return sq.Select(
		"d.id", "d.numero_dispatch", "d.produit_id", "d.magasin_source_id", "d.magasin_destination_id",
		"d.client_id", "d.quantite_totale", "d.statut", "d.notes", "d.created_by", "d.date_creation", "d.updated_at",
		"p.nom", "p.reference", "p.unite", "ms.nom",
		"COALESCE(md.nom, '')", "COALESCE(c.nom, '')", "COALESCE(u.nom || ' ' || u.prenom, '')",
	).
		From("dispatches d").
		Join("produits p ON p.id = d.produit_id").
		Join("magasins ms ON ms.id = d.magasin_source_id").
		LeftJoin("magasins md ON md.id = d.magasin_destination_id").
		LeftJoin("clients c ON c.id = d.client_id").
		LeftJoin("utilisateurs u ON u.id::text = d.created_by").
		PlaceholderFormat(sq.Dollar)
}

func scanDispatchDetail(rows pgx.Rows) (*repository.DispatchDetail, error) {
	var det repository.DispatchDetail
	err := rows.Scan(
		&det.Dispatch.ID, &det.Dispatch.NumeroDispatch, &det.Dispatch.ProduitID,
		&det.Dispatch.MagasinSourceID, &det.Dispatch.MagasinDestinationID, &det.Dispatch.ClientID,
		&det.Dispatch.QuantiteTotale, &det.Dispatch.Statut, &det.Dispatch.Notes,
		&det.Dispatch.CreatedBy, &det.Dispatch.DateCreation, &det.Dispatch.UpdatedAt,
		&det.ProduitNom, &det.ProduitReference, &det.Unite, &det.MagasinSourceNom,
		&det.MagasinDestinationNom, &det.ClientNom, &det.CreatedByNom,
	)
	if err != nil {
		return nil, fmt.Errorf("scan dispatch detail: %w", err)
	}
	return &det, nil
}

// GetDetail retourne un dispatch enrichi des libellés joints.
func (r *DispatchRepo) GetDetail(ctx context.Context, id string) (*repository.DispatchDetail, error) {
	query, args, err := r.builderDetail().Where(sq.Eq{"d.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get dispatch detail: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get dispatch detail: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, domain.ErrNotFound
	}
	det, err := scanDispatchDetail(rows)
	if err != nil {
		return nil, err
	}
	return det, rows.Err()
}

// List retourne les dispatches filtrés, du plus récent au plus ancien.
func (r *DispatchRepo) List(ctx context.Context, f repository.FiltresDispatch) ([]*repository.DispatchDetail, error) {
	builder := r.builderDetail().OrderBy("d.date_creation DESC")
	if f.Statut != "" {
		builder = builder.Where(sq.Eq{"d.statut": f.Statut})
	}
	if f.MagasinID != "" {
		builder = builder.Where(sq.Or{
			sq.Eq{"d.magasin_source_id": f.MagasinID},
			sq.Eq{"d.magasin_destination_id": f.MagasinID},
		})
	}
	if f.DateDebut != nil {
		builder = builder.Where(sq.GtOrEq{"d.date_creation": *f.DateDebut})
	}
	if f.DateFin != nil {
		builder = builder.Where(sq.LtOrEq{"d.date_creation": *f.DateFin})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list dispatches: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list dispatches: %w", err)
	}
	defer rows.Close()

	var details []*repository.DispatchDetail
	for rows.Next() {
		det, err := scanDispatchDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, det)
	}
	return details, rows.Err()
}

// ListProgression retourne l'avancement d'allocation des dispatches non annulés,
// calculé sur les rotations non annulées.
func (r *DispatchRepo) ListProgression(ctx context.Context, magasinID string) ([]*repository.ProgressionDispatch, error) {
	builder := sq.Select(
		"d.id", "d.numero_dispatch", "d.produit_id", "d.magasin_source_id", "d.magasin_destination_id",
		"d.client_id", "d.quantite_totale", "d.statut", "d.notes", "d.created_by", "d.date_creation", "d.updated_at",
		"p.nom", "p.reference", "p.unite", "ms.nom",
		"COALESCE(md.nom, '')", "COALESCE(c.nom, '')",
		"COALESCE(SUM(r.quantite_prevue) FILTER (WHERE r.statut <> 'annule'), 0) AS allouee",
		"COUNT(r.id) FILTER (WHERE r.statut <> 'annule') AS nb_rotations",
	).
		From("dispatches d").
		Join("produits p ON p.id = d.produit_id").
		Join("magasins ms ON ms.id = d.magasin_source_id").
		LeftJoin("magasins md ON md.id = d.magasin_destination_id").
		LeftJoin("clients c ON c.id = d.client_id").
		LeftJoin("rotations r ON r.dispatch_id = d.id").
		Where(sq.NotEq{"d.statut": entity.DispatchAnnule}).
		GroupBy("d.id", "p.nom", "p.reference", "p.unite", "ms.nom", "md.nom", "c.nom").
		OrderBy("d.date_creation DESC").
		PlaceholderFormat(sq.Dollar)

	if magasinID != "" {
		builder = builder.Where(sq.Or{
			sq.Eq{"d.magasin_source_id": magasinID},
			sq.Eq{"d.magasin_destination_id": magasinID},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list progression: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list progression: %w", err)
	}
	defer rows.Close()

	cent := decimal.NewFromInt(100)
	var progressions []*repository.ProgressionDispatch
	for rows.Next() {
		var p repository.ProgressionDispatch
		err := rows.Scan(
			&p.Dispatch.ID, &p.Dispatch.NumeroDispatch, &p.Dispatch.ProduitID,
			&p.Dispatch.MagasinSourceID, &p.Dispatch.MagasinDestinationID, &p.Dispatch.ClientID,
			&p.Dispatch.QuantiteTotale, &p.Dispatch.Statut, &p.Dispatch.Notes,
			&p.Dispatch.CreatedBy, &p.Dispatch.DateCreation, &p.Dispatch.UpdatedAt,
			&p.ProduitNom, &p.ProduitReference, &p.Unite, &p.MagasinSourceNom,
			&p.MagasinDestinationNom, &p.ClientNom,
			&p.QuantiteAllouee, &p.NombreRotations,
		)
		if err != nil {
			return nil, fmt.Errorf("scan progression: %w", err)
		}
		p.ResteAAllouer = p.Dispatch.QuantiteTotale.Sub(p.QuantiteAllouee)
		if p.Dispatch.QuantiteTotale.GreaterThan(decimal.Zero) {
			p.Progression = p.QuantiteAllouee.Div(p.Dispatch.QuantiteTotale).Mul(cent).Round(2)
		}
		progressions = append(progressions, &p)
	}
	return progressions, rows.Err()
}

// UpdateStatut change le statut d'un dispatch.
func (r *DispatchRepo) UpdateStatut(ctx context.Context, id, statut string) error {
	tag, err := r.q.Exec(ctx, `UPDATE dispatches SET statut = $1, updated_at = now() WHERE id = $2`, statut, id)
	if err != nil {
		return fmt.Errorf("update statut dispatch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SommesDispatcheesParJour agrège les quantités des dispatches non annulés à
// destination d'un magasin, par (jour, magasin, produit).
func (r *DispatchRepo) SommesDispatcheesParJour(ctx context.Context, f repository.FiltresRapport) ([]*repository.AggregatDispatchJour, error) {
	builder := sq.Select(
		"date_trunc('day', d.date_creation) AS jour",
		"d.magasin_destination_id", "m.nom", "d.produit_id", "p.nom", "p.reference",
		"SUM(d.quantite_totale)",
	).
		From("dispatches d").
		Join("magasins m ON m.id = d.magasin_destination_id").
		Join("produits p ON p.id = d.produit_id").
		Where(sq.NotEq{"d.statut": entity.DispatchAnnule}).
		Where("d.magasin_destination_id IS NOT NULL").
		GroupBy("jour", "d.magasin_destination_id", "m.nom", "d.produit_id", "p.nom", "p.reference").
		OrderBy("jour DESC").
		PlaceholderFormat(sq.Dollar)

	if f.MagasinID != "" {
		builder = builder.Where(sq.Eq{"d.magasin_destination_id": f.MagasinID})
	}
	if f.ProduitID != "" {
		builder = builder.Where(sq.Eq{"d.produit_id": f.ProduitID})
	}
	if f.DateDebut != nil {
		builder = builder.Where(sq.GtOrEq{"d.date_creation": *f.DateDebut})
	}
	if f.DateFin != nil {
		builder = builder.Where(sq.LtOrEq{"d.date_creation": *f.DateFin})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sommes dispatchées: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sommes dispatchées: %w", err)
	}
	defer rows.Close()

	var aggregats []*repository.AggregatDispatchJour
	for rows.Next() {
		var a repository.AggregatDispatchJour
		if err := rows.Scan(&a.Jour, &a.MagasinID, &a.MagasinNom, &a.ProduitID, &a.ProduitNom, &a.ProduitReference, &a.Quantite); err != nil {
			return nil, fmt.Errorf("scan aggregat dispatch: %w", err)
		}
		aggregats = append(aggregats, &a)
	}
	return aggregats, rows.Err()
}
