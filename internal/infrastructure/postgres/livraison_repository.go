package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

var _ repository.LivraisonRepository = (*LivraisonRepo)(nil)

// LivraisonRepo implémentation de LivraisonRepository sur PostgreSQL (pool ou tx).
type LivraisonRepo struct {
	q Querier
}

// NewLivraisonRepository construit l'adaptateur. Passer un pool ou une tx (Querier).
func NewLivraisonRepository(q Querier) *LivraisonRepo {
	return &LivraisonRepo{q: q}
}

// Create persiste une livraison déclarée.
func (r *LivraisonRepo) Create(ctx context.Context, l *entity.Livraison) error {
	query := `
		INSERT INTO livraisons (id, produit_id, magasin_id, client_id, quantite,
			date_livraison, transporteur, numero_camion, chauffeur, statut, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.ProduitID, l.MagasinID, l.ClientID, l.Quantite,
		l.DateLivraison, l.Transporteur, l.NumeroCamion, l.Chauffeur, l.Statut, l.CreatedBy, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert livraison: %w", err)
	}
	return nil
}

// GetByID retourne une livraison par identifiant.
func (r *LivraisonRepo) GetByID(ctx context.Context, id string) (*entity.Livraison, error) {
	query := `
		SELECT id, produit_id, magasin_id, client_id, quantite, date_livraison,
		       transporteur, numero_camion, chauffeur, statut, created_by, created_at
		FROM livraisons WHERE id = $1`
	var l entity.Livraison
	err := r.q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.ProduitID, &l.MagasinID, &l.ClientID, &l.Quantite, &l.DateLivraison,
		&l.Transporteur, &l.NumeroCamion, &l.Chauffeur, &l.Statut, &l.CreatedBy, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get livraison: %w", err)
	}
	return &l, nil
}

// List retourne les livraisons filtrées, enrichies des libellés joints.
func (r *LivraisonRepo) List(ctx context.Context, f repository.FiltresLivraison) ([]*repository.LivraisonDetail, error) {
	builder := sq.Select(
		"l.id", "l.produit_id", "l.magasin_id", "l.client_id", "l.quantite", "l.date_livraison",
		"l.transporteur", "l.numero_camion", "l.chauffeur", "l.statut", "l.created_by", "l.created_at",
		"p.nom", "p.reference", "COALESCE(m.nom, '')", "COALESCE(c.nom, '')",
	).
		From("livraisons l").
		Join("produits p ON p.id = l.produit_id").
		LeftJoin("magasins m ON m.id = l.magasin_id").
		LeftJoin("clients c ON c.id = l.client_id").
		OrderBy("l.date_livraison DESC").
		PlaceholderFormat(sq.Dollar)

	if f.MagasinID != "" {
		builder = builder.Where(sq.Eq{"l.magasin_id": f.MagasinID})
	}
	if f.Statut != "" {
		builder = builder.Where(sq.Eq{"l.statut": f.Statut})
	}
	if f.Transporteur != "" {
		builder = builder.Where(sq.Expr("l.transporteur ILIKE ?", f.Transporteur))
	}
	if f.Date != nil {
		builder = builder.Where(sq.Expr("date_trunc('day', l.date_livraison) = date_trunc('day', ?::timestamptz)", *f.Date))
	}
	if f.DateDebut != nil {
		builder = builder.Where(sq.GtOrEq{"l.date_livraison": *f.DateDebut})
	}
	if f.DateFin != nil {
		builder = builder.Where(sq.LtOrEq{"l.date_livraison": *f.DateFin})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list livraisons: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list livraisons: %w", err)
	}
	defer rows.Close()

	var details []*repository.LivraisonDetail
	for rows.Next() {
		var det repository.LivraisonDetail
		err := rows.Scan(
			&det.Livraison.ID, &det.Livraison.ProduitID, &det.Livraison.MagasinID, &det.Livraison.ClientID,
			&det.Livraison.Quantite, &det.Livraison.DateLivraison, &det.Livraison.Transporteur,
			&det.Livraison.NumeroCamion, &det.Livraison.Chauffeur, &det.Livraison.Statut,
			&det.Livraison.CreatedBy, &det.Livraison.CreatedAt,
			&det.ProduitNom, &det.ProduitRef, &det.MagasinNom, &det.ClientNom,
		)
		if err != nil {
			return nil, fmt.Errorf("scan livraison detail: %w", err)
		}
		details = append(details, &det)
	}
	return details, rows.Err()
}

// ListPeriode retourne les livraisons brutes non annulées d'une période, par date
// croissante, pour le rapprochement.
func (r *LivraisonRepo) ListPeriode(ctx context.Context, debut, fin *time.Time, magasinID string) ([]*entity.Livraison, error) {
	builder := sq.Select(
		"id", "produit_id", "magasin_id", "client_id", "quantite", "date_livraison",
		"transporteur", "numero_camion", "chauffeur", "statut", "created_by", "created_at",
	).
		From("livraisons").
		Where(sq.NotEq{"statut": entity.LivraisonAnnulee}).
		OrderBy("date_livraison").
		PlaceholderFormat(sq.Dollar)

	if magasinID != "" {
		builder = builder.Where(sq.Eq{"magasin_id": magasinID})
	}
	if debut != nil {
		builder = builder.Where(sq.GtOrEq{"date_livraison": *debut})
	}
	if fin != nil {
		builder = builder.Where(sq.LtOrEq{"date_livraison": *fin})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list période: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list période: %w", err)
	}
	defer rows.Close()

	var livraisons []*entity.Livraison
	for rows.Next() {
		var l entity.Livraison
		err := rows.Scan(
			&l.ID, &l.ProduitID, &l.MagasinID, &l.ClientID, &l.Quantite, &l.DateLivraison,
			&l.Transporteur, &l.NumeroCamion, &l.Chauffeur, &l.Statut, &l.CreatedBy, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan livraison: %w", err)
		}
		livraisons = append(livraisons, &l)
	}
	return livraisons, rows.Err()
}
