package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

var _ repository.MouvementStockRepository = (*MouvementRepo)(nil)

// MouvementRepo implémentation de MouvementStockRepository sur PostgreSQL (pool ou tx).
// Les mouvements sont un journal en append seul: jamais d'UPDATE ni de DELETE.
type MouvementRepo struct {
	q Querier
}

// NewMouvementRepository construit l'adaptateur. Passer un pool ou une tx (Querier).
func NewMouvementRepository(q Querier) *MouvementRepo {
	return &MouvementRepo{q: q}
}

// Create persiste un mouvement.
func (r *MouvementRepo) Create(ctx context.Context, m *entity.MouvementStock) error {
	query := `
		INSERT INTO mouvements_stock (id, type, produit_id, magasin_id, quantite,
			date_mouvement, reference_document, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Type, m.ProduitID, m.MagasinID, m.Quantite,
		m.DateMouvement, m.ReferenceDocument, m.Description, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert mouvement: %w", err)
	}
	return nil
}

func filtresMouvement(builder sq.SelectBuilder, f repository.FiltresMouvement) sq.SelectBuilder {
	if f.Type != "" {
		builder = builder.Where(sq.Eq{"mv.type": f.Type})
	}
	if f.ProduitID != "" {
		builder = builder.Where(sq.Eq{"mv.produit_id": f.ProduitID})
	}
	if f.MagasinID != "" {
		builder = builder.Where(sq.Eq{"mv.magasin_id": f.MagasinID})
	}
	if f.DateDebut != nil {
		builder = builder.Where(sq.GtOrEq{"mv.date_mouvement": *f.DateDebut})
	}
	if f.DateFin != nil {
		builder = builder.Where(sq.LtOrEq{"mv.date_mouvement": *f.DateFin})
	}
	return builder
}

// List retourne les mouvements filtrés, du plus récent au plus ancien.
func (r *MouvementRepo) List(ctx context.Context, f repository.FiltresMouvement) ([]*repository.MouvementDetail, error) {
	builder := sq.Select(
		"mv.id", "mv.type", "mv.produit_id", "mv.magasin_id", "mv.quantite",
		"mv.date_mouvement", "mv.reference_document", "mv.description", "mv.created_by", "mv.created_at",
		"p.nom", "p.reference", "m.nom",
	).
		From("mouvements_stock mv").
		Join("produits p ON p.id = mv.produit_id").
		Join("magasins m ON m.id = mv.magasin_id").
		OrderBy("mv.date_mouvement DESC").
		PlaceholderFormat(sq.Dollar)
	builder = filtresMouvement(builder, f)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list mouvements: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mouvements: %w", err)
	}
	defer rows.Close()

	var details []*repository.MouvementDetail
	for rows.Next() {
		var det repository.MouvementDetail
		err := rows.Scan(
			&det.Mouvement.ID, &det.Mouvement.Type, &det.Mouvement.ProduitID, &det.Mouvement.MagasinID,
			&det.Mouvement.Quantite, &det.Mouvement.DateMouvement, &det.Mouvement.ReferenceDocument,
			&det.Mouvement.Description, &det.Mouvement.CreatedBy, &det.Mouvement.CreatedAt,
			&det.ProduitNom, &det.ProduitRef, &det.MagasinNom,
		)
		if err != nil {
			return nil, fmt.Errorf("scan mouvement detail: %w", err)
		}
		details = append(details, &det)
	}
	return details, rows.Err()
}

// ListEntrees retourne les mouvements d'entrée bruts d'une période, par date croissante;
// matière du rapprochement livraisons / entrées.
func (r *MouvementRepo) ListEntrees(ctx context.Context, f repository.FiltresMouvement) ([]*entity.MouvementStock, error) {
	builder := sq.Select(
		"mv.id", "mv.type", "mv.produit_id", "mv.magasin_id", "mv.quantite",
		"mv.date_mouvement", "mv.reference_document", "mv.description", "mv.created_by", "mv.created_at",
	).
		From("mouvements_stock mv").
		Where(sq.Eq{"mv.type": entity.MouvementEntree}).
		OrderBy("mv.date_mouvement").
		PlaceholderFormat(sq.Dollar)
	f.Type = ""
	builder = filtresMouvement(builder, f)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list entrées: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entrées: %w", err)
	}
	defer rows.Close()

	var entrees []*entity.MouvementStock
	for rows.Next() {
		var m entity.MouvementStock
		err := rows.Scan(
			&m.ID, &m.Type, &m.ProduitID, &m.MagasinID, &m.Quantite,
			&m.DateMouvement, &m.ReferenceDocument, &m.Description, &m.CreatedBy, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entrée: %w", err)
		}
		entrees = append(entrees, &m)
	}
	return entrees, rows.Err()
}

// SommesParJour agrège les quantités d'un type de mouvement par (jour, magasin, produit).
func (r *MouvementRepo) SommesParJour(ctx context.Context, typ string, f repository.FiltresRapport) ([]*repository.AggregatMouvementJour, error) {
	builder := sq.Select(
		"date_trunc('day', mv.date_mouvement) AS jour",
		"mv.magasin_id", "m.nom", "mv.produit_id", "p.nom", "p.reference",
		"SUM(mv.quantite)",
	).
		From("mouvements_stock mv").
		Join("magasins m ON m.id = mv.magasin_id").
		Join("produits p ON p.id = mv.produit_id").
		Where(sq.Eq{"mv.type": typ}).
		GroupBy("jour", "mv.magasin_id", "m.nom", "mv.produit_id", "p.nom", "p.reference").
		OrderBy("jour DESC").
		PlaceholderFormat(sq.Dollar)

	if f.MagasinID != "" {
		builder = builder.Where(sq.Eq{"mv.magasin_id": f.MagasinID})
	}
	if f.ProduitID != "" {
		builder = builder.Where(sq.Eq{"mv.produit_id": f.ProduitID})
	}
	if f.DateDebut != nil {
		builder = builder.Where(sq.GtOrEq{"mv.date_mouvement": *f.DateDebut})
	}
	if f.DateFin != nil {
		builder = builder.Where(sq.LtOrEq{"mv.date_mouvement": *f.DateFin})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sommes mouvements: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sommes mouvements: %w", err)
	}
	defer rows.Close()

	var aggregats []*repository.AggregatMouvementJour
	for rows.Next() {
		var a repository.AggregatMouvementJour
		if err := rows.Scan(&a.Jour, &a.MagasinID, &a.MagasinNom, &a.ProduitID, &a.ProduitNom, &a.ProduitReference, &a.Quantite); err != nil {
			return nil, fmt.Errorf("scan aggregat mouvement: %w", err)
		}
		aggregats = append(aggregats, &a)
	}
	return aggregats, rows.Err()
}
