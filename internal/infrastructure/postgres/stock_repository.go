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

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implémentation de StockRepository sur PostgreSQL (pool ou tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construit l'adaptateur de stock. Passer un pool ou une tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get retourne la ligne de stock d'un produit dans un magasin.
func (r *StockRepo) Get(ctx context.Context, produitID, magasinID string) (*entity.Stock, error) {
	query := `
		SELECT produit_id, magasin_id, quantite_disponible, quantite_reservee, updated_at
		FROM stocks WHERE produit_id = $1 AND magasin_id = $2`
	return r.scanStock(r.q.QueryRow(ctx, query, produitID, magasinID))
}

// GetForUpdate retourne la ligne et la verrouille (SELECT FOR UPDATE) pour la
// séquence lecture-contrôle-écriture du ledger.
func (r *StockRepo) GetForUpdate(ctx context.Context, produitID, magasinID string) (*entity.Stock, error) {
	query := `
		SELECT produit_id, magasin_id, quantite_disponible, quantite_reservee, updated_at
		FROM stocks WHERE produit_id = $1 AND magasin_id = $2
		FOR UPDATE`
	return r.scanStock(r.q.QueryRow(ctx, query, produitID, magasinID))
}

func (r *StockRepo) scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	err := row.Scan(&s.ProduitID, &s.MagasinID, &s.QuantiteDisponible, &s.QuantiteReservee, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert insère ou remplace la ligne (produit, magasin).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stocks (produit_id, magasin_id, quantite_disponible, quantite_reservee, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (produit_id, magasin_id)
		DO UPDATE SET quantite_disponible = EXCLUDED.quantite_disponible,
		              quantite_reservee  = EXCLUDED.quantite_reservee,
		              updated_at         = now()`
	_, err := r.q.Exec(ctx, query, stock.ProduitID, stock.MagasinID, stock.QuantiteDisponible, stock.QuantiteReservee)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// List retourne les lignes filtrées avec les libellés produit et magasin.
func (r *StockRepo) List(ctx context.Context, f repository.FiltresStock) ([]*repository.LigneStock, error) {
	builder := sq.Select(
		"s.produit_id", "s.magasin_id", "s.quantite_disponible", "s.quantite_reservee", "s.updated_at",
		"p.nom", "p.reference", "p.unite", "p.seuil_alerte", "m.nom",
	).
		From("stocks s").
		Join("produits p ON p.id = s.produit_id").
		Join("magasins m ON m.id = s.magasin_id").
		OrderBy("m.nom", "p.nom").
		PlaceholderFormat(sq.Dollar)

	if f.MagasinID != "" {
		builder = builder.Where(sq.Eq{"s.magasin_id": f.MagasinID})
	}
	if f.ProduitID != "" {
		builder = builder.Where(sq.Eq{"s.produit_id": f.ProduitID})
	}
	if f.SousSeuil {
		builder = builder.Where("s.quantite_disponible < p.seuil_alerte")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list stocks: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()

	var lignes []*repository.LigneStock
	for rows.Next() {
		var (
			l     repository.LigneStock
			seuil decimal.Decimal
		)
		if err := rows.Scan(
			&l.Stock.ProduitID, &l.Stock.MagasinID, &l.Stock.QuantiteDisponible,
			&l.Stock.QuantiteReservee, &l.Stock.UpdatedAt,
			&l.ProduitNom, &l.ProduitRef, &l.Unite, &seuil, &l.MagasinNom,
		); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		l.StockFaible = l.Stock.QuantiteDisponible.LessThan(seuil)
		lignes = append(lignes, &l)
	}
	return lignes, rows.Err()
}
