package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// Adaptateurs des référentiels (produits, magasins, clients, chauffeurs).
// Consultés en validation; leur CRUD complet est hors du périmètre de l'API.

var _ repository.ProduitRepository = (*ProduitRepo)(nil)

// ProduitRepo implémentation de ProduitRepository sur PostgreSQL.
type ProduitRepo struct {
	q Querier
}

// NewProduitRepository construit l'adaptateur.
func NewProduitRepository(q Querier) *ProduitRepo {
	return &ProduitRepo{q: q}
}

const colonnesProduit = `id, reference, nom, unite, seuil_alerte, created_at, updated_at`

func scanProduit(row pgx.Row) (*entity.Produit, error) {
	var p entity.Produit
	err := row.Scan(&p.ID, &p.Reference, &p.Nom, &p.Unite, &p.SeuilAlerte, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get produit: %w", err)
	}
	return &p, nil
}

func (r *ProduitRepo) GetByID(ctx context.Context, id string) (*entity.Produit, error) {
	return scanProduit(r.q.QueryRow(ctx, `SELECT `+colonnesProduit+` FROM produits WHERE id = $1`, id))
}

func (r *ProduitRepo) GetByReference(ctx context.Context, reference string) (*entity.Produit, error) {
	return scanProduit(r.q.QueryRow(ctx, `SELECT `+colonnesProduit+` FROM produits WHERE reference = $1`, reference))
}

func (r *ProduitRepo) List(ctx context.Context) ([]*entity.Produit, error) {
	rows, err := r.q.Query(ctx, `SELECT `+colonnesProduit+` FROM produits ORDER BY reference`)
	if err != nil {
		return nil, fmt.Errorf("list produits: %w", err)
	}
	defer rows.Close()

	var produits []*entity.Produit
	for rows.Next() {
		p, err := scanProduit(rows)
		if err != nil {
			return nil, err
		}
		produits = append(produits, p)
	}
	return produits, rows.Err()
}

var _ repository.MagasinRepository = (*MagasinRepo)(nil)

// MagasinRepo implémentation de MagasinRepository sur PostgreSQL.
type MagasinRepo struct {
	q Querier
}

// NewMagasinRepository construit l'adaptateur.
func NewMagasinRepository(q Querier) *MagasinRepo {
	return &MagasinRepo{q: q}
}

func scanMagasin(row pgx.Row) (*entity.Magasin, error) {
	var m entity.Magasin
	err := row.Scan(&m.ID, &m.Nom, &m.Ville, &m.Capacite, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get magasin: %w", err)
	}
	return &m, nil
}

func (r *MagasinRepo) GetByID(ctx context.Context, id string) (*entity.Magasin, error) {
	return scanMagasin(r.q.QueryRow(ctx,
		`SELECT id, nom, ville, capacite, created_at, updated_at FROM magasins WHERE id = $1`, id))
}

func (r *MagasinRepo) List(ctx context.Context) ([]*entity.Magasin, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, nom, ville, capacite, created_at, updated_at FROM magasins ORDER BY nom`)
	if err != nil {
		return nil, fmt.Errorf("list magasins: %w", err)
	}
	defer rows.Close()

	var magasins []*entity.Magasin
	for rows.Next() {
		m, err := scanMagasin(rows)
		if err != nil {
			return nil, err
		}
		magasins = append(magasins, m)
	}
	return magasins, rows.Err()
}

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implémentation de ClientRepository sur PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construit l'adaptateur.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(&c.ID, &c.Nom, &c.Telephone, &c.Ville, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	return scanClient(r.q.QueryRow(ctx,
		`SELECT id, nom, telephone, ville, created_at FROM clients WHERE id = $1`, id))
}

func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `SELECT id, nom, telephone, ville, created_at FROM clients ORDER BY nom`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

var _ repository.ChauffeurRepository = (*ChauffeurRepo)(nil)

// ChauffeurRepo implémentation de ChauffeurRepository sur PostgreSQL.
type ChauffeurRepo struct {
	q Querier
}

// NewChauffeurRepository construit l'adaptateur.
func NewChauffeurRepository(q Querier) *ChauffeurRepo {
	return &ChauffeurRepo{q: q}
}

const colonnesChauffeur = `id, nom, numero_permis, numero_camion, capacite_camion, telephone, statut, created_at`

func scanChauffeur(row pgx.Row) (*entity.Chauffeur, error) {
	var c entity.Chauffeur
	err := row.Scan(&c.ID, &c.Nom, &c.NumeroPermis, &c.NumeroCamion, &c.CapaciteCamion,
		&c.Telephone, &c.Statut, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get chauffeur: %w", err)
	}
	return &c, nil
}

func (r *ChauffeurRepo) GetByID(ctx context.Context, id string) (*entity.Chauffeur, error) {
	return scanChauffeur(r.q.QueryRow(ctx, `SELECT `+colonnesChauffeur+` FROM chauffeurs WHERE id = $1`, id))
}

// ListActifs retourne les chauffeurs candidats à une allocation, gros camions d'abord.
func (r *ChauffeurRepo) ListActifs(ctx context.Context) ([]*entity.Chauffeur, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+colonnesChauffeur+` FROM chauffeurs WHERE statut = 'actif' ORDER BY capacite_camion DESC, nom`)
	if err != nil {
		return nil, fmt.Errorf("list chauffeurs actifs: %w", err)
	}
	defer rows.Close()
	return collecterChauffeurs(rows)
}

func (r *ChauffeurRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Chauffeur, error) {
	rows, err := r.q.Query(ctx, `SELECT `+colonnesChauffeur+` FROM chauffeurs WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("list chauffeurs par ids: %w", err)
	}
	defer rows.Close()
	chauffeurs, err := collecterChauffeurs(rows)
	if err != nil {
		return nil, err
	}
	if len(chauffeurs) != len(ids) {
		return nil, domain.ErrNotFound
	}
	return chauffeurs, nil
}

func collecterChauffeurs(rows pgx.Rows) ([]*entity.Chauffeur, error) {
	var chauffeurs []*entity.Chauffeur
	for rows.Next() {
		c, err := scanChauffeur(rows)
		if err != nil {
			return nil, err
		}
		chauffeurs = append(chauffeurs, c)
	}
	return chauffeurs, rows.Err()
}
