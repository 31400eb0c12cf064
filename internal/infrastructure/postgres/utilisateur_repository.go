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

var _ repository.UtilisateurRepository = (*UtilisateurRepo)(nil)

// UtilisateurRepo implémentation de UtilisateurRepository sur PostgreSQL.
type UtilisateurRepo struct {
	q Querier
}

// NewUtilisateurRepository construit l'adaptateur.
func NewUtilisateurRepository(q Querier) *UtilisateurRepo {
	return &UtilisateurRepo{q: q}
}

const colonnesUtilisateur = `id, email, password_hash, nom, prenom, role, magasin_id, created_at`

func scanUtilisateur(row pgx.Row) (*entity.Utilisateur, error) {
	var u entity.Utilisateur
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Nom, &u.Prenom, &u.Role, &u.MagasinID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get utilisateur: %w", err)
	}
	return &u, nil
}

func (r *UtilisateurRepo) GetByID(ctx context.Context, id string) (*entity.Utilisateur, error) {
	return scanUtilisateur(r.q.QueryRow(ctx, `SELECT `+colonnesUtilisateur+` FROM utilisateurs WHERE id = $1`, id))
}

func (r *UtilisateurRepo) GetByEmail(ctx context.Context, email string) (*entity.Utilisateur, error) {
	return scanUtilisateur(r.q.QueryRow(ctx,
		`SELECT `+colonnesUtilisateur+` FROM utilisateurs WHERE lower(email) = lower($1)`, email))
}
