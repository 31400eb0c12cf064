// Package auth porte l'authentification: vérification des identifiants et
// émission du token JWT.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/msylla/tonnage-api/internal/application/dto"
	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
	"github.com/msylla/tonnage-api/pkg/jwt"
)

// JWTConfig paramètres de génération des tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase authentification des utilisateurs.
type UseCase struct {
	utilisateurs repository.UtilisateurRepository
	jwtCfg       JWTConfig
}

// NewUseCase construit le cas d'usage.
func NewUseCase(utilisateurs repository.UtilisateurRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{utilisateurs: utilisateurs, jwtCfg: jwtCfg}
}

// Login vérifie email et mot de passe puis retourne un token signé.
// Un email inconnu et un mot de passe faux produisent la même erreur.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := uc.utilisateurs.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	magasinID := ""
	if u.MagasinID != nil {
		magasinID = *u.MagasinID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, u.ID, u.Role, magasinID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:       token,
		Utilisateur: versUtilisateurResponse(u),
	}, nil
}

// Profil retourne l'utilisateur connecté.
func (uc *UseCase) Profil(ctx context.Context, userID string) (*dto.UtilisateurResponse, error) {
	u, err := uc.utilisateurs.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := versUtilisateurResponse(u)
	return &resp, nil
}

func versUtilisateurResponse(u *entity.Utilisateur) dto.UtilisateurResponse {
	return dto.UtilisateurResponse{
		ID:        u.ID,
		Email:     u.Email,
		Nom:       u.Nom,
		Prenom:    u.Prenom,
		Role:      u.Role,
		MagasinID: u.MagasinID,
	}
}
