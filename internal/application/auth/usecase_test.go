package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/msylla/tonnage-api/internal/application/apptest"
	"github.com/msylla/tonnage-api/internal/application/dto"
	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/pkg/jwt"
)

func nouveauCas(t *testing.T) (*apptest.Store, *UseCase) {
	t.Helper()
	store := apptest.NewStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	magasin := "m1"
	store.Utilisateurs["u1"] = &entity.Utilisateur{
		ID: "u1", Email: "operateur@port.sn", PasswordHash: string(hash),
		Nom: "Sow", Prenom: "Awa", Role: entity.RoleOperator, MagasinID: &magasin,
	}
	uc := NewUseCase(&apptest.UtilisateurRepo{S: store}, JWTConfig{
		Secret: "test-secret", ExpMinutes: 60, Issuer: "tonnage-api",
	})
	return store, uc
}

func TestLogin(t *testing.T) {
	_, uc := nouveauCas(t)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "operateur@port.sn", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.Utilisateur.ID)
	assert.Equal(t, entity.RoleOperator, resp.Utilisateur.Role)

	claims, err := jwt.Parse("test-secret", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, entity.RoleOperator, claims.Role)
	assert.Equal(t, "m1", claims.MagasinID)
}

func TestLoginIdentifiantsInvalides(t *testing.T) {
	_, uc := nouveauCas(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "operateur@port.sn", Password: "mauvais"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Email inconnu: même erreur, pas de fuite d'information.
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "inconnu@port.sn", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
