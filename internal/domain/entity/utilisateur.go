package entity

import "time"

// Rôles applicatifs.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleOperator = "operator"
)

// Utilisateur représente un compte applicatif (manager, opérateur de magasin ou admin).
// Un opérateur est rattaché à un magasin et ne voit que les rotations de celui-ci.
type Utilisateur struct {
	ID           string
	Email        string
	PasswordHash string
	Nom          string
	Prenom       string
	Role         string
	MagasinID    *string // requis pour role=operator
	CreatedAt    time.Time
}
