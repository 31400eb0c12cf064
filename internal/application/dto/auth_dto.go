package dto

// LoginRequest body de POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UtilisateurResponse utilisateur dans les réponses, sans le hash.
type UtilisateurResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Nom       string  `json:"nom"`
	Prenom    string  `json:"prenom"`
	Role      string  `json:"role"`
	MagasinID *string `json:"magasin_id,omitempty"`
}

// LoginResponse token signé et utilisateur connecté.
type LoginResponse struct {
	Token       string              `json:"token"`
	Utilisateur UtilisateurResponse `json:"utilisateur"`
}
