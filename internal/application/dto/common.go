package dto

// APIResponse enveloppe commune des réponses.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse corps d'une erreur HTTP.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PeriodeRequest bornes de dates communes aux listings et rapports.
type PeriodeRequest struct {
	DateDebut string `query:"date_debut"` // YYYY-MM-DD
	DateFin   string `query:"date_fin"`   // YYYY-MM-DD
}
