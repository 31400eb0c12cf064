package entity

import "time"

// Client destinataire d'un dispatch en livraison directe (référentiel).
type Client struct {
	ID        string
	Nom       string
	Telephone string
	Ville     string
	CreatedAt time.Time
}
