package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/msylla/tonnage-api/internal/application/auth"
	"github.com/msylla/tonnage-api/internal/application/dispatch"
	"github.com/msylla/tonnage-api/internal/application/livraison"
	"github.com/msylla/tonnage-api/internal/application/reconciliation"
	"github.com/msylla/tonnage-api/internal/application/rotation"
	"github.com/msylla/tonnage-api/internal/application/stock"
	"github.com/msylla/tonnage-api/internal/domain/entity"
)

// RouterDeps dépendances du router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	DispatchUC  *dispatch.UseCase
	RotationUC  *rotation.UseCase
	StockUC     *stock.UseCase
	LivraisonUC *livraison.UseCase
	ReconUC     *reconciliation.UseCase
	JWTSecret   string
}

// Router enregistre les routes de l'API.
// Les écritures de planification (dispatches, rotations) sont réservées aux
// managers; les réceptions et saisies magasin sont ouvertes aux opérateurs.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	gestion := RequireRole(entity.RoleAdmin, entity.RoleManager)
	magasinier := RequireRole(entity.RoleAdmin, entity.RoleManager, entity.RoleOperator)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Routes protégées (Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/profil", authHandler.Profil)

	// Dispatches
	dispatches := protected.Group("/dispatches")
	dispatchHandler := NewDispatchHandler(deps.DispatchUC)
	rotationHandler := NewRotationHandler(deps.RotationUC, deps.ReconUC)
	dispatches.Post("/", gestion, dispatchHandler.Create)
	dispatches.Get("/", dispatchHandler.List)
	dispatches.Get("/progression", dispatchHandler.Progression)
	dispatches.Get("/:id", dispatchHandler.GetByID)
	dispatches.Post("/:id/annuler", gestion, dispatchHandler.Annuler)
	dispatches.Get("/:id/rotations", rotationHandler.ListByDispatch)
	dispatches.Post("/:id/rotations", gestion, rotationHandler.Ajouter)
	dispatches.Post("/:id/rotations/lot", gestion, rotationHandler.AjouterLot)

	// Rotations
	rotations := protected.Group("/rotations")
	rotations.Post("/calculer", gestion, rotationHandler.Calculer)
	rotations.Get("/", rotationHandler.List)
	rotations.Get("/en-transit", rotationHandler.EnTransit)
	rotations.Get("/ecarts", rotationHandler.Ecarts)
	rotations.Post("/:id/demarrer", gestion, rotationHandler.Demarrer)
	rotations.Post("/:id/receptionner", magasinier, rotationHandler.Receptionner)
	rotations.Post("/:id/manquant", magasinier, rotationHandler.Manquant)
	rotations.Post("/:id/annuler", gestion, rotationHandler.Annuler)

	// Stocks et mouvements
	stockHandler := NewStockHandler(deps.StockUC, deps.ReconUC)
	protected.Get("/stocks", stockHandler.List)
	protected.Post("/mouvements", magasinier, stockHandler.CreateMouvement)
	protected.Get("/mouvements", stockHandler.ListMouvements)

	// Livraisons et rapprochement
	livraisons := protected.Group("/livraisons")
	livraisonHandler := NewLivraisonHandler(deps.LivraisonUC, deps.ReconUC)
	reconHandler := NewReconciliationHandler(deps.ReconUC)
	livraisons.Post("/", gestion, livraisonHandler.Create)
	livraisons.Get("/", livraisonHandler.List)
	livraisons.Get("/comparaison", reconHandler.Comparaison)
	livraisons.Get("/:id", livraisonHandler.GetByID)
	protected.Get("/rapport-ecarts", reconHandler.RapportEcarts)
}
