package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	goredis "github.com/redis/go-redis/v9"

	"github.com/msylla/tonnage-api/internal/application/auth"
	"github.com/msylla/tonnage-api/internal/application/dispatch"
	"github.com/msylla/tonnage-api/internal/application/livraison"
	"github.com/msylla/tonnage-api/internal/application/reconciliation"
	"github.com/msylla/tonnage-api/internal/application/rotation"
	"github.com/msylla/tonnage-api/internal/application/stock"
	"github.com/msylla/tonnage-api/internal/infrastructure/postgres"
	infraredis "github.com/msylla/tonnage-api/internal/infrastructure/redis"
	httpRouter "github.com/msylla/tonnage-api/internal/interfaces/http"
	"github.com/msylla/tonnage-api/pkg/config"
	"github.com/msylla/tonnage-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("charger la configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("démarrage de l'application")

	ctx := context.Background()

	if err := postgres.Migrer(cfg.DB.DSN()); err != nil {
		log.Fatal().Err(err).Msg("migrations")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connexion à PostgreSQL")
	}
	defer pool.Close()

	dispatchRepo := postgres.NewDispatchRepository(pool)
	rotationRepo := postgres.NewRotationRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	mouvementRepo := postgres.NewMouvementRepository(pool)
	livraisonRepo := postgres.NewLivraisonRepository(pool)
	produitRepo := postgres.NewProduitRepository(pool)
	magasinRepo := postgres.NewMagasinRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	chauffeurRepo := postgres.NewChauffeurRepository(pool)
	utilisateurRepo := postgres.NewUtilisateurRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache de rapprochement, optionnel: sans REDIS_ADDR chaque rapport est
	// recalculé depuis la base.
	var cache reconciliation.Cache
	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("connexion à Redis")
		}
		defer client.Close()
		cache = infraredis.NewCache(client)
	}

	ledger := stock.NewLedger()
	dispatchUC := dispatch.NewUseCase(txRunner, ledger, dispatchRepo, rotationRepo, produitRepo, magasinRepo, clientRepo)
	rotationUC := rotation.NewUseCase(txRunner, ledger, rotationRepo, dispatchRepo, chauffeurRepo)
	stockUC := stock.NewUseCase(txRunner, ledger, stockRepo, mouvementRepo, produitRepo, magasinRepo)
	livraisonUC := livraison.NewUseCase(livraisonRepo, produitRepo, magasinRepo, clientRepo)
	reconUC := reconciliation.NewUseCase(livraisonRepo, mouvementRepo, dispatchRepo, cache, cfg.Cache.TTL)
	authUC := auth.NewUseCase(utilisateurRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		DispatchUC:  dispatchUC,
		RotationUC:  rotationUC,
		StockUC:     stockUC,
		LivraisonUC: livraisonUC,
		ReconUC:     reconUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("serveur HTTP terminé")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("signal d'arrêt reçu, fermeture du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("arrêt du serveur")
	}

	log.Info().Msg("application arrêtée")
}
