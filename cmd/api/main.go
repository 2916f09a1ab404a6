package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/tu-usuario/warehouse-ops/internal/application/outbound"
	appstats "github.com/tu-usuario/warehouse-ops/internal/application/stats"
	"github.com/tu-usuario/warehouse-ops/internal/infrastructure/memcache"
	"github.com/tu-usuario/warehouse-ops/internal/infrastructure/postgres"
	"github.com/tu-usuario/warehouse-ops/internal/infrastructure/rediscache"
	httpRouter "github.com/tu-usuario/warehouse-ops/internal/interfaces/http"
	"github.com/tu-usuario/warehouse-ops/pkg/config"
	"github.com/tu-usuario/warehouse-ops/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// El nivel compartido es opcional: el motor degrada al nivel rápido.
		log.Warn().Err(err).Msg("Redis no disponible, cache compartido degradado")
	}
	defer redisClient.Close()

	// Niveles de cache: rápido (proceso) + compartido (Redis)
	fastTier := memcache.New(time.Minute)
	defer fastTier.Close()
	sharedTier := rediscache.New(redisClient, cfg.App.Name)

	engine := appstats.NewEngine(fastTier, sharedTier, cfg.Cache, log)
	coordinator := appstats.NewCoordinator(engine, log)

	statsRepo := postgres.NewStatsRepository(pool)
	statsService := appstats.NewStatisticsService(engine, statsRepo, log)
	dashboard := appstats.NewDashboardAssembler(statsService, engine, log)

	txRunner := postgres.NewTxRunner(pool)
	applyBatchUC := outbound.NewApplyBatchUseCase(txRunner, coordinator, cfg.Outbound.BatchPrefix, log)

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
		ApplyBatch: applyBatchUC,
		Stats:      statsService,
		Dashboard:  dashboard,
		Cache:      coordinator,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
