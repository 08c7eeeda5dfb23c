package main

import (
	"context"
	"database/sql"
	"delivery-assign-service/internal/adapters/cache"
	"delivery-assign-service/internal/adapters/events"
	"delivery-assign-service/internal/adapters/repositories"
	"delivery-assign-service/internal/adapters/routing"
	"delivery-assign-service/internal/api"
	"delivery-assign-service/internal/api/handlers"
	"delivery-assign-service/internal/config"
	"delivery-assign-service/internal/metrics"
	"delivery-assign-service/internal/platform/db"
	"delivery-assign-service/internal/ports"
	"delivery-assign-service/internal/services"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, Mapbox, RabbitMQ) behind ports
// and starts the HTTP server. Every backing service except the routing
// provider is optional.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	engineCfg, err := cfg.ServiceConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.RegisterDefault()
	checks := map[string]handlers.HealthCheck{}

	var conn *sql.DB
	if cfg.DatabaseURL != "" {
		conn, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		// Schema creation is idempotent; running it here keeps local setups to one command.
		if err := repositories.InitSchema(ctx, conn); err != nil {
			log.Fatal(err)
		}
		checks["database"] = conn.PingContext
	}

	var travelCache ports.TravelCache
	if cfg.RoutingProvider == config.ProviderMapbox {
		travelCache, err = newTravelCache(cfg, conn, checks)
		if err != nil {
			log.Fatal(err)
		}
	}

	provider, err := newProvider(cfg, travelCache)
	if err != nil {
		log.Fatal(err)
	}

	engine, err := services.NewOrchestrator(engineCfg, provider)
	if err != nil {
		log.Fatal(err)
	}

	var runs ports.RunRepository = repositories.NewMemoryRunRepository()
	if conn != nil {
		runs = repositories.NewPostgresRunRepository(conn)
	}

	var publisher ports.EventPublisher = events.NoopPublisher{}
	if cfg.AMQPURL != "" {
		rp, err := events.NewRabbitPublisher(cfg.AMQPURL)
		if err != nil {
			log.Fatal(err)
		}
		defer rp.Close()
		publisher = rp
	}

	router := api.NewRouter(api.Dependencies{
		Engine:       engine,
		Runs:         runs,
		Events:       publisher,
		HealthChecks: checks,
	})

	// Timeouts leave room for cold-cache runs: one provider call per stop, in sequence.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      300 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}()

	log.Printf(
		"Server listening addr=:%s provider=%s batch_size=%d slots=%d",
		cfg.Port, cfg.RoutingProvider, engineCfg.BatchSize, len(engineCfg.Slots),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// newTravelCache prefers Redis, then Postgres; with neither configured the
// provider runs uncached.
func newTravelCache(cfg config.Config, conn *sql.DB, checks map[string]handlers.HealthCheck) (ports.TravelCache, error) {
	switch {
	case cfg.RedisURL != "":
		rc, err := cache.NewRedisTravelCache(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		checks["redis"] = rc.Ping
		return rc, nil
	case conn != nil:
		return cache.NewSQLTravelCache(conn, cfg.CacheTTL), nil
	default:
		return nil, nil
	}
}

func newProvider(cfg config.Config, travelCache ports.TravelCache) (ports.RouteInfoProvider, error) {
	if cfg.RoutingProvider == config.ProviderHaversine {
		return routing.NewHaversineProvider(cfg.HaversineSpeedKmh, cfg.HaversineDetour)
	}

	return routing.NewMapboxProvider(cfg.MapboxToken, travelCache, routing.MapboxOptions{
		BaseURL: cfg.MapboxBaseURL,
		RPS:     cfg.ProviderRPS,
	})
}
