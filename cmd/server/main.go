package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/events"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/adapters/routing"
	"trip-planner-service/internal/adapters/weather"
	"trip-planner-service/internal/api"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/logging"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (OSRM, Nominatim, Open-Meteo, SQLite/Redis caches,
// Postgres, RabbitMQ) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger depends on config, so this is the one plain stderr exit.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.New("trip-planner", cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	local, err := openLocalCache(ctx, cfg.CachePath)
	if err != nil {
		return err
	}
	defer local.Close()

	routeCache, closeCache, err := openRouteCache(ctx, cfg, local)
	if err != nil {
		return err
	}
	defer closeCache()

	provider, err := routing.NewOSRMRouteProvider(cfg.OSRMBaseURL, routing.WithCache(routeCache))
	if err != nil {
		return err
	}

	planner := &services.TripPlanner{Routes: provider, Log: log}

	if cfg.GeocoderEnabled {
		geocoder, err := routing.NewNominatimGeocoder(
			cfg.GeocoderBaseURL,
			cfg.GeocoderUserAgent,
			routing.WithGeocodeCache(cache.NewSqliteGeocodeCache(local)),
		)
		if err != nil {
			return err
		}
		planner.Geocoder = geocoder
	}

	if cfg.WeatherEnabled {
		wp, err := weather.NewOpenMeteoProvider(cfg.WeatherBaseURL, nil)
		if err != nil {
			return err
		}
		planner.Weather = wp
	}

	var trips ports.TripRepository
	if cfg.DatabaseURL != "" {
		pg, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pg.Close()

		if err := repositories.InitPostgresSchema(ctx, pg); err != nil {
			return err
		}
		trips = repositories.NewPostgresTripRepository(pg)
		planner.Trips = trips
		log.Info("trip persistence enabled")
	}

	if cfg.RabbitMQURL != "" {
		pub, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return err
		}
		defer pub.Close()
		planner.Events = pub
		log.Info("trip events enabled", zap.String("exchange", cfg.RabbitMQExchange))
	}

	// Timeouts are tuned for cold-cache route planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(log, planner, trips),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// openLocalCache opens the SQLite cache file, creating it and its schema as needed.
func openLocalCache(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("local cache: create dir %q: %w", dir, err)
		}
	}

	conn, err := db.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := repositories.InitSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// openRouteCache prefers a shared Redis cache and falls back to the local SQLite file.
func openRouteCache(ctx context.Context, cfg *config.Config, local *sql.DB) (ports.RouteCache, func(), error) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("route cache: ping redis %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisRouteCache(client, cfg.RouteCacheTTL), func() { _ = client.Close() }, nil
	}

	return cache.NewSqliteRouteCache(local, cfg.RouteCacheTTL), func() {}, nil
}
