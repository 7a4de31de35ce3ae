package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/workouttracker/internal/api"
	"example.com/workouttracker/internal/config"
	"example.com/workouttracker/internal/domain"
	"example.com/workouttracker/internal/events"
	"example.com/workouttracker/internal/gateway/memory"
	"example.com/workouttracker/internal/gateway/postgres"
	httptransport "example.com/workouttracker/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store setup failed: %v", err)
	}
	defer cleanup()

	registry := domain.NewRegistry(store)
	ledger := domain.NewLedger(store, store)

	opts := []domain.SessionOption{domain.WithFeedLimit(cfg.FeedLimit)}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewPublisher(cfg.KafkaBrokers, log.Default())
		defer publisher.Close()
		opts = append(opts, domain.WithNotifier(publisher))
	}
	session := domain.NewSession(registry, ledger, opts...)

	if err := session.Refresh(ctx); err != nil {
		log.Fatalf("initial snapshot failed: %v", err)
	}

	handler := api.NewHandler(session, registry)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, logger(mux))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("workout-tracker listening on %s (store=%s)", cfg.HTTPAddress, cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// buildStore selects the gateway backend. Store misconfiguration is fatal
// here, once, before any operation is accepted.
func buildStore(ctx context.Context, cfg config.Config) (domain.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return memory.NewStore(), func() {}, nil
	case config.StorePostgres:
		if cfg.PostgresURL == "" {
			return nil, nil, &domain.ConfigurationError{Reason: "POSTGRES_URL is not set"}
		}
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, &domain.ConfigurationError{Reason: "invalid postgres url", Err: err}
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, &domain.ConfigurationError{Reason: "postgres unreachable", Err: err}
		}
		return postgres.NewStore(pool), pool.Close, nil
	default:
		return nil, nil, &domain.ConfigurationError{Reason: "unknown store backend " + cfg.StoreBackend}
	}
}
