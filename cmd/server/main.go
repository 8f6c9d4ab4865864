package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kjannette/cryptochat/internal/api"
	"github.com/kjannette/cryptochat/internal/app"
	"github.com/kjannette/cryptochat/internal/config"
	"github.com/kjannette/cryptochat/internal/db"
	"github.com/kjannette/cryptochat/internal/repository"
	"github.com/kjannette/cryptochat/internal/session"
)

const banner = `
╔══════════════════════════════════════╗
║      Blockchain Market AI  v0.1      ║
║            chat API server           ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	reg, err := app.LoadRegistry(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[REGISTRY] %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n[REGISTRY] %d assets: %v\n", reg.Len(), reg.Keys())

	bot := app.NewBot(cfg, reg)

	// Session store
	checks := map[string]api.HealthCheck{}
	var store session.Store
	switch cfg.SessionStore {
	case config.StoreRedis:
		fmt.Printf("[REDIS] Connecting to %s (db %d) ...\n", cfg.RedisAddr, cfg.RedisDB)
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() {
			client.Close()
			fmt.Println("[REDIS] Connection closed")
		}()

		rs := session.NewRedisStore(client)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		state := rs.Ping(pingCtx)
		cancel()
		if state != "up" {
			fmt.Fprintf(os.Stderr, "[REDIS] %s\n", state)
			os.Exit(1)
		}
		checks["redis"] = rs.Ping
		store = rs

	case config.StorePostgres:
		fmt.Printf("[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
		pool, err := db.Connect(cfg.DSN())
		if err != nil {
			fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			pool.Close()
			fmt.Println("[DB] Connection pool closed")
		}()

		if err := db.TestConnection(pool); err != nil {
			fmt.Fprintf(os.Stderr, "[DB] Test query failed: %v\n", err)
			os.Exit(1)
		}
		if err := db.EnsureSchema(pool); err != nil {
			fmt.Fprintf(os.Stderr, "[DB] Schema setup failed: %v\n", err)
			os.Exit(1)
		}
		checks["database"] = poolCheck(pool)
		store = session.NewPostgresStore(repository.NewSessionRepo(pool))

	default:
		fmt.Println("[SESSION] Using in-memory session store")
		store = session.NewMemoryStore()
	}

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(bot, reg, store, api.Options{
		Port:       cfg.APIPort,
		APIKey:     cfg.APIKey,
		CORSOrigin: cfg.CORSAllowOrigin,
		Logger:     slog.New(slog.NewTextHandler(os.Stdout, nil)),
		Checks:     checks,
	})
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	fmt.Println("\nAll services started successfully")

	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}

func poolCheck(pool *pgxpool.Pool) api.HealthCheck {
	return func(ctx context.Context) string {
		if err := pool.Ping(ctx); err != nil {
			return "down: " + err.Error()
		}
		return "up"
	}
}
