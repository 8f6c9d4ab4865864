package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/kjannette/cryptochat/internal/db"
)

// SetupPool connects to TEST_DATABASE_URL and makes sure the chat schema
// exists. Tests are skipped when the variable is unset.
func SetupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := db.EnsureSchema(pool); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return pool
}

// SetupRedis connects to TEST_REDIS_ADDR (DB 15). Tests are skipped when the
// variable is unset or the server does not answer.
func SetupRedis(t *testing.T) *redis.Client {
	t.Helper()

	_ = godotenv.Load("../../.env")

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		t.Skipf("redis at %s unavailable: %v", addr, err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}
