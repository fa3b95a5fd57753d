package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/medinav-backend/config"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/storage/postgres"
	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	PingTO   time.Duration
}

// OpenRedis connects to Redis and verifies the connection
func OpenRedis(ctx context.Context, opt RedisOptions) (*redis.Client, error) {
	if opt.Addr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is not set")
	}
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, opt.PingTO)
	defer cancel()

	if err := client.Ping(pctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// OpenDB connects to Postgres and applies the metrics schema
func OpenDB(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := postgres.EnsureSchema(sctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
