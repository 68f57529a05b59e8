package main

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/linkverify-server/database"
	"github.com/dtroode/linkverify-server/internal/config"
	"github.com/dtroode/linkverify-server/internal/logger"
	"github.com/dtroode/linkverify-server/internal/model"
	"github.com/dtroode/linkverify-server/internal/repository/postgres"
	"github.com/dtroode/linkverify-server/internal/repository/redis"
)

const (
	driverPostgres = "postgres"
	driverRedis    = "redis"
)

type store interface {
	model.VerificationStore
	model.VerificationProvisioner
}

// openStore connects the configured store. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, migrate bool, logger *logger.Logger) (store, func(), error) {
	switch cfg.StoreDriver {
	case driverRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("using redis store", "addr", cfg.Redis.Addr)

		return redis.NewVerificationStore(client, cfg.Redis.KeyPrefix), func() { _ = client.Close() }, nil
	default:
		if migrate {
			if err := database.Migrate(ctx, cfg.Database.DSN); err != nil {
				return nil, nil, err
			}
		}

		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		logger.Info("using postgres store")

		return postgres.NewVerificationRepository(db), func() { _ = db.Close() }, nil
	}
}
