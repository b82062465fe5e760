package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/store"
)

// openStore connects the configured key-value backend.
func openStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (store.KV, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory store, state is lost on restart")
		return store.NewMemoryStore(), nil

	case config.BackendRedis:
		client, err := store.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
		return store.NewRedisStore(client, cfg.Redis.TTL), nil

	case config.BackendMongo:
		db, err := store.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		log.Info("connected to mongodb", zap.String("database", cfg.Mongo.Database))
		return store.NewMongoStore(db), nil

	case config.BackendPostgres:
		pg, err := store.NewPostgresStore(&store.Credentials{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBName:   cfg.Postgres.DBName,
		})
		if err != nil {
			return nil, err
		}
		if err := pg.RunMigrations(); err != nil {
			_ = pg.Close()
			return nil, err
		}
		log.Info("connected to postgres", zap.String("host", cfg.Postgres.Host))
		return pg, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
