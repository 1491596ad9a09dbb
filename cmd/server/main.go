package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/vertexlab/identity-api/docs"
	"github.com/vertexlab/identity-api/internal/api"
	"github.com/vertexlab/identity-api/internal/core/token"
	"github.com/vertexlab/identity-api/internal/infrastructure/config"
	mongodb "github.com/vertexlab/identity-api/internal/infrastructure/db/mongo"
	redisdb "github.com/vertexlab/identity-api/internal/infrastructure/db/redis"
	"github.com/vertexlab/identity-api/internal/infrastructure/queue"
	"github.com/vertexlab/identity-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Identity API
// @version      1.0
// @description  Authentication, session tokens, and role management.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	codec, err := token.NewCodec(token.SigningConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid token configuration")
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}

	auditWriter := queue.NewAuditWriter(cfg.Auth.AuditWorkers, mongodb.NewAuditRepository(db), log)
	auditWriter.Start(ctx)

	e := api.NewRouter(api.Dependencies{
		DB:    db,
		Redis: rdb,
		Codec: codec,
		Audit: auditWriter,
		Cfg:   cfg,
		Log:   log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting identity-api")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close failed")
	}
}
