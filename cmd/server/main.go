package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/config"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/notify"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/radio"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/redis"
)

const shutdownTimeout = 15 * time.Second

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	defer db.Close()
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore(db.DB)

	// settings cache is optional; without redis every request reads the store
	var cache radio.Cache
	if cfg.RedisAddress != "" {
		rc := redis.NewCache(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("address", cfg.RedisAddress).Msg("redis unreachable, settings cache disabled")
			_ = rc.Close()
		} else {
			cache = rc
			defer rc.Close()
			log.Info().Str("address", cfg.RedisAddress).Msg("settings cache enabled")
		}
		cancel()
	}

	var publisher notify.Publisher
	if cfg.MQTTBrokerURL != "" {
		mqttPub, err := notify.NewMQTTPublisher(cfg.MQTTBrokerURL, cfg.MQTTClientID)
		if err != nil {
			log.Warn().Err(err).Str("broker", cfg.MQTTBrokerURL).Msg("mqtt unavailable, events will not be published")
		} else {
			publisher = mqttPub
			defer mqttPub.Close()
		}
	}

	dispatcher := notify.NewDispatcher(store, publisher, cfg.NotifyBuffer)
	svc := radio.NewService(store,
		radio.WithSettings(radio.NewCachedSettings(store, cache, cfg.SettingsCacheTTL)),
		radio.WithNotifier(dispatcher),
	)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, cfg, store, svc, InitStorage(cfg))

	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: r,
	}
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	// after the server so in-flight requests can still emit
	dispatcher.Close()
}
