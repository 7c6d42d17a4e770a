package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"foodapp/internal/accesskey"
	"foodapp/internal/config"
	"foodapp/internal/database"
	"foodapp/internal/logger"
	"foodapp/internal/mailer"
	"foodapp/internal/repository"
	"foodapp/internal/repository/memstore"
	"foodapp/internal/repository/mongostore"
	"foodapp/internal/routes"
	"foodapp/internal/services"
	"foodapp/internal/storage"
)

type repositories struct {
	pinger        repository.Pinger
	restaurants   repository.RestaurantRepository
	notifications repository.NotificationRepository
	users         repository.UserRepository
	refreshTokens repository.RefreshTokenRepository
	close         func()
}

func openStore(cfg config.Config) repositories {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn().Msg("using in-memory store, data is lost on exit")
		store := memstore.New()
		return repositories{
			pinger:        store,
			restaurants:   store.Restaurants,
			notifications: store.Notifications,
			users:         store.Users,
			refreshTokens: store.RefreshTokens,
			close:         func() {},
		}
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	db := client.Database(cfg.DBName)
	log.Info().Str("db", db.Name()).Msg("MongoDB connected")

	if err := database.EnsureIndexes(db); err != nil {
		log.Warn().Err(err).Msg("index setup incomplete")
	}

	store := mongostore.New(db)
	return repositories{
		pinger:        store,
		restaurants:   store.Restaurants,
		notifications: store.Notifications,
		users:         store.Users,
		refreshTokens: store.RefreshTokens,
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		},
	}
}

func main() {
	cfg := config.Load()
	logger.New(logger.Config{Env: cfg.AppEnv, Level: cfg.LogLevel})

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if cfg.JWTSecret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			log.Fatal().Err(err).Msg("could not generate JWT secret")
		}
		cfg.JWTSecret = hex.EncodeToString(buf)
		log.Warn().Msg("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}

	repos := openStore(cfg)
	defer repos.close()

	blobs, err := storage.NewBlobStore(storage.Config{
		Dir:        cfg.UploadDir,
		PublicPath: cfg.PublicMediaPath,
		MaxSize:    cfg.MaxUploadBytes,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("upload directory unavailable")
	}

	allocator := accesskey.New(repos.restaurants, cfg.AccessKeyAttempts)
	mail := mailer.New(cfg.SMTP)

	var welcome services.WelcomeSender
	if mail.Enabled() {
		welcome = mail
	}

	r := routes.New(routes.Deps{
		Config:        cfg,
		Store:         repos.pinger,
		Blobs:         blobs,
		Restaurants:   services.NewRestaurantService(repos.restaurants, allocator, blobs),
		Notifications: services.NewNotificationService(repos.notifications, allocator, blobs),
		Users:         services.NewUserService(repos.users, blobs, welcome),
		Auth: services.NewAuthService(repos.users, repos.refreshTokens, blobs, services.AuthConfig{
			Secret:     cfg.JWTSecret,
			AccessTTL:  cfg.AccessTokenTTL,
			RefreshTTL: cfg.RefreshTokenTTL,
		}),
		Mailer: mail,
	})

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
