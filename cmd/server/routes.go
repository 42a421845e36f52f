package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/config"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api"
	adminapi "github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/admin/control/endpoints"
	authapi "github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/auth/endpoints"
	notificationapi "github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/notifications/endpoints"
	openapi "github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/open/endpoints"
	songapi "github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/songs/endpoints"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/metrics"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/radio"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, store db.Store, svc *radio.Service, storageSystem storage.Storage) {
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			middleware.APIKeyHeader,
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))
	r.Use(middleware.RequestLogger())

	timeout := middleware.RequestTimeout(cfg.RequestTimeout)

	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api",
		Auth:       true,
		SecretKey:  cfg.JWTSecret,
		Users:      store,
		Middleware: []gin.HandlerFunc{timeout},
	},
		authapi.AuthModule(cfg.JWTSecret, store),
		songapi.SongModule(svc, store),
		notificationapi.NotificationModule(store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api/admin",
		Auth:       true,
		AdminOnly:  true,
		SecretKey:  cfg.JWTSecret,
		Users:      store,
		Middleware: []gin.HandlerFunc{timeout},
	},
		adminapi.ScheduleModule(svc),
		adminapi.SongModule(svc, storageSystem),
		adminapi.BlacklistModule(store, svc.Settings()),
		adminapi.SettingsModule(store, svc.Settings()),
		adminapi.PlayTimeModule(store),
		adminapi.SemesterModule(store),
		adminapi.APIKeyModule(store),
		adminapi.UserModule(store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api/open/v1",
		Middleware: []gin.HandlerFunc{timeout, middleware.APIKeyAuth(store)},
	},
		openapi.OpenModule(svc),
	)

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if !cfg.UseSpaces {
		r.Static(uploadsRoute, cfg.UploadDir)
	}
}
