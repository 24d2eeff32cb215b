// Package main runs the marketing site backend: form submission endpoints,
// blog and SEO content APIs, and the admin configuration surface.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/driveformv/mvt-warehousing-sub000/config"
	"github.com/driveformv/mvt-warehousing-sub000/internal/blog"
	"github.com/driveformv/mvt-warehousing-sub000/internal/careers"
	"github.com/driveformv/mvt-warehousing-sub000/internal/contact"
	"github.com/driveformv/mvt-warehousing-sub000/internal/emailconfig"
	"github.com/driveformv/mvt-warehousing-sub000/internal/mailer"
	"github.com/driveformv/mvt-warehousing-sub000/internal/middleware"
	"github.com/driveformv/mvt-warehousing-sub000/internal/newsletter"
	"github.com/driveformv/mvt-warehousing-sub000/internal/seo"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/cache"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/database"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/metrics"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/response"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	var seoCache *cache.Client
	if cfg.Redis.Addr != "" {
		seoCache, err = cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn("seo cache disabled", zap.Error(err))
			seoCache = nil
		} else {
			defer seoCache.Close()
		}
	}

	var s3Client *storage.S3
	if cfg.AWS.AccessKeyID != "" {
		s3Cfg := storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			ResumesBucket:   cfg.AWS.ResumesBucket,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("resume uploads disabled", zap.Error(err))
		}
	}

	metrics.Init()

	// Notification pipeline
	configRepo := emailconfig.NewRepository(pool)
	transport := mailer.NewSMTPTransport(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password)
	dispatcher := mailer.NewDispatcher(configRepo, transport, time.Duration(cfg.SMTP.SendTimeoutSec)*time.Second, logger)
	configHandler := emailconfig.NewHandler(configRepo, dispatcher, cfg.SMTP.FromAddress, logger)

	// Contact form
	contactRepo := contact.NewRepository(pool)
	contactHandler := contact.NewHandler(contactRepo, dispatcher, cfg.SMTP.FromAddress, cfg.SMTP.OperatorEmail, logger)

	// Careers
	careersRepo := careers.NewRepository(pool)
	var uploader careers.Uploader
	if s3Client != nil {
		uploader = s3Client
	}
	careersHandler := careers.NewHandler(careersRepo, dispatcher, uploader, cfg.SMTP.FromAddress, cfg.SMTP.OperatorEmail, logger)

	// Newsletter
	newsletterRepo := newsletter.NewRepository(pool)
	newsletterHandler := newsletter.NewHandler(newsletterRepo, dispatcher, cfg.SMTP.FromAddress, logger)

	// Content
	blogRepo := blog.NewRepository(pool)
	blogHandler := blog.NewHandler(blogRepo, logger)
	seoRepo := seo.NewRepository(pool)
	var seoCacheIface seo.Cache
	if seoCache != nil {
		seoCacheIface = seoCache
	}
	seoHandler := seo.NewHandler(seoRepo, seoCacheIface, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	router.GET("/metrics", metrics.Handler())

	// Public form endpoints
	router.POST("/contact", contactHandler.Submit)
	router.POST("/careers/apply", careersHandler.Apply)
	router.POST("/newsletter", newsletterHandler.Subscribe)
	router.DELETE("/newsletter", newsletterHandler.Unsubscribe)

	// Public content endpoints
	router.GET("/blog", blogHandler.Get)
	router.GET("/seo", seoHandler.Get)
	router.GET("/maps-key", func(c *gin.Context) {
		response.OK(c, gin.H{"key": cfg.Maps.APIKey})
	})
	router.GET("/analytics-id", func(c *gin.Context) {
		response.OK(c, gin.H{"measurement_id": cfg.Analytics.MeasurementID})
	})

	// Operator endpoints (shared admin key)
	adminKey := middleware.AdminKey(cfg.Admin)
	router.GET("/contact", adminKey, contactHandler.List)
	router.PUT("/contact", adminKey, contactHandler.UpdateStatus)
	router.GET("/careers/applications", adminKey, careersHandler.List)
	router.PUT("/careers/applications", adminKey, careersHandler.UpdateStatus)
	router.GET("/newsletter", adminKey, newsletterHandler.List)
	router.GET("/test-email", adminKey, configHandler.SendTest)

	admin := router.Group("/admin")
	admin.Use(adminKey)
	{
		admin.GET("/email-configs", configHandler.List)
		admin.POST("/email-configs", configHandler.Create)
		admin.PUT("/email-configs/:id", configHandler.Update)
		admin.DELETE("/email-configs/:id", configHandler.Delete)

		admin.POST("/blog", blogHandler.Create)
		admin.PUT("/blog/:id", blogHandler.Update)
		admin.DELETE("/blog/:id", blogHandler.Delete)

		admin.PUT("/seo", seoHandler.Upsert)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
