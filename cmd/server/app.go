package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"donation-platform.backend/internal/config"
	"donation-platform.backend/internal/infrastructure/jobs"
	"donation-platform.backend/internal/infrastructure/notification"
	"donation-platform.backend/internal/infrastructure/payment"
	"donation-platform.backend/internal/infrastructure/repositories"
	"donation-platform.backend/internal/infrastructure/storage"
	"donation-platform.backend/internal/interfaces/http/handlers"
	"donation-platform.backend/internal/interfaces/http/middleware"
	"donation-platform.backend/internal/usecases"
	"donation-platform.backend/pkg/jwt"
	"donation-platform.backend/pkg/logger"
)

var newReceiptArchive = func(ctx context.Context, cfg config.StorageConfig) (notification.ReceiptArchive, error) {
	archive, err := storage.NewS3ReceiptArchive(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return archive, nil
}

// app owns the router and everything that must be stopped on shutdown
type app struct {
	router     *gin.Engine
	reconciler *jobs.AggregateReconcileJob
	receipts   *notification.ReceiptDispatcher
	limiters   []*middleware.RateLimiter
}

func newApp(ctx context.Context, cfg *config.Config, db *gorm.DB) (*app, error) {
	a := &app{}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	userRepo := repositories.NewUserRepository(db)
	charityRepo := repositories.NewCharityRepository(db)
	donationRepo := repositories.NewDonationRepository(db)
	uow := repositories.NewUnitOfWork(db)

	var sender notification.Sender
	if cfg.Email.Enabled() {
		sender = notification.NewSMTPSender(cfg.Email)
	} else {
		logger.Warn(ctx, "EMAIL_HOST not set, receipt emails are disabled")
	}

	var archive notification.ReceiptArchive
	if cfg.Storage.ArchiveEnabled() {
		s3Archive, err := newReceiptArchive(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize receipt archive: %w", err)
		}
		archive = s3Archive
		logger.Info(ctx, "Receipt archive enabled", zap.String("bucket", cfg.Storage.ReceiptBucket))
	}

	var receipts usecases.ReceiptDispatcher
	if sender != nil || archive != nil {
		a.receipts = notification.NewReceiptDispatcher(sender, archive, donationRepo, cfg.Jobs.ReceiptWorkers)
		receipts = a.receipts
	}

	a.reconciler = jobs.NewAggregateReconcileJob(charityRepo, donationRepo, cfg.Jobs.ReconcileInterval)
	go a.reconciler.Start(ctx)

	gateway := payment.New(cfg.Payment.StripeSecretKey)
	if !gateway.Enabled() {
		if cfg.Payment.AllowSimulated {
			logger.Warn(ctx, "STRIPE_SECRET_KEY not set, card payments are simulated")
		} else {
			logger.Warn(ctx, "STRIPE_SECRET_KEY not set, card payments are unavailable")
		}
	}

	authUsecase := usecases.NewAuthUsecase(userRepo, donationRepo, jwtService)
	charityUsecase := usecases.NewCharityUsecase(charityRepo)
	donationUsecase := usecases.NewDonationUsecase(donationRepo, charityRepo, uow, gateway, receipts, usecases.DonationOptions{
		Currency:       cfg.Payment.Currency,
		AllowSimulated: cfg.Payment.AllowSimulated,
	})
	adminUsecase := usecases.NewAdminUsecase(userRepo, charityRepo, donationRepo, a.reconciler)

	authLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})
	requestLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})
	a.limiters = append(a.limiters, authLimiter, requestLimiter)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r, cfg.Server.FrontendURL)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIRoutes(r, routeDeps{
		authHandler:     handlers.NewAuthHandler(authUsecase),
		charityHandler:  handlers.NewCharityHandler(charityUsecase),
		donationHandler: handlers.NewDonationHandler(donationUsecase),
		adminHandler:    handlers.NewAdminHandler(adminUsecase),
		authMiddleware:  middleware.AuthMiddleware(jwtService, userRepo),
		authRateLimit:   authLimiter.Middleware(),
		requestLimit:    requestLimiter.Middleware(),
		charityCache:    cacheFor(cfg.Cache.CharityListTTL),
	})

	staticDir := ""
	if cfg.Server.ServeStatic {
		staticDir = cfg.Server.StaticDir
	}
	registerFallback(r, staticDir)

	a.router = r
	return a, nil
}

// close stops background work in dependency order: no new reconciles, then
// drain queued receipts.
func (a *app) close() {
	if a.reconciler != nil {
		a.reconciler.Stop()
	}
	if a.receipts != nil {
		a.receipts.Close()
	}
	for _, l := range a.limiters {
		l.Stop()
	}
}
