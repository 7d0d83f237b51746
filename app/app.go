// Package app assembles the storefront from configuration: infrastructure
// clients, repositories, services and the gin router.
package app

import (
	"context"
	"fmt"
	"os"

	"storefront/config"
	"storefront/database"
	"storefront/libs"
	"storefront/middleware"
	"storefront/repositories"
	"storefront/routes"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type App struct {
	Router   *gin.Engine
	Notifier *services.Notifier

	log    logrus.FieldLogger
	pool   *pgxpool.Pool
	redis  *redis.Client
	events libs.EventPublisher
}

func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	dsn := cfg.DSN()
	if err := database.Migrate(dsn, log); err != nil {
		return nil, err
	}

	pool, err := config.ConnectDB(ctx, dsn, log)
	if err != nil {
		return nil, err
	}

	a := &App{log: log, pool: pool}

	var cache libs.Cache = libs.NewMemoryCache()
	if a.redis = config.ConnectRedis(ctx, cfg, log); a.redis != nil {
		cache = libs.NewRedisCache(a.redis)
	}

	var mailer libs.Mailer = libs.NopMailer{}
	if m, err := libs.NewSMTPMailer(libs.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}); err != nil {
		log.WithError(err).Warn("Email notifications disabled")
	} else {
		mailer = m
	}

	a.events = libs.NopPublisher{}
	if cfg.AMQPURL != "" {
		pub, err := libs.NewRabbitPublisher(cfg.AMQPURL)
		if err != nil {
			log.WithError(err).Warn("RabbitMQ unavailable, order events disabled")
		} else {
			a.events = pub
		}
	}

	images, err := imageStore(cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	users := repositories.NewUserRepository(pool)
	products := repositories.NewProductRepository(pool)
	categories := repositories.NewCategoryRepository(pool)
	carts := repositories.NewCartRepository(pool)
	orders := repositories.NewOrderRepository(pool)
	reviews := repositories.NewReviewRepository(pool)
	coupons := repositories.NewCouponRepository(pool)

	a.Notifier = services.NewNotifier(mailer, a.events, log)

	catalog := services.NewCatalogService(products, categories, reviews, cache, cfg.CacheTTL, log)
	cartSvc := services.NewCartService(carts, products, log)
	checkout := services.NewCheckoutService(
		carts, orders, users, coupons,
		services.NewPricing(cfg.ShippingFee, cfg.FreeShippingThreshold, cfg.TaxRate),
		services.NewTestPaymentGateway(cfg.PaymentTestCard),
		a.Notifier,
		catalog,
		log,
	)
	auth := services.NewAuthService(users, a.Notifier, cfg.JWTSecret, cfg.JWTExpiry, log)
	admin := services.NewAdminService(services.AdminDeps{
		Products:      products,
		Categories:    categories,
		Orders:        orders,
		Users:         users,
		Reviews:       reviews,
		Coupons:       coupons,
		Images:        images,
		Catalog:       catalog,
		Notifier:      a.Notifier,
		MaxUploadSize: cfg.MaxUploadSize,
		Log:           log,
	})

	if err := auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		a.Close()
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	router := gin.New()
	router.Use(
		middleware.CorrelationID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.CORSMiddleware(cfg.OriginURL),
	)

	uploadDir := ""
	if _, local := images.(*libs.LocalStore); local {
		uploadDir = cfg.UploadDir
	}

	routes.SetupRoutes(router, routes.Dependencies{
		Catalog:   catalog,
		Carts:     cartSvc,
		Checkout:  checkout,
		Accounts:  auth,
		Admin:     admin,
		JWTSecret: cfg.JWTSecret,
		UploadDir: uploadDir,
		Log:       log,
		Ping:      pool.Ping,
	})

	a.Router = router
	return a, nil
}

// imageStore prefers Cloudinary and falls back to the local upload directory.
func imageStore(cfg *config.Config, log logrus.FieldLogger) (libs.ImageStore, error) {
	if cfg.CloudinaryURL != "" || cfg.CloudinaryCloudName != "" {
		store, err := libs.NewCloudinaryStore(libs.CloudinaryConfig{
			URL:       cfg.CloudinaryURL,
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
		})
		if err == nil {
			log.Info("Product images stored on Cloudinary")
			return store, nil
		}
		log.WithError(err).Warn("Cloudinary unavailable, storing images locally")
	}

	if err := os.MkdirAll(cfg.UploadDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return libs.NewLocalStore(cfg.UploadDir, "/uploads"), nil
}

// Close waits for queued notifications and releases every client.
func (a *App) Close() {
	if a.Notifier != nil {
		a.Notifier.Wait()
	}
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close event publisher")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close redis client")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
