// Command api runs the GoodDeal storefront REST service.
//
// @title                       GoodDeal Storefront API
// @version                     1.0
// @description                 Catalog, carts, orders and reviews for the GoodDeal storefront.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/gooddeal/storefront/docs"
	"github.com/gooddeal/storefront/internal/api"
	"github.com/gooddeal/storefront/internal/api/handler"
	"github.com/gooddeal/storefront/internal/core/ports"
	"github.com/gooddeal/storefront/internal/core/service"
	"github.com/gooddeal/storefront/internal/infrastructure/db/mongo"
	"github.com/gooddeal/storefront/internal/infrastructure/db/redis"
	"github.com/gooddeal/storefront/internal/infrastructure/mail"
	"github.com/gooddeal/storefront/internal/infrastructure/notify"
	"github.com/gooddeal/storefront/internal/infrastructure/queue"
	"github.com/gooddeal/storefront/internal/infrastructure/storage"
	"github.com/gooddeal/storefront/internal/pkg/config"
	"github.com/gooddeal/storefront/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		boot := logger.Init(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.ForEnv(cfg.Env, cfg.LogLevel))
	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("storefront stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	images, err := imageStore(cfg.Storage)
	if err != nil {
		return err
	}

	var mailer ports.Mailer = mail.NewLogMailer(logger.Component("mail"))
	smtp := mail.Config{Host: cfg.SMTP.Host, Port: cfg.SMTP.Port, User: cfg.SMTP.User, Password: cfg.SMTP.Password, From: cfg.SMTP.From}
	if smtp.Enabled() {
		mailer = mail.NewSMTPMailer(smtp)
	} else {
		log.Warn().Msg("SMTP_HOST not set, mail is only logged")
	}

	// --- Repositories ---
	users := mongo.NewUserRepository(db)
	categories := mongo.NewCategoryRepository(db)
	producers := mongo.NewProducerRepository(db)
	products := mongo.NewProductRepository(db)
	carts := mongo.NewCartRepository(db)
	orders := mongo.NewOrderRepository(db)
	reviews := mongo.NewReviewRepository(db)

	// --- Order events ---
	notifier := notify.NewOrderNotifier(orders, users, mailer, logger.Component("notify"))
	dispatcher := queue.NewDispatcher(cfg.Orders.EventWorkers, notifier, logger.Component("dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	// --- Services ---
	authSvc := service.NewAuthService(users, redis.NewTokenStore(rdb), mailer, service.AuthConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
		ClientURL:  cfg.ClientURL,
	}, logger.Component("auth"))
	catalogSvc := service.NewCatalogService(categories, producers, products, images, logger.Component("catalog"))
	cartSvc := service.NewCartService(carts, products, logger.Component("cart"))
	orderSvc := service.NewOrderService(orders, carts, products, redis.NewDedupChecker(rdb), dispatcher, service.OrderConfig{
		CancelWindow: cfg.Orders.CancelWindow,
		DedupTTL:     cfg.Orders.DedupTTL,
	}, logger.Component("order"))
	reviewSvc := service.NewReviewService(reviews, orders, products, logger.Component("review"))

	deps := api.Deps{
		Auth:      authSvc,
		Catalog:   catalogSvc,
		Carts:     cartSvc,
		Orders:    orderSvc,
		Reviews:   reviewSvc,
		Checkers:  []handler.Checker{mongo.NewChecker(db), redis.NewChecker(rdb)},
		JWTSecret: cfg.JWTSecret,
		ClientURL: cfg.ClientURL,
		Log:       logger.Component("http"),
	}
	if cfg.Storage.CloudinaryURL == "" {
		deps.UploadDir = cfg.Storage.UploadDir
	}
	e, err := api.NewRouter(deps)
	if err != nil {
		return err
	}

	// --- Serve until signalled ---
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("storefront listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

func imageStore(cfg config.StorageConfig) (ports.ImageStore, error) {
	if cfg.CloudinaryURL != "" {
		return storage.NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	}
	return storage.NewDiskStore(cfg.UploadDir, cfg.StaticURL)
}
