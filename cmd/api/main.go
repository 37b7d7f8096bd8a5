package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kakamalem/marketplace/internal/checkout"
	"github.com/kakamalem/marketplace/internal/config"
	"github.com/kakamalem/marketplace/internal/db"
	"github.com/kakamalem/marketplace/internal/es"
	"github.com/kakamalem/marketplace/internal/httpserver"
	"github.com/kakamalem/marketplace/internal/logging"
	"github.com/kakamalem/marketplace/internal/mail"
	"github.com/kakamalem/marketplace/internal/mykafka"
	"github.com/kakamalem/marketplace/internal/repo"
	"github.com/kakamalem/marketplace/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("notice: .env not found, using system environment")
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
	} else {
		logger.Warn("KAFKA_BROKERS not set, events disabled")
	}

	esClient, err := es.NewClient(cfg)
	if err != nil {
		logger.Warn("elasticsearch unavailable, search disabled", "error", err)
		esClient = nil
	}

	mailClient := mail.NewClient(cfg.SendgridAPIKey, cfg.MailFrom)

	dataRepo := &repo.GormRepo{DB: gormDB}

	authService := &service.AuthService{
		Repo:          dataRepo,
		Producer:      producer,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
	}
	orderService := &service.OrderService{
		Repo:     dataRepo,
		Producer: producer,
		Mail:     mailClient,
		Shipping: service.ShippingPolicy{
			Mode:      checkout.ShippingMode(cfg.ShippingMode),
			Fee:       cfg.ShippingFee,
			Threshold: cfg.ShippingThreshold,
		},
	}
	catalogService := &service.CatalogService{Repo: dataRepo, ES: esClient}
	storefrontService := &service.StorefrontService{Repo: dataRepo, Producer: producer}
	dashboardService := &service.DashboardService{Repo: dataRepo}
	cartService := &service.CartService{Repo: dataRepo}
	searchService := &service.SearchService{ES: esClient}
	addressService := &service.AddressService{Repo: dataRepo}

	httpserver.Register(e, &httpserver.Deps{
		Auth:       &httpserver.AuthHTTP{Svc: authService},
		Order:      &httpserver.OrderHTTP{Svc: orderService},
		Catalog:    &httpserver.CatalogHTTP{Svc: catalogService},
		Storefront: &httpserver.StorefrontHTTP{Svc: storefrontService},
		Dashboard:  &httpserver.DashboardHTTP{Svc: dashboardService},
		Cart:       &httpserver.CartHTTP{Svc: cartService},
		Search:     &httpserver.SearchHTTP{Svc: searchService},
		Address:    &httpserver.AddressHTTP{Svc: addressService},
		JWTSecret:  cfg.JWTAccessSecret,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		logger.Info("starting marketplace api", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server stopped")
}
