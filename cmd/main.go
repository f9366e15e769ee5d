package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"craftstore/internal/api"
	"craftstore/internal/config"
	"craftstore/internal/consumer"
	"craftstore/internal/repository"
	"craftstore/internal/service"
	"craftstore/migrations"
)

func connectDB(cfg config.Config) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", cfg.DSN())
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", cfg.DBName)
				db.SetConnMaxLifetime(5 * time.Minute)
				db.SetMaxOpenConns(25)
				db.SetMaxIdleConns(5)
				return db, nil
			}
		}
		log.Printf("Retry %d: failed to connect to DB %s (%s:%s): %v", i+1, cfg.DBName, cfg.DBHost, cfg.DBPort, err)
		time.Sleep(3 * time.Second)
	}
	return nil, err
}

func main() {
	cfg := config.FromEnv()

	db, err := connectDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	if err := migrations.AutoMigrate(3, db); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.OrderTopic)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	if len(cfg.KafkaBrokers) > 0 {
		reader := config.NewKafkaReader(cfg.KafkaBrokers, cfg.OrderTopic, "craftstore-stats")
		eventConsumer := consumer.NewConsumer(reader, rdb)
		defer eventConsumer.Close()
		go eventConsumer.Run(consumerCtx)
	}

	userRepo := repository.NewSQLUserRepository(db)
	categoryRepo := repository.NewSQLCategoryRepository(db)
	productRepo := repository.NewSQLProductRepository(db)
	variantRepo := repository.NewSQLVariantRepository(db)
	promotionRepo := repository.NewSQLPromotionRepository(db)
	cartRepo := repository.NewSQLCartRepository(db)
	zoneRepo := repository.NewSQLZoneRepository(db)
	cardRepo := repository.NewSQLCardRepository(db)
	orderRepo := repository.NewSQLOrderRepository(db)
	tx := repository.NewSQLTxManager(db)

	authService := service.NewAuthService(userRepo, rdb, []byte(cfg.JWTSecret))
	catalogService := service.NewCatalogService(categoryRepo, productRepo, variantRepo, promotionRepo, rdb)
	cartService := service.NewCartService(cartRepo, variantRepo, productRepo, promotionRepo)
	deliveryService := service.NewDeliveryService(zoneRepo)
	cardService := service.NewCardService(cardRepo)
	orderService := service.NewOrderService(cartService, zoneRepo, cardRepo, variantRepo, orderRepo, cartRepo, tx, kafkaWriter, rdb)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(10),
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	api.RegisterRoutes(e, api.Handlers{
		Auth:    api.NewAuthHandler(authService),
		Catalog: api.NewCatalogHandler(catalogService),
		Cart:    api.NewCartHandler(cartService),
		Orders:  api.NewOrderHandler(orderService),
		Zones:   api.NewZoneHandler(deliveryService),
		Cards:   api.NewCardHandler(cardService),
	}, authService)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "craftstore",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stopConsumer()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
