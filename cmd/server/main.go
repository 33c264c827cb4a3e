package main // Entry point package

import (
	"context" // Context for background workers
	"log"     // Logging library
	"time"    // Janitor tick interval

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/parking-slot-reservation/internal/config"     // Internal config loader
	"github.com/iliyamo/parking-slot-reservation/internal/database"   // MySQL connection helper
	"github.com/iliyamo/parking-slot-reservation/internal/handler"    // HTTP handlers
	"github.com/iliyamo/parking-slot-reservation/internal/middleware" // Rate limiting and caching middleware
	"github.com/iliyamo/parking-slot-reservation/internal/payment"    // Payment gateway client
	"github.com/iliyamo/parking-slot-reservation/internal/queue"      // RabbitMQ publisher and consumer
	"github.com/iliyamo/parking-slot-reservation/internal/repository" // DB repositories
	"github.com/iliyamo/parking-slot-reservation/internal/router"     // Route registration
	"github.com/iliyamo/parking-slot-reservation/internal/service"    // Reservation engine
	"github.com/iliyamo/parking-slot-reservation/internal/worker"     // Background sweeper
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories over the shared connection pool.
	lotRepo := repository.NewLotRepo(db)
	slotRepo := repository.NewSlotRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	// Payment gateway client; constructed once, shared by the engine.
	gateway := payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentKeyID, cfg.PaymentSecret)

	// Event publisher is optional: without a broker URL the engine runs
	// with events disabled.
	var events service.EventPublisher
	if cfg.AMQPURL != "" {
		events = queue.NewPublisher(cfg.AMQPURL)
		go func() {
			if err := queue.StartReservationConsumer(cfg.AMQPURL); err != nil {
				log.Printf("consumer stopped: %v", err)
			}
		}()
	}

	engine := service.NewReservationService(slotRepo, reservationRepo, gateway, events, cfg.Currency)

	// Background sweeper completes reservations whose window has passed.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.NewSweeper(engine, cfg.SweepInterval).Run(ctx)
	go worker.RunTokenJanitor(ctx, tokenRepo, time.Hour)

	e := echo.New() // Create Echo instance

	// Redis-backed rate limiting applies to everything; the response cache
	// only wraps the public browse routes.  Both degrade to no-ops when
	// Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	browseCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	publicHandler := &handler.PublicHandler{LotRepo: lotRepo, SlotRepo: slotRepo}
	customerHandler := handler.NewCustomerHandler(engine, reservationRepo)
	adminHandler := handler.NewAdminHandler(lotRepo, slotRepo, reservationRepo, userRepo, engine)

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, customerHandler, browseCache)
	router.RegisterCustomer(e, customerHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
