package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/sneaker-shop/internal/api"
	"github.com/example/sneaker-shop/internal/auth"
	"github.com/example/sneaker-shop/internal/cart"
	"github.com/example/sneaker-shop/internal/catalog"
	"github.com/example/sneaker-shop/internal/checkout"
	"github.com/example/sneaker-shop/internal/config"
	"github.com/example/sneaker-shop/internal/infrastructure/kafka"
	"github.com/example/sneaker-shop/internal/infrastructure/store"
	"github.com/example/sneaker-shop/internal/order"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateAPI(); err != nil {
		log.Fatalf("[API] %v", err)
	}

	log.Println("[API] ========================================")
	log.Printf("[API] %s - Storefront API", cfg.ShopName)
	log.Println("[API] ========================================")
	log.Printf("[API] Backend: %s", cfg.Backend)
	log.Printf("[API] Kafka: %v", cfg.KafkaBrokers)
	log.Printf("[API] Topic: %s", cfg.KafkaTopic)

	// Event stream for quotation events.
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	// Document store backend for the catalog, quotations and staff.
	var (
		catalogStore catalog.Store
		orderRepo    order.Repository
		staffDir     auth.StaffDirectory
	)
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()
		if err := store.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("[API] Failed to ensure schema: %v", err)
		}
		log.Println("[API] Connected to PostgreSQL")

		catalogStore = store.NewPostgresCatalog(db)
		orderRepo = store.NewPostgresOrders(db)
		staffDir = store.NewPostgresStaff(db)

	case config.BackendDynamo:
		client, err := store.NewDynamoClient(ctx)
		if err != nil {
			log.Fatalf("[API] Failed to create DynamoDB client: %v", err)
		}
		log.Println("[API] Using DynamoDB")

		catalogStore = store.NewDynamoCatalog(client, cfg.DynamoProductsTable)
		orderRepo = store.NewDynamoOrders(client, cfg.DynamoOrdersTable)
		staffDir = store.NewDynamoStaff(client, cfg.DynamoStaffTable)

	case config.BackendMemory:
		log.Println("[API] Using in-memory stores (data is not durable)")
		catalogStore = catalog.NewMemoryStore()
		orderRepo = order.NewMemoryRepository()
		staffDir = auth.NewMemoryDirectory()

	default:
		log.Fatalf("[API] Unknown DOCSTORE_BACKEND %q", cfg.Backend)
	}

	// Cart slots: Redis when configured, process memory otherwise.
	var slots cart.SlotFactory
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("[API] Failed to connect to Redis: %v", err)
		}
		defer client.Close()
		log.Printf("[API] Cart slots in Redis at %s", cfg.RedisAddr)
		slots = cart.RedisSlotFactory(client, cfg.CartSlotPrefix, cfg.CartSlotTTL)
	} else {
		log.Println("[API] Cart slots in process memory")
		slots = cart.MemorySlotFactory()
	}

	// Services.
	orderSvc := order.NewService(orderRepo, producer)
	carts := cart.NewManager(slots)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenExpiry)

	handlers := api.NewHandlers(catalogStore, carts, orderSvc,
		checkout.ShippingPolicy{FlatFee: cfg.ShippingFee},
		checkout.Handoff{ShopName: cfg.ShopName, Phone: cfg.WhatsAppNumber})
	authHandlers := api.NewAuthHandlers(staffDir, jwtService)
	adminHandlers := api.NewAdminHandlers(catalogStore, orderSvc)
	router := api.NewRouter(handlers, authHandlers, adminHandlers, jwtService)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Server started on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}
