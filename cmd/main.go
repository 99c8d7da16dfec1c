package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/queueless/canteen/internal/adapter/logger"
	"github.com/queueless/canteen/internal/adapter/memory"
	"github.com/queueless/canteen/internal/adapter/postgres"
	"github.com/queueless/canteen/internal/adapter/rabbitmq"
	"github.com/queueless/canteen/internal/app/auth"
	"github.com/queueless/canteen/internal/app/catalog"
	"github.com/queueless/canteen/internal/app/order"
	"github.com/queueless/canteen/internal/app/payment"
	"github.com/queueless/canteen/internal/app/pickup"
	"github.com/queueless/canteen/internal/config"
	"github.com/queueless/canteen/internal/interfaces"

	amqpAdapter "github.com/queueless/canteen/internal/adapter/amqp"
	httpAdapter "github.com/queueless/canteen/internal/adapter/http"
)

type repositories struct {
	orders   interfaces.OrderRepository
	menu     interfaces.MenuRepository
	payments interfaces.PaymentRepository
	users    interfaces.UserRepository
}

func main() {
	// Parse command-line flags
	mode := flag.String("mode", "", "Service mode: api-server, notification-subscriber")
	store := flag.String("store", "postgres", "Storage backend: postgres, memory")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	ctx := context.Background()

	// Initialize logger
	lgr := logger.New(*mode)

	switch *mode {
	case "api-server":
		runAPIServer(ctx, cfg, lgr, *store)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, cfg, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runAPIServer(ctx context.Context, cfg *config.Config, lgr logger.Logger, store string) {
	repos, cleanup := buildRepositories(ctx, cfg, lgr, store)
	defer cleanup()

	// Connect to RabbitMQ; notifications are best-effort, so a missing
	// broker downgrades to a no-op publisher rather than aborting.
	var publisher interfaces.NotificationPublisher = rabbitmq.NopPublisher{}
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		lgr.Error("rabbitmq_unavailable", "RabbitMQ unavailable, notifications disabled", "startup", nil, err)
	} else {
		defer mqConn.Close()
		publisher = rabbitmq.NewPublisher(mqConn)
		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
			"host": cfg.RabbitMQ.Host,
		})
	}

	// Initialize services
	authService := auth.NewService(repos.users, lgr)
	catalogService := catalog.NewService(repos.menu, lgr)
	paymentService := payment.NewService(repos.payments, lgr)
	orderService := order.NewService(repos.orders, repos.menu, repos.payments, publisher, lgr)
	pickupService := pickup.NewService(repos.orders, publisher, lgr)

	// Setup HTTP server
	handler := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Orders:   orderService,
		Pickups:  pickupService,
		Payments: paymentService,
		Catalog:  catalogService,
		Auth:     authService,
		Logger:   lgr,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("API server started on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port":  cfg.Server.Port,
		"store": store,
	})

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down API server", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func buildRepositories(ctx context.Context, cfg *config.Config, lgr logger.Logger, store string) (repositories, func()) {
	switch store {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})

		return repositories{
			orders:   postgres.NewOrderRepository(db),
			menu:     postgres.NewMenuRepository(db),
			payments: postgres.NewPaymentRepository(db),
			users:    postgres.NewUserRepository(db),
		}, db.Close

	case "memory":
		s := memory.NewStore()
		s.Seed()

		lgr.Info("store_ready", "In-memory store seeded", "startup", nil)

		return repositories{
			orders:   memory.NewOrderRepository(s),
			menu:     memory.NewMenuRepository(s),
			payments: memory.NewPaymentRepository(s),
			users:    memory.NewUserRepository(s),
		}, func() {}

	default:
		log.Fatalf("Invalid store: %s", store)
		return repositories{}, nil
	}
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger) {
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification subscriber started", "startup", nil)

	go func() {
		if err := consumer.ConsumeNotifications(ctx, notificationHandler.HandleNotification); err != nil {
			lgr.Error("consumer_error", "Error consuming notifications", "runtime", nil, err)
		}
	}()

	// Wait for shutdown signal
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down notification subscriber", "shutdown", nil)
}
