package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

// mqClient is set by NewApp when RABBITMQ_URL is configured; main owns
// its lifecycle (consumer + close).
var mqClient *rabbitmq.Client

// loadConfig sets the configuration defaults and wires environment
// overrides.
func loadConfig() {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "file::memory:?cache=shared")
	viper.SetDefault("JWT_SECRET", "dev_jwt_secret")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	viper.SetDefault("CANCELLABLE_STATUSES", "pending,confirmed,processing,shipped")
	viper.SetDefault("RETURN_REQUIRE_DELIVERED", true)
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_EMAIL", "admin@storefront.local")
	viper.SetDefault("ADMIN_PASSWORD", "admin123")
	viper.AutomaticEnv()
}

// openDatabase opens the configured GORM store: PostgreSQL in
// production, SQLite for development and tests.
func openDatabase() (*gorm.DB, error) {
	driver := viper.GetString("DB_DRIVER")
	dsn := viper.GetString("DATABASE_DSN")

	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER: %s", driver)
}

// cancellationPolicy parses the configured set of statuses a customer
// may cancel from. Unknown entries are logged and skipped; terminal
// states are excluded by the repository regardless.
func cancellationPolicy() []models.OrderStatus {
	var policy []models.OrderStatus
	for _, raw := range strings.Split(viper.GetString("CANCELLABLE_STATUSES"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			log.Printf("Ignoring unknown cancellable status %q", raw)
			continue
		}
		policy = append(policy, status)
	}
	return policy
}

// NewApp builds the fully wired Fiber application: config, database,
// repositories, services, handlers and routes.
func NewApp() (*fiber.App, *services.AuthService, error) {
	loadConfig()

	db, err := openDatabase()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.ReturnExchangeRequest{},
		&models.CartItem{},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Notification sink is optional; without a broker the services
	// simply skip event fan-out.
	var publisher services.EventPublisher
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		mqClient = client
		publisher = client
	} else {
		log.Println("RABBITMQ_URL not set; event publishing disabled")
	}

	// Repositories
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db, cartRepo)
	returnRepo := repositories.NewGORMReturnRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	// Services
	orderService := services.NewOrderService(orderRepo, publisher, cancellationPolicy())
	returnService := services.NewReturnService(returnRepo, orderRepo, publisher, viper.GetBool("RETURN_REQUIRE_DELIVERED"))
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"))

	if err := authService.EnsureAdmin(
		viper.GetString("ADMIN_USERNAME"),
		viper.GetString("ADMIN_EMAIL"),
		viper.GetString("ADMIN_PASSWORD"),
	); err != nil {
		return nil, nil, fmt.Errorf("failed to seed admin user: %w", err)
	}

	// Handlers
	orderHandler := handlers.NewOrderHandler(orderService)
	returnHandler := handlers.NewReturnHandler(returnService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New()
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	admin := middleware.AdminRequired()
	orderHandler.RegisterRoutes(protected, admin)
	returnHandler.RegisterRoutes(protected, admin)

	return app, authService, nil
}

func main() {
	app, _, err := NewApp()
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	if mqClient != nil {
		defer mqClient.Close()

		// Audit-log consumer: every lifecycle event lands in the process
		// log. Downstream systems attach their own consumers.
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			err := mqClient.ConsumeOrderEvents(func(msg amqp.Delivery) error {
				log.Printf("Order event (%s): %s", msg.Type, string(msg.Body))
				return nil
			})
			if err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}()
	}

	appPort := viper.GetString("APP_PORT")
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
