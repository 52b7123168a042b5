package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/servibook/booking-platform/internal/api/handler"
	"github.com/servibook/booking-platform/internal/api/middleware"
	"github.com/servibook/booking-platform/internal/core/domain"
	"github.com/servibook/booking-platform/internal/core/ports"
	"github.com/servibook/booking-platform/internal/core/service"
	mongodb "github.com/servibook/booking-platform/internal/infrastructure/db/mongo"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, notifier ports.Notifier, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("booking_platform"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	serviceRepo := mongodb.NewServiceRepository(db)
	bookingRepo := mongodb.NewBookingRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	ticketRepo := mongodb.NewTicketRepository(db)

	// --- Services ---
	authService := service.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	userService := service.NewUserService(userRepo, bookingRepo, auditRepo, log)
	catalogService := service.NewCatalogService(serviceRepo, auditRepo, log)
	bookingService := service.NewBookingService(bookingRepo, serviceRepo, userRepo, auditRepo, notifier, log)
	ticketService := service.NewTicketService(ticketRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	ticketHandler := handler.NewTicketHandler(ticketService)

	auth := middleware.Auth(jwtSecret)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- API v1 ---
	v1 := e.Group("/v1", auth)

	users := v1.Group("/users")
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.PATCH("/:id/role", userHandler.ChangeRole, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	services := v1.Group("/services")
	services.GET("", catalogHandler.List)
	services.GET("/:id", catalogHandler.Get)
	services.POST("", catalogHandler.Create, middleware.RequireRole(domain.RoleAgent))
	services.PATCH("/:id", catalogHandler.Update)
	services.DELETE("/:id", catalogHandler.Delete)

	bookings := v1.Group("/bookings")
	bookings.POST("", bookingHandler.Create)
	bookings.GET("", bookingHandler.List)
	bookings.POST("/bulk", bookingHandler.Bulk)
	bookings.GET("/:id", bookingHandler.Get)
	bookings.PATCH("/:id/status", bookingHandler.Transition)
	bookings.PATCH("/:id/notes", bookingHandler.UpdateNotes)
	bookings.POST("/:id/rating", bookingHandler.Rate)
	bookings.DELETE("/:id", bookingHandler.Delete, adminOnly)

	tickets := v1.Group("/tickets")
	tickets.POST("", ticketHandler.Create)
	tickets.GET("", ticketHandler.List)
	tickets.GET("/:id", ticketHandler.Get)
	tickets.PATCH("/:id", ticketHandler.Update, adminOnly)
	tickets.POST("/:id/comments", ticketHandler.AddComment)

	return e
}

// EnsureIndexes creates all collection indexes at startup.
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()
	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewServiceRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewBookingRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewAuditRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongodb.NewTicketRepository(db).EnsureIndexes(ctx)
}
