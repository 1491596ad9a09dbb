package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vertexlab/identity-api/internal/api/handler"
	"github.com/vertexlab/identity-api/internal/api/middleware"
	"github.com/vertexlab/identity-api/internal/core/domain"
	"github.com/vertexlab/identity-api/internal/core/ports"
	"github.com/vertexlab/identity-api/internal/core/service"
	"github.com/vertexlab/identity-api/internal/core/token"
	"github.com/vertexlab/identity-api/internal/infrastructure/config"
	mongodb "github.com/vertexlab/identity-api/internal/infrastructure/db/mongo"
	redisdb "github.com/vertexlab/identity-api/internal/infrastructure/db/redis"
)

// Dependencies carries the externally constructed collaborators the router
// wires handlers around. The audit sink and token codec are built in main:
// the sink owns background workers, the codec validates its secret at startup.
type Dependencies struct {
	DB    *mongo.Database
	Redis *redis.Client
	Codec *token.Codec
	Audit ports.AuditSink
	Cfg   *config.Config
	Log   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(d.DB, d.Cfg.Auth.PasswordMinLength)
	roleRepo := mongodb.NewRoleRepository(d.DB)
	auditRepo := mongodb.NewAuditRepository(d.DB)
	messageRepo := mongodb.NewMessageRepository(d.DB)
	throttle := redisdb.NewLoginLimiter(d.Redis, d.Cfg.Auth.LoginMaxAttempts, d.Cfg.Auth.LoginAttemptWindow)

	// --- Services ---
	authService := service.NewAuthService(userRepo, roleRepo, d.Audit, throttle, d.Codec, d.Cfg.JWT.AllowExpiredRefresh, d.Log)
	auditService := service.NewAuditService(auditRepo)
	messageService := service.NewMessageService(messageRepo, userRepo, d.Audit)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	auditHandler := handler.NewAuditHandler(auditService)
	messageHandler := handler.NewMessageHandler(messageService)

	authn := middleware.Auth(d.Codec)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/me", authHandler.Me)
	auth.POST("/seed-roles", authHandler.SeedRoles, authn, middleware.RBAC(domain.RoleOwner))
	auth.POST("/update-role", authHandler.UpdateRole, authn, middleware.RBAC(domain.RoleOwner, domain.RoleAdmin))
	auth.GET("/users", authHandler.ListUsers, authn, middleware.RBAC(domain.RoleOwner, domain.RoleAdmin, domain.RoleManager))
	auth.GET("/users/:username", authHandler.GetUserByUsername, authn, middleware.RBAC(domain.RoleOwner, domain.RoleAdmin, domain.RoleManager))
	auth.GET("/usernames", authHandler.ListUsernames, authn, middleware.RBAC(domain.RoleOwner, domain.RoleAdmin))

	// --- Audit log routes ---
	e.GET("/logs", auditHandler.List, authn, middleware.RBAC(domain.RoleOwner, domain.RoleAdmin))
	e.GET("/logs/mine", auditHandler.ListMine, authn)

	// --- Message routes ---
	e.POST("/messages", messageHandler.Send, authn)
	e.GET("/messages", messageHandler.List, authn, middleware.RBAC(domain.RoleOwner, domain.RoleAdmin))
	e.GET("/messages/mine", messageHandler.ListMine, authn)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.DB, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
