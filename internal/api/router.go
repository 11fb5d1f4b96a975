package api

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/ecocolecta/pickup-system/internal/api/handler"
	"github.com/ecocolecta/pickup-system/internal/api/middleware"
	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/service"
	"github.com/ecocolecta/pickup-system/internal/infrastructure/config"
	"github.com/ecocolecta/pickup-system/internal/infrastructure/db/postgres"
	redisdb "github.com/ecocolecta/pickup-system/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with all dependencies wired and all
// routes registered behind their role guards.
func NewRouter(
	pool *pgxpool.Pool,
	rdb *redis.Client,
	cfg *config.Config,
	trail service.AuditTrail,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("pickup"))

	// --- Repositories ---
	identityRepo := postgres.NewIdentityRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	associationRepo := postgres.NewAssociationRepository(pool)
	recyclerRepo := postgres.NewRecyclerRepository(pool)
	cityRepo := postgres.NewCityRepository(pool)
	sessions := redisdb.NewSessionStore(rdb)

	// --- Services ---
	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour
	authService := service.NewAuthService(identityRepo, sessions, cfg.JWTSecret, tokenTTL, log)
	citizenService := service.NewCitizenService(requestRepo, associationRepo, trail, log)
	associationService := service.NewAssociationService(requestRepo, recyclerRepo, associationRepo, trail, log)
	recyclerService := service.NewRecyclerService(requestRepo, recyclerRepo, trail, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(cityRepo)
	citizenHandler := handler.NewCitizenHandler(citizenService)
	associationHandler := handler.NewAssociationHandler(associationService, authService)
	recyclerHandler := handler.NewRecyclerHandler(recyclerService)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(pool, rdb)

	auth := middleware.Auth(cfg.JWTSecret, sessions)

	// --- Public routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/cities", catalogHandler.Cities)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated, any role ---
	e.POST("/logout", authHandler.Logout, auth)
	e.GET("/profile", authHandler.Profile, auth)

	// --- Citizen routes ---
	citizen := e.Group("/citizen", auth, middleware.RBAC(domain.RoleCitizen))
	citizen.GET("/requests", citizenHandler.ListRequests)
	citizen.POST("/requests", citizenHandler.CreateRequest)
	citizen.GET("/requests/:id", citizenHandler.GetRequest)
	citizen.PUT("/requests/:id/cancel", citizenHandler.CancelRequest)
	citizen.GET("/associations", citizenHandler.ListAssociations)

	// --- Recycler routes ---
	recycler := e.Group("/reciclador", auth, middleware.RBAC(domain.RoleRecycler))
	recycler.GET("/assignments", recyclerHandler.ListAssignments)
	recycler.PUT("/assignments/:id", recyclerHandler.Advance)
	recycler.GET("/history", recyclerHandler.History)
	recycler.PUT("/status", recyclerHandler.UpdateAvailability)

	// --- Association routes ---
	association := e.Group("/asociacion", auth, middleware.RBAC(domain.RoleAssociation))
	association.GET("/recicladores", associationHandler.ListRecyclers)
	association.POST("/recicladores", associationHandler.RegisterRecycler)
	association.GET("/requests", associationHandler.ListRequests)
	association.POST("/assign", associationHandler.Assign)
	association.PUT("/requests/:id/cancel", associationHandler.CancelRequest)
	association.GET("/stats", associationHandler.Stats)
	association.PUT("/profile", associationHandler.UpdateProfile)

	return e
}
