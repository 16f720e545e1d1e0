package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/insurancereminder/policy-engine/internal/api/handler"
	"github.com/insurancereminder/policy-engine/internal/api/middleware"
	"github.com/insurancereminder/policy-engine/internal/core/ports"
	"github.com/insurancereminder/policy-engine/internal/core/service"
)

// RouterDeps carries the wired services and clients the router exposes.
type RouterDeps struct {
	Policies  ports.PolicyService
	Auth      ports.AuthService
	Catalog   *service.CatalogService
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("policyengine"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	policyHandler := handler.NewPolicyHandler(deps.Policies)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	sessionMW := middleware.Session(deps.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/upgrade", authHandler.Upgrade, sessionMW, middleware.RequireAuth())
	e.POST("/auth/partner", authHandler.SharePartner, sessionMW, middleware.RequireAuth())

	// --- Policy routes. Guests are welcome: the storage router sends them
	// to the local store.
	v1 := e.Group("/v1", sessionMW)
	v1.POST("/policies", policyHandler.Create)
	v1.GET("/policies", policyHandler.List)
	v1.GET("/policies/stream", policyHandler.Stream)
	v1.GET("/policies/export", policyHandler.Export)
	v1.GET("/policies/:id", policyHandler.Get)
	v1.PUT("/policies/:id", policyHandler.Update)
	v1.DELETE("/policies/:id", policyHandler.Delete)
	v1.POST("/policies/:id/renew", policyHandler.Renew)
	v1.POST("/policies/:id/share", policyHandler.Share, middleware.RequireAuth())
	v1.POST("/policies/:id/file", policyHandler.AttachFile, middleware.RequireAuth())

	// --- Catalog routes (public, static data) ---
	v1.GET("/companies", catalogHandler.Companies)
	v1.GET("/comparison-providers", catalogHandler.ComparisonProviders)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
