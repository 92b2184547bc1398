package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/openbiz/directory-api/docs"
	"github.com/openbiz/directory-api/internal/api/graphql"
	"github.com/openbiz/directory-api/internal/api/handler"
	"github.com/openbiz/directory-api/internal/api/middleware"
	"github.com/openbiz/directory-api/internal/core/domain"
	"github.com/openbiz/directory-api/internal/core/ports"
)

// Services are the application services the routes resolve against. They are
// constructed once in main and passed by interface; handlers hold no globals.
type Services struct {
	Auth       ports.AuthService
	Users      ports.UserService
	Businesses ports.BusinessService
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(svcs Services, db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("directory"))

	identity := middleware.Identity(jwtSecret, svcs.Auth)

	// --- Auth routes (direct flavor) ---
	authHandler := handler.NewAuthHandler(svcs.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/profile", authHandler.Profile, identity, middleware.RequireAuth())
	e.GET("/auth/admin", authHandler.AdminOnly, identity, middleware.RequireRole("admin_probe", domain.RoleAdmin))

	// --- Gateway flavor ---
	gql, err := graphql.NewHandler(&graphql.Resolver{
		Businesses: svcs.Businesses,
		Users:      svcs.Users,
	})
	if err != nil {
		return nil, err
	}
	e.POST("/graphql", gql.Serve, identity)

	// --- Operational routes ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e, nil
}
