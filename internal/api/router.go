package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/folioworks/account-service/internal/api/handler"
	"github.com/folioworks/account-service/internal/api/middleware"
	"github.com/folioworks/account-service/internal/core/ports"
	"github.com/folioworks/account-service/internal/core/service"
	"github.com/folioworks/account-service/internal/infrastructure/crypto"
	mongodb "github.com/folioworks/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/folioworks/account-service/internal/infrastructure/db/redis"
	"github.com/folioworks/account-service/internal/infrastructure/token"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// A nil Redis client disables the registration cooldown but keeps every
// other route functional.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	mailer ports.MailEnqueuer,
	jwtSecret string,
	svcCfg service.Config,
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
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	var limiter ports.RegistrationLimiter
	if rdb != nil {
		limiter = redisdb.NewRegistrationLimiter(rdb)
	}
	codec := token.NewCodec(jwtSecret)
	accounts := service.NewAccountService(
		userRepo,
		crypto.NewHasher(0),
		codec,
		mailer,
		limiter,
		svcCfg,
		log,
	)
	accountHandler := handler.NewAccountHandler(accounts)
	session := middleware.Session(codec)

	// --- Auth routes ---
	e.POST("/auth/register", accountHandler.Register)
	e.POST("/auth/signup", accountHandler.CreateAccount)
	e.POST("/auth/login", accountHandler.Login)
	e.POST("/auth/logout", accountHandler.Logout)
	e.GET("/auth/me", accountHandler.Me, session)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
