package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lexhaven/clientdesk/internal/api/handler"
	"github.com/lexhaven/clientdesk/internal/api/middleware"
	"github.com/lexhaven/clientdesk/internal/core/domain"
	"github.com/lexhaven/clientdesk/internal/core/service"
	"github.com/lexhaven/clientdesk/internal/infrastructure/config"
	mongodb "github.com/lexhaven/clientdesk/internal/infrastructure/db/mongo"
	redisdb "github.com/lexhaven/clientdesk/internal/infrastructure/db/redis"
	"github.com/lexhaven/clientdesk/internal/infrastructure/mail"
	"github.com/lexhaven/clientdesk/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *goredis.Client) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("clientdesk"))

	// --- Repositories ---
	clientRepo := mongodb.NewClientRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	statsCache := redisdb.NewStatsCache(rdb)

	// --- Mail transports ---
	gateway := mail.NewGmailGateway(mail.GmailConfig{
		ClientID:     cfg.Mailbox.ClientID,
		ClientSecret: cfg.Mailbox.ClientSecret,
		RedirectURL:  cfg.Mailbox.RedirectURL,
	}, log)
	smtpSender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	resolver := mail.NewResolver(gateway, userRepo, smtpSender, log)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	clientService := service.NewClientService(clientRepo, statsCache, log)
	newsletterService := service.NewNewsletterService(clientRepo, resolver, 0, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	clientHandler := handler.NewClientHandler(clientService)
	newsletterHandler := handler.NewNewsletterHandler(gateway, userRepo, newsletterService, cfg.JWTSecret, log)

	authRequired := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Client routes ---
	clients := e.Group("/clients", authRequired)
	clients.POST("", clientHandler.Create)
	clients.GET("", clientHandler.List)
	clients.GET("/search", clientHandler.Search)
	clients.GET("/stats", clientHandler.Stats)
	clients.GET("/:id", clientHandler.Get)
	clients.PUT("/:id", clientHandler.Update)
	clients.DELETE("/:id", clientHandler.Delete)

	// --- Newsletter routes ---
	// The OAuth callback is a plain browser redirect from the provider and
	// carries no Bearer header; the signed state parameter identifies the
	// actor instead.
	e.GET("/newsletter/auth/callback", newsletterHandler.AuthCallback)

	newsletter := e.Group("/newsletter", authRequired)
	newsletter.GET("/auth-url", newsletterHandler.AuthURL, adminOnly)
	newsletter.GET("/status", newsletterHandler.Status)
	newsletter.POST("/fetch-emails", newsletterHandler.FetchEmails)
	newsletter.GET("/clients", newsletterHandler.Clients, adminOnly)
	newsletter.POST("/send", newsletterHandler.Send, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Prometheus scrape endpoint ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
