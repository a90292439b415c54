package serverApp

import (
	"context"
	"fmt"

	"go-twocheckout/frontend"
	database "go-twocheckout/internal/pkg/db"
	"go-twocheckout/internal/pkg/logger"
	"go-twocheckout/internal/pkg/middleware"
	"go-twocheckout/internal/pkg/rabbitmq"
	"go-twocheckout/internal/pkg/redis"
	s3aws "go-twocheckout/internal/pkg/storage/s3"
	"go-twocheckout/internal/pkg/twocheckout"
	"go-twocheckout/internal/repository"
	checkoutRepo "go-twocheckout/internal/repository/checkout"

	checkoutHandler "go-twocheckout/internal/handler/checkout"
	checkoutService "go-twocheckout/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

// Options carries everything Setup wires into the routes. Archive is nil when
// callback archiving is disabled.
type Options struct {
	Db         *database.Database
	Redis      redis.IRedis
	Rabbit     *rabbitmq.ConnectionManager
	Publisher  checkoutService.EventPublisher
	Archive    s3aws.Is3
	Tasks      checkoutService.TaskRunner
	Settings   twocheckout.Settings
	EventQueue string
	BaseURL    string
}

// Setup initializes the HTTP server with middleware and routes
func Setup(engine *gin.Engine, ctx context.Context, opts Options) error {
	InitMiddleware(engine)

	tmpl, err := frontend.Templates()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/health", healthHandler(opts))

	e := engine.Group(BasePath())
	InitRoutes(e, engine, ctx, opts)
	return nil
}

func healthHandler(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		rabbitmqHealth := "unhealthy"
		redisHealth := "unhealthy"
		databaseHealth := "unhealthy"

		if opts.Db != nil && !opts.Db.IsCloseConnection() {
			databaseHealth = "healthy"
		}
		if opts.Rabbit == nil {
			rabbitmqHealth = "disabled"
		} else if !opts.Rabbit.IsClosed() {
			rabbitmqHealth = "healthy"
		}
		if opts.Redis != nil && opts.Redis.Ping() == nil {
			redisHealth = "healthy"
		}

		c.JSON(200, gin.H{
			"status": 200,
			"service": gin.H{
				"rabbitmq": gin.H{
					"status": rabbitmqHealth,
				},
				"redis": gin.H{
					"status": redisHealth,
				},
				"database": gin.H{
					"status": databaseHealth,
				},
			},
		})
	}
}

// BasePath returns the base API path
func BasePath() string {
	return "/api"
}

// InitMiddleware initializes global middleware
func InitMiddleware(e *gin.Engine) {
	e.Use(middleware.CorsMiddleware())
	e.Use(middleware.RequestInit())
	e.Use(middleware.ResponseInit())
}

func InitRoutes(e *gin.RouterGroup, engine *gin.Engine, ctx context.Context, opts Options) {
	// setup repo
	rp := repository.IRepository{
		Checkout: checkoutRepo.NewRepo(opts.Db),
	}

	provider := twocheckout.NewProvider(opts.Settings, twocheckout.LoggerFunc(func(message string) {
		logger.Error.Println(message)
	}))

	// === Checkout ===
	CheckoutService := checkoutService.NewService(ctx, checkoutService.Deps{
		Repository: rp,
		Provider:   provider,
		Redis:      opts.Redis,
		Publisher:  opts.Publisher,
		Archive:    opts.Archive,
		Tasks:      opts.Tasks,
		EventQueue: opts.EventQueue,
		BaseURL:    opts.BaseURL,
	})
	CheckoutHandler := checkoutHandler.NewHandler(ctx, CheckoutService)
	CheckoutHandler.NewRoutes(e)
	CheckoutHandler.NewPageRoutes(engine)
}
