package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "go-twocheckout/configs"
	database "go-twocheckout/internal/pkg/db"
	"go-twocheckout/internal/pkg/kafka"
	"go-twocheckout/internal/pkg/logger"
	"go-twocheckout/internal/pkg/rabbitmq"
	"go-twocheckout/internal/pkg/redis"
	s3aws "go-twocheckout/internal/pkg/storage/s3"
	"go-twocheckout/internal/pkg/validation"
	serverApp "go-twocheckout/internal/server"
	checkoutService "go-twocheckout/internal/service/checkout"
	"sync"

	"github.com/gin-gonic/gin"
)

func main() {
	logger.Setup()
	defer logger.Sync()

	env, err := config.GetEnv()
	if err != nil {
		logger.Error.Println("Error getting environment", err)
		panic(err)
	}

	if err := logger.SetupWithConfig(logger.Config{Env: env.AppEnv.ToString(), Level: env.LogLevel}); err != nil {
		logger.Warning.Println("Error configuring logger", err)
	}

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	// Setup Redis
	redisClient, err := redis.Setup(ctx, env.RedisConfig())
	if err != nil {
		logger.Error.Println("Error setting up Redis", err)
		cancel()
		return
	}

	// Setup event broker
	var rabbit *rabbitmq.ConnectionManager
	var publisher checkoutService.EventPublisher
	if env.UseKafka() {
		publisher, err = kafka.NewPublisher(env.KafkaConfig())
		if err != nil {
			logger.Error.Println("Error setting up Kafka", err)
			cancel()
			return
		}
	} else {
		rabbit, err = rabbitmq.NewConnectionManager(ctx, env.RabbitConfig())
		if err != nil {
			logger.Error.Println("Error setting up RabbitMQ", err)
			cancel()
			return
		}
		publisher = rabbitmq.NewPublisher(rabbit, nil)
	}

	// Setup Database
	db, err := database.Setup(env.DatabaseConfig())
	if err != nil {
		logger.Error.Println("Error setting up Database", err)
		cancel()
		return
	}

	// Setup S3 callback archive (optional)
	var archive s3aws.Is3
	if env.S3Enabled() {
		client, err := s3aws.NewS3Client(env.S3Config(), env.AWSBucketName)
		if err != nil {
			logger.Error.Println("Error setting up S3", err)
			cancel()
			return
		}
		archive = client
	}

	setupServer(&config.SetupServerDto{
		Rds:       redisClient,
		Env:       env,
		Ctx:       &ctx,
		Cancel:    cancel,
		Db:        db,
		Wg:        &wg,
		Rb:        rabbit,
		Publisher: publisher,
		S3:        archive,
	})
}

func setupServer(payload *config.SetupServerDto) {
	rds := payload.Rds
	env := payload.Env
	ctx := payload.Ctx
	cancel := payload.Cancel
	wg := payload.Wg
	rb := payload.Rb
	db := payload.Db
	publisher := payload.Publisher

	pool, err := serverApp.InitWorker(env.WorkerSize)
	if err != nil {
		logger.Error.Println("Failed to create worker pool", err)
		panic(err)
	}

	defer func() {
		if err := pool.ReleaseTimeout(10 * time.Second); err != nil {
			logger.Warning.Println("Worker pool did not drain", err)
		}
		_ = publisher.Close()
		if rb != nil {
			_ = rb.Close()
		}
		_ = db.Close()
		if rds != nil {
			_ = rds.Close()
		}
		cancel()
		wg.Wait()
	}()

	err = validation.Setup()
	if err != nil {
		logger.Error.Println("Failed to setup validation")
		panic(err)
	}

	if !env.AppEnv.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}
	e := gin.New()
	e.Use(gin.Recovery())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", env.AppPort),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	err = serverApp.Setup(e, *ctx, serverApp.Options{
		Db:         db,
		Redis:      rds,
		Rabbit:     rb,
		Publisher:  publisher,
		Archive:    payload.S3,
		Tasks:      pool,
		Settings:   env.TwoCheckoutSettings(),
		EventQueue: env.EventQueue,
		BaseURL:    env.AppBaseURL,
	})
	if err != nil {
		logger.Error.Println("Failed to setup server", err)
		panic(err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.HTTP.Println("========= Server Started =========")
		logger.HTTP.Println("=========", env.AppPort, "=========")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error.Println("Server error:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
	logger.HTTP.Println("========= Server Shutting Down =========")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
