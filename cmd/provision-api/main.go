package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pinpoint-provisioner/internal/adapters/db/postgres"
	"pinpoint-provisioner/internal/adapters/pinpoint"
	"pinpoint-provisioner/internal/adapters/queue/rabbitmq"
	"pinpoint-provisioner/internal/adapters/s3"
	"pinpoint-provisioner/internal/app"
	cfg "pinpoint-provisioner/internal/config"
	"pinpoint-provisioner/internal/middleware"
	"pinpoint-provisioner/internal/transport"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	if err := run(log); err != nil {
		log.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	conf := cfg.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(conf.AWSRegion))
	if err != nil {
		return errors.New("failed to load aws config: " + err.Error())
	}

	repo, err := postgres.New(conf.DatabaseURL)
	if err != nil {
		return errors.New("failed to connect to postgres: " + err.Error())
	}
	defer repo.Close()

	publisher, err := rabbitmq.NewPublisher(conf.AMQPURL)
	if err != nil {
		return errors.New("failed to connect to rabbitmq: " + err.Error())
	}
	defer publisher.Close()

	api := pinpoint.New(awsCfg)
	store := s3.New(awsCfg, conf.S3Bucket)

	svc := app.NewProvisioner(api, store, repo, publisher, app.Options{
		RoleArn:        conf.ImportRoleArn,
		SESIdentityArn: conf.SESIdentityArn,
		FromAddress:    conf.FromAddress,
		SMSSenderID:    conf.SMSSenderID,
		SMSShortCode:   conf.SMSShortCode,
		PollInterval:   conf.PollInterval,
		ImportTimeout:  conf.ImportTimeout,
	}, log)

	fiberApp := fiber.New(fiber.Config{
		AppName:               "provision-api",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           120 * time.Second,
		ServerHeader:          "",
		// Audience payloads can carry thousands of rows.
		BodyLimit: 10 * 1024 * 1024,
	})

	fiberApp.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	fiberApp.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${method} ${path} ${latency}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	fiberApp.Use(middleware.RequestID())
	fiberApp.Use(middleware.SecurityHeaders())
	fiberApp.Use(middleware.CORSConfig(conf.AllowedOrigins))

	rateLimiter := middleware.NewRateLimiter(100, 1*time.Minute)
	fiberApp.Use(rateLimiter.Middleware())

	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	handler := transport.NewHandler(svc, log)
	handler.Register(fiberApp.Group("/api"))

	errChan := make(chan error, 1)
	go func() {
		log.Info("provision-api started", "addr", conf.HTTPAddr)
		if err := fiberApp.Listen(conf.HTTPAddr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		return errors.New("failed to shutdown gracefully: " + err.Error())
	}

	log.Info("provision-api stopped gracefully")
	return nil
}
