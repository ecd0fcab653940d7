package main

import (
	"context"
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

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	conf := cfg.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(conf.AWSRegion))
	if err != nil {
		log.Error("load aws config", "err", err)
		os.Exit(1)
	}

	// ── Adapters ─────────────────────────────────────────────────────────────
	repo, err := postgres.New(conf.DatabaseURL)
	if err != nil {
		log.Error("connect postgres", "err", err)
		os.Exit(1)
	}
	defer repo.Close()

	publisher, err := rabbitmq.NewPublisher(conf.AMQPURL)
	if err != nil {
		log.Error("connect rabbitmq publisher", "err", err)
		os.Exit(1)
	}
	defer publisher.Close()

	api := pinpoint.New(awsCfg)
	store := s3.New(awsCfg, conf.S3Bucket)

	// ── Application service ──────────────────────────────────────────────────
	svc := app.NewProvisioner(api, store, repo, publisher, app.Options{
		RoleArn:       conf.ImportRoleArn,
		PollInterval:  conf.PollInterval,
		ImportTimeout: conf.ImportTimeout,
	}, log)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	log.Info("run-publisher started", "interval", "5s")

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down run-publisher")
			return

		case <-ticker.C:
			n, err := svc.PublishPendingRuns(ctx, 100)
			if err != nil {
				log.Error("publish pending runs", "err", err)
				continue
			}
			if n > 0 {
				log.Info("published pending runs", "count", n)
			}
		}
	}
}
