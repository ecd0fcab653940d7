package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pinpoint-provisioner/internal/adapters/db/postgres"
	"pinpoint-provisioner/internal/adapters/pinpoint"
	"pinpoint-provisioner/internal/adapters/queue/rabbitmq"
	"pinpoint-provisioner/internal/adapters/s3"
	"pinpoint-provisioner/internal/app"
	cfg "pinpoint-provisioner/internal/config"
	"pinpoint-provisioner/internal/domain"

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

	consumer, err := rabbitmq.NewConsumer(conf.AMQPURL, log)
	if err != nil {
		log.Error("connect rabbitmq consumer", "err", err)
		os.Exit(1)
	}
	defer consumer.Close()

	api := pinpoint.New(awsCfg)
	store := s3.New(awsCfg, conf.S3Bucket)

	// ── Application service ──────────────────────────────────────────────────
	svc := app.NewProvisioner(api, store, repo, publisher, app.Options{
		RoleArn:        conf.ImportRoleArn,
		SESIdentityArn: conf.SESIdentityArn,
		FromAddress:    conf.FromAddress,
		SMSSenderID:    conf.SMSSenderID,
		SMSShortCode:   conf.SMSShortCode,
		PollInterval:   conf.PollInterval,
		ImportTimeout:  conf.ImportTimeout,
	}, log)

	log.Info("provision-worker started")

	if err := consumer.Consume(ctx, func(ctx context.Context, run domain.ProvisioningRun) error {
		return svc.ExecuteRun(ctx, run)
	}); err != nil && ctx.Err() == nil {
		log.Error("consumer error", "err", err)
		os.Exit(1)
	}

	log.Info("shutting down provision-worker")
}
