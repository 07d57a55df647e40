package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/cloud"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/config"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/database"
	httpHandlers "github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/http"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/logging"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/mailer"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/service"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logging.Setup(config.LogLevel(), config.LogPretty())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(config.DBDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	if config.AutoMigrate() {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}

	opts := service.Options{BillDueDays: config.BillDueDays()}
	if config.UseCloudServices() {
		clients, err := cloud.NewClients(ctx, config.AWSRegion(), config.S3Bucket(), config.SNSTopicArn(), config.DynamoDBTable())
		if err != nil {
			log.Fatal().Err(err).Msg("aws setup failed")
		}
		opts.Archiver, opts.Notifier, opts.Telemetry = clients.S3, clients.SNS, clients.Dynamo
		log.Info().Str("region", config.AWSRegion()).Msg("cloud services enabled")
	}

	var sender mailer.Sender = mailer.LogSender{}
	if key := config.SendGridAPIKey(); key != "" {
		sender = mailer.NewSendGridSender(key, config.MailFrom(), config.MailFromName())
	}
	opts.OTP = mailer.NewOTPService(sender, config.OTPTTL())

	svcs := service.New(db, opts)
	app := httpHandlers.New(svcs)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
	log.Info().Msg("api stopped")
}
