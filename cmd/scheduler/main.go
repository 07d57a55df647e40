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
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/logging"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/scheduler"
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

	opts := service.Options{}
	if config.UseCloudServices() {
		sns, err := cloud.NewSNSClient(ctx, config.AWSRegion(), config.SNSTopicArn())
		if err != nil {
			log.Fatal().Err(err).Msg("sns setup failed")
		}
		opts.Notifier = sns
	} else {
		log.Warn().Msg("cloud services disabled, reminders are only logged")
	}
	svcs := service.New(db, opts)

	// Reminder times are Indian Standard Time.
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.FixedZone("IST", 5*3600+1800)
	}
	s, err := scheduler.New(config.ReminderCron(), loc, svcs.Reminders)
	if err != nil {
		log.Fatal().Err(err).Str("spec", config.ReminderCron()).Msg("invalid reminder schedule")
	}
	s.Start()
	<-ctx.Done()
	s.Stop()
}
