package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/cloud"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/config"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/database"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/logging"
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
		ddb, err := cloud.NewDynamoDBClient(ctx, config.AWSRegion(), config.DynamoDBTable())
		if err != nil {
			log.Fatal().Err(err).Msg("dynamodb setup failed")
		}
		opts.Telemetry = ddb
	}
	svcs := service.New(db, opts)

	mqttOpts := mqtt.NewClientOptions().
		AddBroker(config.MQTTBroker()).
		SetClientID(config.MQTTClientID()).
		SetAutoReconnect(true)
	client := mqtt.NewClient(mqttOpts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		msgCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := svcs.Readings.FromMQTT(msgCtx, msg.Topic(), msg.Payload()); err != nil {
			log.Error().Err(err).Str("topic", msg.Topic()).Msg("ingest failed")
		}
	}

	topic := config.MQTTTopic()
	if token := client.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	log.Info().Str("topic", topic).Msg("ingestor running; Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("ingestor stopping")
}
