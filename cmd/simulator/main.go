package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/config"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/logging"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/service"
)

func main() {
	meters := flag.Int("meters", 5, "number of simulated meters, numbered WM-0001 upward")
	rounds := flag.Int("rounds", 100, "readings published per meter")
	interval := flag.Duration("interval", 500*time.Millisecond, "pause between rounds")
	flag.Parse()

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logging.Setup(config.LogLevel(), config.LogPretty())

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker()).SetClientID(config.MQTTClientID() + "-sim")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	totals := make([]decimal.Decimal, *meters)
	topic := config.MQTTTopic()

	for i := 0; i < *rounds; i++ {
		for m := range totals {
			// Household draw per round: 0 to 0.49 KL.
			totals[m] = totals[m].Add(decimal.NewFromInt(rng.Int63n(50)).Shift(-2))
			payload, err := json.Marshal(service.MeterPayload{
				MeterNo:   fmt.Sprintf("WM-%04d", m+1),
				ReadingKL: totals[m],
				Timestamp: time.Now().UTC(),
			})
			if err != nil {
				log.Fatal().Err(err).Msg("encode payload")
			}
			token := client.Publish(topic, 1, false, payload)
			token.Wait()
			if err := token.Error(); err != nil {
				log.Error().Err(err).Msg("publish failed")
			}
		}
		time.Sleep(*interval)
	}
	log.Info().Int("meters", *meters).Int("rounds", *rounds).Msg("simulation done")
}
