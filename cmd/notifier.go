/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/unixplore/apiserver/config"
	"github.com/unixplore/apiserver/internal/events"
	"github.com/unixplore/apiserver/internal/mq"
)

// notifierCmd consumes directory events from the configured broker and
// logs them. It is the attachment point for real delivery channels
// (email to college admins on club registration, etc.).
var notifierCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Consume and log directory events",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		var backend mq.Backend
		var err error
		switch cfg.MQ.Backend {
		case config.MQBackendRabbitMQ:
			backend, err = mq.NewRabbitMQClient(cfg.MQ.RabbitMQ)
		case config.MQBackendPubSub:
			backend, err = mq.NewPubSubClient(cmd.Context(), cfg.MQ.PubSub)
		default:
			return fmt.Errorf("MQ_BACKEND must be set to run the notifier")
		}
		if err != nil {
			return err
		}

		bus := mq.New(backend)
		defer func() {
			_ = bus.Close()
		}()

		log.Info().Str("channel", events.Channel).Msg("notifier listening")
		return bus.Subscribe(cmd.Context(), events.Channel, handleEvent)
	},
}

func init() {
	rootCmd.AddCommand(notifierCmd)
}

func handleEvent(ctx context.Context, msg mq.Message) error {
	var event events.ClubEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Warn().Str("id", msg.ID).Msg("dropping undecodable event")
		return nil
	}

	log.Info().
		Str("event", event.Event).
		Str("clubId", event.ClubID).
		Str("collegeId", event.CollegeID).
		Str("status", event.Status).
		Msg("directory event")
	return nil
}
