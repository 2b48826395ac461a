/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/colorboard/apiserver/config"
	"github.com/colorboard/apiserver/internal/mq"
	"github.com/colorboard/apiserver/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect color events on the message broker",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print color.created events as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bus, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if bus == nil {
			return errors.New("MQ_BACKEND is not set")
		}
		defer func() { _ = bus.Close() }()

		logger.Info("tailing events", zap.String("channel", cfg.MQ.ColorsChannel))
		err = bus.Subscribe(ctx, cfg.MQ.ColorsChannel, func(ctx context.Context, msg mq.Message) error {
			var event types.ColorCreatedEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				// Undecodable payloads would be redelivered forever.
				logger.Warn("dropping malformed event", zap.String("id", msg.ID), zap.Error(err))
				return nil
			}
			logger.Info("event",
				zap.String("id", msg.ID),
				zap.String("type", event.Type),
				zap.Int64("color_id", event.Record.ID),
				zap.String("author", event.Record.Author),
				zap.String("color", event.Record.Color),
			)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
