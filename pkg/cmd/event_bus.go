package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/create-newspulse/newsdesk/pkg/channels/gochannel"
	"github.com/create-newspulse/newsdesk/pkg/channels/kafka"
	"github.com/create-newspulse/newsdesk/pkg/eventbus"
)

// NewEventBus creates an event bus instance based on the provider name.
// "kafka" connects to the brokers named by KAFKA_BROKERS; anything else gets
// an in-process gochannel bus, which is what local development uses.
func NewEventBus(provider, serviceName string, logger *slog.Logger) (eventbus.EventBus, error) {
	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(watermill.NewSlogLogger(logger), serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	default:
		pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create gochannel pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	}
}
