// Package consumer tails the order event topic. It keeps daily per-event
// counters in redis so the shop has a cheap order activity feed without
// querying the database.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"craftstore/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type Consumer struct {
	reader *kafka.Reader
	rdb    *redis.Client
}

func NewConsumer(reader *kafka.Reader, rdb *redis.Client) *Consumer {
	return &Consumer{reader: reader, rdb: rdb}
}

// Run reads order events until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			logger.Error().Err(err).Msg("Error reading order event")
			continue
		}
		c.processMessage(ctx, msg)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	var order entity.Order
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		logger.Error().Err(err).Msg("Error unmarshalling order event")
		return
	}

	event := eventFromKey(string(msg.Key))
	if event == "" {
		logger.Error().Msgf("Unknown event key: %s", msg.Key)
		return
	}

	switch event {
	case "placed":
		logger.Info().Msgf("Order %d placed, total %s", order.ID, order.Total.StringFixed(2))
	case "status-changed":
		logger.Info().Msgf("Order %d moved to %s", order.ID, order.Status)
	case "cancelled":
		logger.Info().Msgf("Order %d cancelled", order.ID)
	default:
		logger.Error().Msgf("Unknown order event %q for order %d", event, order.ID)
		return
	}

	if c.rdb != nil {
		key := fmt.Sprintf("order-stats:%s:%s", event, time.Now().UTC().Format("2006-01-02"))
		if err := c.rdb.Incr(ctx, key).Err(); err != nil {
			logger.Error().Err(err).Msg("Error updating order stats")
		}
	}
}

// eventFromKey extracts the event name from an "order-<event>-<orderID>" key.
// Event names may themselves contain dashes.
func eventFromKey(key string) string {
	parts := strings.Split(key, "-")
	if len(parts) < 3 || parts[0] != "order" {
		return ""
	}
	return strings.Join(parts[1:len(parts)-1], "-")
}
