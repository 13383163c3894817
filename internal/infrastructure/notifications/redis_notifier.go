package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/gateways"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/pkg/redis"
)

// EventWalletTopUpSettled is the event name carried in every published message
const EventWalletTopUpSettled = "wallet.topup.settled"

var publish = redis.Publish

type settlementMessage struct {
	Event string `json:"event"`
	gateways.SettlementNotice
}

// RedisNotifier publishes settlement notices on a Redis pub/sub channel
type RedisNotifier struct {
	channel string
}

// NewRedisNotifier creates a notifier for channel
func NewRedisNotifier(channel string) *RedisNotifier {
	return &RedisNotifier{channel: channel}
}

// NotifySettled publishes one JSON message per settled top-up
func (n *RedisNotifier) NotifySettled(ctx context.Context, notice gateways.SettlementNotice) error {
	payload, err := json.Marshal(settlementMessage{
		Event:            EventWalletTopUpSettled,
		SettlementNotice: notice,
	})
	if err != nil {
		return fmt.Errorf("failed to encode settlement notice: %w", err)
	}
	if _, err := publish(ctx, n.channel, payload); err != nil {
		return fmt.Errorf("failed to publish settlement notice: %w", err)
	}
	return nil
}
