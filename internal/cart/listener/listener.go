package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventCheckoutCompleted = "CheckoutCompleted"

// MessageReader is satisfied by broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// CheckoutListener empties a user's cart once their checkout completes.
type CheckoutListener struct {
	consumer MessageReader
	uc       cart.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewCheckoutListener(consumer MessageReader, uc cart.UseCase, logger logger.ZapLogger) *CheckoutListener {
	return &CheckoutListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *CheckoutListener) Start(ctx context.Context) {
	l.logger.Info("Starting checkout Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping checkout Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type CheckoutCompletedEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   CheckoutPayload `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

type CheckoutPayload struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

func (l *CheckoutListener) processMessage(ctx context.Context, value []byte) {
	var event CheckoutCompletedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != EventCheckoutCompleted {
		return
	}

	l.logger.Info("Processing CheckoutCompleted event",
		zap.String("order_id", event.Payload.OrderID),
		zap.String("user_id", event.Payload.UserID),
	)

	if err := l.uc.ClearCart(ctx, event.Payload.UserID); err != nil {
		l.logger.Error("Failed to clear cart after checkout",
			zap.String("order_id", event.Payload.OrderID),
			zap.String("user_id", event.Payload.UserID),
			zap.Error(err),
		)
	}
}
