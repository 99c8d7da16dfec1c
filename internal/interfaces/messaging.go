package interfaces

import (
	"context"
	"time"

	"github.com/queueless/canteen/internal/domain"
)

// StatusUpdateMessage is broadcast on every order status change so
// display clients can refresh without polling the API.
type StatusUpdateMessage struct {
	OrderID     string        `json:"order_id"`
	OrderNumber string        `json:"order_number"`
	OldStatus   domain.Status `json:"old_status"`
	NewStatus   domain.Status `json:"new_status"`
	ChangedBy   string        `json:"changed_by"`
	Timestamp   time.Time     `json:"timestamp"`
}

type NotificationPublisher interface {
	PublishStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error
}

type NotificationConsumer interface {
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}

type NotificationHandler func(ctx context.Context, body []byte) error
