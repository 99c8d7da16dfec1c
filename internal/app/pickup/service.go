package pickup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/queueless/canteen/internal/adapter/logger"
	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

// Service is the pickup token authority. A token redeems exactly
// once: redemption requires the order to be Ready, deducts stock for
// every line item atomically and marks the order Completed. A second
// attempt with the same token reports the order as already picked up
// and never double-deducts.
type Service struct {
	orderRepo interfaces.OrderRepository
	publisher interfaces.NotificationPublisher
	logger    logger.Logger
}

func NewService(orderRepo interfaces.OrderRepository, publisher interfaces.NotificationPublisher, logger logger.Logger) *Service {
	return &Service{
		orderRepo: orderRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// RedeemByToken resolves a scanned token to its order and completes
// it. The caller does not need to know the order id.
func (s *Service) RedeemByToken(ctx context.Context, actor *domain.User, token string) (*domain.Order, error) {
	if !actor.Role.Allowed(domain.OpRedeemToken) {
		return nil, domain.NewAuthorization("not permitted to redeem pickups")
	}
	if token == "" {
		return nil, domain.NewValidation("missing token")
	}

	order, err := s.orderRepo.GetByToken(ctx, token)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	return s.redeem(ctx, actor, order)
}

// RedeemOrder verifies a token presented against a known order id,
// the manual-entry variant of the scan flow.
func (s *Service) RedeemOrder(ctx context.Context, actor *domain.User, orderID, token string) (*domain.Order, error) {
	if !actor.Role.Allowed(domain.OpRedeemToken) {
		return nil, domain.NewAuthorization("not permitted to redeem pickups")
	}
	if token == "" {
		return nil, domain.NewValidation("missing token")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PickupToken == "" || order.PickupToken != token {
		return nil, domain.ErrInvalidToken
	}

	return s.redeem(ctx, actor, order)
}

func (s *Service) redeem(ctx context.Context, actor *domain.User, order *domain.Order) (*domain.Order, error) {
	if order.Status == domain.StatusCompleted {
		return nil, domain.ErrAlreadyCompleted
	}
	if order.Status != domain.StatusReady {
		return nil, domain.ErrOrderNotReady
	}

	// The repository re-checks the status under its own lock, so a
	// concurrent double-submission resolves to exactly one success.
	updated, err := s.orderRepo.Complete(ctx, order.ID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info("pickup_redeemed", fmt.Sprintf("Order %s picked up", updated.Number), "", map[string]interface{}{
		"order_number": updated.Number,
		"redeemed_by":  actor.ID,
	})

	msg := interfaces.StatusUpdateMessage{
		OrderID:     updated.ID,
		OrderNumber: updated.Number,
		OldStatus:   domain.StatusReady,
		NewStatus:   updated.Status,
		ChangedBy:   actor.Name,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.publisher.PublishStatusUpdate(ctx, msg); err != nil {
		s.logger.Error("notify_failed", "Failed to publish status update", "", map[string]interface{}{
			"order_number": updated.Number,
		}, err)
	}

	return updated, nil
}
