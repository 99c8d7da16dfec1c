package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/queueless/canteen/internal/adapter/logger"
	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

// Service is the order ledger: placement, the status state machine
// and the staff-side completion path. Stock deduction is deferred to
// completion, so placement only validates that every line could be
// fulfilled at this instant; the authoritative, serialized check
// happens again inside the repository when the order completes.
type Service struct {
	orderRepo   interfaces.OrderRepository
	menuRepo    interfaces.MenuRepository
	paymentRepo interfaces.PaymentRepository
	publisher   interfaces.NotificationPublisher
	logger      logger.Logger
}

func NewService(
	orderRepo interfaces.OrderRepository,
	menuRepo interfaces.MenuRepository,
	paymentRepo interfaces.PaymentRepository,
	publisher interfaces.NotificationPublisher,
	logger logger.Logger,
) *Service {
	return &Service{
		orderRepo:   orderRepo,
		menuRepo:    menuRepo,
		paymentRepo: paymentRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func (s *Service) PlaceOrder(ctx context.Context, actor *domain.User, cmd interfaces.PlaceOrderCommand) (*domain.Order, error) {
	if !actor.Role.Allowed(domain.OpPlaceOrder) {
		return nil, domain.NewAuthorization("only students may place orders")
	}

	method, err := domain.ParsePaymentMethod(cmd.PaymentMethod)
	if err != nil {
		return nil, err
	}

	if len(cmd.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// Resolve every line against the catalog, snapshotting name and
	// price. Any missing, unavailable or understocked item rejects the
	// whole order with no partial effects.
	lines := make([]domain.LineItem, 0, len(cmd.Items))
	rawETA := 0
	for _, entry := range cmd.Items {
		if entry.Qty <= 0 {
			return nil, domain.NewValidation("invalid item in cart")
		}
		item, err := s.menuRepo.Get(ctx, entry.ItemID)
		if err != nil {
			var notFound *domain.NotFoundError
			if errors.As(err, &notFound) {
				return nil, domain.NewValidation("invalid item in cart")
			}
			return nil, err
		}
		if err := item.CanFulfil(entry.Qty); err != nil {
			return nil, err
		}
		lines = append(lines, domain.LineItem{
			ItemID: item.ID,
			Name:   item.Name,
			Price:  item.Price,
			Qty:    entry.Qty,
		})
		rawETA += item.PrepTime * entry.Qty
	}

	order, err := domain.NewOrder(actor.ID, actor.Name, lines, rawETA, method, cmd.PaymentID)
	if err != nil {
		return nil, err
	}

	if method.RequiresConfirmation() {
		if cmd.PaymentID == nil || *cmd.PaymentID == "" {
			return nil, domain.ErrPaymentRequired
		}
		intent, err := s.paymentRepo.Get(ctx, *cmd.PaymentID)
		if err != nil {
			return nil, err
		}
		if err := intent.Covers(actor.ID, order.Total); err != nil {
			return nil, err
		}
	}

	// The repository re-validates stock and assigns the order number
	// inside the insert transaction.
	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("order_create_failed", "Failed to persist order", "", nil, err)
		return nil, err
	}

	s.logger.Info("order_placed", fmt.Sprintf("Order %s placed", order.Number), "", map[string]interface{}{
		"order_number": order.Number,
		"user_id":      actor.ID,
		"total":        order.Total,
		"eta_minutes":  order.ETAMinutes,
	})

	return order, nil
}

func (s *Service) UpdateStatus(ctx context.Context, actor *domain.User, orderID, status string) (*domain.Order, error) {
	next, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	if !actor.Role.Allowed(domain.OpUpdateStatus) {
		return nil, domain.NewAuthorization("not permitted to update orders")
	}
	if next == domain.StatusCompleted && !actor.Role.Allowed(domain.OpCompleteOrder) {
		return nil, domain.NewAuthorization("use pickup verification to complete orders")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	oldStatus := order.Status

	if next == domain.StatusCompleted {
		// Completion deducts stock; the repository does both in one
		// atomic unit and rejects already-completed orders.
		updated, err := s.orderRepo.Complete(ctx, order.ID, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		s.notifyStatusChange(ctx, updated, oldStatus, actor)
		return updated, nil
	}

	if err := order.TransitionTo(next); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, next); err != nil {
		return nil, err
	}

	s.notifyStatusChange(ctx, order, oldStatus, actor)
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, actor *domain.User) ([]*domain.Order, error) {
	if actor.Role.Allowed(domain.OpListAllOrders) {
		return s.orderRepo.ListAll(ctx)
	}
	return s.orderRepo.ListByUser(ctx, actor.ID)
}

// notifyStatusChange broadcasts best-effort; a publish failure never
// fails the operation that caused it.
func (s *Service) notifyStatusChange(ctx context.Context, order *domain.Order, oldStatus domain.Status, actor *domain.User) {
	msg := interfaces.StatusUpdateMessage{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		OldStatus:   oldStatus,
		NewStatus:   order.Status,
		ChangedBy:   actor.Name,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.publisher.PublishStatusUpdate(ctx, msg); err != nil {
		s.logger.Error("notify_failed", "Failed to publish status update", "", map[string]interface{}{
			"order_number": order.Number,
		}, err)
	}
}
