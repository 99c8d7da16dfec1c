package payment

import (
	"context"
	"time"

	"github.com/queueless/canteen/internal/adapter/logger"
	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

// Service tracks payment intents: created before an order exists and
// confirmed before the order referencing one is admitted.
type Service struct {
	paymentRepo interfaces.PaymentRepository
	logger      logger.Logger
}

func NewService(paymentRepo interfaces.PaymentRepository, logger logger.Logger) *Service {
	return &Service{
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

func (s *Service) CreateIntent(ctx context.Context, actor *domain.User, amount int) (*domain.PaymentIntent, error) {
	if !actor.Role.Allowed(domain.OpCreatePayment) {
		return nil, domain.NewAuthorization("only students may create payments")
	}

	intent, err := domain.NewPaymentIntent(actor.ID, amount)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Create(ctx, intent); err != nil {
		return nil, err
	}

	s.logger.Debug("payment_created", "Payment intent created", "", map[string]interface{}{
		"payment_id": intent.ID,
		"amount":     intent.Amount,
	})
	return intent, nil
}

// Confirm marks the intent paid. Re-confirmation is idempotent and
// never changes the amount.
func (s *Service) Confirm(ctx context.Context, actor *domain.User, paymentID string) (*domain.PaymentIntent, error) {
	if !actor.Role.Allowed(domain.OpConfirmPayment) {
		return nil, domain.NewAuthorization("only students may confirm payments")
	}
	if paymentID == "" {
		return nil, domain.NewValidation("missing paymentId")
	}

	intent, err := s.paymentRepo.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if intent.UserID != actor.ID {
		return nil, domain.NewNotFound("payment", "")
	}

	now := time.Now().UTC()
	if intent.Status != domain.PaymentStatusPaid {
		if err := s.paymentRepo.MarkPaid(ctx, intent.ID, now); err != nil {
			return nil, err
		}
		intent.MarkPaid(now)
	}

	s.logger.Debug("payment_confirmed", "Payment intent confirmed", "", map[string]interface{}{
		"payment_id": intent.ID,
	})
	return intent, nil
}
