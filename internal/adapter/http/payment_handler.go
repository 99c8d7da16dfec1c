package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/queueless/canteen/internal/adapter/logger"
	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

type PaymentHandler struct {
	service interfaces.PaymentService
	auth    interfaces.AuthService
	logger  logger.Logger
}

func NewPaymentHandler(service interfaces.PaymentService, auth interfaces.AuthService, logger logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		auth:    auth,
		logger:  logger,
	}
}

type createIntentRequest struct {
	Amount int `json:"amount"`
}

type confirmPaymentRequest struct {
	PaymentID string `json:"paymentId"`
}

type paymentResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Amount    int        `json:"amount"`
	Currency  string     `json:"currency"`
	Provider  string     `json:"provider"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
}

func toPaymentResponse(intent *domain.PaymentIntent) paymentResponse {
	return paymentResponse{
		ID:        intent.ID,
		UserID:    intent.UserID,
		Amount:    intent.Amount,
		Currency:  intent.Currency,
		Provider:  intent.Provider,
		Status:    string(intent.Status),
		CreatedAt: intent.CreatedAt,
		PaidAt:    intent.PaidAt,
	}
}

func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	requireAuth(h.auth, func(w http.ResponseWriter, r *http.Request, actor *domain.User) {
		var req createIntentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		intent, err := h.service.CreateIntent(r.Context(), actor, req.Amount)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, toPaymentResponse(intent))
	})(w, r)
}

func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	requireAuth(h.auth, func(w http.ResponseWriter, r *http.Request, actor *domain.User) {
		var req confirmPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		intent, err := h.service.Confirm(r.Context(), actor, req.PaymentID)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, toPaymentResponse(intent))
	})(w, r)
}
