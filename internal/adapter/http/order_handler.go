package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/queueless/canteen/internal/adapter/logger"
	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

type OrderHandler struct {
	orders  interfaces.OrderService
	pickups interfaces.PickupService
	auth    interfaces.AuthService
	logger  logger.Logger
}

func NewOrderHandler(orders interfaces.OrderService, pickups interfaces.PickupService, auth interfaces.AuthService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		pickups: pickups,
		auth:    auth,
		logger:  logger,
	}
}

type placeOrderRequest struct {
	Items         []orderLineRequest `json:"items"`
	PaymentMethod string             `json:"paymentMethod"`
	PaymentID     *string            `json:"paymentId"`
}

type orderLineRequest struct {
	ItemID string `json:"itemId"`
	Qty    int    `json:"qty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type redeemTokenRequest struct {
	Token string `json:"token"`
}

type lineItemResponse struct {
	ItemID string `json:"itemId"`
	Name   string `json:"name"`
	Price  int    `json:"price"`
	Qty    int    `json:"qty"`
}

type orderResponse struct {
	ID                    string             `json:"id"`
	OrderNumber           string             `json:"orderNumber"`
	UserID                string             `json:"userId"`
	CustomerName          string             `json:"customerName"`
	Items                 []lineItemResponse `json:"items"`
	Total                 int                `json:"total"`
	Status                string             `json:"status"`
	CreatedAt             time.Time          `json:"createdAt"`
	ETAMinutes            int                `json:"etaMinutes"`
	PaymentMethod         string             `json:"paymentMethod"`
	PaymentMethodLabel    string             `json:"paymentMethodLabel"`
	PaymentID             *string            `json:"paymentId,omitempty"`
	PickupToken           string             `json:"pickupToken,omitempty"`
	PickupTokenIssuedAt   *time.Time         `json:"pickupTokenIssuedAt,omitempty"`
	PickupTokenRedeemedAt *time.Time         `json:"pickupTokenRedeemedAt,omitempty"`
}

func toOrderResponse(order *domain.Order, includeToken bool) orderResponse {
	items := make([]lineItemResponse, 0, len(order.Items))
	for _, line := range order.Items {
		items = append(items, lineItemResponse{
			ItemID: line.ItemID,
			Name:   line.Name,
			Price:  line.Price,
			Qty:    line.Qty,
		})
	}

	resp := orderResponse{
		ID:                    order.ID,
		OrderNumber:           order.Number,
		UserID:                order.UserID,
		CustomerName:          order.CustomerName,
		Items:                 items,
		Total:                 order.Total,
		Status:                string(order.Status),
		CreatedAt:             order.CreatedAt,
		ETAMinutes:            order.ETAMinutes,
		PaymentMethod:         string(order.PaymentMethod),
		PaymentMethodLabel:    order.PaymentMethod.Label(),
		PaymentID:             order.PaymentID,
		PickupTokenRedeemedAt: order.PickupTokenRedeemedAt,
	}
	if includeToken {
		resp.PickupToken = order.PickupToken
		issuedAt := order.PickupTokenIssuedAt
		resp.PickupTokenIssuedAt = &issuedAt
	}
	return resp
}

// HandleOrders serves /api/orders: GET lists, POST places an order.
func (h *OrderHandler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		requireAuth(h.auth, h.listOrders)(w, r)
	case http.MethodPost:
		requireAuth(h.auth, h.placeOrder)(w, r)
	default:
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request, actor *domain.User) {
	orders, err := h.orders.ListOrders(r.Context(), actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		// Staff see the full board but never the customer's token.
		includeToken := order.UserID == actor.ID
		resp = append(resp, toOrderResponse(order, includeToken))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) placeOrder(w http.ResponseWriter, r *http.Request, actor *domain.User) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cmd := interfaces.PlaceOrderCommand{
		PaymentMethod: req.PaymentMethod,
		PaymentID:     req.PaymentID,
	}
	for _, line := range req.Items {
		cmd.Items = append(cmd.Items, interfaces.OrderLineCommand{
			ItemID: line.ItemID,
			Qty:    line.Qty,
		})
	}

	order, err := h.orders.PlaceOrder(r.Context(), actor, cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order, true))
}

// HandleOrderAction serves /api/orders/{id}/status (PATCH),
// /api/orders/{id}/redeem (POST) and /api/orders/redeem-by-token (POST).
func (h *OrderHandler) HandleOrderAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 {
		respondError(w, "Invalid path", http.StatusBadRequest)
		return
	}

	if len(parts) == 3 && parts[2] == "redeem-by-token" {
		if r.Method != http.MethodPost {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		requireAuth(h.auth, h.redeemByToken)(w, r)
		return
	}

	if len(parts) != 4 {
		respondError(w, "Not found", http.StatusNotFound)
		return
	}
	id := parts[2]

	switch {
	case parts[3] == "status" && r.Method == http.MethodPatch:
		requireAuth(h.auth, func(w http.ResponseWriter, r *http.Request, actor *domain.User) {
			h.updateStatus(w, r, actor, id)
		})(w, r)

	case parts[3] == "redeem" && r.Method == http.MethodPost:
		requireAuth(h.auth, func(w http.ResponseWriter, r *http.Request, actor *domain.User) {
			h.redeemOrder(w, r, actor, id)
		})(w, r)

	default:
		respondError(w, "Not found", http.StatusNotFound)
	}
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request, actor *domain.User, id string) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order, false))
}

func (h *OrderHandler) redeemOrder(w http.ResponseWriter, r *http.Request, actor *domain.User, id string) {
	var req redeemTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.pickups.RedeemOrder(r.Context(), actor, id, req.Token)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order, false))
}

func (h *OrderHandler) redeemByToken(w http.ResponseWriter, r *http.Request, actor *domain.User) {
	var req redeemTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.pickups.RedeemByToken(r.Context(), actor, req.Token)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order, false))
}
