package http

import (
	"net/http"

	"github.com/queueless/canteen/internal/adapter/logger"
	"github.com/queueless/canteen/internal/interfaces"
)

type RouterConfig struct {
	Orders   interfaces.OrderService
	Pickups  interfaces.PickupService
	Payments interfaces.PaymentService
	Catalog  interfaces.CatalogService
	Auth     interfaces.AuthService
	Logger   logger.Logger
}

// NewRouter wires every handler onto a mux and wraps it with the
// logging and recovery middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(cfg.Auth, cfg.Logger)
	menuHandler := NewMenuHandler(cfg.Catalog, cfg.Auth, cfg.Logger)
	orderHandler := NewOrderHandler(cfg.Orders, cfg.Pickups, cfg.Auth, cfg.Logger)
	paymentHandler := NewPaymentHandler(cfg.Payments, cfg.Auth, cfg.Logger)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/logout", requireAuth(cfg.Auth, authHandler.Logout))
	mux.HandleFunc("/api/me", requireAuth(cfg.Auth, authHandler.Me))

	mux.HandleFunc("/api/menu", menuHandler.HandleMenu)
	mux.HandleFunc("/api/menu/", menuHandler.HandleMenuItem)

	mux.HandleFunc("/api/orders", orderHandler.HandleOrders)
	mux.HandleFunc("/api/orders/", orderHandler.HandleOrderAction)

	mux.HandleFunc("/api/payments/create-order", paymentHandler.CreateIntent)
	mux.HandleFunc("/api/payments/confirm", paymentHandler.Confirm)

	var handler http.Handler = mux
	handler = RecoveryMiddleware(cfg.Logger)(handler)
	handler = LoggingMiddleware(cfg.Logger)(handler)
	return handler
}
