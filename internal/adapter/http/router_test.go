package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queueless/canteen/internal/adapter/logger"
	"github.com/queueless/canteen/internal/adapter/memory"
	"github.com/queueless/canteen/internal/adapter/rabbitmq"
	"github.com/queueless/canteen/internal/app/auth"
	"github.com/queueless/canteen/internal/app/catalog"
	"github.com/queueless/canteen/internal/app/order"
	"github.com/queueless/canteen/internal/app/payment"
	"github.com/queueless/canteen/internal/app/pickup"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.NewStore()
	store.Seed()

	orderRepo := memory.NewOrderRepository(store)
	menuRepo := memory.NewMenuRepository(store)
	paymentRepo := memory.NewPaymentRepository(store)
	userRepo := memory.NewUserRepository(store)

	lgr := logger.Nop()
	publisher := rabbitmq.NopPublisher{}

	handler := NewRouter(RouterConfig{
		Orders:   order.NewService(orderRepo, menuRepo, paymentRepo, publisher, lgr),
		Pickups:  pickup.NewService(orderRepo, publisher, lgr),
		Payments: payment.NewService(paymentRepo, lgr),
		Catalog:  catalog.NewService(menuRepo, lgr),
		Auth:     auth.NewService(userRepo, lgr),
		Logger:   lgr,
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, server *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, server.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func doJSONList(t *testing.T, server *httptest.Server, path, token string) (*http.Response, []map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, server.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func login(t *testing.T, server *httptest.Server, email, password string) string {
	t.Helper()

	resp, body := doJSON(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, server, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestMenuIsPublic(t *testing.T) {
	server := newTestServer(t)

	resp, items := doJSONList(t, server, "/api/menu", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, items, 5)
}

func TestOrdersRequireAuth(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, server, http.MethodPost, "/api/orders", "", map[string]any{
		"items": []map[string]any{{"itemId": "m1", "qty": 1}},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized", body["message"])
}

func TestOrderLifecycle(t *testing.T) {
	server := newTestServer(t)

	studentToken := login(t, server, "student@canteen.com", "student123")
	vendorToken := login(t, server, "vendor@canteen.com", "vendor123")

	// Student places an order.
	resp, placed := doJSON(t, server, http.MethodPost, "/api/orders", studentToken, map[string]any{
		"items": []map[string]any{
			{"itemId": "m1", "qty": 2},
			{"itemId": "m4", "qty": 1},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	orderID, _ := placed["id"].(string)
	pickupToken, _ := placed["pickupToken"].(string)
	require.NotEmpty(t, orderID)
	require.NotEmpty(t, pickupToken)
	assert.Equal(t, "0001", placed["orderNumber"])
	assert.Equal(t, float64(105), placed["total"])
	assert.Equal(t, float64(19), placed["etaMinutes"])
	assert.Equal(t, "Pending", placed["status"])
	assert.Equal(t, "Pay on pickup", placed["paymentMethodLabel"])

	// Vendor walks it to Ready.
	resp, body := doJSON(t, server, http.MethodPatch, "/api/orders/"+orderID+"/status", vendorToken, map[string]string{
		"status": "Preparing",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Preparing", body["status"])

	resp, body = doJSON(t, server, http.MethodPatch, "/api/orders/"+orderID+"/status", vendorToken, map[string]string{
		"status": "Ready",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ready", body["status"])

	// Vendor may not force completion through the status route.
	resp, body = doJSON(t, server, http.MethodPatch, "/api/orders/"+orderID+"/status", vendorToken, map[string]string{
		"status": "Completed",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "use pickup verification to complete orders", body["message"])

	// Redemption completes the order.
	resp, body = doJSON(t, server, http.MethodPost, "/api/orders/redeem-by-token", vendorToken, map[string]string{
		"token": pickupToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Completed", body["status"])
	assert.NotEmpty(t, body["pickupTokenRedeemedAt"])

	// Stock deducts at pickup.
	_, items := doJSONList(t, server, "/api/menu", "")
	for _, item := range items {
		if item["id"] == "m1" {
			assert.Equal(t, float64(23), item["stock"])
		}
	}

	// A second redemption fails.
	resp, body = doJSON(t, server, http.MethodPost, "/api/orders/redeem-by-token", vendorToken, map[string]string{
		"token": pickupToken,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "order already picked up", body["message"])
}

func TestStaffListingHidesTokens(t *testing.T) {
	server := newTestServer(t)

	studentToken := login(t, server, "student@canteen.com", "student123")
	vendorToken := login(t, server, "vendor@canteen.com", "vendor123")

	resp, _ := doJSON(t, server, http.MethodPost, "/api/orders", studentToken, map[string]any{
		"items": []map[string]any{{"itemId": "m1", "qty": 1}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, mine := doJSONList(t, server, "/api/orders", studentToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, mine, 1)
	assert.NotEmpty(t, mine[0]["pickupToken"])

	resp, board := doJSONList(t, server, "/api/orders", vendorToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, board, 1)
	_, exposed := board[0]["pickupToken"]
	assert.False(t, exposed)
}

func TestPaymentFlow(t *testing.T) {
	server := newTestServer(t)

	studentToken := login(t, server, "student@canteen.com", "student123")

	// An unpaid intent does not admit the order.
	resp, intent := doJSON(t, server, http.MethodPost, "/api/payments/create-order", studentToken, map[string]any{
		"amount": 80,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	paymentID, _ := intent["id"].(string)
	require.NotEmpty(t, paymentID)
	assert.Equal(t, "INR", intent["currency"])

	placeReq := map[string]any{
		"items":         []map[string]any{{"itemId": "m1", "qty": 2}},
		"paymentMethod": "razorpay_simulated",
		"paymentId":     paymentID,
	}
	resp, body := doJSON(t, server, http.MethodPost, "/api/orders", studentToken, placeReq)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "payment not confirmed", body["message"])

	resp, confirmed := doJSON(t, server, http.MethodPost, "/api/payments/confirm", studentToken, map[string]string{
		"paymentId": paymentID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "paid", confirmed["status"])

	resp, placed := doJSON(t, server, http.MethodPost, "/api/orders", studentToken, placeReq)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "razorpay_simulated", placed["paymentMethod"])
	assert.Equal(t, "Razorpay (simulated)", placed["paymentMethodLabel"])
}

func TestMenuAdministration(t *testing.T) {
	server := newTestServer(t)

	adminToken := login(t, server, "admin@canteen.com", "admin123")
	vendorToken := login(t, server, "vendor@canteen.com", "vendor123")

	resp, created := doJSON(t, server, http.MethodPost, "/api/menu", adminToken, map[string]any{
		"name":     "Filter Coffee",
		"category": "Beverages",
		"price":    20,
		"prepTime": 4,
		"stock":    30,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	itemID, _ := created["id"].(string)
	require.NotEmpty(t, itemID)

	resp, updated := doJSON(t, server, http.MethodPut, "/api/menu/"+itemID, adminToken, map[string]any{
		"price": 25,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(25), updated["price"])

	// Vendors adjust stock but may not edit the catalog.
	resp, stocked := doJSON(t, server, http.MethodPatch, "/api/menu/"+itemID+"/stock", vendorToken, map[string]any{
		"stock":     5,
		"available": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(5), stocked["stock"])
	assert.Equal(t, false, stocked["available"])

	resp, body := doJSON(t, server, http.MethodPut, "/api/menu/"+itemID, vendorToken, map[string]any{
		"price": 30,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.NotEmpty(t, body["message"])

	resp, _ = doJSON(t, server, http.MethodDelete, "/api/menu/"+itemID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterAndMe(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "New Student",
		"email":    "new@canteen.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, me := doJSON(t, server, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "new@canteen.com", me["email"])
	assert.Equal(t, "student", me["role"])

	resp, _ = doJSON(t, server, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, server, http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnknownStatusRejected(t *testing.T) {
	server := newTestServer(t)

	studentToken := login(t, server, "student@canteen.com", "student123")
	vendorToken := login(t, server, "vendor@canteen.com", "vendor123")

	resp, placed := doJSON(t, server, http.MethodPost, "/api/orders", studentToken, map[string]any{
		"items": []map[string]any{{"itemId": "m1", "qty": 1}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	orderID := placed["id"].(string)

	resp, body := doJSON(t, server, http.MethodPatch, fmt.Sprintf("/api/orders/%s/status", orderID), vendorToken, map[string]string{
		"status": "Cancelled",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["message"])
}
