package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/queueless/canteen/internal/adapter/logger"
	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

type MenuHandler struct {
	service interfaces.CatalogService
	auth    interfaces.AuthService
	logger  logger.Logger
}

func NewMenuHandler(service interfaces.CatalogService, auth interfaces.AuthService, logger logger.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		auth:    auth,
		logger:  logger,
	}
}

type menuItemRequest struct {
	Name      *string `json:"name"`
	Category  *string `json:"category"`
	Price     *int    `json:"price"`
	PrepTime  *int    `json:"prepTime"`
	Stock     *int    `json:"stock"`
	Available *bool   `json:"available"`
}

type menuItemResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     int    `json:"price"`
	PrepTime  int    `json:"prepTime"`
	Stock     int    `json:"stock"`
	Available bool   `json:"available"`
}

func toMenuItemResponse(item *domain.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		Category:  item.Category,
		Price:     item.Price,
		PrepTime:  item.PrepTime,
		Stock:     item.Stock,
		Available: item.Available,
	}
}

// HandleMenu serves /api/menu: the listing is public, creation needs
// an authenticated admin.
func (h *MenuHandler) HandleMenu(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := h.service.ListMenu(r.Context())
		if err != nil {
			respondDomainError(w, err)
			return
		}
		resp := make([]menuItemResponse, 0, len(items))
		for _, item := range items {
			resp = append(resp, toMenuItemResponse(item))
		}
		respondJSON(w, http.StatusOK, resp)

	case http.MethodPost:
		requireAuth(h.auth, h.createItem)(w, r)

	default:
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *MenuHandler) createItem(w http.ResponseWriter, r *http.Request, actor *domain.User) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == nil || req.Category == nil || req.Price == nil || req.PrepTime == nil {
		respondError(w, "Missing fields", http.StatusBadRequest)
		return
	}

	cmd := interfaces.MenuItemCommand{
		Name:      *req.Name,
		Category:  *req.Category,
		Price:     *req.Price,
		PrepTime:  *req.PrepTime,
		Available: true,
	}
	if req.Stock != nil {
		cmd.Stock = *req.Stock
	}
	if req.Available != nil {
		cmd.Available = *req.Available
	}

	item, err := h.service.CreateItem(r.Context(), actor, cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toMenuItemResponse(item))
}

// HandleMenuItem serves /api/menu/{id} (PUT, DELETE) and
// /api/menu/{id}/stock (PATCH).
func (h *MenuHandler) HandleMenuItem(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 {
		respondError(w, "Invalid path", http.StatusBadRequest)
		return
	}
	id := parts[2]

	switch {
	case len(parts) == 3 && r.Method == http.MethodPut:
		requireAuth(h.auth, func(w http.ResponseWriter, r *http.Request, actor *domain.User) {
			h.updateItem(w, r, actor, id)
		})(w, r)

	case len(parts) == 3 && r.Method == http.MethodDelete:
		requireAuth(h.auth, func(w http.ResponseWriter, r *http.Request, actor *domain.User) {
			if err := h.service.DeleteItem(r.Context(), actor, id); err != nil {
				respondDomainError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
		})(w, r)

	case len(parts) == 4 && parts[3] == "stock" && r.Method == http.MethodPatch:
		requireAuth(h.auth, func(w http.ResponseWriter, r *http.Request, actor *domain.User) {
			h.setStock(w, r, actor, id)
		})(w, r)

	default:
		respondError(w, "Not found", http.StatusNotFound)
	}
}

func (h *MenuHandler) updateItem(w http.ResponseWriter, r *http.Request, actor *domain.User, id string) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), actor, id, interfaces.UpdateMenuItemCommand{
		Name:      req.Name,
		Category:  req.Category,
		Price:     req.Price,
		PrepTime:  req.PrepTime,
		Stock:     req.Stock,
		Available: req.Available,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toMenuItemResponse(item))
}

func (h *MenuHandler) setStock(w http.ResponseWriter, r *http.Request, actor *domain.User, id string) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.service.SetStockAndAvailability(r.Context(), actor, id, req.Stock, req.Available)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toMenuItemResponse(item))
}
