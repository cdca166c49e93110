package order

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/internal/pkg/httputil"
)

// Handler handles HTTP requests for the order module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new order handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers order routes. All of them require an
// authenticated caller.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Get("/{id}/total", h.GetOrderTotal)
		r.Patch("/{id}/status", h.UpdateStatus)
		r.Delete("/{id}", h.DeleteOrder)

		r.Post("/{id}/items", h.AddItem)
		r.Patch("/{id}/items/{itemID}", h.UpdateItemQuantity)
		r.Delete("/{id}/items/{itemID}", h.RemoveItem)
	})

	r.Get("/customers/{customerID}/orders/count", h.CountByCustomer)
	r.Get("/customers/{customerID}/orders/purchases", h.PurchaseCount)

	r.Get("/products/{productID}/orders/count", h.CountOrdersContainingProduct)
}

// CreateOrderRequest represents the request body for creating an order.
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id" validate:"required"`
	Items      []ItemInputRequest `json:"items" validate:"required,min=1,dive"`
}

// ItemInputRequest represents one order line in a request body.
type ItemInputRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateOrder handles POST /orders.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	items := make([]ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, ItemInput(item))
	}

	order, err := h.service.CreateOrder(r.Context(), req.CustomerID, items)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, order)
}

// GetOrder handles GET /orders/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, order)
}

// ListOrders handles GET /orders with optional customer_id and status
// query parameters.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var filter ListFilter
	q := r.URL.Query()

	if customerID := q.Get("customer_id"); customerID != "" {
		filter.CustomerID = &customerID
	}
	if raw := q.Get("status"); raw != "" {
		status := domain.OrderStatus(raw)
		filter.Status = &status
	}

	orders, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, orders)
}

// GetOrderTotal handles GET /orders/{id}/total.
func (h *Handler) GetOrderTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.TotalAmount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]float64{"total": total})
}

// UpdateStatusRequest represents the request body for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, order)
}

// DeleteOrder handles DELETE /orders/{id}.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /orders/{id}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req ItemInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	order, err := h.service.AddItem(r.Context(), chi.URLParam(r, "id"), ItemInput(req))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, order)
}

// UpdateItemRequest represents the request body for an item quantity change.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// UpdateItemQuantity handles PATCH /orders/{id}/items/{itemID}.
func (h *Handler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	order, err := h.service.UpdateItemQuantity(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), req.Quantity)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, order)
}

// RemoveItem handles DELETE /orders/{id}/items/{itemID}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.RemoveItem(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, order)
}

// CountByCustomer handles GET /customers/{customerID}/orders/count.
func (h *Handler) CountByCustomer(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountByCustomer(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]int{"count": count})
}

// CountOrdersContainingProduct handles GET /products/{productID}/orders/count.
func (h *Handler) CountOrdersContainingProduct(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountOrdersContainingProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]int{"count": count})
}

// PurchaseCount handles GET /customers/{customerID}/orders/purchases with
// optional from and to query parameters in RFC 3339 format.
func (h *Handler) PurchaseCount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var from, to *time.Time
	for param, dst := range map[string]**time.Time{
		"from": &from,
		"to":   &to,
	} {
		if raw := q.Get(param); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				httputil.Error(w, http.StatusBadRequest, "invalid query parameter: "+param)
				return
			}
			*dst = &t
		}
	}

	count, err := h.service.PurchaseCount(r.Context(), chi.URLParam(r, "customerID"), from, to)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]int{"count": count})
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrOrderNotFound, Status: http.StatusNotFound},
		{Error: ErrOrderItemNotFound, Status: http.StatusNotFound},
		{Error: ErrInvalidStatus, Status: http.StatusBadRequest},
	})
}
