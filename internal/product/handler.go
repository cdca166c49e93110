package product

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/internal/pkg/httputil"
)

// Handler handles HTTP requests for the product module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new product handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers read-only product routes.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Get("/products/count", h.CountProducts)
	r.Get("/products/{id}", h.GetProduct)
}

// RegisterAdminRoutes registers product mutation routes (ADMIN only).
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/products", h.CreateProduct)
	r.Put("/products/{id}", h.UpdateProduct)
	r.Patch("/products/{id}/stock", h.UpdateStock)
	r.Delete("/products/{id}", h.DeleteProduct)
}

// CreateProductRequest represents the request body for creating a product.
type CreateProductRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=255"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
}

// CreateProduct handles POST /products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &domain.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, product)
}

// GetProduct handles GET /products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, product)
}

// ListProducts handles GET /products. Filters arrive as query parameters:
// name, min_price, max_price, min_stock, max_stock, out_of_stock, sort.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, products)
}

// CountProducts handles GET /products/count with the same filters as the
// listing endpoint.
func (h *Handler) CountProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.service.CountProducts(r.Context(), filter)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]int{"count": count})
}

// UpdateProductRequest represents the request body for updating a product.
type UpdateProductRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=255"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
}

// UpdateProduct handles PUT /products/{id}.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), UpdateProductInput(req))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, product)
}

// UpdateStockRequest represents the request body for a stock update.
type UpdateStockRequest struct {
	StockQuantity *int `json:"stock_quantity" validate:"required,gte=0"`
}

// UpdateStock handles PATCH /products/{id}/stock.
func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req UpdateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	product, err := h.service.UpdateStock(r.Context(), chi.URLParam(r, "id"), *req.StockQuantity)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var validSorts = map[string]bool{
	"":              true,
	SortPriceAsc:    true,
	SortPriceDesc:   true,
	SortStockAsc:    true,
	SortStockDesc:   true,
	SortCreatedAsc:  true,
	SortCreatedDesc: true,
}

func filterFromQuery(r *http.Request) (Filter, error) {
	var filter Filter
	q := r.URL.Query()

	if name := q.Get("name"); name != "" {
		filter.NameContains = &name
	}

	for param, dst := range map[string]**float64{
		"min_price": &filter.MinPrice,
		"max_price": &filter.MaxPrice,
	} {
		if raw := q.Get(param); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return Filter{}, errInvalidParam(param)
			}
			*dst = &v
		}
	}

	for param, dst := range map[string]**int{
		"min_stock": &filter.MinStock,
		"max_stock": &filter.MaxStock,
	} {
		if raw := q.Get(param); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return Filter{}, errInvalidParam(param)
			}
			*dst = &v
		}
	}

	filter.OutOfStock = q.Get("out_of_stock") == "true"

	filter.Sort = q.Get("sort")
	if !validSorts[filter.Sort] {
		return Filter{}, errInvalidParam("sort")
	}

	return filter, nil
}

type paramError string

func errInvalidParam(name string) error { return paramError(name) }

func (e paramError) Error() string { return "invalid query parameter: " + string(e) }

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrProductNotFound, Status: http.StatusNotFound},
	})
}
