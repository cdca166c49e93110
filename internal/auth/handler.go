package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/minimart-io/minimart/internal/auth/jwt"
	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/internal/pkg/httputil"
)

// Handler handles HTTP requests for the auth module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers public auth routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/validate", h.Validate)
	})
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/me", h.Me)
}

// RegisterAdminRoutes registers routes that require the ADMIN role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Patch("/users/{username}/status", h.SetUserStatus)
}

// RegisterRequest represents registration request body.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	result, err := h.service.Register(r.Context(), RegisterInput(req))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, result)
}

// LoginRequest represents login request body.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), LoginInput(req))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, result)
}

// ValidateResponse is returned for a valid token.
type ValidateResponse struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// Validate handles POST /auth/validate. It checks the bearer token from the
// Authorization header and returns its identity claims.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		httputil.Error(w, http.StatusBadRequest, "invalid authorization header")
		return
	}

	username, role, err := h.service.ValidateToken(r.Context(), parts[1])
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, ValidateResponse{
		Username: username,
		Role:     role,
	})
}

// Me handles GET /me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := httputil.IdentityFromContext(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.service.GetUserByUsername(r.Context(), identity.Subject)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, user)
}

// UserStatusRequest represents the body for enabling/disabling an account.
type UserStatusRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// SetUserStatus handles PATCH /users/{username}/status.
func (h *Handler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req UserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	if err := h.service.SetUserEnabled(r.Context(), username, *req.Enabled); err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	if errors.Is(err, jwt.ErrInvalidToken) {
		// Token failures share one message regardless of the parse detail.
		httputil.Error(w, http.StatusUnauthorized, jwt.ErrInvalidToken.Error())
		return
	}

	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrUsernameExists, Status: http.StatusConflict},
		{Error: ErrEmailExists, Status: http.StatusConflict},
		{Error: ErrInvalidCredentials, Status: http.StatusUnauthorized},
		{Error: ErrUserNotFound, Status: http.StatusNotFound},
	})
}
