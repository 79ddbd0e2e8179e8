package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkpost/inkpost/internal/platform/httpx"
	"github.com/inkpost/inkpost/internal/validate"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountPublicRoutes registers the unauthenticated auth routes.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Post("/signup", h.handleSignup)
	r.Post("/login", h.handleLogin)
}

// MountProtectedRoutes registers routes that require a verified identity.
func (h *Handler) MountProtectedRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if !h.checkRules(w, req) {
		return
	}
	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "signup", err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if !h.checkRules(w, req) {
		return
	}
	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "login", err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := IdentityFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing identity")
		return
	}
	user, err := h.service.Self(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, "me", err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

// checkRules runs the request rule-set and writes the field-level
// failure response. Validation stops the request before any service
// logic runs.
func (h *Handler) checkRules(w http.ResponseWriter, payload any) bool {
	err := validate.Check(payload)
	if err == nil {
		return true
	}
	var fieldErrs *validate.FieldErrors
	if errors.As(err, &fieldErrs) {
		httpx.ProblemFields(w, "request validation failed", fieldErrs.Fields)
	} else {
		httpx.RespondError(w, err)
	}
	return false
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if h.logger != nil && !errors.Is(err, httpx.ErrUnauthorized) && !errors.Is(err, httpx.ErrDuplicate) {
		h.logger.Warn("auth "+op, slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}
