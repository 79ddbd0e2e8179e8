package posts

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/platform/httpx"
	"github.com/inkpost/inkpost/internal/validate"
)

// Handler wires HTTP endpoints for posts.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountPublicRoutes registers the read-only post routes.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/posts", h.handleList)
	r.Get("/posts/{id}", h.handleGet)
}

// MountProtectedRoutes registers the owner-gated mutation routes.
func (h *Handler) MountProtectedRoutes(r chi.Router) {
	r.Post("/posts", h.handleCreate)
	r.Patch("/posts/{id}", h.handlePatch)
	r.Delete("/posts/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, "list posts", err)
		return
	}
	httpx.JSON(w, http.StatusOK, feed)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	post, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get post", err)
		return
	}
	httpx.JSON(w, http.StatusOK, post)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity(w, r)
	if !ok {
		return
	}
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if !h.checkRules(w, req) {
		return
	}
	post, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		h.respondError(w, "create post", err)
		return
	}
	httpx.JSON(w, http.StatusOK, post)
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := postID(w, r)
	if !ok {
		return
	}
	var req PatchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if !h.checkRules(w, req) {
		return
	}
	post, err := h.service.Update(r.Context(), userID, id, req)
	if err != nil {
		h.respondError(w, "update post", err)
		return
	}
	httpx.JSON(w, http.StatusOK, post)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := postID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.respondError(w, "delete post", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

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

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if h.logger != nil && !errors.Is(err, httpx.ErrNotFound) && !errors.Is(err, httpx.ErrForbidden) {
		h.logger.Warn(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func identity(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing identity")
		return 0, false
	}
	return userID, true
}

func postID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "post not found")
		return uuid.Nil, false
	}
	return id, true
}
