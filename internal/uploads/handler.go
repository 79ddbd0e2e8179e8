package uploads

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkpost/inkpost/internal/platform/httpx"
)

const fieldName = "image"

// Handler wires the authenticated upload endpoint.
type Handler struct {
	logger *slog.Logger
	gate   *Gate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, gate *Gate) *Handler {
	return &Handler{logger: logger, gate: gate}
}

// MountProtectedRoutes registers the upload route.
func (h *Handler) MountProtectedRoutes(r chi.Router) {
	r.Post("/upload", h.handleUpload)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	// A small allowance on top of the ceiling covers multipart framing;
	// the per-file size is still checked exactly by the gate.
	r.Body = http.MaxBytesReader(w, r.Body, h.gate.MaxBytes()+1<<20)
	if err := r.ParseMultipartForm(h.gate.MaxBytes()); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httpx.RespondError(w, httpx.ErrPayloadTooLarge)
			return
		}
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid multipart body")
		return
	}

	file, header, err := r.FormFile(fieldName)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "image file is required")
		return
	}
	_ = file.Close()

	url, err := h.gate.Accept(header)
	if err != nil {
		if h.logger != nil && !errors.Is(err, httpx.ErrUnsupportedMedia) &&
			!errors.Is(err, httpx.ErrPayloadTooLarge) && !errors.Is(err, httpx.ErrBadRequest) {
			h.logger.Warn("store upload", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"url": url})
}
