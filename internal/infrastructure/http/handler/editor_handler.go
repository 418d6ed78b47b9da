package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/middleware"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
)

// room for multipart framing on top of the image itself
const multipartOverhead = 64 << 10

// EditorHandler exposes the admin product editor
type EditorHandler struct {
	editor        *service.EditorService
	maxImageBytes int64
	logger        *slog.Logger
}

// NewEditorHandler creates a new editor handler
func NewEditorHandler(editor *service.EditorService, maxImageBytes int64, logger *slog.Logger) *EditorHandler {
	return &EditorHandler{
		editor:        editor,
		maxImageBytes: maxImageBytes,
		logger:        logger,
	}
}

// GetEditor handles GET /admin/editor
func (h *EditorHandler) GetEditor(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.editor.Get(middleware.SessionID(r.Context())))
}

// StartCreate handles POST /admin/editor
func (h *EditorHandler) StartCreate(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.editor.StartCreate(r.Context(), middleware.SessionID(r.Context())))
}

// StartEdit handles POST /admin/editor/edit/{id}
func (h *EditorHandler) StartEdit(w http.ResponseWriter, r *http.Request) {
	state, err := h.editor.StartEdit(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, state)
}

// UpdateDraft handles PATCH /admin/editor
func (h *EditorHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	patch, err := req.ToDraftPatch()
	if err != nil {
		response.DomainError(w, err)
		return
	}

	state, err := h.editor.Update(middleware.SessionID(r.Context()), patch)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, state)
}

// Cancel handles DELETE /admin/editor
func (h *EditorHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.editor.Cancel(middleware.SessionID(r.Context())))
}

// UploadImage handles POST /admin/editor/image with a multipart "image" field
func (h *EditorHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes+multipartOverhead)

	file, _, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.DomainError(w, domain.ErrImageTooLarge)
			return
		}
		response.Error(w, http.StatusBadRequest, fmt.Errorf("image file is required: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	state, err := h.editor.UploadImage(r.Context(), middleware.SessionID(r.Context()), data)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, state)
}

// RequestDescription handles POST /admin/editor/description. The description
// arrives later; poll GET /admin/editor.
func (h *EditorHandler) RequestDescription(w http.ResponseWriter, r *http.Request) {
	state, err := h.editor.RequestDescription(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, state)
}

// Submit handles POST /admin/editor/submit
func (h *EditorHandler) Submit(w http.ResponseWriter, r *http.Request) {
	saved, err := h.editor.Submit(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	status := http.StatusOK
	if saved.Mode == string(domain.EditorCreating) {
		status = http.StatusCreated
	}
	response.JSON(w, status, saved)
}
