package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"postboard/internal/api/shared"
	"postboard/internal/cache"
	"postboard/internal/domain"
	"postboard/internal/service"
)

// PostHandler serves the CRUD endpoints for one API version. The v1 and v2
// route groups share this single handler set: each version constructs its own
// instance differing only in the cache namespace, and the router decides
// whether the auth gate runs in front.
type PostHandler struct {
	postService *service.PostService
	namespace   cache.Namespace
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewPostHandler creates a PostHandler bound to the given cache namespace.
func NewPostHandler(
	postService *service.PostService,
	namespace cache.Namespace,
	logger *slog.Logger,
) *PostHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostHandler{
		postService: postService,
		namespace:   namespace,
		validator:   newValidator(),
		logger:      logger.With(slog.String("component", "post_handler"), slog.String("version", string(namespace))),
	}
}

// List handles GET /posts. The response is the cached serialized array.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	body, err := h.postService.List(r.Context(), h.namespace)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithRawJSON(w, r, http.StatusOK, body)
}

// Get handles GET /posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	post, err := h.postService.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, post)
}

// Create handles POST /posts. Fields absent from the payload surface as
// domain validation errors rather than database constraint failures.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PostPayload
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, sanitizeValidationError(err))
		return
	}

	var userID int64
	if req.UserID != nil {
		userID = *req.UserID
	}
	var title, body string
	if req.Title != nil {
		title = *req.Title
	}
	if req.Body != nil {
		body = *req.Body
	}

	post, err := h.postService.Create(r.Context(), h.namespace, userID, title, body)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, post)
}

// Update handles both PUT and PATCH /posts/{id}. The two verbs share these
// overwrite-present-fields semantics; there is no separate full-replace mode.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	var req PostPayload
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, sanitizeValidationError(err))
		return
	}

	post, err := h.postService.Update(r.Context(), h.namespace, id, domain.PostPatch{
		UserID: req.UserID,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, post)
}

// Delete handles DELETE /posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if err := h.postService.Delete(r.Context(), h.namespace, id); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeleteResponse{Deleted: id})
}
