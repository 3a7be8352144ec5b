package therapies

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wellnessflow/booking-api/pkg/logging"
)

// Handler handles HTTP requests for the therapy catalog
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new therapies handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /terapias requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	comments := req.Comments
	if comments == nil {
		comments = []string{}
	}
	t := &Therapy{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Price:           *req.Price,
		DurationMinutes: *req.DurationMinutes,
		BackgroundImage: req.BackgroundImage,
		Comments:        comments,
		MassageKind:     req.MassageKind,
		BodyZone:        req.BodyZone,
	}
	applyCategoryGates(t)

	if err := h.repo.Insert(r.Context(), t); err != nil {
		h.logger.Error("failed to create therapy", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.logger.Info("therapy created", "therapy_id", t.ID, "name", t.Name, "category", t.Category)
	writeJSON(w, http.StatusCreated, t)
}

// List handles GET /terapias requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list therapies", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if list == nil {
		list = []*Therapy{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /terapias/{id} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Update handles PUT /terapias/{id} requests
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.Price != nil {
		t.Price = *req.Price
	}
	if req.DurationMinutes != nil {
		t.DurationMinutes = *req.DurationMinutes
	}
	if req.BackgroundImage != nil {
		t.BackgroundImage = *req.BackgroundImage
	}
	if req.Comments != nil {
		t.Comments = *req.Comments
	}
	if req.MassageKind != nil {
		t.MassageKind = *req.MassageKind
	}
	if req.BodyZone != nil {
		t.BodyZone = *req.BodyZone
	}
	applyCategoryGates(t)

	if err := h.repo.Update(r.Context(), t); err != nil {
		h.respondLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Delete handles DELETE /terapias/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) respondLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	h.logger.Error("therapy lookup failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
