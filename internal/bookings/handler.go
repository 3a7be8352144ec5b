package bookings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wellnessflow/booking-api/pkg/logging"
)

// Handler handles HTTP requests for bookings
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new bookings handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Create handles POST /bookings requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.service.Submit(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation), errors.Is(err, ErrSlotTaken):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to create booking", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

// List handles GET /bookings requests with optional date and terapiasType filters
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Date:        r.URL.Query().Get("date"),
		TherapyType: r.URL.Query().Get("terapiasType"),
	}

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list bookings", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if list == nil {
		list = []*Booking{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /bookings/{id} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Update handles PUT /bookings/{id} requests
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, ErrNotFound.Error())
		case errors.Is(err, ErrValidation), errors.Is(err, ErrSlotTaken):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to update booking", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Delete handles DELETE /bookings/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) respondLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	h.logger.Error("booking lookup failed", "error", err)
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
