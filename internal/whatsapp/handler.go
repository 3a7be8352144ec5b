package whatsapp

import (
	"net/http"
	"strings"

	"github.com/wellnessflow/booking-api/pkg/logging"
)

// Handler receives inbound provider webhooks so user-initiated messages
// open the interaction window for later freeform sends.
type Handler struct {
	store  InteractionStore
	logger *logging.Logger
}

// NewHandler creates the webhook handler.
func NewHandler(store InteractionStore, logger *logging.Logger) *Handler {
	if store == nil {
		store = NewNoopInteractionStore(logger)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// InboundMessage handles POST /webhooks/whatsapp form posts from the
// messaging provider.
func (h *Handler) InboundMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	from := strings.TrimPrefix(r.FormValue("From"), "whatsapp:")
	phone := Digits(from)
	if phone == "" {
		http.Error(w, "missing From number", http.StatusBadRequest)
		return
	}

	if err := h.store.Touch(r.Context(), phone); err != nil {
		h.logger.Error("failed to record interaction", "phone", phone, "error", err)
		http.Error(w, "failed to record interaction", http.StatusInternalServerError)
		return
	}

	h.logger.Info("interaction recorded", "phone", phone)
	w.WriteHeader(http.StatusNoContent)
}
