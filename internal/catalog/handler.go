package catalog

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hokkystyle/toolrent-backend/pkg/logging"
)

// Handler serves the read-only catalog endpoints. A nil store means no
// database is configured; the fixed samples are served instead.
type Handler struct {
	store  Store
	logger *logging.Logger
	now    func() time.Time
}

// NewHandler creates a catalog handler. store may be nil.
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger, now: time.Now}
}

// GetInventory handles GET /api/inventory requests
func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	tools := SampleInventory()
	if h.store != nil {
		rows, err := h.store.Inventory(r.Context())
		switch {
		case err != nil:
			h.logger.Error("failed to query inventory", "error", err)
		case len(rows) > 0:
			tools = rows
		}
	}
	writeJSON(w, http.StatusOK, tools)
}

// GetReviews handles GET /api/reviews requests
func (h *Handler) GetReviews(w http.ResponseWriter, r *http.Request) {
	reviews := SampleReviews(h.now().UTC().Format(time.RFC3339))
	if h.store != nil {
		rows, err := h.store.Reviews(r.Context())
		switch {
		case err != nil:
			h.logger.Error("failed to query reviews", "error", err)
		case len(rows) > 0:
			reviews = rows
		}
	}
	writeJSON(w, http.StatusOK, reviews)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
