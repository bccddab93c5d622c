package intake

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/hokkystyle/toolrent-backend/internal/ratelimit"
	"github.com/hokkystyle/toolrent-backend/pkg/logging"
)

// Handler exposes the booking and lead intake endpoints over the shared
// pipeline.
type Handler struct {
	pipeline *Pipeline
	logger   *logging.Logger
}

// NewHandler creates an intake handler.
func NewHandler(pipeline *Pipeline, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{pipeline: pipeline, logger: logger}
}

// BookingRequest is the POST /api/bookings body.
type BookingRequest struct {
	Name     string         `json:"name"`
	Contact  string         `json:"contact"`
	ToolID   string         `json:"toolId"`
	DateFrom string         `json:"dateFrom"`
	DateTo   string         `json:"dateTo"`
	Notes    string         `json:"notes"`
	Addons   map[string]any `json:"addons"`
}

// LeadRequest is the POST /api/lead body.
type LeadRequest struct {
	Name            string `json:"name"`
	PhoneOrTelegram string `json:"phoneOrTelegram"`
	ToolID          string `json:"toolId"`
	ToolName        string `json:"toolName"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	Notes           string `json:"notes"`
	UserAgent       string `json:"userAgent"`
	Referrer        string `json:"referrer"`
	PagePath        string `json:"pagePath"`
	Timestamp       string `json:"timestamp"`
}

// CreateBooking handles POST /api/bookings requests
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Не заполнены обязательные поля"})
		return
	}

	sub := &Submission{
		Flow:     FlowBooking,
		Name:     req.Name,
		Contact:  req.Contact,
		ToolID:   req.ToolID,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Notes:    req.Notes,
		Addons:   CoerceAddons(req.Addons),
		IP:       clientIP(r),
	}

	err := h.pipeline.Process(r.Context(), sub)
	switch {
	case errors.Is(err, ErrMissingField):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Не заполнены обязательные поля"})
	case err != nil:
		h.logger.Error("booking workflow failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Не удалось обработать заявку"})
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"message": "Заявка отправлена. Мы свяжемся с вами в ближайшее время.",
		})
	}
}

// CreateLead handles POST /api/lead requests. The endpoint predates the
// unified router and keeps its standalone method and preflight handling.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "POST")
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"ok": false, "error": "Method not allowed"})
		return
	}

	var req LeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode lead request", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Missing required fields"})
		return
	}

	sub := &Submission{
		Flow:      FlowLead,
		Name:      req.Name,
		Contact:   req.PhoneOrTelegram,
		ToolID:    req.ToolID,
		ToolName:  req.ToolName,
		DateFrom:  req.StartDate,
		DateTo:    req.EndDate,
		Notes:     req.Notes,
		UserAgent: req.UserAgent,
		Referrer:  req.Referrer,
		PagePath:  req.PagePath,
		Timestamp: req.Timestamp,
		IP:        clientIP(r),
	}

	err := h.pipeline.Process(r.Context(), sub)
	switch {
	case errors.Is(err, ErrMissingField):
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Missing required fields"})
	case errors.Is(err, ratelimit.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, map[string]any{"ok": false, "error": "Too many requests"})
	case err != nil:
		h.logger.Error("lead workflow failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Internal error"})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
