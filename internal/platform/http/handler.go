package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/upisafe/fraud-registry/internal/domain"
	"github.com/upisafe/fraud-registry/internal/service"
	"github.com/upisafe/fraud-registry/pkg/logger"
)

const maxRecentLimit = 100

type Handler struct {
	service service.Service
	log     *logger.Logger
}

func NewHandler(s service.Service, log *logger.Logger) *Handler {
	return &Handler{
		service: s,
		log:     log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/v1/check/{identifier}", h.CheckSafety)
	r.Post("/v1/reports", h.SubmitReport)
	r.Get("/v1/reports/recent", h.RecentReports)
	r.Get("/v1/reports/search", h.SearchReports)
	r.Get("/v1/statistics", h.Statistics)
}

func (h *Handler) CheckSafety(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "identifier")
	// chi routes on RawPath when one is set, leaving the param escaped.
	// With an empty RawPath the param is already decoded, and a second
	// unescape would corrupt identifiers holding literal % sequences.
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(raw); err == nil {
			raw = unescaped
		}
	}

	aggregate, err := h.service.CheckSafety(r.Context(), raw)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, aggregate)
}

func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var req SubmitReportRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := req.Validate(); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	report, err := h.service.SubmitReport(r.Context(), req.Identifier, req.Payload())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, report)
}

func (h *Handler) RecentReports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be an integer"})
			return
		}
		limit = n
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	entries, err := h.service.ListRecentReports(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []service.ReportEntry{}
	}

	h.writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) SearchReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	entries, err := h.service.SearchReports(r.Context(), q.Get("q"), q.Get("category"), q.Get("risk"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []service.ReportEntry{}
	}

	h.writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStatistics(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMalformedReport),
		errors.Is(err, service.ErrInvalidFilter),
		errors.Is(err, domain.ErrInvalidIdentifier):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrStoreUnavailable):
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "report not confirmed, try again"})
	default:
		h.log.Error().Err(err).Msg("unhandled service error")
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("failed to encode response")
	}
}
