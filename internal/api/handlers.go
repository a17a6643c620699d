package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/velikov/donefold/internal/aggservice"
	"github.com/velikov/donefold/internal/apperr"
)

// Handler holds API route handlers.
type Handler struct {
	svc *aggservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *aggservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListWeeks handles GET /weeks.
func (h *Handler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := h.svc.Weeks(r.Context())
	if err != nil {
		slog.Error("list weeks failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, WeekListResponse{Weeks: weeks})
}

// WeekActions handles GET /weeks/{week}/actions.
func (h *Handler) WeekActions(w http.ResponseWriter, r *http.Request) {
	week, ok := weekParam(w, r)
	if !ok {
		return
	}
	actions, err := h.svc.WeekActions(r.Context(), week)
	if err != nil {
		slog.Error("week actions failed", slog.Int("week", week), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ActionListResponse{Actions: actions})
}

// WeekRuns handles GET /weeks/{week}/runs.
func (h *Handler) WeekRuns(w http.ResponseWriter, r *http.Request) {
	week, ok := weekParam(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.svc.Runs(r.Context(), week, limit)
	if err != nil {
		slog.Error("week runs failed", slog.Int("week", week), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, RunListResponse{Runs: runs})
}

// Preview handles GET /preview?report=<path>. It returns the aggregated text
// without writing the output file or touching the history.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	reportPath := r.URL.Query().Get("report")
	if reportPath == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'report' is required"))
		return
	}
	res, err := h.svc.Preview(r.Context(), reportPath)
	if err != nil {
		h.writeAggregateError(w, reportPath, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Aggregate handles POST /aggregate.
func (h *Handler) Aggregate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AggregateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.ReportPath == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("report_path is required"))
		return
	}
	res, err := h.svc.Aggregate(r.Context(), req.ReportPath)
	if err != nil {
		h.writeAggregateError(w, req.ReportPath, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Search handles GET /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

func (h *Handler) writeAggregateError(w http.ResponseWriter, reportPath string, err error) {
	switch {
	case errors.Is(err, apperr.ErrBadReportName):
		writeJSON(w, http.StatusBadRequest, errorBody("report filename has no week number"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	default:
		slog.Error("aggregation failed", slog.String("report", reportPath), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func weekParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid week number"))
		return 0, false
	}
	return week, true
}
