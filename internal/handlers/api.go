package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ga4-dashboard/internal/errors"
	"ga4-dashboard/internal/models"
	"ga4-dashboard/internal/observability"
	"ga4-dashboard/internal/services"
	"ga4-dashboard/internal/views"
)

const viewCacheControl = "public, max-age=60"

// APIHandlers exposes the dashboard views as JSON for programmatic
// consumers. Every endpoint takes the same two query parameters as the UI:
// countries (comma-separated, absent means all) and top_n.
type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func parseParams(r *http.Request) views.Params {
	var p views.Params
	if raw := r.URL.Query().Get("countries"); raw != "" {
		p.Countries = strings.Split(raw, ",")
	} else if r.URL.Query().Has("countries") {
		// explicit empty selection
		p.Countries = []string{}
	}
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			p.TopN = n
		}
	}
	return p.Normalize()
}

// dataset fetches the current table or writes the no-dataset error.
func (h *APIHandlers) dataset(w http.ResponseWriter, r *http.Request) (*models.Table, bool) {
	table, ok := h.analytics.Dataset()
	if !ok {
		errors.WriteError(w, h.logger, errors.NoDataset(), observability.GetRequestID(r.Context()))
		return nil, false
	}
	return table, true
}

func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	table, ok := h.dataset(w, r)
	if !ok {
		return
	}

	d := views.BuildDashboard(table, parseParams(r))
	errors.WriteSuccessWithHeaders(w, d, map[string]string{"Cache-Control": viewCacheControl})
}

func (h *APIHandlers) HandleCountries(w http.ResponseWriter, r *http.Request) {
	table, ok := h.dataset(w, r)
	if !ok {
		return
	}

	errors.WriteSuccessWithHeaders(w, table.Countries(), map[string]string{"Cache-Control": viewCacheControl})
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	table, ok := h.dataset(w, r)
	if !ok {
		return
	}

	p := parseParams(r)
	totals := views.AggregateTotals(views.FilterBySelection(table, p.Countries))
	errors.WriteSuccessWithHeaders(w, totals, map[string]string{"Cache-Control": viewCacheControl})
}

func (h *APIHandlers) HandleTopActiveUsers(w http.ResponseWriter, r *http.Request) {
	h.handleTopBy(w, r, views.ColActiveUsers)
}

func (h *APIHandlers) HandleTopRevenue(w http.ResponseWriter, r *http.Request) {
	h.handleTopBy(w, r, views.ColRevenue)
}

func (h *APIHandlers) handleTopBy(w http.ResponseWriter, r *http.Request, col views.Column) {
	table, ok := h.dataset(w, r)
	if !ok {
		return
	}

	p := parseParams(r)
	top := views.TopBy(views.FilterBySelection(table, p.Countries), col, p.TopN)
	errors.WriteSuccessWithHeaders(w, top.Rows, map[string]string{"Cache-Control": viewCacheControl})
}

func (h *APIHandlers) HandleFunnel(w http.ResponseWriter, r *http.Request) {
	table, ok := h.dataset(w, r)
	if !ok {
		return
	}

	p := parseParams(r)
	stages := views.FunnelTotals(views.FilterBySelection(table, p.Countries))
	errors.WriteSuccessWithHeaders(w, stages, map[string]string{"Cache-Control": viewCacheControl})
}

func (h *APIHandlers) HandleRevenueShare(w http.ResponseWriter, r *http.Request) {
	table, ok := h.dataset(w, r)
	if !ok {
		return
	}

	p := parseParams(r)
	share := views.RevenueShare(views.FilterBySelection(table, p.Countries))
	errors.WriteSuccessWithHeaders(w, share, map[string]string{"Cache-Control": viewCacheControl})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
