package handlers

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/starfederation/datastar-go/datastar"

	"ga4-dashboard/internal/models"
	"ga4-dashboard/internal/services"
	"ga4-dashboard/internal/views"
)

var kpiHeaderTemplate = template.Must(template.New("kpiHeader").Parse(`
<div id="kpi-header" class="kpi-grid">
<div class="kpi-card"><span class="kpi-label">Active Users</span><span class="kpi-value">{{.ActiveUsers}}</span></div>
<div class="kpi-card"><span class="kpi-label">New Users</span><span class="kpi-value">{{.NewUsers}}</span></div>
<div class="kpi-card"><span class="kpi-label">Returning Users</span><span class="kpi-value">{{.Returning}}</span></div>
<div class="kpi-card"><span class="kpi-label">Total Revenue</span><span class="kpi-value">{{.Revenue}}</span></div>
</div>`))

var funnelTableTemplate = template.Must(template.New("funnelTable").Parse(`
<div id="funnel-kpis">
<table class="modern-table">
<thead><tr><th>Country</th><th>Active Users</th><th>Add to Carts</th><th>Checkouts</th><th>Purchases</th><th>Items</th><th>ATC Rate</th><th>Checkout Rate</th><th>Purchase Rate</th><th>Units/Order</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Country}}</td>
<td>{{.ActiveUsers}}</td>
<td>{{.AddToCarts}}</td>
<td>{{.Checkouts}}</td>
<td>{{.Purchases}}</td>
<td>{{.Items}}</td>
<td>{{.ATCRate}}</td>
<td>{{.CheckoutRate}}</td>
<td>{{.PurchaseRate}}</td>
<td>{{.UnitsPerOrder}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

var countryFilterTemplate = template.Must(template.New("countryFilter").Parse(`
<div id="country-filter">
{{range .}}<label class="country-option"><input type="checkbox" value="{{.}}" data-bind="countries"> {{.}}</label>
{{end}}
</div>`))

type kpiHeaderData struct {
	ActiveUsers string
	NewUsers    string
	Returning   string
	Revenue     string
}

type funnelRowData struct {
	Country       string
	ActiveUsers   string
	AddToCarts    string
	Checkouts     string
	Purchases     string
	Items         string
	ATCRate       string
	CheckoutRate  string
	PurchaseRate  string
	UnitsPerOrder string
}

// dashboardSignals mirrors the Datastar signal store driving the UI
// controls.
type dashboardSignals struct {
	Countries []string `json:"countries"`
	TopN      int      `json:"topN"`
}

// SSEHandlers drives the reactive UI over Datastar SSE: uploads install a
// new dataset, parameter changes rebuild every view and patch the page.
type SSEHandlers struct {
	analytics      *services.Analytics
	logger         *slog.Logger
	maxUploadBytes int64
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger, maxUploadBytes int64) *SSEHandlers {
	return &SSEHandlers{
		analytics:      analytics,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleUpload accepts a multipart CSV, loads it (memoized by content),
// resets the selection to all countries, and patches the full dashboard.
// Load failures patch a visible message; the stream never 500s.
func (h *SSEHandlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.patchStatus(sse, fmt.Sprintf("Upload failed: %v", err), true)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.patchStatus(sse, fmt.Sprintf("Upload failed: %v", err), true)
		return
	}

	if err := h.analytics.Load(r.Context(), header.Filename, content); err != nil {
		h.logger.Warn("upload rejected", "filename", header.Filename, "error", err)
		h.patchStatus(sse, fmt.Sprintf("Could not load %s: %v", header.Filename, err), true)
		return
	}

	table, _ := h.analytics.Dataset()
	all := table.Countries()
	sort.Strings(all)

	signals := dashboardSignals{Countries: all, TopN: views.DefaultTopN}
	h.patchCountryFilter(sse, all)
	h.patchDashboard(sse, table, signals)
	h.patchStatus(sse, fmt.Sprintf("Loaded %s (%d countries)", header.Filename, len(table.Rows)), false)
}

// HandleUpdate re-renders every view from the current signal values. Pure
// recomputation: no view state survives between calls.
func (h *SSEHandlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	table, ok := h.analytics.Dataset()
	if !ok {
		h.patchStatus(sse, "Please upload your CSV to begin.", false)
		return
	}

	signals := dashboardSignals{TopN: views.DefaultTopN}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Error("read signals", "error", err)
		h.patchStatus(sse, "Invalid dashboard state, reload the page.", true)
		return
	}

	h.patchDashboard(sse, table, signals)
}

// HandleRefresh re-sends every fragment and signal for the current state,
// used on page load when a dataset is already present.
func (h *SSEHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	table, ok := h.analytics.Dataset()
	if !ok {
		h.patchStatus(sse, "Please upload your CSV to begin.", false)
		return
	}

	all := table.Countries()
	sort.Strings(all)
	h.patchCountryFilter(sse, all)

	signals := dashboardSignals{TopN: views.DefaultTopN}
	if err := datastar.ReadSignals(r, &signals); err != nil || len(signals.Countries) == 0 {
		signals = dashboardSignals{Countries: all, TopN: views.DefaultTopN}
	}
	h.patchDashboard(sse, table, signals)
}

func (h *SSEHandlers) patchDashboard(sse *datastar.ServerSentEventGenerator, table *models.Table, signals dashboardSignals) {
	d := views.BuildDashboard(table, views.Params{
		Countries: signals.Countries,
		TopN:      signals.TopN,
	})

	payload, err := json.Marshal(map[string]any{
		"countries": signals.Countries,
		"topN":      signals.TopN,
		"dashboard": d,
	})
	if err != nil {
		h.logger.Error("marshal dashboard signals", "error", err)
		return
	}
	sse.PatchSignals(payload)

	if html, err := renderKPIHeader(d.Summary); err == nil {
		sse.PatchElements(html)
	} else {
		h.logger.Error("render kpi header", "error", err)
	}

	if html, err := renderFunnelTable(d.FunnelKPIs); err == nil {
		sse.PatchElements(html)
	} else {
		h.logger.Error("render funnel table", "error", err)
	}
}

func (h *SSEHandlers) patchCountryFilter(sse *datastar.ServerSentEventGenerator, countries []string) {
	var buf strings.Builder
	if err := countryFilterTemplate.Execute(&buf, countries); err != nil {
		h.logger.Error("render country filter", "error", err)
		return
	}
	sse.PatchElements(buf.String())
}

func (h *SSEHandlers) patchStatus(sse *datastar.ServerSentEventGenerator, message string, isErr bool) {
	class := "status"
	if isErr {
		class = "status error"
	}
	sse.PatchElements(fmt.Sprintf(`<div id="upload-status" class="%s">%s</div>`, class, template.HTMLEscapeString(message)))
}

func renderKPIHeader(s views.Summary) (string, error) {
	var buf strings.Builder
	err := kpiHeaderTemplate.Execute(&buf, kpiHeaderData{
		ActiveUsers: s.ActiveUsersText,
		NewUsers:    s.NewUsersText,
		Returning:   s.ReturningUsersText,
		Revenue:     s.RevenueText,
	})
	return buf.String(), err
}

func renderFunnelTable(rows []views.KPIRow) (string, error) {
	data := make([]funnelRowData, 0, len(rows))
	for _, r := range rows {
		data = append(data, funnelRowData{
			Country:       r.Country,
			ActiveUsers:   fmtCount(r.ActiveUsers),
			AddToCarts:    fmtCount(r.AddToCarts),
			Checkouts:     fmtCount(r.Checkouts),
			Purchases:     fmtCount(r.Purchases),
			Items:         fmtCount(r.ItemsPurchased),
			ATCRate:       fmtRate(r.AddToCartRate),
			CheckoutRate:  fmtRate(r.CheckoutRate),
			PurchaseRate:  fmtRate(r.PurchaseRate),
			UnitsPerOrder: fmtRatio(r.UnitsPerOrder),
		})
	}

	var buf strings.Builder
	err := funnelTableTemplate.Execute(&buf, data)
	return buf.String(), err
}

// Missing values render as an em-style dash, never as zero.
func fmtCount(v models.NullFloat) string {
	if !v.Valid {
		return "–"
	}
	return fmt.Sprintf("%.0f", v.Value)
}

func fmtRate(v models.NullFloat) string {
	if !v.Valid {
		return "–"
	}
	return fmt.Sprintf("%.1f%%", v.Value*100)
}

func fmtRatio(v models.NullFloat) string {
	if !v.Valid {
		return "–"
	}
	return fmt.Sprintf("%.2f", v.Value)
}
