// Package templates holds the templ components for the dashboard page.
// The page is a static shell: all data arrives through Datastar signal and
// element patches from the SSE handlers.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard returns the full page component.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardPage)
		return err
	})
}

const dashboardPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>GA4 Country Performance Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/plotly.js-dist-min@2.35.2/plotly.min.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f5f7fa; color: #1c2733; }
header { background: #1c2733; color: #fff; padding: 1rem 2rem; }
header p { margin: 0.25rem 0 0; color: #9fb2c4; font-size: 0.9rem; }
main { display: grid; grid-template-columns: 280px 1fr; gap: 1.5rem; padding: 1.5rem 2rem; }
aside { background: #fff; border-radius: 8px; padding: 1rem; align-self: start; }
aside h2 { font-size: 0.95rem; text-transform: uppercase; letter-spacing: 0.05em; color: #5b6b7b; }
.kpi-grid { display: grid; grid-template-columns: repeat(4, 1fr); gap: 1rem; margin-bottom: 1.5rem; }
.kpi-card { background: #fff; border-radius: 8px; padding: 1rem; display: flex; flex-direction: column; }
.kpi-label { font-size: 0.8rem; color: #5b6b7b; }
.kpi-value { font-size: 1.5rem; font-weight: 600; }
.chart { background: #fff; border-radius: 8px; padding: 0.5rem; margin-bottom: 1.5rem; min-height: 320px; }
.modern-table { width: 100%; border-collapse: collapse; font-size: 0.85rem; }
.modern-table th, .modern-table td { padding: 0.4rem 0.6rem; text-align: left; border-bottom: 1px solid #e3e8ee; }
.status { padding: 0.5rem 0; color: #2d7a46; }
.status.error { color: #b3261e; }
.country-option { display: block; font-size: 0.85rem; padding: 0.1rem 0; }
#country-filter { max-height: 320px; overflow-y: auto; margin-bottom: 1rem; }
</style>
</head>
<body data-signals="{countries: [], topN: 10, dashboard: null}" data-on-load="@get('/sse/refresh')">
<header>
<h1>GA4 Country Performance Dashboard</h1>
<p>Interactive insights for audience, engagement, funnel, revenue, and geography.</p>
</header>
<main>
<aside>
<h2>Upload Data</h2>
<form data-on-submit="@post('/sse/upload', {contentType: 'form'})" enctype="multipart/form-data">
<input type="file" name="file" accept=".csv" required>
<button type="submit">Upload</button>
</form>
<div id="upload-status" class="status">Please upload your CSV to begin.</div>
<h2>Filters</h2>
<label for="topn">Top N Countries: <span data-text="$topN"></span></label>
<input id="topn" type="range" min="3" max="30" step="1" data-bind="topN" data-on-change="@post('/sse/update')">
<h2>Countries</h2>
<div id="country-filter" data-on-change="@post('/sse/update')"></div>
</aside>
<section>
<div id="kpi-header" class="kpi-grid"></div>
<div id="chart-top-users" class="chart"></div>
<div id="chart-new-returning" class="chart"></div>
<div id="chart-engagement" class="chart"></div>
<div id="chart-funnel" class="chart"></div>
<div id="funnel-kpis" class="chart"></div>
<div id="chart-top-revenue" class="chart"></div>
<div id="chart-monetization" class="chart"></div>
<div id="chart-revenue-share" class="chart"></div>
<div id="chart-map" class="chart"></div>
<div data-effect="window.renderCharts($dashboard)"></div>
</section>
</main>
<script>
window.renderCharts = function (d) {
	if (!d || typeof Plotly === "undefined") return;
	var layout = { margin: { t: 48, r: 16, b: 64, l: 56 } };

	Plotly.react("chart-top-users", [{
		type: "bar", x: d.top_active_users.labels, y: d.top_active_users.values
	}], Object.assign({ title: d.top_active_users.title }, layout));

	Plotly.react("chart-new-returning", d.new_vs_returning.series.map(function (s) {
		return { type: "bar", name: s.name, x: d.new_vs_returning.labels, y: s.values };
	}), Object.assign({ title: d.new_vs_returning.title, barmode: "stack" }, layout));

	Plotly.react("chart-engagement", [{
		type: "scatter", mode: "markers",
		x: d.engagement.points.map(function (p) { return p.x; }),
		y: d.engagement.points.map(function (p) { return p.y; }),
		text: d.engagement.points.map(function (p) { return p.country; }),
		marker: { size: d.engagement.points.map(function (p) { return Math.sqrt(p.size || 0) || 4; }), sizemode: "diameter" }
	}], Object.assign({
		title: d.engagement.title,
		xaxis: { title: d.engagement.x_label, tickformat: ".0%" },
		yaxis: { title: d.engagement.y_label }
	}, layout));

	Plotly.react("chart-funnel", [{
		type: "funnel",
		y: d.funnel.stages.map(function (s) { return s.label; }),
		x: d.funnel.stages.map(function (s) { return s.count; })
	}], Object.assign({ title: d.funnel.title }, layout));

	Plotly.react("chart-top-revenue", [{
		type: "bar", x: d.top_revenue.labels, y: d.top_revenue.values
	}], Object.assign({ title: d.top_revenue.title }, layout));

	Plotly.react("chart-monetization", d.monetization.series.map(function (s) {
		return { type: "bar", name: s.name, x: d.monetization.labels, y: s.values };
	}), Object.assign({ title: d.monetization.title, barmode: "group" }, layout));

	Plotly.react("chart-revenue-share", [{
		type: "treemap",
		labels: d.revenue_share.map(function (s) { return s.country; }),
		parents: d.revenue_share.map(function () { return ""; }),
		values: d.revenue_share.map(function (s) { return s.revenue; }),
		branchvalues: "total"
	}], { title: "Revenue Share", margin: layout.margin });

	Plotly.react("chart-map", [{
		type: "choropleth",
		locations: d.choropleth.entries.map(function (e) { return e.iso3; }),
		z: d.choropleth.entries.map(function (e) { return e.value; }),
		text: d.choropleth.entries.map(function (e) { return e.country; }),
		colorscale: "Blues", reversescale: true
	}], { title: d.choropleth.title, margin: layout.margin });
};
</script>
</body>
</html>
`
