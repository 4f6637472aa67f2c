// Package templates holds the dashboard page shell. The page is fully
// static: controls carry Datastar attributes that call the SSE endpoints,
// and chart signals are rendered client-side by Chart.js.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard renders the single-page shell hosting the five tab views.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardPage)
		return err
	})
}

const dashboardPage = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Centurion Coffee Connect</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.9/dist/chart.umd.min.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f7f5f2; color: #2b2118; }
h1 { text-align: center; padding: 1rem 0 0; }
h3, h4 { text-align: center; }
.tabs { display: flex; justify-content: center; gap: .5rem; margin: 1rem 0; }
.tabs button { padding: .5rem 1rem; border: 1px solid #c9b8a8; background: #fff; cursor: pointer; border-radius: 4px; }
.tabs button.active { background: #6f4e37; color: #fff; }
.tab-panel { display: none; max-width: 900px; margin: 0 auto; padding: 1rem; }
.tab-panel.active { display: block; }
.chart-box { max-width: 760px; margin: 1rem auto; }
.control-row { display: flex; justify-content: center; gap: .5rem; margin: 1rem 0; }
select, input[type=text] { padding: .4rem; min-width: 240px; }
button.submit { padding: .4rem 1rem; }
</style>
</head>
<body data-signals="{days: '', productDays: '0', erp: '', overviewChart: null, dailyChart: null, monthlyChart: null, productChart: null, enquiryChart: null}"
      data-on-load="@get('/sse/overview'); @get('/sse/monthly-revenue'); @get('/sse/product-share?days='+$productDays)">

<h1>Centurion Coffee Connect Dashboard</h1>

<div class="tabs">
<button class="active" onclick="showTab(this, 'overview')">Overview</button>
<button onclick="showTab(this, 'daily')">Daily Trends</button>
<button onclick="showTab(this, 'monthly')">Monthly Trends</button>
<button onclick="showTab(this, 'products')">Product Insights</button>
<button onclick="showTab(this, 'enquiry')">Enquiry</button>
</div>

<section id="tab-overview" class="tab-panel active">
<h3>Total Revenue</h3>
<div id="total-revenue"><h4>&mdash;</h4></div>
<h3>Revenue by Product</h3>
<div class="chart-box" data-effect="renderChart('overview-canvas', $overviewChart)"><canvas id="overview-canvas"></canvas></div>
</section>

<section id="tab-daily" class="tab-panel">
<div class="control-row">
<select data-bind-days data-on-change="@get('/sse/daily-revenue?days='+$days)">
<option value="">Select Time Range</option>
<option value="7">Last 7 Days</option>
<option value="30">Last 30 Days</option>
<option value="365">Last 365 Days</option>
</select>
</div>
<div class="chart-box" data-effect="renderChart('daily-canvas', $dailyChart)"><canvas id="daily-canvas"></canvas></div>
</section>

<section id="tab-monthly" class="tab-panel">
<h3>Monthly Revenue Trends</h3>
<div class="chart-box" data-effect="renderChart('monthly-canvas', $monthlyChart)"><canvas id="monthly-canvas"></canvas></div>
</section>

<section id="tab-products" class="tab-panel">
<div class="control-row">
<select data-bind-product-days data-on-change="@get('/sse/product-share?days='+$productDays)">
<option value="1">Last 1 Day</option>
<option value="30">Last 30 Days</option>
<option value="365">Last 365 Days</option>
<option value="0" selected>Total Available Days</option>
</select>
</div>
<div class="chart-box" data-effect="renderChart('product-canvas', $productChart)"><canvas id="product-canvas"></canvas></div>
</section>

<section id="tab-enquiry" class="tab-panel">
<h3>Find Purchases by ERP ID</h3>
<div class="control-row">
<input type="text" placeholder="Enter ERP ID" data-bind-erp/>
<button class="submit" data-on-click="@get('/sse/enquiry?erp='+encodeURIComponent($erp))">Submit</button>
</div>
<div id="enquiry-output"></div>
<div class="chart-box" data-effect="renderChart('enquiry-canvas', $enquiryChart)"><canvas id="enquiry-canvas"></canvas></div>
</section>

<script>
function showTab(btn, name) {
	document.querySelectorAll('.tabs button').forEach(function (b) { b.classList.remove('active'); });
	document.querySelectorAll('.tab-panel').forEach(function (p) { p.classList.remove('active'); });
	btn.classList.add('active');
	document.getElementById('tab-' + name).classList.add('active');
}

var liveCharts = {};

function renderChart(canvasId, spec) {
	var canvas = document.getElementById(canvasId);
	if (!canvas) return;

	if (liveCharts[canvasId]) {
		liveCharts[canvasId].destroy();
		delete liveCharts[canvasId];
	}

	if (!spec || !spec.labels || spec.labels.length === 0) {
		canvas.style.display = 'none';
		return;
	}
	canvas.style.display = '';

	liveCharts[canvasId] = new Chart(canvas, {
		type: spec.type,
		data: {
			labels: spec.labels,
			datasets: [{ label: 'Revenue (Rs)', data: spec.values }]
		},
		options: {
			plugins: { title: { display: true, text: spec.title } },
			scales: spec.type === 'pie' ? {} : { y: { beginAtZero: true } }
		}
	});
}
</script>
</body>
</html>
`
