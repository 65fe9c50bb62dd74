package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "maintwindow_"

	resultSuccess = "success"
	resultError   = "error"
)

// Exported result labels.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)

var (
	registerOnce sync.Once

	pageLoads       *prometheus.CounterVec
	pageLoadLatency *prometheus.HistogramVec
	snapshotFetches *prometheus.CounterVec
	chartRenders    *prometheus.CounterVec
	maintenanceUp   prometheus.Gauge
	serverDown      prometheus.Gauge
	activeEvents    prometheus.Gauge
	collectRuns     *prometheus.CounterVec
	collectLatency  *prometheus.HistogramVec
	extractAttempts *prometheus.CounterVec
)

// Init registers all collectors with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		pageLoads = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "page_loads_total",
				Help: "Total status evaluations by result",
			},
			[]string{"result"},
		)
		pageLoadLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "page_load_latency_seconds",
				Help:    "Latency of snapshot fetch plus evaluation in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		snapshotFetches = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "snapshot_fetch_total",
				Help: "Total snapshot fetches by result",
			},
			[]string{"result"},
		)
		chartRenders = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "chart_render_total",
				Help: "Total chart renders by result",
			},
			[]string{"result"},
		)
		maintenanceUp = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "maintenance_active",
			Help: "1 when the last evaluation found an active maintenance window",
		})
		serverDown = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "server_down",
			Help: "1 when the last evaluation found servers down",
		})
		activeEvents = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "active_events",
			Help: "Number of active maintenance events at the last evaluation",
		})
		collectRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "collect_runs_total",
				Help: "Total snapshot collection runs by result",
			},
			[]string{"result"},
		)
		collectLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "collect_latency_seconds",
				Help:    "Snapshot collection latency in seconds",
				Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{"result"},
		)
		extractAttempts = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "extract_attempts_total",
				Help: "Total extraction attempts by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			pageLoads,
			pageLoadLatency,
			snapshotFetches,
			chartRenders,
			maintenanceUp,
			serverDown,
			activeEvents,
			collectRuns,
			collectLatency,
			extractAttempts,
		)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePageLoad records one load sequence.
func ObservePageLoad(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if pageLoads != nil {
		pageLoads.WithLabelValues(result).Inc()
	}
	if pageLoadLatency != nil {
		pageLoadLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncSnapshotFetch counts a snapshot fetch.
func IncSnapshotFetch(result string) {
	if result == "" {
		result = resultSuccess
	}
	if snapshotFetches != nil {
		snapshotFetches.WithLabelValues(result).Inc()
	}
}

// IncChartRender counts a chart render.
func IncChartRender(result string) {
	if result == "" {
		result = resultSuccess
	}
	if chartRenders != nil {
		chartRenders.WithLabelValues(result).Inc()
	}
}

// SetStatus publishes the latest evaluation.
func SetStatus(isMaintenance, isServerDown bool, active int) {
	if maintenanceUp != nil {
		maintenanceUp.Set(boolToFloat(isMaintenance))
	}
	if serverDown != nil {
		serverDown.Set(boolToFloat(isServerDown))
	}
	if activeEvents != nil {
		activeEvents.Set(float64(active))
	}
}

// ObserveCollect records one collection run.
func ObserveCollect(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if collectRuns != nil {
		collectRuns.WithLabelValues(result).Inc()
	}
	if collectLatency != nil {
		collectLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncExtractAttempt counts one extractor call.
func IncExtractAttempt(result string) {
	if result == "" {
		result = resultSuccess
	}
	if extractAttempts != nil {
		extractAttempts.WithLabelValues(result).Inc()
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
