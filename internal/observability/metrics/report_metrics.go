package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/lodgely/pkg/db"
)

// Config carries constant labels attached to every report series.
type Config struct {
	ServiceName string
	Environment string
}

const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
)

const (
	ReportCashFlow            = "cash_flow"
	ReportLandlordStats       = "landlord_stats"
	ReportRevenueTrend        = "revenue_trend"
	ReportAdminOverview       = "admin_overview"
	ReportTopPerformers       = "top_performers"
	ReportRevenue             = "revenue_report"
	ReportPropertyPerformance = "property_performance"
	ReportTenantBehavior      = "tenant_behavior"
	ReportExpense             = "expense_report"
	ReportDashboard           = "dashboard"
)

// ReportMetrics captures report build health.
type ReportMetrics struct {
	builds         *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	skippedRecords *prometheus.CounterVec
	upstreamErrors *prometheus.CounterVec
}

func NewReportMetrics(registerer prometheus.Registerer, cfg Config) *ReportMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "lodgely"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	builds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "lodgely_report_builds_total",
		Help:        "Report builds by report and outcome.",
		ConstLabels: constLabels,
	}, []string{"report", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "lodgely_report_duration_seconds",
		Help:        "Report build latency including gateway reads.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		ConstLabels: constLabels,
	}, []string{"report"})
	skippedRecords := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "lodgely_report_skipped_records_total",
		Help:        "Joined records skipped during aggregation by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"report", "reason"})
	upstreamErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "lodgely_report_upstream_errors_total",
		Help:        "Gateway failures surfaced by report builders.",
		ConstLabels: constLabels,
	}, []string{"report", "reason"})

	registerer.MustRegister(builds, duration, skippedRecords, upstreamErrors)

	return &ReportMetrics{
		builds:         builds,
		duration:       duration,
		skippedRecords: skippedRecords,
		upstreamErrors: upstreamErrors,
	}
}

// ObserveBuild records one finished build.
func (m *ReportMetrics) ObserveBuild(report, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if elapsed < 0 {
		elapsed = 0
	}
	m.builds.WithLabelValues(report, outcome).Inc()
	m.duration.WithLabelValues(report).Observe(elapsed.Seconds())
}

// AddSkippedRecords counts records dropped from a batch for the given reason.
func (m *ReportMetrics) AddSkippedRecords(report, reason string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.skippedRecords.WithLabelValues(report, reason).Add(float64(count))
}

// IncUpstreamError classifies a gateway error with db.ClassifyError.
func (m *ReportMetrics) IncUpstreamError(report string, err error) {
	if m == nil || err == nil {
		return
	}
	m.upstreamErrors.WithLabelValues(report, db.ClassifyError(err)).Inc()
}
