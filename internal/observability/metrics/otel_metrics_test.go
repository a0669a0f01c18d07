package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestInstruments(t *testing.T) (*Instruments, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	instruments, err := NewInstruments(OTelConfig{ServiceName: "lodgely"}, provider)
	if err != nil {
		t.Fatalf("new instruments: %v", err)
	}
	return instruments, reader
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) []metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s is not an int64 sum", name)
			}
			return sum.DataPoints
		}
	}
	return nil
}

func attr(point metricdata.DataPoint[int64], key attribute.Key) string {
	value, _ := point.Attributes.Value(key)
	return value.AsString()
}

func TestNewProviderDisabledIsNoop(t *testing.T) {
	provider, err := NewProvider(nil, OTelConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := provider.(noop.MeterProvider); !ok {
		t.Fatalf("expected noop provider, got %T", provider)
	}
}

func TestNewProviderRejectsUnknownProtocol(t *testing.T) {
	if _, err := NewProvider(nil, OTelConfig{Enabled: true, ExporterProtocol: "carrier-pigeon"}, nil); err == nil {
		t.Fatalf("expected protocol error")
	}
}

func TestRecordGatewayRead(t *testing.T) {
	instruments, reader := newTestInstruments(t)
	ctx := context.Background()

	instruments.RecordGatewayRead(ctx, ReportCashFlow, "list_invoices", 3, nil)
	instruments.RecordGatewayRead(ctx, ReportCashFlow, "list_invoices", 2, nil)
	instruments.RecordGatewayRead(ctx, ReportCashFlow, "list_expenses", 9, errors.New("boom"))

	reads := collectSum(t, reader, "lodgely.gateway.reads")
	if len(reads) != 2 {
		t.Fatalf("expected 2 read series, got %d", len(reads))
	}
	for _, point := range reads {
		switch attr(point, "op") {
		case "list_invoices":
			if point.Value != 2 || attr(point, "outcome") != OutcomeSuccess {
				t.Fatalf("unexpected list_invoices point: %+v", point)
			}
		case "list_expenses":
			if point.Value != 1 || attr(point, "outcome") != OutcomeError {
				t.Fatalf("unexpected list_expenses point: %+v", point)
			}
		default:
			t.Fatalf("unexpected op %q", attr(point, "op"))
		}
	}

	rows := collectSum(t, reader, "lodgely.report.rows")
	if len(rows) != 1 || rows[0].Value != 5 {
		t.Fatalf("expected 5 rows from list_invoices only, got %+v", rows)
	}
	if attr(rows[0], "report") != ReportCashFlow {
		t.Fatalf("expected report label, got %q", attr(rows[0], "report"))
	}
}

func TestRecordBuildHistogram(t *testing.T) {
	instruments, reader := newTestInstruments(t)
	instruments.RecordBuild(context.Background(), ReportDashboard, OutcomeSuccess, 30*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	found := false
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "lodgely.report.duration" {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			if !ok || len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
				t.Fatalf("unexpected histogram: %+v", m.Data)
			}
			found = true
		}
	}
	if !found {
		t.Fatalf("duration histogram not recorded")
	}
}

func TestFilterAttributesDropsIdentifiers(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("report", ReportCashFlow),
		attribute.String("landlord.id", "42"),
		attribute.String("op", ""),
	)
	if len(attrs) != 1 || attrs[0].Key != "report" {
		t.Fatalf("expected only report to survive, got %v", attrs)
	}
}

func TestNilInstrumentsIsSafe(t *testing.T) {
	var instruments *Instruments
	instruments.RecordGatewayRead(context.Background(), ReportCashFlow, "list_invoices", 1, nil)
	instruments.RecordBuild(context.Background(), ReportCashFlow, OutcomeSuccess, time.Second)
}
