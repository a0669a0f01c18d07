package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// OTelConfig configures the OTLP meter provider.
type OTelConfig struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
}

// Instruments exposes per-report OTLP instruments for gateway traffic.
type Instruments struct {
	gatewayReads   metric.Int64Counter
	rowsAggregated metric.Int64Counter
	buildDuration  metric.Float64Histogram
}

// NewProvider configures and registers the meter provider. Disabled configs get a noop provider.
func NewProvider(lc fx.Lifecycle, cfg OTelConfig, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}
	if log != nil {
		log.Info("otlp metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}
	return provider, nil
}

func NewInstruments(cfg OTelConfig, provider metric.MeterProvider) (*Instruments, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "lodgely"
	}
	meter := provider.Meter(name + "/reporting")

	gatewayReads, err := meter.Int64Counter("lodgely.gateway.reads",
		metric.WithDescription("Entity gateway reads issued by report builders."))
	if err != nil {
		return nil, err
	}
	rowsAggregated, err := meter.Int64Counter("lodgely.report.rows",
		metric.WithDescription("Rows returned by the gateway and folded into reports."))
	if err != nil {
		return nil, err
	}
	buildDuration, err := meter.Float64Histogram("lodgely.report.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Report build latency."))
	if err != nil {
		return nil, err
	}

	return &Instruments{
		gatewayReads:   gatewayReads,
		rowsAggregated: rowsAggregated,
		buildDuration:  buildDuration,
	}, nil
}

// RecordGatewayRead counts one gateway call and the rows it returned.
func (i *Instruments) RecordGatewayRead(ctx context.Context, report, op string, rows int, err error) {
	if i == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	i.gatewayReads.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("report", strings.TrimSpace(report)),
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	)...))
	if err == nil && rows > 0 {
		i.rowsAggregated.Add(ctx, int64(rows), metric.WithAttributes(FilterAttributes(
			attribute.String("report", strings.TrimSpace(report)),
			attribute.String("op", op),
		)...))
	}
}

// RecordBuild records one finished report build.
func (i *Instruments) RecordBuild(ctx context.Context, report, outcome string, elapsed time.Duration) {
	if i == nil {
		return
	}
	if elapsed < 0 {
		elapsed = 0
	}
	i.buildDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(FilterAttributes(
		attribute.String("report", report),
		attribute.String("outcome", outcome),
	)...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"report":  {},
	"op":      {},
	"outcome": {},
	"reason":  {},
}

// FilterAttributes keeps only low-cardinality labels; ids never reach a series.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		if attr.Value.Type() == attribute.STRING && attr.Value.AsString() == "" {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
