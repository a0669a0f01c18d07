package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/lodgely/internal/clock"
	"github.com/smallbiznis/lodgely/internal/config"
	"github.com/smallbiznis/lodgely/internal/observability/logger"
	"github.com/smallbiznis/lodgely/internal/observability/metrics"
	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	"github.com/smallbiznis/lodgely/internal/reporting/cache"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Gateway rentaldomain.Gateway
	Log     *zap.Logger
	Clock   clock.Clock
	Config  *config.ReportingConfigHolder
	Metrics     *metrics.ReportMetrics `optional:"true"`
	Instruments *metrics.Instruments   `optional:"true"`
	Cache       *cache.ReportCache     `optional:"true"`
}

type Service struct {
	gateway rentaldomain.Gateway
	log     *zap.Logger
	clock   clock.Clock
	config  *config.ReportingConfigHolder
	metrics     *metrics.ReportMetrics
	instruments *metrics.Instruments
	cache       *cache.ReportCache
	tracer      trace.Tracer
}

func NewService(p Params) reportingdomain.Service {
	return &Service{
		gateway:     newMeteredGateway(p.Gateway, p.Instruments),
		log:         p.Log.Named("reporting.service"),
		clock:       p.Clock,
		config:      p.Config,
		metrics:     p.Metrics,
		instruments: p.Instruments,
		cache:       p.Cache,
		tracer:      otel.Tracer("lodgely/reporting"),
	}
}

func (s *Service) thresholds() config.ReportingConfig {
	return s.config.Get()
}

// build tracks one report invocation across span, metrics and logs.
type build struct {
	s      *Service
	ctx    context.Context
	report string
	span   trace.Span
	start  time.Time
	empty  bool
}

func (s *Service) begin(ctx context.Context, report string, attrs ...attribute.KeyValue) (context.Context, *build) {
	ctx, span := s.tracer.Start(ctx, "reporting."+report, trace.WithAttributes(attrs...))
	ctx = withReport(ctx, report)
	return ctx, &build{
		s:      s,
		ctx:    ctx,
		report: report,
		span:   span,
		start:  time.Now(),
	}
}

func (b *build) markEmpty() {
	b.empty = true
}

func (b *build) finish(err error) {
	defer b.span.End()

	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil && b.empty:
		outcome = metrics.OutcomeEmpty
	case err == nil:
	case errors.Is(err, reportingdomain.ErrLandlordNotFound):
		outcome = metrics.OutcomeNotFound
	case reportingdomain.IsValidationError(err):
		outcome = metrics.OutcomeInvalid
	default:
		outcome = metrics.OutcomeError
		b.span.RecordError(err)
		b.span.SetStatus(codes.Error, err.Error())
		logger.WithContext(b.ctx, b.s.log).Error("report build failed",
			zap.String("report", b.report),
			zap.Error(err),
		)
	}
	b.span.SetAttributes(attribute.String("report.outcome", outcome))
	elapsed := time.Since(b.start)
	b.s.metrics.ObserveBuild(b.report, outcome, elapsed)
	b.s.instruments.RecordBuild(b.ctx, b.report, outcome, elapsed)
}

// upstream wraps a gateway error; the caller decides whether to retry.
func (s *Service) upstream(report, op string, err error) error {
	s.metrics.IncUpstreamError(report, err)
	return &reportingdomain.UpstreamError{Op: op, Err: err}
}

func (s *Service) requireLandlord(ctx context.Context, report string, landlordID snowflake.ID) (*rentaldomain.Landlord, error) {
	if landlordID == 0 {
		return nil, reportingdomain.ErrInvalidLandlord
	}
	landlord, err := s.gateway.FindLandlord(ctx, landlordID)
	if err != nil {
		return nil, s.upstream(report, "find_landlord", err)
	}
	if landlord == nil {
		return nil, reportingdomain.ErrLandlordNotFound
	}
	return landlord, nil
}

func landlordAttr(id snowflake.ID) attribute.KeyValue {
	return attribute.String("landlord.id", id.String())
}
