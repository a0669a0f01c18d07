package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/lodgely/internal/observability/metrics"
	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"go.opentelemetry.io/otel/attribute"
)

func (s *Service) GetRevenueTrend(ctx context.Context, req reportingdomain.RevenueTrendRequest) (points []reportingdomain.RevenueTrendPoint, err error) {
	scope := "system"
	if req.LandlordID != nil {
		scope = req.LandlordID.String()
	}
	ctx, b := s.begin(ctx, metrics.ReportRevenueTrend, attribute.String("landlord.id", scope))
	defer func() { b.finish(err) }()

	if req.LandlordID != nil && *req.LandlordID == 0 {
		return nil, reportingdomain.ErrInvalidLandlord
	}
	return s.revenueTrend(ctx, metrics.ReportRevenueTrend, req.LandlordID, s.clock.Now())
}

// revenueTrend seeds every trailing month before aggregating so idle months report zero.
func (s *Service) revenueTrend(ctx context.Context, report string, landlordID *snowflake.ID, now time.Time) ([]reportingdomain.RevenueTrendPoint, error) {
	months := trailingMonths(now, trendMonths)
	from := months[0]
	to := endOfMonth(now)

	buckets := make(map[string]decimal.Decimal, len(months))
	for _, month := range months {
		buckets[monthKey(month)] = decimal.Zero
	}

	payments, err := s.gateway.ListCompletedPayments(ctx, rentaldomain.PaymentFilter{
		LandlordID: landlordID,
		PaidFrom:   &from,
		PaidTo:     &to,
	})
	if err != nil {
		return nil, s.upstream(report, "list_completed_payments", err)
	}

	for _, payment := range payments {
		if payment.PaidAt == nil {
			continue
		}
		key := monthKey(*payment.PaidAt)
		total, ok := buckets[key]
		if !ok {
			continue
		}
		buckets[key] = total.Add(payment.Amount)
	}

	points := make([]reportingdomain.RevenueTrendPoint, 0, len(months))
	for _, month := range months {
		key := monthKey(month)
		points = append(points, reportingdomain.RevenueTrendPoint{
			Month:      key,
			MonthStart: month,
			Revenue:    buckets[key],
		})
	}
	return points, nil
}
