package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/lodgely/internal/observability/metrics"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"golang.org/x/sync/errgroup"
)

func (s *Service) GetDashboardSummary(ctx context.Context, landlordID snowflake.ID) (result *reportingdomain.DashboardSummary, err error) {
	ctx, b := s.begin(ctx, metrics.ReportDashboard, landlordAttr(landlordID))
	defer func() { b.finish(err) }()

	report := metrics.ReportDashboard
	if _, err := s.requireLandlord(ctx, report, landlordID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	result = &reportingdomain.DashboardSummary{LandlordID: landlordID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.landlordStats(gctx, report, landlordID)
		if err != nil {
			return err
		}
		result.Stats = stats
		return nil
	})
	g.Go(func() error {
		summary, err := s.cashFlow(gctx, report, landlordID, startOfMonth(now), endOfMonth(now))
		if err != nil {
			return err
		}
		result.CashFlow = summary
		return nil
	})
	g.Go(func() error {
		points, err := s.revenueTrend(gctx, report, &landlordID, now)
		if err != nil {
			return err
		}
		result.RevenueTrend = points
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
