package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/lodgely/internal/observability/metrics"
	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	"github.com/smallbiznis/lodgely/internal/reporting/cache"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func (s *Service) GetAdminOverview(ctx context.Context) (overview *reportingdomain.AdminOverview, err error) {
	ctx, b := s.begin(ctx, metrics.ReportAdminOverview)
	defer func() { b.finish(err) }()

	now := s.clock.Now()
	key := cache.Key(metrics.ReportAdminOverview, monthKey(now))

	var cached reportingdomain.AdminOverview
	if hit, cacheErr := s.cache.Get(ctx, key, &cached); cacheErr != nil {
		s.log.Warn("report cache read failed", zap.String("key", key), zap.Error(cacheErr))
	} else if hit {
		return &cached, nil
	}

	report := metrics.ReportAdminOverview
	monthStart, monthEnd := startOfMonth(now), endOfMonth(now)
	expiringUntil := now.AddDate(0, 0, s.thresholds().ExpiringContractDays)
	active := rentaldomain.ContractStatusActive

	result := reportingdomain.AdminOverview{GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		invoices, err := s.gateway.ListInvoices(gctx, rentaldomain.InvoiceFilter{
			Statuses: []rentaldomain.InvoiceStatus{rentaldomain.InvoiceStatusPaid},
			PaidFrom: &monthStart,
			PaidTo:   &monthEnd,
		})
		if err != nil {
			return s.upstream(report, "list_paid_invoices", err)
		}
		revenue := decimal.Zero
		for _, invoice := range invoices {
			revenue = revenue.Add(invoice.TotalAmount)
		}
		result.CurrentMonthRevenue = revenue
		return nil
	})
	g.Go(func() error {
		count, err := s.gateway.CountRooms(gctx, rentaldomain.RoomFilter{})
		if err != nil {
			return s.upstream(report, "count_rooms", err)
		}
		result.TotalRooms = count
		return nil
	})
	g.Go(func() error {
		count, err := s.gateway.CountOccupiedRooms(gctx, rentaldomain.RoomFilter{})
		if err != nil {
			return s.upstream(report, "count_occupied_rooms", err)
		}
		result.OccupiedRooms = count
		return nil
	})
	g.Go(func() error {
		count, err := s.gateway.CountContracts(gctx, rentaldomain.ContractCountFilter{Status: &active})
		if err != nil {
			return s.upstream(report, "count_active_contracts", err)
		}
		result.ActiveContracts = count
		return nil
	})
	g.Go(func() error {
		count, err := s.gateway.CountContracts(gctx, rentaldomain.ContractCountFilter{
			Status:  &active,
			EndFrom: &now,
			EndTo:   &expiringUntil,
		})
		if err != nil {
			return s.upstream(report, "count_expiring_contracts", err)
		}
		result.ExpiringContracts = count
		return nil
	})
	g.Go(func() error {
		count, err := s.gateway.CountActiveUsers(gctx)
		if err != nil {
			return s.upstream(report, "count_active_users", err)
		}
		result.ActiveUsers = count
		return nil
	})
	g.Go(func() error {
		points, err := s.revenueTrend(gctx, report, nil, now)
		if err != nil {
			return err
		}
		result.RevenueTrend = points
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Rooms with an ACTIVE contract, not the contract count: a double-booked room
	// counts once so the rate stays within [0, 100].
	result.OccupancyRate = occupancyRate(result.OccupiedRooms, result.TotalRooms)

	if cacheErr := s.cache.Set(ctx, key, result); cacheErr != nil {
		s.log.Warn("report cache write failed", zap.String("key", key), zap.Error(cacheErr))
	}
	return &result, nil
}
