package service

import (
	"context"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/lodgely/internal/observability/metrics"
	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

func (s *Service) GetPropertyPerformance(ctx context.Context, req reportingdomain.PropertyPerformanceRequest) (result *reportingdomain.PropertyPerformanceReport, err error) {
	ctx, b := s.begin(ctx, metrics.ReportPropertyPerformance, landlordAttr(req.LandlordID), attribute.Int("report.months", req.Months))
	defer func() { b.finish(err) }()

	report := metrics.ReportPropertyPerformance
	months := req.Months
	if months <= 0 {
		months = s.thresholds().PropertyLookbackMonths
	}
	if months > maxLookbackMonths {
		return nil, reportingdomain.ErrInvalidMonths
	}
	if _, err := s.requireLandlord(ctx, report, req.LandlordID); err != nil {
		return nil, err
	}

	periodStart := s.clock.Now().AddDate(0, -months, 0)

	var (
		properties  []rentaldomain.Property
		payments    []rentaldomain.Payment
		maintenance []rentaldomain.MaintenanceRequest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.gateway.ListProperties(gctx, rentaldomain.PropertyFilter{
			LandlordID: &req.LandlordID,
			WithRooms:  true,
		})
		if err != nil {
			return s.upstream(report, "list_properties", err)
		}
		properties = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.gateway.ListCompletedPayments(gctx, rentaldomain.PaymentFilter{
			LandlordID: &req.LandlordID,
			PaidFrom:   &periodStart,
			WithJoins:  true,
		})
		if err != nil {
			return s.upstream(report, "list_completed_payments", err)
		}
		payments = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.gateway.ListMaintenanceRequests(gctx, rentaldomain.MaintenanceFilter{
			LandlordID:  &req.LandlordID,
			CreatedFrom: &periodStart,
		})
		if err != nil {
			return s.upstream(report, "list_maintenance_requests", err)
		}
		maintenance = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	revenue, skipped := revenueByProperty(payments)
	s.metrics.AddSkippedRecords(report, reportingdomain.SkipReasonMissingRoom, skipped)

	requests := map[snowflake.ID]int{}
	for _, request := range maintenance {
		if request.Room != nil {
			requests[request.Room.PropertyID]++
		}
	}

	metricsRows := buildPropertyMetrics(properties, revenue, requests)
	return &reportingdomain.PropertyPerformanceReport{
		LandlordID:  req.LandlordID,
		Months:      months,
		PeriodStart: periodStart,
		Properties:  metricsRows,
		Summary:     summarizeProperties(metricsRows),
	}, nil
}

// revenueByProperty sums payments per property and counts payments it cannot place.
func revenueByProperty(payments []rentaldomain.Payment) (map[snowflake.ID]decimal.Decimal, int) {
	revenue := map[snowflake.ID]decimal.Decimal{}
	skipped := 0
	for _, payment := range payments {
		if payment.Invoice == nil || payment.Invoice.Contract == nil || payment.Invoice.Contract.Room == nil {
			skipped++
			continue
		}
		propertyID := payment.Invoice.Contract.Room.PropertyID
		revenue[propertyID] = revenue[propertyID].Add(payment.Amount)
	}
	return revenue, skipped
}

func buildPropertyMetrics(properties []rentaldomain.Property, revenue map[snowflake.ID]decimal.Decimal, requests map[snowflake.ID]int) []reportingdomain.PropertyMetrics {
	rows := make([]reportingdomain.PropertyMetrics, 0, len(properties))
	for _, property := range properties {
		occupied := 0
		priceTotal := decimal.Zero
		for _, room := range property.Rooms {
			if room.Status == rentaldomain.RoomStatusOccupied {
				occupied++
			}
			priceTotal = priceTotal.Add(room.PricePerMonth)
		}
		averagePrice := decimal.Zero
		if len(property.Rooms) > 0 {
			averagePrice = priceTotal.Div(decimal.NewFromInt(int64(len(property.Rooms)))).Round(2)
		}
		total, ok := revenue[property.ID]
		if !ok {
			total = decimal.Zero
		}

		rows = append(rows, reportingdomain.PropertyMetrics{
			PropertyID:          property.ID,
			Name:                property.Name,
			Address:             property.Address,
			TotalRooms:          len(property.Rooms),
			OccupiedRooms:       occupied,
			OccupancyRate:       occupancyRate(int64(occupied), int64(len(property.Rooms))),
			AverageRoomPrice:    averagePrice,
			TotalRevenue:        total,
			MaintenanceRequests: requests[property.ID],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].OccupancyRate != rows[j].OccupancyRate {
			return rows[i].OccupancyRate > rows[j].OccupancyRate
		}
		if cmp := rows[i].TotalRevenue.Cmp(rows[j].TotalRevenue); cmp != 0 {
			return cmp > 0
		}
		if cmp := strings.Compare(rows[i].Name, rows[j].Name); cmp != 0 {
			return cmp < 0
		}
		return rows[i].PropertyID < rows[j].PropertyID
	})
	return rows
}

func summarizeProperties(rows []reportingdomain.PropertyMetrics) reportingdomain.PropertyPerformanceSummary {
	summary := reportingdomain.PropertyPerformanceSummary{
		TotalProperties: len(rows),
		TotalRevenue:    decimal.Zero,
	}
	rateTotal := 0.0
	for _, row := range rows {
		summary.TotalRooms += row.TotalRooms
		summary.OccupiedRooms += row.OccupiedRooms
		summary.TotalRevenue = summary.TotalRevenue.Add(row.TotalRevenue)
		summary.TotalMaintenanceRequests += row.MaintenanceRequests
		rateTotal += row.OccupancyRate
	}
	if len(rows) > 0 {
		summary.AverageOccupancyRate = roundFloat(rateTotal/float64(len(rows)), 1)
		best := rows[0]
		summary.BestPerformer = &best
	}
	return summary
}

