package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/lodgely/internal/observability/metrics"
	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"golang.org/x/sync/errgroup"
)

func (s *Service) GetExpenseReport(ctx context.Context, req reportingdomain.ExpenseReportRequest) (result *reportingdomain.ExpenseReport, err error) {
	ctx, b := s.begin(ctx, metrics.ReportExpense, landlordAttr(req.LandlordID))
	defer func() { b.finish(err) }()

	report := metrics.ReportExpense
	start := time.Unix(0, 0).UTC()
	if req.StartDate != nil {
		start = req.StartDate.UTC()
	}
	end := s.clock.Now()
	if req.EndDate != nil {
		end = req.EndDate.UTC()
	}
	if start.After(end) {
		return nil, reportingdomain.ErrInvalidRange
	}
	if _, err := s.requireLandlord(ctx, report, req.LandlordID); err != nil {
		return nil, err
	}

	var (
		expenses    []rentaldomain.Expense
		maintenance []rentaldomain.MaintenanceRequest
	)
	completed := rentaldomain.MaintenanceStatusCompleted
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.gateway.ListExpenses(gctx, rentaldomain.ExpenseFilter{
			LandlordID: req.LandlordID,
			From:       &start,
			To:         &end,
		})
		if err != nil {
			return s.upstream(report, "list_expenses", err)
		}
		expenses = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.gateway.ListMaintenanceRequests(gctx, rentaldomain.MaintenanceFilter{
			LandlordID:  &req.LandlordID,
			CreatedFrom: &start,
			CreatedTo:   &end,
			Status:      &completed,
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

	breakdown := groupExpenses(expenses, maintenance)
	total := decimal.Zero
	for _, line := range breakdown {
		total = total.Add(line.Amount)
	}

	return &reportingdomain.ExpenseReport{
		LandlordID:    req.LandlordID,
		StartDate:     start,
		EndDate:       end,
		TotalExpenses: total,
		Breakdown:     breakdown,
	}, nil
}

// groupExpenses sums expenses per category and folds completed maintenance costs into
// MAINTENANCE when they are non-zero.
func groupExpenses(expenses []rentaldomain.Expense, maintenance []rentaldomain.MaintenanceRequest) []reportingdomain.ExpenseBreakdown {
	totals := map[string]decimal.Decimal{}
	for _, expense := range expenses {
		category := strings.ToUpper(strings.TrimSpace(expense.Category))
		if category == "" {
			category = "OTHER"
		}
		totals[category] = totals[category].Add(expense.Amount)
	}

	maintenanceCost := decimal.Zero
	for _, request := range maintenance {
		if request.Status == rentaldomain.MaintenanceStatusCompleted && request.Cost.Valid {
			maintenanceCost = maintenanceCost.Add(request.Cost.Decimal)
		}
	}
	if !maintenanceCost.IsZero() {
		totals[reportingdomain.MaintenanceCategory] = totals[reportingdomain.MaintenanceCategory].Add(maintenanceCost)
	}

	breakdown := make([]reportingdomain.ExpenseBreakdown, 0, len(totals))
	for category, amount := range totals {
		breakdown = append(breakdown, reportingdomain.ExpenseBreakdown{Type: category, Amount: amount})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if cmp := breakdown[i].Amount.Cmp(breakdown[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return breakdown[i].Type < breakdown[j].Type
	})
	return breakdown
}
