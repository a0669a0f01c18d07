package service

import (
	"context"
	"sort"
	"strings"

	"github.com/smallbiznis/lodgely/internal/observability/metrics"
	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"golang.org/x/sync/errgroup"
)

func (s *Service) GetTenantBehavior(ctx context.Context, req reportingdomain.TenantBehaviorRequest) (result *reportingdomain.TenantBehaviorReport, err error) {
	ctx, b := s.begin(ctx, metrics.ReportTenantBehavior, landlordAttr(req.LandlordID))
	defer func() { b.finish(err) }()

	report := metrics.ReportTenantBehavior
	if _, err := s.requireLandlord(ctx, report, req.LandlordID); err != nil {
		return nil, err
	}

	var (
		contracts   []rentaldomain.Contract
		maintenance []rentaldomain.MaintenanceRequest
	)
	active := rentaldomain.ContractStatusActive
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.gateway.ListContracts(gctx, rentaldomain.ContractFilter{
			LandlordID:   &req.LandlordID,
			PropertyID:   req.PropertyID,
			Status:       &active,
			WithInvoices: true,
			WithTenant:   true,
			WithRoom:     true,
		})
		if err != nil {
			return s.upstream(report, "list_contracts", err)
		}
		contracts = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.gateway.ListMaintenanceRequests(gctx, rentaldomain.MaintenanceFilter{
			LandlordID: &req.LandlordID,
			PropertyID: req.PropertyID,
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

	tenants := make([]reportingdomain.TenantBehavior, 0, len(contracts))
	for _, contract := range contracts {
		tenants = append(tenants, analyzeContract(contract))
	}
	rankTenants(tenants)

	return &reportingdomain.TenantBehaviorReport{
		LandlordID: req.LandlordID,
		PropertyID: req.PropertyID,
		Tenants:    tenants,
		Summary:    summarizeTenants(tenants, len(maintenance)),
	}, nil
}

// analyzeContract classifies each invoice by its first completed payment. An unpaid
// OVERDUE invoice is late but adds no delay days.
func analyzeContract(contract rentaldomain.Contract) reportingdomain.TenantBehavior {
	behavior := reportingdomain.TenantBehavior{
		ContractID:    contract.ID,
		TenantID:      contract.TenantID,
		TotalInvoices: len(contract.Invoices),
	}
	if contract.Tenant != nil && contract.Tenant.User != nil {
		behavior.TenantName = contract.Tenant.User.Name
	}
	if contract.Room != nil {
		behavior.RoomName = contract.Room.Name
		if contract.Room.Property != nil {
			behavior.PropertyName = contract.Room.Property.Name
		}
	}

	delayDays := 0
	for _, invoice := range contract.Invoices {
		payment := invoice.FirstCompletedPayment()
		switch {
		case payment != nil && !payment.PaidAt.After(invoice.DueDate):
			behavior.OnTimePayments++
		case payment != nil:
			behavior.LatePayments++
			delayDays += ceilDaysBetween(invoice.DueDate, *payment.PaidAt)
		case invoice.Status == rentaldomain.InvoiceStatusOverdue:
			behavior.LatePayments++
		}
	}

	if behavior.TotalInvoices > 0 {
		behavior.AveragePaymentDelay = roundFloat(float64(delayDays)/float64(behavior.TotalInvoices), 2)
		behavior.OnTimeRate = roundFloat(float64(behavior.OnTimePayments)/float64(behavior.TotalInvoices)*100, 1)
	}
	return behavior
}

func rankTenants(tenants []reportingdomain.TenantBehavior) {
	sort.Slice(tenants, func(i, j int) bool {
		if tenants[i].OnTimeRate != tenants[j].OnTimeRate {
			return tenants[i].OnTimeRate > tenants[j].OnTimeRate
		}
		if tenants[i].AveragePaymentDelay != tenants[j].AveragePaymentDelay {
			return tenants[i].AveragePaymentDelay < tenants[j].AveragePaymentDelay
		}
		if cmp := strings.Compare(tenants[i].TenantName, tenants[j].TenantName); cmp != 0 {
			return cmp < 0
		}
		return tenants[i].ContractID < tenants[j].ContractID
	})
}

func summarizeTenants(tenants []reportingdomain.TenantBehavior, maintenanceRequests int) reportingdomain.TenantBehaviorSummary {
	summary := reportingdomain.TenantBehaviorSummary{
		TotalTenants:             len(tenants),
		TotalMaintenanceRequests: maintenanceRequests,
	}
	if len(tenants) == 0 {
		return summary
	}
	rateTotal, delayTotal := 0.0, 0.0
	for _, tenant := range tenants {
		rateTotal += tenant.OnTimeRate
		delayTotal += tenant.AveragePaymentDelay
	}
	summary.AverageOnTimeRate = roundFloat(rateTotal/float64(len(tenants)), 1)
	summary.AveragePaymentDelay = roundFloat(delayTotal/float64(len(tenants)), 2)
	return summary
}
