package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/lodgely/internal/observability/metrics"
	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
)

type monthBucketKey struct {
	year  int
	month int
}

func (s *Service) GetLandlordRevenueReport(ctx context.Context, req reportingdomain.RevenueReportRequest) (result *reportingdomain.RevenueReport, err error) {
	ctx, b := s.begin(ctx, metrics.ReportRevenue, landlordAttr(req.LandlordID))
	defer func() { b.finish(err) }()

	report := metrics.ReportRevenue
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return nil, reportingdomain.ErrInvalidRange
	}
	landlord, err := s.requireLandlord(ctx, report, req.LandlordID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.gateway.ListInvoices(ctx, rentaldomain.InvoiceFilter{
		LandlordID:   &req.LandlordID,
		PropertyID:   req.PropertyID,
		CreatedFrom:  req.StartDate,
		CreatedTo:    req.EndDate,
		WithPayments: true,
	})
	if err != nil {
		return nil, s.upstream(report, "list_invoices", err)
	}

	months := bucketRevenueByMonth(invoices)
	return &reportingdomain.RevenueReport{
		LandlordID:   req.LandlordID,
		LandlordName: landlord.DisplayName(),
		PropertyID:   req.PropertyID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Months:       months,
		Summary:      summarizeRevenue(months),
		GeneratedAt:  s.clock.Now(),
	}, nil
}

// bucketRevenueByMonth groups invoices by created month, newest first. The unpaid remainder
// of each invoice is attributed by its current status.
func bucketRevenueByMonth(invoices []rentaldomain.Invoice) []reportingdomain.MonthlyRevenueBreakdown {
	buckets := map[monthBucketKey]*reportingdomain.MonthlyRevenueBreakdown{}

	for _, invoice := range invoices {
		created := invoice.CreatedAt.UTC()
		key := monthBucketKey{year: created.Year(), month: int(created.Month())}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &reportingdomain.MonthlyRevenueBreakdown{
				Year:          key.year,
				Month:         key.month,
				Period:        fmt.Sprintf("%04d-%02d", key.year, key.month),
				TotalRevenue:  decimal.Zero,
				PaidAmount:    decimal.Zero,
				PendingAmount: decimal.Zero,
				OverdueAmount: decimal.Zero,
			}
			buckets[key] = bucket
		}

		paid := decimal.Zero
		for _, payment := range invoice.Payments {
			if payment.Status != rentaldomain.PaymentStatusCompleted {
				continue
			}
			paid = paid.Add(payment.Amount)
			bucket.PaymentCount++
		}

		bucket.InvoiceCount++
		bucket.TotalRevenue = bucket.TotalRevenue.Add(invoice.TotalAmount)
		bucket.PaidAmount = bucket.PaidAmount.Add(paid)

		remaining := decimal.Max(invoice.TotalAmount.Sub(paid), decimal.Zero)
		switch invoice.Status {
		case rentaldomain.InvoiceStatusPending:
			bucket.PendingAmount = bucket.PendingAmount.Add(remaining)
		case rentaldomain.InvoiceStatusOverdue:
			bucket.OverdueAmount = bucket.OverdueAmount.Add(remaining)
		}
	}

	months := make([]reportingdomain.MonthlyRevenueBreakdown, 0, len(buckets))
	for _, bucket := range buckets {
		months = append(months, *bucket)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year > months[j].Year
		}
		return months[i].Month > months[j].Month
	})
	return months
}

func summarizeRevenue(months []reportingdomain.MonthlyRevenueBreakdown) reportingdomain.RevenueReportSummary {
	summary := reportingdomain.RevenueReportSummary{
		TotalRevenue:          decimal.Zero,
		TotalPaid:             decimal.Zero,
		TotalPending:          decimal.Zero,
		TotalOverdue:          decimal.Zero,
		AverageMonthlyRevenue: decimal.Zero,
	}
	for _, month := range months {
		summary.TotalRevenue = summary.TotalRevenue.Add(month.TotalRevenue)
		summary.TotalPaid = summary.TotalPaid.Add(month.PaidAmount)
		summary.TotalPending = summary.TotalPending.Add(month.PendingAmount)
		summary.TotalOverdue = summary.TotalOverdue.Add(month.OverdueAmount)
		summary.TotalInvoices += month.InvoiceCount
		summary.TotalPayments += month.PaymentCount
	}
	if len(months) > 0 {
		summary.AverageMonthlyRevenue = summary.TotalRevenue.Div(decimal.NewFromInt(int64(len(months)))).Round(2)
	}
	summary.CollectionRate = percentage(summary.TotalPaid, summary.TotalRevenue)
	return summary
}
