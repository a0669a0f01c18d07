package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/lodgely/internal/config"
	"github.com/smallbiznis/lodgely/internal/observability/metrics"
	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

func (s *Service) GetCashFlowSummary(ctx context.Context, req reportingdomain.CashFlowRequest) (summary *reportingdomain.CashFlowSummary, err error) {
	ctx, b := s.begin(ctx, metrics.ReportCashFlow, landlordAttr(req.LandlordID), attribute.String("report.month", req.Month))
	defer func() { b.finish(err) }()

	if req.LandlordID == 0 {
		return nil, reportingdomain.ErrInvalidLandlord
	}
	start, end, err := resolveMonth(req.Month, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return s.cashFlow(ctx, metrics.ReportCashFlow, req.LandlordID, start, end)
}

func (s *Service) cashFlow(ctx context.Context, report string, landlordID snowflake.ID, start, end time.Time) (*reportingdomain.CashFlowSummary, error) {
	var (
		invoices []rentaldomain.Invoice
		expenses []rentaldomain.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.gateway.ListInvoices(gctx, rentaldomain.InvoiceFilter{
			LandlordID:   &landlordID,
			IssuedFrom:   &start,
			IssuedTo:     &end,
			WithPayments: true,
		})
		if err != nil {
			return s.upstream(report, "list_invoices", err)
		}
		invoices = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.gateway.ListExpenses(gctx, rentaldomain.ExpenseFilter{
			LandlordID: landlordID,
			From:       &start,
			To:         &end,
		})
		if err != nil {
			return s.upstream(report, "list_expenses", err)
		}
		expenses = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := buildCashFlowSummary(landlordID, start, end, s.clock.Now(), invoices, expenses, s.thresholds())
	return &summary, nil
}

// isOverdue treats stale PENDING invoices as overdue without waiting for a status job.
func isOverdue(invoice rentaldomain.Invoice, now time.Time) bool {
	switch invoice.Status {
	case rentaldomain.InvoiceStatusOverdue:
		return true
	case rentaldomain.InvoiceStatusPending:
		return invoice.DueDate.Before(now)
	default:
		return false
	}
}

// settledAt is the invoice paid timestamp, falling back to its earliest completed payment.
func settledAt(invoice rentaldomain.Invoice) *time.Time {
	if invoice.PaidAt != nil {
		return invoice.PaidAt
	}
	if payment := invoice.FirstCompletedPayment(); payment != nil {
		return payment.PaidAt
	}
	return nil
}

func buildCashFlowSummary(
	landlordID snowflake.ID,
	start, end, now time.Time,
	invoices []rentaldomain.Invoice,
	expenses []rentaldomain.Expense,
	cfg config.ReportingConfig,
) reportingdomain.CashFlowSummary {
	summary := reportingdomain.CashFlowSummary{
		LandlordID:    landlordID,
		Month:         monthKey(start),
		PeriodStart:   start,
		PeriodEnd:     end,
		TotalIncome:   decimal.Zero,
		TotalExpense:  decimal.Zero,
		TotalExpected: decimal.Zero,
		TotalPending:  decimal.Zero,
		TotalOverdue:  decimal.Zero,
		InvoiceCount:  len(invoices),
		ExpenseCount:  len(expenses),
		Alerts:        []reportingdomain.CashFlowAlert{},
	}

	var overdue, upcoming []rentaldomain.Invoice
	upcomingUntil := now.AddDate(0, 0, cfg.UpcomingWindowDays)
	paidOnTime := 0

	for _, invoice := range invoices {
		summary.TotalExpected = summary.TotalExpected.Add(invoice.TotalAmount)
		for _, payment := range invoice.Payments {
			if payment.Status == rentaldomain.PaymentStatusCompleted {
				summary.PaymentCount++
			}
		}

		// Pending follows the stored status; a stale PENDING invoice also counts as overdue.
		if invoice.Status == rentaldomain.InvoiceStatusPending {
			summary.TotalPending = summary.TotalPending.Add(invoice.TotalAmount)
			summary.PendingInvoiceCount++
		}

		switch {
		case invoice.Status == rentaldomain.InvoiceStatusPaid:
			summary.TotalIncome = summary.TotalIncome.Add(invoice.TotalAmount)
			summary.PaidInvoiceCount++
			if paidAt := settledAt(invoice); paidAt != nil && !paidAt.After(invoice.DueDate) {
				paidOnTime++
			}
		case isOverdue(invoice, now):
			summary.TotalOverdue = summary.TotalOverdue.Add(invoice.TotalAmount)
			summary.OverdueInvoiceCount++
			overdue = append(overdue, invoice)
		case invoice.Status == rentaldomain.InvoiceStatusPending:
			if !invoice.DueDate.After(upcomingUntil) {
				upcoming = append(upcoming, invoice)
			}
		}
	}

	for _, expense := range expenses {
		summary.TotalExpense = summary.TotalExpense.Add(expense.Amount)
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)

	summary.Alerts = append(summary.Alerts, overdueAlerts(overdue, now, cfg)...)
	summary.Alerts = append(summary.Alerts, upcomingAlerts(upcoming, now, cfg)...)
	if paidOnTime > 0 {
		summary.Alerts = append(summary.Alerts, reportingdomain.CashFlowAlert{
			Type:     reportingdomain.AlertTypeSuccess,
			Severity: reportingdomain.SeverityInfo,
			Message:  fmt.Sprintf("%d invoice(s) paid on or before the due date", paidOnTime),
			Amount:   decimal.Zero,
			Count:    paidOnTime,
		})
	}
	if deficit := summary.TotalExpected.Sub(summary.TotalExpense); deficit.IsNegative() {
		summary.Alerts = append(summary.Alerts, reportingdomain.CashFlowAlert{
			Type:     reportingdomain.AlertTypeForecast,
			Severity: reportingdomain.SeverityHigh,
			Message:  fmt.Sprintf("Expenses exceed expected income by %s", deficit.Abs().StringFixed(2)),
			Amount:   deficit.Abs(),
		})
	}

	return summary
}

func overdueAlerts(invoices []rentaldomain.Invoice, now time.Time, cfg config.ReportingConfig) []reportingdomain.CashFlowAlert {
	sort.SliceStable(invoices, func(i, j int) bool {
		if invoices[i].DueDate.Equal(invoices[j].DueDate) {
			return invoices[i].ID < invoices[j].ID
		}
		return invoices[i].DueDate.Before(invoices[j].DueDate)
	})

	alerts := make([]reportingdomain.CashFlowAlert, 0, min(len(invoices), cfg.MaxOverdueAlerts))
	for _, invoice := range invoices {
		if len(alerts) >= cfg.MaxOverdueAlerts {
			break
		}
		days := wholeDaysBetween(invoice.DueDate, now)
		severity := reportingdomain.SeverityMedium
		if days > cfg.OverdueHighSeverityDays {
			severity = reportingdomain.SeverityHigh
		}
		alerts = append(alerts, invoiceAlert(invoice, reportingdomain.AlertTypeOverdue, severity,
			fmt.Sprintf("Invoice %s is %d day(s) overdue", invoice.InvoiceNumber, days), days))
	}
	return alerts
}

func upcomingAlerts(invoices []rentaldomain.Invoice, now time.Time, cfg config.ReportingConfig) []reportingdomain.CashFlowAlert {
	sort.SliceStable(invoices, func(i, j int) bool {
		if invoices[i].DueDate.Equal(invoices[j].DueDate) {
			return invoices[i].ID < invoices[j].ID
		}
		return invoices[i].DueDate.Before(invoices[j].DueDate)
	})

	alerts := make([]reportingdomain.CashFlowAlert, 0, min(len(invoices), cfg.MaxUpcomingAlerts))
	for _, invoice := range invoices {
		if len(alerts) >= cfg.MaxUpcomingAlerts {
			break
		}
		days := ceilDaysBetween(now, invoice.DueDate)
		alerts = append(alerts, invoiceAlert(invoice, reportingdomain.AlertTypeUpcoming, reportingdomain.SeverityLow,
			fmt.Sprintf("Invoice %s is due in %d day(s)", invoice.InvoiceNumber, days), 0))
	}
	return alerts
}

func invoiceAlert(invoice rentaldomain.Invoice, kind reportingdomain.AlertType, severity reportingdomain.Severity, message string, daysOverdue int) reportingdomain.CashFlowAlert {
	id := invoice.ID
	due := invoice.DueDate
	return reportingdomain.CashFlowAlert{
		Type:          kind,
		Severity:      severity,
		Message:       message,
		InvoiceID:     &id,
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        invoice.TotalAmount,
		DueDate:       &due,
		DaysOverdue:   daysOverdue,
	}
}
