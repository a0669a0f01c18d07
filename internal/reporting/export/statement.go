// Package export renders reporting aggregates into printable documents.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
)

const dateLayout = "2006-01-02"

var ErrEmptyReport = errors.New("empty_report")

type Renderer interface {
	RenderRevenueStatement(ctx context.Context, report *reportingdomain.RevenueReport) (io.Reader, error)
}

type PDFRenderer struct{}

func New() Renderer {
	return &PDFRenderer{}
}

// RenderRevenueStatement lays out the monthly breakdown followed by the summary totals.
func (r *PDFRenderer) RenderRevenueStatement(ctx context.Context, report *reportingdomain.RevenueReport) (io.Reader, error) {
	if report == nil {
		return nil, ErrEmptyReport
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, "Revenue statement", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(22,
		col.New(6).Add(
			text.New("Landlord: "+report.LandlordName, props.Text{Top: 0}),
			text.New("Landlord ID: "+report.LandlordID.String(), props.Text{Top: 4}),
			text.New("Period: "+period(report.StartDate, report.EndDate), props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New("Generated: "+report.GeneratedAt.UTC().Format(time.RFC3339), props.Text{Top: 0, Align: align.Right}),
			text.New(propertyScope(report), props.Text{Top: 4, Align: align.Right}),
		),
	)

	header := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}
	m.AddRow(10,
		text.NewCol(2, "Month", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Invoices", header),
		text.NewCol(1, "Payments", header),
		text.NewCol(2, "Billed", header),
		text.NewCol(2, "Paid", header),
		text.NewCol(2, "Pending", header),
		text.NewCol(2, "Overdue", header),
	)

	cell := props.Text{Size: 9, Align: align.Right}
	for _, month := range report.Months {
		m.AddRow(8,
			text.NewCol(2, month.Period, props.Text{Size: 9}),
			text.NewCol(1, fmt.Sprintf("%d", month.InvoiceCount), cell),
			text.NewCol(1, fmt.Sprintf("%d", month.PaymentCount), cell),
			text.NewCol(2, money(month.TotalRevenue), cell),
			text.NewCol(2, money(month.PaidAmount), cell),
			text.NewCol(2, money(month.PendingAmount), cell),
			text.NewCol(2, money(month.OverdueAmount), cell),
		)
	}
	if len(report.Months) == 0 {
		m.AddRow(8, text.NewCol(12, "No invoices in this period.", props.Text{Size: 9, Style: fontstyle.Italic}))
	}

	summary := report.Summary
	totals := []struct {
		label string
		value string
	}{
		{"Total billed", money(summary.TotalRevenue)},
		{"Total paid", money(summary.TotalPaid)},
		{"Total pending", money(summary.TotalPending)},
		{"Total overdue", money(summary.TotalOverdue)},
		{"Average per month", money(summary.AverageMonthlyRevenue)},
		{"Collection rate", fmt.Sprintf("%.1f%%", summary.CollectionRate)},
	}
	m.AddRow(6)
	for _, line := range totals {
		m.AddRow(8,
			col.New(7),
			text.NewCol(3, line.label, props.Text{Size: 9}),
			text.NewCol(2, line.value, props.Text{Size: 9, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func period(start, end *time.Time) string {
	from, to := "beginning", "now"
	if start != nil {
		from = start.UTC().Format(dateLayout)
	}
	if end != nil {
		to = end.UTC().Format(dateLayout)
	}
	return from + " to " + to
}

func propertyScope(report *reportingdomain.RevenueReport) string {
	if report.PropertyID == nil {
		return "All properties"
	}
	return "Property ID: " + report.PropertyID.String()
}
