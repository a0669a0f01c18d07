package export

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *reportingdomain.RevenueReport {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	property := snowflake.ID(77)
	return &reportingdomain.RevenueReport{
		LandlordID:   snowflake.ID(42),
		LandlordName: "Lina",
		PropertyID:   &property,
		StartDate:    &start,
		Months: []reportingdomain.MonthlyRevenueBreakdown{
			{Year: 2025, Month: 2, Period: "2025-02", InvoiceCount: 1, TotalRevenue: decimal.NewFromInt(900), PaidAmount: decimal.Zero, PendingAmount: decimal.Zero, OverdueAmount: decimal.NewFromInt(900)},
			{Year: 2025, Month: 1, Period: "2025-01", InvoiceCount: 2, PaymentCount: 2, TotalRevenue: decimal.NewFromInt(1800), PaidAmount: decimal.NewFromInt(1300), PendingAmount: decimal.NewFromInt(500), OverdueAmount: decimal.Zero},
		},
		Summary: reportingdomain.RevenueReportSummary{
			TotalRevenue:          decimal.NewFromInt(2700),
			TotalPaid:             decimal.NewFromInt(1300),
			TotalPending:          decimal.NewFromInt(500),
			TotalOverdue:          decimal.NewFromInt(900),
			AverageMonthlyRevenue: decimal.NewFromInt(1350),
			CollectionRate:        48.1,
		},
		GeneratedAt: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderRevenueStatementProducesPDF(t *testing.T) {
	reader, err := New().RenderRevenueStatement(context.Background(), sampleReport())
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NotEmpty(t, body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestRenderRevenueStatementWithoutMonths(t *testing.T) {
	report := sampleReport()
	report.Months = nil
	report.PropertyID = nil

	reader, err := New().RenderRevenueStatement(context.Background(), report)
	require.NoError(t, err)
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.NotEmpty(t, body)
}

func TestRenderRevenueStatementRejectsNil(t *testing.T) {
	_, err := New().RenderRevenueStatement(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyReport)
}

func TestPeriodLabel(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "beginning to now", period(nil, nil))
	assert.Equal(t, "2025-01-01 to 2025-01-31", period(&start, &end))
	assert.Equal(t, "2025-01-01 to now", period(&start, nil))
}
