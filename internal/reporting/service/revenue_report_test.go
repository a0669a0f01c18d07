package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	"github.com/smallbiznis/lodgely/internal/rental/rentaltest"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type revenueSeed struct {
	landlord *rentaldomain.Landlord
	p1, p2   *rentaldomain.Property
}

func seedRevenue(env *testEnv) revenueSeed {
	f := env.fixture
	landlord := f.Landlord("lina")
	tenant := f.Tenant("tomo")
	p1 := f.Property(landlord, "P1")
	p2 := f.Property(landlord, "P2")
	c1 := f.Contract(landlord, tenant, f.Room(p1, "R1", rentaldomain.RoomStatusOccupied, "1000"), rentaldomain.ContractStatusActive, date(2024, 6, 1), date(2025, 12, 31))
	c2 := f.Contract(landlord, tenant, f.Room(p2, "R2", rentaldomain.RoomStatusOccupied, "900"), rentaldomain.ContractStatusActive, date(2024, 6, 1), date(2025, 12, 31))

	paid := f.Invoice(c1, rentaltest.InvoiceSpec{Total: "1000", IssueDate: date(2025, 1, 5), DueDate: date(2025, 1, 15), Status: rentaldomain.InvoiceStatusPaid})
	f.Payment(paid, "1000", rentaldomain.PaymentStatusCompleted, rentaltest.Ptr(date(2025, 1, 10)))

	partial := f.Invoice(c1, rentaltest.InvoiceSpec{Total: "800", IssueDate: date(2025, 1, 6), DueDate: date(2025, 3, 20)})
	f.Payment(partial, "300", rentaldomain.PaymentStatusCompleted, rentaltest.Ptr(date(2025, 1, 20)))
	f.Payment(partial, "200", rentaldomain.PaymentStatusFailed, rentaltest.Ptr(date(2025, 1, 21)))

	f.Invoice(c2, rentaltest.InvoiceSpec{Total: "900", IssueDate: date(2025, 2, 5), DueDate: date(2025, 2, 15), Status: rentaldomain.InvoiceStatusOverdue})

	other := f.Landlord("other")
	otherContract := f.Contract(other, tenant, f.Room(f.Property(other, "P9"), "R9", rentaldomain.RoomStatusOccupied, "100"), rentaldomain.ContractStatusActive, date(2024, 6, 1), date(2025, 12, 31))
	f.Invoice(otherContract, rentaltest.InvoiceSpec{Total: "5000", IssueDate: date(2025, 2, 5), DueDate: date(2025, 2, 15)})

	return revenueSeed{landlord: landlord, p1: p1, p2: p2}
}

func TestRevenueReportBucketsByMonth(t *testing.T) {
	env := newTestEnv(t)
	seed := seedRevenue(env)

	report, err := env.svc.GetLandlordRevenueReport(context.Background(), reportingdomain.RevenueReportRequest{LandlordID: seed.landlord.ID})
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, "lina", report.LandlordName)
	require.Len(t, report.Months, 2)

	feb, jan := report.Months[0], report.Months[1]
	assert.Equal(t, "2025-02", feb.Period)
	assert.Equal(t, 1, feb.InvoiceCount)
	assert.Equal(t, 0, feb.PaymentCount)
	assert.True(t, feb.OverdueAmount.Equal(rentaltest.Money("900")))

	assert.Equal(t, "2025-01", jan.Period)
	assert.Equal(t, 2, jan.InvoiceCount)
	assert.Equal(t, 2, jan.PaymentCount)
	assert.True(t, jan.TotalRevenue.Equal(rentaltest.Money("1800")))
	assert.True(t, jan.PaidAmount.Equal(rentaltest.Money("1300")), jan.PaidAmount.String())
	assert.True(t, jan.PendingAmount.Equal(rentaltest.Money("500")), jan.PendingAmount.String())

	summary := report.Summary
	assert.True(t, summary.TotalRevenue.Equal(rentaltest.Money("2700")))
	assert.True(t, summary.TotalPaid.Equal(rentaltest.Money("1300")))
	assert.True(t, summary.TotalPending.Equal(rentaltest.Money("500")))
	assert.True(t, summary.TotalOverdue.Equal(rentaltest.Money("900")))
	assert.Equal(t, 3, summary.TotalInvoices)
	assert.Equal(t, 2, summary.TotalPayments)
	assert.True(t, summary.AverageMonthlyRevenue.Equal(rentaltest.Money("1350")), summary.AverageMonthlyRevenue.String())
	assert.Equal(t, 48.1, summary.CollectionRate)

	monthTotal := jan.TotalRevenue.Add(feb.TotalRevenue)
	assert.True(t, monthTotal.Equal(summary.TotalRevenue))
}

func TestRevenueReportFilters(t *testing.T) {
	env := newTestEnv(t)
	seed := seedRevenue(env)

	byProperty, err := env.svc.GetLandlordRevenueReport(context.Background(), reportingdomain.RevenueReportRequest{
		LandlordID: seed.landlord.ID,
		PropertyID: &seed.p2.ID,
	})
	require.NoError(t, err)
	require.Len(t, byProperty.Months, 1)
	assert.True(t, byProperty.Summary.TotalRevenue.Equal(rentaltest.Money("900")))

	start, end := date(2025, 1, 1), date(2025, 1, 31)
	byRange, err := env.svc.GetLandlordRevenueReport(context.Background(), reportingdomain.RevenueReportRequest{
		LandlordID: seed.landlord.ID,
		StartDate:  &start,
		EndDate:    &end,
	})
	require.NoError(t, err)
	require.Len(t, byRange.Months, 1)
	assert.Equal(t, "2025-01", byRange.Months[0].Period)
}

func TestRevenueReportEmptyRange(t *testing.T) {
	env := newTestEnv(t)
	seed := seedRevenue(env)

	start, end := date(2023, 1, 1), date(2023, 12, 31)
	report, err := env.svc.GetLandlordRevenueReport(context.Background(), reportingdomain.RevenueReportRequest{
		LandlordID: seed.landlord.ID,
		StartDate:  &start,
		EndDate:    &end,
	})
	require.NoError(t, err)
	assert.Empty(t, report.Months)
	assert.True(t, report.Summary.AverageMonthlyRevenue.IsZero())
	assert.Equal(t, 0.0, report.Summary.CollectionRate)
}

func TestRevenueReportLandlordNotFoundStopsEarly(t *testing.T) {
	gw := &mockGateway{}
	gw.On("FindLandlord", mock.Anything, snowflake.ID(42)).Return(nil, nil)

	env := newServiceWithGateway(t, gw)
	report, err := env.svc.GetLandlordRevenueReport(context.Background(), reportingdomain.RevenueReportRequest{LandlordID: 42})
	require.ErrorIs(t, err, reportingdomain.ErrLandlordNotFound)
	assert.Nil(t, report)
	gw.AssertNotCalled(t, "ListInvoices", mock.Anything, mock.Anything)
}

func TestRevenueReportRejectsInvertedRange(t *testing.T) {
	env := newTestEnv(t)
	start, end := date(2025, 3, 1), date(2025, 1, 1)

	_, err := env.svc.GetLandlordRevenueReport(context.Background(), reportingdomain.RevenueReportRequest{
		LandlordID: 7,
		StartDate:  &start,
		EndDate:    &end,
	})
	require.ErrorIs(t, err, reportingdomain.ErrInvalidRange)
}
