package service

import (
	"context"
	"testing"

	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	"github.com/smallbiznis/lodgely/internal/rental/rentaltest"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPropertyPerformance(env *testEnv) *rentaldomain.Landlord {
	f := env.fixture
	landlord := f.Landlord("lina")
	tenant := f.Tenant("tomo")

	alpha := f.Property(landlord, "Alpha")
	a1 := f.Room(alpha, "A1", rentaldomain.RoomStatusOccupied, "1000")
	f.Room(alpha, "A2", rentaldomain.RoomStatusAvailable, "1500")

	beta := f.Property(landlord, "Beta")
	b1 := f.Room(beta, "B1", rentaldomain.RoomStatusOccupied, "2000")
	f.Room(beta, "B2", rentaldomain.RoomStatusOccupied, "2000")

	gamma := f.Property(landlord, "Gamma")
	f.Room(gamma, "C1", rentaldomain.RoomStatusOccupied, "900")
	f.Room(gamma, "C2", rentaldomain.RoomStatusAvailable, "900")

	alphaContract := f.Contract(landlord, tenant, a1, rentaldomain.ContractStatusActive, date(2024, 1, 1), date(2025, 12, 31))
	betaContract := f.Contract(landlord, tenant, b1, rentaldomain.ContractStatusActive, date(2024, 1, 1), date(2025, 12, 31))

	recent := f.Invoice(alphaContract, rentaltest.InvoiceSpec{Total: "500", IssueDate: date(2025, 1, 25), DueDate: date(2025, 2, 5), Status: rentaldomain.InvoiceStatusPaid})
	f.Payment(recent, "500", rentaldomain.PaymentStatusCompleted, rentaltest.Ptr(date(2025, 2, 1)))
	old := f.Invoice(alphaContract, rentaltest.InvoiceSpec{Total: "700", IssueDate: date(2024, 7, 25), DueDate: date(2024, 8, 5), Status: rentaldomain.InvoiceStatusPaid})
	f.Payment(old, "700", rentaldomain.PaymentStatusCompleted, rentaltest.Ptr(date(2024, 8, 1)))
	betaInvoice := f.Invoice(betaContract, rentaltest.InvoiceSpec{Total: "300", IssueDate: date(2025, 2, 25), DueDate: date(2025, 3, 5), Status: rentaldomain.InvoiceStatusPaid})
	f.Payment(betaInvoice, "300", rentaldomain.PaymentStatusCompleted, rentaltest.Ptr(date(2025, 3, 1)))

	f.Maintenance(a1, rentaldomain.MaintenanceStatusPending, "", date(2025, 1, 10))
	f.Maintenance(a1, rentaldomain.MaintenanceStatusCompleted, "50", date(2024, 5, 1))
	return landlord
}

func TestPropertyPerformanceOrderingAndSummary(t *testing.T) {
	env := newTestEnv(t)
	landlord := seedPropertyPerformance(env)

	report, err := env.svc.GetPropertyPerformance(context.Background(), reportingdomain.PropertyPerformanceRequest{LandlordID: landlord.ID})
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 6, report.Months)
	assert.Equal(t, testNow.AddDate(0, -6, 0), report.PeriodStart)
	require.Len(t, report.Properties, 3)

	beta, alpha, gamma := report.Properties[0], report.Properties[1], report.Properties[2]
	assert.Equal(t, "Beta", beta.Name)
	assert.Equal(t, 100.0, beta.OccupancyRate)
	assert.True(t, beta.TotalRevenue.Equal(rentaltest.Money("300")))

	assert.Equal(t, "Alpha", alpha.Name)
	assert.Equal(t, 50.0, alpha.OccupancyRate)
	assert.True(t, alpha.AverageRoomPrice.Equal(rentaltest.Money("1250")), alpha.AverageRoomPrice.String())
	assert.True(t, alpha.TotalRevenue.Equal(rentaltest.Money("500")), alpha.TotalRevenue.String())
	assert.Equal(t, 1, alpha.MaintenanceRequests)

	assert.Equal(t, "Gamma", gamma.Name)
	assert.True(t, gamma.TotalRevenue.IsZero())

	summary := report.Summary
	assert.Equal(t, 3, summary.TotalProperties)
	assert.Equal(t, 6, summary.TotalRooms)
	assert.Equal(t, 4, summary.OccupiedRooms)
	assert.Equal(t, 66.7, summary.AverageOccupancyRate)
	assert.True(t, summary.TotalRevenue.Equal(rentaltest.Money("800")))
	assert.Equal(t, 1, summary.TotalMaintenanceRequests)
	require.NotNil(t, summary.BestPerformer)
	assert.Equal(t, "Beta", summary.BestPerformer.Name)
}

func TestPropertyPerformanceLongerWindow(t *testing.T) {
	env := newTestEnv(t)
	landlord := seedPropertyPerformance(env)

	report, err := env.svc.GetPropertyPerformance(context.Background(), reportingdomain.PropertyPerformanceRequest{LandlordID: landlord.ID, Months: 12})
	require.NoError(t, err)
	require.Len(t, report.Properties, 3)
	assert.Equal(t, "Alpha", report.Properties[1].Name)
	assert.True(t, report.Properties[1].TotalRevenue.Equal(rentaltest.Money("1200")))
	assert.Equal(t, 2, report.Properties[1].MaintenanceRequests)
}

func TestPropertyPerformanceWithoutProperties(t *testing.T) {
	env := newTestEnv(t)
	landlord := env.fixture.Landlord("empty")

	report, err := env.svc.GetPropertyPerformance(context.Background(), reportingdomain.PropertyPerformanceRequest{LandlordID: landlord.ID})
	require.NoError(t, err)
	assert.Empty(t, report.Properties)
	assert.Nil(t, report.Summary.BestPerformer)
	assert.Equal(t, 0.0, report.Summary.AverageOccupancyRate)
}

func TestPropertyPerformanceValidatesInput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.GetPropertyPerformance(context.Background(), reportingdomain.PropertyPerformanceRequest{LandlordID: 1, Months: 121})
	require.ErrorIs(t, err, reportingdomain.ErrInvalidMonths)

	_, err = env.svc.GetPropertyPerformance(context.Background(), reportingdomain.PropertyPerformanceRequest{LandlordID: 0})
	require.ErrorIs(t, err, reportingdomain.ErrInvalidLandlord)

	_, err = env.svc.GetPropertyPerformance(context.Background(), reportingdomain.PropertyPerformanceRequest{LandlordID: 99})
	require.ErrorIs(t, err, reportingdomain.ErrLandlordNotFound)
}
