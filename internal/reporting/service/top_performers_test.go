package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus/testutil"
	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	"github.com/smallbiznis/lodgely/internal/rental/rentaltest"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedPaidRent creates a PAID invoice on contract settled by one completed payment.
func seedPaidRent(f *rentaltest.Fixture, contract *rentaldomain.Contract, amount string, paidOn rentaltest.InvoiceSpec) *rentaldomain.Payment {
	paidOn.Total = amount
	paidOn.Status = rentaldomain.InvoiceStatusPaid
	invoice := f.Invoice(contract, paidOn)
	return f.Payment(invoice, amount, rentaldomain.PaymentStatusCompleted, paidOn.PaidAt)
}

func marchRent() rentaltest.InvoiceSpec {
	return rentaltest.InvoiceSpec{
		IssueDate: date(2025, 3, 1),
		DueDate:   date(2025, 3, 10),
		PaidAt:    rentaltest.Ptr(date(2025, 3, 5)),
	}
}

func TestTopPerformersRanksAndLimits(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixture
	tenant := f.Tenant("tomo")

	for i := 1; i <= 6; i++ {
		landlord := f.Landlord(fmt.Sprintf("landlord-%d", i))
		room := f.Room(f.Property(landlord, fmt.Sprintf("property-%d", i)), "R1", rentaldomain.RoomStatusOccupied, "100")
		contract := f.Contract(landlord, tenant, room, rentaldomain.ContractStatusActive, date(2025, 1, 1), date(2025, 12, 31))
		seedPaidRent(f, contract, fmt.Sprintf("%d00", i), marchRent())
	}

	result, err := env.svc.GetTopPerformers(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, date(2025, 3, 1), result.PeriodStart)
	require.Len(t, result.Landlords, 5)
	require.Len(t, result.Properties, 5)
	assert.Equal(t, "landlord-6", result.Landlords[0].Name)
	assert.True(t, result.Landlords[0].Revenue.Equal(rentaltest.Money("600")))
	assert.Equal(t, "landlord-2", result.Landlords[4].Name)
	for i := 1; i < len(result.Landlords); i++ {
		assert.True(t, result.Landlords[i-1].Revenue.GreaterThanOrEqual(result.Landlords[i].Revenue))
	}
	assert.Equal(t, "property-6", result.Properties[0].Name)
	assert.Equal(t, "landlord-6", result.Properties[0].LandlordName)
	assert.Empty(t, result.SkippedRecords)
}

func TestTopPerformersSkipsOrphanPayments(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixture
	tenant := f.Tenant("tomo")

	landlord := f.Landlord("lina")
	room := f.Room(f.Property(landlord, "P1"), "R1", rentaldomain.RoomStatusOccupied, "100")
	contract := f.Contract(landlord, tenant, room, rentaldomain.ContractStatusActive, date(2025, 1, 1), date(2025, 12, 31))
	seedPaidRent(f, contract, "300", marchRent())

	ghost := &rentaldomain.Landlord{ID: f.ID()}
	orphanRoom := f.Room(f.Property(landlord, "P2"), "R9", rentaldomain.RoomStatusOccupied, "100")
	orphanContract := f.Contract(ghost, tenant, orphanRoom, rentaldomain.ContractStatusActive, date(2025, 1, 1), date(2025, 12, 31))
	orphan := seedPaidRent(f, orphanContract, "900", marchRent())

	result, err := env.svc.GetTopPerformers(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Landlords, 1)
	assert.True(t, result.Landlords[0].Revenue.Equal(rentaltest.Money("300")))
	require.Len(t, result.Properties, 1)
	assert.Equal(t, "P1", result.Properties[0].Name)

	require.Len(t, result.SkippedRecords, 1)
	assert.Equal(t, orphan.ID, result.SkippedRecords[0].PaymentID)
	assert.Equal(t, reportingdomain.SkipReasonMissingLandlord, result.SkippedRecords[0].Reason)

	count, err := testutil.GatherAndCount(env.registry, "lodgely_report_skipped_records_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTopPerformersOccupancyAndPeriod(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixture
	tenant := f.Tenant("tomo")

	landlord := f.Landlord("lina")
	p1 := f.Property(landlord, "P1")
	p2 := f.Property(landlord, "P2")
	earning := f.Room(p1, "A", rentaldomain.RoomStatusOccupied, "100")
	f.Room(p1, "B", rentaldomain.RoomStatusAvailable, "100")
	c2a := f.Room(p2, "C", rentaldomain.RoomStatusOccupied, "100")
	c2b := f.Room(p2, "D", rentaldomain.RoomStatusOccupied, "100")

	contract := f.Contract(landlord, tenant, earning, rentaldomain.ContractStatusActive, date(2025, 1, 1), date(2025, 12, 31))
	f.Contract(landlord, tenant, c2a, rentaldomain.ContractStatusActive, date(2025, 1, 1), date(2025, 12, 31))
	f.Contract(landlord, tenant, c2b, rentaldomain.ContractStatusActive, date(2025, 1, 1), date(2025, 12, 31))

	seedPaidRent(f, contract, "400", marchRent())
	seedPaidRent(f, contract, "800", rentaltest.InvoiceSpec{
		IssueDate: date(2025, 2, 1),
		DueDate:   date(2025, 2, 10),
		PaidAt:    rentaltest.Ptr(date(2025, 2, 28)),
	})
	pending := f.Invoice(contract, rentaltest.InvoiceSpec{Total: "250", IssueDate: date(2025, 3, 1), DueDate: date(2025, 3, 20)})
	f.Payment(pending, "250", rentaldomain.PaymentStatusPending, rentaltest.Ptr(date(2025, 3, 6)))
	partial := f.Invoice(contract, rentaltest.InvoiceSpec{Total: "250", IssueDate: date(2025, 3, 1), DueDate: date(2025, 3, 20)})
	f.Payment(partial, "100", rentaldomain.PaymentStatusCompleted, rentaltest.Ptr(date(2025, 3, 6)))

	result, err := env.svc.GetTopPerformers(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Landlords, 1)
	top := result.Landlords[0]
	assert.True(t, top.Revenue.Equal(rentaltest.Money("400")), top.Revenue.String())
	assert.Equal(t, 1, top.PropertyCount)
	assert.Equal(t, 4, top.TotalRooms)
	assert.Equal(t, 3, top.OccupiedRooms)
	assert.Equal(t, 75.0, top.OccupancyRate)

	require.Len(t, result.Properties, 1)
	assert.Equal(t, 2, result.Properties[0].TotalRooms)
	assert.Equal(t, 50.0, result.Properties[0].OccupancyRate)
}

func TestRankLandlordsTieBreaksByName(t *testing.T) {
	ledger := performanceLedger{
		landlords: map[snowflake.ID]*landlordAccumulator{
			3: {id: 3, name: "zara", revenue: rentaltest.Money("500")},
			1: {id: 1, name: "budi", revenue: rentaltest.Money("500")},
			2: {id: 2, name: "budi", revenue: rentaltest.Money("500")},
			4: {id: 4, name: "adit", revenue: rentaltest.Money("100")},
		},
	}

	ranked := rankLandlords(ledger, performanceOccupancy{}, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, snowflake.ID(1), ranked[0].LandlordID)
	assert.Equal(t, snowflake.ID(2), ranked[1].LandlordID)
	assert.Equal(t, snowflake.ID(3), ranked[2].LandlordID)
	assert.Equal(t, 0.0, ranked[0].OccupancyRate)
}
