package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/lodgely/internal/observability/metrics"
	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
)

type reportKey struct{}

func withReport(ctx context.Context, report string) context.Context {
	return context.WithValue(ctx, reportKey{}, report)
}

func reportFromContext(ctx context.Context) string {
	report, _ := ctx.Value(reportKey{}).(string)
	return report
}

// meteredGateway records every gateway read against the report that issued it.
type meteredGateway struct {
	next        rentaldomain.Gateway
	instruments *metrics.Instruments
}

func newMeteredGateway(next rentaldomain.Gateway, instruments *metrics.Instruments) rentaldomain.Gateway {
	if instruments == nil {
		return next
	}
	return &meteredGateway{next: next, instruments: instruments}
}

func (g *meteredGateway) record(ctx context.Context, op string, rows int, err error) {
	g.instruments.RecordGatewayRead(ctx, reportFromContext(ctx), op, rows, err)
}

func (g *meteredGateway) FindLandlord(ctx context.Context, id snowflake.ID) (*rentaldomain.Landlord, error) {
	landlord, err := g.next.FindLandlord(ctx, id)
	rows := 0
	if landlord != nil {
		rows = 1
	}
	g.record(ctx, "find_landlord", rows, err)
	return landlord, err
}

func (g *meteredGateway) ListInvoices(ctx context.Context, filter rentaldomain.InvoiceFilter) ([]rentaldomain.Invoice, error) {
	rows, err := g.next.ListInvoices(ctx, filter)
	g.record(ctx, "list_invoices", len(rows), err)
	return rows, err
}

func (g *meteredGateway) ListExpenses(ctx context.Context, filter rentaldomain.ExpenseFilter) ([]rentaldomain.Expense, error) {
	rows, err := g.next.ListExpenses(ctx, filter)
	g.record(ctx, "list_expenses", len(rows), err)
	return rows, err
}

func (g *meteredGateway) ListProperties(ctx context.Context, filter rentaldomain.PropertyFilter) ([]rentaldomain.Property, error) {
	rows, err := g.next.ListProperties(ctx, filter)
	g.record(ctx, "list_properties", len(rows), err)
	return rows, err
}

func (g *meteredGateway) CountRooms(ctx context.Context, filter rentaldomain.RoomFilter) (int64, error) {
	count, err := g.next.CountRooms(ctx, filter)
	g.record(ctx, "count_rooms", 0, err)
	return count, err
}

func (g *meteredGateway) CountOccupiedRooms(ctx context.Context, filter rentaldomain.RoomFilter) (int64, error) {
	count, err := g.next.CountOccupiedRooms(ctx, filter)
	g.record(ctx, "count_occupied_rooms", 0, err)
	return count, err
}

func (g *meteredGateway) ListCompletedPayments(ctx context.Context, filter rentaldomain.PaymentFilter) ([]rentaldomain.Payment, error) {
	rows, err := g.next.ListCompletedPayments(ctx, filter)
	g.record(ctx, "list_completed_payments", len(rows), err)
	return rows, err
}

func (g *meteredGateway) ListContracts(ctx context.Context, filter rentaldomain.ContractFilter) ([]rentaldomain.Contract, error) {
	rows, err := g.next.ListContracts(ctx, filter)
	g.record(ctx, "list_contracts", len(rows), err)
	return rows, err
}

func (g *meteredGateway) CountContracts(ctx context.Context, filter rentaldomain.ContractCountFilter) (int64, error) {
	count, err := g.next.CountContracts(ctx, filter)
	g.record(ctx, "count_contracts", 0, err)
	return count, err
}

func (g *meteredGateway) CountActiveUsers(ctx context.Context) (int64, error) {
	count, err := g.next.CountActiveUsers(ctx)
	g.record(ctx, "count_active_users", 0, err)
	return count, err
}

func (g *meteredGateway) ListMaintenanceRequests(ctx context.Context, filter rentaldomain.MaintenanceFilter) ([]rentaldomain.MaintenanceRequest, error) {
	rows, err := g.next.ListMaintenanceRequests(ctx, filter)
	g.record(ctx, "list_maintenance_requests", len(rows), err)
	return rows, err
}
