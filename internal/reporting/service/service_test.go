package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/lodgely/internal/clock"
	"github.com/smallbiznis/lodgely/internal/config"
	"github.com/smallbiznis/lodgely/internal/observability/metrics"
	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	"github.com/smallbiznis/lodgely/internal/rental/rentaltest"
	"github.com/smallbiznis/lodgely/internal/rental/repository"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type testEnv struct {
	svc      *Service
	fixture  *rentaltest.Fixture
	registry *prometheus.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	f := rentaltest.New(t)
	env := newServiceWithGateway(t, repository.NewGateway(repository.Params{DB: f.DB}))
	env.fixture = f
	return env
}

func newServiceWithGateway(t *testing.T, gw rentaldomain.Gateway) *testEnv {
	t.Helper()
	registry := prometheus.NewRegistry()
	svc := NewService(Params{
		Gateway: gw,
		Log:     zaptest.NewLogger(t),
		Clock:   clock.NewFakeClock(testNow),
		Config:  config.NewStaticReportingConfig(config.DefaultReportingConfig()),
		Metrics: metrics.NewReportMetrics(registry, metrics.Config{ServiceName: "lodgely", Environment: "test"}),
	}).(*Service)
	return &testEnv{svc: svc, registry: registry}
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) FindLandlord(ctx context.Context, id snowflake.ID) (*rentaldomain.Landlord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rentaldomain.Landlord), args.Error(1)
}

func (m *mockGateway) ListInvoices(ctx context.Context, filter rentaldomain.InvoiceFilter) ([]rentaldomain.Invoice, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]rentaldomain.Invoice)
	return rows, args.Error(1)
}

func (m *mockGateway) ListExpenses(ctx context.Context, filter rentaldomain.ExpenseFilter) ([]rentaldomain.Expense, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]rentaldomain.Expense)
	return rows, args.Error(1)
}

func (m *mockGateway) ListProperties(ctx context.Context, filter rentaldomain.PropertyFilter) ([]rentaldomain.Property, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]rentaldomain.Property)
	return rows, args.Error(1)
}

func (m *mockGateway) CountRooms(ctx context.Context, filter rentaldomain.RoomFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGateway) CountOccupiedRooms(ctx context.Context, filter rentaldomain.RoomFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGateway) ListCompletedPayments(ctx context.Context, filter rentaldomain.PaymentFilter) ([]rentaldomain.Payment, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]rentaldomain.Payment)
	return rows, args.Error(1)
}

func (m *mockGateway) ListContracts(ctx context.Context, filter rentaldomain.ContractFilter) ([]rentaldomain.Contract, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]rentaldomain.Contract)
	return rows, args.Error(1)
}

func (m *mockGateway) CountContracts(ctx context.Context, filter rentaldomain.ContractCountFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGateway) CountActiveUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGateway) ListMaintenanceRequests(ctx context.Context, filter rentaldomain.MaintenanceFilter) ([]rentaldomain.MaintenanceRequest, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]rentaldomain.MaintenanceRequest)
	return rows, args.Error(1)
}

var _ rentaldomain.Gateway = (*mockGateway)(nil)
