// Package rentaltest seeds rental entities into an in-memory database for tests.
package rentaltest

import (
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/lodgely/internal/rental/domain"
	"github.com/smallbiznis/lodgely/pkg/db"
	"gorm.io/gorm"
)

type Fixture struct {
	t    testing.TB
	DB   *gorm.DB
	node *snowflake.Node
}

func New(t testing.TB) *Fixture {
	t.Helper()

	conn, err := db.NewTest(t.Name())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(domain.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &Fixture{t: t, DB: conn, node: node}
}

func (f *Fixture) ID() snowflake.ID {
	return f.node.Generate()
}

// Create inserts any model and fails the test on error.
func (f *Fixture) Create(value any) {
	f.t.Helper()
	if err := f.DB.Create(value).Error; err != nil {
		f.t.Fatalf("seed %T: %v", value, err)
	}
}

func (f *Fixture) User(name string) *domain.User {
	f.t.Helper()
	user := &domain.User{
		ID:        f.ID(),
		Name:      name,
		Email:     fmt.Sprintf("%s-%d@example.com", name, f.ID()),
		Role:      "LANDLORD",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.Create(user)
	return user
}

func (f *Fixture) Landlord(name string) *domain.Landlord {
	f.t.Helper()
	user := f.User(name)
	landlord := &domain.Landlord{ID: f.ID(), UserID: user.ID, CreatedAt: user.CreatedAt}
	f.Create(landlord)
	landlord.User = user
	return landlord
}

func (f *Fixture) Tenant(name string) *domain.Tenant {
	f.t.Helper()
	user := f.User(name)
	tenant := &domain.Tenant{ID: f.ID(), UserID: user.ID, Phone: "0800"}
	f.Create(tenant)
	tenant.User = user
	return tenant
}

func (f *Fixture) Property(landlord *domain.Landlord, name string) *domain.Property {
	f.t.Helper()
	property := &domain.Property{
		ID:         f.ID(),
		LandlordID: landlord.ID,
		Name:       name,
		Address:    name + " street",
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.Create(property)
	return property
}

func (f *Fixture) Room(property *domain.Property, name string, status domain.RoomStatus, price string) *domain.Room {
	f.t.Helper()
	room := &domain.Room{
		ID:            f.ID(),
		PropertyID:    property.ID,
		Name:          name,
		Status:        status,
		PricePerMonth: Money(price),
	}
	f.Create(room)
	return room
}

func (f *Fixture) Contract(landlord *domain.Landlord, tenant *domain.Tenant, room *domain.Room, status domain.ContractStatus, start, end time.Time) *domain.Contract {
	f.t.Helper()
	contract := &domain.Contract{
		ID:         f.ID(),
		LandlordID: landlord.ID,
		TenantID:   tenant.ID,
		RoomID:     room.ID,
		Status:     status,
		StartDate:  start,
		EndDate:    end,
	}
	f.Create(contract)
	return contract
}

// InvoiceSpec describes an invoice; CreatedAt defaults to IssueDate.
type InvoiceSpec struct {
	Total     string
	IssueDate time.Time
	DueDate   time.Time
	Status    domain.InvoiceStatus
	PaidAt    *time.Time
	CreatedAt time.Time
}

func (f *Fixture) Invoice(contract *domain.Contract, spec InvoiceSpec) *domain.Invoice {
	f.t.Helper()
	createdAt := spec.CreatedAt
	if createdAt.IsZero() {
		createdAt = spec.IssueDate
	}
	status := spec.Status
	if status == "" {
		status = domain.InvoiceStatusPending
	}
	invoice := &domain.Invoice{
		ID:            f.ID(),
		ContractID:    contract.ID,
		InvoiceNumber: fmt.Sprintf("INV-%d", f.ID()),
		TotalAmount:   Money(spec.Total),
		IssueDate:     spec.IssueDate,
		DueDate:       spec.DueDate,
		Status:        status,
		PaidAt:        spec.PaidAt,
		CreatedAt:     createdAt,
	}
	f.Create(invoice)
	return invoice
}

func (f *Fixture) Payment(invoice *domain.Invoice, amount string, status domain.PaymentStatus, paidAt *time.Time) *domain.Payment {
	f.t.Helper()
	createdAt := invoice.IssueDate
	if paidAt != nil {
		createdAt = *paidAt
	}
	payment := &domain.Payment{
		ID:        f.ID(),
		InvoiceID: invoice.ID,
		Amount:    Money(amount),
		Status:    status,
		Method:    "BANK_TRANSFER",
		PaidAt:    paidAt,
		CreatedAt: createdAt,
	}
	f.Create(payment)
	return payment
}

func (f *Fixture) Expense(landlord *domain.Landlord, category, amount string, date time.Time) *domain.Expense {
	f.t.Helper()
	expense := &domain.Expense{
		ID:          f.ID(),
		LandlordID:  landlord.ID,
		Amount:      Money(amount),
		Category:    category,
		Description: category,
		Date:        date,
	}
	f.Create(expense)
	return expense
}

// Maintenance seeds a request; an empty cost stores NULL.
func (f *Fixture) Maintenance(room *domain.Room, status domain.MaintenanceStatus, cost string, createdAt time.Time) *domain.MaintenanceRequest {
	f.t.Helper()
	request := &domain.MaintenanceRequest{
		ID:        f.ID(),
		RoomID:    room.ID,
		Title:     "leak",
		Status:    status,
		CreatedAt: createdAt,
	}
	if cost != "" {
		request.Cost = decimal.NewNullDecimal(Money(cost))
	}
	if status == domain.MaintenanceStatusCompleted {
		completedAt := createdAt.Add(24 * time.Hour)
		request.CompletedAt = &completedAt
	}
	f.Create(request)
	return request
}

func Money(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	return decimal.RequireFromString(value)
}

func Ptr[T any](v T) *T {
	return &v
}
