package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Gateway answers the filtered range queries reports are built from. It never writes.
type Gateway interface {
	// FindLandlord returns nil, nil when the landlord does not exist.
	FindLandlord(ctx context.Context, id snowflake.ID) (*Landlord, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]Expense, error)
	ListProperties(ctx context.Context, filter PropertyFilter) ([]Property, error)
	CountRooms(ctx context.Context, filter RoomFilter) (int64, error)
	// CountOccupiedRooms counts rooms with at least one ACTIVE contract.
	CountOccupiedRooms(ctx context.Context, filter RoomFilter) (int64, error)
	ListCompletedPayments(ctx context.Context, filter PaymentFilter) ([]Payment, error)
	ListContracts(ctx context.Context, filter ContractFilter) ([]Contract, error)
	CountContracts(ctx context.Context, filter ContractCountFilter) (int64, error)
	CountActiveUsers(ctx context.Context) (int64, error)
	ListMaintenanceRequests(ctx context.Context, filter MaintenanceFilter) ([]MaintenanceRequest, error)
}

// InvoiceFilter scopes invoices through Invoice -> Contract -> Landlord and Contract -> Room -> Property.
type InvoiceFilter struct {
	LandlordID  *snowflake.ID
	PropertyID  *snowflake.ID
	IssuedFrom  *time.Time
	IssuedTo    *time.Time
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	PaidFrom    *time.Time
	PaidTo      *time.Time
	Statuses    []InvoiceStatus
	// WithPayments preloads COMPLETED payments ordered by paid_at.
	WithPayments bool
}

type ExpenseFilter struct {
	LandlordID snowflake.ID
	From       *time.Time
	To         *time.Time
}

type PropertyFilter struct {
	LandlordID  *snowflake.ID
	LandlordIDs []snowflake.ID
	IDs         []snowflake.ID
	WithRooms   bool
	// WithActiveContracts preloads each room's ACTIVE contracts; implies WithRooms.
	WithActiveContracts bool
}

type RoomFilter struct {
	LandlordID *snowflake.ID
}

type PaymentFilter struct {
	LandlordID    *snowflake.ID
	PaidFrom      *time.Time
	PaidTo        *time.Time
	InvoiceStatus *InvoiceStatus
	// WithJoins preloads Invoice -> Contract -> Landlord -> User and Contract -> Room -> Property.
	WithJoins bool
}

type ContractFilter struct {
	LandlordID   *snowflake.ID
	PropertyID   *snowflake.ID
	Status       *ContractStatus
	WithInvoices bool
	WithTenant   bool
	// WithRoom preloads Room -> Property.
	WithRoom bool
}

type ContractCountFilter struct {
	Status  *ContractStatus
	EndFrom *time.Time
	EndTo   *time.Time
}

type MaintenanceFilter struct {
	LandlordID  *snowflake.ID
	PropertyID  *snowflake.ID
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Status      *MaintenanceStatus
}
