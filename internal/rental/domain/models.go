// Package domain holds the read-only rental entities the reporting engine aggregates.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "AVAILABLE"
	RoomStatusOccupied    RoomStatus = "OCCUPIED"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
)

type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "ACTIVE"
	ContractStatusEnded      ContractStatus = "ENDED"
	ContractStatusTerminated ContractStatus = "TERMINATED"
	ContractStatusPending    ContractStatus = "PENDING"
)

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

type MaintenanceStatus string

const (
	MaintenanceStatusPending    MaintenanceStatus = "PENDING"
	MaintenanceStatusInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceStatusCompleted  MaintenanceStatus = "COMPLETED"
	MaintenanceStatusCancelled  MaintenanceStatus = "CANCELLED"
)

// User is the account behind a landlord or tenant.
type User struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null"`
	Email     string       `gorm:"type:text;not null;uniqueIndex"`
	Role      string       `gorm:"type:text;not null"`
	IsBanned  bool         `gorm:"not null;default:false"`
	CreatedAt time.Time    `gorm:"not null"`
}

func (User) TableName() string { return "users" }

// Landlord is 1:1 with a User.
type Landlord struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	UserID    snowflake.ID `gorm:"not null;uniqueIndex"`
	User      *User        `gorm:"foreignKey:UserID"`
	CreatedAt time.Time    `gorm:"not null"`
}

func (Landlord) TableName() string { return "landlords" }

// DisplayName returns the user's name, empty when the user join is missing.
func (l *Landlord) DisplayName() string {
	if l == nil || l.User == nil {
		return ""
	}
	return l.User.Name
}

type Tenant struct {
	ID     snowflake.ID `gorm:"primaryKey"`
	UserID snowflake.ID `gorm:"not null;uniqueIndex"`
	User   *User        `gorm:"foreignKey:UserID"`
	Phone  string       `gorm:"type:text"`
}

func (Tenant) TableName() string { return "tenants" }

type Property struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	LandlordID snowflake.ID `gorm:"not null;index"`
	Landlord   *Landlord    `gorm:"foreignKey:LandlordID"`
	Name       string       `gorm:"type:text;not null"`
	Address    string       `gorm:"type:text"`
	Rooms      []Room       `gorm:"foreignKey:PropertyID"`
	CreatedAt  time.Time    `gorm:"not null"`
}

func (Property) TableName() string { return "properties" }

type Room struct {
	ID            snowflake.ID    `gorm:"primaryKey"`
	PropertyID    snowflake.ID    `gorm:"not null;index"`
	Property      *Property       `gorm:"foreignKey:PropertyID"`
	Name          string          `gorm:"type:text;not null"`
	Status        RoomStatus      `gorm:"type:text;not null;default:'AVAILABLE'"`
	PricePerMonth decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Contracts     []Contract      `gorm:"foreignKey:RoomID"`
}

func (Room) TableName() string { return "rooms" }

// HasActiveContract reports whether the preloaded contracts make the room occupied.
func (r Room) HasActiveContract() bool {
	for _, contract := range r.Contracts {
		if contract.Status == ContractStatusActive {
			return true
		}
	}
	return false
}

type Contract struct {
	ID         snowflake.ID   `gorm:"primaryKey"`
	LandlordID snowflake.ID   `gorm:"not null;index"`
	TenantID   snowflake.ID   `gorm:"not null;index"`
	RoomID     snowflake.ID   `gorm:"not null;index"`
	Landlord   *Landlord      `gorm:"foreignKey:LandlordID"`
	Tenant     *Tenant        `gorm:"foreignKey:TenantID"`
	Room       *Room          `gorm:"foreignKey:RoomID"`
	Status     ContractStatus `gorm:"type:text;not null;default:'PENDING'"`
	StartDate  time.Time      `gorm:"not null"`
	EndDate    time.Time      `gorm:"not null;index"`
	Invoices   []Invoice      `gorm:"foreignKey:ContractID"`
}

func (Contract) TableName() string { return "contracts" }

type Invoice struct {
	ID            snowflake.ID    `gorm:"primaryKey"`
	ContractID    snowflake.ID    `gorm:"not null;index"`
	Contract      *Contract       `gorm:"foreignKey:ContractID"`
	InvoiceNumber string          `gorm:"type:text;not null"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	IssueDate     time.Time       `gorm:"not null;index"`
	DueDate       time.Time       `gorm:"not null"`
	Status        InvoiceStatus   `gorm:"type:text;not null;default:'PENDING'"`
	PaidAt        *time.Time      `gorm:""`
	CreatedAt     time.Time       `gorm:"not null;index"`
	Payments      []Payment       `gorm:"foreignKey:InvoiceID"`
}

func (Invoice) TableName() string { return "invoices" }

// CompletedPaidAmount sums the preloaded COMPLETED payments.
func (i Invoice) CompletedPaidAmount() decimal.Decimal {
	total := decimal.Zero
	for _, payment := range i.Payments {
		if payment.Status == PaymentStatusCompleted {
			total = total.Add(payment.Amount)
		}
	}
	return total
}

// FirstCompletedPayment returns the earliest preloaded COMPLETED payment with a paid timestamp.
func (i Invoice) FirstCompletedPayment() *Payment {
	var first *Payment
	for idx := range i.Payments {
		payment := &i.Payments[idx]
		if payment.Status != PaymentStatusCompleted || payment.PaidAt == nil {
			continue
		}
		if first == nil || payment.PaidAt.Before(*first.PaidAt) {
			first = payment
		}
	}
	return first
}

type Payment struct {
	ID        snowflake.ID    `gorm:"primaryKey"`
	InvoiceID snowflake.ID    `gorm:"not null;index"`
	Invoice   *Invoice        `gorm:"foreignKey:InvoiceID"`
	Amount    decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Status    PaymentStatus   `gorm:"type:text;not null;default:'PENDING'"`
	Method    string          `gorm:"type:text"`
	PaidAt    *time.Time      `gorm:"index"`
	CreatedAt time.Time       `gorm:"not null"`
}

func (Payment) TableName() string { return "payments" }

type Expense struct {
	ID          snowflake.ID    `gorm:"primaryKey"`
	LandlordID  snowflake.ID    `gorm:"not null;index"`
	PropertyID  *snowflake.ID   `gorm:"index"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Category    string          `gorm:"type:text;not null"`
	Description string          `gorm:"type:text"`
	Date        time.Time       `gorm:"not null;index"`
}

func (Expense) TableName() string { return "expenses" }

type MaintenanceRequest struct {
	ID          snowflake.ID        `gorm:"primaryKey"`
	RoomID      snowflake.ID        `gorm:"not null;index"`
	Room        *Room               `gorm:"foreignKey:RoomID"`
	Title       string              `gorm:"type:text;not null"`
	Status      MaintenanceStatus   `gorm:"type:text;not null;default:'PENDING'"`
	Cost        decimal.NullDecimal `gorm:"type:numeric(20,2)"`
	CreatedAt   time.Time           `gorm:"not null;index"`
	CompletedAt *time.Time          `gorm:""`
}

func (MaintenanceRequest) TableName() string { return "maintenance_requests" }

// Models lists every entity in dependency order.
func Models() []any {
	return []any{
		&User{},
		&Landlord{},
		&Tenant{},
		&Property{},
		&Room{},
		&Contract{},
		&Invoice{},
		&Payment{},
		&Expense{},
		&MaintenanceRequest{},
	}
}
