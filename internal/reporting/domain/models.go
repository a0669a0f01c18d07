// Package domain defines the aggregates produced by the reporting engine.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type AlertType string

const (
	AlertTypeOverdue  AlertType = "overdue"
	AlertTypeUpcoming AlertType = "upcoming"
	AlertTypeSuccess  AlertType = "success"
	AlertTypeForecast AlertType = "forecast"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
	SeverityInfo   Severity = "info"
)

type CashFlowAlert struct {
	Type          AlertType       `json:"type"`
	Severity      Severity        `json:"severity"`
	Message       string          `json:"message"`
	InvoiceID     *snowflake.ID   `json:"invoice_id,omitempty"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	DaysOverdue   int             `json:"days_overdue,omitempty"`
	Count         int             `json:"count,omitempty"`
}

type CashFlowSummary struct {
	LandlordID          snowflake.ID    `json:"landlord_id"`
	Month               string          `json:"month"`
	PeriodStart         time.Time       `json:"period_start"`
	PeriodEnd           time.Time       `json:"period_end"`
	TotalIncome         decimal.Decimal `json:"total_income"`
	TotalExpense        decimal.Decimal `json:"total_expense"`
	TotalExpected       decimal.Decimal `json:"total_expected"`
	TotalPending        decimal.Decimal `json:"total_pending"`
	TotalOverdue        decimal.Decimal `json:"total_overdue"`
	Balance             decimal.Decimal `json:"balance"`
	InvoiceCount        int             `json:"invoice_count"`
	PaidInvoiceCount    int             `json:"paid_invoice_count"`
	PendingInvoiceCount int             `json:"pending_invoice_count"`
	OverdueInvoiceCount int             `json:"overdue_invoice_count"`
	PaymentCount        int             `json:"payment_count"`
	ExpenseCount        int             `json:"expense_count"`
	Alerts              []CashFlowAlert `json:"alerts"`
}

type LandlordStats struct {
	TotalProperties int64   `json:"total_properties"`
	TotalRooms      int64   `json:"total_rooms"`
	OccupiedRooms   int64   `json:"occupied_rooms"`
	AvailableRooms  int64   `json:"available_rooms"`
	OccupancyRate   float64 `json:"occupancy_rate"`
}

type RevenueTrendPoint struct {
	Month      string          `json:"month"`
	MonthStart time.Time       `json:"month_start"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type AdminOverview struct {
	CurrentMonthRevenue decimal.Decimal     `json:"current_month_revenue"`
	TotalRooms          int64               `json:"total_rooms"`
	OccupiedRooms       int64               `json:"occupied_rooms"`
	ActiveContracts     int64               `json:"active_contracts"`
	OccupancyRate       float64             `json:"occupancy_rate"`
	ExpiringContracts   int64               `json:"expiring_contracts"`
	ActiveUsers         int64               `json:"active_users"`
	RevenueTrend        []RevenueTrendPoint `json:"revenue_trend"`
	GeneratedAt         time.Time           `json:"generated_at"`
}

type LandlordPerformance struct {
	LandlordID    snowflake.ID    `json:"landlord_id"`
	Name          string          `json:"name"`
	Revenue       decimal.Decimal `json:"revenue"`
	PropertyCount int             `json:"property_count"`
	TotalRooms    int             `json:"total_rooms"`
	OccupiedRooms int             `json:"occupied_rooms"`
	OccupancyRate float64         `json:"occupancy_rate"`
}

type PropertyPerformance struct {
	PropertyID    snowflake.ID    `json:"property_id"`
	Name          string          `json:"name"`
	LandlordID    snowflake.ID    `json:"landlord_id"`
	LandlordName  string          `json:"landlord_name"`
	Revenue       decimal.Decimal `json:"revenue"`
	TotalRooms    int             `json:"total_rooms"`
	OccupiedRooms int             `json:"occupied_rooms"`
	OccupancyRate float64         `json:"occupancy_rate"`
}

type TopPerformersResult struct {
	PeriodStart    time.Time             `json:"period_start"`
	Landlords      []LandlordPerformance `json:"landlords"`
	Properties     []PropertyPerformance `json:"properties"`
	SkippedRecords []SkippedRecord       `json:"skipped_records"`
}

type MonthlyRevenueBreakdown struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Period        string          `json:"period"`
	InvoiceCount  int             `json:"invoice_count"`
	PaymentCount  int             `json:"payment_count"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
}

type RevenueReportSummary struct {
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
	TotalPaid             decimal.Decimal `json:"total_paid"`
	TotalPending          decimal.Decimal `json:"total_pending"`
	TotalOverdue          decimal.Decimal `json:"total_overdue"`
	TotalInvoices         int             `json:"total_invoices"`
	TotalPayments         int             `json:"total_payments"`
	AverageMonthlyRevenue decimal.Decimal `json:"average_monthly_revenue"`
	CollectionRate        float64         `json:"collection_rate"`
}

type RevenueReport struct {
	LandlordID   snowflake.ID              `json:"landlord_id"`
	LandlordName string                    `json:"landlord_name"`
	PropertyID   *snowflake.ID             `json:"property_id,omitempty"`
	StartDate    *time.Time                `json:"start_date,omitempty"`
	EndDate      *time.Time                `json:"end_date,omitempty"`
	Months       []MonthlyRevenueBreakdown `json:"months"`
	Summary      RevenueReportSummary      `json:"summary"`
	GeneratedAt  time.Time                 `json:"generated_at"`
}

type PropertyMetrics struct {
	PropertyID          snowflake.ID    `json:"property_id"`
	Name                string          `json:"name"`
	Address             string          `json:"address"`
	TotalRooms          int             `json:"total_rooms"`
	OccupiedRooms       int             `json:"occupied_rooms"`
	OccupancyRate       float64         `json:"occupancy_rate"`
	AverageRoomPrice    decimal.Decimal `json:"average_room_price"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	MaintenanceRequests int             `json:"maintenance_requests"`
}

type PropertyPerformanceSummary struct {
	TotalProperties          int              `json:"total_properties"`
	TotalRooms               int              `json:"total_rooms"`
	OccupiedRooms            int              `json:"occupied_rooms"`
	AverageOccupancyRate     float64          `json:"average_occupancy_rate"`
	TotalRevenue             decimal.Decimal  `json:"total_revenue"`
	TotalMaintenanceRequests int              `json:"total_maintenance_requests"`
	BestPerformer            *PropertyMetrics `json:"best_performer,omitempty"`
}

type PropertyPerformanceReport struct {
	LandlordID  snowflake.ID               `json:"landlord_id"`
	Months      int                        `json:"months"`
	PeriodStart time.Time                  `json:"period_start"`
	Properties  []PropertyMetrics          `json:"properties"`
	Summary     PropertyPerformanceSummary `json:"summary"`
}

type TenantBehavior struct {
	ContractID          snowflake.ID `json:"contract_id"`
	TenantID            snowflake.ID `json:"tenant_id"`
	TenantName          string       `json:"tenant_name"`
	RoomName            string       `json:"room_name"`
	PropertyName        string       `json:"property_name"`
	TotalInvoices       int          `json:"total_invoices"`
	OnTimePayments      int          `json:"on_time_payments"`
	LatePayments        int          `json:"late_payments"`
	AveragePaymentDelay float64      `json:"average_payment_delay"`
	OnTimeRate          float64      `json:"on_time_rate"`
}

type TenantBehaviorSummary struct {
	TotalTenants             int     `json:"total_tenants"`
	AverageOnTimeRate        float64 `json:"average_on_time_rate"`
	AveragePaymentDelay      float64 `json:"average_payment_delay"`
	TotalMaintenanceRequests int     `json:"total_maintenance_requests"`
}

type TenantBehaviorReport struct {
	LandlordID snowflake.ID          `json:"landlord_id"`
	PropertyID *snowflake.ID         `json:"property_id,omitempty"`
	Tenants    []TenantBehavior      `json:"tenants"`
	Summary    TenantBehaviorSummary `json:"summary"`
}

type ExpenseBreakdown struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

type ExpenseReport struct {
	LandlordID    snowflake.ID       `json:"landlord_id"`
	StartDate     time.Time          `json:"start_date"`
	EndDate       time.Time          `json:"end_date"`
	TotalExpenses decimal.Decimal    `json:"total_expenses"`
	Breakdown     []ExpenseBreakdown `json:"breakdown"`
}

type DashboardSummary struct {
	LandlordID   snowflake.ID        `json:"landlord_id"`
	Stats        *LandlordStats      `json:"stats"`
	CashFlow     *CashFlowSummary    `json:"cash_flow"`
	RevenueTrend []RevenueTrendPoint `json:"revenue_trend"`
}
