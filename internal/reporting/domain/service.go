package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// MaintenanceCategory is the synthetic expense type for completed maintenance costs.
const MaintenanceCategory = "MAINTENANCE"

type CashFlowRequest struct {
	LandlordID snowflake.ID
	// Month is YYYY-MM; empty means the current month.
	Month string
}

type RevenueTrendRequest struct {
	// LandlordID nil means system-wide.
	LandlordID *snowflake.ID
}

type RevenueReportRequest struct {
	LandlordID snowflake.ID
	StartDate  *time.Time
	EndDate    *time.Time
	PropertyID *snowflake.ID
}

type PropertyPerformanceRequest struct {
	LandlordID snowflake.ID
	Months     int
}

type TenantBehaviorRequest struct {
	LandlordID snowflake.ID
	PropertyID *snowflake.ID
}

type ExpenseReportRequest struct {
	LandlordID snowflake.ID
	StartDate  *time.Time
	EndDate    *time.Time
}

// Service builds read-only financial aggregates for landlords and admins.
type Service interface {
	GetCashFlowSummary(ctx context.Context, req CashFlowRequest) (*CashFlowSummary, error)
	// GetLandlordStats returns nil, nil when the landlord owns no properties.
	GetLandlordStats(ctx context.Context, landlordID snowflake.ID) (*LandlordStats, error)
	GetRevenueTrend(ctx context.Context, req RevenueTrendRequest) ([]RevenueTrendPoint, error)
	GetAdminOverview(ctx context.Context) (*AdminOverview, error)
	GetTopPerformers(ctx context.Context) (*TopPerformersResult, error)
	GetLandlordRevenueReport(ctx context.Context, req RevenueReportRequest) (*RevenueReport, error)
	GetPropertyPerformance(ctx context.Context, req PropertyPerformanceRequest) (*PropertyPerformanceReport, error)
	GetTenantBehavior(ctx context.Context, req TenantBehaviorRequest) (*TenantBehaviorReport, error)
	GetExpenseReport(ctx context.Context, req ExpenseReportRequest) (*ExpenseReport, error)
	GetDashboardSummary(ctx context.Context, landlordID snowflake.ID) (*DashboardSummary, error)
}
