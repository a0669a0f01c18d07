package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/lodgely/internal/rental/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB *gorm.DB
}

type gateway struct {
	db *gorm.DB
}

func NewGateway(p Params) domain.Gateway {
	return &gateway{db: p.DB}
}

func (g *gateway) FindLandlord(ctx context.Context, id snowflake.ID) (*domain.Landlord, error) {
	var landlord domain.Landlord
	err := g.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&landlord).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &landlord, nil
}

func (g *gateway) ListInvoices(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	stmt := g.db.WithContext(ctx).Model(&domain.Invoice{})
	if filter.LandlordID != nil || filter.PropertyID != nil {
		stmt = stmt.Joins("JOIN contracts ON contracts.id = invoices.contract_id")
	}
	if filter.LandlordID != nil {
		stmt = stmt.Where("contracts.landlord_id = ?", *filter.LandlordID)
	}
	if filter.PropertyID != nil {
		stmt = stmt.
			Joins("JOIN rooms ON rooms.id = contracts.room_id").
			Where("rooms.property_id = ?", *filter.PropertyID)
	}
	if filter.IssuedFrom != nil {
		stmt = stmt.Where("invoices.issue_date >= ?", *filter.IssuedFrom)
	}
	if filter.IssuedTo != nil {
		stmt = stmt.Where("invoices.issue_date <= ?", *filter.IssuedTo)
	}
	if filter.CreatedFrom != nil {
		stmt = stmt.Where("invoices.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		stmt = stmt.Where("invoices.created_at <= ?", *filter.CreatedTo)
	}
	if filter.PaidFrom != nil {
		stmt = stmt.Where("invoices.paid_at >= ?", *filter.PaidFrom)
	}
	if filter.PaidTo != nil {
		stmt = stmt.Where("invoices.paid_at <= ?", *filter.PaidTo)
	}
	if len(filter.Statuses) > 0 {
		stmt = stmt.Where("invoices.status IN ?", filter.Statuses)
	}
	if filter.WithPayments {
		stmt = stmt.Preload("Payments", completedPayments)
	}

	var invoices []domain.Invoice
	if err := stmt.Order("invoices.created_at desc, invoices.id desc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (g *gateway) ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	stmt := g.db.WithContext(ctx).
		Model(&domain.Expense{}).
		Where("landlord_id = ?", filter.LandlordID)
	if filter.From != nil {
		stmt = stmt.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("date <= ?", *filter.To)
	}

	var expenses []domain.Expense
	if err := stmt.Order("date asc, id asc").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (g *gateway) ListProperties(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	stmt := g.db.WithContext(ctx).Model(&domain.Property{})
	if filter.LandlordID != nil {
		stmt = stmt.Where("landlord_id = ?", *filter.LandlordID)
	}
	if len(filter.LandlordIDs) > 0 {
		stmt = stmt.Where("landlord_id IN ?", filter.LandlordIDs)
	}
	if len(filter.IDs) > 0 {
		stmt = stmt.Where("id IN ?", filter.IDs)
	}
	switch {
	case filter.WithActiveContracts:
		stmt = stmt.
			Preload("Rooms", orderByID).
			Preload("Rooms.Contracts", "status = ?", domain.ContractStatusActive)
	case filter.WithRooms:
		stmt = stmt.Preload("Rooms", orderByID)
	}

	var properties []domain.Property
	if err := stmt.Order("id asc").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (g *gateway) CountRooms(ctx context.Context, filter domain.RoomFilter) (int64, error) {
	stmt := g.db.WithContext(ctx).Model(&domain.Room{})
	if filter.LandlordID != nil {
		stmt = stmt.
			Joins("JOIN properties ON properties.id = rooms.property_id").
			Where("properties.landlord_id = ?", *filter.LandlordID)
	}

	var count int64
	if err := stmt.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (g *gateway) CountOccupiedRooms(ctx context.Context, filter domain.RoomFilter) (int64, error) {
	active := g.db.
		Model(&domain.Contract{}).
		Select("1").
		Where("contracts.room_id = rooms.id AND contracts.status = ?", domain.ContractStatusActive)

	stmt := g.db.WithContext(ctx).
		Model(&domain.Room{}).
		Where("EXISTS (?)", active)
	if filter.LandlordID != nil {
		stmt = stmt.
			Joins("JOIN properties ON properties.id = rooms.property_id").
			Where("properties.landlord_id = ?", *filter.LandlordID)
	}

	var count int64
	if err := stmt.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (g *gateway) ListCompletedPayments(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, error) {
	stmt := g.db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("payments.status = ?", domain.PaymentStatusCompleted)
	if filter.LandlordID != nil || filter.InvoiceStatus != nil {
		stmt = stmt.Joins("JOIN invoices ON invoices.id = payments.invoice_id")
	}
	if filter.LandlordID != nil {
		stmt = stmt.
			Joins("JOIN contracts ON contracts.id = invoices.contract_id").
			Where("contracts.landlord_id = ?", *filter.LandlordID)
	}
	if filter.InvoiceStatus != nil {
		stmt = stmt.Where("invoices.status = ?", *filter.InvoiceStatus)
	}
	if filter.PaidFrom != nil {
		stmt = stmt.Where("payments.paid_at >= ?", *filter.PaidFrom)
	}
	if filter.PaidTo != nil {
		stmt = stmt.Where("payments.paid_at <= ?", *filter.PaidTo)
	}
	if filter.WithJoins {
		stmt = stmt.
			Preload("Invoice").
			Preload("Invoice.Contract").
			Preload("Invoice.Contract.Landlord").
			Preload("Invoice.Contract.Landlord.User").
			Preload("Invoice.Contract.Room").
			Preload("Invoice.Contract.Room.Property")
	}

	var payments []domain.Payment
	if err := stmt.Order("payments.paid_at asc, payments.id asc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (g *gateway) ListContracts(ctx context.Context, filter domain.ContractFilter) ([]domain.Contract, error) {
	stmt := g.db.WithContext(ctx).Model(&domain.Contract{})
	if filter.LandlordID != nil {
		stmt = stmt.Where("contracts.landlord_id = ?", *filter.LandlordID)
	}
	if filter.PropertyID != nil {
		stmt = stmt.
			Joins("JOIN rooms ON rooms.id = contracts.room_id").
			Where("rooms.property_id = ?", *filter.PropertyID)
	}
	if filter.Status != nil {
		stmt = stmt.Where("contracts.status = ?", *filter.Status)
	}
	if filter.WithInvoices {
		stmt = stmt.
			Preload("Invoices", func(db *gorm.DB) *gorm.DB {
				return db.Order("due_date asc, id asc")
			}).
			Preload("Invoices.Payments", completedPayments)
	}
	if filter.WithTenant {
		stmt = stmt.Preload("Tenant").Preload("Tenant.User")
	}
	if filter.WithRoom {
		stmt = stmt.Preload("Room").Preload("Room.Property")
	}

	var contracts []domain.Contract
	if err := stmt.Order("contracts.id asc").Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (g *gateway) CountContracts(ctx context.Context, filter domain.ContractCountFilter) (int64, error) {
	stmt := g.db.WithContext(ctx).Model(&domain.Contract{})
	if filter.Status != nil {
		stmt = stmt.Where("status = ?", *filter.Status)
	}
	if filter.EndFrom != nil {
		stmt = stmt.Where("end_date >= ?", *filter.EndFrom)
	}
	if filter.EndTo != nil {
		stmt = stmt.Where("end_date <= ?", *filter.EndTo)
	}

	var count int64
	if err := stmt.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (g *gateway) CountActiveUsers(ctx context.Context) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("is_banned = ?", false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (g *gateway) ListMaintenanceRequests(ctx context.Context, filter domain.MaintenanceFilter) ([]domain.MaintenanceRequest, error) {
	stmt := g.db.WithContext(ctx).Model(&domain.MaintenanceRequest{})
	if filter.LandlordID != nil || filter.PropertyID != nil {
		stmt = stmt.
			Joins("JOIN rooms ON rooms.id = maintenance_requests.room_id").
			Joins("JOIN properties ON properties.id = rooms.property_id")
	}
	if filter.LandlordID != nil {
		stmt = stmt.Where("properties.landlord_id = ?", *filter.LandlordID)
	}
	if filter.PropertyID != nil {
		stmt = stmt.Where("properties.id = ?", *filter.PropertyID)
	}
	if filter.CreatedFrom != nil {
		stmt = stmt.Where("maintenance_requests.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		stmt = stmt.Where("maintenance_requests.created_at <= ?", *filter.CreatedTo)
	}
	if filter.Status != nil {
		stmt = stmt.Where("maintenance_requests.status = ?", *filter.Status)
	}

	var requests []domain.MaintenanceRequest
	err := stmt.
		Preload("Room").
		Order("maintenance_requests.created_at asc, maintenance_requests.id asc").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func completedPayments(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", domain.PaymentStatusCompleted).Order("paid_at asc, id asc")
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}
