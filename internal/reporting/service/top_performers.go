package service

import (
	"context"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/lodgely/internal/observability/logger"
	"github.com/smallbiznis/lodgely/internal/observability/metrics"
	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	"github.com/smallbiznis/lodgely/internal/reporting/cache"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type landlordAccumulator struct {
	id         snowflake.ID
	name       string
	revenue    decimal.Decimal
	properties map[snowflake.ID]struct{}
}

type propertyAccumulator struct {
	id           snowflake.ID
	name         string
	landlordID   snowflake.ID
	landlordName string
	revenue      decimal.Decimal
}

// performanceLedger collects successes and skipped records from one payment batch.
type performanceLedger struct {
	landlords  map[snowflake.ID]*landlordAccumulator
	properties map[snowflake.ID]*propertyAccumulator
	skipped    []reportingdomain.SkippedRecord
}

// paymentJoin is a payment whose joins were verified complete.
type paymentJoin struct {
	landlord *rentaldomain.Landlord
	property *rentaldomain.Property
}

func resolvePaymentJoin(payment rentaldomain.Payment) (paymentJoin, string) {
	switch {
	case payment.Invoice == nil:
		return paymentJoin{}, reportingdomain.SkipReasonMissingInvoice
	case payment.Invoice.Contract == nil:
		return paymentJoin{}, reportingdomain.SkipReasonMissingContract
	case payment.Invoice.Contract.Landlord == nil:
		return paymentJoin{}, reportingdomain.SkipReasonMissingLandlord
	case payment.Invoice.Contract.Landlord.User == nil:
		return paymentJoin{}, reportingdomain.SkipReasonMissingUser
	case payment.Invoice.Contract.Room == nil:
		return paymentJoin{}, reportingdomain.SkipReasonMissingRoom
	case payment.Invoice.Contract.Room.Property == nil:
		return paymentJoin{}, reportingdomain.SkipReasonMissingProperty
	}
	contract := payment.Invoice.Contract
	return paymentJoin{landlord: contract.Landlord, property: contract.Room.Property}, ""
}

func accumulatePerformance(payments []rentaldomain.Payment) performanceLedger {
	ledger := performanceLedger{
		landlords:  map[snowflake.ID]*landlordAccumulator{},
		properties: map[snowflake.ID]*propertyAccumulator{},
		skipped:    []reportingdomain.SkippedRecord{},
	}

	for _, payment := range payments {
		join, reason := resolvePaymentJoin(payment)
		if reason != "" {
			ledger.skipped = append(ledger.skipped, reportingdomain.SkippedRecord{PaymentID: payment.ID, Reason: reason})
			continue
		}

		landlord, ok := ledger.landlords[join.landlord.ID]
		if !ok {
			landlord = &landlordAccumulator{
				id:         join.landlord.ID,
				name:       join.landlord.DisplayName(),
				revenue:    decimal.Zero,
				properties: map[snowflake.ID]struct{}{},
			}
			ledger.landlords[join.landlord.ID] = landlord
		}
		landlord.revenue = landlord.revenue.Add(payment.Amount)
		landlord.properties[join.property.ID] = struct{}{}

		property, ok := ledger.properties[join.property.ID]
		if !ok {
			property = &propertyAccumulator{
				id:           join.property.ID,
				name:         join.property.Name,
				landlordID:   join.landlord.ID,
				landlordName: join.landlord.DisplayName(),
				revenue:      decimal.Zero,
			}
			ledger.properties[join.property.ID] = property
		}
		property.revenue = property.revenue.Add(payment.Amount)
	}
	return ledger
}

func (s *Service) GetTopPerformers(ctx context.Context) (result *reportingdomain.TopPerformersResult, err error) {
	ctx, b := s.begin(ctx, metrics.ReportTopPerformers)
	defer func() { b.finish(err) }()

	report := metrics.ReportTopPerformers
	now := s.clock.Now()
	periodStart := startOfMonth(now)
	key := cache.Key(report, monthKey(now))

	var cached reportingdomain.TopPerformersResult
	if hit, cacheErr := s.cache.Get(ctx, key, &cached); cacheErr != nil {
		s.log.Warn("report cache read failed", zap.String("key", key), zap.Error(cacheErr))
	} else if hit {
		return &cached, nil
	}

	paid := rentaldomain.InvoiceStatusPaid
	payments, err := s.gateway.ListCompletedPayments(ctx, rentaldomain.PaymentFilter{
		PaidFrom:      &periodStart,
		InvoiceStatus: &paid,
		WithJoins:     true,
	})
	if err != nil {
		return nil, s.upstream(report, "list_completed_payments", err)
	}

	ledger := accumulatePerformance(payments)
	log := logger.WithContext(ctx, s.log)
	for _, skipped := range ledger.skipped {
		log.Warn("skipping payment with incomplete join",
			zap.String("payment_id", skipped.PaymentID.String()),
			zap.String("reason", skipped.Reason),
		)
		s.metrics.AddSkippedRecords(report, skipped.Reason, 1)
	}

	occupancy, err := s.loadPerformanceOccupancy(ctx, report, ledger)
	if err != nil {
		return nil, err
	}

	limit := s.thresholds().TopPerformersLimit
	result = &reportingdomain.TopPerformersResult{
		PeriodStart:    periodStart,
		Landlords:      rankLandlords(ledger, occupancy, limit),
		Properties:     rankProperties(ledger, occupancy, limit),
		SkippedRecords: ledger.skipped,
	}

	if cacheErr := s.cache.Set(ctx, key, result); cacheErr != nil {
		s.log.Warn("report cache write failed", zap.String("key", key), zap.Error(cacheErr))
	}
	return result, nil
}

type roomTally struct {
	total    int
	occupied int
}

// performanceOccupancy holds room tallies per touched property and per ranked landlord.
type performanceOccupancy struct {
	properties map[snowflake.ID]roomTally
	landlords  map[snowflake.ID]roomTally
}

// loadPerformanceOccupancy reads touched properties and every property of the ranked
// landlords. Both reads depend on the ledger but not on each other.
func (s *Service) loadPerformanceOccupancy(ctx context.Context, report string, ledger performanceLedger) (performanceOccupancy, error) {
	occupancy := performanceOccupancy{
		properties: map[snowflake.ID]roomTally{},
		landlords:  map[snowflake.ID]roomTally{},
	}
	if len(ledger.properties) == 0 && len(ledger.landlords) == 0 {
		return occupancy, nil
	}

	propertyIDs := make([]snowflake.ID, 0, len(ledger.properties))
	for id := range ledger.properties {
		propertyIDs = append(propertyIDs, id)
	}
	landlordIDs := make([]snowflake.ID, 0, len(ledger.landlords))
	for id := range ledger.landlords {
		landlordIDs = append(landlordIDs, id)
	}

	var touched, owned []rentaldomain.Property
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.gateway.ListProperties(gctx, rentaldomain.PropertyFilter{
			IDs:                 propertyIDs,
			WithActiveContracts: true,
		})
		if err != nil {
			return s.upstream(report, "list_touched_properties", err)
		}
		touched = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.gateway.ListProperties(gctx, rentaldomain.PropertyFilter{
			LandlordIDs:         landlordIDs,
			WithActiveContracts: true,
		})
		if err != nil {
			return s.upstream(report, "list_landlord_properties", err)
		}
		owned = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return occupancy, err
	}

	for _, property := range touched {
		occupancy.properties[property.ID] = tallyRooms(property.Rooms)
	}
	for _, property := range owned {
		tally := tallyRooms(property.Rooms)
		current := occupancy.landlords[property.LandlordID]
		current.total += tally.total
		current.occupied += tally.occupied
		occupancy.landlords[property.LandlordID] = current
	}
	return occupancy, nil
}

func tallyRooms(rooms []rentaldomain.Room) roomTally {
	tally := roomTally{total: len(rooms)}
	for _, room := range rooms {
		if room.HasActiveContract() {
			tally.occupied++
		}
	}
	return tally
}

func rankLandlords(ledger performanceLedger, occupancy performanceOccupancy, limit int) []reportingdomain.LandlordPerformance {
	ranked := make([]reportingdomain.LandlordPerformance, 0, len(ledger.landlords))
	for _, acc := range ledger.landlords {
		tally := occupancy.landlords[acc.id]
		ranked = append(ranked, reportingdomain.LandlordPerformance{
			LandlordID:    acc.id,
			Name:          acc.name,
			Revenue:       acc.revenue,
			PropertyCount: len(acc.properties),
			TotalRooms:    tally.total,
			OccupiedRooms: tally.occupied,
			OccupancyRate: occupancyRate(int64(tally.occupied), int64(tally.total)),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		return revenueBefore(ranked[i].Revenue, ranked[j].Revenue, ranked[i].Name, ranked[j].Name, ranked[i].LandlordID, ranked[j].LandlordID)
	})
	return ranked[:min(len(ranked), limit)]
}

func rankProperties(ledger performanceLedger, occupancy performanceOccupancy, limit int) []reportingdomain.PropertyPerformance {
	ranked := make([]reportingdomain.PropertyPerformance, 0, len(ledger.properties))
	for _, acc := range ledger.properties {
		tally := occupancy.properties[acc.id]
		ranked = append(ranked, reportingdomain.PropertyPerformance{
			PropertyID:    acc.id,
			Name:          acc.name,
			LandlordID:    acc.landlordID,
			LandlordName:  acc.landlordName,
			Revenue:       acc.revenue,
			TotalRooms:    tally.total,
			OccupiedRooms: tally.occupied,
			OccupancyRate: occupancyRate(int64(tally.occupied), int64(tally.total)),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		return revenueBefore(ranked[i].Revenue, ranked[j].Revenue, ranked[i].Name, ranked[j].Name, ranked[i].PropertyID, ranked[j].PropertyID)
	})
	return ranked[:min(len(ranked), limit)]
}

// revenueBefore orders by revenue desc, then name, then id.
func revenueBefore(a, b decimal.Decimal, nameA, nameB string, idA, idB snowflake.ID) bool {
	if cmp := a.Cmp(b); cmp != 0 {
		return cmp > 0
	}
	if cmp := strings.Compare(nameA, nameB); cmp != 0 {
		return cmp < 0
	}
	return idA < idB
}
