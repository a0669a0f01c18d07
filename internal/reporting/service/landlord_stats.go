package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/lodgely/internal/observability/metrics"
	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"golang.org/x/sync/errgroup"
)

func (s *Service) GetLandlordStats(ctx context.Context, landlordID snowflake.ID) (stats *reportingdomain.LandlordStats, err error) {
	ctx, b := s.begin(ctx, metrics.ReportLandlordStats, landlordAttr(landlordID))
	defer func() { b.finish(err) }()

	if landlordID == 0 {
		return nil, reportingdomain.ErrInvalidLandlord
	}
	stats, err = s.landlordStats(ctx, metrics.ReportLandlordStats, landlordID)
	if err == nil && stats == nil {
		b.markEmpty()
	}
	return stats, err
}

func (s *Service) landlordStats(ctx context.Context, report string, landlordID snowflake.ID) (*reportingdomain.LandlordStats, error) {
	var (
		properties []rentaldomain.Property
		occupied   int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.gateway.ListProperties(gctx, rentaldomain.PropertyFilter{
			LandlordID: &landlordID,
			WithRooms:  true,
		})
		if err != nil {
			return s.upstream(report, "list_properties", err)
		}
		properties = rows
		return nil
	})
	g.Go(func() error {
		count, err := s.gateway.CountOccupiedRooms(gctx, rentaldomain.RoomFilter{LandlordID: &landlordID})
		if err != nil {
			return s.upstream(report, "count_occupied_rooms", err)
		}
		occupied = count
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(properties) == 0 {
		return nil, nil
	}

	var totalRooms int64
	for _, property := range properties {
		totalRooms += int64(len(property.Rooms))
	}
	occupied = min(max(occupied, 0), totalRooms)

	return &reportingdomain.LandlordStats{
		TotalProperties: int64(len(properties)),
		TotalRooms:      totalRooms,
		OccupiedRooms:   occupied,
		AvailableRooms:  totalRooms - occupied,
		OccupancyRate:   occupancyRate(occupied, totalRooms),
	}, nil
}
