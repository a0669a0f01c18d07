package service

import (
	"context"
	"testing"

	rentaldomain "github.com/smallbiznis/lodgely/internal/rental/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLandlordStatsWithoutPropertiesIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	landlord := env.fixture.Landlord("empty")

	stats, err := env.svc.GetLandlordStats(context.Background(), landlord.ID)
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestLandlordStatsOccupancy(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixture
	landlord := f.Landlord("lina")
	tenant := f.Tenant("tomo")
	p1 := f.Property(landlord, "P1")
	p2 := f.Property(landlord, "P2")
	occupied := f.Room(p1, "R1", rentaldomain.RoomStatusOccupied, "1000")
	f.Room(p1, "R2", rentaldomain.RoomStatusAvailable, "1000")
	ended := f.Room(p2, "R3", rentaldomain.RoomStatusAvailable, "1000")
	f.Room(p2, "R4", rentaldomain.RoomStatusMaintenance, "1000")
	f.Contract(landlord, tenant, occupied, rentaldomain.ContractStatusActive, date(2025, 1, 1), date(2025, 12, 31))
	f.Contract(landlord, tenant, ended, rentaldomain.ContractStatusEnded, date(2024, 1, 1), date(2024, 12, 31))

	stats, err := env.svc.GetLandlordStats(context.Background(), landlord.ID)
	require.NoError(t, err)
	require.NotNil(t, stats)

	assert.Equal(t, int64(2), stats.TotalProperties)
	assert.Equal(t, int64(4), stats.TotalRooms)
	assert.Equal(t, int64(1), stats.OccupiedRooms)
	assert.Equal(t, int64(3), stats.AvailableRooms)
	assert.Equal(t, 25.0, stats.OccupancyRate)
}

func TestLandlordStatsPropertyWithoutRooms(t *testing.T) {
	env := newTestEnv(t)
	landlord := env.fixture.Landlord("lina")
	env.fixture.Property(landlord, "Vacant lot")

	stats, err := env.svc.GetLandlordStats(context.Background(), landlord.ID)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, int64(0), stats.TotalRooms)
	assert.Equal(t, 0.0, stats.OccupancyRate)
}

func TestOccupancyRateBounds(t *testing.T) {
	cases := []struct {
		name     string
		occupied int64
		total    int64
		want     float64
	}{
		{name: "no_rooms", occupied: 0, total: 0, want: 0},
		{name: "occupied_without_rooms", occupied: 3, total: 0, want: 0},
		{name: "one_third", occupied: 1, total: 3, want: 33.3},
		{name: "full", occupied: 4, total: 4, want: 100},
		{name: "over_count_clamped", occupied: 5, total: 4, want: 100},
		{name: "negative", occupied: -1, total: 4, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := occupancyRate(tc.occupied, tc.total); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
