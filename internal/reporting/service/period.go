package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
)

const (
	monthLayout       = "2006-01"
	trendMonths       = 6
	maxLookbackMonths = 120
	day               = 24 * time.Hour
)

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// endOfMonth returns the last representable instant of t's month.
func endOfMonth(t time.Time) time.Time {
	return startOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// resolveMonth parses YYYY-MM, falling back to now's month when blank.
func resolveMonth(month string, now time.Time) (time.Time, time.Time, error) {
	month = strings.TrimSpace(month)
	if month == "" {
		return startOfMonth(now), endOfMonth(now), nil
	}
	parsed, err := time.ParseInLocation(monthLayout, month, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", reportingdomain.ErrInvalidMonth, month)
	}
	return parsed, endOfMonth(parsed), nil
}

// trailingMonths returns the first instant of the current month and the n-1 before it, oldest first.
func trailingMonths(now time.Time, n int) []time.Time {
	current := startOfMonth(now)
	months := make([]time.Time, n)
	for i := 0; i < n; i++ {
		months[i] = current.AddDate(0, i-(n-1), 0)
	}
	return months
}

func monthKey(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

// occupancyRate is occupied/total as a percentage with one decimal, clamped to [0, 100].
func occupancyRate(occupied, total int64) float64 {
	if total <= 0 || occupied <= 0 {
		return 0
	}
	if occupied > total {
		occupied = total
	}
	return roundFloat(float64(occupied)/float64(total)*100, 1)
}

func percentage(part, whole decimal.Decimal) float64 {
	if whole.Sign() <= 0 {
		return 0
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
}

func roundFloat(value float64, places int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}

// wholeDaysBetween floors the elapsed days from earlier to later.
func wholeDaysBetween(earlier, later time.Time) int {
	if !later.After(earlier) {
		return 0
	}
	return int(later.Sub(earlier) / day)
}

// ceilDaysBetween rounds any partial day up.
func ceilDaysBetween(earlier, later time.Time) int {
	if !later.After(earlier) {
		return 0
	}
	elapsed := later.Sub(earlier)
	days := int(elapsed / day)
	if elapsed%day != 0 {
		days++
	}
	return days
}
