package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
)

const dateOnlyLayout = "2006-01-02"

func parseOptionalInt(value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalSnowflakeID(value string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := snowflake.ParseString(trimmed)
	if err != nil || parsed <= 0 {
		return nil, errors.New("invalid_snowflake_id")
	}
	return &parsed, nil
}

// parseOptionalTime accepts RFC3339 or YYYY-MM-DD; a bare date expands to the day's last instant when endOfDay.
func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		parsed = parsed.UTC()
		return &parsed, nil
	}
	if parsed, err := time.Parse(dateOnlyLayout, trimmed); err == nil {
		if endOfDay {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
		} else {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		}
		return &parsed, nil
	}
	return nil, errors.New("invalid_time")
}

func landlordIDParam(c *gin.Context) (snowflake.ID, error) {
	id, err := parseOptionalSnowflakeID(c.Param("landlord_id"))
	if err != nil || id == nil {
		return 0, reportingdomain.ErrInvalidLandlord
	}
	return *id, nil
}

func propertyIDQuery(c *gin.Context) (*snowflake.ID, error) {
	id, err := parseOptionalSnowflakeID(c.Query("property_id"))
	if err != nil {
		return nil, newValidationError("property_id", "invalid_property_id", "property_id must be a positive id")
	}
	return id, nil
}

// dateRangeQuery reads start_date and end_date; end_date covers its whole day.
func dateRangeQuery(c *gin.Context) (*time.Time, *time.Time, error) {
	start, err := parseOptionalTime(c.Query("start_date"), false)
	if err != nil {
		return nil, nil, newValidationError("start_date", "invalid_date", "start_date must be YYYY-MM-DD or RFC3339")
	}
	end, err := parseOptionalTime(c.Query("end_date"), true)
	if err != nil {
		return nil, nil, newValidationError("end_date", "invalid_date", "end_date must be YYYY-MM-DD or RFC3339")
	}
	return start, end, nil
}
