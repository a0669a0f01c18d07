package domain

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrLandlordNotFound = errors.New("landlord_not_found")
	ErrUpstream         = errors.New("upstream_failure")

	ErrInvalidLandlord = errors.New("invalid_landlord")
	ErrInvalidMonth    = errors.New("invalid_month")
	ErrInvalidRange    = errors.New("invalid_date_range")
	ErrInvalidMonths   = errors.New("invalid_months")
)

// UpstreamError wraps a gateway failure. Builders never retry it.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrUpstream, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// SkippedRecord is a joined record dropped from a batch because its join was incomplete.
type SkippedRecord struct {
	PaymentID snowflake.ID `json:"payment_id"`
	Reason    string       `json:"reason"`
}

const (
	SkipReasonMissingInvoice  = "missing_invoice"
	SkipReasonMissingContract = "missing_contract"
	SkipReasonMissingLandlord = "missing_landlord"
	SkipReasonMissingUser     = "missing_user"
	SkipReasonMissingRoom     = "missing_room"
	SkipReasonMissingProperty = "missing_property"
)

// IsValidationError reports whether err stems from request parameters.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidLandlord) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidMonths)
}
