package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if reportingdomain.IsValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, reportingdomain.ErrLandlordNotFound),
		errors.Is(err, ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, reportingdomain.ErrUpstream):
		return http.StatusInternalServerError, errorPayload{
			Type:    "upstream_error",
			Message: "report data source unavailable",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func validationErrorCode(err error) string {
	for _, sentinel := range []error{
		reportingdomain.ErrInvalidLandlord,
		reportingdomain.ErrInvalidMonth,
		reportingdomain.ErrInvalidRange,
		reportingdomain.ErrInvalidMonths,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "invalid_request"
}

func validationErrorField(code string) string {
	switch code {
	case reportingdomain.ErrInvalidLandlord.Error():
		return "landlord_id"
	case reportingdomain.ErrInvalidMonth.Error():
		return "month"
	case reportingdomain.ErrInvalidRange.Error():
		return "start_date"
	case reportingdomain.ErrInvalidMonths.Error():
		return "months"
	default:
		return "request"
	}
}

func validationErrorMessage(code string) string {
	switch code {
	case reportingdomain.ErrInvalidLandlord.Error():
		return "landlord_id must be a positive id"
	case reportingdomain.ErrInvalidMonth.Error():
		return "month must be formatted as YYYY-MM"
	case reportingdomain.ErrInvalidRange.Error():
		return "start_date must not be after end_date"
	case reportingdomain.ErrInvalidMonths.Error():
		return "months must be between 1 and 120"
	default:
		return "invalid request"
	}
}

// classifyErrorForLog returns the error type and code written to the request log.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := ""
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	if code == "" && errors.Is(err, reportingdomain.ErrUpstream) {
		var upstream *reportingdomain.UpstreamError
		if errors.As(err, &upstream) {
			code = upstream.Op
		}
	}
	return payload.Type, code
}
