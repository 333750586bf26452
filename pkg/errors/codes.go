package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeInvalidConfig      ErrorCode = "COMMON_017"
	ErrCodeCancelled          ErrorCode = "COMMON_018"
)

// Analysis front-end error codes.
const (
	ErrCodeSubmissionInFlight ErrorCode = "ANA_001"
	ErrCodeFormClosed         ErrorCode = "ANA_002"
	ErrCodeAnalysisFailed     ErrorCode = "ANA_003"
	ErrCodeResultInvalid      ErrorCode = "ANA_004"
)

const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusBadGateway,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeInvalidConfig:      http.StatusInternalServerError,
	ErrCodeCancelled:          499,

	ErrCodeSubmissionInFlight: http.StatusConflict,
	ErrCodeFormClosed:         http.StatusGone,
	ErrCodeAnalysisFailed:     http.StatusBadGateway,
	ErrCodeResultInvalid:      http.StatusBadGateway,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
// Unmapped codes resolve to 500.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	return HTTPStatusForCode(code) >= 500
}
