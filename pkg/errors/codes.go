package errors

import (
	"net/http"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeDatabaseError      ErrorCode = "COMMON_010"
	ErrCodeCacheError         ErrorCode = "COMMON_011"
	ErrCodeMessagingError     ErrorCode = "COMMON_012"
	ErrCodeNotImplemented     ErrorCode = "COMMON_013"

	ErrCodeUnknown ErrorCode = "UNKNOWN"
	CodeOK         ErrorCode = "OK"
)

// Analysis module error codes.
//
// Only structurally invalid requests carry an error code: an unresolved
// substance token is a warning accumulated in the result, never an error.
const (
	ErrCodeAnalysisFailed ErrorCode = "ANL_001"
)

// Substance catalog error codes.
const (
	ErrCodeSubstanceNotFound ErrorCode = "SUB_001"
	ErrCodeCatalogLoadFailed ErrorCode = "SUB_002"
	ErrCodeCatalogParseError ErrorCode = "SUB_003"
	ErrCodeCatalogEmpty      ErrorCode = "SUB_004"
)

// Configuration error codes.  Detected once at startup.
const (
	ErrCodeConfigInvalid    ErrorCode = "CFG_001"
	ErrCodeConfigNotFound   ErrorCode = "CFG_002"
	ErrCodeConfigWeights    ErrorCode = "CFG_003"
	ErrCodeConfigThresholds ErrorCode = "CFG_004"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeAnalysisFailed: http.StatusInternalServerError,

	ErrCodeSubstanceNotFound: http.StatusNotFound,
	ErrCodeCatalogLoadFailed: http.StatusInternalServerError,
	ErrCodeCatalogParseError: http.StatusInternalServerError,
	ErrCodeCatalogEmpty:      http.StatusInternalServerError,

	ErrCodeConfigInvalid:    http.StatusInternalServerError,
	ErrCodeConfigNotFound:   http.StatusInternalServerError,
	ErrCodeConfigWeights:    http.StatusInternalServerError,
	ErrCodeConfigThresholds: http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "messaging error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeAnalysisFailed: "analysis failed",

	ErrCodeSubstanceNotFound: "substance not found",
	ErrCodeCatalogLoadFailed: "failed to load reference catalog",
	ErrCodeCatalogParseError: "failed to parse reference catalog",
	ErrCodeCatalogEmpty:      "reference catalog is empty",

	ErrCodeConfigInvalid:    "invalid configuration",
	ErrCodeConfigNotFound:   "configuration file not found",
	ErrCodeConfigWeights:    "category weights must sum to 1.0",
	ErrCodeConfigThresholds: "risk thresholds must be strictly increasing",
}

// HTTPStatusForCode returns the HTTP status associated with code, falling back
// to 500 for codes without an explicit mapping.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessage returns the default message associated with code, or the code
// itself when no mapping exists.
func DefaultMessage(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return string(code)
}
