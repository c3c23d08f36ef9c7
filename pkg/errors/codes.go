package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeDatabaseError      ErrorCode = "COMMON_009"
	ErrCodeCacheError         ErrorCode = "COMMON_010"
	ErrCodeNotImplemented     ErrorCode = "COMMON_011"
)

// Sentinel codes used by chain-inspection helpers.
const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// Timebar Module Error Codes
const (
	ErrCodeNoticeTypeNotFound  ErrorCode = "TBR_001"
	ErrCodeNoticeTypeInactive  ErrorCode = "TBR_002"
	ErrCodeCaseNoticeNotFound  ErrorCode = "TBR_003"
	ErrCodeTimebarDaysInvalid  ErrorCode = "TBR_004"
	ErrCodeReconcileFailed     ErrorCode = "TBR_005"
	ErrCodeVoyageEndMissing    ErrorCode = "TBR_006"
	ErrCodeOrgSettingsNotFound ErrorCode = "TBR_007"
)

// Todo Module Error Codes
const (
	ErrCodeTodoNotFound       ErrorCode = "TODO_001"
	ErrCodeTodoStatusInvalid  ErrorCode = "TODO_002"
	ErrCodeTodoFilterInvalid  ErrorCode = "TODO_003"
	ErrCodeTodoMetaKeyInvalid ErrorCode = "TODO_004"
)

// Case Module Error Codes
const (
	ErrCodeCaseNotFound ErrorCode = "CASE_001"
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
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeNoticeTypeNotFound:  http.StatusNotFound,
	ErrCodeNoticeTypeInactive:  http.StatusNotFound,
	ErrCodeCaseNoticeNotFound:  http.StatusNotFound,
	ErrCodeTimebarDaysInvalid:  http.StatusBadRequest,
	ErrCodeReconcileFailed:     http.StatusInternalServerError,
	ErrCodeVoyageEndMissing:    http.StatusConflict,
	ErrCodeOrgSettingsNotFound: http.StatusNotFound,

	ErrCodeTodoNotFound:       http.StatusNotFound,
	ErrCodeTodoStatusInvalid:  http.StatusBadRequest,
	ErrCodeTodoFilterInvalid:  http.StatusBadRequest,
	ErrCodeTodoMetaKeyInvalid: http.StatusBadRequest,

	ErrCodeCaseNotFound: http.StatusNotFound,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeNoticeTypeNotFound:  "notice type not found",
	ErrCodeNoticeTypeInactive:  "notice type is inactive",
	ErrCodeCaseNoticeNotFound:  "case notice not found",
	ErrCodeTimebarDaysInvalid:  "timebar days must be non-negative",
	ErrCodeReconcileFailed:     "timebar reconciliation failed",
	ErrCodeVoyageEndMissing:    "voyage end date missing",
	ErrCodeOrgSettingsNotFound: "organization settings not found",

	ErrCodeTodoNotFound:       "todo not found",
	ErrCodeTodoStatusInvalid:  "invalid todo status",
	ErrCodeTodoFilterInvalid:  "invalid todo filter",
	ErrCodeTodoMetaKeyInvalid: "invalid todo meta key",

	ErrCodeCaseNotFound: "case not found",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
