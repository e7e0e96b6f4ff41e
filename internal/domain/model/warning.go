package model

import "fmt"

// WarningCode classifies a non-fatal condition attached to a result.
type WarningCode string

// Warning codes surfaced to callers.
const (
	WarnInsufficientRows WarningCode = "insufficient_rows"
	WarnFutureDate       WarningCode = "future_date"
)

// Warning is a recoverable issue; the result it accompanies is still valid.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// InsufficientRows reports that fewer rows than requested were available.
func InsufficientRows(what string, have, want int) Warning {
	return Warning{
		Code:    WarnInsufficientRows,
		Message: fmt.Sprintf("only %d %s available, fewer than the %d requested", have, what, want),
	}
}

// FutureDate reports that a specific month lies in the future.
func FutureDate(month string) Warning {
	return Warning{
		Code:    WarnFutureDate,
		Message: fmt.Sprintf("%s is in the future; choose a month in the past", month),
	}
}
