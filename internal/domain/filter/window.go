package filter

import (
	"fmt"
	"strings"
	"time"
)

// WindowKind selects which calendar period participates in scoring.
type WindowKind int

// Window kinds, in the order the report form lists them.
const (
	AllTime WindowKind = iota
	ThisMonth
	LastMonth
	SpecificMonth
)

// Window is a time-window selection. Date is only read for SpecificMonth;
// any day in the wanted month will do.
type Window struct {
	Kind WindowKind
	Date time.Time
}

// ParseWindowKind accepts the names used by the HTTP API and the CLI.
func ParseWindowKind(s string) (WindowKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "all_time", "all-time":
		return AllTime, nil
	case "this_month", "this-month", "month":
		return ThisMonth, nil
	case "last_month", "last-month":
		return LastMonth, nil
	case "specific_month", "specific-month", "specific":
		return SpecificMonth, nil
	default:
		return AllTime, fmt.Errorf("%w: %q", ErrUnknownWindow, s)
	}
}

func (k WindowKind) String() string {
	switch k {
	case ThisMonth:
		return "this_month"
	case LastMonth:
		return "last_month"
	case SpecificMonth:
		return "specific_month"
	default:
		return "all_time"
	}
}

// month returns the year and month the window selects relative to ref.
// ok is false for AllTime.
func (w Window) month(ref time.Time) (year int, month time.Month, ok bool) {
	switch w.Kind {
	case ThisMonth:
		return ref.Year(), ref.Month(), true
	case LastMonth:
		// Step from the first of the month so that e.g. March 31 does not
		// normalize into March again.
		first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		prev := first.AddDate(0, -1, 0)
		return prev.Year(), prev.Month(), true
	case SpecificMonth:
		return w.Date.Year(), w.Date.Month(), true
	default:
		return 0, 0, false
	}
}

// isFuture reports whether a specific month lies after ref's month.
func (w Window) isFuture(ref time.Time) bool {
	if w.Kind != SpecificMonth {
		return false
	}
	wy, wm := w.Date.Year(), w.Date.Month()
	ry, rm := ref.Year(), ref.Month()
	return wy > ry || (wy == ry && wm > rm)
}
