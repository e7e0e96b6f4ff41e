// Package filter selects which rows participate in scoring: identity
// exclusion first, then the time window. All functions are pure.
package filter

import (
	"strings"
	"time"

	"github.com/okian/worthboard/internal/domain/model"
)

const (
	adminRole     = "admin"
	moderatorRole = "moderator"
)

// Subject is a row the filter can inspect. model.Post and model.Event
// both satisfy it.
type Subject interface {
	AuthorName() string
	Roles() []string
	When() time.Time
}

// Options configures one filter pass.
type Options struct {
	ExcludeAdmins     bool
	ExcludeModerators bool
	// ExcludedNames is a comma-separated list of exact author names.
	ExcludedNames string
	Window        Window
}

// Apply returns the rows that survive the identity filters and the time
// window, in their original order. ref is "now" for the month windows.
// A future specific month produces a warning but is still applied.
func Apply[T Subject](rows []T, opts Options, ref time.Time) ([]T, []model.Warning) {
	var warnings []model.Warning
	if opts.Window.isFuture(ref) {
		warnings = append(warnings, model.FutureDate(opts.Window.Date.Format("2006-01")))
	}
	rows = Identity(rows, opts)
	rows = ByWindow(rows, opts.Window, ref)
	return rows, warnings
}

// Identity drops admins, moderators and named authors as configured.
func Identity[T Subject](rows []T, opts Options) []T {
	names := ParseNames(opts.ExcludedNames)
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if opts.ExcludeAdmins && IsAdmin(r) {
			continue
		}
		if opts.ExcludeModerators && hasRole(r.Roles(), moderatorRole) {
			continue
		}
		if _, named := names[r.AuthorName()]; named {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ByWindow keeps rows whose date falls in the window's month. Rows with
// an unknown date only survive the all-time window.
func ByWindow[T Subject](rows []T, w Window, ref time.Time) []T {
	year, month, ok := w.month(ref)
	if !ok {
		out := make([]T, len(rows))
		copy(out, rows)
		return out
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		t := r.When()
		if t.IsZero() {
			continue
		}
		if t.Year() == year && t.Month() == month {
			out = append(out, r)
		}
	}
	return out
}

// IsAdmin reports whether a row carries an admin role or its author name
// contains "admin". Either condition is enough.
func IsAdmin(s Subject) bool {
	if hasRole(s.Roles(), adminRole) {
		return true
	}
	return strings.Contains(strings.ToLower(s.AuthorName()), adminRole)
}

// ParseNames splits a comma-separated name list into a set, trimming
// whitespace and ignoring empty entries.
func ParseNames(list string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

func hasRole(roles []string, want string) bool {
	for _, r := range roles {
		if strings.EqualFold(strings.TrimSpace(r), want) {
			return true
		}
	}
	return false
}
