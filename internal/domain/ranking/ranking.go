// Package ranking orders scored rows, truncates them to a top-N and
// computes each row's share of the retained total.
package ranking

import (
	"sort"

	"github.com/okian/worthboard/internal/domain/model"
)

// Entry is a ranked row with its worth and share of the top-N total.
type Entry[T any] struct {
	Row        T
	Worth      float64
	Percentage float64
}

// Rank stable-sorts rows by worth descending, keeps the first topN and
// sets each kept row's percentage of the kept total. Equal worths keep
// their input order. When fewer than topN rows exist every row is kept
// and a warning names the shortfall; what labels the rows in that
// warning. A non-positive topN keeps nothing.
func Rank[T any](rows []T, worth func(T) float64, topN int, what string) ([]Entry[T], []model.Warning) {
	entries := make([]Entry[T], len(rows))
	for i, r := range rows {
		entries[i] = Entry[T]{Row: r, Worth: worth(r)}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Worth > entries[j].Worth
	})

	var warnings []model.Warning
	if topN < 0 {
		topN = 0
	}
	if topN > len(entries) {
		warnings = append(warnings, model.InsufficientRows(what, len(entries), topN))
		topN = len(entries)
	}
	entries = entries[:topN]
	setPercentages(entries)
	return entries, warnings
}

// setPercentages assigns worth / total * 100. When the total is zero every
// entry gets an equal share so the percentages still sum to 100.
func setPercentages[T any](entries []Entry[T]) {
	if len(entries) == 0 {
		return
	}
	var total float64
	for _, e := range entries {
		total += e.Worth
	}
	for i := range entries {
		if total == 0 {
			entries[i].Percentage = 100 / float64(len(entries))
			continue
		}
		entries[i].Percentage = entries[i].Worth / total * 100
	}
}

// Posts ranks scored posts and returns them with WorthPercentage set.
func Posts(posts []model.ScoredPost, topN int) ([]model.ScoredPost, []model.Warning) {
	entries, warnings := Rank(posts, func(p model.ScoredPost) float64 { return p.Worth }, topN, "posts")
	out := make([]model.ScoredPost, len(entries))
	for i, e := range entries {
		out[i] = e.Row
		out[i].WorthPercentage = e.Percentage
	}
	return out, warnings
}

// Events ranks scored events and returns them with WorthPercentage set.
func Events(events []model.ScoredEvent, topN int) ([]model.ScoredEvent, []model.Warning) {
	entries, warnings := Rank(events, func(e model.ScoredEvent) float64 { return e.Worth }, topN, "events")
	out := make([]model.ScoredEvent, len(entries))
	for i, e := range entries {
		out[i] = e.Row
		out[i].WorthPercentage = e.Percentage
	}
	return out, warnings
}

// People ranks aggregated person worth and returns it with
// WorthPercentage set.
func People(people []model.PersonWorth, topN int) ([]model.PersonWorth, []model.Warning) {
	entries, warnings := Rank(people, func(p model.PersonWorth) float64 { return p.Worth }, topN, "people")
	out := make([]model.PersonWorth, len(entries))
	for i, e := range entries {
		out[i] = e.Row
		out[i].WorthPercentage = e.Percentage
	}
	return out, warnings
}

// ByAttendance returns up to n events ordered by attendee count, highest
// first, ties in input order.
func ByAttendance(events []model.Event, n int) ([]model.Event, []model.Warning) {
	entries, warnings := Rank(events, func(e model.Event) float64 { return float64(e.Attendees) }, n, "events")
	out := make([]model.Event, len(entries))
	for i, e := range entries {
		out[i] = e.Row
	}
	return out, warnings
}
