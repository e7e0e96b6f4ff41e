// Package normalize converts raw platform records into typed rows.
package normalize

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/okian/worthboard/internal/domain/model"
)

// DefaultExcludedSpace marks event spaces that never enter scoring.
const DefaultExcludedSpace = "Moderator Training Space"

const eventPostType = "event"

// timestamp layouts tried in order; the platform emits RFC3339 with millis.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp returns the UTC instant for s, or the zero time when s
// cannot be parsed. The zero time is the "unknown" sentinel.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// Post converts one record. ok is false for event-typed posts.
func Post(r PostRecord) (model.Post, bool) {
	if strings.EqualFold(strings.TrimSpace(r.PostType), eventPostType) {
		return model.Post{}, false
	}
	return model.Post{
		Title:       r.DisplayTitle,
		Author:      r.Author.Name,
		AuthorRoles: cleanRoles(r.Author.Roles),
		AuthorID:    r.Author.ID,
		PostID:      r.ID,
		Kind:        model.ParsePostKind(r.PostType),
		RawType:     r.PostType,
		CreatedAt:   ParseTimestamp(r.CreatedAt),
		Likes:       nonNegative(r.UserLikesCount),
		Comments:    nonNegative(r.CommentCount),
		Space:       r.Space.Name,
	}, true
}

// Posts converts a batch of records in order, dropping event-typed posts.
// It does not sort; see SortPosts.
func Posts(records []PostRecord) []model.Post {
	out := make([]model.Post, 0, len(records))
	for _, r := range records {
		if p, ok := Post(r); ok {
			out = append(out, p)
		}
	}
	return out
}

// SortPosts orders posts by creation time, newest first. The sort is stable
// and posts with unknown timestamps go last.
func SortPosts(posts []model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if !a.HasDate() || !b.HasDate() {
			return a.HasDate() && !b.HasDate()
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// CombineSpaces concatenates per-space posts in the order given and returns
// them sorted newest first. The input slices are not modified.
func CombineSpaces(perSpace ...[]model.Post) []model.Post {
	total := 0
	for _, s := range perSpace {
		total += len(s)
	}
	out := make([]model.Post, 0, total)
	for _, s := range perSpace {
		out = append(out, s...)
	}
	SortPosts(out)
	return out
}

// Event converts one record. ok is false when the event's space contains
// excludedSpace; an empty excludedSpace disables the check.
func Event(r EventRecord, excludedSpace string) (model.Event, bool) {
	if excludedSpace != "" && strings.Contains(r.Space.Name, excludedSpace) {
		return model.Event{}, false
	}
	var minutes float64
	if d := r.EventSettingAttributes.DurationInSeconds; d != nil && *d > 0 {
		minutes = math.Round(*d/60*10) / 10
	}
	date := ParseTimestamp(r.CreatedAt)
	if !date.IsZero() {
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	}
	return model.Event{
		Title:         r.Name,
		Attendees:     nonNegative(r.EventAttendees.Count),
		Author:        r.Author.Name,
		AuthorRoles:   cleanRoles(r.Author.Roles),
		AuthorID:      r.Author.ID,
		EventID:       r.ID,
		LengthMinutes: minutes,
		Date:          date,
		Likes:         nonNegative(r.UserLikesCount),
		Comments:      nonNegative(r.CommentCount),
		Space:         r.Space.Name,
	}, true
}

// Events converts a batch of event records in order.
func Events(records []EventRecord, excludedSpace string) []model.Event {
	out := make([]model.Event, 0, len(records))
	for _, r := range records {
		if e, ok := Event(r, excludedSpace); ok {
			out = append(out, e)
		}
	}
	return out
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
