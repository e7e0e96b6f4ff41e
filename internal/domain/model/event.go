package model

import "time"

// Event is one normalized livestream or community event.
type Event struct {
	Title         string
	Attendees     int
	Author        string
	AuthorRoles   []string
	AuthorID      *int64
	EventID       *int64
	LengthMinutes float64   // duration_in_seconds / 60, one decimal
	Date          time.Time // calendar day in UTC; zero when unknown
	Likes         int
	Comments      int
	Space         string
}

// HasDate reports whether Date holds a parsed day.
func (e Event) HasDate() bool { return !e.Date.IsZero() }

func (e Event) AuthorName() string { return e.Author }
func (e Event) Roles() []string     { return e.AuthorRoles }
func (e Event) When() time.Time     { return e.Date }
