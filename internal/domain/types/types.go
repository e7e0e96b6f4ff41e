// Package types contains the table shapes returned to presentation layers.
// Field order is the display column order and must not be rearranged.
package types

import (
	"time"

	"github.com/okian/worthboard/internal/domain/model"
)

// Date layouts used by the tables.
const (
	DayLayout       = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// PostRow is one row of the posts table.
type PostRow struct {
	Title       string   `json:"Title"`
	Author      string   `json:"Author"`
	Date        string   `json:"Date"`
	Likes       int      `json:"Likes"`
	Comments    int      `json:"Comments"`
	PostType    string   `json:"Post_Type"`
	SpaceName   string   `json:"Space_Name"`
	AuthorRoles []string `json:"Author_Roles"`
	AuthorID    *int64   `json:"Author_ID,omitempty"`
	PostID      *int64   `json:"Post_ID,omitempty"`
}

// ScoredPostRow is one row of the scored posts table.
type ScoredPostRow struct {
	Title           string  `json:"Title"`
	Author          string  `json:"Author"`
	Worth           float64 `json:"Worth"`
	WorthPercentage float64 `json:"Worth_Percentage"`
	Comments        int     `json:"Comments"`
	Likes           int     `json:"Likes"`
	Date            string  `json:"Date"`
	PostID          *int64  `json:"Post_ID,omitempty"`
}

// PersonRow is one row of the scored people table. RoundedPayment is only
// present when an amount was apportioned.
type PersonRow struct {
	Author          string   `json:"Author"`
	Worth           float64  `json:"Worth"`
	WorthPercentage float64  `json:"Worth_Percentage"`
	RoundedPayment  *float64 `json:"Rounded_Payment,omitempty"`
}

// EventRow is one row of the scored events table.
type EventRow struct {
	EventTitle    string   `json:"Event_Title"`
	Worth         float64  `json:"Worth"`
	Attendees     int      `json:"Attendees"`
	Likes         int      `json:"Likes"`
	Comments      int      `json:"Comments"`
	LengthMinutes float64  `json:"Length_Minutes"`
	Date          string   `json:"Date"`
	Author        string   `json:"Author"`
	AuthorRoles   []string `json:"Author_Roles"`
}

// Table pairs rows with the warnings produced while computing them.
type Table[R any] struct {
	Rows     []R             `json:"rows"`
	Warnings []model.Warning `json:"warnings,omitempty"`
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// PostTable projects normalized posts into the posts table.
func PostTable(posts []model.Post) []PostRow {
	rows := make([]PostRow, len(posts))
	for i, p := range posts {
		rows[i] = PostRow{
			Title:       p.Title,
			Author:      p.Author,
			Date:        formatTime(p.CreatedAt, TimestampLayout),
			Likes:       p.Likes,
			Comments:    p.Comments,
			PostType:    p.RawType,
			SpaceName:   p.Space,
			AuthorRoles: p.AuthorRoles,
			AuthorID:    p.AuthorID,
			PostID:      p.PostID,
		}
	}
	return rows
}

// ScoredPostTable projects ranked posts into the scored posts table.
func ScoredPostTable(posts []model.ScoredPost) []ScoredPostRow {
	rows := make([]ScoredPostRow, len(posts))
	for i, p := range posts {
		rows[i] = ScoredPostRow{
			Title:           p.Title,
			Author:          p.Author,
			Worth:           p.Worth,
			WorthPercentage: p.WorthPercentage,
			Comments:        p.Comments,
			Likes:           p.Likes,
			Date:            formatTime(p.CreatedAt, DayLayout),
			PostID:          p.PostID,
		}
	}
	return rows
}

// PeopleTable projects ranked people without payments.
func PeopleTable(people []model.PersonWorth) []PersonRow {
	rows := make([]PersonRow, len(people))
	for i, p := range people {
		rows[i] = PersonRow{Author: p.Author, Worth: p.Worth, WorthPercentage: p.WorthPercentage}
	}
	return rows
}

// PayoutTable projects apportioned people, including the rounded payment.
func PayoutTable(payouts []model.Payout) []PersonRow {
	rows := make([]PersonRow, len(payouts))
	for i, p := range payouts {
		payment := p.RoundedPayment
		rows[i] = PersonRow{
			Author:          p.Author,
			Worth:           p.Worth,
			WorthPercentage: p.WorthPercentage,
			RoundedPayment:  &payment,
		}
	}
	return rows
}

// EventTable projects scored events into the scored events table.
func EventTable(events []model.ScoredEvent) []EventRow {
	rows := make([]EventRow, len(events))
	for i, e := range events {
		rows[i] = EventRow{
			EventTitle:    e.Title,
			Worth:         e.Worth,
			Attendees:     e.Attendees,
			Likes:         e.Likes,
			Comments:      e.Comments,
			LengthMinutes: e.LengthMinutes,
			Date:          formatTime(e.Date, DayLayout),
			Author:        e.Author,
			AuthorRoles:   e.AuthorRoles,
		}
	}
	return rows
}
