package service

import (
	"fmt"
	"time"

	"github.com/okian/worthboard/internal/domain/filter"
	"github.com/okian/worthboard/internal/domain/model"
	"github.com/okian/worthboard/internal/domain/ranking"
	"github.com/okian/worthboard/internal/domain/scoring"
)

// PostQuery selects and weighs posts for a leaderboard.
type PostQuery struct {
	TopN    int
	Filter  filter.Options
	Weights scoring.PostWeights
}

// PeopleQuery is a PostQuery plus an optional amount to apportion.
type PeopleQuery struct {
	PostQuery
	Amount float64
}

// EventQuery weighs events for a leaderboard.
type EventQuery struct {
	TopN    int
	Weights scoring.EventWeights
}

func (q PostQuery) validate() error {
	if q.TopN < 1 {
		return fmt.Errorf("%w: top_n must be at least 1, got %d", ErrInvalidQuery, q.TopN)
	}
	w := q.Weights
	if w.Like < 0 || w.Comment < 0 || w.Basic < 0 || w.Image < 0 {
		return fmt.Errorf("%w: post weights must be non-negative", ErrInvalidQuery)
	}
	if q.Filter.Window.Kind == filter.SpecificMonth && q.Filter.Window.Date.IsZero() {
		return fmt.Errorf("%w: specific_month needs a date", ErrInvalidQuery)
	}
	return nil
}

func (q PeopleQuery) validate() error {
	if err := q.PostQuery.validate(); err != nil {
		return err
	}
	if q.Amount < 0 {
		return fmt.Errorf("%w: amount must be non-negative", ErrInvalidQuery)
	}
	if !ranking.WholeCents(q.Amount) {
		return fmt.Errorf("%w: amount must not have more than two decimal places, got %g", ErrInvalidQuery, q.Amount)
	}
	return nil
}

func (q EventQuery) validate() error {
	if q.TopN < 1 {
		return fmt.Errorf("%w: top_n must be at least 1, got %d", ErrInvalidQuery, q.TopN)
	}
	w := q.Weights
	if w.Like < 0 || w.Comment < 0 || w.Attendees < 0 || w.Duration < 0 {
		return fmt.Errorf("%w: event weights must be non-negative", ErrInvalidQuery)
	}
	return nil
}

// RankPosts filters, scores and ranks posts. now anchors the month windows.
func RankPosts(posts []model.Post, q PostQuery, now time.Time) ([]model.ScoredPost, []model.Warning, error) {
	if err := q.validate(); err != nil {
		return nil, nil, err
	}
	kept, warnings := filter.Apply(posts, q.Filter, now)
	ranked, more := ranking.Posts(scoring.Posts(kept, q.Weights), q.TopN)
	return ranked, append(warnings, more...), nil
}

// RankPeople filters posts, aggregates worth per author and ranks the
// authors. With a positive amount the ranked authors are also apportioned
// and payouts is non-nil.
func RankPeople(posts []model.Post, q PeopleQuery, now time.Time) (people []model.PersonWorth, payouts []model.Payout, warnings []model.Warning, err error) {
	if err := q.validate(); err != nil {
		return nil, nil, nil, err
	}
	kept, warnings := filter.Apply(posts, q.Filter, now)
	people, more := ranking.People(scoring.People(kept, q.Weights), q.TopN)
	warnings = append(warnings, more...)
	if q.Amount > 0 {
		payouts = ranking.Apportion(people, q.Amount)
	}
	return people, payouts, warnings, nil
}

// RankEvents scores and ranks events.
func RankEvents(events []model.Event, q EventQuery) ([]model.ScoredEvent, []model.Warning, error) {
	if err := q.validate(); err != nil {
		return nil, nil, err
	}
	ranked, warnings := ranking.Events(scoring.Events(events, q.Weights), q.TopN)
	return ranked, warnings, nil
}

// MostAttended returns up to n events by attendee count, each carrying its
// worth under w.
func MostAttended(events []model.Event, n int, w scoring.EventWeights) ([]model.ScoredEvent, []model.Warning, error) {
	if n < 1 {
		return nil, nil, fmt.Errorf("%w: limit must be at least 1, got %d", ErrInvalidQuery, n)
	}
	top, warnings := ranking.ByAttendance(events, n)
	return scoring.Events(top, w), warnings, nil
}
