package model

// ScoredPost is a post with its computed worth. WorthPercentage is set once
// the post has been ranked and is relative to the retained top-N total.
type ScoredPost struct {
	Post
	Worth           float64
	WorthPercentage float64
}

// ScoredEvent is an event with its computed worth.
type ScoredEvent struct {
	Event
	Worth           float64
	WorthPercentage float64
}

// PersonWorth aggregates the worth of every post by one display name.
// Two members sharing a display name are indistinguishable here.
type PersonWorth struct {
	Author          string
	Posts           int
	Worth           float64
	WorthPercentage float64
}

// Payout is a ranked person with their share of a monetary amount.
type Payout struct {
	PersonWorth
	RawPayment     float64
	RoundedPayment float64
}
