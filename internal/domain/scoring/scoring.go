// Package scoring computes worth for posts, people and events from a
// weighted linear combination of their metrics.
package scoring

import "github.com/okian/worthboard/internal/domain/model"

// kindMultiplier scales the kind weight of every post.
const kindMultiplier = 10

// PostWorth is likes*like + comments*comment + kindWeight*10.
func PostWorth(p model.Post, w PostWeights) float64 {
	return float64(p.Likes)*w.Like +
		float64(p.Comments)*w.Comment +
		w.KindWeight(p.Kind)*kindMultiplier
}

// EventWorth is likes*like + comments*comment + attendees*attendees +
// minutes*duration.
func EventWorth(e model.Event, w EventWeights) float64 {
	return float64(e.Likes)*w.Like +
		float64(e.Comments)*w.Comment +
		float64(e.Attendees)*w.Attendees +
		e.LengthMinutes*w.Duration
}

// Posts scores each post, preserving order.
func Posts(posts []model.Post, w PostWeights) []model.ScoredPost {
	out := make([]model.ScoredPost, len(posts))
	for i, p := range posts {
		out[i] = model.ScoredPost{Post: p, Worth: PostWorth(p, w)}
	}
	return out
}

// Events scores each event, preserving order.
func Events(events []model.Event, w EventWeights) []model.ScoredEvent {
	out := make([]model.ScoredEvent, len(events))
	for i, e := range events {
		out[i] = model.ScoredEvent{Event: e, Worth: EventWorth(e, w)}
	}
	return out
}

// People sums post worth per author display name. Groups appear in the
// order their author was first seen. Authors are matched by exact name,
// so distinct members sharing a display name are merged.
func People(posts []model.Post, w PostWeights) []model.PersonWorth {
	index := make(map[string]int)
	var out []model.PersonWorth
	for _, p := range posts {
		i, ok := index[p.Author]
		if !ok {
			i = len(out)
			index[p.Author] = i
			out = append(out, model.PersonWorth{Author: p.Author})
		}
		out[i].Posts++
		out[i].Worth += PostWorth(p, w)
	}
	return out
}
