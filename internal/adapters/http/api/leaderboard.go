package api

import "net/http"

// handleTopPosts handles POST /leaderboard/posts.
func (s *Server) handleTopPosts(w http.ResponseWriter, r *http.Request) {
	const op = "api.leaderboard_posts"
	cred, err := credential(r)
	if err != nil {
		s.fail(w, r, NewKind(op, err))
		return
	}
	var req postsRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	q, err := s.postQuery(req)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	tbl, err := s.deps.TopPosts(r.Context(), cred, q)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, tbl)
}

// handleTopPeople handles POST /leaderboard/people. A positive amount adds
// Rounded_Payment to every row.
func (s *Server) handleTopPeople(w http.ResponseWriter, r *http.Request) {
	const op = "api.leaderboard_people"
	cred, err := credential(r)
	if err != nil {
		s.fail(w, r, NewKind(op, err))
		return
	}
	var req peopleRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	q, err := s.peopleQuery(req)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	tbl, err := s.deps.TopPeople(r.Context(), cred, q)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, tbl)
}

// handleTopEvents handles POST /leaderboard/events.
func (s *Server) handleTopEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.leaderboard_events"
	cred, err := credential(r)
	if err != nil {
		s.fail(w, r, NewKind(op, err))
		return
	}
	var req eventsRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	q, err := s.eventQuery(req)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	tbl, err := s.deps.TopEvents(r.Context(), cred, q)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, tbl)
}
