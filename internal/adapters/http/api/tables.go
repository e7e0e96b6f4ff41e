package api

import "net/http"

const defaultAttendedLimit = 5

// handlePosts handles GET /posts?limit=N. Without a limit every post is
// returned, newest first.
func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	const op = "api.posts"
	cred, err := credential(r)
	if err != nil {
		s.fail(w, r, NewKind(op, err))
		return
	}
	limit, err := limitParam(r, 0, 0)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	tbl, err := s.deps.PostsTable(r.Context(), cred, limit)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, tbl)
}

// handleMostAttended handles GET /events/attended?limit=N.
func (s *Server) handleMostAttended(w http.ResponseWriter, r *http.Request) {
	const op = "api.events_attended"
	cred, err := credential(r)
	if err != nil {
		s.fail(w, r, NewKind(op, err))
		return
	}
	limit, err := limitParam(r, defaultAttendedLimit, s.maxTopN)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	tbl, err := s.deps.MostAttendedEvents(r.Context(), cred, limit)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, tbl)
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.stats"
	cred, err := credential(r)
	if err != nil {
		s.fail(w, r, NewKind(op, err))
		return
	}
	sum, err := s.deps.Stats(r.Context(), cred)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// handleQuick handles GET /quick/{posts,people,events}: fixed top-five
// leaderboards with admins and moderators excluded.
func (s *Server) handleQuick(w http.ResponseWriter, r *http.Request) {
	const op = "api.quick"
	cred, err := credential(r)
	if err != nil {
		s.fail(w, r, NewKind(op, err))
		return
	}
	var (
		out  any
		qerr error
	)
	switch kind := r.PathValue("kind"); kind {
	case "posts":
		out, qerr = s.deps.QuickPosts(r.Context(), cred)
	case "people":
		out, qerr = s.deps.QuickPeople(r.Context(), cred)
	case "events":
		out, qerr = s.deps.QuickEvents(r.Context(), cred)
	default:
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if qerr != nil {
		s.fail(w, r, Wrap(op, qerr))
		return
	}
	writeJSON(w, http.StatusOK, out)
}
