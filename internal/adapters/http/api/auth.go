package api

import (
	"net/http"
	"strings"
)

// handleAuth handles POST /auth. The returned access_token is sent back as
// "Authorization: Bearer <access_token>" on every other route.
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	const op = "api.auth"
	var req authRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Token) == "" || strings.TrimSpace(req.Email) == "" {
		s.fail(w, r, NewKind(op, ErrBadRequest))
		return
	}
	cred, err := s.deps.Authenticate(r.Context(), req.Token, req.Email)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		AccessToken: strings.TrimPrefix(string(cred), "Bearer "),
	})
}
