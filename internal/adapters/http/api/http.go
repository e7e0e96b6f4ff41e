// Package api exposes the leaderboards and statistics as a JSON HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/worthboard/internal/adapters/circle"
	service "github.com/okian/worthboard/internal/app"
	"github.com/okian/worthboard/internal/domain/filter"
	"github.com/okian/worthboard/internal/domain/scoring"
	"github.com/okian/worthboard/internal/domain/stats"
	"github.com/okian/worthboard/internal/domain/types"
	"github.com/okian/worthboard/pkg/logger"
)

const (
	defaultMaxTopN   = 100
	defaultMaxAmount = 10000
)

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	Authenticate(ctx context.Context, preToken, email string) (circle.Credential, error)
	PostsTable(ctx context.Context, cred circle.Credential, limit int) (types.Table[types.PostRow], error)
	TopPosts(ctx context.Context, cred circle.Credential, q service.PostQuery) (types.Table[types.ScoredPostRow], error)
	TopPeople(ctx context.Context, cred circle.Credential, q service.PeopleQuery) (types.Table[types.PersonRow], error)
	TopEvents(ctx context.Context, cred circle.Credential, q service.EventQuery) (types.Table[types.EventRow], error)
	MostAttendedEvents(ctx context.Context, cred circle.Credential, limit int) (types.Table[types.EventRow], error)
	Stats(ctx context.Context, cred circle.Credential) (stats.Summary, error)
	QuickPosts(ctx context.Context, cred circle.Credential) (types.Table[types.ScoredPostRow], error)
	QuickPeople(ctx context.Context, cred circle.Credential) (types.Table[types.PersonRow], error)
	QuickEvents(ctx context.Context, cred circle.Credential) (types.Table[types.EventRow], error)
	DefaultPostWeights() scoring.PostWeights
	DefaultEventWeights() scoring.EventWeights
}

// Server wires HTTP routes for the API.
type Server struct {
	deps      Dependencies
	maxTopN   int
	maxAmount float64
	logger    logger.Logger
}

// NewServer creates an API server over deps.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:      deps,
		maxTopN:   defaultMaxTopN,
		maxAmount: defaultMaxAmount,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}
	route("GET /healthz", "healthz", s.handleHealth)
	route("POST /auth", "auth", s.handleAuth)
	route("GET /posts", "posts", s.handlePosts)
	route("POST /leaderboard/posts", "leaderboard_posts", s.handleTopPosts)
	route("POST /leaderboard/people", "leaderboard_people", s.handleTopPeople)
	route("POST /leaderboard/events", "leaderboard_events", s.handleTopEvents)
	route("GET /events/attended", "events_attended", s.handleMostAttended)
	route("GET /stats", "stats", s.handleStats)
	route("GET /quick/{kind}", "quick", s.handleQuick)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail maps err onto a status: 401 for credentials, 400 for input and
// 502 for everything that went wrong talking to the platform.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, circle.ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidQuery), errors.Is(err, filter.ErrUnknownWindow):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		writeError(w, http.StatusBadGateway, "upstream_error", err)
	}
}

// credential reads the bearer credential from the Authorization header.
func credential(r *http.Request) (circle.Credential, error) {
	cred := circle.Credential(strings.TrimSpace(r.Header.Get("Authorization")))
	if !cred.Valid() {
		return "", ErrUnauthorized
	}
	return cred, nil
}
