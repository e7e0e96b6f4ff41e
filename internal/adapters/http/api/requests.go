package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	service "github.com/okian/worthboard/internal/app"
	"github.com/okian/worthboard/internal/domain/filter"
	"github.com/okian/worthboard/internal/domain/ranking"
	"github.com/okian/worthboard/internal/domain/scoring"
)

const maxBodyBytes = 1 << 20

// authRequest is the body of POST /auth.
type authRequest struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
}

// postsRequest is the body of POST /leaderboard/posts.
type postsRequest struct {
	TopN              int                  `json:"top_n"`
	ExcludeAdmins     bool                 `json:"exclude_admins"`
	ExcludeModerators bool                 `json:"exclude_moderators"`
	ExcludedNames     string               `json:"excluded_names"`
	Window            string               `json:"window"`
	Date              string               `json:"date"` // YYYY-MM or YYYY-MM-DD, for specific_month
	Weights           *scoring.PostWeights `json:"weights"`
}

// peopleRequest is the body of POST /leaderboard/people.
type peopleRequest struct {
	postsRequest
	Amount float64 `json:"amount"`
}

// eventsRequest is the body of POST /leaderboard/events.
type eventsRequest struct {
	TopN    int                   `json:"top_n"`
	Weights *scoring.EventWeights `json:"weights"`
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	return nil
}

func (s *Server) checkTopN(n int) error {
	if n < 1 {
		return fmt.Errorf("top_n must be at least 1, got %d", n)
	}
	if n > s.maxTopN {
		return fmt.Errorf("top_n must be at most %d, got %d", s.maxTopN, n)
	}
	return nil
}

func parseMonth(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q; want YYYY-MM or YYYY-MM-DD", s)
}

func (s *Server) postQuery(req postsRequest) (service.PostQuery, error) {
	if err := s.checkTopN(req.TopN); err != nil {
		return service.PostQuery{}, err
	}
	kind, err := filter.ParseWindowKind(req.Window)
	if err != nil {
		return service.PostQuery{}, err
	}
	window := filter.Window{Kind: kind}
	if kind == filter.SpecificMonth {
		if window.Date, err = parseMonth(req.Date); err != nil {
			return service.PostQuery{}, err
		}
	}
	weights := s.deps.DefaultPostWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}
	return service.PostQuery{
		TopN: req.TopN,
		Filter: filter.Options{
			ExcludeAdmins:     req.ExcludeAdmins,
			ExcludeModerators: req.ExcludeModerators,
			ExcludedNames:     req.ExcludedNames,
			Window:            window,
		},
		Weights: weights,
	}, nil
}

func (s *Server) peopleQuery(req peopleRequest) (service.PeopleQuery, error) {
	pq, err := s.postQuery(req.postsRequest)
	if err != nil {
		return service.PeopleQuery{}, err
	}
	if req.Amount < 0 || req.Amount > s.maxAmount {
		return service.PeopleQuery{}, fmt.Errorf("amount must be between 0 and %g", s.maxAmount)
	}
	if !ranking.WholeCents(req.Amount) {
		return service.PeopleQuery{}, fmt.Errorf("amount must not have more than two decimal places, got %g", req.Amount)
	}
	return service.PeopleQuery{PostQuery: pq, Amount: req.Amount}, nil
}

func (s *Server) eventQuery(req eventsRequest) (service.EventQuery, error) {
	if err := s.checkTopN(req.TopN); err != nil {
		return service.EventQuery{}, err
	}
	weights := s.deps.DefaultEventWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}
	return service.EventQuery{TopN: req.TopN, Weights: weights}, nil
}

// limitParam reads ?limit. Absent means fallback.
func limitParam(r *http.Request, fallback, max int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("limit must be a positive integer, got %q", raw)
	}
	if max > 0 && n > max {
		return 0, fmt.Errorf("limit must be at most %d, got %d", max, n)
	}
	return n, nil
}
