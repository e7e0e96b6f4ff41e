package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/worthboard/internal/adapters/circle"
	"github.com/okian/worthboard/internal/adapters/http/api"
	service "github.com/okian/worthboard/internal/app"
	"github.com/okian/worthboard/internal/domain/filter"
	"github.com/okian/worthboard/internal/domain/model"
	"github.com/okian/worthboard/internal/domain/scoring"
	"github.com/okian/worthboard/internal/domain/stats"
	"github.com/okian/worthboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type mockDeps struct {
	err        error
	lastCred   circle.Credential
	postQuery  service.PostQuery
	peopleQ    service.PeopleQuery
	eventQuery service.EventQuery
	limit      int
	quick      string
}

func (m *mockDeps) Authenticate(_ context.Context, preToken, email string) (circle.Credential, error) {
	if preToken == "pre" && email == "a@b.c" {
		return "Bearer tok", nil
	}
	return "", circle.ErrInvalidCredentials
}

func (m *mockDeps) PostsTable(_ context.Context, cred circle.Credential, limit int) (types.Table[types.PostRow], error) {
	m.lastCred, m.limit = cred, limit
	return types.Table[types.PostRow]{Rows: []types.PostRow{{Title: "hello"}}}, m.err
}

func (m *mockDeps) TopPosts(_ context.Context, cred circle.Credential, q service.PostQuery) (types.Table[types.ScoredPostRow], error) {
	m.lastCred, m.postQuery = cred, q
	return types.Table[types.ScoredPostRow]{
		Rows:     []types.ScoredPostRow{{Title: "hello", Worth: 34, WorthPercentage: 100}},
		Warnings: []model.Warning{model.InsufficientRows("posts", 1, 5)},
	}, m.err
}

func (m *mockDeps) TopPeople(_ context.Context, cred circle.Credential, q service.PeopleQuery) (types.Table[types.PersonRow], error) {
	m.lastCred, m.peopleQ = cred, q
	pay := 100.0
	return types.Table[types.PersonRow]{Rows: []types.PersonRow{{Author: "Ana", Worth: 34, WorthPercentage: 100, RoundedPayment: &pay}}}, m.err
}

func (m *mockDeps) TopEvents(_ context.Context, cred circle.Credential, q service.EventQuery) (types.Table[types.EventRow], error) {
	m.lastCred, m.eventQuery = cred, q
	return types.Table[types.EventRow]{Rows: []types.EventRow{{EventTitle: "AMA"}}}, m.err
}

func (m *mockDeps) MostAttendedEvents(_ context.Context, cred circle.Credential, limit int) (types.Table[types.EventRow], error) {
	m.lastCred, m.limit = cred, limit
	return types.Table[types.EventRow]{}, m.err
}

func (m *mockDeps) Stats(_ context.Context, cred circle.Credential) (stats.Summary, error) {
	m.lastCred = cred
	return stats.Summary{TotalPosts: 4, MemberCount: 42}, m.err
}

func (m *mockDeps) QuickPosts(context.Context, circle.Credential) (types.Table[types.ScoredPostRow], error) {
	m.quick = "posts"
	return types.Table[types.ScoredPostRow]{}, m.err
}

func (m *mockDeps) QuickPeople(context.Context, circle.Credential) (types.Table[types.PersonRow], error) {
	m.quick = "people"
	return types.Table[types.PersonRow]{}, m.err
}

func (m *mockDeps) QuickEvents(context.Context, circle.Credential) (types.Table[types.EventRow], error) {
	m.quick = "events"
	return types.Table[types.EventRow]{}, m.err
}

func (m *mockDeps) DefaultPostWeights() scoring.PostWeights   { return scoring.DefaultPostWeights() }
func (m *mockDeps) DefaultEventWeights() scoring.EventWeights { return scoring.DefaultEventWeights() }

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, api.WithMaxTopN(50), api.WithMaxAmount(1000)).Register(mux)
	return mux
}

func do(mux http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authed {
		req.Header.Set("Authorization", "Bearer tok")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestAuthRoute(t *testing.T) {
	Convey("Given the API", t, func() {
		mux := newMux(&mockDeps{})

		Convey("Then a good pair returns an access token", func() {
			rec := do(mux, http.MethodPost, "/auth", `{"token":"pre","email":"a@b.c"}`, false)
			So(rec.Code, ShouldEqual, http.StatusOK)
			var body map[string]string
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body["access_token"], ShouldEqual, "tok")
		})

		Convey("Then a bad pair is 401", func() {
			rec := do(mux, http.MethodPost, "/auth", `{"token":"pre","email":"x"}`, false)
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("Then a malformed body is 400", func() {
			rec := do(mux, http.MethodPost, "/auth", `{`, false)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then every response carries a request id", func() {
			rec := do(mux, http.MethodPost, "/auth", `{"token":"pre","email":"a@b.c"}`, false)
			So(rec.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
		})
	})
}

func TestLeaderboardRoutes(t *testing.T) {
	Convey("Given the API", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("Then a request without a credential is 401", func() {
			rec := do(mux, http.MethodPost, "/leaderboard/posts", `{"top_n":5}`, false)
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("When a post leaderboard is requested with filters", func() {
			rec := do(mux, http.MethodPost, "/leaderboard/posts", `{
				"top_n": 5,
				"exclude_admins": true,
				"excluded_names": "Ana, Ben",
				"window": "specific_month",
				"date": "2025-02"
			}`, true)

			Convey("Then the query reaches the service", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastCred, ShouldEqual, circle.Credential("Bearer tok"))
				So(deps.postQuery.TopN, ShouldEqual, 5)
				So(deps.postQuery.Filter.ExcludeAdmins, ShouldBeTrue)
				So(deps.postQuery.Filter.ExcludedNames, ShouldEqual, "Ana, Ben")
				So(deps.postQuery.Filter.Window.Kind, ShouldEqual, filter.SpecificMonth)
				So(deps.postQuery.Filter.Window.Date.Month().String(), ShouldEqual, "February")
				So(deps.postQuery.Weights, ShouldResemble, scoring.DefaultPostWeights())
			})

			Convey("Then the table keeps its column names and warnings", func() {
				var body struct {
					Rows     []map[string]any `json:"rows"`
					Warnings []model.Warning  `json:"warnings"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.Rows[0]["Worth_Percentage"], ShouldEqual, 100.0)
				So(body.Warnings[0].Code, ShouldEqual, model.WarnInsufficientRows)
			})
		})

		Convey("Then custom weights replace the defaults", func() {
			rec := do(mux, http.MethodPost, "/leaderboard/posts",
				`{"top_n":1,"weights":{"like":3,"comment":0,"basic":0,"image":5}}`, true)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.postQuery.Weights, ShouldResemble, scoring.PostWeights{Like: 3, Image: 5})
		})

		Convey("Then out of range input is 400", func() {
			So(do(mux, http.MethodPost, "/leaderboard/posts", `{"top_n":0}`, true).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/leaderboard/posts", `{"top_n":51}`, true).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/leaderboard/posts", `{"top_n":5,"window":"yesterday"}`, true).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/leaderboard/posts", `{"top_n":5,"window":"specific_month","date":"soon"}`, true).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/leaderboard/people", `{"top_n":5,"amount":1001}`, true).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/leaderboard/people", `{"top_n":5,"amount":-1}`, true).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/leaderboard/people", `{"top_n":5,"amount":10.005}`, true).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then people carry the amount through", func() {
			rec := do(mux, http.MethodPost, "/leaderboard/people", `{"top_n":3,"window":"last_month","amount":250.5}`, true)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.peopleQ.Amount, ShouldEqual, 250.5)
			So(deps.peopleQ.TopN, ShouldEqual, 3)
			So(deps.peopleQ.Filter.Window.Kind, ShouldEqual, filter.LastMonth)
			So(rec.Body.String(), ShouldContainSubstring, `"Rounded_Payment":100`)
		})

		Convey("Then events use the default event weights when none are sent", func() {
			rec := do(mux, http.MethodPost, "/leaderboard/events", `{"top_n":2}`, true)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.eventQuery.Weights, ShouldResemble, scoring.DefaultEventWeights())
			So(rec.Body.String(), ShouldContainSubstring, `"Event_Title":"AMA"`)
		})

		Convey("Then upstream failures are 502", func() {
			deps.err = circle.ErrUpstream
			rec := do(mux, http.MethodPost, "/leaderboard/events", `{"top_n":2}`, true)
			So(rec.Code, ShouldEqual, http.StatusBadGateway)
		})

		Convey("Then an expired credential surfacing from the service is 401", func() {
			deps.err = circle.ErrInvalidCredentials
			rec := do(mux, http.MethodGet, "/stats", "", true)
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
		})
	})
}

func TestReadRoutes(t *testing.T) {
	Convey("Given the API", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("Then /posts passes the limit", func() {
			rec := do(mux, http.MethodGet, "/posts?limit=7", "", true)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.limit, ShouldEqual, 7)
			So(do(mux, http.MethodGet, "/posts?limit=abc", "", true).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then /events/attended defaults to five", func() {
			rec := do(mux, http.MethodGet, "/events/attended", "", true)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.limit, ShouldEqual, 5)
		})

		Convey("Then /stats returns the summary", func() {
			rec := do(mux, http.MethodGet, "/stats", "", true)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"member_count":42`)
		})

		Convey("Then the quick routes dispatch by kind", func() {
			for _, kind := range []string{"posts", "people", "events"} {
				rec := do(mux, http.MethodGet, "/quick/"+kind, "", true)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.quick, ShouldEqual, kind)
			}
			So(do(mux, http.MethodGet, "/quick/unknown", "", true).Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then /healthz serves metrics", func() {
			rec := do(mux, http.MethodGet, "/healthz", "", false)
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then a wrong method is rejected", func() {
			So(do(mux, http.MethodGet, "/leaderboard/posts", "", true).Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}
