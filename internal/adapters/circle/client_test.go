package circle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type fakePlatform struct {
	mu       sync.Mutex
	pages    map[string][]string // path -> page bodies, 1-indexed by position
	requests []string
	authCode int
}

func (f *fakePlatform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.RequestURI())
	f.mu.Unlock()

	if r.URL.Path == authPath {
		if f.authCode != http.StatusOK {
			w.WriteHeader(f.authCode)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.Header.Get("Authorization") != "Bearer pre" || body["email"] != "a@b.c" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok"}`))
		return
	}
	if r.Header.Get("Authorization") != "Bearer tok" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	bodies, ok := f.pages[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	n := 1
	if p := r.URL.Query().Get("page"); p != "" {
		_, _ = fmt.Sscanf(p, "%d", &n)
	}
	if n > len(bodies) {
		_, _ = w.Write([]byte(`{"records":[],"has_next_page":false}`))
		return
	}
	_, _ = w.Write([]byte(bodies[n-1]))
}

func (f *fakePlatform) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if len(r) >= len(prefix) && r[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func newTestClient(f *fakePlatform) (*Client, func()) {
	srv := httptest.NewServer(f)
	return New(WithBaseURL(srv.URL), WithPageDelay(0)), srv.Close
}

func TestAuthenticate(t *testing.T) {
	Convey("Given a platform that accepts one token/email pair", t, func() {
		f := &fakePlatform{authCode: http.StatusOK}
		c, done := newTestClient(f)
		defer done()
		ctx := context.Background()

		Convey("Then the right pair yields a bearer credential", func() {
			cred, err := c.Authenticate(ctx, "pre", "a@b.c")
			So(err, ShouldBeNil)
			So(string(cred), ShouldEqual, "Bearer tok")
			So(cred.Valid(), ShouldBeTrue)
		})

		Convey("Then a rejected pair yields ErrInvalidCredentials", func() {
			_, err := c.Authenticate(ctx, "pre", "x@y.z")
			So(errors.Is(err, ErrInvalidCredentials), ShouldBeTrue)
		})

		Convey("Then blank input is rejected without a request", func() {
			_, err := c.Authenticate(ctx, "", "a@b.c")
			So(errors.Is(err, ErrInvalidCredentials), ShouldBeTrue)
			So(f.count(authPath), ShouldEqual, 0)
		})

		Convey("Then a server error on auth is still an invalid credential", func() {
			f.authCode = http.StatusInternalServerError
			_, err := c.Authenticate(ctx, "pre", "a@b.c")
			So(errors.Is(err, ErrInvalidCredentials), ShouldBeTrue)
		})
	})

	Convey("Credential validity", t, func() {
		So(Credential("").Valid(), ShouldBeFalse)
		So(Credential("Bearer ").Valid(), ShouldBeFalse)
		So(Credential("tok").Valid(), ShouldBeFalse)
		So(Credential("Bearer x").Valid(), ShouldBeTrue)
	})
}

func TestPagination(t *testing.T) {
	Convey("Given a space with two pages of posts", t, func() {
		path := headlessAPI + "/spaces/7/posts"
		f := &fakePlatform{
			authCode: http.StatusOK,
			pages: map[string][]string{
				path: {
					`{"records":[{"id":1,"display_title":"a"},{"id":2,"display_title":"b"}],"has_next_page":true}`,
					`{"records":[{"id":3,"display_title":"c"}],"has_next_page":false}`,
				},
			},
		}
		c, done := newTestClient(f)
		defer done()

		Convey("When the posts are pulled", func() {
			recs, err := c.SpacePosts(context.Background(), "Bearer tok", 7)

			Convey("Then every page is concatenated in order", func() {
				So(err, ShouldBeNil)
				So(len(recs), ShouldEqual, 3)
				So(recs[0].DisplayTitle, ShouldEqual, "a")
				So(recs[2].DisplayTitle, ShouldEqual, "c")
			})

			Convey("Then no page past has_next_page=false is requested", func() {
				So(f.count(path), ShouldEqual, 2)
			})
		})
	})

	Convey("Given events whose last page is empty", t, func() {
		path := headlessAPI + "/community_events"
		f := &fakePlatform{
			authCode: http.StatusOK,
			pages: map[string][]string{
				path: {
					`{"records":[{"id":1,"name":"e1","event_attendees":{"count":4}}],"has_next_page":true}`,
				},
			},
		}
		c, done := newTestClient(f)
		defer done()

		recs, err := c.Events(context.Background(), "Bearer tok")
		So(err, ShouldBeNil)
		So(len(recs), ShouldEqual, 1)
		So(recs[0].EventAttendees.Count, ShouldEqual, 4)
		So(f.count(path), ShouldEqual, 2)
	})

	Convey("Given an invalid credential", t, func() {
		f := &fakePlatform{authCode: http.StatusOK}
		c, done := newTestClient(f)
		defer done()

		_, err := c.Events(context.Background(), "")
		So(errors.Is(err, ErrInvalidCredentials), ShouldBeTrue)
		So(len(f.requests), ShouldEqual, 0)
	})
}

func TestSpacesAndMembers(t *testing.T) {
	Convey("Given a platform with spaces and members", t, func() {
		f := &fakePlatform{
			authCode: http.StatusOK,
			pages: map[string][]string{
				headlessAPI + "/spaces":            {`[{"id":1,"name":"General"},{"id":2,"name":"Wins"}]`},
				headlessAPI + "/community_members": {`{"count":42,"records":[]}`},
			},
		}
		c, done := newTestClient(f)
		defer done()
		ctx := context.Background()

		Convey("Then spaces keep listing order", func() {
			spaces, err := c.Spaces(ctx, "Bearer tok")
			So(err, ShouldBeNil)
			So(len(spaces), ShouldEqual, 2)
			So(spaces[0].Name, ShouldEqual, "General")
			So(spaces[1].ID, ShouldEqual, 2)
		})

		Convey("Then the member count is read from count", func() {
			n, err := c.MemberCount(ctx, "Bearer tok")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 42)
		})

		Convey("Then an unknown path surfaces as ErrUpstream", func() {
			_, err := c.SpacePosts(ctx, "Bearer tok", 99)
			So(errors.Is(err, ErrUpstream), ShouldBeTrue)
			var se *StatusError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Status, ShouldEqual, http.StatusNotFound)
		})
	})
}
