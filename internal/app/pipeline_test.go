package service_test

import (
	"context"
	"testing"
	"time"

	service "github.com/okian/worthboard/internal/app"
	"github.com/okian/worthboard/internal/domain/filter"
	"github.com/okian/worthboard/internal/domain/model"
	"github.com/okian/worthboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func pipelinePosts() []model.Post {
	at := func(day int) time.Time { return time.Date(2025, time.March, day, 9, 0, 0, 0, time.UTC) }
	return []model.Post{
		{Title: "a", Author: "Ana", Kind: model.KindImage, RawType: "image", CreatedAt: at(3), Likes: 4, Comments: 1},
		{Title: "b", Author: "Ben", Kind: model.KindBasic, RawType: "basic", CreatedAt: at(5), Likes: 6, Comments: 2},
		{Title: "c", Author: "Cy", AuthorRoles: []string{"moderator"}, Kind: model.KindBasic, CreatedAt: at(7), Likes: 9},
		{Title: "d", Author: "Dee", Kind: model.KindImage, CreatedAt: at(9), Likes: 4, Comments: 1},
		{Title: "e", Author: "Ana", Kind: model.KindUnknown, RawType: "poll", CreatedAt: at(11), Likes: 3},
		{Title: "f", Author: "Eve", Kind: model.KindBasic, Likes: 5},
		{Title: "g", Author: "Ben", Kind: model.KindBasic, CreatedAt: at(12), Likes: 1, Comments: 1},
	}
}

func clonePosts(in []model.Post) []model.Post {
	out := make([]model.Post, len(in))
	for i, p := range in {
		if p.AuthorRoles != nil {
			p.AuthorRoles = append(make([]string, 0, len(p.AuthorRoles)), p.AuthorRoles...)
		}
		out[i] = p
	}
	return out
}

func TestPipelineRepeatable(t *testing.T) {
	Convey("Given a fixed set of posts with tied worths", t, func() {
		now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
		posts := pipelinePosts()
		before := clonePosts(posts)
		q := service.PostQuery{
			TopN:    4,
			Filter:  filter.Options{ExcludeModerators: true, Window: filter.Window{Kind: filter.ThisMonth}},
			Weights: scoring.DefaultPostWeights(),
		}

		Convey("When posts are ranked twice", func() {
			first, w1, err1 := service.RankPosts(posts, q, now)
			second, w2, err2 := service.RankPosts(posts, q, now)

			Convey("Then both runs agree and the input is untouched", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(len(first), ShouldEqual, 4)
				So(second, ShouldResemble, first)
				So(w2, ShouldResemble, w1)
				So(posts, ShouldResemble, before)
			})
		})

		Convey("When people are ranked and paid twice", func() {
			pq := service.PeopleQuery{PostQuery: q, Amount: 100.01}
			people1, pay1, w1, err1 := service.RankPeople(posts, pq, now)
			people2, pay2, w2, err2 := service.RankPeople(posts, pq, now)

			Convey("Then people, payouts and warnings are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(pay1, ShouldNotBeEmpty)
				So(people2, ShouldResemble, people1)
				So(pay2, ShouldResemble, pay1)
				So(w2, ShouldResemble, w1)
			})

			Convey("Then the payouts sum to the amount in cents", func() {
				var cents int64
				for _, p := range pay1 {
					cents += int64(p.RoundedPayment*100 + 0.5)
				}
				So(cents, ShouldEqual, 10001)
			})

			Convey("Then the input is untouched", func() {
				So(posts, ShouldResemble, before)
			})
		})
	})
}

func TestServiceCachedPostsUnchanged(t *testing.T) {
	Convey("Given a service whose posts are already cached", t, func() {
		src := newFixture()
		svc := newService(src)
		ctx := context.Background()

		cached, err := svc.Posts(ctx, goodCred)
		So(err, ShouldBeNil)
		before := clonePosts(cached)

		Convey("When several leaderboards run over the cached posts", func() {
			pq := service.PeopleQuery{
				PostQuery: service.PostQuery{
					TopN:    3,
					Filter:  filter.Options{ExcludeAdmins: true},
					Weights: scoring.DefaultPostWeights(),
				},
				Amount: 50,
			}
			people1, err := svc.TopPeople(ctx, goodCred, pq)
			So(err, ShouldBeNil)
			_, err = svc.TopPosts(ctx, goodCred, pq.PostQuery)
			So(err, ShouldBeNil)
			_, err = svc.QuickPosts(ctx, goodCred)
			So(err, ShouldBeNil)
			people2, err := svc.TopPeople(ctx, goodCred, pq)
			So(err, ShouldBeNil)

			Convey("Then the cached posts are unchanged", func() {
				again, err := svc.Posts(ctx, goodCred)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, before)
				So(src.count("spaces"), ShouldEqual, 1)
			})

			Convey("Then the repeated people leaderboard is identical", func() {
				So(people2, ShouldResemble, people1)
			})
		})
	})
}
