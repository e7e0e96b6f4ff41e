package stats_test

import (
	"testing"
	"time"

	"github.com/okian/worthboard/internal/domain/model"
	"github.com/okian/worthboard/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func at(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 9, 0, 0, 0, time.UTC) }

func fixture() []model.Post {
	return []model.Post{
		{Author: "Ana", Space: "General", RawType: "basic", CreatedAt: at(2025, time.March, 1), Likes: 4, Comments: 2},
		{Author: "Ben", Space: "Wins", RawType: "image", CreatedAt: at(2025, time.March, 1), Likes: 2},
		{Author: "Ben", Space: "General", RawType: "basic", CreatedAt: at(2025, time.March, 3), Likes: 0, Comments: 4},
		{Author: "Cy", Space: "General", RawType: "basic", CreatedAt: at(2025, time.February, 10), Likes: 1},
		{Author: "Ana", Space: "Wins", RawType: "poll"},
	}
}

func TestCounts(t *testing.T) {
	Convey("Given posts by several authors", t, func() {
		posts := fixture()

		Convey("Then authors are counted most prolific first, ties first seen", func() {
			counts := stats.CountByAuthor(posts)
			So(counts, ShouldResemble, []stats.Count{{Label: "Ana", Count: 2}, {Label: "Ben", Count: 2}, {Label: "Cy", Count: 1}})
		})

		Convey("Then the top poster is the first of the tie", func() {
			author, n, ok := stats.TopPoster(posts)
			So(ok, ShouldBeTrue)
			So(author, ShouldEqual, "Ana")
			So(n, ShouldEqual, 2)
		})

		Convey("Then spaces are counted", func() {
			So(stats.CountBySpace(posts), ShouldResemble, []stats.Count{{Label: "General", Count: 3}, {Label: "Wins", Count: 2}})
		})

		Convey("Then kinds carry counts and percentages", func() {
			kinds := stats.KindBreakdown(posts)
			So(len(kinds), ShouldEqual, 3)
			So(kinds[0].Kind, ShouldEqual, "basic")
			So(kinds[0].Count, ShouldEqual, 3)
			So(kinds[0].Percentage, ShouldAlmostEqual, 60, 1e-9)
		})
	})

	Convey("An empty input has no top poster", t, func() {
		_, _, ok := stats.TopPoster(nil)
		So(ok, ShouldBeFalse)
		So(stats.KindBreakdown(nil), ShouldBeEmpty)
	})
}

func TestMonthlyDailyAverages(t *testing.T) {
	Convey("Given posts over two months", t, func() {
		avgs := stats.MonthlyDailyAverages(fixture())

		Convey("Then months are oldest first and undated posts are skipped", func() {
			So(len(avgs), ShouldEqual, 2)
			So(avgs[0].Month, ShouldEqual, "2025-02")
			So(avgs[1].Month, ShouldEqual, "2025-03")
		})

		Convey("Then totals are divided by active days only", func() {
			mar := avgs[1]
			So(mar.ActiveDays, ShouldEqual, 2)
			So(mar.Posts, ShouldEqual, 3)
			So(mar.PostsPerDay, ShouldEqual, 1.5)
			So(mar.LikesPerDay, ShouldEqual, 3)
			So(mar.CommentsPerDay, ShouldEqual, 3)
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given posts, events and a member count", t, func() {
		events := []model.Event{{Title: "AMA"}, {Title: "Office hours"}}
		sum := stats.Summarize(fixture(), events, 120)

		So(sum.TotalPosts, ShouldEqual, 5)
		So(sum.TotalEvents, ShouldEqual, 2)
		So(sum.TopPoster, ShouldEqual, "Ana")
		So(sum.TopPosterPosts, ShouldEqual, 2)
		So(sum.ActivePosters, ShouldEqual, 3)
		So(sum.MemberCount, ShouldEqual, 120)
		So(len(sum.MonthlyAverages), ShouldEqual, 2)
	})
}
