package model_test

import (
	"testing"
	"time"

	"github.com/okian/worthboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPostKind(t *testing.T) {
	Convey("Given raw post types", t, func() {
		Convey("Then known types map to their kind", func() {
			So(model.ParsePostKind("basic"), ShouldEqual, model.KindBasic)
			So(model.ParsePostKind(" Image "), ShouldEqual, model.KindImage)
		})

		Convey("Then anything else is unknown", func() {
			So(model.ParsePostKind(""), ShouldEqual, model.KindUnknown)
			So(model.ParsePostKind("poll"), ShouldEqual, model.KindUnknown)
			So(model.ParsePostKind("event"), ShouldEqual, model.KindUnknown)
		})

		Convey("Then kinds print as their wire names", func() {
			So(model.KindBasic.String(), ShouldEqual, "basic")
			So(model.KindImage.String(), ShouldEqual, "image")
			So(model.KindUnknown.String(), ShouldEqual, "unknown")
		})
	})
}

func TestRows(t *testing.T) {
	Convey("Given a post and an event", t, func() {
		at := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
		p := model.Post{Author: "Ana", AuthorRoles: []string{"admin"}, CreatedAt: at}
		e := model.Event{Author: "Ben", AuthorRoles: []string{"moderator"}, Date: at}

		Convey("Then both expose author, roles and date", func() {
			So(p.AuthorName(), ShouldEqual, "Ana")
			So(p.Roles(), ShouldResemble, []string{"admin"})
			So(p.When(), ShouldEqual, at)
			So(e.AuthorName(), ShouldEqual, "Ben")
			So(e.Roles(), ShouldResemble, []string{"moderator"})
			So(e.When(), ShouldEqual, at)
		})

		Convey("Then a zero timestamp means no date", func() {
			So(p.HasDate(), ShouldBeTrue)
			So(model.Post{}.HasDate(), ShouldBeFalse)
			So(model.Event{}.HasDate(), ShouldBeFalse)
		})
	})
}

func TestWarnings(t *testing.T) {
	Convey("Warnings carry a code and a readable message", t, func() {
		w := model.InsufficientRows("posts", 2, 5)
		So(w.Code, ShouldEqual, model.WarnInsufficientRows)
		So(w.Message, ShouldContainSubstring, "only 2 posts")
		So(w.Message, ShouldContainSubstring, "5 requested")

		f := model.FutureDate("2031-01")
		So(f.Code, ShouldEqual, model.WarnFutureDate)
		So(f.Message, ShouldContainSubstring, "2031-01")
	})
}
