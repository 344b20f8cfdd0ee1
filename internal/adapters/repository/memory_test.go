package repository

import (
	"context"
	"testing"

	"github.com/okian/crossdash/internal/domain/model"
	"github.com/okian/crossdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		s := NewMemoryStore()

		So(s.Count(ctx), ShouldEqual, 0)
		So(s.Countries(ctx), ShouldBeEmpty)
		So(s.All(ctx), ShouldBeEmpty)

		Convey("When a dataset is loaded", func() {
			in := []model.Record{
				{UID: "B", Sex: model.SexMale},
				{UID: "A", Sex: model.SexFemale},
				{UID: "B", Sex: model.SexFemale},
				{UID: "", Sex: model.SexMale},
			}
			So(s.Replace(ctx, in), ShouldBeNil)

			Convey("Then records keep their order and countries are distinct and sorted", func() {
				So(s.Count(ctx), ShouldEqual, 4)
				So(s.All(ctx)[0].UID, ShouldEqual, "B")
				So(s.Countries(ctx), ShouldResemble, []string{"A", "B"})
				So(s.HasCountry(ctx, "A"), ShouldBeTrue)
				So(s.HasCountry(ctx, ""), ShouldBeFalse)
			})

			Convey("Then the caller's slice is not shared", func() {
				in[0].UID = "Z"
				So(s.All(ctx)[0].UID, ShouldEqual, "B")
			})

			Convey("Then a returned country list can be modified safely", func() {
				c := s.Countries(ctx)
				c[0] = "Q"
				So(s.Countries(ctx)[0], ShouldEqual, "A")
			})
		})

		Convey("When replacing with nil", func() {
			So(s.Replace(ctx, nil), ShouldEqual, ErrNilRecords)
		})

		Convey("When replacing with an empty dataset", func() {
			So(s.Replace(ctx, []model.Record{}), ShouldBeNil)
			So(s.Count(ctx), ShouldEqual, 0)
		})
	})
}
