package filter

import (
	"testing"

	"github.com/okian/crossdash/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sample() []model.Record {
	return []model.Record{
		{UID: "A", Sex: model.SexMale, Suicides: 50, Population: 1000},
		{UID: "A", Sex: model.SexFemale, Suicides: 200, Population: 2000},
		{UID: "B", Sex: model.SexMale, Suicides: 9999, Population: 500},
		{UID: "C", Sex: model.SexFemale, Suicides: 3, Population: 10},
	}
}

func TestApply(t *testing.T) {
	Convey("Given a record set", t, func() {
		records := sample()

		Convey("When no field is set", func() {
			out := Apply(records, model.FilterState{})

			Convey("Then every record is returned in order", func() {
				So(out, ShouldResemble, records)
			})

			Convey("And the result does not alias the input", func() {
				out[0].UID = "Z"
				So(records[0].UID, ShouldEqual, "A")
			})
		})

		Convey("When filtering by country", func() {
			out := Apply(records, model.FilterState{Country: "A"})
			So(len(out), ShouldEqual, 2)
			So(out[0].Sex, ShouldEqual, model.SexMale)
			So(out[1].Sex, ShouldEqual, model.SexFemale)
		})

		Convey("When filtering by sex", func() {
			out := Apply(records, model.FilterState{SelectedSex: model.SexFemale})
			So(len(out), ShouldEqual, 2)
			So(out[0].UID, ShouldEqual, "A")
			So(out[1].UID, ShouldEqual, "C")
		})

		Convey("When filtering by both", func() {
			out := Apply(records, model.FilterState{Country: "B", SelectedSex: model.SexFemale})
			So(out, ShouldBeEmpty)
		})

		Convey("When applying the same state twice", func() {
			states := []model.FilterState{
				{},
				{Country: "A"},
				{SelectedSex: model.SexMale},
				{Country: "A", SelectedSex: model.SexFemale},
				{Country: "missing"},
			}
			for _, s := range states {
				once := Apply(records, s)
				So(Apply(once, s), ShouldResemble, once)
			}
		})

		Convey("When the input is empty", func() {
			So(Apply(nil, model.FilterState{Country: "A"}), ShouldBeEmpty)
		})
	})
}
