package types

import (
	"testing"

	"github.com/okian/crossdash/internal/domain/aggregate"
	"github.com/okian/crossdash/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewAggregates(t *testing.T) {
	Convey("Given a computed result", t, func() {
		records := []model.Record{
			{UID: "A", Sex: model.SexFemale, Suicides: 50, Population: 1000},
			{UID: "A", Sex: model.SexMale, Suicides: 200, Population: 2000},
			{UID: "B", Sex: model.SexMale, Suicides: 10000, Population: 500},
		}
		agg := NewAggregates(aggregate.Compute(records))

		Convey("Then slices become counts in female, male order", func() {
			So(agg.Sex, ShouldResemble, []SliceCount{{Key: "female", Count: 1}, {Key: "male", Count: 2}})
			So(agg.Suicides, ShouldHaveLength, aggregate.SuicidesBins)
			So(agg.Population, ShouldHaveLength, 3)
		})
	})
}
