package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/okian/crossdash/internal/domain/aggregate"
	"github.com/okian/crossdash/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestHistogramPNG(t *testing.T) {
	Convey("Given suicides bins", t, func() {
		bins := aggregate.Histogram([]float64{50, 200, 10000}, 0, aggregate.SuicidesDomainMax, aggregate.SuicidesBins)

		Convey("When exported", func() {
			var buf bytes.Buffer
			err := Histogram(&buf, "suicides", bins, WithSize(640, 360))

			Convey("Then a PNG is written", func() {
				So(err, ShouldBeNil)
				So(bytes.HasPrefix(buf.Bytes(), pngMagic), ShouldBeTrue)
			})
		})

		Convey("When every bin is empty the chart still renders", func() {
			var buf bytes.Buffer
			err := Histogram(&buf, "empty", aggregate.Histogram(nil, 0, 10000, 18))
			So(err, ShouldBeNil)
			So(bytes.HasPrefix(buf.Bytes(), pngMagic), ShouldBeTrue)
		})

		Convey("When there are no bins", func() {
			err := Histogram(&bytes.Buffer{}, "none", nil)
			So(errors.Is(err, ErrEmptyChart), ShouldBeTrue)
		})
	})
}

func TestPiePNG(t *testing.T) {
	Convey("Given sex slices", t, func() {
		slices := aggregate.SexBreakdown([]model.Record{
			{Sex: model.SexFemale}, {Sex: model.SexMale}, {Sex: model.SexMale},
		})

		Convey("When exported", func() {
			var buf bytes.Buffer
			err := Pie(&buf, "sex", slices, WithPalette([]string{"#8dd3c7", "#ffffb3"}))
			So(err, ShouldBeNil)
			So(bytes.HasPrefix(buf.Bytes(), pngMagic), ShouldBeTrue)
		})

		Convey("When every slice is empty", func() {
			err := Pie(&bytes.Buffer{}, "sex", aggregate.SexBreakdown(nil))
			So(errors.Is(err, ErrEmptyChart), ShouldBeTrue)
		})
	})
}
