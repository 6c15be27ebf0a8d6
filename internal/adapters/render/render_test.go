package render_test

import (
	"bytes"
	"image/png"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/podium/internal/adapters/render"
	"github.com/okian/podium/internal/domain/types"
)

func TestAgeHistogramPNG(t *testing.T) {
	Convey("Given athlete ages", t, func() {
		ages := []types.AgeRow{
			{Name: "A", Sex: "M", Age: 24, Season: "Summer", Year: 2000},
			{Name: "B", Sex: "F", Age: 25, Season: "Summer", Year: 2000},
			{Name: "C", Sex: "F", Age: 31, Season: "Winter", Year: 1994},
		}

		Convey("When rendering", func() {
			var buf bytes.Buffer
			err := render.AgeHistogramPNG(&buf, ages, "ages", render.WithSize(400, 300))

			Convey("Then a PNG of the requested size should be written", func() {
				So(err, ShouldBeNil)
				img, err := png.Decode(&buf)
				So(err, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldEqual, 400)
				So(img.Bounds().Dy(), ShouldEqual, 300)
			})
		})

		Convey("When there is a single age", func() {
			var buf bytes.Buffer
			err := render.AgeHistogramPNG(&buf, ages[:1], "one", render.WithSize(400, 300))
			So(err, ShouldBeNil)
			_, err = png.Decode(&buf)
			So(err, ShouldBeNil)
		})

		Convey("When there are no ages", func() {
			var buf bytes.Buffer
			err := render.AgeHistogramPNG(&buf, nil, "empty", render.WithSize(120, 80))

			Convey("Then a blank image should be written instead of an error", func() {
				So(err, ShouldBeNil)
				img, err := png.Decode(&buf)
				So(err, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldEqual, 120)
			})
		})
	})
}

func TestTopCountries(t *testing.T) {
	Convey("Given medal rows", t, func() {
		rows := []types.MedalRow{
			{NOC: "AFG", TotalMedals: 0},
			{NOC: "USA", TotalGold: 3, TotalMedals: 3},
			{NOC: "NOR", TotalGold: 3, TotalMedals: 3},
			{NOC: "CHN", TotalSilver: 5, TotalMedals: 5},
		}

		Convey("When selecting the top two", func() {
			top := render.TopCountries(rows, 2)

			Convey("Then they should be ordered by medals then NOC", func() {
				So(top, ShouldHaveLength, 2)
				So(top[0].NOC, ShouldEqual, "CHN")
				So(top[1].NOC, ShouldEqual, "NOR")
				So(rows[0].NOC, ShouldEqual, "AFG")
			})
		})

		Convey("When rendering", func() {
			var buf bytes.Buffer
			err := render.TopCountriesPNG(&buf, rows, 3, "top", render.WithSize(320, 240))
			So(err, ShouldBeNil)
			img, err := png.Decode(&buf)
			So(err, ShouldBeNil)
			So(img.Bounds().Dy(), ShouldEqual, 240)
		})

		Convey("When every country has zero medals", func() {
			var buf bytes.Buffer
			err := render.TopCountriesPNG(&buf, rows[:1], 10, "none", render.WithSize(50, 50))
			So(err, ShouldBeNil)
			_, err = png.Decode(&buf)
			So(err, ShouldBeNil)
		})
	})
}
