package figure_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/podium/internal/domain/figure"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/types"
)

func state(season, gender, year string, medals ...string) filter.State {
	st, err := filter.Parse(season, gender, year, "", medals)
	if err != nil {
		panic(err)
	}
	return st
}

func TestBin(t *testing.T) {
	Convey("Given ages spanning 10 to 97", t, func() {
		ages := []int{10, 11, 24, 24, 25, 97}

		Convey("When binning into at most 50 buckets", func() {
			b := figure.Bin(ages, 50)

			Convey("Then buckets should be two years wide and count every value", func() {
				So(b.Lo, ShouldEqual, 10)
				So(b.Width, ShouldEqual, 2)
				So(len(b.Counts), ShouldBeLessThanOrEqualTo, 50)
				So(b.Total(), ShouldEqual, len(ages))
				So(b.Counts[0], ShouldEqual, 2)
				So(b.Counts[7], ShouldEqual, 3)
				So(b.Labels()[0], ShouldEqual, "10-11")
				So(b.Centers()[0], ShouldEqual, 11.0)
			})

			Convey("And refilling with a subset should keep the same edges", func() {
				sub := b.Fill([]int{24, 97, 5, 200})
				So(sub.Lo, ShouldEqual, b.Lo)
				So(len(sub.Counts), ShouldEqual, len(b.Counts))
				So(sub.Total(), ShouldEqual, 2)
			})
		})

		Convey("When there are fewer distinct years than buckets", func() {
			b := figure.Bin([]int{20, 21, 22}, 50)
			So(b.Width, ShouldEqual, 1)
			So(b.Counts, ShouldResemble, []int{1, 1, 1})
			So(b.Labels(), ShouldResemble, []string{"20", "21", "22"})
		})

		Convey("When there are no ages", func() {
			b := figure.Bin(nil, 50)
			So(b.Counts, ShouldBeEmpty)
			So(b.Total(), ShouldEqual, 0)
		})
	})
}

func TestOptions(t *testing.T) {
	Convey("Given figure options", t, func() {
		Convey("Then the defaults should validate", func() {
			So(figure.DefaultOptions().Validate(), ShouldBeNil)
		})

		Convey("Then bad values should be rejected", func() {
			o := figure.DefaultOptions()
			o.Bins = 0
			So(errors.Is(o.Validate(), figure.ErrInvalidOptions), ShouldBeTrue)

			o = figure.DefaultOptions()
			o.AgeMin, o.AgeMax = 40, 10
			So(errors.Is(o.Validate(), figure.ErrInvalidOptions), ShouldBeTrue)

			o = figure.DefaultOptions()
			o.ColorScale = "rainbow"
			So(errors.Is(o.Validate(), figure.ErrUnknownColorScale), ShouldBeTrue)
		})

		Convey("Then the teal scale should span 0 to 1", func() {
			scale, err := figure.ColorScale("Teal")
			So(err, ShouldBeNil)
			So(scale, ShouldHaveLength, 7)
			So(scale[0][0], ShouldEqual, 0.0)
			So(scale[6][0], ShouldEqual, 1.0)
		})
	})
}

func TestTitles(t *testing.T) {
	Convey("Given dashboard states", t, func() {
		So(figure.MedalTitle(filter.DefaultState()), ShouldEqual,
			"Total Gold, Silver, Bronze Medals per Country over the past 120 years for Both Olympics in All Sports")
		So(figure.MedalTitle(state("Winter", "", "", "Gold")), ShouldEqual,
			"Total Gold Medals per Country over the past 120 years for Winter Olympics in All Sports")
		So(figure.AgeTitle(filter.DefaultState()), ShouldEqual,
			"All Both Olympics ages Distribution for Females & Males Athletes")
		So(figure.AgeTitle(state("Summer", "F", "2000")), ShouldEqual,
			"2000 Summer Olympics ages Distribution for Females Athletes")
		So(figure.GenderLabel(filter.GenderMale), ShouldEqual, "Males")
	})
}

func TestMaps(t *testing.T) {
	Convey("Given filtered medal rows", t, func() {
		rows := []types.MedalRow{
			{NOC: "NOR", TotalGold: 2, TotalBronze: 1, TotalMedals: 3},
			{NOC: "USA", TotalGold: 1, TotalSilver: 1, TotalBronze: 1, TotalMedals: 3},
		}
		st := filter.DefaultState()
		opts := figure.DefaultOptions()

		Convey("When building the geo scatter", func() {
			fig, err := figure.GeoScatter(rows, st, opts)
			So(err, ShouldBeNil)
			trace := fig.Data[0]

			Convey("Then markers should be sized and colored by total medals", func() {
				So(trace["type"], ShouldEqual, "scattergeo")
				So(trace["locationmode"], ShouldEqual, "ISO-3")
				So(trace["locations"], ShouldResemble, []string{"NOR", "USA"})
				marker := trace["marker"].(map[string]any)
				So(marker["size"], ShouldResemble, []int{3, 3})
				So(marker["color"], ShouldResemble, []int{3, 3})
				So(trace["customdata"], ShouldResemble, [][]int{{3, 2, 0, 1}, {3, 1, 1, 1}})
			})

			Convey("Then the layout should use the projection and dark background", func() {
				geo := fig.Layout["geo"].(map[string]any)
				So(geo["projection"], ShouldResemble, map[string]any{"type": "natural earth"})
				So(fig.Layout["paper_bgcolor"], ShouldEqual, "rgb(17,17,17)")
				So(fig.Layout["title"], ShouldResemble, map[string]any{"text": figure.MedalTitle(st)})
			})
		})

		Convey("When building the choropleth", func() {
			fig, err := figure.Choropleth(rows, st, opts)
			So(err, ShouldBeNil)

			Convey("Then countries should be shaded by total medals over the world", func() {
				So(fig.Data[0]["type"], ShouldEqual, "choropleth")
				So(fig.Data[0]["z"], ShouldResemble, []int{3, 3})
				So(fig.Layout["geo"].(map[string]any)["scope"], ShouldEqual, "world")
			})
		})

		Convey("When there are no rows", func() {
			fig, err := figure.GeoScatter(nil, st, opts)

			Convey("Then an empty but valid figure should be returned", func() {
				So(err, ShouldBeNil)
				So(fig.Data[0]["locations"], ShouldResemble, []string{})
				_, err := json.Marshal(fig)
				So(err, ShouldBeNil)
			})
		})

		Convey("When the color scale is unknown", func() {
			opts.ColorScale = "plasma"
			_, err := figure.Choropleth(rows, st, opts)
			So(errors.Is(err, figure.ErrUnknownColorScale), ShouldBeTrue)
		})
	})
}

func TestHistogram(t *testing.T) {
	Convey("Given ages across two years", t, func() {
		ages := []types.AgeRow{
			{Name: "C", Sex: "F", Age: 31, Season: "Winter", Year: 1994},
			{Name: "D", Sex: "M", Age: 19, Season: "Winter", Year: 1994},
			{Name: "A", Sex: "M", Age: 24, Season: "Summer", Year: 2000},
		}
		opts := figure.DefaultOptions()

		Convey("When building the histogram", func() {
			fig := figure.Histogram(ages, filter.DefaultState(), opts)

			Convey("Then there should be one frame per year sharing bucket edges", func() {
				So(fig.Frames, ShouldHaveLength, 2)
				So(fig.Frames[0].Name, ShouldEqual, "1994")
				So(fig.Frames[1].Name, ShouldEqual, "2000")
				x0 := fig.Frames[0].Data[0]["x"]
				x1 := fig.Frames[1].Data[0]["x"]
				So(cmp.Diff(x0, x1), ShouldBeEmpty)
				So(cmp.Diff(fig.Frames[0].Data, fig.Data), ShouldBeEmpty)
			})

			Convey("Then axes should have fixed ranges and titles", func() {
				x := fig.Layout["xaxis"].(map[string]any)
				y := fig.Layout["yaxis"].(map[string]any)
				So(x["range"], ShouldResemble, []int{10, 40})
				So(y["range"], ShouldResemble, []int{0, 1500})
				So(x["title"], ShouldResemble, map[string]any{"text": "Age"})
				So(y["title"], ShouldResemble, map[string]any{"text": "Number of Athletes"})
				So(fig.Layout["sliders"], ShouldNotBeNil)
				So(fig.Layout["updatemenus"], ShouldNotBeNil)
			})
		})

		Convey("When there are no ages", func() {
			fig := figure.Histogram(nil, filter.DefaultState(), opts)

			Convey("Then a single empty trace without animation should be returned", func() {
				So(fig.Frames, ShouldBeEmpty)
				So(fig.Data, ShouldHaveLength, 1)
				So(fig.Layout["sliders"], ShouldBeNil)
			})
		})
	})
}

func TestBuild(t *testing.T) {
	Convey("Given a filter result", t, func() {
		res := filter.Result{
			Geo:  []types.MedalRow{{NOC: "USA", TotalGold: 1, TotalMedals: 1}},
			Map:  []types.MedalRow{{NOC: "USA", TotalGold: 1, TotalMedals: 1}},
			Ages: []types.AgeRow{{Name: "A", Sex: "M", Age: 24, Season: "Summer", Year: 2000}},
		}

		Convey("When building the set", func() {
			set, err := figure.Build(res, filter.DefaultState(), figure.DefaultOptions())

			Convey("Then the three figures should come back in order", func() {
				So(err, ShouldBeNil)
				So(set.Geo.Data[0]["type"], ShouldEqual, "scattergeo")
				So(set.Map.Data[0]["type"], ShouldEqual, "choropleth")
				So(set.Histogram.Data[0]["type"], ShouldEqual, "bar")

				raw, err := json.Marshal(set)
				So(err, ShouldBeNil)
				var decoded map[string]json.RawMessage
				So(json.Unmarshal(raw, &decoded), ShouldBeNil)
				So(decoded, ShouldContainKey, "geo")
				So(decoded, ShouldContainKey, "map")
				So(decoded, ShouldContainKey, "histogram")
			})
		})
	})
}
