// Package render draws static PNG versions of the dashboard charts.
package render

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"slices"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/podium/internal/domain/figure"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/metrics"
)

const (
	ChartAges   = "ages"
	ChartMedals = "medals"
	chartBlank  = "blank"

	barSpacing = 4
)

var (
	background = drawing.ColorFromHex("111111")
	foreground = drawing.ColorFromHex("f2f5fa")
	ageFill    = drawing.ColorFromHex("636efa")
	medalFill  = drawing.ColorFromHex("4f90a6")
)

// AgeHistogramPNG draws the age distribution as a bar chart.
func AgeHistogramPNG(w io.Writer, ages []types.AgeRow, title string, opts ...Option) error {
	o := apply(opts)

	values := make([]int, len(ages))
	for i, a := range ages {
		values[i] = a.Age
	}
	bins := figure.Bin(values, o.bins)
	if bins.Total() == 0 {
		return blank(w, o)
	}

	labels := bins.Labels()
	bars := make([]chart.Value, len(bins.Counts))
	for i, c := range bins.Counts {
		bars[i] = chart.Value{Label: labels[i], Value: float64(c), Style: barStyle(ageFill)}
	}
	return draw(w, ChartAges, title, bars, o)
}

// TopCountriesPNG draws the limit countries with the most medals,
// ties broken by NOC.
func TopCountriesPNG(w io.Writer, rows []types.MedalRow, limit int, title string, opts ...Option) error {
	o := apply(opts)

	top := TopCountries(rows, limit)
	if len(top) == 0 || top[0].TotalMedals == 0 {
		return blank(w, o)
	}

	bars := make([]chart.Value, len(top))
	for i, r := range top {
		bars[i] = chart.Value{Label: r.NOC, Value: float64(r.TotalMedals), Style: barStyle(medalFill)}
	}
	return draw(w, ChartMedals, title, bars, o)
}

// TopCountries sorts a copy of rows by total medals descending and keeps the
// first limit. A non-positive limit keeps all rows.
func TopCountries(rows []types.MedalRow, limit int) []types.MedalRow {
	top := slices.Clone(rows)
	slices.SortStableFunc(top, func(a, b types.MedalRow) int {
		if c := cmp.Compare(b.TotalMedals, a.TotalMedals); c != 0 {
			return c
		}
		return cmp.Compare(a.NOC, b.NOC)
	})
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top
}

func draw(w io.Writer, name, title string, bars []chart.Value, o options) error {
	ch := chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: foreground, FontSize: 11},
		Width:      o.width,
		Height:     o.height,
		BarWidth:   barWidth(o.width, len(bars)),
		BarSpacing: barSpacing,
		Background: chart.Style{
			FillColor: background,
			Padding:   chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 24},
		},
		Canvas: chart.Style{FillColor: background},
		XAxis:  chart.Style{FontColor: foreground, StrokeColor: foreground},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: foreground, StrokeColor: foreground},
			Range: &chart.ContinuousRange{Min: 0, Max: peak(bars) * 1.1},
		},
		Bars: bars,
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", name, err)
	}
	metrics.RecordChartRender(name)
	return nil
}

// peak is positive; callers draw a blank image for all-zero data.
func peak(bars []chart.Value) float64 {
	p := 0.0
	for _, b := range bars {
		p = max(p, b.Value)
	}
	return p
}

func barWidth(width, n int) int {
	if n == 0 {
		return 0
	}
	return max(2, (width-80)/n-barSpacing)
}

func barStyle(fill drawing.Color) chart.Style {
	return chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1}
}

// blank writes a plain dark image for empty data, which go-chart refuses to
// draw.
func blank(w io.Writer, o options) error {
	img := image.NewRGBA(image.Rect(0, 0, o.width, o.height))
	bg := color.RGBA{R: 17, G: 17, B: 17, A: 255}
	for y := 0; y < o.height; y++ {
		for x := 0; x < o.width; x++ {
			img.SetRGBA(x, y, bg)
		}
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode blank chart: %w", err)
	}
	metrics.RecordChartRender(chartBlank)
	return nil
}
