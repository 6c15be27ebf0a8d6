// Package figure turns filtered datasets into Plotly figure documents
// (data, layout and frames) that the dashboard renders as-is.
package figure

import (
	"fmt"
	"strconv"

	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/types"
)

const (
	// plotly_dark template colors
	darkBackground = "rgb(17,17,17)"
	darkFont       = "#f2f5fa"
	darkGrid       = "#283442"
	darkSubunit    = "#506784"

	markerSizeMax  = 20
	frameDuration  = 500
	medalHoverText = "Country=%{location}<br>Total Medals=%{customdata[0]}<br>Gold=%{customdata[1]}" +
		"<br>Silver=%{customdata[2]}<br>Bronze=%{customdata[3]}<extra></extra>"
)

// Figure is one renderable Plotly figure.
type Figure struct {
	Data   []map[string]any `json:"data"`
	Layout map[string]any   `json:"layout"`
	Frames []Frame          `json:"frames,omitempty"`
}

// Frame is one animation step of a Figure.
type Frame struct {
	Name string           `json:"name"`
	Data []map[string]any `json:"data"`
}

// Set is the three dashboard figures in display order.
type Set struct {
	Geo       Figure `json:"geo"`
	Map       Figure `json:"map"`
	Histogram Figure `json:"histogram"`
}

// Build constructs all three figures for one interaction.
func Build(res filter.Result, st filter.State, opts Options) (Set, error) {
	geo, err := GeoScatter(res.Geo, st, opts)
	if err != nil {
		return Set{}, err
	}
	choropleth, err := Choropleth(res.Map, st, opts)
	if err != nil {
		return Set{}, err
	}
	return Set{
		Geo:       geo,
		Map:       choropleth,
		Histogram: Histogram(res.Ages, st, opts),
	}, nil
}

// MedalTitle is the title shared by both maps.
func MedalTitle(st filter.State) string {
	return fmt.Sprintf("Total %s Medals per Country over the past 120 years for %s Olympics in All Sports",
		st.MedalLabel(), seasonLabel(st))
}

// AgeTitle is the histogram title.
func AgeTitle(st filter.State) string {
	return fmt.Sprintf("%s %s Olympics ages Distribution for %s Athletes",
		st.YearLabel(), seasonLabel(st), GenderLabel(st.Gender))
}

// GenderLabel names the athletes shown for a gender choice.
func GenderLabel(g filter.GenderChoice) string {
	switch g {
	case filter.GenderFemale:
		return "Females"
	case filter.GenderMale:
		return "Males"
	}
	return "Females & Males"
}

func seasonLabel(st filter.State) string {
	if st.Season == "" {
		return string(filter.SeasonBoth)
	}
	return string(st.Season)
}

type medalColumns struct {
	locations  []string
	totals     []int
	customdata [][]int
	max        int
}

func columns(rows []types.MedalRow) medalColumns {
	c := medalColumns{
		locations:  make([]string, len(rows)),
		totals:     make([]int, len(rows)),
		customdata: make([][]int, len(rows)),
	}
	for i, r := range rows {
		c.locations[i] = r.NOC
		c.totals[i] = r.TotalMedals
		c.customdata[i] = []int{r.TotalMedals, r.TotalGold, r.TotalSilver, r.TotalBronze}
		c.max = max(c.max, r.TotalMedals)
	}
	return c
}

// GeoScatter sizes and colors one marker per country by total medals.
func GeoScatter(rows []types.MedalRow, st filter.State, opts Options) (Figure, error) {
	scale, err := ColorScale(opts.ColorScale)
	if err != nil {
		return Figure{}, err
	}
	c := columns(rows)

	// area sizing with the largest marker at markerSizeMax px
	sizeref := 1.0
	if c.max > 0 {
		sizeref = 2.0 * float64(c.max) / (markerSizeMax * markerSizeMax)
	}

	trace := map[string]any{
		"type":          "scattergeo",
		"locationmode":  "ISO-3",
		"locations":     c.locations,
		"customdata":    c.customdata,
		"hovertemplate": medalHoverText,
		"marker": map[string]any{
			"size":       c.totals,
			"sizemode":   "area",
			"sizeref":    sizeref,
			"sizemin":    1,
			"color":      c.totals,
			"colorscale": scale,
			"showscale":  true,
			"colorbar":   colorbar("Total Medals"),
		},
	}

	layout := darkLayout(MedalTitle(st))
	layout["geo"] = geoLayout(opts.Projection, false)
	return Figure{Data: []map[string]any{trace}, Layout: layout}, nil
}

// Choropleth shades each country by total medals.
func Choropleth(rows []types.MedalRow, st filter.State, opts Options) (Figure, error) {
	scale, err := ColorScale(opts.ColorScale)
	if err != nil {
		return Figure{}, err
	}
	c := columns(rows)

	trace := map[string]any{
		"type":          "choropleth",
		"locationmode":  "ISO-3",
		"locations":     c.locations,
		"z":             c.totals,
		"customdata":    c.customdata,
		"hovertemplate": medalHoverText,
		"colorscale":    scale,
		"colorbar":      colorbar("Total Medals"),
		"marker":        map[string]any{"line": map[string]any{"color": darkSubunit, "width": 0.5}},
	}

	layout := darkLayout(MedalTitle(st))
	layout["geo"] = geoLayout(opts.Projection, true)
	return Figure{Data: []map[string]any{trace}, Layout: layout}, nil
}

// Histogram is the age distribution animated by year: one frame per year
// present in ages, all frames sharing the same buckets and fixed axes.
func Histogram(ages []types.AgeRow, st filter.State, opts Options) Figure {
	all := make([]int, len(ages))
	byYear := make(map[int][]int)
	years := make([]int, 0)
	for i, a := range ages {
		all[i] = a.Age
		if _, ok := byYear[a.Year]; !ok {
			years = append(years, a.Year)
		}
		byYear[a.Year] = append(byYear[a.Year], a.Age)
	}

	bins := Bin(all, opts.Bins)

	layout := darkLayout(AgeTitle(st))
	layout["bargap"] = 0
	layout["xaxis"] = axis("Age", opts.AgeMin, opts.AgeMax)
	layout["yaxis"] = axis("Number of Athletes", 0, opts.CountMax)

	if len(years) == 0 {
		return Figure{Data: []map[string]any{barTrace(bins, "")}, Layout: layout}
	}

	frames := make([]Frame, len(years))
	steps := make([]map[string]any, len(years))
	for i, y := range years {
		name := strconv.Itoa(y)
		frames[i] = Frame{Name: name, Data: []map[string]any{barTrace(bins.Fill(byYear[y]), name)}}
		steps[i] = map[string]any{
			"label":  name,
			"method": "animate",
			"args":   []any{[]string{name}, animation(0)},
		}
	}

	layout["sliders"] = []map[string]any{{
		"active":       0,
		"currentvalue": map[string]any{"prefix": "Year="},
		"len":          0.9,
		"x":            0.1,
		"pad":          map[string]any{"b": 10, "t": 60},
		"steps":        steps,
	}}
	layout["updatemenus"] = []map[string]any{{
		"type":       "buttons",
		"direction":  "left",
		"showactive": false,
		"x":          0.1,
		"xanchor":    "right",
		"y":          0,
		"yanchor":    "top",
		"pad":        map[string]any{"r": 10, "t": 70},
		"buttons": []map[string]any{
			{"label": "&#9654;", "method": "animate", "args": []any{nil, animation(frameDuration)}},
			{"label": "&#9724;", "method": "animate", "args": []any{[]any{nil}, animation(0)}},
		},
	}}

	return Figure{Data: frames[0].Data, Layout: layout, Frames: frames}
}

func barTrace(b Bins, name string) map[string]any {
	trace := map[string]any{
		"type":          "bar",
		"x":             b.Centers(),
		"y":             b.Counts,
		"width":         b.Width,
		"hovertemplate": "Age=%{x}<br>count=%{y}<extra></extra>",
		"marker":        map[string]any{"color": "#636efa"},
	}
	if name != "" {
		trace["name"] = name
	}
	return trace
}

func animation(duration int) map[string]any {
	return map[string]any{
		"mode":        "immediate",
		"fromcurrent": true,
		"frame":       map[string]any{"duration": duration, "redraw": false},
		"transition":  map[string]any{"duration": duration / 2},
	}
}

func darkLayout(title string) map[string]any {
	return map[string]any{
		"title":         map[string]any{"text": title},
		"paper_bgcolor": darkBackground,
		"plot_bgcolor":  darkBackground,
		"font":          map[string]any{"color": darkFont},
	}
}

func axis(title string, lo, hi int) map[string]any {
	return map[string]any{
		"title":     map[string]any{"text": title},
		"range":     []int{lo, hi},
		"gridcolor": darkGrid,
		"zeroline":  false,
	}
}

func geoLayout(projection string, world bool) map[string]any {
	geo := map[string]any{
		"projection":   map[string]any{"type": projection},
		"bgcolor":      darkBackground,
		"showland":     true,
		"landcolor":    darkBackground,
		"showlakes":    true,
		"lakecolor":    darkBackground,
		"subunitcolor": darkSubunit,
	}
	if world {
		geo["scope"] = "world"
	}
	return geo
}

func colorbar(title string) map[string]any {
	return map[string]any{"title": map[string]any{"text": title}}
}
