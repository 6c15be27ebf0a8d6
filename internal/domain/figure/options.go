package figure

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for figure options.
var (
	ErrUnknownColorScale = errors.New("unknown color scale")
	ErrInvalidOptions    = errors.New("invalid figure options")
)

// Options tunes chart construction. The zero value is not usable; start
// from DefaultOptions.
type Options struct {
	Bins       int
	AgeMin     int
	AgeMax     int
	CountMax   int
	ColorScale string
	Projection string
}

// DefaultOptions mirrors the dashboard's fixed chart settings.
func DefaultOptions() Options {
	return Options{
		Bins:       50,
		AgeMin:     10,
		AgeMax:     40,
		CountMax:   1500,
		ColorScale: "teal",
		Projection: "natural earth",
	}
}

// Validate checks ranges and resolves the color scale name.
func (o Options) Validate() error {
	if o.Bins < 1 {
		return fmt.Errorf("%w: bins must be positive, got %d", ErrInvalidOptions, o.Bins)
	}
	if o.AgeMin >= o.AgeMax {
		return fmt.Errorf("%w: age range [%d,%d] is empty", ErrInvalidOptions, o.AgeMin, o.AgeMax)
	}
	if o.CountMax < 1 {
		return fmt.Errorf("%w: count range max must be positive, got %d", ErrInvalidOptions, o.CountMax)
	}
	if strings.TrimSpace(o.Projection) == "" {
		return fmt.Errorf("%w: projection must not be empty", ErrInvalidOptions)
	}
	_, err := ColorScale(o.ColorScale)
	return err
}

var colorScales = map[string][]string{
	"teal": {
		"rgb(209, 238, 234)", "rgb(168, 219, 217)", "rgb(133, 196, 201)", "rgb(104, 171, 184)",
		"rgb(79, 144, 166)", "rgb(59, 115, 143)", "rgb(42, 86, 116)",
	},
	"viridis": {
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
	},
	"blues": {
		"rgb(247,251,255)", "rgb(222,235,247)", "rgb(198,219,239)", "rgb(158,202,225)", "rgb(107,174,214)",
		"rgb(66,146,198)", "rgb(33,113,181)", "rgb(8,81,156)", "rgb(8,48,107)",
	},
}

// ColorScale returns a continuous Plotly colorscale as [position, color]
// pairs with evenly spaced stops.
func ColorScale(name string) ([][]any, error) {
	colors, ok := colorScales[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColorScale, name)
	}
	scale := make([][]any, len(colors))
	last := float64(len(colors) - 1)
	for i, c := range colors {
		scale[i] = []any{float64(i) / last, c}
	}
	return scale, nil
}
