package figure

import (
	"fmt"
	"slices"
)

// Bins is an equal-width integer histogram. Bucket i covers
// [Lo+i*Width, Lo+(i+1)*Width).
type Bins struct {
	Lo     int
	Width  int
	Counts []int
}

// Bin sizes at most nbins buckets of a whole-number width over the range of
// values and counts them. Empty input yields no buckets.
func Bin(values []int, nbins int) Bins {
	if len(values) == 0 || nbins < 1 {
		return Bins{Width: 1, Counts: []int{}}
	}
	lo, hi := slices.Min(values), slices.Max(values)
	span := hi - lo + 1
	width := (span + nbins - 1) / nbins
	n := (span + width - 1) / width
	b := Bins{Lo: lo, Width: width, Counts: make([]int, n)}
	return b.Fill(values)
}

// Fill counts values into the receiver's buckets and returns a copy. Values
// outside the buckets are ignored.
func (b Bins) Fill(values []int) Bins {
	out := Bins{Lo: b.Lo, Width: b.Width, Counts: make([]int, len(b.Counts))}
	for _, v := range values {
		if v < b.Lo {
			continue
		}
		i := (v - b.Lo) / b.Width
		if i >= len(out.Counts) {
			continue
		}
		out.Counts[i]++
	}
	return out
}

// Total is the number of counted values.
func (b Bins) Total() int {
	total := 0
	for _, c := range b.Counts {
		total += c
	}
	return total
}

// Centers are the bucket midpoints, used as bar x positions.
func (b Bins) Centers() []float64 {
	out := make([]float64, len(b.Counts))
	for i := range b.Counts {
		out[i] = float64(b.Lo+i*b.Width) + float64(b.Width)/2
	}
	return out
}

// Labels name each bucket by its inclusive age range, e.g. "24" or "24-25".
func (b Bins) Labels() []string {
	out := make([]string, len(b.Counts))
	for i := range b.Counts {
		start := b.Lo + i*b.Width
		if b.Width == 1 {
			out[i] = fmt.Sprintf("%d", start)
			continue
		}
		out[i] = fmt.Sprintf("%d-%d", start, start+b.Width-1)
	}
	return out
}
