package viewport

import (
	"math"
	"strconv"
	"strings"
)

// GridLine is one axis line of the work zone grid, in local coordinates.
type GridLine struct {
	Vertical bool
	Pos      float64 // Local x for vertical lines, local y for horizontal ones
	Value    float64 // World coordinate the line marks
	Label    string
}

// NiceStep returns the smallest step of the form 1, 2 or 5 times a power of
// ten that spans at least px pixels at the given scale.
func NiceStep(px, scale float64) float64 {
	want := px / math.Max(scale, 1e-6)
	base := math.Pow(10, math.Floor(math.Log10(want)))
	for _, m := range []float64{1, 2, 5, 10} {
		if step := m * base; step >= want {
			return step
		}
	}
	return 10 * base
}

// FormatLabel renders a world coordinate compactly for an axis label.
func FormatLabel(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1000:
		return trimZeros(strconv.FormatFloat(v/1000, 'f', 1, 64)) + "k"
	case abs >= 100:
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	case abs >= 10:
		return trimZeros(strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64))
	default:
		return trimZeros(strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64))
	}
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// Grid returns the grid lines covering the visible part of the world, spaced
// at least spacing pixels apart. Fixed viewports have no grid.
func (v *Viewport) Grid(spacing float64) []GridLine {
	if v.mode == Fixed {
		return nil
	}
	w, h := v.Size()
	s, tx, ty := v.view.Scale, v.view.TX, v.view.TY
	step := NiceStep(spacing, s)

	minX, maxX := -tx/s, (w-tx)/s
	minY, maxY := -ty/s, (h-ty)/s

	var lines []GridLine
	for _, x := range axisValues(minX, maxX, step) {
		lines = append(lines, GridLine{Vertical: true, Pos: x*s + tx, Value: x, Label: FormatLabel(x)})
	}
	for _, y := range axisValues(minY, maxY, step) {
		lines = append(lines, GridLine{Vertical: false, Pos: y*s + ty, Value: y, Label: FormatLabel(y)})
	}
	return lines
}

// maxAxisLines caps the lines drawn along one axis.
const maxAxisLines = 1000

// axisValues returns the multiples of step in [lo, hi]. The count is fixed
// up front from the span, so far-off offsets whose multiples no longer
// resolve in float64 still end.
func axisValues(lo, hi, step float64) []float64 {
	n := math.Ceil((hi-lo)/step) + 1
	if !(n > 0) {
		return nil
	}
	n = math.Min(n, maxAxisLines)
	first := math.Floor(lo / step)
	vals := make([]float64, 0, int(n))
	for k := 0; k < int(n); k++ {
		v := (first + float64(k)) * step
		if v > hi {
			break
		}
		vals = append(vals, v)
	}
	return vals
}
