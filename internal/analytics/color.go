package analytics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DarkenStep is the brightness lost by each repeat of the same color.
const DarkenStep = 0.15

// ColorEntry is a chart entry with its declared color and the color to draw it with.
type ColorEntry struct {
	Color      string
	ChartColor string
}

// DisambiguateColors assigns ChartColor to each entry, in order. The first
// entry with a given Color keeps it; the n-th repeat (n >= 1) is darkened by
// factor 1 - n*DarkenStep, floored at 0. Only Color is read, so running it
// again over its own output gives the same result.
func DisambiguateColors(entries []ColorEntry) []ColorEntry {
	colors := make([]string, len(entries))
	for i, e := range entries {
		colors[i] = e.Color
	}
	chart := ChartColors(colors)
	out := make([]ColorEntry, len(entries))
	for i, e := range entries {
		out[i] = ColorEntry{Color: e.Color, ChartColor: chart[i]}
	}
	return out
}

// ChartColors is DisambiguateColors over bare color strings.
func ChartColors(colors []string) []string {
	seen := make(map[string]int, len(colors))
	out := make([]string, len(colors))
	for i, c := range colors {
		n := seen[c]
		seen[c] = n + 1
		if n == 0 {
			out[i] = c
			continue
		}
		out[i] = Darken(c, 1-float64(n)*DarkenStep)
	}
	return out
}

// Darken scales each RGB channel of a #RRGGBB color by factor, rounding to
// the nearest integer. The factor is clamped to [0, 1]. Colors that are not
// six hex digits are returned unchanged.
func Darken(color string, factor float64) string {
	r, g, b, ok := parseHex(color)
	if !ok {
		return color
	}
	factor = math.Max(0, math.Min(1, factor))
	return fmt.Sprintf("#%02x%02x%02x", scale(r, factor), scale(g, factor), scale(b, factor))
}

func scale(c uint8, factor float64) uint8 {
	v := math.Round(float64(c) * factor)
	return uint8(math.Max(0, math.Min(255, v)))
}

func parseHex(color string) (r, g, b uint8, ok bool) {
	hex := strings.TrimPrefix(color, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
