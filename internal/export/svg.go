package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/magsim/internal/fieldline"
)

var palette = []string{"#00d7af", "#5fafff", "#ffaf00", "#ff5f87", "#afff5f", "#d787ff"}

// FieldLinesSVG renders traced lines into a width×height SVG whose viewport
// maps onto b, with y pointing up. Points outside b are clipped by the
// viewport, non-finite points split a line into separate paths.
func FieldLinesSVG(w io.Writer, lines []fieldline.Line, b fieldline.Bounds, width, height int) error {
	spanX := b.X.Span()
	spanY := b.Y.Span()
	if spanX == 0 || spanY == 0 {
		return fmt.Errorf("export: degenerate bounds %v x %v", b.X, b.Y)
	}

	toPx := func(p fieldline.Point) (float64, float64) {
		x := (p.X - b.X.Min) / spanX * float64(width)
		y := float64(height) - (p.Y-b.Y.Min)/spanY*float64(height)
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="none" stroke-width="1.5">
`, width, height, width, height)

	for i, line := range lines {
		d := pathData(line.Points, toPx)
		if d == "" {
			continue
		}
		fmt.Fprintf(&sb, `<path stroke="%s" d="%s"/>
`, palette[i%len(palette)], d)
	}

	sb.WriteString("</g>\n<g fill=\"#ffffff\">\n")
	for _, line := range lines {
		if !finite(line.Seed) {
			continue
		}
		cx, cy := toPx(line.Seed)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="2"/>
`, cx, cy)
	}
	sb.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func pathData(points []fieldline.Point, toPx func(fieldline.Point) (float64, float64)) string {
	var sb strings.Builder
	pen := false
	for _, p := range points {
		if !finite(p) {
			pen = false
			continue
		}
		x, y := toPx(p)
		if pen {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		pen = true
	}
	return sb.String()
}

func finite(p fieldline.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
