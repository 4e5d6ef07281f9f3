// Package report renders geometry results as text lines.
package report

import (
	"fmt"
	"slices"

	"deedles.dev/xiter"
	"github.com/chazu/vecgeo/pkg/geometry"
)

// Header is the first line of a results report.
const Header = "=== Geometry results ==="

// LineWriter accepts one line of text at a time. *filewriter.Writer
// satisfies it.
type LineWriter interface {
	WriteLine(line string) error
}

// Summary renders a shape's name, area and perimeter with four decimals.
func Summary(s geometry.Shape) string {
	return fmt.Sprintf("%s  area=%.4f  perimeter=%.4f", s.Name(), s.Area(), s.Perimeter())
}

// ShapeLine renders the report line for s:
//
//	<Name>  area=<v>  perimeter=<v>  centroid=<x>,<y>
func ShapeLine(s geometry.Shape) string {
	c := s.Centroid()
	return fmt.Sprintf("%s  centroid=%.4f,%.4f", Summary(s), c.X, c.Y)
}

// Write emits the header followed by one ShapeLine per shape. It stops at
// the first write error.
func Write(w LineWriter, shapes []geometry.Shape) error {
	if err := w.WriteLine(Header); err != nil {
		return fmt.Errorf("report: header: %w", err)
	}
	for i, s := range xiter.Enumerate(slices.Values(shapes)) {
		if err := w.WriteLine(ShapeLine(s)); err != nil {
			return fmt.Errorf("report: shape %d (%s): %w", i+1, s.Name(), err)
		}
	}
	return nil
}
