package main

import (
	"fmt"
	"io"
	"math"

	"github.com/chazu/vecgeo/pkg/filewriter"
	"github.com/chazu/vecgeo/pkg/geometry"
	"github.com/chazu/vecgeo/pkg/logging"
	"github.com/chazu/vecgeo/pkg/report"
)

// runDemo walks through point algebra, shape measurement and transforms,
// printing to out, then writes the shape report to outPath. A report that
// cannot be written is logged as a warning and does not fail the run.
func runDemo(log *logging.Logger, out io.Writer, outPath string) error {
	log.Info("=== Geometry demo starting ===")

	log.Debug("Creating points")
	origin := geometry.Pt(0, 0, 0)
	p1 := geometry.Pt(3, 4, 0)
	p2 := geometry.Pt(6, 0, 0)
	p3 := geometry.Pt(1, 1, 1)

	fmt.Fprintln(out, "\n-- Points --")
	fmt.Fprintf(out, "origin = %v\n", origin)
	fmt.Fprintf(out, "p1     = %v  |p1| = %v\n", p1, p1.Length())
	fmt.Fprintf(out, "p2     = %v\n", p2)
	fmt.Fprintf(out, "p1+p2  = %v\n", p1.Add(p2))
	fmt.Fprintf(out, "p1·p2  = %v\n", p1.Dot(p2))
	fmt.Fprintf(out, "p1×p3  = %v\n", p1.Cross(p3))
	fmt.Fprintf(out, "dist(origin, p1) = %v\n", origin.DistanceTo(p1))

	log.Debug("Building shapes")
	shapes, err := demoShapes(origin, p1, p2)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\n-- Shapes --")
	for _, s := range shapes {
		log.Info(report.Summary(s))
		fmt.Fprintf(out, "  centroid = %v\n", s.Centroid())
	}

	log.Debug("Applying transforms")
	t1 := geometry.Translation(1, 2, 3)
	rx := geometry.RotationX(math.Pi / 4)
	combined := t1.Mul(rx)

	moved := t1.Apply(p1)
	fmt.Fprintln(out, "\n-- Transforms --")
	fmt.Fprintf(out, "p1 translated(1,2,3) = %v\n", moved)
	fmt.Fprintf(out, "p1 rotatedX(45°)     = %v\n", rx.Apply(p1))
	fmt.Fprintf(out, "p1 combined          = %v\n", combined.Apply(p1))

	inv, err := t1.Inverse()
	if err != nil {
		return fmt.Errorf("demo: invert translation: %w", err)
	}
	fmt.Fprintf(out, "round-trip (should equal p1): %v\n", inv.Apply(moved))

	log.Debugf("Writing results to %s", outPath)
	if err := writeReport(log, outPath, shapes); err != nil {
		log.Warningf("Could not write output file: %v", err)
	}

	log.Info("=== Done ===")
	return nil
}

// demoShapes builds the circle, triangle and rectangle the demo measures.
func demoShapes(origin, p1, p2 geometry.Point) ([]geometry.Shape, error) {
	c, err := geometry.NewCircle(origin, 5)
	if err != nil {
		return nil, fmt.Errorf("demo: circle: %w", err)
	}
	r, err := geometry.NewRectangle(origin, 4, 3)
	if err != nil {
		return nil, fmt.Errorf("demo: rectangle: %w", err)
	}
	return []geometry.Shape{c, geometry.NewTriangle(origin, p1, p2), r}, nil
}

// writeReport writes the results report for shapes to path, truncating
// any previous content.
func writeReport(log *logging.Logger, path string, shapes []geometry.Shape) (err error) {
	w, err := filewriter.Open(path, false)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	if err := report.Write(w, shapes); err != nil {
		return err
	}
	log.Slog().Info("Results written", "path", path, "bytes", w.BytesWritten())
	return nil
}
