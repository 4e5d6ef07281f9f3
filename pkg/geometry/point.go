package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the per-axis absolute tolerance used by Point.Equal.
// It suits the bounded magnitudes of this package and is not a
// general-purpose float comparator.
const Epsilon = 1e-9

// Point is a 3-D coordinate, also used as a vector.
type Point struct {
	X, Y, Z float64
}

// Pt is shorthand for Point{X: x, Y: y, Z: z}.
func Pt(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// Length returns the Euclidean norm.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return p.Sub(q).Length()
}

// Normalized returns the unit vector in the direction of p.
// A zero-length vector has no direction and yields ErrDomain.
func (p Point) Normalized() (Point, error) {
	l := p.Length()
	if l == 0 {
		return Point{}, fmt.Errorf("normalize %v: %w", p, ErrDomain)
	}
	return Point{p.X / l, p.Y / l, p.Z / l}, nil
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Scale returns p multiplied componentwise by s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s, p.Z * s}
}

// Dot returns the inner product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Cross returns the right-handed cross product p × q.
func (p Point) Cross(q Point) Point {
	return Point{
		p.Y*q.Z - p.Z*q.Y,
		p.Z*q.X - p.X*q.Z,
		p.X*q.Y - p.Y*q.X,
	}
}

// Equal reports whether every axis of p and q differs by less than
// Epsilon.
func (p Point) Equal(q Point) bool {
	return p.ApproxEqual(q, Epsilon)
}

// ApproxEqual is Equal with a caller-supplied tolerance.
func (p Point) ApproxEqual(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) < eps &&
		math.Abs(p.Y-q.Y) < eps &&
		math.Abs(p.Z-q.Z) < eps
}

// String renders p as "(x, y, z)" using default float formatting.
// Fixed precision is left to callers.
func (p Point) String() string {
	return fmt.Sprintf("(%v, %v, %v)", p.X, p.Y, p.Z)
}
