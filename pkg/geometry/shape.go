package geometry

import (
	"fmt"
	"math"
)

// Shape is a measurable planar figure. The set of shapes is closed:
// only Circle, Triangle and Rectangle implement it.
type Shape interface {
	Area() float64
	Perimeter() float64
	Name() string
	Centroid() Point

	shape() // marker method restricting implementations to this package
}

// ---------------------------------------------------------------------------
// Circle
// ---------------------------------------------------------------------------

// Circle is a circle in a plane parallel to XY.
type Circle struct {
	center Point
	radius float64
}

// NewCircle returns a circle. The radius must be positive.
func NewCircle(center Point, radius float64) (Circle, error) {
	if radius <= 0 {
		return Circle{}, fmt.Errorf("circle radius %v must be positive: %w", radius, ErrInvalidArgument)
	}
	return Circle{center: center, radius: radius}, nil
}

func (c Circle) Center() Point      { return c.center }
func (c Circle) Radius() float64    { return c.radius }
func (c Circle) Area() float64      { return math.Pi * c.radius * c.radius }
func (c Circle) Perimeter() float64 { return 2 * math.Pi * c.radius }
func (c Circle) Name() string       { return "Circle" }
func (c Circle) Centroid() Point    { return c.center }
func (Circle) shape()               {}

// ---------------------------------------------------------------------------
// Triangle
// ---------------------------------------------------------------------------

// Triangle is defined by three vertices. Collinear vertices are allowed
// and give a zero area.
type Triangle struct {
	a, b, c Point
}

// NewTriangle returns the triangle abc.
func NewTriangle(a, b, c Point) Triangle {
	return Triangle{a: a, b: b, c: c}
}

// Vertices returns the three vertices in construction order.
func (t Triangle) Vertices() [3]Point {
	return [3]Point{t.a, t.b, t.c}
}

func (t Triangle) sides() (ab, bc, ca float64) {
	return t.a.DistanceTo(t.b), t.b.DistanceTo(t.c), t.c.DistanceTo(t.a)
}

// Area uses Heron's formula. Rounding on collinear vertices can push the
// radicand slightly below zero; it is clamped so the area is 0, not NaN.
func (t Triangle) Area() float64 {
	ab, bc, ca := t.sides()
	s := (ab + bc + ca) / 2
	r := s * (s - ab) * (s - bc) * (s - ca)
	if r <= 0 {
		return 0
	}
	return math.Sqrt(r)
}

// Perimeter returns the sum of the three side lengths.
func (t Triangle) Perimeter() float64 {
	ab, bc, ca := t.sides()
	return ab + bc + ca
}

func (t Triangle) Name() string { return "Triangle" }

// Centroid returns the arithmetic mean of the vertices.
func (t Triangle) Centroid() Point {
	return t.a.Add(t.b).Add(t.c).Scale(1.0 / 3.0)
}

// Degenerate reports whether the vertices are collinear within Epsilon.
func (t Triangle) Degenerate() bool {
	return t.b.Sub(t.a).Cross(t.c.Sub(t.a)).Length() < Epsilon
}

func (Triangle) shape() {}

// ---------------------------------------------------------------------------
// Rectangle
// ---------------------------------------------------------------------------

// Rectangle is axis-aligned in the XY plane with its bottom-left corner
// at origin. The origin's Z is carried through to the centroid.
type Rectangle struct {
	origin        Point
	width, height float64
}

// NewRectangle returns a rectangle. Width and height must be positive.
func NewRectangle(origin Point, width, height float64) (Rectangle, error) {
	if width <= 0 || height <= 0 {
		return Rectangle{}, fmt.Errorf("rectangle %vx%v dimensions must be positive: %w", width, height, ErrInvalidArgument)
	}
	return Rectangle{origin: origin, width: width, height: height}, nil
}

func (r Rectangle) Origin() Point      { return r.origin }
func (r Rectangle) Width() float64     { return r.width }
func (r Rectangle) Height() float64    { return r.height }
func (r Rectangle) Area() float64      { return r.width * r.height }
func (r Rectangle) Perimeter() float64 { return 2 * (r.width + r.height) }
func (r Rectangle) Name() string       { return "Rectangle" }

func (r Rectangle) Centroid() Point {
	return r.origin.Add(Point{X: r.width / 2, Y: r.height / 2})
}

func (Rectangle) shape() {}

// Compile-time checks that the concrete shapes implement Shape.
var (
	_ Shape = Circle{}
	_ Shape = Triangle{}
	_ Shape = Rectangle{}
)
