package scene

import (
	"fmt"

	"github.com/chazu/vecgeo/pkg/geometry"
)

// DefaultHeight is the extrusion height, in model units, given to a
// placement that does not set one.
const DefaultHeight = 1.0

// Placement positions a named shape in space. The shape is extruded along
// +Z by Height and then mapped through Transform.
type Placement struct {
	Shape     string             `json:"shape"`
	Transform geometry.Transform `json:"-"`
	Height    float64            `json:"height"`
	Line      int                `json:"line,omitempty"` // source line, 0 if unknown
}

// Scene is the result of one script evaluation.
type Scene struct {
	points     map[string]geometry.Point
	shapes     map[string]geometry.Shape
	order      []string // shape names in definition order
	lines      map[string]int
	Placements []Placement
}

// New returns an empty Scene.
func New() *Scene {
	return &Scene{
		points: make(map[string]geometry.Point),
		shapes: make(map[string]geometry.Shape),
		lines:  make(map[string]int),
	}
}

// DefinePoint registers a named point. Names are unique per scene.
func (s *Scene) DefinePoint(name string, p geometry.Point) error {
	if name == "" {
		return fmt.Errorf("scene: point name must not be empty")
	}
	if _, exists := s.points[name]; exists {
		return fmt.Errorf("scene: point %q already defined", name)
	}
	s.points[name] = p
	return nil
}

// Point returns the named point.
func (s *Scene) Point(name string) (geometry.Point, bool) {
	p, ok := s.points[name]
	return p, ok
}

// DefineShape registers a named shape. Names are unique per scene.
func (s *Scene) DefineShape(name string, sh geometry.Shape) error {
	return s.DefineShapeAt(name, sh, 0)
}

// DefineShapeAt is DefineShape for a shape defined on a known source line.
func (s *Scene) DefineShapeAt(name string, sh geometry.Shape, line int) error {
	if name == "" {
		return fmt.Errorf("scene: shape name must not be empty")
	}
	if sh == nil {
		return fmt.Errorf("scene: shape %q is nil", name)
	}
	if _, exists := s.shapes[name]; exists {
		return fmt.Errorf("scene: shape %q already defined", name)
	}
	s.shapes[name] = sh
	s.order = append(s.order, name)
	if line > 0 {
		s.lines[name] = line
	}
	return nil
}

// Shape returns the named shape, or nil.
func (s *Scene) Shape(name string) geometry.Shape {
	return s.shapes[name]
}

// ShapeNames returns shape names in definition order.
func (s *Scene) ShapeNames() []string {
	return append([]string(nil), s.order...)
}

// Shapes returns the shapes in definition order.
func (s *Scene) Shapes() []geometry.Shape {
	out := make([]geometry.Shape, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.shapes[name])
	}
	return out
}

// Place adds a placement of a defined shape. A zero height means
// DefaultHeight.
func (s *Scene) Place(name string, t geometry.Transform, height float64) error {
	return s.PlaceAt(name, t, height, 0)
}

// PlaceAt is Place for a placement made on a known source line.
func (s *Scene) PlaceAt(name string, t geometry.Transform, height float64, line int) error {
	if _, ok := s.shapes[name]; !ok {
		return fmt.Errorf("scene: no shape named %q", name)
	}
	if height == 0 {
		height = DefaultHeight
	}
	s.Placements = append(s.Placements, Placement{Shape: name, Transform: t, Height: height, Line: line})
	return nil
}

// ShapeCount returns the number of defined shapes.
func (s *Scene) ShapeCount() int {
	return len(s.order)
}

// PointCount returns the number of defined points.
func (s *Scene) PointCount() int {
	return len(s.points)
}
