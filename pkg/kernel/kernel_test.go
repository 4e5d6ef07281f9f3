package kernel

import (
	"math"
	"testing"

	"github.com/chazu/vecgeo/pkg/geometry"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	if !(&Mesh{}).IsEmpty() {
		t.Error("IsEmpty() = false for empty mesh, want true")
	}
	if (&Mesh{Vertices: []float32{1, 2, 3}}).IsEmpty() {
		t.Error("IsEmpty() = true for non-empty mesh, want false")
	}
}

// unitSquare is the square (0,0)-(1,1) at z=0 split into two triangles
// wound counter-clockwise seen from +Z.
func unitSquare() *Mesh {
	return &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2, 2, 3, 0},
		Name:     "square",
	}
}

func TestMeshSurfaceArea(t *testing.T) {
	if got := unitSquare().SurfaceArea(); math.Abs(got-1) > 1e-9 {
		t.Errorf("SurfaceArea() = %v, want 1", got)
	}
	if got := (&Mesh{}).SurfaceArea(); got != 0 {
		t.Errorf("empty SurfaceArea() = %v, want 0", got)
	}
}

func TestMeshBounds(t *testing.T) {
	min, max := unitSquare().Bounds()
	if min != geometry.Pt(0, 0, 0) || max != geometry.Pt(1, 1, 0) {
		t.Errorf("Bounds() = %v, %v", min, max)
	}
	min, max = (&Mesh{}).Bounds()
	if min != (geometry.Point{}) || max != (geometry.Point{}) {
		t.Errorf("empty Bounds() = %v, %v", min, max)
	}
}

func TestMeshTransformed(t *testing.T) {
	m := unitSquare()
	moved := m.Transformed(geometry.Translation(10, 0, 5).Mul(geometry.Scale(2, 3, 1)))

	if moved.Name != "square" {
		t.Errorf("Name = %q, want square", moved.Name)
	}
	min, max := moved.Bounds()
	if !min.Equal(geometry.Pt(10, 0, 5)) || !max.Equal(geometry.Pt(12, 3, 5)) {
		t.Errorf("Bounds() = %v, %v", min, max)
	}
	if got := moved.SurfaceArea(); math.Abs(got-6) > 1e-6 {
		t.Errorf("SurfaceArea() = %v, want 6", got)
	}
	// original untouched
	if m.Vertices[3] != 1 {
		t.Error("Transformed mutated the source mesh")
	}
}

func TestMeshTransformedMirrorKeepsWinding(t *testing.T) {
	mirrored := unitSquare().Transformed(geometry.Scale(-1, 1, 1))
	for i := 0; i < mirrored.VertexCount(); i++ {
		if mirrored.Normals[3*i+2] != 1 {
			t.Fatalf("normal %d z = %v, want 1", i, mirrored.Normals[3*i+2])
		}
	}
	want := []uint32{0, 2, 1, 2, 0, 3}
	for i, idx := range mirrored.Indices {
		if idx != want[i] {
			t.Fatalf("Indices = %v, want %v", mirrored.Indices, want)
		}
	}
}

// tetrahedron is a closed mesh with unshared vertices per face, wound
// counter-clockwise when seen from outside.
func tetrahedron() *Mesh {
	corners := []geometry.Point{
		geometry.Pt(0, 0, 0), geometry.Pt(1, 0, 0), geometry.Pt(0, 1, 0), geometry.Pt(0, 0, 1),
	}
	faces := [][3]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}}
	m := &Mesh{Name: "tetra"}
	for _, f := range faces {
		for _, c := range f {
			p := corners[c]
			m.Indices = append(m.Indices, uint32(m.VertexCount()))
			m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
		}
	}
	m.Normals = make([]float32, len(m.Vertices))
	return m.Transformed(geometry.Identity())
}

// outwardShare returns the fraction of triangles whose stored normal points
// away from the mean vertex. Only meaningful for convex meshes.
func outwardShare(m *Mesh) float64 {
	var centre geometry.Point
	for i := 0; i < m.VertexCount(); i++ {
		centre = centre.Add(m.Vertex(i))
	}
	centre = centre.Scale(1 / float64(m.VertexCount()))
	out := 0
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		idx := m.Indices[3*i]
		n := geometry.Pt(float64(m.Normals[3*idx]), float64(m.Normals[3*idx+1]), float64(m.Normals[3*idx+2]))
		if n.Dot(tri.Centroid().Sub(centre)) > 0 {
			out++
		}
	}
	return float64(out) / float64(m.TriangleCount())
}

func TestMeshTransformedNormalsPointOutward(t *testing.T) {
	tests := []struct {
		name string
		t    geometry.Transform
	}{
		{"identity", geometry.Identity()},
		{"mirror x", geometry.Scale(-1, 1, 1)},
		{"mirror xy", geometry.Scale(-1, -1, 1)},
		{"mirror xyz", geometry.Scale(-2, -1, -3)},
		{"rotate then mirror", geometry.Scale(1, 1, -1).Mul(geometry.RotationZ(math.Pi / 3))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tetrahedron().Transformed(tt.t)
			if got := outwardShare(m); got != 1 {
				t.Errorf("outward share = %.2f, want 1", got)
			}
		})
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB geometry.Point
}

func (s *stubSolid) BoundingBox() (min, max geometry.Point) {
	return s.minBB, s.maxBB
}

// stubProfile is an axis-aligned box profile.
type stubProfile struct {
	minBB, maxBB geometry.Point
}

func (p *stubProfile) Contains(q geometry.Point) bool {
	return q.X >= p.minBB.X && q.X <= p.maxBB.X && q.Y >= p.minBB.Y && q.Y <= p.maxBB.Y
}

func (p *stubProfile) Bounds() (min, max geometry.Point) {
	return p.minBB, p.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. It models every shape by its centroid only.
type stubKernel struct{}

func (k *stubKernel) Profile(s geometry.Shape) (Profile, error) {
	c := s.Centroid()
	return &stubProfile{minBB: c, maxBB: c}, nil
}

func (k *stubKernel) Extrude(p Profile, height float64) (Solid, error) {
	min, max := p.Bounds()
	return &stubSolid{minBB: min, maxBB: max.Add(geometry.Pt(0, 0, height))}, nil
}

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Profile = (*stubProfile)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelExtrude(t *testing.T) {
	var k Kernel = &stubKernel{}
	r, err := geometry.NewRectangle(geometry.Pt(0, 0, 0), 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	p, err := k.Profile(r)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	s, err := k.Extrude(p, 3)
	if err != nil {
		t.Fatalf("Extrude() error = %v", err)
	}
	min, max := s.BoundingBox()
	if min != geometry.Pt(2, 1, 0) || max != geometry.Pt(2, 1, 3) {
		t.Errorf("BoundingBox() = %v, %v", min, max)
	}
}
