package kernel

import "github.com/chazu/vecgeo/pkg/geometry"

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // which scene shape this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns vertex i as a point.
func (m *Mesh) Vertex(i int) geometry.Point {
	v := m.Vertices[3*i : 3*i+3]
	return geometry.Pt(float64(v[0]), float64(v[1]), float64(v[2]))
}

// Triangle returns triangle i.
func (m *Mesh) Triangle(i int) geometry.Triangle {
	idx := m.Indices[3*i : 3*i+3]
	return geometry.NewTriangle(m.Vertex(int(idx[0])), m.Vertex(int(idx[1])), m.Vertex(int(idx[2])))
}

// SurfaceArea sums the areas of all triangles.
func (m *Mesh) SurfaceArea() float64 {
	var sum float64
	for i := 0; i < m.TriangleCount(); i++ {
		sum += m.Triangle(i).Area()
	}
	return sum
}

// Bounds returns the axis-aligned bounding box of the vertices. An empty
// mesh returns two zero points.
func (m *Mesh) Bounds() (lo, hi geometry.Point) {
	if m.IsEmpty() {
		return lo, hi
	}
	lo, hi = m.Vertex(0), m.Vertex(0)
	for i := 1; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		lo = geometry.Pt(min(lo.X, v.X), min(lo.Y, v.Y), min(lo.Z, v.Z))
		hi = geometry.Pt(max(hi.X, v.X), max(hi.Y, v.Y), max(hi.Z, v.Z))
	}
	return lo, hi
}

// Transformed returns a copy of m with every vertex mapped through t.
// When the linear part of t reverses orientation (a mirror), each
// triangle's winding is swapped so faces keep pointing outward. Normals
// are then recomputed from the mapped triangles.
func (m *Mesh) Transformed(t geometry.Transform) *Mesh {
	out := &Mesh{
		Vertices: make([]float32, len(m.Vertices)),
		Normals:  make([]float32, len(m.Normals)),
		Indices:  append([]uint32(nil), m.Indices...),
		Name:     m.Name,
	}
	for i := 0; i < m.VertexCount(); i++ {
		p := t.Apply(m.Vertex(i))
		out.Vertices[3*i] = float32(p.X)
		out.Vertices[3*i+1] = float32(p.Y)
		out.Vertices[3*i+2] = float32(p.Z)
	}
	if reversesOrientation(t) {
		for i := 0; i+2 < len(out.Indices); i += 3 {
			out.Indices[i+1], out.Indices[i+2] = out.Indices[i+2], out.Indices[i+1]
		}
	}
	if len(out.Normals) != len(out.Vertices) {
		return out
	}
	for i := 0; i < out.TriangleCount(); i++ {
		v := out.Triangle(i).Vertices()
		n, err := v[1].Sub(v[0]).Cross(v[2].Sub(v[0])).Normalized()
		if err != nil {
			// degenerate after mapping; leave a zero normal
			continue
		}
		for _, idx := range out.Indices[3*i : 3*i+3] {
			out.Normals[3*idx] = float32(n.X)
			out.Normals[3*idx+1] = float32(n.Y)
			out.Normals[3*idx+2] = float32(n.Z)
		}
	}
	return out
}

// reversesOrientation reports whether the upper-left 3x3 block of t has a
// negative determinant.
func reversesOrientation(t geometry.Transform) bool {
	r := t.Rows()
	det := r[0][0]*(r[1][1]*r[2][2]-r[1][2]*r[2][1]) -
		r[0][1]*(r[1][0]*r[2][2]-r[1][2]*r[2][0]) +
		r[0][2]*(r[1][0]*r[2][1]-r[1][1]*r[2][0])
	return det < 0
}
